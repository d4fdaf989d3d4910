package csvimport

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Column names recognised in the header, in canonical template order.
const (
	ColName       = "name"
	ColEmail      = "email"
	ColPhone      = "phone"
	ColProgram    = "program"
	ColTeam       = "team"
	ColCoach      = "coach"
	ColEnrollDate = "enrollDate"
)

// DateLayout is the format of EnrollDate.
const DateLayout = "2006-01-02"

var (
	// RequiredColumns must all be present in the header, in any order.
	RequiredColumns = []string{ColName, ColEmail, ColPhone, ColProgram}

	// OptionalColumns are recognised but may be omitted.
	OptionalColumns = []string{ColTeam, ColCoach, ColEnrollDate}
)

// Columns returns the canonical column order used by the template.
func Columns() []string {
	return append(slices.Clone(RequiredColumns), OptionalColumns...)
}

// Row is the loosely typed first stage of a parsed line: header name to
// trimmed cell value.
type Row map[string]string

// Record is a candidate student parsed from one CSV line. A record with a
// non-empty Errors list is invalid; it is still returned so callers can show it.
type Record struct {
	Line       int               `json:"line"`
	Name       string            `json:"name" csv:"name" validate:"required"`
	Email      string            `json:"email" csv:"email" validate:"required,loose_email"`
	Phone      string            `json:"phone" csv:"phone" validate:"required,kr_mobile"`
	Program    string            `json:"program" csv:"program" validate:"required"`
	Team       string            `json:"team,omitempty"`
	Coach      string            `json:"coach,omitempty"`
	EnrollDate string            `json:"enrollDate"`
	Extra      map[string]string `json:"extra,omitempty"`
	Errors     []Issue           `json:"errors,omitempty"`
}

// Valid reports whether the record carries no issues.
func (r Record) Valid() bool {
	return len(r.Errors) == 0
}

// clone returns a copy that shares no mutable state with r.
func (r Record) clone() Record {
	r.Errors = slices.Clone(r.Errors)
	r.Extra = maps.Clone(r.Extra)
	return r
}

// SplitRow zips header names with the comma-separated values of line.
// ok is false when the value count does not match the header.
func SplitRow(header []string, line string) (row Row, ok bool) {
	values := strings.Split(line, ",")
	if len(values) != len(header) {
		return nil, false
	}

	row = make(Row, len(header))
	for i, h := range header {
		row[h] = strings.TrimSpace(values[i])
	}
	return row, true
}

// Decode is the second stage: it maps a Row onto a Record. Unknown named
// columns are kept in Extra, unnamed ones are dropped, and a blank enrollDate
// becomes today's date.
func Decode(row Row, line int, today time.Time) Record {
	rec := Record{Line: line}

	for col, val := range row {
		switch col {
		case ColName:
			rec.Name = val
		case ColEmail:
			rec.Email = val
		case ColPhone:
			rec.Phone = val
		case ColProgram:
			rec.Program = val
		case ColTeam:
			rec.Team = val
		case ColCoach:
			rec.Coach = val
		case ColEnrollDate:
			rec.EnrollDate = val
		case "":
			// Unnamed column, e.g. from a trailing comma in the header.
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = val
		}
	}

	if rec.EnrollDate == "" {
		rec.EnrollDate = today.Format(DateLayout)
	}

	return rec
}
