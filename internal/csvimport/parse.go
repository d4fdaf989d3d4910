// Package csvimport turns student CSV text into validated, deduplicated
// candidate records and produces the matching template.
//
// The format is deliberately simple: comma separated, header first, UTF-8,
// no quoting. A value containing a comma shifts the column count and the line
// is reported as malformed.
//
// Nothing here returns an error for bad input. Problems are reported as Issue
// values, either on the Result (file-level) or on a Record (row-level).
package csvimport

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const bom = "\ufeff"

// Result is the outcome of one Parse call.
type Result struct {
	Success      bool     `json:"success"`
	Records      []Record `json:"records"`
	FileErrors   []Issue  `json:"fileErrors"`
	ValidCount   int      `json:"validCount"`
	InvalidCount int      `json:"invalidCount"`
}

// Valid returns the records without issues, in input order.
func (r Result) Valid() []Record {
	out := make([]Record, 0, r.ValidCount)
	for _, rec := range r.Records {
		if rec.Valid() {
			out = append(out, rec)
		}
	}
	return out
}

// Invalid returns the records with at least one issue, in input order.
func (r Result) Invalid() []Record {
	out := make([]Record, 0, r.InvalidCount)
	for _, rec := range r.Records {
		if !rec.Valid() {
			out = append(out, rec)
		}
	}
	return out
}

// WithDuplicates runs CheckDuplicates over the records and recounts.
// r itself is left untouched.
func (r Result) WithDuplicates(existingEmails []string) Result {
	return summarize(CheckDuplicates(r.Records, existingEmails), slices.Clone(r.FileErrors))
}

func summarize(records []Record, fileErrors []Issue) Result {
	if records == nil {
		records = []Record{}
	}
	if fileErrors == nil {
		fileErrors = []Issue{}
	}

	res := Result{Records: records, FileErrors: fileErrors}
	for _, rec := range records {
		if rec.Valid() {
			res.ValidCount++
		} else {
			res.InvalidCount++
		}
	}
	res.Success = res.InvalidCount == 0 && len(fileErrors) == 0
	return res
}

// Parse parses text using the local date for missing enroll dates.
func Parse(text string) Result {
	return ParseAt(text, time.Now())
}

// ParseAt parses text; today supplies the default enrollDate.
//
// Line numbers in issues are 1-based and count from the first line of the
// trimmed input, header included.
func ParseAt(text string, today time.Time) Result {
	text = strings.TrimSpace(strings.TrimPrefix(text, bom))
	if text == "" {
		return summarize(nil, []Issue{{Code: CodeEmptyFile, Message: "file is empty"}})
	}

	lines := strings.Split(text, "\n")
	header := parseHeader(lines[0])

	if missing := missingColumns(header); len(missing) > 0 {
		return summarize(nil, []Issue{{
			Code:    CodeMissingHeader,
			Line:    1,
			Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}})
	}

	var (
		records    []Record
		fileErrors []Issue
	)

	for i, line := range lines[1:] {
		lineNum := i + 2
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		row, ok := SplitRow(header, line)
		if !ok {
			fileErrors = append(fileErrors, Issue{
				Code: CodeColumnMismatch,
				Line: lineNum,
				Message: fmt.Sprintf("line %d: expected %d columns, got %d",
					lineNum, len(header), strings.Count(line, ",")+1),
			})
			continue
		}

		rec := Decode(row, lineNum, today)
		if issues := Validate(rec); len(issues) > 0 {
			rec.Errors = issues
		}
		records = append(records, rec)
	}

	return summarize(records, fileErrors)
}

func parseHeader(line string) []string {
	fields := strings.Split(strings.TrimSuffix(line, "\r"), ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
