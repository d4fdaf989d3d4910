package csvimport

import "fmt"

// Code classifies an Issue. The set is closed.
type Code string

const (
	// file-level
	CodeEmptyFile      Code = "empty_file"
	CodeMissingHeader  Code = "missing_header"
	CodeColumnMismatch Code = "column_mismatch"

	// record-level
	CodeRequired          Code = "required"
	CodeInvalidEmail      Code = "invalid_email"
	CodeInvalidPhone      Code = "invalid_phone"
	CodeDuplicateInFile   Code = "duplicate_in_file"
	CodeAlreadyRegistered Code = "already_registered"
)

// Issue is one problem found in the input. File-level issues leave Field empty;
// record-level issues name the offending column. Message is meant to be shown
// to the user verbatim.
type Issue struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	return i.Message
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// Messages flattens issues into their display strings.
func Messages(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Message)
	}
	return out
}
