package csvimport

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/eduadmin/internal/validation"
)

// Validate checks the required fields of rec and returns one issue per failing
// field, in column order. It never mutates rec.
func Validate(rec Record) []Issue {
	err := validation.Validator().Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable if Record stops being a struct.
		return []Issue{{Code: CodeRequired, Line: rec.Line, Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, fieldIssue(fe.Field(), fe.Tag(), rec.Line))
	}
	return issues
}

func fieldIssue(field, tag string, line int) Issue {
	switch tag {
	case validation.TagEmail:
		return Issue{
			Code:    CodeInvalidEmail,
			Field:   field,
			Line:    line,
			Message: "email format is invalid",
		}
	case validation.TagPhone:
		return Issue{
			Code:    CodeInvalidPhone,
			Field:   field,
			Line:    line,
			Message: "phone format is invalid (e.g. 010-1234-5678)",
		}
	default:
		return Issue{
			Code:    CodeRequired,
			Field:   field,
			Line:    line,
			Message: fmt.Sprintf("%s is required", field),
		}
	}
}
