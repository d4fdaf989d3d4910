// Package validation wraps go-playground/validator with the field rules
// shared by the CSV import pipeline and the JSON handlers.
//
// Custom tags:
//
//	loose_email — one "@", a non-whitespace local part, a domain containing "."
//	kr_mobile   — Korean mobile number: 01X, optional "-", 3–4 digits, optional "-", 4 digits.
//	              Whitespace is ignored for the check.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Tag names registered on the shared validator.
const (
	TagEmail = "loose_email"
	TagPhone = "kr_mobile"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^01[0-9]-?[0-9]{3,4}-?[0-9]{4}$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator. It is safe for concurrent use
// and caches struct metadata, so building one per request is wasteful.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report field names the way clients see them (json / csv tags).
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"csv", "json"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})

		// Registration only fails for empty tags or nil funcs.
		_ = v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		})
		_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})

		instance = v
	})
	return instance
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhone reports whether s is a Korean mobile number, ignoring whitespace.
func IsPhone(s string) bool {
	return phonePattern.MatchString(stripSpace(s))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
