package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var aliases = map[string]string{
	"bitrate": "gte=0",
}

var validators = map[string]validator.Func{
	"locator": ValidateLocator,
}

// ValidateLocator accepts a bare room name or a full conference URL.
// Only emptiness, whitespace and control characters are rejected; whether the
// value is a URL is decided later by the normalizer.
func ValidateLocator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}
