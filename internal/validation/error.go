package validation

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"
)

// Error represents a validation error
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationError flattens validator errors; other errors yield nil.
func FormatValidationError(err error) []Error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return nil
	}
	out := make([]Error, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, Error{
			Field:   e.Namespace(),
			Message: e.Error(),
		})
	}
	return out
}
