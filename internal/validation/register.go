package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/imtaco/meet-embed/internal/errors"
)

const ErrEngine errors.Code = "validator engine"

// install adds every custom tag of this package to v.
func install(v *validator.Validate) error {
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return errors.Wrapf(ErrEngine, err, "register %q", tag)
		}
	}
	for tag, alias := range aliases {
		v.RegisterAlias(tag, alias)
	}
	return nil
}

// ginEngine is the validator behind gin's ShouldBind* calls.
func ginEngine() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, errors.New(ErrEngine, "gin binding does not use go-playground/validator")
	}
	return v, nil
}

func init() {
	v, err := ginEngine()
	if err == nil {
		err = install(v)
	}
	if err != nil {
		panic(err)
	}
}

// New returns a validator carrying the same custom tags the gin binding uses.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := install(v); err != nil {
		panic(err)
	}
	return v
}
