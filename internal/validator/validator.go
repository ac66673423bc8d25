package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks struct tags and returns a field-level error message suitable
// for the response body.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
