package interview

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrIncompleteInput is returned when the job description or the résumé is empty.
var ErrIncompleteInput = errors.New("both the job description and résumé text are required")

var validate = validator.New()

// Input is what the hiring side provides before questions can be generated.
type Input struct {
	JobDescription string `validate:"required"`
	Resume         string `validate:"required"`
}

// Validate reports ErrIncompleteInput naming the missing fields.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}

	return fmt.Errorf("%w: missing %v", ErrIncompleteInput, missing)
}

// Ready reports whether questions can be generated from the input.
func (in Input) Ready() bool {
	return in.Validate() == nil
}
