package recorder

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed record.schema.json
var recordSchema string

var schemaLoader = gojsonschema.NewStringLoader(recordSchema)

// ValidationError lists every field of a record that does not match the schema.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid session record:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Validate checks the record against the embedded schema and the alignment of
// questions, answers and scores.
func Validate(record *Record) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(record))
	if err != nil {
		return fmt.Errorf("validating session record: %w", err)
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
	}

	if len(record.Answers) != len(record.Questions) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "answers",
			Message: fmt.Sprintf("expected %d answers, got %d", len(record.Questions), len(record.Answers)),
		})
	}

	if len(record.Scores) != len(record.Questions) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "scores",
			Message: fmt.Sprintf("expected %d scores, got %d", len(record.Questions), len(record.Scores)),
		})
	}

	if len(ve.Errors) > 0 {
		return ve
	}

	return nil
}
