package schema

import (
	"fmt"
	"strings"
)

// FieldError describes one violated constraint on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every constraint violation found while
// validating one input value, not just the first.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.String())
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any violation was recorded for the named field.
func (e ValidationErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}
