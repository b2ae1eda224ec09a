package entity

import "fmt"

// ValidationError describes a field-level validation failure.
// The message is safe to surface to API callers.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
