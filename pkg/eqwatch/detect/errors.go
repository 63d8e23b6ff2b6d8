package detect

import "fmt"

// ValidationError represents a schema-level problem in a detector file
// (wrong version, no detectors, too many detectors).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// DefinitionError represents a problem with an individual detector
// definition (missing fields, duplicate id, bad trigger).
type DefinitionError struct {
	Index   int // 0-based index in the file
	ID      int // detector id (0 if the id field itself is missing)
	Field   string
	Message string
	Cause   error
}

func (e *DefinitionError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("detector %d: %s: %s", e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("detectors[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap enables errors.Is/errors.As over the underlying cause.
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}
