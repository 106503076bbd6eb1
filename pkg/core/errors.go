// pkg/core/errors.go
package core

import "fmt"

// SchemaError reports a required field that is missing or malformed in a save record.
type SchemaError struct {
	Record string // e.g. "soldier 42", empty when not yet known
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("schema error in %s: %s: %s", e.Record, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema error: %s: %s", e.Field, e.Reason)
}
