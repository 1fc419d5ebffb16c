package table

import "fmt"

// SchemaError reports a structural problem with an input source: a missing
// required column, a year that will not coerce to an integer, or duplicate
// keys where the source promised uniqueness. It is fatal - the pipeline
// aborts before writing any output.
type SchemaError struct {
	Source string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("source %q: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("source %q, column %q: %s", e.Source, e.Column, e.Reason)
}
