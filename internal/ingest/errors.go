package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema marks input whose header does not carry the mapped columns.
	ErrSchema = errors.New("input schema mismatch")

	// ErrSheetNotFound is returned when an explicitly named sheet is absent.
	ErrSheetNotFound = errors.New("sheet not found")
)

// SchemaError lists every mapped column absent from the input header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
