package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRow     = errors.New("invalid row")
	ErrUnknownCommand = errors.New("unknown command")
)

// RowError describes a source line that was skipped during load.
type RowError struct {
	Line   int
	Fields int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d skipped: found %d fields instead of %d", e.Line, e.Fields, FieldCount)
}
