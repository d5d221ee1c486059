package sheets

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL         = errors.New("not a Google Sheets URL")
	ErrTabNotFound        = errors.New("sheet tab not found")
	ErrInaccessible       = errors.New("sheet is not publicly readable")
	ErrMissingTitleColumn = errors.New(`no "Task" or "Title" column`)
)

// ImportError carries the failing step and a message fit for the import form.
type ImportError struct {
	Op      string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sheet import: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sheet import: %s: %s", e.Op, e.Message)
}

func (e *ImportError) Unwrap() error { return e.Err }

func importErr(op string, err error, format string, args ...any) error {
	return &ImportError{Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}
