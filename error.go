package sobel

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidState is returned if pool method cannot be executed at this
	// moment.
	ErrInvalidState = errors.New("invalid state")
	// ErrWorkers is returned if pool is configured with unsupported number
	// of workers.
	ErrWorkers = errors.New("unsupported number of workers")
)

// ErrorRun is returned if pool was successfully started, but execution
// and/or flush failed.
type ErrorRun struct {
	ErrExec  error
	ErrFlush error
}

func (e *ErrorRun) Error() string {
	switch {
	case e.ErrExec != nil && e.ErrFlush != nil:
		return fmt.Sprintf("flush error: %v after execute error: %v", e.ErrFlush, e.ErrExec)
	case e.ErrExec != nil:
		return fmt.Sprintf("execute error: %v", e.ErrExec)
	case e.ErrFlush != nil:
		return fmt.Sprintf("flush error: %v", e.ErrFlush)
	}
	return ""
}

// Is checks if any of errors match provided sentinel error.
func (e *ErrorRun) Is(err error) bool {
	if e.ErrExec != nil && errors.Is(e.ErrExec, err) {
		return true
	}
	if e.ErrFlush != nil && errors.Is(e.ErrFlush, err) {
		return true
	}
	return false
}

// runError returns untyped nil if both errors are nil.
func runError(errExec, errFlush error) error {
	if errExec == nil && errFlush == nil {
		return nil
	}
	return &ErrorRun{ErrExec: errExec, ErrFlush: errFlush}
}

// flushErrors wraps errors that might occur when both source and sink
// fail to flush.
type flushErrors []error

func (e flushErrors) Error() string {
	s := make([]string, 0, len(e))
	for _, fe := range e {
		s = append(s, fe.Error())
	}
	return strings.Join(s, ", ")
}

// Unwrap allows to match any of the flush errors.
func (e flushErrors) Unwrap() []error {
	return e
}

// ret returns untyped nil if error list is empty and the only error if
// there is just one.
func (e flushErrors) ret() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	}
	return e
}
