package cli

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// exitError carries the exit code a failed command should produce.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userErrors are the sentinels caused by bad input rather than by the system.
var userErrors = []error{
	types.ErrTableNotFound,
	types.ErrStructNotFound,
	types.ErrRowNotFound,
	types.ErrFieldNotFound,
	types.ErrRowExists,
	types.ErrInvalidValue,
	types.ErrTypeMismatch,
	types.ErrInvalidSchema,
	types.ErrFormatUnknown,
	types.ErrProjectDirEmpty,
	types.ErrHistoryDepthInvalid,
	types.ErrLogLevelUnknown,
}

// classify wraps err with an exit code: user errors exit 1, anything else 2.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	wrapped := fmt.Errorf("%s: %w", op, err)
	for _, sentinel := range userErrors {
		if errors.Is(err, sentinel) {
			return &exitError{code: exitUserError, err: wrapped}
		}
	}
	return &exitError{code: exitSysError, err: wrapped}
}

// exitCode returns the exit code for an error returned by a command.
// Errors not produced by classify, such as cobra argument errors, are user
// errors.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
