// Package errors defines the sentinel error kinds shared by the resolver and
// its collaborators, plus an AppError wrapper that carries a process exit code
// for the CLI.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrLookupNotFound    = errors.New("lookup not found")
	ErrNameNotFound      = errors.New("name not found")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrDataIntegrity     = errors.New("data integrity fault")
	ErrMalformedRow      = errors.New("malformed row")
	ErrInvalidInput      = errors.New("invalid input")
	ErrCacheUnavailable  = errors.New("cache unavailable")
)

// Exit codes returned by the CLI.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: ExitError,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: ExitError,
	}
}

// Is reports whether any error in err's chain matches target. It saves
// callers from importing both this package and the standard library one.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return ExitUsage
	default:
		return ExitError
	}
}
