// Package apperr defines the error kinds shared by the generator, the engine
// and the snapshot store. Producers wrap one of the sentinels with context;
// callers classify with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidInput marks malformed generation parameters or engine input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a reference to a movie or run that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIO marks a persistence failure.
	ErrIO = errors.New("io failure")
)

// Kind returns the sentinel err wraps, or nil when it wraps none of them.
func Kind(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return ErrInvalidInput
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrIO):
		return ErrIO
	}
	return nil
}
