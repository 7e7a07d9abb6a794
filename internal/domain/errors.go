package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPopulation is returned when percentile ranking is invoked on a
	// zero-size batch. Callers must short-circuit on empty candidate batches
	// before reaching the normalizer.
	ErrEmptyPopulation = errors.New("percentile rank over empty population")
)

// DataUnavailableError wraps a failed batched read against the signal store
// or another backing collaborator. The scoring pipeline never retries it;
// the caller renders an empty result set with an error indicator.
type DataUnavailableError struct {
	Op    string
	Cause error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable during %s: %v", e.Op, e.Cause)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Cause
}

// DataUnavailable wraps err as a DataUnavailableError for operation op.
func DataUnavailable(op string, err error) error {
	return &DataUnavailableError{Op: op, Cause: err}
}

// IsDataUnavailable reports whether err is (or wraps) a DataUnavailableError.
func IsDataUnavailable(err error) bool {
	var du *DataUnavailableError
	return errors.As(err, &du)
}
