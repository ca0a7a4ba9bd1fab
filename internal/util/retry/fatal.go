package retry

import "errors"

// FatalError marks an error that must not be retried. It carries the
// wrapped error's message unchanged so callers can still match on it
// with [errors.As] further up the chain.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err so [WithExponentialBackoff] returns it without further
// attempts. Returns nil for nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err is (or wraps) a [FatalError].
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
