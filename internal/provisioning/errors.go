package provisioning

import "errors"

// TransientHostingError wraps a hosting failure that may succeed on retry:
// network errors, 5xx responses, rate limiting.
type TransientHostingError struct {
	Err error
}

func (e *TransientHostingError) Error() string {
	return "transient hosting error: " + e.Err.Error()
}

func (e *TransientHostingError) Unwrap() error {
	return e.Err
}

// PermanentHostingError wraps a hosting failure that retrying cannot fix:
// authentication and permission problems.
type PermanentHostingError struct {
	Err error
}

func (e *PermanentHostingError) Error() string {
	return "permanent hosting error: " + e.Err.Error()
}

func (e *PermanentHostingError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientHostingError. Returns nil for nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientHostingError{Err: err}
}

// Permanent wraps err as a PermanentHostingError. Returns nil for nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentHostingError{Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientHostingError.
func IsTransient(err error) bool {
	var t *TransientHostingError
	return errors.As(err, &t)
}

// IsPermanent reports whether err is (or wraps) a PermanentHostingError.
func IsPermanent(err error) bool {
	var p *PermanentHostingError
	return errors.As(err, &p)
}
