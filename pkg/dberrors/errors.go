package dberrors

import "errors"

var (
	ErrNotFound         = errors.New("widgetdb: not found")
	ErrCapacityExceeded = errors.New("widgetdb: z capacity exceeded")
	ErrInvalidArgument  = errors.New("widgetdb: invalid argument")
	// ErrInternal marks an index integrity failure, never a caller mistake.
	ErrInternal = errors.New("widgetdb: internal integrity error")
)

// IsInternal reports whether err should be alerted on rather than returned to the caller as-is.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
