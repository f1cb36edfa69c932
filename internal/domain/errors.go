package domain

import "errors"

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreOperation   = errors.New("store operation failed")

	ErrAlreadyOnShift = errors.New("shift already open")
	ErrNoOpenShift    = errors.New("no open shift")
	ErrAlreadyOnBreak = errors.New("break already open")
	ErrNoOpenBreak    = errors.New("no open break")

	// Returned only when the matching BreakPolicy switch is on.
	ErrNotOnShift     = errors.New("break requires an open shift")
	ErrOtherBreakOpen = errors.New("another break is open")

	ErrUnknownBreakKind = errors.New("unknown break kind")
)

// StoreError wraps a failed read or write with the operation that issued it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreOperation
}

// WrapStore returns nil for a nil err, otherwise a *StoreError.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
