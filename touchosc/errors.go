package touchosc

import (
	"errors"
	"fmt"
)

var (
	ErrAddressInUse   = errors.New("address in use")
	ErrAddressOverlap = errors.New("address overlaps a registered array element")
	ErrUnknownAddress = errors.New("not a registered address")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidSize    = errors.New("size must be positive")
	ErrKindMismatch   = errors.New("control kind mismatch")
)

// AddressError records a configuration error and the address that
// caused it.
type AddressError struct {
	Op   string
	Addr string
	Err  error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("touchosc: %s %q: %v", e.Op, e.Addr, e.Err)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}
