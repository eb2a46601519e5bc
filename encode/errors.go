package encode

import (
	"fmt"
)

// MissingBaseAddressError indicates binary output was requested for an image
// that does not start at address zero, without a base address.
type MissingBaseAddressError struct {
	Lowest uint64
}

func (e *MissingBaseAddressError) Error() string {
	return fmt.Sprintf("missing base address: image starts at 0x%08X, binary output needs an explicit origin",
		e.Lowest)
}

// BaseAddressTooHighError indicates a base address above the lowest occupied address.
type BaseAddressTooHighError struct {
	Base   uint32
	Lowest uint64
}

func (e *BaseAddressTooHighError) Error() string {
	return fmt.Sprintf("base address 0x%08X is above the lowest occupied address 0x%08X",
		e.Base, e.Lowest)
}

// EncodeError indicates that an image could not be serialized.
type EncodeError struct {
	Format Format
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("encode %s: %s", e.Format, e.Reason)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
