package memimage

import (
	"errors"
	"fmt"
)

// ErrSealed is returned by Merge once the image has been handed to an encoder.
var ErrSealed = errors.New("memory image is sealed")

// AddressOverflowError indicates that a block of data would extend past the
// 32-bit address space.
type AddressOverflowError struct {
	Address uint64
	Length  int
}

func (e *AddressOverflowError) Error() string {
	return fmt.Sprintf("address overflow: %d bytes at 0x%08X exceed the 32-bit address space",
		e.Length, e.Address)
}

// RangeOverflowError indicates an invalid read range.
type RangeOverflowError struct {
	Start uint64
	End   uint64
}

func (e *RangeOverflowError) Error() string {
	if e.End < e.Start {
		return fmt.Sprintf("range overflow: end 0x%X is below start 0x%X", e.End, e.Start)
	}
	return fmt.Sprintf("range overflow: [0x%X, 0x%X) exceeds the 32-bit address space", e.Start, e.End)
}
