package memimage

import "fmt"

// AddressSpace is the size of the 32-bit address space.
const AddressSpace uint64 = 1 << 32

// Run is a contiguous block of bytes anchored at an absolute address.
type Run struct {
	// Address is the absolute address of Data[0]
	Address uint32

	// Data holds the bytes occupying [Address, Address+len(Data))
	Data []byte
}

// End returns the exclusive end address of the run.
func (r Run) End() uint64 {
	return uint64(r.Address) + uint64(len(r.Data))
}

func (r Run) String() string {
	return fmt.Sprintf("[0x%08X, 0x%08X)", r.Address, r.End())
}

// LoadBinary wraps raw bytes loaded at base into a Run.
// The data slice is not copied.
func LoadBinary(data []byte, base uint32) (Run, error) {
	run := Run{Address: base, Data: data}
	if run.End() > AddressSpace {
		return Run{}, &AddressOverflowError{Address: uint64(base), Length: len(data)}
	}
	return run, nil
}

// Range is a half-open address interval [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

// Len returns the number of addresses in the range.
func (r Range) Len() uint64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%08X, 0x%08X)", r.Start, r.End)
}

// Conflict records an address range where incoming data replaced bytes
// stored earlier by a different (or the same) source.
type Conflict struct {
	Range    Range
	Existing string
	Incoming string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s overwrites %s at %s (%d bytes)",
		c.Incoming, c.Existing, c.Range, c.Range.Len())
}
