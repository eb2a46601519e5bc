package encode

import (
	"fmt"
	"strings"

	"github.com/moffa90/go-fwmerge/ihex"
)

// Format selects the output encoding.
type Format int

const (
	// FormatBin is a flat binary padded from an origin address
	FormatBin Format = iota

	// FormatHex is sparse Intel HEX text
	FormatHex
)

func (f Format) String() string {
	switch f {
	case FormatBin:
		return "bin"
	case FormatHex:
		return "hex"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat converts a format name ("bin" or "hex", case-insensitive).
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bin", "binary", "raw":
		return FormatBin, nil
	case "hex", "ihex", "intelhex":
		return FormatHex, nil
	default:
		return 0, fmt.Errorf("unknown output format %q (want bin or hex)", name)
	}
}

// Spec describes how an image is serialized.
type Spec struct {
	// Format selects binary or Intel HEX output
	Format Format

	// Base is the address of the first byte of binary output (optional).
	// It must not exceed the lowest occupied address.
	Base *uint32

	// AutoBase uses the lowest occupied address as origin when Base is nil.
	// Without it a nil Base is only accepted for images starting at 0.
	AutoBase bool

	// Pad fills unoccupied addresses in binary output
	Pad byte

	// RecordSize is the number of data bytes per HEX record (1-255).
	// Zero selects ihex.DefaultDataLength.
	RecordSize int
}

// DefaultSpec returns a binary spec with 0xFF padding.
func DefaultSpec() Spec {
	return Spec{
		Format:     FormatBin,
		Pad:        0xFF,
		RecordSize: ihex.DefaultDataLength,
	}
}

// Output is an encoded image.
type Output struct {
	// Format is the encoding used
	Format Format

	// Data holds the bytes to write: the flat image, or the HEX text
	Data []byte

	// Lines holds the HEX records without terminators (HEX output only)
	Lines []string

	// Origin is the address of Data[0] (binary output only)
	Origin uint32
}

// Size returns the number of bytes to write.
func (o *Output) Size() int {
	return len(o.Data)
}
