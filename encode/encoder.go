package encode

import (
	"fmt"
	"strings"

	"github.com/moffa90/go-fwmerge/ihex"
	"github.com/moffa90/go-fwmerge/memimage"
)

// Encode serializes img according to spec. The image is sealed first, so it
// can no longer be merged into.
//
// Example:
//
//	base := uint32(0x08000000)
//	out, err := encode.Encode(img, encode.Spec{
//	    Format: encode.FormatBin,
//	    Base:   &base,
//	    Pad:    0xFF,
//	})
func Encode(img *memimage.Image, spec Spec) (*Output, error) {
	if img == nil {
		return nil, &EncodeError{Format: spec.Format, Reason: "image cannot be nil"}
	}
	img.Seal()

	switch spec.Format {
	case FormatBin:
		return encodeBin(img, spec)
	case FormatHex:
		return encodeHex(img, spec)
	default:
		return nil, &EncodeError{Format: spec.Format, Reason: "unsupported output format"}
	}
}

// encodeBin produces the flat image from the origin to the end of the last
// occupied byte.
func encodeBin(img *memimage.Image, spec Spec) (*Output, error) {
	ext, ok := img.Extent()
	if !ok {
		return &Output{Format: FormatBin, Data: []byte{}}, nil
	}

	var origin uint32
	switch {
	case spec.Base != nil:
		origin = *spec.Base
		if uint64(origin) > ext.Start {
			return nil, &BaseAddressTooHighError{Base: origin, Lowest: ext.Start}
		}
	case spec.AutoBase || ext.Start == 0:
		origin = uint32(ext.Start)
	default:
		return nil, &MissingBaseAddressError{Lowest: ext.Start}
	}

	data, err := img.ReadRange(origin, ext.End, spec.Pad)
	if err != nil {
		return nil, &EncodeError{Format: FormatBin, Reason: "read image", Err: err}
	}

	return &Output{Format: FormatBin, Data: data, Origin: origin}, nil
}

// encodeHex emits data records over occupied ranges only. An extended linear
// address record precedes the first record of every new 64 KiB window.
func encodeHex(img *memimage.Image, spec Spec) (*Output, error) {
	size := spec.RecordSize
	if size == 0 {
		size = ihex.DefaultDataLength
	}
	if size < 1 || size > ihex.MaxDataLength {
		return nil, &EncodeError{
			Format: FormatHex,
			Reason: fmt.Sprintf("record size %d out of range 1-%d", size, ihex.MaxDataLength),
		}
	}

	var (
		lines  []string
		window uint32
	)
	for _, run := range img.Runs() {
		addr := uint64(run.Address)
		data := run.Data

		for len(data) > 0 {
			if upper := uint32(addr >> 16); upper != window {
				lines = append(lines, ihex.ExtendedLinearAddressRecord(uint16(upper)).String())
				window = upper
			}

			offset := uint16(addr)
			n := min(size, len(data), ihex.WindowSize-int(offset))

			rec, err := ihex.DataRecord(offset, data[:n])
			if err != nil {
				return nil, &EncodeError{
					Format: FormatHex,
					Reason: fmt.Sprintf("data record at 0x%08X", addr),
					Err:    err,
				}
			}
			lines = append(lines, rec.String())

			data = data[n:]
			addr += uint64(n)
		}
	}

	if start, ok := img.StartAddress(); ok {
		lines = append(lines, ihex.StartLinearAddressRecord(start).String())
	}
	lines = append(lines, ihex.EOFRecord().String())

	text := strings.Join(lines, "\n") + "\n"
	return &Output{Format: FormatHex, Data: []byte(text), Lines: lines}, nil
}
