package manifest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/merger"
)

// KindHint is the declared encoding of an input before detection.
type KindHint int

const (
	// KindAuto detects the encoding from the extension or the content
	KindAuto KindHint = iota

	// KindHex forces Intel HEX
	KindHex

	// KindBin forces raw binary
	KindBin
)

func (k KindHint) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindHex:
		return "hex"
	case KindBin:
		return "bin"
	default:
		return fmt.Sprintf("hint(%d)", int(k))
	}
}

// ParseKindHint converts "auto", "hex" or "bin" (case-insensitive, empty means auto).
func ParseKindHint(s string) (KindHint, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "hex", "ihex":
		return KindHex, nil
	case "bin", "binary", "raw":
		return KindBin, nil
	default:
		return 0, fmt.Errorf("unknown input kind %q (want auto, hex or bin)", s)
	}
}

// Descriptor names one input file and how to load it.
type Descriptor struct {
	// Path is a local path or any URL understood by afs
	Path string

	// Address is the load address for binary inputs (optional)
	Address *uint32

	// Kind overrides detection when not KindAuto
	Kind KindHint
}

func (d Descriptor) String() string {
	if d.Address == nil {
		return d.Path
	}
	return fmt.Sprintf("%s@0x%08X", d.Path, *d.Address)
}

// ParseArg parses a command-line input of the form path[@address].
// The address accepts Go integer prefixes (0x, 0o, 0b) or decimal.
// A suffix after the last '@' that does not start with a digit is part of
// the path.
//
// Example:
//
//	d, _ := manifest.ParseArg("boot.bin@0x08000000")
//	// d.Path == "boot.bin", *d.Address == 0x08000000
func ParseArg(arg string) (Descriptor, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Descriptor{}, fmt.Errorf("empty input")
	}

	idx := strings.LastIndex(arg, "@")
	if idx < 0 {
		return Descriptor{Path: arg}, nil
	}

	suffix := arg[idx+1:]
	if suffix == "" || suffix[0] < '0' || suffix[0] > '9' {
		return Descriptor{Path: arg}, nil
	}
	if idx == 0 {
		return Descriptor{}, fmt.Errorf("input %q has an address but no path", arg)
	}

	addr, err := parseUint(suffix, 32)
	if err != nil {
		return Descriptor{}, fmt.Errorf("input %q: invalid load address: %w", arg, err)
	}
	a := uint32(addr)
	return Descriptor{Path: arg[:idx], Address: &a}, nil
}

// DetectKind classifies an input. Known extensions decide first; otherwise a
// first non-blank character of ':' means Intel HEX.
func DetectKind(path string, content []byte) merger.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex", ".ihx":
		return merger.KindHex
	case ".bin":
		return merger.KindBin
	}

	trimmed := bytes.TrimLeft(content, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == ':' {
		return merger.KindHex
	}
	return merger.KindBin
}

// Resolve turns a descriptor and the file content into a merger input.
func Resolve(d Descriptor, content []byte) merger.Input {
	var kind merger.Kind
	switch d.Kind {
	case KindHex:
		kind = merger.KindHex
	case KindBin:
		kind = merger.KindBin
	default:
		kind = DetectKind(d.Path, content)
	}

	return merger.Input{
		Name: d.Path,
		Kind: kind,
		Base: d.Address,
		Data: content,
	}
}

// InferFormat picks the output format from the output file extension.
// Anything other than a HEX extension is written as binary.
func InferFormat(path string) encode.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex", ".ihx":
		return encode.FormatHex
	default:
		return encode.FormatBin
	}
}

// ParseAddress parses a 32-bit address written in any Go integer notation.
func ParseAddress(s string) (uint32, error) {
	v, err := parseUint(s, 32)
	return uint32(v), err
}

// ParseByte parses an 8-bit value written in any Go integer notation.
func ParseByte(s string) (byte, error) {
	v, err := parseUint(s, 8)
	return byte(v), err
}

func parseUint(s string, bits int) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 0, bits)
}
