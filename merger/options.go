package merger

import (
	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/ihex"
)

// DefaultBaseAddress is the conventional flash origin of Cortex-M parts,
// used by the command-line tool when no base is given.
const DefaultBaseAddress uint32 = 0x08000000

// DefaultPadByte is the erased-flash value.
const DefaultPadByte byte = 0xFF

// Config holds the merger configuration.
type Config struct {
	// ProgressCallback is called on every phase transition (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// DefaultBase is the load address for binary inputs without one (optional)
	DefaultBase *uint32

	// Output describes how the merged image is encoded
	Output encode.Spec
}

// defaultConfig returns the default configuration: binary output padded with
// DefaultPadByte and no default load address.
func defaultConfig() Config {
	return Config{
		Output: encode.Spec{
			Format:     encode.FormatBin,
			Pad:        DefaultPadByte,
			RecordSize: ihex.DefaultDataLength,
		},
	}
}

// Option is a functional option for configuring the Merger.
type Option func(*Config)

// WithProgressCallback sets a callback function to track merge progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for merge operations.
//
// Example:
//
//	m := merger.New(merger.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithDefaultBase sets the load address used for binary inputs that do not
// declare one.
//
// Example:
//
//	m := merger.New(merger.WithDefaultBase(0x08000000))
func WithDefaultBase(addr uint32) Option {
	return func(c *Config) {
		c.DefaultBase = &addr
	}
}

// WithOutputSpec replaces the whole output specification.
func WithOutputSpec(spec encode.Spec) Option {
	return func(c *Config) {
		c.Output = spec
	}
}

// WithFormat selects binary or Intel HEX output. Default is binary.
func WithFormat(format encode.Format) Option {
	return func(c *Config) {
		c.Output.Format = format
	}
}

// WithPadByte sets the fill value for gaps in binary output. Default is 0xFF.
func WithPadByte(pad byte) Option {
	return func(c *Config) {
		c.Output.Pad = pad
	}
}

// WithBaseAddress sets the origin of binary output.
//
// Example:
//
//	m := merger.New(merger.WithBaseAddress(0x08000000))
func WithBaseAddress(addr uint32) Option {
	return func(c *Config) {
		c.Output.Base = &addr
	}
}

// WithAutoBase makes binary output start at the lowest occupied address
// when no base address is set.
func WithAutoBase(auto bool) Option {
	return func(c *Config) {
		c.Output.AutoBase = auto
	}
}

// WithRecordSize sets the number of data bytes per HEX record.
// Values outside 1-255 are ignored.
func WithRecordSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= ihex.MaxDataLength {
			c.Output.RecordSize = size
		}
	}
}
