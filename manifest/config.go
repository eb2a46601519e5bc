package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/ihex"
	"github.com/moffa90/go-fwmerge/merger"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Address is a 32-bit address that decodes from YAML integers or from
// strings such as "0x08000000".
type Address uint32

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Address) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAddress(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid address %q: %w", value.Line, value.Value, err)
	}
	*a = Address(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Address) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0x%08X", uint32(a)), nil
}

// Byte is an 8-bit value that decodes from YAML integers or hex strings.
type Byte byte

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Byte) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseByte(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid byte %q: %w", value.Line, value.Value, err)
	}
	*b = Byte(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (b Byte) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0x%02X", byte(b)), nil
}

// InputEntry is one input listed in a manifest.
type InputEntry struct {
	Path    string   `yaml:"path"`
	Address *Address `yaml:"address,omitempty"`
	Kind    string   `yaml:"kind,omitempty"`
}

// Config is a merge manifest.
//
// Example:
//
//	output: build/fw.hex
//	base: 0x08000000
//	pad: 0xFF
//	inputs:
//	  - path: boot.bin
//	    address: 0x08000000
//	  - path: app.hex
type Config struct {
	Output      string       `yaml:"output"`
	Format      string       `yaml:"format,omitempty"`
	Base        *Address     `yaml:"base,omitempty"`
	Pad         Byte         `yaml:"pad"`
	RecordSize  int          `yaml:"record_size,omitempty"`
	AutoBase    bool         `yaml:"auto_base,omitempty"`
	SkipMissing bool         `yaml:"skip_missing,omitempty"`
	Inputs      []InputEntry `yaml:"inputs"`
}

// DefaultConfig returns the settings used when neither a manifest nor a flag
// overrides them.
func DefaultConfig() *Config {
	base := Address(merger.DefaultBaseAddress)
	return &Config{
		Base:       &base,
		Pad:        Byte(merger.DefaultPadByte),
		RecordSize: ihex.DefaultDataLength,
	}
}

// Decode parses a YAML manifest on top of DefaultConfig. Unknown keys are
// rejected.
func Decode(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	return cfg, nil
}

// Load reads a manifest from a local path or any URL supported by afs.
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", URL, err)
	}

	cfg, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on the inputs.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.RecordSize < 0 || c.RecordSize > ihex.MaxDataLength {
		return fmt.Errorf("record_size %d out of range (1-%d)", c.RecordSize, ihex.MaxDataLength)
	}
	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	for i, in := range c.Inputs {
		if in.Path == "" {
			return fmt.Errorf("inputs[%d]: path is required", i)
		}
		if _, err := ParseKindHint(in.Kind); err != nil {
			return fmt.Errorf("inputs[%d]: %w", i, err)
		}
	}
	return nil
}

// OutputFormat returns the explicit format, or the one implied by the output
// file extension.
func (c *Config) OutputFormat() (encode.Format, error) {
	if c.Format != "" {
		return encode.ParseFormat(c.Format)
	}
	return InferFormat(c.Output), nil
}

// Descriptors converts the manifest inputs, in order.
func (c *Config) Descriptors() ([]Descriptor, error) {
	descs := make([]Descriptor, 0, len(c.Inputs))
	for i, in := range c.Inputs {
		kind, err := ParseKindHint(in.Kind)
		if err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}

		d := Descriptor{Path: in.Path, Kind: kind}
		if in.Address != nil {
			a := uint32(*in.Address)
			d.Address = &a
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// Options translates the manifest into merger options. The base serves both
// as the default load address of binary inputs and as the binary output
// origin; with auto_base the origin follows the image instead.
func (c *Config) Options() ([]merger.Option, error) {
	format, err := c.OutputFormat()
	if err != nil {
		return nil, err
	}

	opts := []merger.Option{
		merger.WithFormat(format),
		merger.WithPadByte(byte(c.Pad)),
		merger.WithAutoBase(c.AutoBase),
	}
	if c.RecordSize > 0 {
		opts = append(opts, merger.WithRecordSize(c.RecordSize))
	}
	if c.Base != nil {
		opts = append(opts, merger.WithDefaultBase(uint32(*c.Base)))
		if !c.AutoBase {
			opts = append(opts, merger.WithBaseAddress(uint32(*c.Base)))
		}
	}
	return opts, nil
}
