package merger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/ihex"
	"github.com/moffa90/go-fwmerge/memimage"
)

// Kind is the resolved encoding of an input.
type Kind int

const (
	// KindHex is Intel HEX text
	KindHex Kind = iota

	// KindBin is raw binary loaded at an explicit address
	KindBin
)

func (k Kind) String() string {
	switch k {
	case KindHex:
		return "hex"
	case KindBin:
		return "bin"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Input is one fully read firmware fragment.
type Input struct {
	// Name identifies the input in conflicts, logs and errors
	Name string

	// Kind selects the HEX parser or the binary loader
	Kind Kind

	// Base is the load address of a binary input (optional, ignored for HEX)
	Base *uint32

	// Data is the raw file content
	Data []byte
}

// Result is the outcome of a successful merge.
type Result struct {
	// Output is the encoded image
	Output *encode.Output

	// Conflicts lists every overlap found, in merge order
	Conflicts []memimage.Conflict

	// Extent covers all occupied addresses (valid when HasExtent is true)
	Extent    memimage.Range
	HasExtent bool

	// StartAddress is the entry point taken from the last HEX input carrying one
	StartAddress uint32
	HasStart     bool

	// Occupied is the number of data bytes in the image, padding excluded
	Occupied uint64

	// Fingerprint is the HighwayHash-64 of Output.Data
	Fingerprint uint64
}

// Merger folds firmware fragments into one image and encodes it.
//
// Merger holds only configuration; every Merge call builds a fresh image, so
// a Merger can be reused.
type Merger struct {
	config Config
}

// New creates a new Merger with the given options.
//
// Example:
//
//	m := merger.New(
//	    merger.WithDefaultBase(0x08000000),
//	    merger.WithBaseAddress(0x08000000),
//	    merger.WithPadByte(0xFF),
//	)
func New(opts ...Option) *Merger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Merger{config: cfg}
}

// Config returns a copy of the merger configuration.
func (m *Merger) Config() Config {
	return m.config
}

// Merge performs the complete sequence:
//  1. Parse or load every input, in order
//  2. Merge each one into the image, later inputs overwriting earlier ones
//  3. Encode the image with the configured output spec
//
// Any error aborts the run and no Result is returned; overlaps are not
// errors and are collected in Result.Conflicts.
//
// Example:
//
//	res, err := m.Merge(ctx, []merger.Input{
//	    {Name: "boot.bin", Kind: merger.KindBin, Base: &bootAddr, Data: boot},
//	    {Name: "app.hex", Kind: merger.KindHex, Data: app},
//	})
func (m *Merger) Merge(ctx context.Context, inputs []Input) (*Result, error) {
	startTime := time.Now()
	img := memimage.New()
	var conflicts []memimage.Conflict

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			m.reportFailure(in.Name, i+1, len(inputs), len(conflicts), startTime)
			return nil, fmt.Errorf("cancelled: %w", err)
		}

		m.reportProgress(Progress{
			Phase:        PhaseParsing,
			Source:       in.Name,
			CurrentInput: i + 1,
			TotalInputs:  len(inputs),
			Conflicts:    len(conflicts),
			ElapsedTime:  time.Since(startTime),
		})

		found, err := m.mergeInput(img, in)
		if err != nil {
			m.logDebug("input failed", "source", in.Name, "error", err)
			m.reportFailure(in.Name, i+1, len(inputs), len(conflicts), startTime)
			return nil, &InputError{Source: in.Name, Err: err}
		}

		for _, c := range found {
			m.logDebug("overlapping data, later input wins",
				"range", c.Range.String(),
				"bytes", c.Range.Len(),
				"existing", c.Existing,
				"incoming", c.Incoming,
			)
		}
		conflicts = append(conflicts, found...)

		m.reportProgress(Progress{
			Phase:        PhaseMerged,
			Source:       in.Name,
			CurrentInput: i + 1,
			TotalInputs:  len(inputs),
			Conflicts:    len(conflicts),
			ElapsedTime:  time.Since(startTime),
		})
	}

	m.reportProgress(Progress{
		Phase:        PhaseEncoding,
		CurrentInput: len(inputs),
		TotalInputs:  len(inputs),
		Conflicts:    len(conflicts),
		ElapsedTime:  time.Since(startTime),
	})

	out, err := encode.Encode(img, m.config.Output)
	if err != nil {
		m.logDebug("encode failed", "format", m.config.Output.Format.String(), "error", err)
		m.reportFailure("", len(inputs), len(inputs), len(conflicts), startTime)
		return nil, fmt.Errorf("encode: %w", err)
	}

	fingerprint, err := encode.Fingerprint(out.Data)
	if err != nil {
		m.reportFailure("", len(inputs), len(inputs), len(conflicts), startTime)
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	res := &Result{
		Output:      out,
		Conflicts:   conflicts,
		Occupied:    img.Len(),
		Fingerprint: fingerprint,
	}
	res.Extent, res.HasExtent = img.Extent()
	res.StartAddress, res.HasStart = img.StartAddress()

	m.reportProgress(Progress{
		Phase:        PhaseDone,
		CurrentInput: len(inputs),
		TotalInputs:  len(inputs),
		Conflicts:    len(conflicts),
		ElapsedTime:  time.Since(startTime),
	})

	m.logInfo("merge complete",
		"inputs", len(inputs),
		"format", out.Format.String(),
		"bytes", out.Size(),
		"conflicts", len(conflicts),
		"elapsed", time.Since(startTime).String(),
	)

	return res, nil
}

// mergeInput decodes one input and folds its runs into img.
func (m *Merger) mergeInput(img *memimage.Image, in Input) ([]memimage.Conflict, error) {
	runs, err := m.load(img, in)
	if err != nil {
		return nil, err
	}

	var conflicts []memimage.Conflict
	for _, run := range runs {
		found, err := img.Merge(run, in.Name)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", run, err)
		}
		conflicts = append(conflicts, found...)
	}

	m.logDebug("input merged",
		"source", in.Name,
		"kind", in.Kind.String(),
		"runs", len(runs),
		"conflicts", len(conflicts),
	)

	return conflicts, nil
}

// load turns an input into address-tagged runs.
func (m *Merger) load(img *memimage.Image, in Input) ([]memimage.Run, error) {
	switch in.Kind {
	case KindHex:
		f, err := ihex.ParseReader(bytes.NewReader(in.Data))
		if err != nil {
			return nil, err
		}
		if in.Base != nil {
			m.logWarn("load address ignored for HEX input",
				"source", in.Name,
				"address", fmt.Sprintf("0x%08X", *in.Base),
			)
		}
		if !f.EOF {
			m.logWarn("no end-of-file record", "source", in.Name)
		}
		if f.HasStart {
			if prev, ok := img.StartAddress(); ok && prev != f.StartAddress {
				m.logWarn("start address replaced",
					"source", in.Name,
					"previous", fmt.Sprintf("0x%08X", prev),
					"start", fmt.Sprintf("0x%08X", f.StartAddress),
				)
			}
			if err := img.SetStartAddress(f.StartAddress); err != nil {
				return nil, err
			}
		}
		return f.Runs, nil

	case KindBin:
		base := in.Base
		if base == nil {
			base = m.config.DefaultBase
		}
		if base == nil {
			return nil, ErrMissingLoadAddress
		}
		run, err := memimage.LoadBinary(in.Data, *base)
		if err != nil {
			return nil, err
		}
		return []memimage.Run{run}, nil

	default:
		return nil, fmt.Errorf("unsupported input kind %s", in.Kind)
	}
}

func (m *Merger) reportFailure(source string, current, total, conflicts int, startTime time.Time) {
	m.reportProgress(Progress{
		Phase:        PhaseFailed,
		Source:       source,
		CurrentInput: current,
		TotalInputs:  total,
		Conflicts:    conflicts,
		ElapsedTime:  time.Since(startTime),
	})
}

// reportProgress calls the progress callback if configured.
func (m *Merger) reportProgress(progress Progress) {
	if m.config.ProgressCallback != nil {
		m.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (m *Merger) logDebug(msg string, keysAndValues ...interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (m *Merger) logInfo(msg string, keysAndValues ...interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Info(msg, keysAndValues...)
	}
}

// logWarn logs a warning if a logger is configured.
func (m *Merger) logWarn(msg string, keysAndValues ...interface{}) {
	if m.config.Logger != nil {
		m.config.Logger.Warn(msg, keysAndValues...)
	}
}
