// Command hexmerge merges Intel HEX and raw binary firmware fragments into
// one image, written as a padded binary or as Intel HEX.
//
// Usage:
//
//	hexmerge -o fw.bin [-b 0x08000000] [-p 0xFF] boot.bin@0x08000000 app.hex
//	hexmerge -c merge.yaml [extra inputs...]
//
// Inputs are merged in order and later inputs win where they overlap; every
// overlap is reported as a warning. Binary inputs take their load address
// from the "@address" suffix, or from -b when it is omitted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/moffa90/go-fwmerge/artifact"
	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/manifest"
	"github.com/moffa90/go-fwmerge/merger"
	"github.com/viant/afs"
)

var (
	outputPath   = flag.String("o", "", "output file; a .hex extension selects Intel HEX output")
	baseAddress  = flag.String("b", "", "binary output origin and default load address (default 0x08000000)")
	padByte      = flag.String("p", "", "fill byte for gaps in binary output (default 0xFF)")
	outputFormat = flag.String("f", "", "output format: bin or hex (default from the output extension)")
	manifestURL  = flag.String("c", "", "YAML merge manifest")
	recordSize   = flag.Int("record-size", 0, "data bytes per HEX record (default 16)")
	autoBase     = flag.Bool("auto-base", false, "start binary output at the lowest occupied address")
	skipMissing  = flag.Bool("skip-missing", false, "skip inputs that do not exist instead of failing")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] input[@address]...\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	// Log to stderr unless -logtostderr=false is given.
	_ = flag.Set("logtostderr", "true")
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	if err := run(context.Background()); err != nil {
		glog.Errorf("hexmerge: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	fs := afs.New()
	logger := glogLogger{}

	cfg := manifest.DefaultConfig()
	if *manifestURL != "" {
		loaded, err := manifest.Load(ctx, fs, *manifestURL)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	descs, err := cfg.Descriptors()
	if err != nil {
		return err
	}
	for _, arg := range flag.Args() {
		d, err := manifest.ParseArg(arg)
		if err != nil {
			return err
		}
		descs = append(descs, d)
	}
	if len(descs) == 0 {
		usage()
		return fmt.Errorf("no inputs given")
	}

	store := artifact.NewWithService(fs,
		artifact.WithSkipMissing(cfg.SkipMissing),
		artifact.WithLogger(logger),
	)
	inputs, err := store.Read(ctx, descs)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	m := merger.New(append(opts, merger.WithLogger(logger))...)

	res, err := m.Merge(ctx, inputs)
	if err != nil {
		return err
	}

	if err := store.Write(ctx, cfg.Output, res.Output.Data); err != nil {
		return err
	}

	report(cfg.Output, res)
	return nil
}

// applyFlags lets explicitly set flags override the manifest.
func applyFlags(cfg *manifest.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "o":
			cfg.Output = *outputPath
		case "f":
			cfg.Format = *outputFormat
		case "b":
			var addr uint32
			if addr, err = manifest.ParseAddress(*baseAddress); err != nil {
				err = fmt.Errorf("invalid -b %q: %w", *baseAddress, err)
				return
			}
			base := manifest.Address(addr)
			cfg.Base = &base
		case "p":
			var pad byte
			if pad, err = manifest.ParseByte(*padByte); err != nil {
				err = fmt.Errorf("invalid -p %q: %w", *padByte, err)
				return
			}
			cfg.Pad = manifest.Byte(pad)
		case "record-size":
			cfg.RecordSize = *recordSize
		case "auto-base":
			cfg.AutoBase = *autoBase
		case "skip-missing":
			cfg.SkipMissing = *skipMissing
		}
	})
	return err
}

func report(path string, res *merger.Result) {
	if !res.HasExtent {
		glog.Warningf("no data in any input, wrote an empty image to %s", path)
	}

	switch res.Output.Format {
	case encode.FormatBin:
		end := uint64(res.Output.Origin) + uint64(res.Output.Size())
		fmt.Printf("BIN range 0x%08X .. 0x%08X (size = %d bytes)\n", res.Output.Origin, end, res.Output.Size())
	case encode.FormatHex:
		if res.HasExtent {
			fmt.Printf("HEX range %s (%d data bytes, %d records)\n", res.Extent, res.Occupied, len(res.Output.Lines))
		}
	}

	for _, c := range res.Conflicts {
		fmt.Fprintf(os.Stderr, "warning: %s\n", c)
	}
	if res.HasStart {
		fmt.Printf("start address 0x%08X\n", res.StartAddress)
	}
	fmt.Printf("wrote %s (fingerprint %016x)\n", path, res.Fingerprint)
}
