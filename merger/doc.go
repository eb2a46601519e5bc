// Package merger provides a high-level API for combining firmware fragments
// into one flashable image.
//
// # Overview
//
// This package drives the complete merge pipeline:
//   - Parsing Intel HEX inputs and loading raw binaries at their addresses
//   - Folding every fragment into one memory image, in input order
//   - Reporting overlaps between fragments as conflicts
//   - Encoding the image as a padded binary or as Intel HEX
//
// Input order matters: when two fragments cover the same address, the one
// merged later wins. This lets a configuration block be laid over a region
// an application image already fills.
//
// # Basic Usage
//
// The caller reads the files; the merger works on complete buffers:
//
//	boot, _ := os.ReadFile("boot.bin")
//	app, _ := os.ReadFile("app.hex")
//
//	m := merger.New(
//	    merger.WithBaseAddress(0x08000000),
//	    merger.WithPadByte(0xFF),
//	)
//
//	bootAddr := uint32(0x08000000)
//	res, err := m.Merge(context.Background(), []merger.Input{
//	    {Name: "boot.bin", Kind: merger.KindBin, Base: &bootAddr, Data: boot},
//	    {Name: "app.hex", Kind: merger.KindHex, Data: app},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = os.WriteFile("fw.bin", res.Output.Data, 0o644)
//
// # Progress Tracking
//
// Track the pipeline with a callback:
//
//	m := merger.New(
//	    merger.WithProgressCallback(func(p merger.Progress) {
//	        fmt.Printf("[%s] %d/%d %s\n", p.Phase, p.CurrentInput, p.TotalInputs, p.Source)
//	    }),
//	)
//
// # Error Handling
//
// Every failure is fatal and Merge returns no result, so a half-merged image
// is never produced. Input failures are wrapped in *InputError carrying the
// input name; the underlying typed errors remain reachable with errors.As:
//
//	var csErr *ihex.ChecksumError
//	if errors.As(err, &csErr) {
//	    fmt.Printf("bad checksum on line %d\n", csErr.Line)
//	}
//
// Conflicts are never errors. They are returned in Result.Conflicts for the
// caller to report; the merger logs them only at debug level. Failures are
// likewise returned, not logged above debug level.
package merger
