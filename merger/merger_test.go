package merger_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/ihex"
	"github.com/moffa90/go-fwmerge/memimage"
	"github.com/moffa90/go-fwmerge/merger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger keeps every message by level.
type recordingLogger struct {
	debug []string
	info  []string
	warn  []string
	error []string
}

func (l *recordingLogger) Debug(msg string, _ ...interface{}) { l.debug = append(l.debug, msg) }
func (l *recordingLogger) Info(msg string, _ ...interface{})  { l.info = append(l.info, msg) }
func (l *recordingLogger) Warn(msg string, _ ...interface{})  { l.warn = append(l.warn, msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.error = append(l.error, msg) }

func addr(v uint32) *uint32 {
	return &v
}

func hexText(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestMerge_BinOriginEqualsLowestAddress(t *testing.T) {
	m := merger.New(merger.WithBaseAddress(0x08000000))

	res, err := m.Merge(context.Background(), []merger.Input{
		{Name: "boot.bin", Kind: merger.KindBin, Base: addr(0x08000000), Data: []byte{0xAA, 0xBB, 0xCC, 0xDD}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, res.Output.Data)
	assert.Empty(t, res.Conflicts)
	assert.True(t, res.HasExtent)
	assert.Equal(t, memimage.Range{Start: 0x08000000, End: 0x08000004}, res.Extent)
	assert.Equal(t, uint64(4), res.Occupied)

	fp, err := encode.Fingerprint(res.Output.Data)
	require.NoError(t, err)
	assert.Equal(t, fp, res.Fingerprint)
}

func TestMerge_GapPaddingAndSparseHex(t *testing.T) {
	inputs := []merger.Input{
		{Name: "a.bin", Kind: merger.KindBin, Base: addr(0x0), Data: []byte{0x11}},
		{Name: "b.bin", Kind: merger.KindBin, Base: addr(0x5), Data: []byte{0x22}},
	}

	bin, err := merger.New(merger.WithBaseAddress(0), merger.WithPadByte(0x00)).
		Merge(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0, 0, 0, 0, 0x22}, bin.Output.Data)

	hex, err := merger.New(merger.WithFormat(encode.FormatHex), merger.WithPadByte(0x00)).
		Merge(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, []string{":0100000011EE", ":0100050022D8", ":00000001FF"}, hex.Output.Lines)
}

func TestMerge_LastWriteWinsAcrossKinds(t *testing.T) {
	logger := &recordingLogger{}
	m := merger.New(merger.WithLogger(logger), merger.WithBaseAddress(0x100))

	res, err := m.Merge(context.Background(), []merger.Input{
		// 0x100: 01 02 03
		{Name: "app.hex", Kind: merger.KindHex, Data: hexText(":03010000010203F6", ":00000001FF")},
		{Name: "cfg.bin", Kind: merger.KindBin, Base: addr(0x101), Data: []byte{9, 9}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 9, 9}, res.Output.Data)

	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, memimage.Conflict{
		Range:    memimage.Range{Start: 0x101, End: 0x103},
		Existing: "app.hex",
		Incoming: "cfg.bin",
	}, res.Conflicts[0])
	assert.Contains(t, logger.debug, "overlapping data, later input wins")
	assert.Empty(t, logger.warn, "conflicts are reported through the result only")
	assert.Contains(t, logger.info, "merge complete")
}

func TestMerge_OrderDecidesWinner(t *testing.T) {
	first := merger.Input{Name: "first.bin", Kind: merger.KindBin, Base: addr(0), Data: []byte{1, 1}}
	second := merger.Input{Name: "second.bin", Kind: merger.KindBin, Base: addr(0), Data: []byte{2, 2}}
	m := merger.New()

	res, err := m.Merge(context.Background(), []merger.Input{first, second})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 2}, res.Output.Data)

	res, err = m.Merge(context.Background(), []merger.Input{second, first})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1}, res.Output.Data)
}

func TestMerge_ChecksumErrorAbortsRun(t *testing.T) {
	var phases []string
	logger := &recordingLogger{}
	m := merger.New(merger.WithLogger(logger), merger.WithProgressCallback(func(p merger.Progress) {
		phases = append(phases, p.Phase)
	}))

	res, err := m.Merge(context.Background(), []merger.Input{
		{Name: "good.bin", Kind: merger.KindBin, Base: addr(0), Data: []byte{1}},
		{Name: "bad.hex", Kind: merger.KindHex, Data: hexText(":0401000001020305F1", ":00000001FF")},
	})
	require.Error(t, err)
	assert.Nil(t, res)

	var inErr *merger.InputError
	require.ErrorAs(t, err, &inErr)
	assert.Equal(t, "bad.hex", inErr.Source)

	var csErr *ihex.ChecksumError
	require.ErrorAs(t, err, &csErr)
	assert.Equal(t, 1, csErr.Line)
	assert.True(t, strings.HasPrefix(err.Error(), "bad.hex: line 1:"), err.Error())

	assert.Equal(t, merger.PhaseFailed, phases[len(phases)-1])
	assert.NotContains(t, phases, merger.PhaseEncoding)

	// the returned error is the only error report
	assert.Empty(t, logger.error)
	assert.Contains(t, logger.debug, "input failed")
}

func TestMerge_BinaryLoadAddress(t *testing.T) {
	in := []merger.Input{{Name: "app.bin", Kind: merger.KindBin, Data: []byte{0xAB}}}

	_, err := merger.New().Merge(context.Background(), in)
	assert.True(t, errors.Is(err, merger.ErrMissingLoadAddress), "got %v", err)

	res, err := merger.New(
		merger.WithDefaultBase(0x08004000),
		merger.WithBaseAddress(0x08000000),
	).Merge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x08000000), res.Output.Origin)
	assert.Len(t, res.Output.Data, 0x4001)
	assert.Equal(t, byte(0xFF), res.Output.Data[0])
	assert.Equal(t, byte(0xAB), res.Output.Data[0x4000])

	_, err = merger.New().Merge(context.Background(), []merger.Input{
		{Name: "huge.bin", Kind: merger.KindBin, Base: addr(0xFFFFFFFF), Data: []byte{1, 2}},
	})
	var overflow *memimage.AddressOverflowError
	assert.ErrorAs(t, err, &overflow)
}

func TestMerge_EncodeErrors(t *testing.T) {
	in := []merger.Input{{Name: "app.bin", Kind: merger.KindBin, Base: addr(0x08000000), Data: []byte{1}}}

	logger := &recordingLogger{}
	_, err := merger.New(merger.WithLogger(logger), merger.WithBaseAddress(0x08000001)).
		Merge(context.Background(), in)
	var tooHigh *encode.BaseAddressTooHighError
	require.ErrorAs(t, err, &tooHigh)
	assert.Empty(t, logger.error)
	assert.Contains(t, logger.debug, "encode failed")

	_, err = merger.New().Merge(context.Background(), in)
	var missing *encode.MissingBaseAddressError
	require.ErrorAs(t, err, &missing)

	res, err := merger.New(merger.WithAutoBase(true)).Merge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, res.Output.Data)
}

func TestMerge_StartAddress(t *testing.T) {
	logger := &recordingLogger{}
	m := merger.New(merger.WithLogger(logger), merger.WithFormat(encode.FormatHex))

	res, err := m.Merge(context.Background(), []merger.Input{
		{Name: "boot.hex", Kind: merger.KindHex, Data: hexText(":0400000500000001F6", ":00000001FF")},
		{Name: "app.hex", Kind: merger.KindHex, Data: hexText(":0100000011EE", ":0400000508000101ED", ":00000001FF")},
	})
	require.NoError(t, err)
	assert.True(t, res.HasStart)
	assert.Equal(t, uint32(0x08000101), res.StartAddress)
	assert.Contains(t, logger.warn, "start address replaced")
	assert.Equal(t, []string{":0100000011EE", ":0400000508000101ED", ":00000001FF"}, res.Output.Lines)
}

func TestMerge_MissingEOFIsWarning(t *testing.T) {
	logger := &recordingLogger{}
	res, err := merger.New(merger.WithLogger(logger)).Merge(context.Background(), []merger.Input{
		{Name: "noeof.hex", Kind: merger.KindHex, Data: hexText(":0100000011EE")},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11}, res.Output.Data)
	assert.Contains(t, logger.warn, "no end-of-file record")
}

func TestMerge_ProgressPhases(t *testing.T) {
	var got []merger.Progress
	m := merger.New(merger.WithProgressCallback(func(p merger.Progress) {
		got = append(got, p)
	}))

	_, err := m.Merge(context.Background(), []merger.Input{
		{Name: "a.bin", Kind: merger.KindBin, Base: addr(0), Data: []byte{1, 2}},
		{Name: "b.bin", Kind: merger.KindBin, Base: addr(1), Data: []byte{3}},
	})
	require.NoError(t, err)

	var phases []string
	for _, p := range got {
		phases = append(phases, p.Phase)
	}
	assert.Equal(t, []string{
		merger.PhaseParsing, merger.PhaseMerged,
		merger.PhaseParsing, merger.PhaseMerged,
		merger.PhaseEncoding, merger.PhaseDone,
	}, phases)

	assert.Equal(t, "b.bin", got[3].Source)
	assert.Equal(t, 2, got[3].CurrentInput)
	assert.Equal(t, 1, got[3].Conflicts)
	assert.Equal(t, 2, got[5].TotalInputs)
}

func TestMerge_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := merger.New().Merge(ctx, []merger.Input{
		{Name: "a.bin", Kind: merger.KindBin, Base: addr(0), Data: []byte{1}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMerge_NoInputs(t *testing.T) {
	res, err := merger.New().Merge(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Output.Data)
	assert.False(t, res.HasExtent)
}

func TestNew_Options(t *testing.T) {
	cfg := merger.New(
		merger.WithRecordSize(32),
		merger.WithRecordSize(1000),
		merger.WithPadByte(0x00),
		merger.WithDefaultBase(0x1000),
	).Config()

	assert.Equal(t, 32, cfg.Output.RecordSize)
	assert.Equal(t, byte(0x00), cfg.Output.Pad)
	require.NotNil(t, cfg.DefaultBase)
	assert.Equal(t, uint32(0x1000), *cfg.DefaultBase)
	assert.Equal(t, encode.FormatBin, cfg.Output.Format)

	spec := encode.Spec{Format: encode.FormatHex, RecordSize: 8}
	assert.Equal(t, spec, merger.New(merger.WithOutputSpec(spec)).Config().Output)
}
