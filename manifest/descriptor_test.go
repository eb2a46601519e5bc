package manifest

import (
	"testing"

	"github.com/moffa90/go-fwmerge/encode"
	"github.com/moffa90/go-fwmerge/merger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		path    string
		address int64 // -1 means no address
		wantErr bool
	}{
		{name: "plain path", arg: "app.hex", path: "app.hex", address: -1},
		{name: "hex address", arg: "boot.bin@0x08000000", path: "boot.bin", address: 0x08000000},
		{name: "decimal address", arg: "cfg.bin@4096", path: "cfg.bin", address: 4096},
		{name: "last at wins", arg: "dir@v2/cfg.bin@0x10", path: "dir@v2/cfg.bin", address: 0x10},
		{name: "non-numeric suffix", arg: "user@host.bin", path: "user@host.bin", address: -1},
		{name: "trailing at", arg: "odd.bin@", path: "odd.bin@", address: -1},
		{name: "too large", arg: "boot.bin@0x100000000", wantErr: true},
		{name: "bad number", arg: "boot.bin@0xZZ", wantErr: true},
		{name: "no path", arg: "@0x100", wantErr: true},
		{name: "empty", arg: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseArg(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, d.Path)
			if tt.address < 0 {
				assert.Nil(t, d.Address)
				return
			}
			require.NotNil(t, d.Address)
			assert.Equal(t, uint32(tt.address), *d.Address)
		})
	}
}

func TestDescriptor_String(t *testing.T) {
	d, err := ParseArg("boot.bin@0x800")
	require.NoError(t, err)
	assert.Equal(t, "boot.bin@0x00000800", d.String())
	assert.Equal(t, "app.hex", Descriptor{Path: "app.hex"}.String())
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path    string
		content string
		want    merger.Kind
	}{
		{"app.hex", "", merger.KindHex},
		{"APP.IHX", "", merger.KindHex},
		{"image.ihex", "", merger.KindHex},
		{"boot.bin", ":00000001FF\n", merger.KindBin},
		{"firmware", "\r\n  :00000001FF\n", merger.KindHex},
		{"firmware", "\x00\x01", merger.KindBin},
		{"firmware", "", merger.KindBin},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectKind(tt.path, []byte(tt.content)), "%s %q", tt.path, tt.content)
	}
}

func TestResolve(t *testing.T) {
	addr := uint32(0x2000)
	in := Resolve(Descriptor{Path: "blob", Address: &addr}, []byte{1, 2})
	assert.Equal(t, merger.KindBin, in.Kind)
	assert.Equal(t, "blob", in.Name)
	assert.Equal(t, &addr, in.Base)
	assert.Equal(t, []byte{1, 2}, in.Data)

	// an explicit kind beats detection
	in = Resolve(Descriptor{Path: "data.bin", Kind: KindHex}, []byte(":00000001FF"))
	assert.Equal(t, merger.KindHex, in.Kind)

	in = Resolve(Descriptor{Path: "data", Kind: KindBin}, []byte(":00000001FF"))
	assert.Equal(t, merger.KindBin, in.Kind)
}

func TestParseKindHint(t *testing.T) {
	for s, want := range map[string]KindHint{"": KindAuto, "auto": KindAuto, "HEX": KindHex, "bin": KindBin, "raw": KindBin} {
		got, err := ParseKindHint(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseKindHint("srec")
	assert.Error(t, err)
}

func TestInferFormat(t *testing.T) {
	assert.Equal(t, encode.FormatHex, InferFormat("out/fw.hex"))
	assert.Equal(t, encode.FormatHex, InferFormat("fw.IHX"))
	assert.Equal(t, encode.FormatBin, InferFormat("fw.bin"))
	assert.Equal(t, encode.FormatBin, InferFormat("fw.img"))
	assert.Equal(t, encode.FormatBin, InferFormat("fw"))
}
