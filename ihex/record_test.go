package ihex

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0x00,
		},
		{
			name:     "single byte",
			data:     []byte{0x01},
			expected: 0xFF,
		},
		{
			name:     "multiple bytes",
			data:     []byte{0x01, 0x02, 0x03, 0x04},
			expected: 0xF6, // 2's complement of 0x0A
		},
		{
			name:     "all ones",
			data:     []byte{0xFF, 0xFF, 0xFF, 0xFF},
			expected: 0x04, // overflow and 2's complement
		},
		{
			name:     "eof record header",
			data:     []byte{0x00, 0x00, 0x00, 0x01},
			expected: 0xFF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Checksum(tt.data)
			if result != tt.expected {
				t.Errorf("Checksum() = 0x%02X, want 0x%02X", result, tt.expected)
			}
		})
	}
}

func TestRecordString(t *testing.T) {
	data, err := DataRecord(0x0100, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{name: "data", rec: data, want: ":0401000001020304F1"},
		{name: "eof", rec: EOFRecord(), want: ":00000001FF"},
		{name: "extended linear address", rec: ExtendedLinearAddressRecord(0x0800), want: ":020000040800F2"},
		{name: "extended segment address", rec: ExtendedSegmentAddressRecord(0x1200), want: ":020000021200EA"},
		{name: "start linear address", rec: StartLinearAddressRecord(0x08000101), want: ":0400000508000101ED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}

			decoded, err := DecodeRecord(tt.rec.String() + "\r\n")
			if err != nil {
				t.Fatalf("DecodeRecord() error: %v", err)
			}
			if decoded.Type != tt.rec.Type || decoded.Address != tt.rec.Address {
				t.Errorf("decoded = %+v, want %+v", decoded, tt.rec)
			}
			if !bytes.Equal(decoded.Data, tt.rec.Data) {
				t.Errorf("decoded.Data = %X, want %X", decoded.Data, tt.rec.Data)
			}
		})
	}
}

func TestDecodeRecordErrors(t *testing.T) {
	var csErr *ChecksumError
	if _, err := DecodeRecord(":0401000001020304F2"); !errors.As(err, &csErr) {
		t.Fatalf("expected *ChecksumError, got %v", err)
	}
	if csErr.Line != 1 || csErr.Expected != 0xF1 || csErr.Actual != 0xF2 {
		t.Errorf("ChecksumError = %+v", csErr)
	}

	var typeErr *UnsupportedRecordTypeError
	if _, err := DecodeRecord(":0400000300000000F9"); !errors.As(err, &typeErr) {
		t.Errorf("expected *UnsupportedRecordTypeError, got %v", err)
	}

	var malformed *MalformedLineError
	if _, err := DecodeRecord("0401000001020304F1"); !errors.As(err, &malformed) {
		t.Errorf("expected *MalformedLineError, got %v", err)
	}
}

func TestDataRecordErrors(t *testing.T) {
	tests := []struct {
		name   string
		offset uint16
		data   []byte
		errMsg string
	}{
		{
			name:   "too long",
			offset: 0,
			data:   make([]byte, MaxDataLength+1),
			errMsg: "exceeds maximum",
		},
		{
			name:   "crosses window",
			offset: 0xFFFF,
			data:   []byte{1, 2},
			errMsg: "crosses a 64 KiB window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DataRecord(tt.offset, tt.data)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want substring %q", err, tt.errMsg)
			}
		})
	}

	if _, err := DataRecord(0xFFFF, []byte{1}); err != nil {
		t.Errorf("last byte of a window should fit: %v", err)
	}
}

func TestRecordTypeString(t *testing.T) {
	if got := TypeExtendedLinearAddress.String(); got != "extended linear address" {
		t.Errorf("String() = %q", got)
	}
	if got := RecordType(0x03).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}

func BenchmarkDecodeRecord(b *testing.B) {
	line := ":0401000001020304F1"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = decodeRecord(line, 1)
	}
}
