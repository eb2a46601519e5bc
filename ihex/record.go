package ihex

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Record is a single decoded Intel HEX record.
type Record struct {
	// Type is the record type field
	Type RecordType

	// Address is the 16-bit offset field (only meaningful for data records)
	Address uint16

	// Data is the record payload (at most MaxDataLength bytes)
	Data []byte
}

// Bytes returns the binary form of the record, checksum included.
//
// Layout:
//
//	[LEN][ADDR_H][ADDR_L][TYPE][DATA...][CHECKSUM]
func (r Record) Bytes() []byte {
	raw := make([]byte, 0, MinRecordBytes+len(r.Data))

	raw = append(raw, byte(len(r.Data)))
	raw = binary.BigEndian.AppendUint16(raw, r.Address)
	raw = append(raw, byte(r.Type))
	raw = append(raw, r.Data...)

	return append(raw, Checksum(raw))
}

// String returns the record as a text line without line terminator,
// using upper-case hex digits.
func (r Record) String() string {
	return string(StartCode) + strings.ToUpper(hex.EncodeToString(r.Bytes()))
}

// DataRecord constructs a data record for the given 16-bit offset.
func DataRecord(offset uint16, data []byte) (Record, error) {
	if len(data) > MaxDataLength {
		return Record{}, fmt.Errorf("data length %d exceeds maximum %d bytes", len(data), MaxDataLength)
	}
	if uint32(offset)+uint32(len(data)) > WindowSize {
		return Record{}, fmt.Errorf("data at offset 0x%04X with %d bytes crosses a 64 KiB window", offset, len(data))
	}
	return Record{Type: TypeData, Address: offset, Data: data}, nil
}

// EOFRecord constructs the end-of-file record.
func EOFRecord() Record {
	return Record{Type: TypeEOF}
}

// ExtendedLinearAddressRecord constructs a record setting the upper 16 address bits.
func ExtendedLinearAddressRecord(upper uint16) Record {
	return Record{Type: TypeExtendedLinearAddress, Data: binary.BigEndian.AppendUint16(nil, upper)}
}

// ExtendedSegmentAddressRecord constructs a record setting the segment base (segment*16).
func ExtendedSegmentAddressRecord(segment uint16) Record {
	return Record{Type: TypeExtendedSegmentAddress, Data: binary.BigEndian.AppendUint16(nil, segment)}
}

// StartLinearAddressRecord constructs a record carrying a 32-bit entry point.
func StartLinearAddressRecord(addr uint32) Record {
	return Record{Type: TypeStartLinearAddress, Data: binary.BigEndian.AppendUint32(nil, addr)}
}

// DecodeRecord decodes and validates a single record line such as
// ":0401000001020304F1". Errors report it as line 1.
func DecodeRecord(line string) (Record, error) {
	return decodeRecord(strings.TrimSpace(line), 1)
}

// decodeRecord decodes and validates one text line.
// lineNum is used only for error reporting.
func decodeRecord(line string, lineNum int) (Record, error) {
	if len(line) == 0 || line[0] != StartCode {
		return Record{}, &MalformedLineError{Line: lineNum, Reason: "record must start with ':'"}
	}

	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return Record{}, &MalformedLineError{Line: lineNum, Reason: fmt.Sprintf("invalid hex data: %v", err)}
	}

	if len(raw) < MinRecordBytes {
		return Record{}, &MalformedLineError{
			Line:   lineNum,
			Reason: fmt.Sprintf("record too short: got %d bytes, minimum is %d", len(raw), MinRecordBytes),
		}
	}

	count := int(raw[0])
	if len(raw) != MinRecordBytes+count {
		return Record{}, &MalformedLineError{
			Line: lineNum,
			Reason: fmt.Sprintf("byte count mismatch: header declares %d data bytes, line carries %d",
				count, len(raw)-MinRecordBytes),
		}
	}

	checksum := raw[len(raw)-1]
	if calculated := Checksum(raw[:len(raw)-1]); calculated != checksum {
		return Record{}, &ChecksumError{Line: lineNum, Expected: calculated, Actual: checksum}
	}

	rec := Record{
		Type:    RecordType(raw[3]),
		Address: binary.BigEndian.Uint16(raw[1:3]),
		Data:    raw[RecordHeaderSize : RecordHeaderSize+count],
	}

	if err := validateRecord(rec, lineNum); err != nil {
		return Record{}, err
	}

	return rec, nil
}

// validateRecord checks type-specific field constraints.
func validateRecord(rec Record, lineNum int) error {
	want := -1
	switch rec.Type {
	case TypeData:
		return nil
	case TypeEOF:
		want = 0
	case TypeExtendedSegmentAddress, TypeExtendedLinearAddress:
		want = 2
	case TypeStartLinearAddress:
		want = 4
	default:
		return &UnsupportedRecordTypeError{Line: lineNum, Type: rec.Type}
	}

	if len(rec.Data) != want {
		return &MalformedLineError{
			Line:   lineNum,
			Reason: fmt.Sprintf("%s record must carry %d data bytes, got %d", rec.Type, want, len(rec.Data)),
		}
	}
	return nil
}
