package ihex

// RecordType identifies the kind of an Intel HEX record.
type RecordType byte

// Record types understood by this package.
const (
	// TypeData carries up to 255 data bytes at a 16-bit offset
	TypeData RecordType = 0x00

	// TypeEOF marks the end of the file
	TypeEOF RecordType = 0x01

	// TypeExtendedSegmentAddress sets bits 4-19 of the base address
	TypeExtendedSegmentAddress RecordType = 0x02

	// TypeExtendedLinearAddress sets the upper 16 bits of the base address
	TypeExtendedLinearAddress RecordType = 0x04

	// TypeStartLinearAddress carries the 32-bit entry point
	TypeStartLinearAddress RecordType = 0x05
)

func (t RecordType) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeEOF:
		return "end of file"
	case TypeExtendedSegmentAddress:
		return "extended segment address"
	case TypeExtendedLinearAddress:
		return "extended linear address"
	case TypeStartLinearAddress:
		return "start linear address"
	default:
		return "unknown"
	}
}

// Record layout constants.
const (
	// StartCode is the character every record line begins with
	StartCode = ':'

	// MinRecordBytes is the decoded size of a record without data:
	// byte count(1) + address(2) + type(1) + checksum(1)
	MinRecordBytes = 5

	// RecordHeaderSize is the number of decoded bytes before the data field
	RecordHeaderSize = 4

	// MaxDataLength is the largest data field a record can carry
	MaxDataLength = 255

	// DefaultDataLength is the number of data bytes per record written by encoders
	DefaultDataLength = 16

	// WindowSize is the span addressable by the 16-bit record offset
	WindowSize = 0x10000
)
