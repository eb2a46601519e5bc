package ihex

import (
	"fmt"
)

// ChecksumError indicates that a record's checksum byte does not match its contents.
type ChecksumError struct {
	Line     int
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("line %d: checksum mismatch: computed 0x%02X, record has 0x%02X",
		e.Line, e.Expected, e.Actual)
}

// MalformedLineError indicates a line that is not a well-formed record.
type MalformedLineError struct {
	Line   int
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: malformed record: %s", e.Line, e.Reason)
}

// UnsupportedRecordTypeError indicates a record type outside of 00, 01, 02, 04 and 05.
type UnsupportedRecordTypeError struct {
	Line int
	Type RecordType
}

func (e *UnsupportedRecordTypeError) Error() string {
	return fmt.Sprintf("line %d: unsupported record type 0x%02X", e.Line, byte(e.Type))
}
