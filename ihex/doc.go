// Package ihex reads and writes Intel HEX firmware records.
//
// # Intel HEX Format
//
// An Intel HEX file is a sequence of ASCII lines, one record per line:
//
//	:LLAAAATT[DD...]CC
//	  LL   = number of data bytes
//	  AAAA = 16-bit offset (big-endian)
//	  TT   = record type
//	  DD   = data bytes
//	  CC   = checksum, 2's complement of the sum of all preceding bytes
//
// Example data record:
//
//	:0401000001020304F1
//	  04 = 4 data bytes
//	  0100 = offset 0x0100
//	  00 = data record
//	  01020304 = data
//	  F1 = checksum
//
// Supported record types:
//
//	00 data
//	01 end of file (later lines are ignored)
//	02 extended segment address (base = value * 16)
//	04 extended linear address (base = value << 16)
//	05 start linear address
//
// Any other type, including 03, is rejected. A file that mixes dialects must
// not be merged partially.
//
// # Usage
//
// Parse file content read by the caller:
//
//	f, err := ihex.ParseReader(bytes.NewReader(data))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, run := range f.Runs {
//	    fmt.Printf("0x%08X: %d bytes\n", run.Address, len(run.Data))
//	}
//
// Build records for output:
//
//	rec, err := ihex.DataRecord(0x0100, []byte{1, 2, 3, 4})
//	fmt.Println(rec) // :0401000001020304F1
//
// # Error Handling
//
// Parse errors are typed and carry the 1-based line number:
//   - ChecksumError for a checksum mismatch
//   - MalformedLineError for a missing ':', bad hex, a wrong byte count or
//     a wrong payload size for the record type
//   - UnsupportedRecordTypeError for unknown record types
//   - memimage.AddressOverflowError (wrapped) for data past 4 GiB
package ihex
