package ihex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/moffa90/go-fwmerge/memimage"
)

// File is the result of parsing an Intel HEX file.
type File struct {
	// Runs holds the data records in file order, contiguous records coalesced
	Runs []memimage.Run

	// StartAddress is the entry point from a start linear address record
	StartAddress uint32

	// HasStart reports whether a start linear address record was present
	HasStart bool

	// EOF reports whether an end-of-file record terminated the input
	EOF bool
}

// Len returns the number of data bytes in the file.
func (f *File) Len() int {
	n := 0
	for _, r := range f.Runs {
		n += len(r.Data)
	}
	return n
}

// ParseReader parses Intel HEX text from any io.Reader.
//
// Example:
//
//	f, err := ihex.ParseReader(bytes.NewReader(data))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d runs, %d bytes\n", len(f.Runs), f.Len())
func ParseReader(r io.Reader) (*File, error) {
	scanner := bufio.NewScanner(r)
	p := newParser()

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		done, err := p.parseLine(scanner.Text(), lineNum)
		if err != nil {
			return nil, err
		}
		if done {
			return p.file, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return p.file, nil
}

// ParseLines parses Intel HEX text already split into lines.
// Line numbers in errors are 1-based indexes into lines.
func ParseLines(lines []string) (*File, error) {
	p := newParser()
	for i, line := range lines {
		done, err := p.parseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return p.file, nil
}

// parser carries the extended base address between records.
type parser struct {
	file *File
	base uint32
}

func newParser() *parser {
	return &parser{file: &File{}}
}

// parseLine handles one line and reports whether an EOF record was reached.
func (p *parser) parseLine(line string, lineNum int) (bool, error) {
	line = strings.TrimSpace(line)

	// Skip empty lines
	if line == "" {
		return false, nil
	}

	rec, err := decodeRecord(line, lineNum)
	if err != nil {
		return false, err
	}

	switch rec.Type {
	case TypeData:
		return false, p.addData(rec, lineNum)
	case TypeEOF:
		p.file.EOF = true
		return true, nil
	case TypeExtendedSegmentAddress:
		p.base = uint32(binary.BigEndian.Uint16(rec.Data)) * 16
	case TypeExtendedLinearAddress:
		p.base = uint32(binary.BigEndian.Uint16(rec.Data)) << 16
	case TypeStartLinearAddress:
		p.file.StartAddress = binary.BigEndian.Uint32(rec.Data)
		p.file.HasStart = true
	}

	return false, nil
}

func (p *parser) addData(rec Record, lineNum int) error {
	if len(rec.Data) == 0 {
		return nil
	}

	addr := uint64(p.base) + uint64(rec.Address)
	if addr+uint64(len(rec.Data)) > memimage.AddressSpace {
		return fmt.Errorf("line %d: %w", lineNum,
			&memimage.AddressOverflowError{Address: addr, Length: len(rec.Data)})
	}

	runs := p.file.Runs
	if n := len(runs); n > 0 && runs[n-1].End() == addr {
		runs[n-1].Data = append(runs[n-1].Data, rec.Data...)
		return nil
	}

	p.file.Runs = append(runs, memimage.Run{Address: uint32(addr), Data: slices.Clone(rec.Data)})
	return nil
}
