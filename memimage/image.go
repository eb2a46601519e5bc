package memimage

import (
	"bytes"
	"slices"
	"sort"
)

// segment is a stored block of bytes tagged with the source that wrote it.
type segment struct {
	start  uint64
	data   []byte
	source string
}

func (s segment) end() uint64 {
	return s.start + uint64(len(s.data))
}

// Segment is a read-only view of one stored block and its provenance.
type Segment struct {
	Address uint32
	Data    []byte
	Source  string
}

// Image is a sparse memory image built by merging runs in order.
//
// Image is not safe for concurrent use.
type Image struct {
	segments     []segment // sorted by start, never overlapping
	startAddress uint32
	hasStart     bool
	sealed       bool
}

// New creates an empty image.
func New() *Image {
	return &Image{}
}

// Merge stores run in the image, replacing any bytes already present in its
// address range. Each existing segment that loses bytes is reported as a
// Conflict; the returned slice is empty when nothing was overwritten.
func (img *Image) Merge(run Run, source string) ([]Conflict, error) {
	if img.sealed {
		return nil, ErrSealed
	}
	if len(run.Data) == 0 {
		return nil, nil
	}

	start, end := uint64(run.Address), run.End()
	if end > AddressSpace {
		return nil, &AddressOverflowError{Address: start, Length: len(run.Data)}
	}

	// First segment that ends after the new run starts.
	i := sort.Search(len(img.segments), func(k int) bool {
		return img.segments[k].end() > start
	})

	var (
		conflicts []Conflict
		head      *segment
		tail      *segment
	)
	j := i
	for ; j < len(img.segments) && img.segments[j].start < end; j++ {
		s := img.segments[j]
		conflicts = append(conflicts, Conflict{
			Range:    Range{Start: max(s.start, start), End: min(s.end(), end)},
			Existing: s.source,
			Incoming: source,
		})

		if s.start < start {
			n := start - s.start
			head = &segment{start: s.start, data: s.data[:n:n], source: s.source}
		}
		if s.end() > end {
			tail = &segment{start: end, data: s.data[end-s.start:], source: s.source}
		}
	}

	replacement := make([]segment, 0, 3)
	inserted := i
	if head != nil {
		replacement = append(replacement, *head)
		inserted++
	}
	replacement = append(replacement, segment{start: start, data: slices.Clone(run.Data), source: source})
	if tail != nil {
		replacement = append(replacement, *tail)
	}
	img.segments = slices.Replace(img.segments, i, j, replacement...)

	img.coalesce(inserted)

	return conflicts, nil
}

// coalesce joins the segment at index k with touching neighbours that share
// its source.
func (img *Image) coalesce(k int) {
	if k+1 < len(img.segments) && img.canJoin(k, k+1) {
		img.segments[k].data = append(img.segments[k].data, img.segments[k+1].data...)
		img.segments = slices.Delete(img.segments, k+1, k+2)
	}
	if k > 0 && img.canJoin(k-1, k) {
		img.segments[k-1].data = append(img.segments[k-1].data, img.segments[k].data...)
		img.segments = slices.Delete(img.segments, k, k+1)
	}
}

func (img *Image) canJoin(a, b int) bool {
	return img.segments[a].end() == img.segments[b].start &&
		img.segments[a].source == img.segments[b].source
}

// Extent returns the smallest range covering every occupied address.
// The second result is false when the image is empty.
func (img *Image) Extent() (Range, bool) {
	if len(img.segments) == 0 {
		return Range{}, false
	}
	return Range{
		Start: img.segments[0].start,
		End:   img.segments[len(img.segments)-1].end(),
	}, true
}

// ReadRange returns exactly end-start bytes covering [start, end), with every
// unoccupied address set to pad.
func (img *Image) ReadRange(start uint32, end uint64, pad byte) ([]byte, error) {
	lo := uint64(start)
	if end < lo || end > AddressSpace {
		return nil, &RangeOverflowError{Start: lo, End: end}
	}

	buf := bytes.Repeat([]byte{pad}, int(end-lo))

	i := sort.Search(len(img.segments), func(k int) bool {
		return img.segments[k].end() > lo
	})
	for ; i < len(img.segments) && img.segments[i].start < end; i++ {
		s := img.segments[i]
		from := max(s.start, lo)
		to := min(s.end(), end)
		copy(buf[from-lo:to-lo], s.data[from-s.start:to-s.start])
	}

	return buf, nil
}

// Segments returns copies of the stored segments in address order.
func (img *Image) Segments() []Segment {
	segs := make([]Segment, 0, len(img.segments))
	for _, s := range img.segments {
		segs = append(segs, Segment{
			Address: uint32(s.start),
			Data:    slices.Clone(s.data),
			Source:  s.source,
		})
	}
	return segs
}

// Runs returns the occupied address space as maximal contiguous runs,
// ignoring provenance.
func (img *Image) Runs() []Run {
	var runs []Run
	for _, s := range img.segments {
		if n := len(runs); n > 0 && runs[n-1].End() == s.start {
			runs[n-1].Data = append(runs[n-1].Data, s.data...)
			continue
		}
		runs = append(runs, Run{Address: uint32(s.start), Data: slices.Clone(s.data)})
	}
	return runs
}

// Len returns the number of occupied bytes.
func (img *Image) Len() uint64 {
	var n uint64
	for _, s := range img.segments {
		n += uint64(len(s.data))
	}
	return n
}

// StartAddress returns the start linear address carried by the image, if any.
func (img *Image) StartAddress() (uint32, bool) {
	return img.startAddress, img.hasStart
}

// SetStartAddress records the entry point to emit with HEX output.
func (img *Image) SetStartAddress(addr uint32) error {
	if img.sealed {
		return ErrSealed
	}
	img.startAddress = addr
	img.hasStart = true
	return nil
}

// Seal freezes the image. It is called by encoders before reading.
func (img *Image) Seal() {
	img.sealed = true
}

// Sealed reports whether the image has been sealed.
func (img *Image) Sealed() bool {
	return img.sealed
}
