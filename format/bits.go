package format

import (
	"errors"
	"fmt"
)

// ErrStraddledUnsupported is returned when constructing a reader for the
// pre-1.16 packing convention, where entries may straddle 64-bit word
// boundaries. Decoding that convention is an explicit extension that has
// not been implemented.
var ErrStraddledUnsupported = errors.New("straddled (pre-1.16) packed arrays are not supported")

// PackedReader extracts fixed-width unsigned integers from a sequence of
// 64-bit words. Entries are packed from the least significant bits of
// each word upward, and never straddle a word boundary: when fewer than
// width bits remain in a word the leftover bits are padding and the
// reader advances to the next word.
//
// The reader is a finite, single-pass cursor. It keeps producing values
// for as long as words remain; callers consuming a section's block array
// stop at 4096 values themselves.
type PackedReader struct {
	words  []uint64
	mask   uint64
	width  uint
	cursor uint // bit offset into the current word
	index  int  // current word
}

// NewPackedReader creates a reader of width-bit entries over words.
// Width 0 yields an immediately exhausted reader (used for sections
// whose palette has a single entry and therefore no data array). Widths
// above 32 exceed any palette id and are a caller bug.
func NewPackedReader(width int, words []uint64) *PackedReader {
	if width < 0 || width > 32 {
		panic(fmt.Sprintf("packed reader width %d out of range [0, 32]", width))
	}
	r := &PackedReader{words: words, width: uint(width)}
	if width > 0 {
		r.mask = 1<<uint(width) - 1
	} else {
		r.index = len(words)
	}
	return r
}

// NewPackedReaderStraddled would create a reader for the old packing
// convention where entries cross word boundaries.
func NewPackedReaderStraddled(width int, words []uint64) (*PackedReader, error) {
	return nil, ErrStraddledUnsupported
}

// Next returns the next value, or false once the words are exhausted.
func (r *PackedReader) Next() (uint64, bool) {
	if r.index >= len(r.words) {
		return 0, false
	}
	v := r.words[r.index] >> r.cursor & r.mask
	r.cursor += r.width
	// Advance when the remaining bits cannot hold a full entry.
	if r.cursor+r.width > 64 {
		r.cursor = 0
		r.index++
	}
	return v, true
}

// Take reads up to n values into a fresh slice. Fewer than n values are
// returned only when the underlying words run out first.
func (r *PackedReader) Take(n int) []uint32 {
	out := make([]uint32, 0, n)
	for len(out) < n {
		v, ok := r.Next()
		if !ok {
			break
		}
		out = append(out, uint32(v))
	}
	return out
}

// Uint64Words reinterprets an NBT long array as unsigned words.
func Uint64Words(data []int64) []uint64 {
	words := make([]uint64, len(data))
	for i, v := range data {
		words[i] = uint64(v)
	}
	return words
}
