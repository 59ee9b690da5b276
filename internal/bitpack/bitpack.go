// Package bitpack stores unsigned integers of arbitrary bit width
// back to back in a []uint64, readable at any bit offset.
//
// Values never need to be byte or word aligned: a value may straddle two
// words. Widths range over [0, 64]; a width of 0 stores nothing and
// always reads back as 0.
package bitpack

import "fmt"

const wordBits = 64

// Mask returns a mask of the lowest width bits.
func Mask(width uint) uint64 {
	if width == 0 {
		return 0
	}
	return ^uint64(0) >> (wordBits - width)
}

// Extract reads width bits starting at bit offset off of words.
// Bits past the end of words read as zero.
func Extract(words []uint64, off uint64, width uint) uint64 {
	if width == 0 {
		return 0
	}
	w := off / wordBits
	if w >= uint64(len(words)) {
		return 0
	}
	s := uint(off % wordBits)
	v := words[w] >> s
	if s+width > wordBits && w+1 < uint64(len(words)) {
		v |= words[w+1] << (wordBits - s)
	}
	return v & Mask(width)
}

// Array is an append-only bit stream of variable width values.
type Array struct {
	words []uint64
	n     uint64
}

// NewArray returns an empty Array with room for capBits bits.
func NewArray(capBits uint64) *Array {
	return &Array{words: make([]uint64, 0, (capBits+wordBits-1)/wordBits)}
}

// Append writes the lowest width bits of v at the end of the stream
// and returns the offset they were written at.
func (a *Array) Append(v uint64, width uint) uint64 {
	if width > wordBits {
		panic(fmt.Sprintf("bitpack: width %d exceeds %d", width, wordBits))
	}
	off := a.n
	if width == 0 {
		return off
	}
	v &= Mask(width)
	need := (a.n + uint64(width) + wordBits - 1) / wordBits
	for uint64(len(a.words)) < need {
		a.words = append(a.words, 0)
	}
	w := off / wordBits
	s := uint(off % wordBits)
	a.words[w] |= v << s
	if s+width > wordBits {
		a.words[w+1] |= v >> (wordBits - s)
	}
	a.n += uint64(width)
	return off
}

// Get reads width bits at bit offset off.
func (a *Array) Get(off uint64, width uint) uint64 {
	if off+uint64(width) > a.n {
		panic(fmt.Sprintf("bitpack: read [%d,%d) past end %d", off, off+uint64(width), a.n))
	}
	return Extract(a.words, off, width)
}

// Len returns the number of bits written.
func (a *Array) Len() uint64 {
	return a.n
}

// Words exposes the backing storage. Callers must not modify it.
func (a *Array) Words() []uint64 {
	return a.words
}

// BitSize returns the number of bits of backing storage.
func (a *Array) BitSize() uint64 {
	return uint64(len(a.words)) * wordBits
}

// Clone returns a deep copy of a.
func (a *Array) Clone() *Array {
	words := make([]uint64, len(a.words))
	copy(words, a.words)
	return &Array{words: words, n: a.n}
}

// Fixed is an array of equally wide values.
type Fixed struct {
	bits  *Array
	width uint
	num   uint64
}

// NewFixed returns an empty Fixed whose values are width bits wide.
func NewFixed(width uint, capacity uint64) *Fixed {
	if width > wordBits {
		panic(fmt.Sprintf("bitpack: width %d exceeds %d", width, wordBits))
	}
	return &Fixed{bits: NewArray(capacity * uint64(width)), width: width}
}

// PushBack appends v.
func (f *Fixed) PushBack(v uint64) {
	f.bits.Append(v, f.width)
	f.num++
}

// At returns the i-th value.
func (f *Fixed) At(i uint64) uint64 {
	if i >= f.num {
		panic(fmt.Sprintf("bitpack: index %d out of range %d", i, f.num))
	}
	return Extract(f.bits.words, i*uint64(f.width), f.width)
}

// Len returns the number of values.
func (f *Fixed) Len() uint64 {
	return f.num
}

// Width returns the width of every value in bits.
func (f *Fixed) Width() uint {
	return f.width
}

// BitSize returns the number of bits of backing storage.
func (f *Fixed) BitSize() uint64 {
	return f.bits.BitSize()
}

// Clone returns a deep copy of f.
func (f *Fixed) Clone() *Fixed {
	return &Fixed{bits: f.bits.Clone(), width: f.width, num: f.num}
}

// WidthFor returns the number of bits needed to store any value in [0, max].
func WidthFor(max uint64) uint {
	w := uint(0)
	for max > 0 {
		max >>= 1
		w++
	}
	return w
}
