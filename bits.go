package succinct

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// Bits is an immutable bit sequence packed into 64-bit words, bit i of the
// sequence at bit i%64 of word i/64. It is the input of every constructor.
type Bits struct {
	words []uint64
	n     uint64
}

// FromBools packs v, position i taking the value v[i].
func FromBools(v []bool) Bits {
	words := make([]uint64, wordsFor(uint64(len(v))))
	for i, bit := range v {
		if bit {
			words[i/wordBits] |= 1 << (uint(i) % wordBits)
		}
	}
	return Bits{words: words, n: uint64(len(v))}
}

// FromWords copies the first n bits of words.
func FromWords(words []uint64, n uint64) Bits {
	nw := wordsFor(n)
	if uint64(len(words)) < nw {
		panic(fmt.Sprintf("succinct: %d words cannot hold %d bits", len(words), n))
	}
	cp := make([]uint64, nw)
	copy(cp, words[:nw])
	if rem := n % wordBits; rem != 0 {
		cp[nw-1] &= 1<<rem - 1
	}
	return Bits{words: cp, n: n}
}

// FromBitSet copies a bits-and-blooms bitset; the sequence length is b.Len().
func FromBitSet(b *bitset.BitSet) Bits {
	n := uint64(b.Len())
	words := make([]uint64, wordsFor(n))
	for i, ok := b.NextSet(0); ok && uint64(i) < n; i, ok = b.NextSet(i + 1) {
		words[i/wordBits] |= 1 << (i % wordBits)
	}
	return Bits{words: words, n: n}
}

// FromRoaring builds a sequence of n bits whose set positions are the
// members of rb. It fails if rb holds a member >= n.
func FromRoaring(rb *roaring.Bitmap, n uint64) (Bits, error) {
	if !rb.IsEmpty() && uint64(rb.Maximum()) >= n {
		return Bits{}, fmt.Errorf("%w: bitmap member %d outside sequence of %d bits", ErrOutOfRange, rb.Maximum(), n)
	}
	words := make([]uint64, wordsFor(n))
	it := rb.Iterator()
	for it.HasNext() {
		i := uint64(it.Next())
		words[i/wordBits] |= 1 << (i % wordBits)
	}
	return Bits{words: words, n: n}, nil
}

// Len returns the number of bits.
func (b Bits) Len() uint64 {
	return b.n
}

// Bit returns the bit at pos.
func (b Bits) Bit(pos uint64) bool {
	if pos >= b.n {
		outOfRange("bit position %d exceeds size %d", pos, b.n)
	}
	return b.words[pos/wordBits]>>(pos%wordBits)&1 == 1
}

// ones counts the set bits.
func (b Bits) ones() uint64 {
	var c uint64
	for _, w := range b.words {
		c += popcount(w)
	}
	return c
}

// validBits returns how many bits of word i belong to a sequence of n bits.
func validBits(n, i uint64) uint64 {
	if (i+1)*wordBits <= n {
		return wordBits
	}
	return n - i*wordBits
}

func wordsFor(n uint64) uint64 {
	return (n + wordBits - 1) / wordBits
}

// Builder accumulates bits one at a time.
// A user calls PushBack()s followed by Build().
type Builder struct {
	words []uint64
	n     uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// PushBack appends bit to the end of the sequence.
func (b *Builder) PushBack(bit bool) {
	if b.n%wordBits == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.n/wordBits] |= 1 << (b.n % wordBits)
	}
	b.n++
}

// Len returns the number of bits pushed so far.
func (b *Builder) Len() uint64 {
	return b.n
}

// Bits returns a snapshot of the bits pushed so far.
func (b *Builder) Bits() Bits {
	return FromWords(b.words, b.n)
}

// Build constructs a bit vector of the given kind from the pushed bits.
func (b *Builder) Build(kind Kind, optFns ...Option) (BitVector, error) {
	return New(kind, b.Bits(), optFns...)
}
