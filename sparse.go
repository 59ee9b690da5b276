package succinct

import (
	"context"
	"fmt"
	"math/bits"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/AlexWan0/go-succinct/internal/bitpack"
)

// Sparse stores only the sorted positions of the minority bit value.
//
// Rank and select on the minority value are a binary search and an array
// lookup. Rank on the majority value is derived arithmetically; select on
// it binary searches the positions by the number of majority bits before
// each one, inside a window given by a gap sample. That is O(log m) for m
// minority bits instead of the O(1) of Dense, traded for storing
// m*ceil(log2 n) bits instead of n.
type Sparse struct {
	// positions holds the minority positions in increasing order.
	positions *bitpack.Fixed

	// gaps[k] is the number of minority bits before the
	// (k*sample)-th majority bit; gaps[0] is 0.
	gaps []uint64

	size     uint64
	minority bool
	sample   uint64
}

// NewSparse builds a Sparse over b. The minority value is the one that
// occurs at most size/2 times, ones on a tie.
func NewSparse(b Bits, optFns ...Option) (*Sparse, error) {
	o := applyOptions(optFns)
	start := time.Now()
	if err := o.validate(); err != nil {
		o.logger.LogBuild(context.Background(), KindSparse, nil, 0, err)
		return nil, err
	}
	minority := b.ones()*2 <= b.n
	s := newSparse(b.n, minority, &o)
	for i, w := range b.words {
		if !minority {
			w = ^w & bitpack.Mask(uint(validBits(b.n, uint64(i))))
		}
		for ; w != 0; w &= w - 1 {
			s.positions.PushBack(uint64(i)*wordBits + uint64(bits.TrailingZeros64(w)))
		}
	}
	s.buildGaps()
	o.logger.LogBuild(context.Background(), KindSparse, s, time.Since(start), nil)
	return s, nil
}

// NewSparseFromRoaring builds a Sparse over the n-bit sequence whose ones are
// the members of rb, without materializing the sequence when ones are
// the minority.
func NewSparseFromRoaring(rb *roaring.Bitmap, n uint64, optFns ...Option) (*Sparse, error) {
	card := rb.GetCardinality()
	if card*2 > n {
		b, err := FromRoaring(rb, n)
		if err != nil {
			return nil, err
		}
		return NewSparse(b, optFns...)
	}
	o := applyOptions(optFns)
	start := time.Now()
	err := o.validate()
	if err == nil && !rb.IsEmpty() && uint64(rb.Maximum()) >= n {
		err = fmt.Errorf("%w: bitmap member %d outside sequence of %d bits", ErrOutOfRange, rb.Maximum(), n)
	}
	if err != nil {
		o.logger.LogBuild(context.Background(), KindSparse, nil, 0, err)
		return nil, err
	}
	s := newSparse(n, true, &o)
	it := rb.Iterator()
	for it.HasNext() {
		s.positions.PushBack(uint64(it.Next()))
	}
	s.buildGaps()
	o.logger.LogBuild(context.Background(), KindSparse, s, time.Since(start), nil)
	return s, nil
}

func newSparse(n uint64, minority bool, o *options) *Sparse {
	var width uint
	if n > 0 {
		width = bitpack.WidthFor(n - 1)
	}
	return &Sparse{
		positions: bitpack.NewFixed(width, 0),
		size:      n,
		minority:  minority,
		sample:    o.sparseSample,
	}
}

func (s *Sparse) buildGaps() {
	m := s.positions.Len()
	majority := s.size - m
	s.gaps = []uint64{0}
	var j uint64
	for target := s.sample; target <= majority; target += s.sample {
		for j < m && s.majorityBefore(j) < target {
			j++
		}
		s.gaps = append(s.gaps, j)
	}
}

// majorityBefore returns the number of majority bits before the j-th
// minority position.
func (s *Sparse) majorityBefore(j uint64) uint64 {
	return s.positions.At(j) - j
}

// lowerBound returns the number of minority positions below pos.
func (s *Sparse) lowerBound(pos uint64) uint64 {
	m := int(s.positions.Len())
	return uint64(sort.Search(m, func(i int) bool {
		return s.positions.At(uint64(i)) >= pos
	}))
}

// At returns the bit at pos.
func (s *Sparse) At(pos uint64) bool {
	if pos >= s.size {
		outOfRange("position %d exceeds size %d", pos, s.size)
	}
	i := s.lowerBound(pos)
	if i < s.positions.Len() && s.positions.At(i) == pos {
		return s.minority
	}
	return !s.minority
}

// Rank returns the number of bit's in [0, pos).
func (s *Sparse) Rank(pos uint64, bit bool) uint64 {
	if pos > s.size {
		outOfRange("rank position %d exceeds size %d", pos, s.size)
	}
	r := s.lowerBound(pos)
	if bit == s.minority {
		return r
	}
	return pos - r
}

// Select returns the smallest pos with Rank(pos, bit) == idx.
func (s *Sparse) Select(idx uint64, bit bool) uint64 {
	if idx == 0 {
		return 0
	}
	if idx > s.Count(bit) {
		outOfRange("select index %d exceeds count %d", idx, s.Count(bit))
	}
	if bit == s.minority {
		return s.positions.At(idx-1) + 1
	}
	// The idx-th majority bit is preceded by exactly the minority
	// positions with fewer than idx majority bits before them.
	bucket := idx / s.sample
	lo := s.gaps[bucket]
	hi := s.positions.Len()
	if bucket+1 < uint64(len(s.gaps)) {
		hi = s.gaps[bucket+1]
	}
	j := lo + uint64(sort.Search(int(hi-lo), func(i int) bool {
		return s.majorityBefore(lo+uint64(i)) >= idx
	}))
	return idx + j
}

// Size returns the number of bits.
func (s *Sparse) Size() uint64 {
	return s.size
}

// Count returns the number of bit's.
func (s *Sparse) Count(bit bool) uint64 {
	if bit == s.minority {
		return s.positions.Len()
	}
	return s.size - s.positions.Len()
}

// BitSize returns the bits used by the positions and the gap sample.
func (s *Sparse) BitSize() uint64 {
	return s.positions.BitSize() + uint64(len(s.gaps))*64
}

// Minority returns the bit value whose positions are stored.
func (s *Sparse) Minority() bool {
	return s.minority
}

// Clone returns a deep copy of s.
func (s *Sparse) Clone() *Sparse {
	c := *s
	c.positions = s.positions.Clone()
	c.gaps = append([]uint64(nil), s.gaps...)
	return &c
}
