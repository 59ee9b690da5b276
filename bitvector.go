// Package succinct provides immutable bit vectors that answer rank and
// select queries in near constant time with a small index overhead.
//
// Three interchangeable representations implement BitVector:
//
//   - Dense stores the bits word-packed with two-level rank samples and
//     select samples. It is the fastest general purpose choice.
//   - Sparse stores only the positions of the rarer bit value. It is the
//     smallest choice for skewed densities; select on the common bit value
//     costs a binary search.
//   - RRR stores fixed-width blocks as (class, offset) pairs of the
//     combinatorial number system and approaches the entropy of the input.
//
// A vector is built once from a Bits sequence (or a Builder) and then
// queried from any number of goroutines without locking.
package succinct

import "fmt"

// BitVector is the query contract shared by every representation.
//
// Conceptually a BitVector represents a bit sequence B[0...Size()).
// Arguments outside the documented ranges cause a panic wrapping
// ErrOutOfRange.
type BitVector interface {
	// At returns B[pos], 0 <= pos < Size().
	At(pos uint64) bool

	// Rank returns the number of bit's in B[0...pos), 0 <= pos <= Size().
	Rank(pos uint64, bit bool) uint64

	// Select returns the smallest pos such that Rank(pos, bit) == idx,
	// 0 <= idx <= Count(bit). For idx > 0 the idx-th occurrence of bit
	// is therefore at Select(idx, bit)-1. Select(0, bit) is 0.
	Select(idx uint64, bit bool) uint64

	// Size returns the number of bits.
	Size() uint64

	// Count returns the number of bit's in the whole sequence.
	Count(bit bool) uint64

	// BitSize returns the number of bits used by the bit storage and
	// every index structure.
	BitSize() uint64
}

// Kind identifies a representation.
type Kind int

const (
	// KindDense selects Dense.
	KindDense Kind = iota
	// KindSparse selects Sparse.
	KindSparse
	// KindRRR selects RRR.
	KindRRR
)

// Kinds lists every representation.
var Kinds = []Kind{KindDense, KindSparse, KindRRR}

func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	case KindRRR:
		return "rrr"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a name produced by Kind.String back to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New builds a bit vector of the given kind over b.
func New(kind Kind, b Bits, optFns ...Option) (BitVector, error) {
	switch kind {
	case KindDense:
		d, err := NewDense(b, optFns...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindSparse:
		s, err := NewSparse(b, optFns...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindRRR:
		r, err := NewRRR(b, optFns...)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// countOf converts a count of ones before pos into a count of bit's.
func countOf(ones, pos uint64, bit bool) uint64 {
	if bit {
		return ones
	}
	return pos - ones
}

func bitIndex(bit bool) int {
	if bit {
		return 1
	}
	return 0
}
