package succinct

import (
	"context"
	"math"
	"math/bits"
	"time"

	"github.com/AlexWan0/go-succinct/internal/bitpack"
)

// rrrSample samples the blocks before one superblock.
type rrrSample struct {
	// abs is the number of ones before the superblock.
	abs uint64
	// ptr is the bit offset of the superblock's first offset.
	ptr uint64
}

// RRR is an entropy-compressed bit vector (Raman, Raman and Rao).
//
// The sequence is cut into blocks of b bits. Each block is stored as its
// class c (its population count, fixed width) and its offset o, the rank
// of the block among the C(b, c) patterns of class c, in ceil(log2 C(b, c))
// bits. A rank sample every superblock blocks holds the ones and the offset
// pointer before it, and select samples bound a binary search over them
// the same way Dense does.
type RRR struct {
	classes *bitpack.Fixed
	offsets *bitpack.Array
	ranks   []rrrSample

	// selects[v][k] is the superblock holding the (k*selectSample)-th
	// occurrence of v, closed by the last superblock index.
	selects [2][]uint32

	// widths[c] is the offset width of class c.
	widths []uint

	size         uint64
	ones         uint64
	blockWidth   uint
	superblock   uint64
	selectSample uint64
}

// NewRRR builds an RRR over b.
func NewRRR(b Bits, optFns ...Option) (*RRR, error) {
	o := applyOptions(optFns)
	start := time.Now()
	r, err := buildRRR(b, &o)
	if err != nil {
		o.logger.LogBuild(context.Background(), KindRRR, nil, 0, err)
		return nil, err
	}
	o.logger.LogBuild(context.Background(), KindRRR, r, time.Since(start), nil)
	return r, nil
}

func buildRRR(b Bits, o *options) (*RRR, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	bw := uint64(o.blockWidth)
	numBlocks := (b.n + bw - 1) / bw
	if numBlocks/o.superblock > math.MaxUint32 {
		return nil, &ErrTooLarge{Size: b.n, Limit: maxRRRSize(bw, o.superblock)}
	}

	r := &RRR{
		classes:      bitpack.NewFixed(bitpack.WidthFor(bw), numBlocks),
		offsets:      bitpack.NewArray(0),
		widths:       make([]uint, bw+1),
		size:         b.n,
		blockWidth:   o.blockWidth,
		superblock:   o.superblock,
		selectSample: o.selectSample,
	}
	for c := range r.widths {
		r.widths[c] = offsetWidth(binomial(o.blockWidth, uint(c)))
	}

	// Encoding is independent per block; packing is sequential.
	classes := make([]uint8, numBlocks)
	codes := make([]uint64, numBlocks)
	err := forEachSpan(numBlocks, o.parallelism, func(lo, hi uint64) {
		for k := lo; k < hi; k++ {
			pattern := bitpack.Extract(b.words, k*bw, o.blockWidth)
			c := uint(popcount(pattern))
			classes[k] = uint8(c)
			codes[k] = r.encode(pattern, c)
		}
	})
	if err != nil {
		return nil, err
	}

	s := o.selectSample
	r.selects = [2][]uint32{{0}, {0}}
	var seen [2]uint64
	for k := uint64(0); k <= numBlocks; k++ {
		if k%o.superblock == 0 {
			r.ranks = append(r.ranks, rrrSample{abs: r.ones, ptr: r.offsets.Len()})
		}
		if k == numBlocks {
			break
		}
		c := uint64(classes[k])
		r.classes.PushBack(c)
		r.offsets.Append(codes[k], r.widths[c])
		r.ones += c

		valid := min(bw, b.n-k*bw)
		per := [2]uint64{valid - c, c}
		sb := uint32(k / o.superblock)
		for v := range per {
			for next := (seen[v]/s + 1) * s; next <= seen[v]+per[v]; next += s {
				r.selects[v] = append(r.selects[v], sb)
			}
			seen[v] += per[v]
		}
	}
	var last uint32
	if numBlocks > 0 {
		last = uint32((numBlocks - 1) / o.superblock)
	}
	r.selects[0] = append(r.selects[0], last)
	r.selects[1] = append(r.selects[1], last)
	return r, nil
}

func maxRRRSize(blockWidth, superblock uint64) uint64 {
	hi, lo := bits.Mul64(blockWidth*superblock, math.MaxUint32+1)
	if hi != 0 || blockWidth*superblock/superblock != blockWidth {
		return math.MaxUint64
	}
	return lo - 1
}

// offsetWidth returns ceil(log2 n), the bits needed for values in [0, n).
func offsetWidth(n uint64) uint {
	if n <= 1 {
		return 0
	}
	return uint(bits.Len64(n - 1))
}

// encode returns the offset of pattern among the blocks of class c:
// walking from bit 0, every 0 placed where a 1 could still go skips the
// C(rem-1, c-1) patterns that put a 1 there.
func (r *RRR) encode(pattern uint64, c uint) uint64 {
	var o uint64
	b := r.blockWidth
	for i := uint(0); i < b && c > 0; i++ {
		rem := b - i
		if pattern>>i&1 == 1 {
			c--
		} else {
			o += binomial(rem-1, c-1)
		}
	}
	return o
}

// blockCursor decodes a block bit by bit, inverting encode.
type blockCursor struct {
	rem uint
	c   uint
	o   uint64
}

func (r *RRR) cursor(c uint, o uint64) blockCursor {
	return blockCursor{rem: r.blockWidth, c: c, o: o}
}

// next returns the next bit of the block.
func (bc *blockCursor) next() bool {
	switch {
	case bc.c == 0:
		bc.rem--
		return false
	case bc.rem == bc.c:
		bc.rem--
		bc.c--
		return true
	}
	x := binomial(bc.rem-1, bc.c-1)
	bc.rem--
	if bc.o < x {
		bc.c--
		return true
	}
	bc.o -= x
	return false
}

// rankInBlock returns the number of ones in the first n bits of a block.
func (r *RRR) rankInBlock(c uint, o uint64, n uint) uint64 {
	bc := r.cursor(c, o)
	var ones uint
	for i := uint(0); i < n; i++ {
		if bc.c == 0 {
			break
		}
		if bc.rem == bc.c {
			ones += n - i
			break
		}
		if bc.next() {
			ones++
		}
	}
	return uint64(ones)
}

// selectInBlock returns the offset of the k-th bit within a block.
func (r *RRR) selectInBlock(c uint, o uint64, k uint64, bit bool) uint64 {
	bc := r.cursor(c, o)
	var seen uint64
	for i := uint64(0); i < uint64(r.blockWidth); i++ {
		if bc.next() == bit {
			seen++
			if seen == k {
				return i
			}
		}
	}
	panic("succinct: block select rank exceeds block population")
}

// locate returns the class and offset of block k and the number of
// ones before it.
func (r *RRR) locate(k uint64) (c uint, o uint64, before uint64) {
	s := k / r.superblock
	before = r.ranks[s].abs
	ptr := r.ranks[s].ptr
	for j := s * r.superblock; j < k; j++ {
		cj := r.classes.At(j)
		before += cj
		ptr += uint64(r.widths[cj])
	}
	c = uint(r.classes.At(k))
	return c, r.offsets.Get(ptr, r.widths[c]), before
}

// At returns the bit at pos.
func (r *RRR) At(pos uint64) bool {
	if pos >= r.size {
		outOfRange("position %d exceeds size %d", pos, r.size)
	}
	bw := uint64(r.blockWidth)
	c, o, _ := r.locate(pos / bw)
	bc := r.cursor(c, o)
	for i := pos % bw; i > 0; i-- {
		bc.next()
	}
	return bc.next()
}

// Rank returns the number of bit's in [0, pos).
func (r *RRR) Rank(pos uint64, bit bool) uint64 {
	if pos > r.size {
		outOfRange("rank position %d exceeds size %d", pos, r.size)
	}
	if pos == 0 {
		return 0
	}
	if pos == r.size {
		return r.Count(bit)
	}
	bw := uint64(r.blockWidth)
	c, o, ones := r.locate(pos / bw)
	if rem := pos % bw; rem > 0 {
		ones += r.rankInBlock(c, o, uint(rem))
	}
	return countOf(ones, pos, bit)
}

// Select returns the smallest pos with Rank(pos, bit) == idx.
func (r *RRR) Select(idx uint64, bit bool) uint64 {
	if idx == 0 {
		return 0
	}
	if idx > r.Count(bit) {
		outOfRange("select index %d exceeds count %d", idx, r.Count(bit))
	}
	samples := r.selects[bitIndex(bit)]
	bucket := idx / r.selectSample
	left := uint64(samples[bucket])
	right := uint64(samples[bucket+1]) + 1
	for left+1 < right {
		m := (left + right) / 2
		if r.superblockRank(m, bit) >= idx {
			right = m
		} else {
			left = m
		}
	}

	bw := uint64(r.blockWidth)
	seen := r.superblockRank(left, bit)
	ptr := r.ranks[left].ptr
	for k := left * r.superblock; ; k++ {
		c := r.classes.At(k)
		n := c
		if !bit {
			n = bw - c
		}
		if seen+n >= idx {
			o := r.offsets.Get(ptr, r.widths[c])
			return k*bw + r.selectInBlock(uint(c), o, idx-seen, bit) + 1
		}
		seen += n
		ptr += uint64(r.widths[c])
	}
}

// Size returns the number of bits.
func (r *RRR) Size() uint64 {
	return r.size
}

// Count returns the number of bit's.
func (r *RRR) Count(bit bool) uint64 {
	return countOf(r.ones, r.size, bit)
}

// BitSize returns the bits used by classes, offsets and samples.
func (r *RRR) BitSize() uint64 {
	size := r.classes.BitSize() + r.offsets.BitSize()
	size += uint64(len(r.ranks)) * 2 * 64
	size += uint64(len(r.selects[0])+len(r.selects[1])) * 32
	return size
}

// BlockWidth returns the block width in bits.
func (r *RRR) BlockWidth() uint {
	return r.blockWidth
}

// Clone returns a deep copy of r.
func (r *RRR) Clone() *RRR {
	c := *r
	c.classes = r.classes.Clone()
	c.offsets = r.offsets.Clone()
	c.ranks = append([]rrrSample(nil), r.ranks...)
	c.selects[0] = append([]uint32(nil), r.selects[0]...)
	c.selects[1] = append([]uint32(nil), r.selects[1]...)
	c.widths = append([]uint(nil), r.widths...)
	return &c
}

// superblockRank returns the number of bit's before superblock s.
func (r *RRR) superblockRank(s uint64, bit bool) uint64 {
	return countOf(r.ranks[s].abs, s*r.superblock*uint64(r.blockWidth), bit)
}
