package succinct

import (
	"context"
	"math"
	"time"
)

const (
	wordBits = 64

	// rankSample and rankSubSample are tied together: five sub-block
	// counts of at most rankSample-1 must fit the 55 low bits of rel.
	rankSample    = 2048
	rankSubSample = 384

	subBlocks          = rankSample / rankSubSample
	wordsPerRankSample = rankSample / wordBits
	wordsPerSubSample  = rankSubSample / wordBits
	subCountBits       = 11
	subCountMask       = 1<<subCountBits - 1

	// maxDenseSize bounds the sequence so every rank sample index fits
	// the uint32 select samples.
	maxDenseSize = rankSample * (math.MaxUint32 + 1)
)

// rankBlock samples one rankSample-bit span.
type rankBlock struct {
	// abs is the number of ones before the span.
	abs uint64
	// rel holds, for k in 1..5, the number of ones in the first
	// k*rankSubSample bits of the span at bit 11*(5-k).
	rel uint64
}

// Dense is a word-packed bit vector with rank and select samples.
//
// Rank is O(1). Select narrows the candidate spans with a select sample,
// binary searches the rank samples, skips sub-blocks and finishes with a
// word scan and a byte-table word select.
type Dense struct {
	bits  []uint64
	ranks []rankBlock

	// selects[v][k] is the rank sample index holding the (k*selectSample)-th
	// occurrence of v; selects[v][0] is 0 and the last entry is the last
	// rank sample index.
	selects [2][]uint32

	size         uint64
	ones         uint64
	selectSample uint64
}

// NewDense builds a Dense over b.
func NewDense(b Bits, optFns ...Option) (*Dense, error) {
	o := applyOptions(optFns)
	start := time.Now()
	d, err := buildDense(b, &o)
	if err != nil {
		o.logger.LogBuild(context.Background(), KindDense, nil, 0, err)
		return nil, err
	}
	o.logger.LogBuild(context.Background(), KindDense, d, time.Since(start), nil)
	return d, nil
}

func buildDense(b Bits, o *options) (*Dense, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if b.n >= maxDenseSize {
		return nil, &ErrTooLarge{Size: b.n, Limit: maxDenseSize - 1}
	}
	d := &Dense{
		bits:         make([]uint64, len(b.words)),
		size:         b.n,
		selectSample: o.selectSample,
	}
	copy(d.bits, b.words)
	if err := d.buildRanks(o.parallelism); err != nil {
		return nil, err
	}
	d.buildSelects()
	return d, nil
}

func (d *Dense) buildRanks(workers int) error {
	numBlocks := d.size/rankSample + 1
	d.ranks = make([]rankBlock, numBlocks)
	counts := make([]uint64, numBlocks)
	err := forEachSpan(numBlocks, workers, func(lo, hi uint64) {
		for blk := lo; blk < hi; blk++ {
			d.ranks[blk].rel, counts[blk] = d.scanBlock(blk)
		}
	})
	if err != nil {
		return err
	}
	var abs uint64
	for blk := range d.ranks {
		d.ranks[blk].abs = abs
		abs += counts[blk]
	}
	d.ones = abs
	return nil
}

// scanBlock returns the packed sub-block counts and the total number of
// ones of rank sample blk.
func (d *Dense) scanBlock(blk uint64) (rel, total uint64) {
	first := blk * wordsPerRankSample
	for w := uint64(0); w < wordsPerRankSample; w++ {
		if w > 0 && w%wordsPerSubSample == 0 {
			sub := w / wordsPerSubSample
			rel |= total << (subCountBits * (subBlocks - sub))
		}
		if i := first + w; i < uint64(len(d.bits)) {
			total += popcount(d.bits[i])
		}
	}
	return rel, total
}

func (d *Dense) buildSelects() {
	s := d.selectSample
	d.selects = [2][]uint32{{0}, {0}}
	var seen [2]uint64
	for w := uint64(0); w < uint64(len(d.bits)); w++ {
		ones := popcount(d.bits[w])
		valid := validBits(d.size, w)
		per := [2]uint64{valid - ones, ones}
		blk := uint32(w / wordsPerRankSample)
		for v := range per {
			for next := (seen[v]/s + 1) * s; next <= seen[v]+per[v]; next += s {
				d.selects[v] = append(d.selects[v], blk)
			}
			seen[v] += per[v]
		}
	}
	var last uint32
	if d.size > 0 {
		last = uint32((d.size - 1) / rankSample)
	}
	d.selects[0] = append(d.selects[0], last)
	d.selects[1] = append(d.selects[1], last)
}

// At returns the bit at pos.
func (d *Dense) At(pos uint64) bool {
	if pos >= d.size {
		outOfRange("position %d exceeds size %d", pos, d.size)
	}
	return d.bits[pos/wordBits]>>(pos%wordBits)&1 == 1
}

// Rank returns the number of bit's in [0, pos).
func (d *Dense) Rank(pos uint64, bit bool) uint64 {
	if pos > d.size {
		outOfRange("rank position %d exceeds size %d", pos, d.size)
	}
	if pos == 0 {
		return 0
	}
	block := pos / rankSample
	sub := pos % rankSample / rankSubSample
	sum := d.ranks[block].abs + d.subBlockRank(block, sub)
	word := block*wordsPerRankSample + sub*wordsPerSubSample
	end := pos / wordBits
	for ; word < end; word++ {
		sum += popcount(d.bits[word])
	}
	if rem := pos % wordBits; rem > 0 {
		sum += popcount(d.bits[end] & (1<<rem - 1))
	}
	return countOf(sum, pos, bit)
}

// Select returns the smallest pos with Rank(pos, bit) == idx.
func (d *Dense) Select(idx uint64, bit bool) uint64 {
	if idx == 0 {
		return 0
	}
	if idx > d.Count(bit) {
		outOfRange("select index %d exceeds count %d", idx, d.Count(bit))
	}
	samples := d.selects[bitIndex(bit)]
	bucket := idx / d.selectSample
	left := uint64(samples[bucket])
	right := uint64(samples[bucket+1]) + 1
	// last rank sample in [left, right) with fewer than idx occurrences before it
	for left+1 < right {
		c := (left + right) / 2
		if d.blockRank(c, bit) >= idx {
			right = c
		} else {
			left = c
		}
	}

	wordStart := left * wordsPerRankSample
	wordRank := d.blockRank(left, bit)
	totalWords := uint64(len(d.bits))
	for sub := uint64(subBlocks); sub > 0; sub-- {
		r := d.subBlockRank(left, sub)
		if !bit {
			r = sub*rankSubSample - r
		}
		if wordRank+r < idx {
			start := wordStart + sub*wordsPerSubSample
			if start < totalWords {
				wordStart = start
				wordRank += r
				break
			}
		}
	}

	for w := wordStart; w < totalWords; w++ {
		pop := popcount(d.bits[w])
		if !bit {
			pop = wordBits - pop
		}
		if wordRank+pop >= idx {
			break
		}
		wordRank += pop
		wordStart = w + 1
	}

	id := idx - wordRank
	if id == 0 {
		return wordStart * wordBits
	}
	w := d.bits[wordStart]
	if !bit {
		w = ^w
	}
	return wordStart*wordBits + wordSelect(w, id) + 1
}

// Size returns the number of bits.
func (d *Dense) Size() uint64 {
	return d.size
}

// Count returns the number of bit's.
func (d *Dense) Count(bit bool) uint64 {
	return countOf(d.ones, d.size, bit)
}

// BitSize returns the bits used by storage and samples.
func (d *Dense) BitSize() uint64 {
	size := uint64(len(d.bits)) * wordBits
	size += uint64(len(d.ranks)) * 2 * 64
	size += uint64(len(d.selects[0])+len(d.selects[1])) * 32
	return size
}

// Clone returns a deep copy of d.
func (d *Dense) Clone() *Dense {
	c := *d
	c.bits = append([]uint64(nil), d.bits...)
	c.ranks = append([]rankBlock(nil), d.ranks...)
	c.selects[0] = append([]uint32(nil), d.selects[0]...)
	c.selects[1] = append([]uint32(nil), d.selects[1]...)
	return &c
}

// blockRank returns the number of bit's before rank sample blk.
func (d *Dense) blockRank(blk uint64, bit bool) uint64 {
	return countOf(d.ranks[blk].abs, blk*rankSample, bit)
}

// subBlockRank returns the number of ones in the first
// sub*rankSubSample bits of rank sample blk.
func (d *Dense) subBlockRank(blk, sub uint64) uint64 {
	return d.ranks[blk].rel >> (subCountBits * (subBlocks - sub)) & subCountMask
}
