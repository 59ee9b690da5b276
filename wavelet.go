package succinct

// Range is the half-open interval [Bpos, Epos). Bpos must not exceed Epos.
type Range struct {
	Bpos uint64
	Epos uint64
}

// Len returns the number of positions in r.
func (r Range) Len() uint64 {
	return r.Epos - r.Bpos
}

// RankOp selects the comparison counted by RangedRankOp.
type RankOp int

const (
	// OpEqual counts values equal to val.
	OpEqual RankOp = iota
	// OpLessThan counts values below val.
	OpLessThan
	// OpMoreThan counts values above val.
	OpMoreThan
	// OpMax bounds the valid operators.
	OpMax
)

// WaveletMatrix answers rank/select and order queries over a sequence of
// integers T[0...Num). Layer d holds bit d of every value counted from the
// most significant end, with the values stably sorted by the bits above
// it. Any Kind may back the layers.
type WaveletMatrix struct {
	layers []BitVector
	zeros  []uint64 // zeros[d] == layers[d].Count(false)
	kind   Kind
	dim    uint64
	num    uint64
}

// Num returns the number of values in T.
func (wm *WaveletMatrix) Num() uint64 {
	return wm.num
}

// Dim returns one more than the largest value in T, or 0 when T is empty.
func (wm *WaveletMatrix) Dim() uint64 {
	return wm.dim
}

// Kind returns the representation of the layers.
func (wm *WaveletMatrix) Kind() Kind {
	return wm.kind
}

// BitSize returns the bits used by all layers.
func (wm *WaveletMatrix) BitSize() uint64 {
	var size uint64
	for _, layer := range wm.layers {
		size += layer.BitSize()
	}
	return size
}

// bitAt returns the bit of val examined by layer depth.
func (wm *WaveletMatrix) bitAt(val uint64, depth int) bool {
	return val>>(len(wm.layers)-1-depth)&1 == 1
}

// child maps pos in layer depth to layer depth+1, following the values
// whose bit at depth is bit.
func (wm *WaveletMatrix) child(depth int, pos uint64, bit bool) uint64 {
	if bit {
		return wm.zeros[depth] + wm.layers[depth].Rank(pos, true)
	}
	return wm.layers[depth].Rank(pos, false)
}

func (wm *WaveletMatrix) childRange(depth int, r Range, bit bool) Range {
	return Range{wm.child(depth, r.Bpos, bit), wm.child(depth, r.Epos, bit)}
}

// parent is the inverse of child for a position that holds a value.
func (wm *WaveletMatrix) parent(depth int, pos uint64, bit bool) uint64 {
	if bit {
		pos -= wm.zeros[depth]
	}
	return wm.layers[depth].Select(pos+1, bit) - 1
}

// descend narrows r through the first levels layers along the high bits
// of val.
func (wm *WaveletMatrix) descend(r Range, val uint64, levels int) Range {
	for depth := 0; depth < levels; depth++ {
		r = wm.childRange(depth, r, wm.bitAt(val, depth))
	}
	return r
}

// ascend maps pos in layer levels back to T.
func (wm *WaveletMatrix) ascend(pos, val uint64, levels int) uint64 {
	for depth := levels - 1; depth >= 0; depth-- {
		pos = wm.parent(depth, pos, wm.bitAt(val, depth))
	}
	return pos
}

// matchLevels is the number of layers compared when the low ignoreBits
// bits of a value are ignored.
func (wm *WaveletMatrix) matchLevels(ignoreBits uint64) int {
	if ignoreBits >= uint64(len(wm.layers)) {
		return 0
	}
	return len(wm.layers) - int(ignoreBits)
}

// Lookup returns T[pos].
func (wm *WaveletMatrix) Lookup(pos uint64) uint64 {
	var val uint64
	for depth, layer := range wm.layers {
		bit := layer.At(pos)
		val <<= 1
		if bit {
			val |= 1
		}
		pos = wm.child(depth, pos, bit)
	}
	return val
}

// LookupAndRank returns T[pos] and Rank(pos, T[pos]) in one pass.
func (wm *WaveletMatrix) LookupAndRank(pos uint64) (uint64, uint64) {
	var val uint64
	r := Range{0, pos}
	for depth, layer := range wm.layers {
		bit := layer.At(r.Epos)
		val <<= 1
		if bit {
			val |= 1
		}
		r = wm.childRange(depth, r, bit)
	}
	return val, r.Len()
}

// Rank returns the number of values equal to val in T[0...pos).
func (wm *WaveletMatrix) Rank(pos uint64, val uint64) uint64 {
	return wm.RangedRankOp(Range{0, pos}, val, OpEqual)
}

// RankLessThan returns the number of values below val in T[0...pos).
func (wm *WaveletMatrix) RankLessThan(pos uint64, val uint64) uint64 {
	return wm.RangedRankOp(Range{0, pos}, val, OpLessThan)
}

// RankMoreThan returns the number of values above val in T[0...pos).
func (wm *WaveletMatrix) RankMoreThan(pos uint64, val uint64) uint64 {
	return wm.RangedRankOp(Range{0, pos}, val, OpMoreThan)
}

// RangedRankOp returns the number of values c in T[ranze.Bpos, ranze.Epos)
// for which "c op val" holds. Unknown operators count nothing.
func (wm *WaveletMatrix) RangedRankOp(ranze Range, val uint64, op RankOp) uint64 {
	less, equal, more := wm.split(ranze, val)
	switch op {
	case OpEqual:
		return equal
	case OpLessThan:
		return less
	case OpMoreThan:
		return more
	default:
		return 0
	}
}

// split counts the values of r below, equal to and above val.
func (wm *WaveletMatrix) split(r Range, val uint64) (less, equal, more uint64) {
	if val >= wm.dim {
		return r.Len(), 0, 0
	}
	for depth := range wm.layers {
		z := wm.childRange(depth, r, false)
		if wm.bitAt(val, depth) {
			less += z.Len()
			r = wm.childRange(depth, r, true)
		} else {
			more += r.Len() - z.Len()
			r = z
		}
	}
	return less, r.Len(), more
}

// RangedRankRange returns the number of values of T[ranze.Bpos, ranze.Epos)
// that fall within [valueRange.Bpos, valueRange.Epos).
func (wm *WaveletMatrix) RangedRankRange(ranze Range, valueRange Range) uint64 {
	below, _, _ := wm.split(ranze, valueRange.Bpos)
	upto, _, _ := wm.split(ranze, valueRange.Epos)
	return upto - below
}

// RangedRankIgnoreLSBs returns the number of values of
// T[ranze.Bpos, ranze.Epos) that match val once the low ignoreBits bits are
// dropped from both, as in a prefix search such as 192.168.10.0/24
// (ignoreBits = 8).
func (wm *WaveletMatrix) RangedRankIgnoreLSBs(ranze Range, val, ignoreBits uint64) uint64 {
	return wm.descend(ranze, val, wm.matchLevels(ignoreBits)).Len()
}

// RangedSelectIgnoreLSBs returns the position of the (rank+1)-th value of
// T[ranze.Bpos, ranze.Epos) that matches val under the same prefix rule as
// RangedRankIgnoreLSBs, or ranze.Epos if there is none.
func (wm *WaveletMatrix) RangedSelectIgnoreLSBs(ranze Range, rank, val, ignoreBits uint64) uint64 {
	levels := wm.matchLevels(ignoreBits)
	r := wm.descend(ranze, val, levels)
	if rank >= r.Len() {
		return ranze.Epos
	}
	return wm.ascend(r.Bpos+rank, val, levels)
}

// RangedSelect returns the position of the (rank+1)-th val in
// T[ranze.Bpos, ranze.Epos), or ranze.Epos if there is none.
func (wm *WaveletMatrix) RangedSelect(ranze Range, rank uint64, val uint64) uint64 {
	return wm.RangedSelectIgnoreLSBs(ranze, rank, val, 0)
}

// Select returns the position of the (rank+1)-th val in T, or Num() if
// there is none.
func (wm *WaveletMatrix) Select(rank uint64, val uint64) uint64 {
	if val >= wm.dim {
		return wm.num
	}
	return wm.RangedSelect(Range{0, wm.num}, rank, val)
}

// Quantile returns the (k+1)-th smallest value in T[ranze.Bpos, ranze.Epos).
func (wm *WaveletMatrix) Quantile(ranze Range, k uint64) uint64 {
	var val uint64
	for depth := range wm.layers {
		val <<= 1
		z := wm.childRange(depth, ranze, false)
		if k < z.Len() {
			ranze = z
			continue
		}
		k -= z.Len()
		val |= 1
		ranze = wm.childRange(depth, ranze, true)
	}
	return val
}

type intersectNode struct {
	prefix uint64
	ranges []Range
}

// Intersect returns, in ascending order, the values that occur in at least
// k of the given ranges.
func (wm *WaveletMatrix) Intersect(ranges []Range, k int) []uint64 {
	var frontier []intersectNode
	if root := nonEmpty(ranges); len(root) >= k {
		frontier = append(frontier, intersectNode{0, root})
	}
	for depth := 0; depth < len(wm.layers) && len(frontier) > 0; depth++ {
		next := make([]intersectNode, 0, 2*len(frontier))
		for _, node := range frontier {
			for _, bit := range [2]bool{false, true} {
				var sub []Range
				for _, r := range node.ranges {
					if c := wm.childRange(depth, r, bit); c.Len() > 0 {
						sub = append(sub, c)
					}
				}
				if len(sub) < k {
					continue
				}
				prefix := node.prefix << 1
				if bit {
					prefix |= 1
				}
				next = append(next, intersectNode{prefix, sub})
			}
		}
		frontier = next
	}
	vals := make([]uint64, 0, len(frontier))
	for _, node := range frontier {
		vals = append(vals, node.prefix)
	}
	return vals
}

func nonEmpty(ranges []Range) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Len() > 0 {
			out = append(out, r)
		}
	}
	return out
}
