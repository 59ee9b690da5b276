package succinct

import (
	"context"
	"math/bits"
	"slices"
	"time"
)

// WaveletMatrixBuilder collects values for a WaveletMatrix.
// Values are appended with PushBack and indexed by Build.
type WaveletMatrixBuilder struct {
	vals []uint64
}

// NewWaveletMatrixBuilder returns an empty WaveletMatrixBuilder.
func NewWaveletMatrixBuilder() *WaveletMatrixBuilder {
	return &WaveletMatrixBuilder{}
}

// PushBack appends val to the end of T.
func (wmb *WaveletMatrixBuilder) PushBack(val uint64) {
	wmb.vals = append(wmb.vals, val)
}

// Build constructs the matrix, backing every layer with a bit vector of
// the given kind.
func (wmb *WaveletMatrixBuilder) Build(kind Kind, optFns ...Option) (*WaveletMatrix, error) {
	start := time.Now()
	var dim uint64
	if len(wmb.vals) > 0 {
		dim = slices.Max(wmb.vals) + 1
	}
	wm := &WaveletMatrix{
		layers: make([]BitVector, bits.Len64(dim)),
		zeros:  make([]uint64, bits.Len64(dim)),
		kind:   kind,
		dim:    dim,
		num:    uint64(len(wmb.vals)),
	}
	cur := slices.Clone(wmb.vals)
	next := make([]uint64, len(cur))
	for depth := range wm.layers {
		shift := len(wm.layers) - 1 - depth
		layer := NewBuilder()
		z := stablePartition(cur, next, shift, layer)
		bv, err := layer.Build(kind, optFns...)
		if err != nil {
			return nil, err
		}
		wm.layers[depth] = bv
		wm.zeros[depth] = z
		cur, next = next, cur
	}

	o := applyOptions(optFns)
	o.logger.WithKind(kind).DebugContext(context.Background(), "wavelet matrix built",
		"num", wm.num,
		"dim", wm.dim,
		"layers", len(wm.layers),
		"bit_size", wm.BitSize(),
		"elapsed", time.Since(start),
	)
	return wm, nil
}

// stablePartition records bit shift of every value of src in layer and
// writes src to dst with the values whose bit is clear first, keeping
// order within each group. It returns the number of clear bits.
func stablePartition(src, dst []uint64, shift int, layer *Builder) uint64 {
	var zeros int
	for _, v := range src {
		if v>>shift&1 == 0 {
			dst[zeros] = v
			zeros++
		}
	}
	ones := zeros
	for _, v := range src {
		bit := v>>shift&1 == 1
		layer.PushBack(bit)
		if bit {
			dst[ones] = v
			ones++
		}
	}
	return uint64(zeros)
}
