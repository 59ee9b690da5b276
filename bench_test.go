package succinct

import (
	"math/rand"
	"sync"
	"testing"
)

const benchBits = 1 << 24

type benchFixture struct {
	bits Bits
	vecs map[Kind]BitVector
}

var (
	bf     *benchFixture
	bfOnce sync.Once
)

func loadBenchFixture(b *testing.B) *benchFixture {
	bfOnce.Do(func() {
		bf = &benchFixture{
			bits: FromBools(randomBools(99, benchBits, 2)),
			vecs: make(map[Kind]BitVector),
		}
		for _, kind := range Kinds {
			bv, err := New(kind, bf.bits)
			if err != nil {
				b.Fatal(err)
			}
			bf.vecs[kind] = bv
		}
	})
	b.ResetTimer()
	return bf
}

func benchmarkBuild(b *testing.B, kind Kind, parallelism int) {
	f := loadBenchFixture(b)
	for i := 0; i < b.N; i++ {
		if _, err := New(kind, f.bits, WithParallelism(parallelism)); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkRank(b *testing.B, kind Kind) {
	bv := loadBenchFixture(b).vecs[kind]
	for i := 0; i < b.N; i++ {
		bv.Rank(uint64(rand.Int63n(benchBits)), true)
	}
}

func benchmarkSelect(b *testing.B, kind Kind) {
	bv := loadBenchFixture(b).vecs[kind]
	ones := bv.Count(true)
	for i := 0; i < b.N; i++ {
		bv.Select(uint64(rand.Int63n(int64(ones)))+1, true)
	}
}

func benchmarkAt(b *testing.B, kind Kind) {
	bv := loadBenchFixture(b).vecs[kind]
	for i := 0; i < b.N; i++ {
		bv.At(uint64(rand.Int63n(benchBits)))
	}
}

func BenchmarkDense_Build(b *testing.B)         { benchmarkBuild(b, KindDense, 1) }
func BenchmarkDense_BuildParallel(b *testing.B) { benchmarkBuild(b, KindDense, 0) }
func BenchmarkDense_At(b *testing.B)            { benchmarkAt(b, KindDense) }
func BenchmarkDense_Rank(b *testing.B)          { benchmarkRank(b, KindDense) }
func BenchmarkDense_Select(b *testing.B)        { benchmarkSelect(b, KindDense) }

func BenchmarkSparse_Build(b *testing.B)  { benchmarkBuild(b, KindSparse, 1) }
func BenchmarkSparse_At(b *testing.B)     { benchmarkAt(b, KindSparse) }
func BenchmarkSparse_Rank(b *testing.B)   { benchmarkRank(b, KindSparse) }
func BenchmarkSparse_Select(b *testing.B) { benchmarkSelect(b, KindSparse) }

func BenchmarkRRR_Build(b *testing.B)         { benchmarkBuild(b, KindRRR, 1) }
func BenchmarkRRR_BuildParallel(b *testing.B) { benchmarkBuild(b, KindRRR, 0) }
func BenchmarkRRR_At(b *testing.B)            { benchmarkAt(b, KindRRR) }
func BenchmarkRRR_Rank(b *testing.B)          { benchmarkRank(b, KindRRR) }
func BenchmarkRRR_Select(b *testing.B)        { benchmarkSelect(b, KindRRR) }

func BenchmarkWM_Lookup(b *testing.B) {
	rnd := rand.New(rand.NewSource(1))
	wmb := NewWaveletMatrixBuilder()
	const num = 1 << 20
	for i := 0; i < num; i++ {
		wmb.PushBack(uint64(rnd.Intn(1 << 16)))
	}
	wm, err := wmb.Build(KindDense)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wm.Lookup(uint64(rand.Int63n(num)))
	}
}
