package succinct

import (
	"math/bits"
	"math/rand"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/cpu"
)

func TestTablePopcount(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		w := rnd.Uint64()
		require.Equal(t, uint64(bits.OnesCount64(w)), tablePopcount(w))
		require.Equal(t, uint64(bits.OnesCount64(w)), popcount(w))
	}
	assert.Equal(t, uint64(0), tablePopcount(0))
	assert.Equal(t, uint64(64), tablePopcount(^uint64(0)))
}

func TestWordSelect(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		w := rnd.Uint64() & rnd.Uint64()
		r := uint64(0)
		for off := uint64(0); off < 64; off++ {
			if w&(1<<off) == 0 {
				continue
			}
			r++
			if !assert.Equal(t, off, wordSelect(w, r), "word %#x rank %d", w, r) {
				return
			}
		}
	}
	assert.Equal(t, uint64(63), wordSelect(1<<63, 1))
	assert.Panics(t, func() { wordSelect(1, 2) })
}

func TestBinomial(t *testing.T) {
	assert.Equal(t, uint64(1), binomial(0, 0))
	assert.Equal(t, uint64(0), binomial(3, 4))
	assert.Equal(t, uint64(10), binomial(5, 2))
	assert.Equal(t, uint64(1), binomial(MaxBlockWidth, MaxBlockWidth))
	assert.Equal(t, uint64(916312070471295267), binomial(63, 31))
	for n := uint(1); n <= MaxBlockWidth; n++ {
		var sum uint64
		for k := uint(0); k <= n; k++ {
			sum += binomial(n, k)
		}
		assert.Equal(t, uint64(1)<<n, sum, "row %d", n)
	}
}

func TestTablesConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*bitTables, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = loadTables()
		}(i)
	}
	wg.Wait()
	for _, tb := range got {
		assert.Same(t, got[0], tb)
	}
}

func TestHasNativePopcount(t *testing.T) {
	for _, arch := range []string{"arm64", "ppc64", "ppc64le", "s390x", "wasm"} {
		assert.True(t, hasNativePopcount(arch), arch)
	}
	for _, arch := range []string{"mips", "mips64le", "loong64", "arm"} {
		assert.False(t, hasNativePopcount(arch), arch)
	}
	assert.Equal(t, cpu.X86.HasPOPCNT, hasNativePopcount("amd64"))
	assert.Equal(t, cpu.RISCV64.HasZbb, hasNativePopcount("riscv64"))
	assert.Equal(t, hasNativePopcount(runtime.GOARCH), nativePopcount)
}
