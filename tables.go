package succinct

import (
	"math/bits"
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// MaxBlockWidth is the widest RRR block whose binomial coefficients
// C(b, c) all fit in a uint64.
const MaxBlockWidth = 63

// bitTables holds the process-wide lookup tables. It is built once and
// only read afterwards.
type bitTables struct {
	// popcount[v] is the number of set bits in v.
	popcount [256]uint8
	// selectInByte[r-1][v] is the offset of the r-th set bit of v.
	selectInByte [8][256]uint8
	// binomial[n][k] is C(n, k), zero for k > n.
	binomial [MaxBlockWidth + 1][MaxBlockWidth + 1]uint64
}

var loadTables = sync.OnceValue(buildTables)

// nativePopcount reports whether the CPU counts bits in one instruction.
var nativePopcount = hasNativePopcount(runtime.GOARCH)

// hasNativePopcount reports whether bits.OnesCount64 compiles to a
// population count instruction on goarch.
func hasNativePopcount(goarch string) bool {
	switch goarch {
	case "amd64", "386":
		return cpu.X86.HasPOPCNT
	case "arm64", "ppc64", "ppc64le", "s390x", "wasm":
		return true
	case "riscv64":
		return cpu.RISCV64.HasZbb
	default:
		return false
	}
}

func buildTables() *bitTables {
	t := new(bitTables)
	for v := 0; v < 256; v++ {
		c := 0
		for i := 0; i < 8; i++ {
			if v&(1<<i) != 0 {
				t.selectInByte[c][v] = uint8(i)
				c++
			}
		}
		t.popcount[v] = uint8(c)
	}
	for n := 0; n <= MaxBlockWidth; n++ {
		t.binomial[n][0] = 1
		for k := 1; k <= n; k++ {
			t.binomial[n][k] = t.binomial[n-1][k-1] + t.binomial[n-1][k]
		}
	}
	return t
}

// popcount returns the number of set bits in w.
func popcount(w uint64) uint64 {
	if nativePopcount {
		return uint64(bits.OnesCount64(w))
	}
	return tablePopcount(w)
}

func tablePopcount(w uint64) uint64 {
	t := loadTables()
	var c uint64
	for ; w != 0; w >>= 8 {
		c += uint64(t.popcount[byte(w)])
	}
	return c
}

// wordSelect returns the offset of the r-th set bit of w, 1 <= r <= popcount(w).
// The word is narrowed byte by byte and finished with the byte table.
func wordSelect(w uint64, r uint64) uint64 {
	t := loadTables()
	for shift := uint64(0); shift < 64; shift += 8 {
		b := byte(w >> shift)
		c := uint64(t.popcount[b])
		if r <= c {
			return shift + uint64(t.selectInByte[r-1][b])
		}
		r -= c
	}
	panic("succinct: word select rank exceeds popcount")
}

// binomial returns C(n, k) for n <= MaxBlockWidth.
func binomial(n, k uint) uint64 {
	if k > n {
		return 0
	}
	return loadTables().binomial[n][k]
}
