package succinct

import (
	"path/filepath"
	"testing"

	rsdic "github.com/AlexWan0/rsdic-mmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildOracle loads v into an independent file-backed rank/select
// dictionary to cross-check every representation against.
func buildOracle(t *testing.T, v []bool) *rsdic.RSDic {
	t.Helper()
	rsd, err := rsdic.New(filepath.Join(t.TempDir(), "oracle"))
	require.NoError(t, err)
	require.NoError(t, rsd.LoadWriter())
	t.Cleanup(func() { rsd.CloseWriter() })
	for _, bit := range v {
		rsd.PushBack(bit)
	}
	require.NoError(t, rsd.LoadReader())
	return rsd
}

func TestAgainstOracle(t *testing.T) {
	for _, tc := range []struct {
		name  string
		n     int
		oneIn int
	}{
		{"uniform", 50000, 2},
		{"skewed", 50000, 40},
		{"dense ones", 50000, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := randomBools(int64(tc.n+tc.oneIn), tc.n, tc.oneIn)
			oracle := buildOracle(t, v)
			require.Equal(t, uint64(tc.n), oracle.Num())

			for _, kind := range Kinds {
				bv, err := New(kind, FromBools(v), WithParallelism(4))
				require.NoError(t, err)

				assert.Equal(t, oracle.OneNum(), bv.Count(true), kind.String())
				assert.Equal(t, oracle.ZeroNum(), bv.Count(false), kind.String())
				for pos := uint64(0); pos < oracle.Num(); pos += 7 {
					if !assert.Equal(t, oracle.Bit(pos), bv.At(pos), "%s at %d", kind, pos) ||
						!assert.Equal(t, oracle.Rank(pos, true), bv.Rank(pos, true), "%s rank %d", kind, pos) {
						return
					}
				}
				// The oracle's select is 0-based over occurrences.
				for r := uint64(0); r < oracle.OneNum(); r += 13 {
					if !assert.Equal(t, oracle.Select(r, true), bv.Select(r+1, true)-1, "%s select %d", kind, r) {
						return
					}
				}
			}
		})
	}
}
