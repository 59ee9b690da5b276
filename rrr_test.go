package succinct

import (
	"errors"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRRREncodeRoundTrip(t *testing.T) {
	Convey("Every block pattern decodes to itself", t, func() {
		rnd := rand.New(rand.NewSource(5))
		for b := uint(1); b <= MaxBlockWidth; b++ {
			r := &RRR{blockWidth: b}
			for trial := 0; trial < 200; trial++ {
				pattern := rnd.Uint64() & (1<<b - 1)
				switch trial {
				case 0:
					pattern = 0
				case 1:
					pattern = 1<<b - 1
				}
				c := uint(popcount(pattern))
				o := r.encode(pattern, c)
				So(o, ShouldBeLessThan, binomial(b, c))

				bc := r.cursor(c, o)
				var ones uint64
				for i := uint(0); i < b; i++ {
					want := pattern>>i&1 == 1
					So(bc.next(), ShouldEqual, want)
					So(r.rankInBlock(c, o, i), ShouldEqual, ones)
					if want {
						ones++
						So(r.selectInBlock(c, o, ones, true), ShouldEqual, i)
					} else {
						So(r.selectInBlock(c, o, uint64(i+1)-ones, false), ShouldEqual, i)
					}
				}
			}
		}
	})
}

func TestRRREncodeIsDense(t *testing.T) {
	Convey("Every pattern of a small width maps to a distinct offset", t, func() {
		const b = 10
		r := &RRR{blockWidth: b}
		seen := make(map[[2]uint64]bool)
		for pattern := uint64(0); pattern < 1<<b; pattern++ {
			c := uint(popcount(pattern))
			key := [2]uint64{uint64(c), r.encode(pattern, c)}
			So(seen[key], ShouldBeFalse)
			seen[key] = true
		}
		So(len(seen), ShouldEqual, 1<<b)
	})
}

func TestRRRBlockWidths(t *testing.T) {
	v := randomBools(11, 9000, 3)
	for _, b := range []uint{1, 2, 7, 15, 31, 32, 33, 62, 63} {
		Convey("Given RRR with a small superblock", t, func() {
			r, err := NewRRR(FromBools(v), WithBlockWidth(b), WithSuperblock(3), WithSelectSample(50))
			So(err, ShouldBeNil)
			So(r.BlockWidth(), ShouldEqual, b)

			var rank uint64
			for i, bit := range v {
				pos := uint64(i)
				if r.Rank(pos, true) != rank || r.At(pos) != bit {
					So(r.Rank(pos, true), ShouldEqual, rank)
					So(r.At(pos), ShouldEqual, bit)
				}
				if bit {
					rank++
					if got := r.Select(rank, true); got != pos+1 {
						So(got, ShouldEqual, pos+1)
					}
				} else if got := r.Select(pos+1-rank, false); got != pos+1 {
					So(got, ShouldEqual, pos+1)
				}
			}
			So(r.Rank(uint64(len(v)), true), ShouldEqual, rank)
		})
	}
}

func TestRRRInvalidBlockWidth(t *testing.T) {
	for _, b := range []uint{0, 64, 100} {
		Convey("Given an unsupported block width", t, func() {
			r, err := NewRRR(FromBools([]bool{true}), WithBlockWidth(b))
			So(r, ShouldBeNil)
			var bwErr *ErrBlockWidth
			So(errors.As(err, &bwErr), ShouldBeTrue)
			So(bwErr.Width, ShouldEqual, b)
			So(errors.Is(err, ErrInvalidBlockWidth), ShouldBeTrue)
		})
	}
}

func TestRRRCompresses(t *testing.T) {
	Convey("A single long run needs under a quarter of dense", t, func() {
		n := 1 << 18
		runs := make([]bool, n)
		for i := n / 4; i < n/2; i++ {
			runs[i] = true
		}
		r, err := NewRRR(FromBools(runs))
		So(err, ShouldBeNil)
		d, err := NewDense(FromBools(runs))
		So(err, ShouldBeNil)
		So(r.BitSize(), ShouldBeLessThan, d.BitSize()/4)
	})
}

func TestRRRClone(t *testing.T) {
	Convey("Given a cloned RRR vector", t, func() {
		r, err := NewRRR(FromBools(randomBools(12, 5000, 2)))
		So(err, ShouldBeNil)
		c := r.Clone()
		So(c, ShouldResemble, r)
		So(c.offsets, ShouldNotPointTo, r.offsets)
		So(c.Select(100, false), ShouldEqual, r.Select(100, false))
	})
}

func TestRRRParallelBuild(t *testing.T) {
	Convey("Parallel and sequential builds agree", t, func() {
		v := randomBools(13, 200000, 4)
		seq, err := NewRRR(FromBools(v), WithParallelism(1))
		So(err, ShouldBeNil)
		par, err := NewRRR(FromBools(v), WithParallelism(0))
		So(err, ShouldBeNil)
		So(par, ShouldResemble, seq)
	})
}

func TestMaxRRRSize(t *testing.T) {
	Convey("The RRR size limit saturates", t, func() {
		So(maxRRRSize(63, 32), ShouldEqual, uint64(63*32)<<32-1)
		So(maxRRRSize(1<<40, 1<<30), ShouldEqual, uint64(1<<64-1))
	})
}
