package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boarding-sim/boarding-sim/sim"
	"github.com/boarding-sim/boarding-sim/sim/layout"
)

func refsFor(t *testing.T, aircraft string) []sim.SeatRef {
	t.Helper()
	sp, err := layout.Builtin(aircraft)
	require.NoError(t, err)
	g, err := sim.Build(sp, 0)
	require.NoError(t, err)
	return g.SeatRefs()
}

func assertPermutation(t *testing.T, n int, order []sim.PassengerID) {
	t.Helper()
	require.Len(t, order, n)
	seen := make([]bool, n)
	for _, id := range order {
		require.GreaterOrEqual(t, int(id), 0)
		require.Less(t, int(id), n)
		require.False(t, seen[id], "passenger %d boarded twice", id)
		seen[id] = true
	}
}

func TestAllStrategiesReturnPermutations(t *testing.T) {
	refs := refsFor(t, "boeing-767-400")
	names := Names()
	for _, mod := range []string{"", "staggered:", "even-odd:"} {
		for _, base := range names {
			name := mod + base
			t.Run(name, func(t *testing.T) {
				ord, err := New(name)
				require.NoError(t, err)
				order := ord.Order(refs, rand.New(rand.NewSource(1)))
				assertPermutation(t, len(refs), order)
			})
		}
	}
}

func TestBackToFrontOrdersRowsDescending(t *testing.T) {
	refs := refsFor(t, "airbus-320")
	byID := make(map[sim.PassengerID]sim.SeatRef)
	for _, r := range refs {
		byID[r.Passenger] = r
	}
	order := BackToFront{}.Order(refs, rand.New(rand.NewSource(2)))
	for i := 1; i < len(order); i++ {
		assert.GreaterOrEqual(t, byID[order[i-1]].Row, byID[order[i]].Row)
	}
}

func TestOutsideInOrdersWindowFirst(t *testing.T) {
	refs := refsFor(t, "airbus-320")
	byID := make(map[sim.PassengerID]sim.SeatRef)
	for _, r := range refs {
		byID[r.Passenger] = r
	}
	order := OutsideIn{}.Order(refs, rand.New(rand.NewSource(3)))
	for i := 1; i < len(order); i++ {
		assert.GreaterOrEqual(t, byID[order[i-1]].AisleDist, byID[order[i]].AisleDist)
	}
}

func TestReversePyramidTieBreaksByRow(t *testing.T) {
	refs := refsFor(t, "airbus-320")
	byID := make(map[sim.PassengerID]sim.SeatRef)
	for _, r := range refs {
		byID[r.Passenger] = r
	}
	order := ReversePyramid{}.Order(refs, rand.New(rand.NewSource(4)))
	for i := 1; i < len(order); i++ {
		prev, cur := byID[order[i-1]], byID[order[i]]
		if prev.AisleDist == cur.AisleDist {
			assert.GreaterOrEqual(t, prev.Row, cur.Row)
		} else {
			assert.Greater(t, prev.AisleDist, cur.AisleDist)
		}
	}
}

func TestRotatingBlockAlternatesEnds(t *testing.T) {
	refs := refsFor(t, "airbus-320")
	byID := make(map[sim.PassengerID]sim.SeatRef)
	for _, r := range refs {
		byID[r.Passenger] = r
	}
	s := RotatingBlock{Blocks: 4}
	order := s.Order(refs, rand.New(rand.NewSource(5)))
	assertPermutation(t, len(refs), order)

	// 23 rows in 4 blocks: the frontmost block (rows 1-6, 36 seats)
	// boards first, then the rearmost.
	assert.LessOrEqual(t, byID[order[0]].Row, 6)
	following := byID[order[37]]
	assert.GreaterOrEqual(t, following.Row, 19)

	assert.Equal(t, "rotating-block-5", RotatingBlock{}.Name())
	assert.Equal(t, "block-5", Block{}.Name())
}

func TestStaggeredSplitsCheckerboard(t *testing.T) {
	refs := refsFor(t, "boeing-747")
	byID := make(map[sim.PassengerID]sim.SeatRef)
	for _, r := range refs {
		byID[r.Passenger] = r
	}
	order := Staggered{Base: Random{}}.Order(refs, rand.New(rand.NewSource(6)))
	assertPermutation(t, len(refs), order)

	sawOffset := false
	for _, id := range order {
		r := byID[id]
		if r.Row%2 != r.Group%2 {
			sawOffset = true
		} else {
			assert.False(t, sawOffset, "aligned seat boarded after the offset class began")
		}
	}
}

func TestEvenOddSplitsRowParity(t *testing.T) {
	refs := refsFor(t, "airbus-320")
	byID := make(map[sim.PassengerID]sim.SeatRef)
	for _, r := range refs {
		byID[r.Passenger] = r
	}
	order := EvenOdd{Base: BackToFront{}}.Order(refs, rand.New(rand.NewSource(7)))
	assertPermutation(t, len(refs), order)

	sawOdd := false
	for _, id := range order {
		if byID[id].Row%2 == 1 {
			sawOdd = true
		} else {
			assert.False(t, sawOdd)
		}
	}
}

func TestNewRejectsUnknownNames(t *testing.T) {
	_, err := New("pterodactyl")
	assert.Error(t, err)
	_, err = New("staggered:pterodactyl")
	assert.Error(t, err)

	ord, err := New("even-odd:staggered:random")
	require.NoError(t, err)
	assert.Equal(t, "even-odd:staggered:random", ord.Name())
}

func TestSeatOrderIsIdentity(t *testing.T) {
	refs := refsFor(t, "airbus-320")
	order := SeatOrder{}.Order(refs, nil)
	for i, id := range order {
		assert.Equal(t, sim.PassengerID(i), id)
	}
}
