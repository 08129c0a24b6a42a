package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestCarryOnUniformity(t *testing.T) {
	// Chi-square goodness of fit of the carry-on draw against uniform
	// {0,1,2}. With 2 degrees of freedom and a 0.999 quantile threshold
	// this fails spuriously once in a thousand seed choices; the seed is
	// fixed, so the test is deterministic.
	rng := rand.New(rand.NewSource(12345))
	const n = 30000
	var counts [3]int
	for i := 0; i < n; i++ {
		v := drawCarryOn(rng)
		require.GreaterOrEqual(t, v, 0)
		require.LessOrEqual(t, v, 2)
		counts[v]++
	}

	expected := float64(n) / 3
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	limit := distuv.ChiSquared{K: 2}.Quantile(0.999)
	assert.Less(t, chi2, limit, "counts %v", counts)
}

func TestSeatRefs(t *testing.T) {
	g := buildGraph(t, sectionSpec(2, 3, 3))
	refs := g.SeatRefs()
	require.Len(t, refs, 12)

	for i, r := range refs {
		assert.Equal(t, PassengerID(i), r.Passenger)
		assert.Equal(t, 0, r.Deck)
		assert.GreaterOrEqual(t, r.AisleDist, 1)
		assert.LessOrEqual(t, r.AisleDist, 3)
	}

	// Row 1's west group is built outward from the aisle.
	assert.Equal(t, 1, refs[0].AisleDist)
	assert.Equal(t, 3, refs[2].AisleDist)
	assert.Equal(t, 0, refs[0].Group)
	assert.Equal(t, 1, refs[3].Group)
}
