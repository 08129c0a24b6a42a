package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boarding-sim/boarding-sim/sim/layout"
)

func sectionSpec(rows int, groups ...int) layout.Spec {
	return layout.Spec{
		Name: "test",
		Decks: []layout.Deck{{
			Sections: []layout.Section{{Rows: rows, SeatGroups: groups}},
		}},
	}
}

func buildGraph(t *testing.T, sp layout.Spec) *CabinGraph {
	t.Helper()
	g, err := Build(sp, 0)
	require.NoError(t, err)
	return g
}

func TestBuildAirbus320(t *testing.T) {
	sp, err := layout.Builtin("airbus-320")
	require.NoError(t, err)
	g := buildGraph(t, sp)

	assert.Equal(t, 1, g.Decks())
	assert.Equal(t, 23*6, len(g.Seats()))
	// 24 aisle cells (walkway head plus one per seat row) and the seats.
	assert.Equal(t, 24+23*6, g.Len())
	// 23 seat rows at two rows per bin group.
	assert.Equal(t, 12, g.Bins())

	// Single aisle at file 3; the walkway row has no seat cells.
	assert.Equal(t, g.NodeAt(0, 0, 3), g.Entry(0))
	assert.Equal(t, NoNode, g.NodeAt(0, 0, 0))

	aisle := g.NodeAt(0, 1, 3)
	require.NotEqual(t, NoNode, aisle)
	assert.Equal(t, Aisle, g.Node(aisle).Kind)

	// Window seat: three cells from the aisle, entered westward.
	window := g.NodeAt(0, 1, 0)
	info := g.SeatInfo(window)
	assert.Equal(t, aisle, info.AisleNode)
	assert.Equal(t, 3, info.Dist)
	assert.Equal(t, West, info.Dir)
	assert.Equal(t, 0, info.Group)

	// Seats inherit the bin group of their row's aisle cell.
	assert.Equal(t, g.Node(aisle).Bin, g.Node(window).Bin)
}

func TestSeatResolutionTieGoesWest(t *testing.T) {
	// 2-3-2: the center seat of the middle group is two cells from either
	// aisle, and must resolve to the west one.
	g := buildGraph(t, sectionSpec(2, 2, 3, 2))
	center := g.NodeAt(0, 1, 4)
	require.NotEqual(t, NoNode, center)
	info := g.SeatInfo(center)
	assert.Equal(t, 2, info.Dist)
	assert.Equal(t, 0, info.AisleIdx)
	assert.Equal(t, East, info.Dir)
}

func TestTwinAisleBridgeRow(t *testing.T) {
	g := buildGraph(t, sectionSpec(3, 2, 3, 2))
	// Aisles at files 2 and 6; the walkway row bridges them with seatless
	// aisle cells so either spine is reachable from the entrance.
	west := g.NodeAt(0, 0, 2)
	east := g.NodeAt(0, 0, 6)
	require.NotEqual(t, NoNode, west)
	require.NotEqual(t, NoNode, east)
	assert.Equal(t, west, g.Entry(0))

	cur := west
	for i := 0; i < 4; i++ {
		cur = g.Node(cur).Neighbor(East)
		require.NotEqual(t, NoNode, cur, "bridge breaks %d cells east of the west aisle", i)
		assert.Equal(t, Aisle, g.Node(cur).Kind)
	}
	assert.Equal(t, east, cur)
}

func TestMultiSectionSpinesJoin(t *testing.T) {
	sp, err := layout.Builtin("boeing-767-400")
	require.NoError(t, err)
	g := buildGraph(t, sp)

	// Front section 8 rows of 2-2-2, rear 25 rows of 2-3-2, one walkway
	// row ahead of each.
	assert.Equal(t, 8*6+25*7, len(g.Seats()))

	// Walking the west spine south from the entrance crosses both
	// sections without a gap.
	steps := 0
	for cur := g.Entry(0); cur != NoNode; cur = g.Node(cur).Neighbor(South) {
		steps++
	}
	assert.Equal(t, 8+25+2, steps)
}

func TestBinSpanOverride(t *testing.T) {
	sp, err := layout.Builtin("airbus-320")
	require.NoError(t, err)

	g, err := Build(sp, 23)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Bins())

	// The override must not leak into the caller's spec.
	assert.Equal(t, 2, sp.Decks[0].Sections[0].BinRowSpan)

	g, err = Build(sp, 1)
	require.NoError(t, err)
	assert.Equal(t, 23, g.Bins())
}

func TestBuildRejectsInvalidSpec(t *testing.T) {
	_, err := Build(layout.Spec{}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, layout.ErrInvalidLayout))
}

func TestDecksAreIndependent(t *testing.T) {
	sp, err := layout.Builtin("airbus-380")
	require.NoError(t, err)
	g := buildGraph(t, sp)

	require.Equal(t, 2, g.Decks())
	assert.NotEqual(t, g.Entry(0), g.Entry(1))
	// No edge may cross decks.
	for id := 0; id < g.Len(); id++ {
		n := g.Node(NodeID(id))
		for d := North; d <= West; d++ {
			if nb := n.Neighbor(d); nb != NoNode {
				assert.Equal(t, n.Deck, g.Node(nb).Deck)
			}
		}
	}
}
