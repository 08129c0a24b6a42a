// Builds the cabin graph from a layout spec: aisle spines, bridge rows,
// seat rows, and the static node-to-bin mapping. Topology is validated and
// frozen at build time; runs only ever mutate occupancy and bin counters,
// which live outside the graph.

package sim

import (
	"fmt"

	"github.com/boarding-sim/boarding-sim/sim/layout"
)

// SeatInfo is the precomputed structural routing data for one seat: which
// aisle cell a passenger turns in at, how many seat cells it crosses, and
// the lateral direction from that aisle cell toward the seat. The choice is
// purely structural (fewest seats crossed, ties west), never
// occupancy-aware.
type SeatInfo struct {
	AisleNode NodeID
	AisleIdx  int
	Dist      int // seat cells from the aisle, inclusive of the seat itself
	Dir       Direction
	Group     int // seat-group index within the row, west to east
}

// CabinGraph is the immutable node/edge structure for one configuration.
// It is built once per configuration and shared by all Monte-Carlo runs.
type CabinGraph struct {
	nodes      []Node
	spec       layout.Spec
	entries    []NodeID   // boarding entrance per deck
	aisleHeads [][]NodeID // per deck, head cell of each aisle spine
	seats      []NodeID
	seatInfo   map[NodeID]SeatInfo
	byPos      map[position]NodeID
	binCount   int
	deckRows   []int
	deckFiles  []int
}

type position struct {
	deck, row, file int
}

// Build constructs the cabin graph for a validated spec. rowsPerBinGroup
// overrides every section's bin row span when positive; zero keeps the
// spec's values. Malformed layouts are rejected here, never discovered
// mid-simulation.
func Build(sp layout.Spec, rowsPerBinGroup int) (*CabinGraph, error) {
	sp = sp.Clone()
	if rowsPerBinGroup > 0 {
		for di := range sp.Decks {
			for si := range sp.Decks[di].Sections {
				sp.Decks[di].Sections[si].BinRowSpan = rowsPerBinGroup
			}
		}
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	g := &CabinGraph{
		spec:     sp,
		seatInfo: make(map[NodeID]SeatInfo),
		byPos:    make(map[position]NodeID),
	}
	seatGroups := make(map[NodeID]int)

	for di, deck := range sp.Decks {
		if err := g.buildDeck(di, deck, seatGroups); err != nil {
			return nil, err
		}
	}

	if err := g.resolveSeats(seatGroups); err != nil {
		return nil, err
	}
	if err := g.checkSpines(); err != nil {
		return nil, err
	}
	return g, nil
}

// newNode appends a node to the arena and indexes its position.
func (g *CabinGraph) newNode(kind NodeKind, deck, row, file, aisleIdx int, bin BinID) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		Kind:     kind,
		Deck:     deck,
		Row:      row,
		File:     file,
		Bin:      bin,
		AisleIdx: aisleIdx,
		adj:      [4]NodeID{NoNode, NoNode, NoNode, NoNode},
	})
	g.byPos[position{deck, row, file}] = id
	return id
}

// connect links a to b in direction d and b back to a, mirroring how the
// cabin is physically symmetric.
func (g *CabinGraph) connect(a NodeID, d Direction, b NodeID) {
	g.nodes[a].adj[d] = b
	g.nodes[b].adj[d.Opposite()] = a
}

func (g *CabinGraph) buildDeck(di int, deck layout.Deck, seatGroups map[NodeID]int) error {
	aisles := deck.Sections[0].Aisles()
	prevTails := make([]NodeID, aisles)
	heads := make([]NodeID, aisles)
	for i := range prevTails {
		prevTails[i] = NoNode
		heads[i] = NoNode
	}

	rowOffset := 0
	maxFiles := 0
	for _, sec := range deck.Sections {
		binSpan := sec.BinRowSpan
		if binSpan == 0 {
			binSpan = layout.DefaultBinRowSpan
		}

		// Bin groups are per aisle spine within the section. The bridge row
		// and the first binSpan seat rows share the leading group.
		sectionBins := make(map[[2]int]BinID)
		binFor := func(aisleIdx, rowInSection int) BinID {
			span := 0
			if rowInSection > 0 {
				span = (rowInSection - 1) / binSpan
			}
			key := [2]int{aisleIdx, span}
			id, ok := sectionBins[key]
			if !ok {
				id = BinID(g.binCount)
				g.binCount++
				sectionBins[key] = id
			}
			return id
		}

		if sec.Files() > maxFiles {
			maxFiles = sec.Files()
		}

		// Row 0 of each section is a seatless walkway row: aisle heads plus
		// the lateral bridge cells joining them.
		for r := 0; r <= sec.Rows; r++ {
			row := rowOffset + r
			rowAisles := make([]NodeID, aisles)
			for i := 0; i < aisles; i++ {
				id := g.newNode(Aisle, di, row, sec.AisleFile(i), i, binFor(i, r))
				rowAisles[i] = id
				if prevTails[i] != NoNode {
					g.connect(prevTails[i], South, id)
				}
				prevTails[i] = id
				if heads[i] == NoNode {
					heads[i] = id
				}
			}

			if r == 0 {
				// Bridge the aisle heads so passengers can cross to any spine.
				for i := 1; i < aisles; i++ {
					prev := rowAisles[i-1]
					for f := sec.AisleFile(i-1) + 1; f < sec.AisleFile(i); f++ {
						cell := g.newNode(Aisle, di, row, f, -1, binFor(i-1, r))
						g.connect(prev, East, cell)
						prev = cell
					}
					g.connect(prev, East, rowAisles[i])
				}
				continue
			}

			// West outer seat group, built outward from aisle 0.
			prev := rowAisles[0]
			for f := sec.AisleFile(0) - 1; f >= 0; f-- {
				seat := g.newNode(Seat, di, row, f, -1, NoBin)
				g.connect(prev, West, seat)
				seatGroups[seat] = 0
				g.seats = append(g.seats, seat)
				prev = seat
			}

			// Middle groups run aisle-to-aisle.
			for gi := 1; gi < aisles; gi++ {
				prev = rowAisles[gi-1]
				for f := sec.AisleFile(gi-1) + 1; f < sec.AisleFile(gi); f++ {
					seat := g.newNode(Seat, di, row, f, -1, NoBin)
					g.connect(prev, East, seat)
					seatGroups[seat] = gi
					g.seats = append(g.seats, seat)
					prev = seat
				}
				g.connect(prev, East, rowAisles[gi])
			}

			// East outer group.
			prev = rowAisles[aisles-1]
			for f := sec.AisleFile(aisles-1) + 1; f < sec.Files(); f++ {
				seat := g.newNode(Seat, di, row, f, -1, NoBin)
				g.connect(prev, East, seat)
				seatGroups[seat] = aisles
				g.seats = append(g.seats, seat)
				prev = seat
			}
		}
		rowOffset += sec.Rows + 1
	}

	g.entries = append(g.entries, heads[0])
	g.aisleHeads = append(g.aisleHeads, heads)
	g.deckRows = append(g.deckRows, rowOffset)
	g.deckFiles = append(g.deckFiles, maxFiles)
	return nil
}

// resolveSeats computes each seat's nearest aisle by structural scan and
// inherits the aisle cell's bin group, so east and west sides of a span
// share one counter.
func (g *CabinGraph) resolveSeats(seatGroups map[NodeID]int) error {
	for _, seat := range g.seats {
		westDist, westAisle := g.scan(seat, West)
		eastDist, eastAisle := g.scan(seat, East)

		var info SeatInfo
		switch {
		case westAisle == NoNode && eastAisle == NoNode:
			return fmt.Errorf("%w: %s has no reachable aisle", layout.ErrInvalidLayout, g.nodes[seat].String())
		case eastAisle == NoNode || (westAisle != NoNode && westDist <= eastDist):
			// Ties go west, matching the structural nearest-aisle rule.
			info = SeatInfo{AisleNode: westAisle, Dist: westDist, Dir: East}
		default:
			info = SeatInfo{AisleNode: eastAisle, Dist: eastDist, Dir: West}
		}
		info.AisleIdx = g.nodes[info.AisleNode].AisleIdx
		info.Group = seatGroups[seat]
		g.seatInfo[seat] = info
		g.nodes[seat].Bin = g.nodes[info.AisleNode].Bin
	}
	return nil
}

// scan walks horizontally from a seat until it meets an aisle cell.
// Returns the hop count and the aisle cell, or (0, NoNode).
func (g *CabinGraph) scan(from NodeID, d Direction) (int, NodeID) {
	cur := from
	dist := 0
	for {
		next := g.nodes[cur].Neighbor(d)
		if next == NoNode {
			return 0, NoNode
		}
		dist++
		if g.nodes[next].Kind == Aisle {
			return dist, next
		}
		cur = next
	}
}

// checkSpines verifies every aisle cell of a deck is reachable from the
// deck's entrance by walking aisle cells only.
func (g *CabinGraph) checkSpines() error {
	for di, entry := range g.entries {
		seen := make(map[NodeID]bool)
		stack := []NodeID{entry}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[id] {
				continue
			}
			seen[id] = true
			for d := North; d <= West; d++ {
				n := g.nodes[id].Neighbor(d)
				if n != NoNode && g.nodes[n].Kind == Aisle && !seen[n] {
					stack = append(stack, n)
				}
			}
		}
		for id := range g.nodes {
			n := &g.nodes[id]
			if n.Deck == di && n.Kind == Aisle && !seen[NodeID(id)] {
				return fmt.Errorf("%w: aisle cell %s unreachable from deck %d entrance", layout.ErrInvalidLayout, n.String(), di)
			}
		}
	}
	return nil
}

// Node returns the node with the given id. The returned pointer aliases the
// arena; callers must treat it as read-only.
func (g *CabinGraph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Len returns the number of nodes in the arena.
func (g *CabinGraph) Len() int {
	return len(g.nodes)
}

// Seats returns all seat nodes in build order. The i-th seat belongs to
// passenger i.
func (g *CabinGraph) Seats() []NodeID {
	return g.seats
}

// SeatInfo returns the precomputed routing data for a seat node.
func (g *CabinGraph) SeatInfo(seat NodeID) SeatInfo {
	return g.seatInfo[seat]
}

// Entry returns the boarding entrance of a deck: the head of its first
// aisle spine.
func (g *CabinGraph) Entry(deck int) NodeID {
	return g.entries[deck]
}

// AisleHead returns the head cell of aisle i on a deck.
func (g *CabinGraph) AisleHead(deck, i int) NodeID {
	return g.aisleHeads[deck][i]
}

// Decks returns the number of decks.
func (g *CabinGraph) Decks() int {
	return len(g.entries)
}

// Bins returns the number of bin groups assigned across the graph.
func (g *CabinGraph) Bins() int {
	return g.binCount
}

// NodeAt looks up a node by position, returning NoNode if the cell does
// not exist.
func (g *CabinGraph) NodeAt(deck, row, file int) NodeID {
	id, ok := g.byPos[position{deck, row, file}]
	if !ok {
		return NoNode
	}
	return id
}

// Spec returns the (possibly bin-span-overridden) spec the graph was built
// from.
func (g *CabinGraph) Spec() layout.Spec {
	return g.spec
}
