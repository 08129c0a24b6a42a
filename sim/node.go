// Defines the cabin graph's node arena: cell kinds, cardinal directions,
// and the Node struct whose topology is immutable after Build.

package sim

import "fmt"

// NodeKind distinguishes walkway cells from seats. Movement delays are a
// function of the (from, to) kind pair.
type NodeKind uint8

const (
	// Aisle is a walkway cell: the fore-aft spine of the cabin plus the
	// lateral bridge cells of the entry row. Linkable in all four directions.
	Aisle NodeKind = iota
	// Seat is a seat cell, linkable only laterally (east/west).
	Seat
)

func (k NodeKind) String() string {
	switch k {
	case Aisle:
		return "aisle"
	case Seat:
		return "seat"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// Direction indexes the four cardinal connectors of a node. Rows grow
// southward (toward the rear of the aircraft), files grow eastward.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	return [...]string{"north", "south", "east", "west"}[d]
}

// Opposite returns the reverse direction; connecting a to b in direction d
// always also connects b to a in d.Opposite().
func (d Direction) Opposite() Direction {
	return [...]Direction{South, North, West, East}[d]
}

// NodeID is a stable index into the graph's node arena. Occupancy and bin
// counters are kept in separate per-run structures addressed by NodeID, so
// the graph itself stays immutable across runs.
type NodeID int32

// NoNode marks a missing connector or an off-plane position.
const NoNode NodeID = -1

// Node is one cell of the cabin.
type Node struct {
	Kind NodeKind
	Deck int
	Row  int
	File int

	// Bin is the overhead bin group this cell maps to. Every cell maps to
	// exactly one bin group; the mapping is fixed for a configuration.
	Bin BinID

	// AisleIdx is the index of the aisle spine this cell belongs to, or -1
	// for seats and for the lateral bridge cells between aisle heads.
	AisleIdx int

	adj [4]NodeID
}

// Neighbor returns the adjacent node in direction d, or NoNode.
func (n *Node) Neighbor(d Direction) NodeID {
	return n.adj[d]
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(deck=%d row=%d file=%d)", n.Kind, n.Deck, n.Row, n.File)
}
