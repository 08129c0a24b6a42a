// Per-run overhead bin state. The node-to-bin mapping is static on the
// graph; only the bag counters live here, so runs never share mutable
// state.

package sim

import "fmt"

// BinID identifies one overhead bin group: a contiguous span of rows along
// one aisle spine. East and west sides of the aisle share the counter.
type BinID int32

// NoBin marks a node not yet mapped to a bin group (only during build).
const NoBin BinID = -1

// BinState holds the bag counters for one run. Counts only ever grow:
// bins are never emptied during boarding.
type BinState struct {
	counts []int
}

// NewBinState creates zeroed counters for a graph's bin groups.
func NewBinState(g *CabinGraph) *BinState {
	return &BinState{counts: make([]int, g.Bins())}
}

// Count returns the number of bags currently in the bin group.
func (b *BinState) Count(id BinID) int {
	return b.counts[id]
}

// AddBag records one stowed bag. Callers evaluate the loading delay against
// the count before calling AddBag; the increment is the side effect of a
// successful stow.
func (b *BinState) AddBag(id BinID) {
	if id < 0 || int(id) >= len(b.counts) {
		panic(fmt.Sprintf("sim: AddBag on unknown bin %d", id))
	}
	b.counts[id]++
}

// TotalBags returns the number of bags stowed across all bins.
func (b *BinState) TotalBags() int {
	n := 0
	for _, c := range b.counts {
		n += c
	}
	return n
}
