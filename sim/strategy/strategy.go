// Package strategy provides boarding-order generators. Every strategy
// maps seat descriptions to a permutation of passenger IDs; ties within a
// priority class are broken by the run's strategy RNG stream, so two runs
// of the same key board identically.
package strategy

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/boarding-sim/boarding-sim/sim"
)

// shuffleSort shuffles refs and then stable-sorts by the given ordering,
// leaving equal elements in shuffled order.
func shuffleSort(refs []sim.SeatRef, rng *rand.Rand, less func(a, b sim.SeatRef) bool) []sim.SeatRef {
	out := append([]sim.SeatRef(nil), refs...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func ids(refs []sim.SeatRef) []sim.PassengerID {
	out := make([]sim.PassengerID, len(refs))
	for i, r := range refs {
		out[i] = r.Passenger
	}
	return out
}

// Random boards everyone in uniformly random order.
type Random struct{}

func (Random) Name() string { return "random" }

func (Random) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	return ids(shuffleSort(refs, rng, nil))
}

// FrontToBack boards rows nearest the door first, random within a row.
type FrontToBack struct{}

func (FrontToBack) Name() string { return "front-to-back" }

func (FrontToBack) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	return ids(shuffleSort(refs, rng, func(a, b sim.SeatRef) bool {
		if a.Deck != b.Deck {
			return a.Deck < b.Deck
		}
		return a.Row < b.Row
	}))
}

// BackToFront boards the rear rows first, random within a row.
type BackToFront struct{}

func (BackToFront) Name() string { return "back-to-front" }

func (BackToFront) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	return ids(shuffleSort(refs, rng, func(a, b sim.SeatRef) bool {
		if a.Deck != b.Deck {
			return a.Deck < b.Deck
		}
		return a.Row > b.Row
	}))
}

// Block partitions each deck's rows into Blocks contiguous blocks boarded
// rear block first, random within a block.
type Block struct {
	Blocks int
}

func (s Block) Name() string { return fmt.Sprintf("block-%d", s.blocks()) }

func (s Block) blocks() int {
	if s.Blocks < 1 {
		return 5
	}
	return s.Blocks
}

func (s Block) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	blockOf := blockIndex(refs, s.blocks())
	return ids(shuffleSort(refs, rng, func(a, b sim.SeatRef) bool {
		if a.Deck != b.Deck {
			return a.Deck < b.Deck
		}
		return blockOf(a) > blockOf(b)
	}))
}

// RotatingBlock boards blocks alternating front, rear, next-front,
// next-rear, ending in the middle, which keeps consecutive groups far
// apart in the aisle.
type RotatingBlock struct {
	Blocks int
}

func (s RotatingBlock) Name() string { return fmt.Sprintf("rotating-block-%d", s.blocks()) }

func (s RotatingBlock) blocks() int {
	if s.Blocks < 1 {
		return 5
	}
	return s.Blocks
}

func (s RotatingBlock) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	n := s.blocks()
	blockOf := blockIndex(refs, n)
	// rank[b] is the boarding position of block b, 0 boarding first.
	rank := make([]int, n)
	pos := 0
	for lo, hi := 0, n-1; lo <= hi; lo, hi = lo+1, hi-1 {
		rank[lo] = pos
		pos++
		if lo != hi {
			rank[hi] = pos
			pos++
		}
	}
	return ids(shuffleSort(refs, rng, func(a, b sim.SeatRef) bool {
		if a.Deck != b.Deck {
			return a.Deck < b.Deck
		}
		return rank[blockOf(a)] < rank[blockOf(b)]
	}))
}

// blockIndex maps each seat to a contiguous row block per deck, 0 being
// the frontmost block.
func blockIndex(refs []sim.SeatRef, blocks int) func(sim.SeatRef) int {
	minRow := map[int]int{}
	maxRow := map[int]int{}
	for _, r := range refs {
		if cur, ok := minRow[r.Deck]; !ok || r.Row < cur {
			minRow[r.Deck] = r.Row
		}
		if cur, ok := maxRow[r.Deck]; !ok || r.Row > cur {
			maxRow[r.Deck] = r.Row
		}
	}
	return func(r sim.SeatRef) int {
		span := maxRow[r.Deck] - minRow[r.Deck] + 1
		b := (r.Row - minRow[r.Deck]) * blocks / span
		if b >= blocks {
			b = blocks - 1
		}
		return b
	}
}

// OutsideIn boards window seats first and aisle-adjacent seats last,
// random within a distance class. Also known as WilMA.
type OutsideIn struct{}

func (OutsideIn) Name() string { return "outside-in" }

func (OutsideIn) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	return ids(shuffleSort(refs, rng, func(a, b sim.SeatRef) bool {
		if a.Deck != b.Deck {
			return a.Deck < b.Deck
		}
		return a.AisleDist > b.AisleDist
	}))
}

// ReversePyramid boards diagonal wedges: outermost rear seats first,
// aisle-adjacent front seats last.
type ReversePyramid struct{}

func (ReversePyramid) Name() string { return "reverse-pyramid" }

func (ReversePyramid) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	return ids(shuffleSort(refs, rng, func(a, b sim.SeatRef) bool {
		if a.Deck != b.Deck {
			return a.Deck < b.Deck
		}
		if a.AisleDist != b.AisleDist {
			return a.AisleDist > b.AisleDist
		}
		return a.Row > b.Row
	}))
}

// Staggered wraps a base strategy and splits the cabin checkerboard-wise:
// seats whose row parity matches their seat-group parity board first, the
// rest second. Queue neighbors then never target the same row segment.
type Staggered struct {
	Base sim.Orderer
}

func (s Staggered) Name() string { return "staggered:" + s.Base.Name() }

func (s Staggered) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	var aligned, offset []sim.SeatRef
	for _, r := range refs {
		if r.Row%2 == r.Group%2 {
			aligned = append(aligned, r)
		} else {
			offset = append(offset, r)
		}
	}
	out := s.Base.Order(aligned, rng)
	return append(out, s.Base.Order(offset, rng)...)
}

// EvenOdd wraps a base strategy and boards even rows before odd rows, so
// neighbors in the boarding queue are never in adjacent rows.
type EvenOdd struct {
	Base sim.Orderer
}

func (s EvenOdd) Name() string { return "even-odd:" + s.Base.Name() }

func (s EvenOdd) Order(refs []sim.SeatRef, rng *rand.Rand) []sim.PassengerID {
	var even, odd []sim.SeatRef
	for _, r := range refs {
		if r.Row%2 == 0 {
			even = append(even, r)
		} else {
			odd = append(odd, r)
		}
	}
	out := s.Base.Order(even, rng)
	return append(out, s.Base.Order(odd, rng)...)
}

// SeatOrder boards in the graph's seat-build order. Deterministic;
// useful for debugging and hand-checked scenarios.
type SeatOrder struct{}

func (SeatOrder) Name() string { return "seat-order" }

func (SeatOrder) Order(refs []sim.SeatRef, _ *rand.Rand) []sim.PassengerID {
	return ids(refs)
}

var registry = map[string]func() sim.Orderer{
	"random":          func() sim.Orderer { return Random{} },
	"front-to-back":   func() sim.Orderer { return FrontToBack{} },
	"back-to-front":   func() sim.Orderer { return BackToFront{} },
	"block":           func() sim.Orderer { return Block{} },
	"rotating-block":  func() sim.Orderer { return RotatingBlock{} },
	"outside-in":      func() sim.Orderer { return OutsideIn{} },
	"reverse-pyramid": func() sim.Orderer { return ReversePyramid{} },
	"seat-order":      func() sim.Orderer { return SeatOrder{} },
}

// Names lists the registered base strategies, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New resolves a strategy by name. "staggered:" and "even-odd:" prefixes
// wrap the named base strategy.
func New(name string) (sim.Orderer, error) {
	if base, ok := strings.CutPrefix(name, "staggered:"); ok {
		inner, err := New(base)
		if err != nil {
			return nil, err
		}
		return Staggered{Base: inner}, nil
	}
	if base, ok := strings.CutPrefix(name, "even-odd:"); ok {
		inner, err := New(base)
		if err != nil {
			return nil, err
		}
		return EvenOdd{Base: inner}, nil
	}
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown boarding strategy %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}
