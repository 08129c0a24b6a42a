// Defines the Passenger struct that models one boarding individual: its
// assigned seat, carry-on count, lifecycle state, and the movement
// bookkeeping the planner needs between events.

package sim

import (
	"fmt"
	"math/rand"
)

// PassengerState is the lifecycle state of a passenger.
type PassengerState string

const (
	// StateQueued means the passenger has not stepped aboard yet.
	StateQueued PassengerState = "queued"
	// StateEntered means the passenger occupies a cabin cell and is working
	// toward its seat.
	StateEntered PassengerState = "entered"
	// StateSeated is terminal: at the assigned seat with all bags stowed.
	StateSeated PassengerState = "seated"
)

// PassengerID indexes the simulator's passenger arena. Passenger i is
// assigned the i-th seat of the graph's build order.
type PassengerID int32

// NoPassenger marks an empty cell in occupancy maps.
const NoPassenger PassengerID = -1

// Passenger is one boarding individual. CarryOns is fixed at creation;
// only the per-step delays are re-randomized, never the bag count.
type Passenger struct {
	ID       PassengerID
	Seat     NodeID
	CarryOns int
	State    PassengerState

	// Node is the currently occupied cell, NoNode while queued.
	Node NodeID

	// Stowed is set once all carry-ons went into a bin.
	Stowed bool

	// borrowed are cells this passenger holds in addition to Node while a
	// movement is in progress; they are released when its next action
	// fires. During a shuffle this covers the vacated origin plus the
	// spare aisle cell the blockers lean into.
	borrowed []NodeID

	// busyUntil is the simulated time until which this (seated) passenger
	// is standing up for a shuffling neighbor. A further shuffle across it
	// must wait it out.
	busyUntil float64

	// waitingOn is the node whose release will wake this passenger, or
	// NoNode when it has an action scheduled.
	waitingOn NodeID

	EnteredAt float64
	SeatedAt  float64
	Waits     int
}

func (p *Passenger) String() string {
	return fmt.Sprintf("passenger %d (state=%s node=%d seat=%d bags=%d)",
		p.ID, p.State, p.Node, p.Seat, p.CarryOns)
}

// drawCarryOn samples a carry-on count uniformly from {0, 1, 2}.
func drawCarryOn(rng *rand.Rand) int {
	return rng.Intn(3)
}

// SeatRef is the structural description of one seat exposed to boarding
// order generators: enough to express row-, distance- and group-based
// strategies without leaking graph internals.
type SeatRef struct {
	Passenger PassengerID
	Deck      int
	Row       int
	// AisleDist is the number of seat cells crossed from the nearest aisle,
	// 1 for a seat adjacent to the aisle.
	AisleDist int
	// Group is the seat-group index within the row, west to east. Staggered
	// orderings key its parity against the row's.
	Group int
}

// SeatRefs describes every seat of the graph in passenger-ID order.
func (g *CabinGraph) SeatRefs() []SeatRef {
	refs := make([]SeatRef, len(g.seats))
	for i, seat := range g.seats {
		info := g.seatInfo[seat]
		n := g.Node(seat)
		refs[i] = SeatRef{
			Passenger: PassengerID(i),
			Deck:      n.Deck,
			Row:       n.Row,
			AisleDist: info.Dist,
			Group:     info.Group,
		}
	}
	return refs
}

// Orderer supplies the boarding order for one run: a permutation of all
// passenger IDs. Implementations live outside the core; the simulator only
// consumes the ordering.
type Orderer interface {
	// Name identifies the ordering in logs and reports.
	Name() string
	// Order returns a permutation of the passengers described by refs.
	// rng is the run's strategy stream; implementations must draw all
	// randomness from it.
	Order(refs []SeatRef, rng *rand.Rand) []PassengerID
}
