// The boarding simulator: a discrete-event loop over the cabin graph.
// Occupancy is mutually exclusive per node and moves use reserve
// semantics: the target is taken the moment a move starts and the
// passenger acts again once the sampled delay has elapsed. Moves into a
// row, and shuffles past seated blockers, keep their origin (and a spare
// aisle cell) borrowed for the duration; borrowed cells are released when
// the borrower next acts.

package sim

import (
	"container/heap"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// MoveRecord is one occupancy transition. From is NoNode for the boarding
// step through the entrance. Time is when the transition took effect,
// which under reserve semantics is the start of the movement. A shuffle
// records a single transition from the mover's origin to its landing
// cell past the blockers it crossed.
type MoveRecord struct {
	Time      float64
	Passenger PassengerID
	From      NodeID
	To        NodeID
}

// SeatRecord marks a passenger reaching its assigned seat for good.
type SeatRecord struct {
	Time      float64
	Passenger PassengerID
}

// Transcript is the ordered record of everything that moved during one
// run. Tests replay it to check mutual exclusion and ordering properties.
type Transcript struct {
	Moves    []MoveRecord
	Seatings []SeatRecord
}

func (t *Transcript) record(time float64, p PassengerID, from, to NodeID) {
	t.Moves = append(t.Moves, MoveRecord{Time: time, Passenger: p, From: from, To: to})
}

// Simulator runs one boarding of one cabin. It is single-goroutine by
// construction; Monte-Carlo parallelism happens across simulators, never
// within one.
type Simulator struct {
	graph   *CabinGraph
	cfg     Config
	rngs    *PartitionedRNG
	delays  *DelayModel
	bins    *BinState
	planner *MovementPlanner

	entryRNG *rand.Rand

	clock float64
	queue eventQueue
	seq   int64

	passengers []Passenger
	occupant   []PassengerID
	waiters    map[NodeID][]PassengerID

	deckQueues   [][]PassengerID
	entryWaiting []bool

	seated     int
	metrics    RunMetrics
	transcript Transcript
}

// NewSimulator prepares a run over a prebuilt graph. Passenger carry-on
// counts and the boarding order are drawn here, from the key's bag and
// strategy streams, so a key fully determines the run.
func NewSimulator(g *CabinGraph, cfg Config, key SimulationKey) (*Simulator, error) {
	rngs := NewPartitionedRNG(key)
	s := &Simulator{
		graph:        g,
		cfg:          cfg,
		rngs:         rngs,
		delays:       NewDelayModel(cfg.Delays, rngs.ForSubsystem(SubsystemDelay)),
		bins:         NewBinState(g),
		planner:      NewMovementPlanner(g),
		entryRNG:     rngs.ForSubsystem(SubsystemEntry),
		occupant:     make([]PassengerID, g.Len()),
		waiters:      make(map[NodeID][]PassengerID),
		deckQueues:   make([][]PassengerID, g.Decks()),
		entryWaiting: make([]bool, g.Decks()),
	}
	for i := range s.occupant {
		s.occupant[i] = NoPassenger
	}

	seats := g.Seats()
	bagRNG := rngs.ForSubsystem(SubsystemBags)
	s.passengers = make([]Passenger, len(seats))
	for i, seat := range seats {
		s.passengers[i] = Passenger{
			ID:        PassengerID(i),
			Seat:      seat,
			CarryOns:  drawCarryOn(bagRNG),
			State:     StateQueued,
			Node:      NoNode,
			waitingOn: NoNode,
		}
	}

	order, err := s.boardingOrder(cfg.Order, rngs.ForSubsystem(SubsystemStrategy))
	if err != nil {
		return nil, err
	}
	for _, id := range order {
		deck := g.Node(s.passengers[id].Seat).Deck
		s.deckQueues[deck] = append(s.deckQueues[deck], id)
	}
	return s, nil
}

// boardingOrder resolves the configured ordering and checks it is a
// permutation of all passengers. A nil orderer boards in seat-build order.
func (s *Simulator) boardingOrder(ord Orderer, rng *rand.Rand) ([]PassengerID, error) {
	n := len(s.passengers)
	if ord == nil {
		order := make([]PassengerID, n)
		for i := range order {
			order[i] = PassengerID(i)
		}
		return order, nil
	}
	order := ord.Order(s.graph.SeatRefs(), rng)
	if len(order) != n {
		return nil, fmt.Errorf("ordering %q returned %d passengers, want %d", ord.Name(), len(order), n)
	}
	seen := make([]bool, n)
	for _, id := range order {
		if id < 0 || int(id) >= n || seen[id] {
			return nil, fmt.Errorf("ordering %q is not a permutation: passenger %d", ord.Name(), id)
		}
		seen[id] = true
	}
	return order, nil
}

// Run executes the boarding to completion and returns its metrics. It
// panics on any internal invariant violation; a finished run is a valid
// run.
func (s *Simulator) Run() *RunMetrics {
	for deck := range s.deckQueues {
		if len(s.deckQueues[deck]) > 0 {
			s.schedule(&EntryEvent{time: 0, Deck: deck})
		}
	}
	for s.queue.Len() > 0 {
		item := heap.Pop(&s.queue).(eventItem)
		t := item.ev.Timestamp()
		if t < s.clock {
			s.failf("event at t=%.4f behind clock t=%.4f", t, s.clock)
		}
		s.clock = t
		item.ev.Execute(s)
	}
	if s.seated != len(s.passengers) {
		s.failf("run drained with %d of %d passengers seated", s.seated, len(s.passengers))
	}

	s.metrics.Passengers = len(s.passengers)
	for i := range s.passengers {
		p := &s.passengers[i]
		if p.SeatedAt > s.metrics.TotalTime {
			s.metrics.TotalTime = p.SeatedAt
		}
		s.metrics.MeanSeatingTime += (p.SeatedAt - p.EnteredAt) / float64(len(s.passengers))
	}
	s.metrics.Key = s.rngs.Key()
	return &s.metrics
}

// Transcript returns the run's movement record. Valid after Run.
func (s *Simulator) Transcript() *Transcript {
	return &s.transcript
}

// Passenger returns the passenger with the given id, for inspection.
func (s *Simulator) Passenger(id PassengerID) *Passenger {
	return &s.passengers[id]
}

// Passengers returns the passenger count.
func (s *Simulator) Passengers() int {
	return len(s.passengers)
}

func (s *Simulator) schedule(ev Event) {
	heap.Push(&s.queue, eventItem{ev: ev, seq: s.seq})
	s.seq++
}

func (s *Simulator) scheduleAct(id PassengerID, t float64) {
	s.schedule(&ActEvent{time: t, P: id})
}

// admit boards the front of a deck's queue if the entrance cell is free.
// A blocked entrance parks the whole deck until the cell is released;
// the entry-interval clock pauses with it.
func (s *Simulator) admit(deck int) {
	q := s.deckQueues[deck]
	if len(q) == 0 {
		return
	}
	entry := s.graph.Entry(deck)
	if s.occupant[entry] != NoPassenger {
		s.entryWaiting[deck] = true
		return
	}
	id := q[0]
	s.deckQueues[deck] = q[1:]
	p := &s.passengers[id]
	p.State = StateEntered
	p.Node = entry
	p.EnteredAt = s.clock
	s.occupant[entry] = id
	s.transcript.record(s.clock, id, NoNode, entry)
	logrus.Debugf("[t %8.2f] %s boards deck %d", s.clock, p, deck)
	s.scheduleAct(id, s.clock)

	if len(s.deckQueues[deck]) > 0 {
		gap := s.cfg.EntryInterval.Sample(s.entryRNG)
		s.schedule(&EntryEvent{time: s.clock + gap, Deck: deck})
	}
}

// act lets a passenger take its next step. Wakeups of already seated
// passengers are stale and ignored. Cells borrowed by the previous
// movement are given back first, which is what wakes anyone queued
// behind a row entry or a shuffle in progress.
func (s *Simulator) act(id PassengerID) {
	p := &s.passengers[id]
	if p.State == StateSeated {
		return
	}
	if p.State == StateQueued {
		s.failf("%s acted before boarding", p)
	}
	for _, c := range p.borrowed {
		if s.occupant[c] != p.ID {
			s.failf("%s lost borrowed cell %d to passenger %d", p, c, s.occupant[c])
		}
		s.occupant[c] = NoPassenger
		s.release(c)
	}
	p.borrowed = nil
	p.waitingOn = NoNode

	if p.Node == p.Seat {
		s.seat(p)
		return
	}
	st := s.planner.Next(p, s)
	switch st.kind {
	case stepMove:
		s.move(p, st.to)
	case stepWait:
		s.park(p, st.waitOn)
	case stepRetry:
		s.retry(p, st.retryAt)
	case stepShuffle:
		s.shuffle(p, st)
	}
}

// move advances p one node. The target was checked free by the planner;
// occupancy flips immediately and p acts again after the sampled delay.
// Carry-ons are stowed on the first step off the row-entry aisle cell
// into the row, against that cell's bin group. Aisle-to-aisle steps
// release the origin at once; steps into a seat cell keep it borrowed
// until the delay has elapsed, since the passenger's body still fills
// the gap it is squeezing through.
func (s *Simulator) move(p *Passenger, to NodeID) {
	from := p.Node
	fn, tn := s.graph.Node(from), s.graph.Node(to)
	if !s.adjacent(from, to) {
		s.failf("%s moving %s -> %s: not adjacent", p, fn, tn)
	}
	if s.occupant[to] != NoPassenger {
		s.failf("%s moving onto %s held by passenger %d", p, tn, s.occupant[to])
	}

	d := s.delays.MovementDelay(fn.Kind, tn.Kind)
	if !p.Stowed && fn.Kind == Aisle && tn.Kind == Seat {
		d += s.stow(p, fn.Bin)
	}

	s.occupant[to] = p.ID
	p.Node = to
	s.metrics.Moves++
	s.transcript.record(s.clock, p.ID, from, to)
	logrus.Debugf("[t %8.2f] %s: %s -> %s (%.2fs)", s.clock, p, fn, tn, d)
	if tn.Kind == Seat {
		p.borrowed = append(p.borrowed, from)
	} else {
		s.occupant[from] = NoPassenger
		s.release(from)
	}
	s.scheduleAct(p.ID, s.clock+d)
}

// stow loads all of p's carry-ons into the given bin group and returns
// the accumulated loading delay.
func (s *Simulator) stow(p *Passenger, bin BinID) float64 {
	d := 0.0
	for i := 0; i < p.CarryOns; i++ {
		d += s.delays.BinLoadingDelay(s.bins.Count(bin))
		s.bins.AddBag(bin)
		s.metrics.BagsStowed++
	}
	p.Stowed = true
	return d
}

// shuffle squeezes p past st.run, a run of seated blockers, onto the
// first free cell beyond them. The blockers never change cells: they
// stand up in place, lean toward the aisle, and sit back down, which
// leaves no transient occupant for oncoming traffic to collide with.
// The mover keeps its origin borrowed for the whole squeeze, plus the
// spare aisle cell everyone leans into when one is free; without a spare
// cell the squeeze still happens, at an extra jostling cost. Each
// crossed blocker is busy until the squeeze completes and blocks further
// shuffles across it for that long.
func (s *Simulator) shuffle(p *Passenger, st step) {
	info := s.graph.SeatInfo(p.Seat)
	origin := p.Node
	land := st.to
	if s.occupant[land] != NoPassenger {
		s.failf("%s shuffling onto cell %d held by passenger %d", p, land, s.occupant[land])
	}
	cur := origin
	for _, id := range st.run {
		cur = s.graph.Node(cur).Neighbor(info.Dir)
		q := &s.passengers[id]
		if q.State != StateSeated || q.Node != cur || s.occupant[cur] != id {
			s.failf("%s shuffling across %s which is not seated in place", p, q)
		}
	}
	if s.graph.Node(cur).Neighbor(info.Dir) != land {
		s.failf("%s shuffle landing %d does not follow its run", p, land)
	}

	d := 0.0
	borrow := []NodeID{origin}
	spare := info.AisleNode
	if origin == info.AisleNode {
		// Entering the row from the aisle: the spare standing room is the
		// aisle cell behind the mover.
		spare = s.graph.Node(origin).Neighbor(South)
		d += s.delays.AisleShuffleDelay(len(st.run))
		if !p.Stowed {
			d += s.stow(p, s.graph.Node(origin).Bin)
		}
	} else {
		d += s.delays.RowShuffleDelay(len(st.run))
	}
	if spare != NoNode && s.graph.Node(spare).Kind == Aisle && s.occupant[spare] == NoPassenger {
		s.occupant[spare] = p.ID
		borrow = append(borrow, spare)
	} else {
		d += s.delays.AisleSqueezeDelay()
	}

	s.occupant[land] = p.ID
	p.Node = land
	p.borrowed = borrow
	for _, id := range st.run {
		s.passengers[id].busyUntil = s.clock + d
		s.metrics.Displacements++
	}
	s.metrics.Moves++
	s.transcript.record(s.clock, p.ID, origin, land)
	logrus.Debugf("[t %8.2f] %s shuffles past %d seated to node %d (%.2fs)",
		s.clock, p, len(st.run), land, d)
	s.scheduleAct(p.ID, s.clock+d)
}

// retry reschedules p for a fixed future time, once the blockers ahead
// have finished an earlier squeeze.
func (s *Simulator) retry(p *Passenger, at float64) {
	p.Waits++
	s.metrics.Waits++
	s.scheduleAct(p.ID, at)
}

// seat finalizes a passenger at its assigned seat. The node stays
// occupied for the rest of the run; later arrivals for the same row
// shuffle past instead of pulling the passenger back out.
func (s *Simulator) seat(p *Passenger) {
	if !p.Stowed && p.CarryOns > 0 {
		s.failf("%s seated with bags unstowed", p)
	}
	p.Stowed = true
	p.State = StateSeated
	p.SeatedAt = s.clock
	s.seated++
	s.transcript.Seatings = append(s.transcript.Seatings, SeatRecord{Time: s.clock, Passenger: p.ID})
	logrus.Debugf("[t %8.2f] %s seated (%d/%d)", s.clock, p, s.seated, len(s.passengers))
}

// park suspends p until the given node is released.
func (s *Simulator) park(p *Passenger, on NodeID) {
	p.waitingOn = on
	p.Waits++
	s.metrics.Waits++
	s.waiters[on] = append(s.waiters[on], p.ID)
}

// release wakes everyone waiting on a node, in parking order, and retries
// a deck entrance that was blocked by it. Woken passengers replan; they
// may well park again.
func (s *Simulator) release(node NodeID) {
	if ws := s.waiters[node]; len(ws) > 0 {
		delete(s.waiters, node)
		for _, id := range ws {
			s.scheduleAct(id, s.clock)
		}
	}
	for deck, entry := range s.graph.entries {
		if entry == node && s.entryWaiting[deck] {
			s.entryWaiting[deck] = false
			s.schedule(&EntryEvent{time: s.clock, Deck: deck})
		}
	}
}

func (s *Simulator) adjacent(a, b NodeID) bool {
	n := s.graph.Node(a)
	for d := North; d <= West; d++ {
		if n.Neighbor(d) == b {
			return true
		}
	}
	return false
}

// failf reports an internal invariant violation. State at that point is
// unrecoverable, so it dumps the cabin and panics.
func (s *Simulator) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logrus.Errorf("invariant violation at t=%.4f: %s", s.clock, msg)
	for _, line := range s.renderCabin() {
		logrus.Error(line)
	}
	panic("sim: " + msg)
}
