// The movement planner decides one transition at a time from current
// occupancy. It never reserves a path: every step is recomputed when the
// passenger acts, so stale plans cannot exist.

package sim

// stepKind classifies a planner decision.
type stepKind uint8

const (
	// stepMove advances the passenger onto an adjacent free node.
	stepMove stepKind = iota
	// stepWait parks the passenger until a specific node is released.
	stepWait
	// stepShuffle squeezes the passenger past a run of seated blockers
	// into the first free seat cell beyond them. The blockers stand in
	// place; only the mover changes cells.
	stepShuffle
	// stepRetry reschedules the passenger for a known future time, used
	// when the blockers it must cross are still busy with an earlier
	// shuffle.
	stepRetry
)

// step is one planner decision for one passenger.
type step struct {
	kind    stepKind
	to      NodeID        // stepMove / stepShuffle target
	waitOn  NodeID        // stepWait node
	run     []PassengerID // stepShuffle blockers, nearest first
	retryAt float64       // stepRetry wakeup time
}

// MovementPlanner routes passengers over a fixed cabin graph. It reads
// simulator occupancy and mutates nothing.
type MovementPlanner struct {
	g *CabinGraph
}

// NewMovementPlanner returns a planner over g.
func NewMovementPlanner(g *CabinGraph) *MovementPlanner {
	return &MovementPlanner{g: g}
}

// Next returns the next transition for p. Callers guarantee p is aboard
// and not yet seated.
func (pl *MovementPlanner) Next(p *Passenger, s *Simulator) step {
	info := pl.g.SeatInfo(p.Seat)
	node := pl.g.Node(p.Node)

	var next NodeID
	switch {
	case node.Kind == Seat || p.Node == info.AisleNode:
		// In the seat row or at its entry cell: lateral, toward the seat.
		next = node.Neighbor(info.Dir)
	case node.AisleIdx == info.AisleIdx:
		// On the right spine: walk it to the seat's row.
		if node.Row < pl.g.Node(info.AisleNode).Row {
			next = node.Neighbor(South)
		} else {
			next = node.Neighbor(North)
		}
	default:
		// Wrong spine: cross eastward over the bridge row. Entrances sit on
		// the westmost spine, so east always makes progress.
		next = node.Neighbor(East)
	}
	if next == NoNode {
		s.failf("planner: %s at %s has no route toward seat %d", p, node, p.Seat)
	}

	occ := s.occupant[next]
	if occ == NoPassenger {
		return step{kind: stepMove, to: next}
	}
	if s.passengers[occ].State != StateSeated {
		// Someone unseated holds the cell; they will move or seat
		// eventually, and their next action releases whatever they hold.
		return step{kind: stepWait, waitOn: next}
	}
	return pl.shuffleStep(p, info, next, s)
}

// shuffleStep sizes the run of consecutive seated blockers starting at
// first and lands the mover on the next cell past the run. An unseated
// occupant inside the run turns the plan into an ordinary wait; a blocker
// still busy from an earlier shuffle defers the whole squeeze until it has
// sat back down.
func (pl *MovementPlanner) shuffleStep(p *Passenger, info SeatInfo, first NodeID, s *Simulator) step {
	var run []PassengerID
	busyUntil := 0.0
	cur := first
	for {
		occ := s.occupant[cur]
		if occ == NoPassenger {
			break
		}
		q := &s.passengers[occ]
		if q.State != StateSeated {
			return step{kind: stepWait, waitOn: cur}
		}
		run = append(run, occ)
		if q.busyUntil > busyUntil {
			busyUntil = q.busyUntil
		}
		cur = pl.g.Node(cur).Neighbor(info.Dir)
		if cur == NoNode || pl.g.Node(cur).Kind != Seat {
			s.failf("planner: %s blocked through the end of its row", p)
		}
	}
	if busyUntil > s.clock {
		return step{kind: stepRetry, retryAt: busyUntil}
	}
	return step{kind: stepShuffle, to: cur, run: run}
}
