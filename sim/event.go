// Defines the simulation events and the timestamp-ordered event queue.
// Events at the same timestamp execute in scheduling order, which keeps a
// run reproducible for a given key.

package sim

import "github.com/sirupsen/logrus"

// Event is a scheduled simulation action. Each event has a timestamp in
// simulated seconds and an Execute method that advances simulator state.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// EntryEvent attempts to board the next queued passenger of a deck through
// the deck's entrance.
type EntryEvent struct {
	time float64
	Deck int
}

// Timestamp returns the scheduled time of the EntryEvent.
func (e *EntryEvent) Timestamp() float64 { return e.time }

// Execute admits the next passenger if the entrance is free, otherwise
// leaves the deck waiting for the entrance node to clear.
func (e *EntryEvent) Execute(sim *Simulator) {
	logrus.Debugf("[t %8.2f] entry attempt on deck %d", e.time, e.Deck)
	sim.admit(e.Deck)
}

// ActEvent wakes a passenger to take its next planned step: the completion
// of a movement delay, or a retry after a blocking node was released.
type ActEvent struct {
	time float64
	P    PassengerID
}

// Timestamp returns the scheduled time of the ActEvent.
func (e *ActEvent) Timestamp() float64 { return e.time }

// Execute lets the passenger act.
func (e *ActEvent) Execute(sim *Simulator) {
	sim.act(e.P)
}

// eventItem pairs an event with its scheduling sequence number so that
// same-timestamp events pop in deterministic order.
type eventItem struct {
	ev  Event
	seq int64
}

// eventQueue implements heap.Interface ordered by (timestamp, sequence).
type eventQueue []eventItem

func (eq eventQueue) Len() int { return len(eq) }

func (eq eventQueue) Less(i, j int) bool {
	ti, tj := eq[i].ev.Timestamp(), eq[j].ev.Timestamp()
	if ti != tj {
		return ti < tj
	}
	return eq[i].seq < eq[j].seq
}

func (eq eventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *eventQueue) Push(x any) {
	*eq = append(*eq, x.(eventItem))
}

func (eq *eventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}
