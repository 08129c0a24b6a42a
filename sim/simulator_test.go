package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedOrder boards passengers in exactly the given sequence.
type fixedOrder []PassengerID

func (fixedOrder) Name() string { return "fixed" }

func (o fixedOrder) Order(_ []SeatRef, _ *rand.Rand) []PassengerID { return o }

// detConfig zeroes every source of randomness that matters to the
// hand-computed scenarios: all delay sigmas, the door interval spread,
// and the bin constant (carry-on counts stay random but stowing is free).
func detConfig() Config {
	cfg := DefaultConfig()
	cfg.Delays.AisleToAisle.Sigma = 0
	cfg.Delays.AisleToSeat.Sigma = 0
	cfg.Delays.SeatToAisle.Sigma = 0
	cfg.Delays.SeatToSeat.Sigma = 0
	cfg.Delays.BinConstant = 0
	cfg.EntryInterval = GaussParam{}
	return cfg
}

// replayTranscript re-applies every recorded transition and checks that
// no node ever holds two occupants and nobody moves from a cell it does
// not hold.
func replayTranscript(t *testing.T, tr *Transcript) {
	t.Helper()
	occ := make(map[NodeID]PassengerID)
	last := 0.0
	for i, mv := range tr.Moves {
		require.GreaterOrEqual(t, mv.Time, last, "move %d goes back in time", i)
		last = mv.Time
		if mv.From != NoNode {
			holder, ok := occ[mv.From]
			require.True(t, ok, "move %d: passenger %d leaves empty cell %d", i, mv.Passenger, mv.From)
			require.Equal(t, mv.Passenger, holder, "move %d: cell %d held by someone else", i, mv.From)
			delete(occ, mv.From)
		}
		_, taken := occ[mv.To]
		require.False(t, taken, "move %d: passenger %d enters occupied cell %d at t=%.2f", i, mv.Passenger, mv.To, mv.Time)
		occ[mv.To] = mv.Passenger
	}
}

func TestTwoTwoRowUnblocked(t *testing.T) {
	// Single 2-2 row, window seats first, door interval long enough that
	// each passenger is seated before the next enters. Every total is the
	// plain sum of that passenger's own transitions:
	//   window: entry + 2.0 (walk) + 3.0 (aisle-seat) + 7.0 (seat-seat)
	//   middle: entry + 2.0 (walk) + 3.0 (aisle-seat)
	g := buildGraph(t, sectionSpec(1, 2, 2))
	cfg := detConfig()
	cfg.EntryInterval = GaussParam{Mean: 100}
	cfg.Order = fixedOrder{1, 3, 0, 2}

	s, m, err := NewMonteCarloRunner(g, cfg).RunOne(0)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, s.Passenger(1).SeatedAt, 1e-9)
	assert.InDelta(t, 112.0, s.Passenger(3).SeatedAt, 1e-9)
	assert.InDelta(t, 205.0, s.Passenger(0).SeatedAt, 1e-9)
	assert.InDelta(t, 305.0, s.Passenger(2).SeatedAt, 1e-9)
	assert.InDelta(t, 305.0, m.TotalTime, 1e-9)
	assert.Equal(t, 0, m.Displacements)
	replayTranscript(t, s.Transcript())
}

func TestTwoTwoRowPipelined(t *testing.T) {
	// Same row, zero door interval: passengers queue at the entrance and
	// serialize on the row-entry aisle cell, which every step into the
	// row keeps borrowed until the stepper's next action. Window seats go
	// first so nobody shuffles; each follower waits at the entrance or on
	// the borrowed entry cell:
	//   p1: 0 entry, 2 at entry cell, 5 in row, seated 5+7
	//   p3: woken at 5, entry cell at 7, seated 10+7
	//   p0: woken at 10, entry cell at 12, seated 12+3
	//   p2: woken at 15, entry cell at 17, seated 17+3
	g := buildGraph(t, sectionSpec(1, 2, 2))
	cfg := detConfig()
	cfg.Order = fixedOrder{1, 3, 0, 2}

	s, m, err := NewMonteCarloRunner(g, cfg).RunOne(0)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, s.Passenger(1).SeatedAt, 1e-9)
	assert.InDelta(t, 17.0, s.Passenger(3).SeatedAt, 1e-9)
	assert.InDelta(t, 15.0, s.Passenger(0).SeatedAt, 1e-9)
	assert.InDelta(t, 20.0, s.Passenger(2).SeatedAt, 1e-9)
	assert.InDelta(t, 20.0, m.TotalTime, 1e-9)
	assert.Equal(t, 0, m.Displacements)
	replayTranscript(t, s.Transcript())
}

func TestRunCompletesAndSeatsEveryone(t *testing.T) {
	g := buildGraph(t, sectionSpec(6, 3, 3))
	cfg := DefaultConfig()
	cfg.Seed = 11

	s, m, err := NewMonteCarloRunner(g, cfg).RunOne(0)
	require.NoError(t, err)

	assert.Equal(t, 36, m.Passengers)
	assert.Greater(t, m.TotalTime, 0.0)
	for i := 0; i < s.Passengers(); i++ {
		p := s.Passenger(PassengerID(i))
		assert.Equal(t, StateSeated, p.State, "passenger %d", i)
		assert.Equal(t, p.Seat, p.Node, "passenger %d", i)
	}
	replayTranscript(t, s.Transcript())
}

func TestRunDeterministicForKey(t *testing.T) {
	g := buildGraph(t, sectionSpec(5, 2, 2))
	cfg := DefaultConfig()
	cfg.Seed = 3

	r := NewMonteCarloRunner(g, cfg)
	s1, m1, err := r.RunOne(4)
	require.NoError(t, err)
	s2, m2, err := r.RunOne(4)
	require.NoError(t, err)

	assert.Equal(t, m1.TotalTime, m2.TotalTime)
	assert.Equal(t, m1.Moves, m2.Moves)
	assert.Equal(t, m1.BagsStowed, m2.BagsStowed)
	assert.Equal(t, s1.Transcript().Moves, s2.Transcript().Moves)

	// A different run index gives a different boarding.
	_, m3, err := r.RunOne(5)
	require.NoError(t, err)
	assert.NotEqual(t, m1.TotalTime, m3.TotalTime)
}

func TestSeatedTimesNeverDecreasePerPassenger(t *testing.T) {
	g := buildGraph(t, sectionSpec(4, 3, 3))
	cfg := DefaultConfig()
	cfg.Seed = 21

	s, m, err := NewMonteCarloRunner(g, cfg).RunOne(0)
	require.NoError(t, err)

	// The final seating defines the run total.
	latest := 0.0
	for _, rec := range s.Transcript().Seatings {
		if rec.Time > latest {
			latest = rec.Time
		}
	}
	assert.InDelta(t, m.TotalTime, latest, 1e-9)
}

func TestBagsStowedMatchesCarryOns(t *testing.T) {
	g := buildGraph(t, sectionSpec(4, 2, 2))
	cfg := DefaultConfig()
	cfg.Seed = 8

	s, m, err := NewMonteCarloRunner(g, cfg).RunOne(2)
	require.NoError(t, err)

	want := 0
	for i := 0; i < s.Passengers(); i++ {
		want += s.Passenger(PassengerID(i)).CarryOns
	}
	assert.Equal(t, want, m.BagsStowed)
}

func TestOrdererMustReturnPermutation(t *testing.T) {
	g := buildGraph(t, sectionSpec(1, 2, 2))
	cfg := DefaultConfig()

	cfg.Order = fixedOrder{0, 1, 2}
	_, err := NewSimulator(g, cfg, NewSimulationKey(1))
	assert.Error(t, err)

	cfg.Order = fixedOrder{0, 1, 2, 2}
	_, err = NewSimulator(g, cfg, NewSimulationKey(1))
	assert.Error(t, err)
}
