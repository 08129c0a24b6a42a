// The stochastic delay model. Every movement delay is drawn fresh at the
// moment it is charged; nothing is memoized on nodes or edges. A single run
// therefore already samples a broad slice of the outcome distribution,
// which is why a comparatively small number of independent runs gives
// statistically stable batch estimates.

package sim

import (
	"math"
	"math/rand"
)

// GaussParam is a Normal distribution given as mean and standard deviation.
// Zero sigma degenerates to the mean, which the hand-computable tests rely
// on. Samples are truncated at zero; a movement can be instantaneous but
// never negative.
type GaussParam struct {
	Mean  float64 `yaml:"mean"`
	Sigma float64 `yaml:"sigma"`
}

// Sample draws one value.
func (p GaussParam) Sample(rng *rand.Rand) float64 {
	if p.Sigma == 0 {
		return p.Mean
	}
	v := rng.NormFloat64()*p.Sigma + p.Mean
	if v < 0 {
		return 0
	}
	return v
}

// Scale returns the distribution with both parameters multiplied by f,
// used by sensitivity sweeps.
func (p GaussParam) Scale(f float64) GaussParam {
	return GaussParam{Mean: p.Mean * f, Sigma: p.Sigma * f}
}

// DelayConfig holds the four movement-delay distributions, keyed by the
// kinds of the cells being left and entered, plus the bin loading constant.
type DelayConfig struct {
	AisleToAisle GaussParam `yaml:"aisle_to_aisle"`
	AisleToSeat  GaussParam `yaml:"aisle_to_seat"`
	SeatToAisle  GaussParam `yaml:"seat_to_aisle"`
	SeatToSeat   GaussParam `yaml:"seat_to_seat"`

	// BinConstant is k in the bin loading cost k*sqrt(bags already in the
	// bin). Loading n bags into one bin costs k*sum(sqrt(i), i<n), so a
	// popular bin span costs O(n^1.5) overall.
	BinConstant float64 `yaml:"bin_constant"`
}

// DefaultDelays returns the stock delay table in seconds.
func DefaultDelays() DelayConfig {
	return DelayConfig{
		AisleToAisle: GaussParam{Mean: 2.0, Sigma: 0.3},
		AisleToSeat:  GaussParam{Mean: 3.0, Sigma: 0.8},
		SeatToAisle:  GaussParam{Mean: 3.5, Sigma: 0.4},
		SeatToSeat:   GaussParam{Mean: 7.0, Sigma: 2.0},
		BinConstant:  2.0,
	}
}

// DelayModel draws delays for one run. Not safe for concurrent use; each
// run owns its own model seeded from its partitioned RNG.
type DelayModel struct {
	cfg DelayConfig
	rng *rand.Rand
}

// NewDelayModel binds a delay table to a run's RNG stream.
func NewDelayModel(cfg DelayConfig, rng *rand.Rand) *DelayModel {
	return &DelayModel{cfg: cfg, rng: rng}
}

// MovementDelay samples the cost of stepping from a cell of kind from into
// a cell of kind to. Re-sampled on every call, even for the same
// transition pair encountered again later in the run.
func (m *DelayModel) MovementDelay(from, to NodeKind) float64 {
	return m.param(from, to).Sample(m.rng)
}

func (m *DelayModel) param(from, to NodeKind) GaussParam {
	if from == Aisle {
		if to == Aisle {
			return m.cfg.AisleToAisle
		}
		return m.cfg.AisleToSeat
	}
	if to == Aisle {
		return m.cfg.SeatToAisle
	}
	return m.cfg.SeatToSeat
}

// BinLoadingDelay returns the cost of stowing one bag into a bin that
// already holds bagsBefore bags: k*sqrt(bagsBefore). The first bag into an
// empty bin is free to lift into place; each later bag pays for the
// shuffling of what is already there.
func (m *DelayModel) BinLoadingDelay(bagsBefore int) float64 {
	return m.cfg.BinConstant * math.Sqrt(float64(bagsBefore))
}

func (m *DelayModel) aa() float64 { return m.cfg.AisleToAisle.Sample(m.rng) }
func (m *DelayModel) as() float64 { return m.cfg.AisleToSeat.Sample(m.rng) }
func (m *DelayModel) sa() float64 { return m.cfg.SeatToAisle.Sample(m.rng) }
func (m *DelayModel) ss() float64 { return m.cfg.SeatToSeat.Sample(m.rng) }

func max2(a, b float64) float64 { return math.Max(a, b) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// AisleShuffleDelay is the cost for a passenger standing on its row-entry
// aisle cell to squeeze past crossed seated blockers into the first free
// seat cell beyond them. The blockers stand in place while the mover edges
// by; each leg overlaps, so parallel legs contribute their maximum.
func (m *DelayModel) AisleShuffleDelay(crossed int) float64 {
	if crossed == 1 {
		return max2(m.aa(), m.ss()) + m.as() + max2(m.ss(), m.as())
	}
	d := max3(m.aa(), m.sa(), m.ss()) + m.sa() + m.as() +
		max2(m.sa(), m.ss()) + max3(m.ss(), m.ss(), m.as())
	for i := 2; i < crossed; i++ {
		d += m.sa() + max2(m.ss(), m.as())
	}
	return d
}

// RowShuffleDelay is the squeeze cost when the mover is already on a seat
// cell inside the row: the blockers edge back toward the aisle and return
// after the mover has passed.
func (m *DelayModel) RowShuffleDelay(crossed int) float64 {
	d := max2(m.sa(), m.ss()) + m.sa() + m.as() + max2(m.ss(), m.as()) + m.ss()
	for i := 1; i < crossed; i++ {
		d += m.sa() + max2(m.ss(), m.as())
	}
	return d
}

// AisleSqueezeDelay is the extra cost of a shuffle with no spare aisle
// cell to stand in: everyone jostles within the row instead.
func (m *DelayModel) AisleSqueezeDelay() float64 {
	return m.aa() + m.aa()
}
