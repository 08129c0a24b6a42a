// Package layout describes cabin geometries consumed by the simulation
// core: per-row seat-group widths, aisle positions, bin spans, and decks.
// Specs are authored as YAML files or taken from the built-in aircraft.
package layout

import (
	"errors"
	"fmt"
	"os"

	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout is wrapped by all layout validation failures. A layout
// that fails validation is rejected before any graph is built; it can never
// surface as a mid-simulation error.
var ErrInvalidLayout = errors.New("invalid cabin layout")

// Spec is a complete cabin geometry: one or more decks, each a stack of
// sections whose per-row seat-group widths may differ (e.g. a 2-2-2 front
// cabin ahead of a 2-3-2 rear cabin).
type Spec struct {
	Name  string `yaml:"name"`
	Decks []Deck `yaml:"decks"`
}

// Deck is an independent cabin floor with its own boarding entrance.
// Decks are parallel graphs; they share nothing but the configuration.
type Deck struct {
	Sections []Section `yaml:"sections"`
}

// Section is a run of identical rows. SeatGroups lists seat-group widths
// from west to east; one aisle runs between each adjacent pair of groups,
// so a section has len(SeatGroups)-1 aisles. Every section of a deck must
// have the same aisle count so the spines join front to rear.
type Section struct {
	Rows       int   `yaml:"rows"`
	SeatGroups []int `yaml:"seat_groups"`
	// BinRowSpan is how many seat rows share one overhead bin counter.
	// Zero means the default of 2.
	BinRowSpan int `yaml:"bin_row_span"`
}

// DefaultBinRowSpan applies when a section leaves BinRowSpan unset.
const DefaultBinRowSpan = 2

// Aisles returns the number of aisle spines in the section.
func (s Section) Aisles() int {
	return len(s.SeatGroups) - 1
}

// AisleFile returns the lateral file of aisle i within the section.
// With groups (3, 4, 3), aisle 0 sits at file 3 and aisle 1 at file 8.
func (s Section) AisleFile(i int) int {
	f := i
	for g := 0; g <= i; g++ {
		f += s.SeatGroups[g]
	}
	return f
}

// Files returns the total lateral width of the section including aisles.
func (s Section) Files() int {
	f := s.Aisles()
	for _, g := range s.SeatGroups {
		f += g
	}
	return f
}

// SeatsPerRow returns the number of seats in one row of the section.
func (s Section) SeatsPerRow() int {
	n := 0
	for _, g := range s.SeatGroups {
		n += g
	}
	return n
}

// Seats returns the total seat count of the spec across all decks.
func (sp Spec) Seats() int {
	n := 0
	for _, d := range sp.Decks {
		for _, sec := range d.Sections {
			n += sec.Rows * sec.SeatsPerRow()
		}
	}
	return n
}

// Validate rejects malformed geometry. All failures wrap ErrInvalidLayout.
func (sp Spec) Validate() error {
	if len(sp.Decks) == 0 {
		return fmt.Errorf("%w: no decks", ErrInvalidLayout)
	}
	for di, d := range sp.Decks {
		if len(d.Sections) == 0 {
			return fmt.Errorf("%w: deck %d has no sections", ErrInvalidLayout, di)
		}
		aisles := d.Sections[0].Aisles()
		for si, sec := range d.Sections {
			if sec.Rows < 1 {
				return fmt.Errorf("%w: deck %d section %d: rows must be >= 1", ErrInvalidLayout, di, si)
			}
			if len(sec.SeatGroups) < 2 {
				// A single seat group has no aisle; its seats would have no
				// reachable aisle, which the simulation cannot recover from.
				return fmt.Errorf("%w: deck %d section %d: need at least two seat groups (one aisle)", ErrInvalidLayout, di, si)
			}
			for gi, g := range sec.SeatGroups {
				if g < 1 {
					return fmt.Errorf("%w: deck %d section %d: seat group %d must be >= 1", ErrInvalidLayout, di, si, gi)
				}
			}
			if sec.Aisles() != aisles {
				return fmt.Errorf("%w: deck %d section %d: %d aisles, want %d to match section 0",
					ErrInvalidLayout, di, si, sec.Aisles(), aisles)
			}
			if sec.BinRowSpan < 0 {
				return fmt.Errorf("%w: deck %d section %d: negative bin row span", ErrInvalidLayout, di, si)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the spec. Graph building may rewrite bin
// spans from configuration overrides and must not mutate the caller's spec.
func (sp Spec) Clone() Spec {
	var out Spec
	if err := deepcopy.Copy(&out, &sp); err != nil {
		// Spec is plain data; copy failure is a programming error.
		panic(fmt.Sprintf("layout: clone failed: %v", err))
	}
	return out
}

// Load reads and validates a spec from a YAML file.
func Load(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read layout file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML spec.
func Parse(data []byte) (Spec, error) {
	var sp Spec
	if err := yaml.Unmarshal(data, &sp); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := sp.Validate(); err != nil {
		return Spec{}, err
	}
	return sp, nil
}
