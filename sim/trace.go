// ASCII rendering of cabin occupancy, used for debug tracing and for the
// state dump on invariant violations.

package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// renderCabin draws every deck as a row-by-file grid. Legend: '-' empty
// seat, '.' empty aisle, 'x' seated, 'o' moving (borrowed cells render
// as the borrower), space off-plane.
func (s *Simulator) renderCabin() []string {
	var lines []string
	for deck := 0; deck < s.graph.Decks(); deck++ {
		lines = append(lines, fmt.Sprintf("deck %d:", deck))
		for row := 0; row < s.graph.deckRows[deck]; row++ {
			var b strings.Builder
			for file := 0; file < s.graph.deckFiles[deck]; file++ {
				id := s.graph.NodeAt(deck, row, file)
				if id == NoNode {
					b.WriteByte(' ')
					continue
				}
				occ := s.occupant[id]
				switch {
				case occ == NoPassenger && s.graph.Node(id).Kind == Seat:
					b.WriteByte('-')
				case occ == NoPassenger:
					b.WriteByte('.')
				case s.passengers[occ].State == StateSeated:
					b.WriteByte('x')
				default:
					b.WriteByte('o')
				}
			}
			lines = append(lines, fmt.Sprintf("  %3d %s", row, b.String()))
		}
	}
	return lines
}

// TraceCabin logs the current occupancy grid at debug level.
func (s *Simulator) TraceCabin() {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	logrus.Debugf("cabin at t=%.2f", s.clock)
	for _, line := range s.renderCabin() {
		logrus.Debug(line)
	}
}
