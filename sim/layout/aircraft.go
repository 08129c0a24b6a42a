// Built-in aircraft geometries. Row counts and seat-group widths follow
// the published single- and twin-aisle cabin plans of each type.

package layout

import (
	"fmt"
	"sort"
)

func single(name string, rows int, groups []int, binSpan int) Spec {
	return Spec{
		Name: name,
		Decks: []Deck{{
			Sections: []Section{{Rows: rows, SeatGroups: groups, BinRowSpan: binSpan}},
		}},
	}
}

var builtins = map[string]Spec{
	"airbus-320": single("airbus-320", 23, []int{3, 3}, 2),

	// 767s: a short 2-2-2 forward cabin ahead of a wider 2-3-2 main cabin.
	"boeing-767-200": {
		Name: "boeing-767-200",
		Decks: []Deck{{
			Sections: []Section{
				{Rows: 8, SeatGroups: []int{2, 2, 2}, BinRowSpan: 3},
				{Rows: 25, SeatGroups: []int{2, 3, 2}, BinRowSpan: 3},
			},
		}},
	},
	"boeing-767-400": {
		Name: "boeing-767-400",
		Decks: []Deck{{
			Sections: []Section{
				{Rows: 8, SeatGroups: []int{2, 2, 2}, BinRowSpan: 3},
				{Rows: 25, SeatGroups: []int{2, 3, 2}, BinRowSpan: 3},
			},
		}},
	},

	"airbus-a300-600": single("airbus-a300-600", 50, []int{2, 4, 2}, 2),
	"boeing-747":      single("boeing-747", 40, []int{3, 4, 3}, 2),

	// Two independent decks, each boarded through its own entrance.
	"airbus-380": {
		Name: "airbus-380",
		Decks: []Deck{
			{Sections: []Section{{Rows: 40, SeatGroups: []int{3, 4, 3}, BinRowSpan: 2}}},
			{Sections: []Section{{Rows: 30, SeatGroups: []int{2, 4, 2}, BinRowSpan: 2}}},
		},
	},
}

// Builtin returns the named built-in aircraft spec.
func Builtin(name string) (Spec, error) {
	sp, ok := builtins[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown aircraft %q (known: %v)", name, BuiltinNames())
	}
	return sp.Clone(), nil
}

// BuiltinNames lists the built-in aircraft in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
