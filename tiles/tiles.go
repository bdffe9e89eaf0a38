// Package tiles contains the tile supply for a four-suit rummy tile set;
// generating, shuffling, dealing, sorting, and valuing tiles.
package tiles

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Color is one of the four tile suits. Jokers carry NoColor.
type Color uint8

const (
	NoColor Color = iota
	Red
	Blue
	Yellow
	Black
)

const (
	// NumColors is the number of suits in the tile set.
	NumColors = 4
	// MaxNumber is the highest tile number.
	MaxNumber = 13
	// NumJokers is the number of jokers in the full supply.
	NumJokers = 2
	// Replicates is how many copies of each suited tile the supply holds.
	Replicates = 2
	// SupplySize is the total number of tiles (2 × 13 × 4 + 2 jokers).
	SupplySize = Replicates*MaxNumber*NumColors + NumJokers
	// JokerRackValue is what a joker counts for when valuing a losing rack.
	JokerRackValue = 30
)

// Colors lists the suits in canonical sort order.
var Colors = [NumColors]Color{Red, Blue, Yellow, Black}

func (c Color) String() string {
	switch c {
	case Red:
		return "R"
	case Blue:
		return "B"
	case Yellow:
		return "Y"
	case Black:
		return "K"
	}
	return "?"
}

// Tile is a single tile. The ID is assigned once at supply creation and is
// stable for the tile's lifetime; tiles only ever move between containers.
type Tile struct {
	ID     string
	Color  Color
	Number uint8
	Joker  bool
}

// Kind identifies one of the 53 distinct tile kinds (52 suited + joker),
// ignoring identity. Two physical copies of each kind exist.
type Kind struct {
	Color  Color
	Number uint8
	Joker  bool
}

func (t Tile) Kind() Kind {
	if t.Joker {
		return Kind{Joker: true}
	}
	return Kind{Color: t.Color, Number: t.Number}
}

func (t Tile) String() string {
	if t.Joker {
		return "??"
	}
	return fmt.Sprintf("%v%d", t.Color, t.Number)
}

// sortKey orders a tile for rack display: suits in canonical order, numbers
// ascending within a suit, jokers at the very end.
func sortKey(t Tile) int {
	if t.Joker {
		return NumColors*(MaxNumber+1) + 1
	}
	return int(t.Color-Red)*(MaxNumber+1) + int(t.Number)
}

// Sort sorts a rack in place by suit, then number, jokers last. The sort is
// stable so the two copies of a kind keep their relative order.
func Sort(ts []Tile) {
	sort.SliceStable(ts, func(i, j int) bool {
		return sortKey(ts[i]) < sortKey(ts[j])
	})
}

// Sorted returns a sorted copy, leaving the input alone.
func Sorted(ts []Tile) []Tile {
	out := make([]Tile, len(ts))
	copy(out, ts)
	Sort(out)
	return out
}

// RackValue computes the stalemate valuation of a rack: suited tiles at face
// value, jokers at 30 apiece. The player holding the cheapest rack wins a
// stalled game.
func RackValue(ts []Tile) int {
	return lo.SumBy(ts, func(t Tile) int {
		if t.Joker {
			return JokerRackValue
		}
		return int(t.Number)
	})
}

// CountKinds tallies tile kinds across any number of containers. Used to
// check the conservation invariant: every kind should always total
// Replicates (or NumJokers for the joker kind) across pool, racks, board,
// and staged sets.
func CountKinds(groups ...[]Tile) map[Kind]int {
	counts := make(map[Kind]int)
	for _, g := range groups {
		for _, t := range g {
			counts[t.Kind()]++
		}
	}
	return counts
}
