package sets

import (
	"github.com/jvilar/mompox/tiles"
)

// MaxGroupSize is the largest legal group (one tile per suit).
const MaxGroupSize = 4

// groupNumber checks group legality and reports the shared number when
// legal: 3 or 4 tiles, all suited tiles on the same number with pairwise
// distinct suits, jokers standing in for the missing suits.
func groupNumber(ts []tiles.Tile) (uint8, bool) {
	if len(ts) < MinSetSize || len(ts) > MaxGroupSize {
		return 0, false
	}

	var number uint8
	seenSuit := make(map[tiles.Color]bool, MaxGroupSize)
	suitedCount := 0
	for _, t := range ts {
		if t.Joker {
			continue
		}
		suitedCount++
		if number == 0 {
			number = t.Number
		} else if t.Number != number {
			return 0, false
		}
		// Two tiles of the same suit can never share a group, even with
		// jokers covering other suits.
		if seenSuit[t.Color] {
			return 0, false
		}
		seenSuit[t.Color] = true
	}
	if suitedCount == 0 {
		return 0, false
	}
	return number, true
}

// IsValidGroup reports whether the tiles form a legal group.
func IsValidGroup(ts []tiles.Tile) bool {
	_, ok := groupNumber(ts)
	return ok
}
