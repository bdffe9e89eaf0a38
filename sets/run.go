package sets

import (
	"sort"

	"github.com/jvilar/mompox/tiles"
)

// runShape is the analysis of a candidate run: its suited tiles sorted by
// number, its jokers, and how the jokers are spent (filling interior gaps
// first, then extending the sequence, preferring the low end).
type runShape struct {
	suited []tiles.Tile
	jokers []tiles.Tile

	gaps         int
	extendBefore int
	extendAfter  int

	// start and end describe the realized numeric span after extension.
	start uint8
	end   uint8
}

// analyzeRun checks run legality and, when legal, reports the shape.
func analyzeRun(ts []tiles.Tile) (runShape, bool) {
	var shape runShape
	if len(ts) < MinSetSize {
		return shape, false
	}

	for _, t := range ts {
		if t.Joker {
			shape.jokers = append(shape.jokers, t)
		} else {
			shape.suited = append(shape.suited, t)
		}
	}
	if len(shape.suited) == 0 {
		return shape, false
	}

	suit := shape.suited[0].Color
	seen := make(map[uint8]bool, len(shape.suited))
	for _, t := range shape.suited {
		if t.Color != suit {
			return shape, false
		}
		// A literal duplicate can never sit in a run, jokers or not.
		if seen[t.Number] {
			return shape, false
		}
		seen[t.Number] = true
	}

	sort.Slice(shape.suited, func(i, j int) bool {
		return shape.suited[i].Number < shape.suited[j].Number
	})

	for i := 1; i < len(shape.suited); i++ {
		shape.gaps += int(shape.suited[i].Number-shape.suited[i-1].Number) - 1
	}
	if shape.gaps > len(shape.jokers) {
		return shape, false
	}

	lo := shape.suited[0].Number
	hi := shape.suited[len(shape.suited)-1].Number

	// Leftover jokers must extend the sequence at one end or the other,
	// preferring the low end, and never past 1 or 13.
	jokersToExtend := len(shape.jokers) - shape.gaps
	shape.extendBefore = jokersToExtend
	if room := int(lo) - 1; shape.extendBefore > room {
		shape.extendBefore = room
	}
	shape.extendAfter = jokersToExtend - shape.extendBefore
	if int(hi)+shape.extendAfter > tiles.MaxNumber {
		return shape, false
	}

	shape.start = lo - uint8(shape.extendBefore)
	shape.end = hi + uint8(shape.extendAfter)
	if int(shape.end-shape.start)+1 != len(ts) {
		return shape, false
	}
	return shape, true
}

// IsValidRun reports whether the tiles form a legal run: at least three
// tiles of a single suit with strictly consecutive numbers, jokers filling
// any interior gaps and extending the ends within 1..13.
func IsValidRun(ts []tiles.Tile) bool {
	_, ok := analyzeRun(ts)
	return ok
}
