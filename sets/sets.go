// Package sets decides whether a sequence of tiles forms a legal run or
// group, scores it, and produces the canonical arrangement used for display
// and re-validation. It is the single correctness gate for everything that
// lands on the board.
package sets

import (
	"github.com/jvilar/mompox/tiles"
)

// Kind classifies a candidate set.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindRun
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindGroup:
		return "group"
	}
	return "invalid"
}

// MinSetSize is the smallest legal set, run or group.
const MinSetSize = 3

// IsValidSet reports whether the tiles form a legal run or group.
func IsValidSet(ts []tiles.Tile) bool {
	return IsValidRun(ts) || IsValidGroup(ts)
}

// Classify returns the kind of the candidate. Runs are tried first; the only
// sequences legal both ways are a single suited tile padded with jokers, and
// those are treated as runs.
func Classify(ts []tiles.Tile) Kind {
	if IsValidRun(ts) {
		return KindRun
	}
	if IsValidGroup(ts) {
		return KindGroup
	}
	return KindInvalid
}

// Value computes the point value of a valid set. Invalid sets are worth 0.
func Value(ts []tiles.Tile) int {
	if shape, ok := analyzeRun(ts); ok {
		total := 0
		for n := int(shape.start); n <= int(shape.end); n++ {
			total += n
		}
		return total
	}
	if number, ok := groupNumber(ts); ok {
		return int(number) * len(ts)
	}
	return 0
}

// Arrange returns the canonical ordering of a run: low-extension jokers,
// then suited tiles interleaved with gap-filling jokers in ascending
// position, then high-extension jokers. Groups and invalid sequences come
// back unchanged.
func Arrange(ts []tiles.Tile) []tiles.Tile {
	shape, ok := analyzeRun(ts)
	if !ok {
		out := make([]tiles.Tile, len(ts))
		copy(out, ts)
		return out
	}

	byNumber := make(map[uint8]tiles.Tile, len(shape.suited))
	for _, t := range shape.suited {
		byNumber[t.Number] = t
	}
	jokers := shape.jokers

	takeJoker := func() tiles.Tile {
		j := jokers[0]
		jokers = jokers[1:]
		return j
	}

	arranged := make([]tiles.Tile, 0, len(ts))
	for i := 0; i < shape.extendBefore; i++ {
		arranged = append(arranged, takeJoker())
	}
	lo := shape.suited[0].Number
	hi := shape.suited[len(shape.suited)-1].Number
	for n := lo; n <= hi; n++ {
		if t, present := byNumber[n]; present {
			arranged = append(arranged, t)
		} else {
			arranged = append(arranged, takeJoker())
		}
	}
	for i := 0; i < shape.extendAfter; i++ {
		arranged = append(arranged, takeJoker())
	}
	return arranged
}

// RealizedValues maps each tile id in a valid set to the number that tile
// plays as: suited tiles at face value, jokers at the number of the position
// they fill (gap, extension, or group number). Returns nil for invalid sets.
func RealizedValues(ts []tiles.Tile) map[string]int {
	if shape, ok := analyzeRun(ts); ok {
		arranged := Arrange(ts)
		values := make(map[string]int, len(arranged))
		for i, t := range arranged {
			values[t.ID] = int(shape.start) + i
		}
		return values
	}
	if number, ok := groupNumber(ts); ok {
		values := make(map[string]int, len(ts))
		for _, t := range ts {
			values[t.ID] = int(number)
		}
		return values
	}
	return nil
}

// BoardValid reports whether every sequence is individually a legal set.
// This is the board-wide gate checked before any turn may end.
func BoardValid(seqs [][]tiles.Tile) bool {
	for _, seq := range seqs {
		if !IsValidSet(seq) {
			return false
		}
	}
	return true
}
