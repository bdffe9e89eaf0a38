package bot

import (
	"sort"

	"github.com/jvilar/mompox/sets"
	"github.com/jvilar/mompox/tiles"
)

// Play is one candidate placement from the rack: a legal run or group with
// its point value.
type Play struct {
	Tiles []tiles.Tile
	Kind  sets.Kind
	Value int
}

// FindPossiblePlays enumerates every legal run and group playable from the
// rack alone and returns them sorted by descending value. The sort is
// stable, so ties fall back to enumeration order; no map iteration feeds the
// ordering, keeping results deterministic for a given rack.
func FindPossiblePlays(rack []tiles.Tile) []*Play {
	suited, jokers := splitRack(rack)

	var plays []*Play
	record := func(candidate []tiles.Tile) {
		kind := sets.Classify(candidate)
		if kind == sets.KindInvalid {
			return
		}
		ts := make([]tiles.Tile, len(candidate))
		copy(ts, candidate)
		plays = append(plays, &Play{Tiles: ts, Kind: kind, Value: sets.Value(candidate)})
	}

	// Runs: per suit, every contiguous window over the deduplicated sorted
	// tiles, with every joker count that could fill gaps or extend.
	for _, c := range tiles.Colors {
		suitTiles := suited[c]
		for i := 0; i < len(suitTiles); i++ {
			for j := i; j < len(suitTiles); j++ {
				window := suitTiles[i : j+1]
				for nj := 0; nj <= len(jokers); nj++ {
					if len(window)+nj < sets.MinSetSize {
						continue
					}
					candidate := append(append([]tiles.Tile{}, window...), jokers[:nj]...)
					if sets.IsValidRun(candidate) {
						record(candidate)
					}
				}
			}
		}
	}

	// Groups: per number, every 3- and 4-subset of distinct-suit tiles,
	// plus joker-substituted variants filling missing suits.
	for n := uint8(1); n <= tiles.MaxNumber; n++ {
		var distinct []tiles.Tile
		for _, c := range tiles.Colors {
			for _, t := range suited[c] {
				if t.Number == n {
					distinct = append(distinct, t)
					break
				}
			}
		}
		subsets(distinct, func(chosen []tiles.Tile) {
			for nj := 0; nj <= len(jokers); nj++ {
				total := len(chosen) + nj
				if total < sets.MinSetSize || total > sets.MaxGroupSize {
					continue
				}
				candidate := append(append([]tiles.Tile{}, chosen...), jokers[:nj]...)
				if sets.IsValidGroup(candidate) {
					record(candidate)
				}
			}
		})
	}

	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].Value > plays[j].Value
	})
	return plays
}

// splitRack buckets the rack per suit, sorted by number with duplicate
// numbers dropped (a run can never hold both copies), and collects the
// jokers.
func splitRack(rack []tiles.Tile) (map[tiles.Color][]tiles.Tile, []tiles.Tile) {
	suited := make(map[tiles.Color][]tiles.Tile, tiles.NumColors)
	var jokers []tiles.Tile
	for _, t := range rack {
		if t.Joker {
			jokers = append(jokers, t)
			continue
		}
		suited[t.Color] = append(suited[t.Color], t)
	}
	for c, ts := range suited {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Number < ts[j].Number })
		deduped := ts[:0]
		for _, t := range ts {
			if len(deduped) > 0 && deduped[len(deduped)-1].Number == t.Number {
				continue
			}
			deduped = append(deduped, t)
		}
		suited[c] = deduped
	}
	return suited, jokers
}

// subsets visits every non-empty subset of ts in a fixed order (bitmask
// ascending, so smaller-index members first).
func subsets(ts []tiles.Tile, visit func([]tiles.Tile)) {
	for mask := 1; mask < 1<<len(ts); mask++ {
		var chosen []tiles.Tile
		for i := range ts {
			if mask&(1<<i) != 0 {
				chosen = append(chosen, ts[i])
			}
		}
		visit(chosen)
	}
}
