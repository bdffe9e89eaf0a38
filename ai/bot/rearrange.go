package bot

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/jvilar/mompox/game"
	"github.com/jvilar/mompox/sets"
	"github.com/jvilar/mompox/tiles"
)

// rearrange looks for a repartition of the board plus some rack tiles into
// all-valid sets. Rack subsets are tried largest first, so the first hit is
// the one that unloads the most tiles; the whole search shares one attempt
// budget and gives up cleanly when it runs out.
func (b *Bot) rearrange(g *game.GameState) (*game.GameState, bool) {
	if len(g.Board) == 0 {
		return g, false
	}
	var board []tiles.Tile
	for _, set := range g.Board {
		board = append(board, set.Tiles...)
	}
	rack := g.CurrentPlayer().Rack

	budget := b.rearrangeBudget
	for size := len(rack); size >= 1 && budget > 0; size-- {
		var result *game.GameState
		combinations(len(rack), size, &budget, func(idx []int) bool {
			ids := make([]string, len(idx))
			pool := make([]tiles.Tile, 0, len(board)+len(idx))
			pool = append(pool, board...)
			for i, k := range idx {
				ids[i] = rack[k].ID
				pool = append(pool, rack[k])
			}
			partition, ok := partitionAll(pool)
			if !ok {
				return false
			}
			next, err := g.ApplyRearrangement(ids, partition)
			if err != nil {
				return false
			}
			result = next
			return true
		})
		if result != nil {
			log.Debug().Int("placed", size).Int("budgetleft", budget).
				Msg("rearrangement found")
			return result, true
		}
	}
	return g, false
}

// combinations visits the k-subsets of [0,n) in lexicographic order,
// decrementing *budget per visit. Stops when visit returns true or the
// budget is spent.
func combinations(n, k int, budget *int, visit func([]int) bool) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if *budget <= 0 {
			return
		}
		*budget--
		if visit(idx) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// partitionAll partitions pool into valid sets consuming every tile, or
// reports failure. Two greedy passes are tried; which family claims shared
// tiles first changes what the greedy can cover, and between them the two
// orders resolve most feasible pools.
func partitionAll(pool []tiles.Tile) ([][]tiles.Tile, bool) {
	for _, runsFirst := range []bool{true, false} {
		if seqs, ok := partitionPass(pool, runsFirst); ok {
			return seqs, true
		}
	}
	return nil, false
}

func partitionPass(pool []tiles.Tile, runsFirst bool) ([][]tiles.Tile, bool) {
	var suited, jokers []tiles.Tile
	for _, t := range pool {
		if t.Joker {
			jokers = append(jokers, t)
		} else {
			suited = append(suited, t)
		}
	}

	var seqs, part [][]tiles.Tile
	if runsFirst {
		part, suited, jokers = takeRuns(suited, jokers)
		seqs = append(seqs, part...)
		part, suited, jokers = takeGroups(suited, jokers)
		seqs = append(seqs, part...)
	} else {
		part, suited, jokers = takeGroups(suited, jokers)
		seqs = append(seqs, part...)
		part, suited, jokers = takeRuns(suited, jokers)
		seqs = append(seqs, part...)
	}
	if len(suited) > 0 || len(seqs) == 0 {
		return nil, false
	}

	// Every leftover joker must land on a set that stays valid when
	// extended; a joker with no home sinks the whole partition.
	for _, j := range jokers {
		placed := false
		for i, seq := range seqs {
			extended := make([]tiles.Tile, 0, len(seq)+1)
			extended = append(append(extended, seq...), j)
			if sets.IsValidSet(extended) {
				seqs[i] = extended
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}
	return seqs, true
}

// takeRuns greedily carves maximal runs out of the suited tiles, spending
// jokers on single-number gaps and on padding two-tile stubs up to length
// three. Unclaimed tiles and jokers come back for the group pass.
func takeRuns(ts, jokers []tiles.Tile) ([][]tiles.Tile, []tiles.Tile, []tiles.Tile) {
	bySuit := make(map[tiles.Color][]tiles.Tile, tiles.NumColors)
	for _, t := range ts {
		bySuit[t.Color] = append(bySuit[t.Color], t)
	}

	var seqs [][]tiles.Tile
	var leftover []tiles.Tile
	for _, c := range tiles.Colors {
		st := bySuit[c]
		sort.SliceStable(st, func(i, j int) bool { return st[i].Number < st[j].Number })
		for len(st) > 0 {
			run := []tiles.Tile{st[0]}
			used := map[int]bool{0: true}
			suitedCount := 1
			jokersUsed := 0
			last := st[0].Number
			for i := 1; i < len(st); i++ {
				t := st[i]
				switch {
				case t.Number == last:
					// second copy, leave it for another set
				case t.Number == last+1:
					run = append(run, t)
					used[i] = true
					suitedCount++
					last = t.Number
				case t.Number == last+2 && jokersUsed < len(jokers):
					run = append(run, jokers[jokersUsed])
					jokersUsed++
					run = append(run, t)
					used[i] = true
					suitedCount++
					last = t.Number
				default:
					i = len(st) // unbridgeable gap, run ends here
				}
			}
			for len(run) < sets.MinSetSize && suitedCount >= 2 && jokersUsed < len(jokers) {
				run = append(run, jokers[jokersUsed])
				jokersUsed++
			}
			if len(run) >= sets.MinSetSize && sets.IsValidRun(run) {
				seqs = append(seqs, run)
				jokers = jokers[jokersUsed:]
				kept := st[:0]
				for i, t := range st {
					if !used[i] {
						kept = append(kept, t)
					}
				}
				st = kept
			} else {
				// The lowest tile anchors nothing; shelve it and retry.
				leftover = append(leftover, st[0])
				st = st[1:]
			}
		}
	}
	return seqs, leftover, jokers
}

// takeGroups buckets tiles by number and pulls distinct-suit groups,
// padding two-tile stubs with a joker. Duplicate copies stay in the bucket
// and can seed a second group of the same number.
func takeGroups(ts, jokers []tiles.Tile) ([][]tiles.Tile, []tiles.Tile, []tiles.Tile) {
	byNumber := make(map[uint8][]tiles.Tile)
	for _, t := range ts {
		byNumber[t.Number] = append(byNumber[t.Number], t)
	}

	var seqs [][]tiles.Tile
	var leftover []tiles.Tile
	for n := uint8(1); n <= tiles.MaxNumber; n++ {
		bucket := byNumber[n]
		for len(bucket) > 0 {
			seen := make(map[tiles.Color]bool, tiles.NumColors)
			var grp, rest []tiles.Tile
			for _, t := range bucket {
				if !seen[t.Color] && len(grp) < sets.MaxGroupSize {
					seen[t.Color] = true
					grp = append(grp, t)
				} else {
					rest = append(rest, t)
				}
			}
			suitedCount := len(grp)
			jokersUsed := 0
			for len(grp) < sets.MinSetSize && suitedCount >= 2 && jokersUsed < len(jokers) {
				grp = append(grp, jokers[jokersUsed])
				jokersUsed++
			}
			if len(grp) >= sets.MinSetSize && sets.IsValidGroup(grp) {
				seqs = append(seqs, grp)
				jokers = jokers[jokersUsed:]
			} else {
				leftover = append(leftover, grp[:suitedCount]...)
			}
			bucket = rest
		}
	}
	return seqs, leftover, jokers
}
