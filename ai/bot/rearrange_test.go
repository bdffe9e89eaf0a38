package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jvilar/mompox/sets"
	"github.com/jvilar/mompox/tiles"
)

func TestPartitionAllRunsAndGroups(t *testing.T) {
	pool := []tiles.Tile{
		st(tiles.Red, 1), st(tiles.Red, 2), st(tiles.Red, 3),
		st(tiles.Blue, 5), st(tiles.Yellow, 5), st(tiles.Black, 5),
	}
	seqs, ok := partitionAll(pool)
	assert.True(t, ok)
	assert.Len(t, seqs, 2)
	total := 0
	for _, seq := range seqs {
		assert.True(t, sets.IsValidSet(seq))
		total += len(seq)
	}
	assert.Equal(t, len(pool), total)
}

func TestPartitionAllDuplicateCopies(t *testing.T) {
	pool := []tiles.Tile{
		st(tiles.Red, 5), st(tiles.Red, 5),
		st(tiles.Red, 6), st(tiles.Red, 6),
		st(tiles.Red, 7), st(tiles.Red, 7),
	}
	seqs, ok := partitionAll(pool)
	assert.True(t, ok)
	assert.Len(t, seqs, 2)
	for _, seq := range seqs {
		assert.True(t, sets.IsValidRun(seq))
	}
}

func TestPartitionAllLeftoverJokerAttaches(t *testing.T) {
	pool := []tiles.Tile{
		st(tiles.Red, 1), st(tiles.Red, 2), st(tiles.Red, 3), jk(),
	}
	seqs, ok := partitionAll(pool)
	assert.True(t, ok)
	assert.Len(t, seqs, 1)
	assert.Len(t, seqs[0], 4)
	assert.True(t, sets.IsValidRun(seqs[0]))
}

func TestPartitionAllInfeasible(t *testing.T) {
	pool := []tiles.Tile{st(tiles.Red, 1), st(tiles.Red, 2), st(tiles.Blue, 5)}
	_, ok := partitionAll(pool)
	assert.False(t, ok)
}

func TestCombinationsOrderAndBudget(t *testing.T) {
	var visited [][]int
	budget := 100
	combinations(4, 2, &budget, func(idx []int) bool {
		cp := make([]int, len(idx))
		copy(cp, idx)
		visited = append(visited, cp)
		return false
	})
	assert.Equal(t, [][]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}, visited)
	assert.Equal(t, 94, budget)

	count := 0
	budget = 3
	combinations(5, 2, &budget, func([]int) bool {
		count++
		return false
	})
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, budget)
}
