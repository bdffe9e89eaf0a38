package tiles

import (
	"testing"

	"github.com/matryer/is"
)

func TestFullSupply(t *testing.T) {
	is := is.New(t)
	supply := FullSupply(NewSeqIDSource("t"))
	is.Equal(len(supply), SupplySize)

	counts := CountKinds(supply)
	is.Equal(len(counts), 53) // 52 suited kinds + the joker kind
	for _, n := range counts {
		is.Equal(n, 2) // every kind has exactly two copies
	}

	// Every tile gets a distinct id.
	seen := map[string]bool{}
	for _, tile := range supply {
		is.True(!seen[tile.ID])
		seen[tile.ID] = true
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	is := is.New(t)
	supply := FullSupply(NewSeqIDSource("t"))
	shuffled := Shuffle(NewSeededSource(42), supply)
	is.Equal(len(shuffled), len(supply))

	byID := map[string]Tile{}
	for _, tile := range supply {
		byID[tile.ID] = tile
	}
	for _, tile := range shuffled {
		is.Equal(byID[tile.ID], tile)
	}
}

func TestShuffleSeededIsReproducible(t *testing.T) {
	is := is.New(t)
	supply := FullSupply(NewSeqIDSource("t"))
	a := Shuffle(NewSeededSource(7), supply)
	b := Shuffle(NewSeededSource(7), supply)
	is.Equal(a, b)

	c := Shuffle(NewSeededSource(8), supply)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	is.True(!same)
}

func TestDeal(t *testing.T) {
	is := is.New(t)
	supply := FullSupply(NewSeqIDSource("t"))
	dealt, remaining := Deal(supply, 14)
	is.Equal(len(dealt), 14)
	is.Equal(len(remaining), SupplySize-14)
	is.Equal(dealt[0], supply[0])
	is.Equal(remaining[0], supply[14])

	// Short pool deals what it has.
	dealt, remaining = Deal(supply[:3], 14)
	is.Equal(len(dealt), 3)
	is.Equal(len(remaining), 0)
}
