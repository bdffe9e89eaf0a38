package tiles

import (
	"encoding/binary"
	"fmt"

	"github.com/lithammer/shortuuid/v4"
	"lukechampine.com/frand"
)

// Source is the randomness a shuffle draws from. It is injectable so that
// game setups can be replayed exactly in tests.
type Source interface {
	Intn(n int) int
}

// NewSource returns an entropy-seeded source.
func NewSource() Source {
	return frand.New()
}

// NewSeededSource returns a source producing a reproducible stream for the
// given seed.
func NewSeededSource(seed uint64) Source {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return frand.NewCustom(key[:], 1024, 12)
}

// IDSource hands out tile and set identifiers.
type IDSource interface {
	NextID() string
}

type shortIDs struct{}

func (shortIDs) NextID() string { return shortuuid.New() }

// NewIDSource returns the production id source.
func NewIDSource() IDSource {
	return shortIDs{}
}

// SeqIDSource is a deterministic counter-based id source for tests.
type SeqIDSource struct {
	prefix string
	n      int
}

func NewSeqIDSource(prefix string) *SeqIDSource {
	return &SeqIDSource{prefix: prefix}
}

func (s *SeqIDSource) NextID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// FullSupply builds the complete 106-tile multiset: two copies of every
// suited tile plus two jokers, each with a fresh id. Tiles are never created
// again after this.
func FullSupply(ids IDSource) []Tile {
	supply := make([]Tile, 0, SupplySize)
	for rep := 0; rep < Replicates; rep++ {
		for _, c := range Colors {
			for n := uint8(1); n <= MaxNumber; n++ {
				supply = append(supply, Tile{ID: ids.NextID(), Color: c, Number: n})
			}
		}
	}
	for j := 0; j < NumJokers; j++ {
		supply = append(supply, Tile{ID: ids.NextID(), Joker: true})
	}
	return supply
}

// Shuffle returns a uniformly random permutation of the tiles
// (Fisher–Yates). The input is not modified.
func Shuffle(src Source, ts []Tile) []Tile {
	out := make([]Tile, len(ts))
	copy(out, ts)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal splits the first n tiles off the front of the pool, preserving order.
// It deals fewer if the pool runs short.
func Deal(pool []Tile, n int) (dealt, remaining []Tile) {
	if n > len(pool) {
		n = len(pool)
	}
	dealt = make([]Tile, n)
	copy(dealt, pool[:n])
	remaining = make([]Tile, len(pool)-n)
	copy(remaining, pool[n:])
	return dealt, remaining
}
