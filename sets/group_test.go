package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jvilar/mompox/tiles"
)

func TestIsValidGroup(t *testing.T) {
	testCases := []struct {
		name  string
		tiles []tiles.Tile
		valid bool
	}{
		{"three suits", []tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7), st(tiles.Black, 7)}, true},
		{"four suits", []tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7), st(tiles.Yellow, 7), st(tiles.Black, 7)}, true},
		{"too small", []tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7)}, false},
		{"too big", []tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7), st(tiles.Yellow, 7), st(tiles.Black, 7), jk()}, false},
		{"mixed numbers", []tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 8), st(tiles.Black, 7)}, false},
		{"duplicate suit", []tiles.Tile{st(tiles.Red, 7), st(tiles.Red, 7), st(tiles.Black, 7)}, false},
		{"duplicate suit with joker", []tiles.Tile{st(tiles.Red, 7), st(tiles.Red, 7), jk()}, false},
		{"joker fills a suit", []tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7), jk()}, true},
		{"two jokers one tile", []tiles.Tile{st(tiles.Red, 7), jk(), jk()}, true},
		{"all jokers", []tiles.Tile{jk(), jk(), jk()}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidGroup(tc.tiles))
		})
	}
}

func TestGroupValue(t *testing.T) {
	// Jokers take the group's number.
	assert.Equal(t, 21, Value([]tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7), st(tiles.Black, 7)}))
	assert.Equal(t, 28, Value([]tiles.Tile{st(tiles.Red, 7), st(tiles.Blue, 7), st(tiles.Black, 7), jk()}))
	assert.Equal(t, 52, Value([]tiles.Tile{st(tiles.Red, 13), st(tiles.Blue, 13), st(tiles.Yellow, 13), st(tiles.Black, 13)}))
}
