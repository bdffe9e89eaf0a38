package bot

import (
	"testing"

	"github.com/matryer/is"

	"github.com/jvilar/mompox/config"
	"github.com/jvilar/mompox/game"
	"github.com/jvilar/mompox/tiles"
)

// fixedGame builds a playing state with hand-picked racks, board, and pool.
// Seat 0 is the computer and acts first.
func fixedGame(racks [game.NumPlayers][]tiles.Tile, board []game.TileSet, pool []tiles.Tile) *game.GameState {
	ids := tiles.NewSeqIDSource("set")
	g := &game.GameState{
		Players: make([]*game.Player, game.NumPlayers),
		Board:   board,
		Pool:    pool,
		Winner:  game.NoWinner,
		IDs:     ids,
	}
	names := []string{"ana", "berta", "carmen", "dora"}
	for i := range g.Players {
		g.Players[i] = &game.Player{
			ID:         ids.NextID(),
			Name:       names[i],
			Rack:       tiles.Sorted(racks[i]),
			IsComputer: i == 0,
		}
	}
	return g.StartTurn()
}

func junk() []tiles.Tile {
	return []tiles.Tile{
		st(tiles.Blue, 1), st(tiles.Black, 3), st(tiles.Yellow, 9), st(tiles.Blue, 11),
	}
}

func TestOpeningMeldsAtThreshold(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	racks[0] = append([]tiles.Tile{
		st(tiles.Red, 10), st(tiles.Red, 11), st(tiles.Red, 12),
	}, junk()...)
	for i := 1; i < game.NumPlayers; i++ {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, []tiles.Tile{st(tiles.Yellow, 2), st(tiles.Yellow, 4)})

	n := New(config.Default()).PlayTurn(g)
	is.Equal(len(n.Board), 1)
	is.Equal(len(n.Board[0].Tiles), 3)
	is.True(n.Players[0].HasMelded) // 33 points clears the threshold
	is.Equal(len(n.Players[0].Rack), 4)
	is.Equal(n.Current, 1)
	is.Equal(n.PassCount, 0)
}

func TestOpeningShortOfThresholdPlacesAndDraws(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	racks[0] = append([]tiles.Tile{
		st(tiles.Red, 5), st(tiles.Red, 6), st(tiles.Red, 7),
	}, junk()...)
	for i := 1; i < game.NumPlayers; i++ {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, []tiles.Tile{st(tiles.Yellow, 2), st(tiles.Yellow, 4)})

	n := New(config.Default()).PlayTurn(g)
	// 18 points is short of 30, yet the run stays on the board; the player
	// draws and the turn passes on without the meld flag.
	is.Equal(len(n.Board), 1)
	is.True(!n.Players[0].HasMelded)
	is.Equal(len(n.Players[0].Rack), 5) // 7 - 3 played + 1 drawn
	is.Equal(len(n.Pool), 1)
	is.Equal(n.Current, 1)
	is.Equal(n.PassCount, 0)
}

func TestOpeningNothingToPlayEmptyPoolPasses(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	for i := range racks {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, nil)

	n := New(config.Default()).PlayTurn(g)
	is.Equal(len(n.Board), 0)
	is.Equal(len(n.Players[0].Rack), 4)
	is.Equal(n.Current, 1)
	is.Equal(n.PassCount, 1)
}

func TestOpeningWinsOnEmptyRack(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	racks[0] = []tiles.Tile{
		st(tiles.Red, 10), st(tiles.Red, 11), st(tiles.Red, 12),
	}
	for i := 1; i < game.NumPlayers; i++ {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, []tiles.Tile{st(tiles.Yellow, 2)})

	n := New(config.Default()).PlayTurn(g)
	is.Equal(n.Phase, game.Ended)
	is.Equal(n.Winner, 0)
}

func TestMeldedChainsMultiplePlays(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	racks[0] = append([]tiles.Tile{
		st(tiles.Red, 1), st(tiles.Red, 2), st(tiles.Red, 3),
		st(tiles.Blue, 4), st(tiles.Yellow, 4), st(tiles.Black, 4),
	}, junk()...)
	for i := 1; i < game.NumPlayers; i++ {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, []tiles.Tile{st(tiles.Yellow, 2)})
	g.Players[0].HasMelded = true

	n := New(config.Default()).PlayTurn(g)
	is.Equal(len(n.Board), 2)
	is.Equal(len(n.Players[0].Rack), 4)
	is.Equal(n.Current, 1)
	is.Equal(n.PassCount, 0)
}

func TestMeldedRearrangesBoardToPlaceTile(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	racks[0] = append([]tiles.Tile{st(tiles.Red, 8)}, junk()...)
	for i := 1; i < game.NumPlayers; i++ {
		racks[i] = junk()
	}
	board := []game.TileSet{{
		ID:    "b-1",
		Tiles: []tiles.Tile{st(tiles.Red, 5), st(tiles.Red, 6), st(tiles.Red, 7)},
	}}
	g := fixedGame(racks, board, []tiles.Tile{st(tiles.Yellow, 2)})
	g.Players[0].HasMelded = true

	n := New(config.Default()).PlayTurn(g)
	is.Equal(len(n.Board), 1)
	is.Equal(len(n.Board[0].Tiles), 4) // the 8 joined the 5-6-7 run
	is.Equal(len(n.Players[0].Rack), 4)
	is.Equal(len(n.Pool), 1) // no draw happened
	is.Equal(n.Current, 1)
	is.Equal(n.PassCount, 0)
}

func TestMeldedNoMovesDrawsInstead(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	for i := range racks {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, []tiles.Tile{st(tiles.Yellow, 2), st(tiles.Yellow, 4)})
	g.Players[0].HasMelded = true

	n := New(config.Default()).PlayTurn(g)
	is.Equal(len(n.Players[0].Rack), 5)
	is.Equal(len(n.Pool), 1)
	is.Equal(n.Current, 1)
	is.Equal(n.PassCount, 0) // drawing is not a pass
}

func TestPlayTurnOnEndedGameIsNoop(t *testing.T) {
	is := is.New(t)
	var racks [game.NumPlayers][]tiles.Tile
	for i := range racks {
		racks[i] = junk()
	}
	g := fixedGame(racks, nil, nil)
	g.Phase = game.Ended

	n := New(config.Default()).PlayTurn(g)
	is.True(n == g)
}

func TestTurnConservation(t *testing.T) {
	is := is.New(t)
	src := tiles.NewSeededSource(7)
	seats := []game.Seat{
		{Name: "ana", IsComputer: true}, {Name: "berta", IsComputer: true},
		{Name: "carmen", IsComputer: true}, {Name: "dora", IsComputer: true},
	}
	g, err := game.NewGame(src, tiles.NewSeqIDSource("t"), seats)
	is.NoErr(err)

	b := New(config.Default())
	for i := 0; i < 8 && g.Phase == game.Playing; i++ {
		g = b.PlayTurn(g)
		census := g.TileCensus()
		is.Equal(len(census), 53)
		for _, count := range census {
			is.Equal(count, 2)
		}
	}
}
