package automatic

import (
	"testing"

	"github.com/matryer/is"

	"github.com/jvilar/mompox/config"
	"github.com/jvilar/mompox/game"
)

func TestSeededGameFinishes(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, config.Default())
	is.NoErr(r.Init(42))

	res, err := r.PlayGame()
	is.NoErr(err)
	is.True(res.Turns > 0)
	is.True(res.Winner >= 0 && res.Winner < game.NumPlayers)
	is.Equal(res.WinnerName, r.state.Players[res.Winner].Name)
	is.Equal(r.state.Phase, game.Ended)
}

func TestSeededGameIsReproducible(t *testing.T) {
	is := is.New(t)
	cfg := config.Default()

	a := NewGameRunner(nil, cfg)
	is.NoErr(a.Init(7))
	ra, err := a.PlayGame()
	is.NoErr(err)

	b := NewGameRunner(nil, cfg)
	is.NoErr(b.Init(7))
	rb, err := b.PlayGame()
	is.NoErr(err)

	is.Equal(ra.Winner, rb.Winner)
	is.Equal(ra.Turns, rb.Turns)
	is.Equal(ra.Stalemate, rb.Stalemate)
}

func TestConservationHoldsAtGameEnd(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, config.Default())
	is.NoErr(r.Init(99))

	_, err := r.PlayGame()
	is.NoErr(err)

	census := r.state.TileCensus()
	is.Equal(len(census), 53)
	for _, count := range census {
		is.Equal(count, 2)
	}
}

func TestPlayGameWithoutInit(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, config.Default())
	_, err := r.PlayGame()
	is.True(err != nil)
}
