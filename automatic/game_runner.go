// Package automatic plays computer-vs-computer games to completion, one-off
// or in bulk. It exists for soak-testing the engine and for comparing
// planner settings.
package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jvilar/mompox/ai/bot"
	"github.com/jvilar/mompox/config"
	"github.com/jvilar/mompox/game"
	"github.com/jvilar/mompox/tiles"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// maxTurns bounds a single game. A four-seat game drains the pool in at
// most 50 draws and the stalemate rule fires after four scoreless turns, so
// anything near this bound means the engine broke an invariant.
const maxTurns = 1000

// GameRunner drives one computer-vs-computer game at a time. It is not safe
// for concurrent use; the bulk driver gives each worker its own runner.
type GameRunner struct {
	cfg     *config.Config
	bot     *bot.Bot
	state   *game.GameState
	logchan chan string
}

// Result summarizes a finished game.
type Result struct {
	Winner     int
	WinnerName string
	Turns      int
	Stalemate  bool
}

func NewGameRunner(logchan chan string, cfg *config.Config) *GameRunner {
	return &GameRunner{cfg: cfg, bot: bot.New(cfg), logchan: logchan}
}

// Init deals a fresh game with four computer seats. A zero seed shuffles
// from entropy.
func (r *GameRunner) Init(seed uint64) error {
	src := tiles.NewSource()
	if seed != 0 {
		src = tiles.NewSeededSource(seed)
	}
	seats := []game.Seat{
		{Name: "alice", IsComputer: true},
		{Name: "bruno", IsComputer: true},
		{Name: "clara", IsComputer: true},
		{Name: "diego", IsComputer: true},
	}
	g, err := game.NewGame(src, tiles.NewIDSource(), seats)
	if err != nil {
		return err
	}
	r.state = g
	return nil
}

// PlayGame runs the current game to completion and returns its result.
func (r *GameRunner) PlayGame() (Result, error) {
	if r.state == nil {
		return Result{}, errors.New("runner not initialized")
	}
	turns := 0
	for r.state.Phase == game.Playing {
		if turns >= maxTurns {
			return Result{}, fmt.Errorf("game did not finish within %d turns", maxTurns)
		}
		next := r.bot.PlayTurn(r.state)
		if next == r.state {
			return Result{}, errors.New("computer turn made no progress")
		}
		r.state = next
		turns++
	}

	winner := r.state.Players[r.state.Winner]
	res := Result{
		Winner:     r.state.Winner,
		WinnerName: winner.Name,
		Turns:      turns,
		Stalemate:  len(winner.Rack) > 0,
	}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v\n", res.WinnerName, res.Turns, res.Stalemate)
	}
	log.Debug().Str("winner", res.WinnerName).Int("turns", res.Turns).
		Bool("stalemate", res.Stalemate).Msg("game over")
	return res, nil
}

// StartCompVCompGames plays numGames across the given worker count, writing
// one result line per game to outputFilename.
func StartCompVCompGames(ctx context.Context, cfg *config.Config,
	numGames int, threads int, outputFilename string) error {

	if IsPlaying.Value() > 0 {
		return errors.New("games are already being played, please wait till complete")
	}
	logfile, err := os.Create(outputFilename)
	if err != nil {
		return err
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	CVCCounter.Set(0)
	jobs := make(chan uint64, 100)
	logChan := make(chan string, 100)
	var wg sync.WaitGroup
	wg.Add(threads)

	for i := 1; i <= threads; i++ {
		go func() {
			defer wg.Done()
			r := NewGameRunner(logChan, cfg)
			IsPlaying.Add(1)
			for seed := range jobs {
				if err := r.Init(seed); err != nil {
					log.Err(err).Msg("init game")
					continue
				}
				if _, err := r.PlayGame(); err != nil {
					log.Err(err).Msg("play game")
					continue
				}
				CVCCounter.Add(1)
			}
			IsPlaying.Add(-1)
		}()
	}

	var writerWg sync.WaitGroup
	writerWg.Add(1)
	go func() {
		defer writerWg.Done()
		for line := range logChan {
			logfile.WriteString(line)
		}
	}()

	queue := func() {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			seed := cfg.Seed
			if seed != 0 {
				seed += uint64(i)
			}
			select {
			case jobs <- seed:
			case <-ctx.Done():
				return
			}
		}
	}
	queue()

	wg.Wait()
	close(logChan)
	writerWg.Wait()
	logfile.Close()
	log.Info().Msgf("Played %v games", CVCCounter.Value())
	return ctx.Err()
}
