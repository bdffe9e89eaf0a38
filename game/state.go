// Package game owns the turn engine: the aggregate game state and every
// transition a presentation layer or computer player may apply to it. State
// is replaced wholesale on each accepted transition; a rejected transition
// returns an error and the prior state untouched.
package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jvilar/mompox/sets"
	"github.com/jvilar/mompox/tiles"
)

const (
	// NumPlayers is fixed at four.
	NumPlayers = 4
	// InitialRackSize is how many tiles each player is dealt.
	InitialRackSize = 14
	// MeldThreshold is the point total a player's first scoring turn must
	// reach.
	MeldThreshold = 30
	// NoWinner is the Winner value while the game is running.
	NoWinner = -1
)

// TurnState is the phase of the acting player's turn.
type TurnState uint8

const (
	// Selecting - the player is picking tiles to stage.
	Selecting TurnState = iota
	// Staging - at least one candidate set is staged and uncommitted.
	Staging
	// AIThinking - the acting player is computer-controlled; the caller must
	// not apply human-originated transitions until the computer turn runs.
	AIThinking
)

func (t TurnState) String() string {
	switch t {
	case Selecting:
		return "selecting"
	case Staging:
		return "staging"
	case AIThinking:
		return "ai-thinking"
	}
	return "unknown"
}

// Phase is the overall game phase.
type Phase uint8

const (
	Playing Phase = iota
	Ended
)

// TileSet is an ordered tile sequence committed to the board.
type TileSet struct {
	ID    string
	Tiles []tiles.Tile
}

// StagedSet is a candidate set pending commit. FromRack records provenance
// per tile id (true when the tile came from the acting player's rack) so the
// staging operation can be reversed.
type StagedSet struct {
	ID       string
	Tiles    []tiles.Tile
	Kind     sets.Kind
	Valid    bool
	Value    int
	FromRack map[string]bool
}

// Player is one seat at the table.
type Player struct {
	ID         string
	Name       string
	Rack       []tiles.Tile
	HasMelded  bool
	IsComputer bool
}

// GameState is the aggregate. Transitions never mutate a GameState in place;
// they deep-copy, apply, and return the copy.
type GameState struct {
	Players []*Player
	Current int
	Board   []TileSet
	Pool    []tiles.Tile

	// SelectedRack and SelectedBoard hold tile ids in toggle order.
	SelectedRack  []string
	SelectedBoard []string
	Staged        []StagedSet

	Turn       TurnState
	TurnPoints int
	PassCount  int
	Phase      Phase
	Winner     int

	// BoardSnapshot and RackSnapshot are taken at turn start and restored by
	// CancelTurn.
	BoardSnapshot []TileSet
	RackSnapshot  []tiles.Tile

	// IDs mints ids for staged and committed sets. It is injected
	// infrastructure, shared across state generations.
	IDs tiles.IDSource
}

// Seat describes a player joining a new game.
type Seat struct {
	Name       string
	IsComputer bool
}

// NewGame shuffles a fresh supply, deals 14 tiles to each of the four seats,
// and starts the first turn.
func NewGame(src tiles.Source, ids tiles.IDSource, seats []Seat) (*GameState, error) {
	if len(seats) != NumPlayers {
		return nil, fmt.Errorf("a game needs exactly %d players, got %d", NumPlayers, len(seats))
	}

	pool := tiles.Shuffle(src, tiles.FullSupply(ids))
	g := &GameState{
		Players: make([]*Player, NumPlayers),
		Winner:  NoWinner,
		IDs:     ids,
	}
	for i, seat := range seats {
		var rack []tiles.Tile
		rack, pool = tiles.Deal(pool, InitialRackSize)
		tiles.Sort(rack)
		g.Players[i] = &Player{
			ID:         ids.NextID(),
			Name:       seat.Name,
			Rack:       rack,
			IsComputer: seat.IsComputer,
		}
	}
	g.Pool = pool
	g.beginTurn()
	log.Debug().Int("pool", len(g.Pool)).Str("first", g.Players[0].Name).
		Msg("new game")
	return g, nil
}

// CurrentPlayer returns the acting player.
func (g *GameState) CurrentPlayer() *Player {
	return g.Players[g.Current]
}

// beginTurn mutates the receiver: snapshot the board and the acting rack,
// clear per-turn state, and set the turn phase from the actor's control
// flag. Callers operate on a fresh clone.
func (g *GameState) beginTurn() {
	g.BoardSnapshot = copyBoard(g.Board)
	g.RackSnapshot = copyTiles(g.CurrentPlayer().Rack)
	g.SelectedRack = nil
	g.SelectedBoard = nil
	g.Staged = nil
	g.TurnPoints = 0
	if g.CurrentPlayer().IsComputer {
		g.Turn = AIThinking
	} else {
		g.Turn = Selecting
	}
}

// clone deep-copies everything a transition may touch. The id source is
// shared, not copied.
func (g *GameState) clone() *GameState {
	n := &GameState{
		Players:       make([]*Player, len(g.Players)),
		Current:       g.Current,
		Board:         copyBoard(g.Board),
		Pool:          copyTiles(g.Pool),
		SelectedRack:  copyStrings(g.SelectedRack),
		SelectedBoard: copyStrings(g.SelectedBoard),
		Staged:        copyStaged(g.Staged),
		Turn:          g.Turn,
		TurnPoints:    g.TurnPoints,
		PassCount:     g.PassCount,
		Phase:         g.Phase,
		Winner:        g.Winner,
		BoardSnapshot: copyBoard(g.BoardSnapshot),
		RackSnapshot:  copyTiles(g.RackSnapshot),
		IDs:           g.IDs,
	}
	for i, p := range g.Players {
		cp := *p
		cp.Rack = copyTiles(p.Rack)
		n.Players[i] = &cp
	}
	return n
}

func copyTiles(ts []tiles.Tile) []tiles.Tile {
	if ts == nil {
		return nil
	}
	out := make([]tiles.Tile, len(ts))
	copy(out, ts)
	return out
}

func copyStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	copy(out, ss)
	return out
}

func copyBoard(board []TileSet) []TileSet {
	if board == nil {
		return nil
	}
	out := make([]TileSet, len(board))
	for i, set := range board {
		out[i] = TileSet{ID: set.ID, Tiles: copyTiles(set.Tiles)}
	}
	return out
}

func copyStaged(staged []StagedSet) []StagedSet {
	if staged == nil {
		return nil
	}
	out := make([]StagedSet, len(staged))
	for i, s := range staged {
		cp := s
		cp.Tiles = copyTiles(s.Tiles)
		cp.FromRack = make(map[string]bool, len(s.FromRack))
		for k, v := range s.FromRack {
			cp.FromRack[k] = v
		}
		out[i] = cp
	}
	return out
}

// boardSeqs flattens the board for the validator.
func boardSeqs(board []TileSet) [][]tiles.Tile {
	seqs := make([][]tiles.Tile, len(board))
	for i, set := range board {
		seqs[i] = set.Tiles
	}
	return seqs
}

// TileCensus tallies tile kinds over every container: pool, all racks, the
// board, and staged sets. In any reachable state every kind totals exactly
// two.
func (g *GameState) TileCensus() map[tiles.Kind]int {
	groups := [][]tiles.Tile{g.Pool}
	for _, p := range g.Players {
		groups = append(groups, p.Rack)
	}
	for _, set := range g.Board {
		groups = append(groups, set.Tiles)
	}
	for _, s := range g.Staged {
		groups = append(groups, s.Tiles)
	}
	return tiles.CountKinds(groups...)
}
