package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/jvilar/mompox/sets"
	"github.com/jvilar/mompox/tiles"
)

// StartTurn re-snapshots the current actor and clears per-turn state. NewGame
// and EndTurn call this implicitly; it is exposed for callers that restart a
// turn boundary explicitly.
func (g *GameState) StartTurn() *GameState {
	if g.Phase == Ended {
		return g
	}
	n := g.clone()
	n.beginTurn()
	return n
}

// DrawTile pops the front tile of the pool onto the acting player's rack and
// re-sorts it. Staged sets are first returned whence they came, so no tile
// is ever lost; selections are cleared. No-op when the pool is empty.
func (g *GameState) DrawTile() *GameState {
	if g.Phase == Ended || len(g.Pool) == 0 {
		return g
	}
	n := g.clone()
	n.restoreAllStaged()
	p := n.CurrentPlayer()

	var drawn []tiles.Tile
	drawn, n.Pool = tiles.Deal(n.Pool, 1)
	p.Rack = append(p.Rack, drawn...)
	tiles.Sort(p.Rack)
	n.SelectedRack = nil
	n.SelectedBoard = nil
	if n.Turn == Staging {
		n.Turn = Selecting
	}
	log.Debug().Str("player", p.Name).Stringer("tile", drawn[0]).
		Int("pool", len(n.Pool)).Msg("drew tile")
	return n
}

// SelectTile toggles a rack tile in the current selection. Unknown or
// already-consumed ids are no-ops, so a stale caller reference cannot
// corrupt state.
func (g *GameState) SelectTile(tileID string) *GameState {
	if g.Phase == Ended {
		return g
	}
	if _, ok := findTile(g.CurrentPlayer().Rack, tileID); !ok {
		return g
	}
	n := g.clone()
	n.SelectedRack = toggle(n.SelectedRack, tileID)
	return n
}

// SelectBoardTile toggles a board tile in the current selection. Board tiles
// are off limits until the acting player has satisfied the initial meld.
func (g *GameState) SelectBoardTile(tileID string) *GameState {
	if g.Phase == Ended || !g.CurrentPlayer().HasMelded {
		return g
	}
	if _, ok := g.findBoardTile(tileID); !ok {
		return g
	}
	n := g.clone()
	n.SelectedBoard = toggle(n.SelectedBoard, tileID)
	return n
}

// StageCurrentSelection combines the selected rack and board tiles into one
// candidate set: classifies and scores it, arranges runs canonically,
// records provenance, pulls the tiles out of their containers, and appends
// the staged set. No-op when nothing is selected.
func (g *GameState) StageCurrentSelection() *GameState {
	if g.Phase == Ended {
		return g
	}
	if len(g.SelectedRack)+len(g.SelectedBoard) == 0 {
		return g
	}
	n := g.clone()
	p := n.CurrentPlayer()

	candidate := make([]tiles.Tile, 0, len(n.SelectedRack)+len(n.SelectedBoard))
	fromRack := make(map[string]bool)
	var rackIDs, boardIDs []string
	for _, id := range n.SelectedRack {
		t, ok := findTile(p.Rack, id)
		if !ok {
			continue
		}
		candidate = append(candidate, t)
		fromRack[id] = true
		rackIDs = append(rackIDs, id)
	}
	for _, id := range n.SelectedBoard {
		t, ok := n.findBoardTile(id)
		if !ok {
			continue
		}
		candidate = append(candidate, t)
		fromRack[id] = false
		boardIDs = append(boardIDs, id)
	}
	if len(candidate) == 0 {
		return g
	}

	kind := sets.Classify(candidate)
	if kind == sets.KindRun {
		candidate = sets.Arrange(candidate)
	}

	p.Rack = removeByIDs(p.Rack, rackIDs)
	n.removeFromBoard(boardIDs)
	n.Staged = append(n.Staged, StagedSet{
		ID:       n.IDs.NextID(),
		Tiles:    candidate,
		Kind:     kind,
		Valid:    kind != sets.KindInvalid,
		Value:    sets.Value(candidate),
		FromRack: fromRack,
	})
	n.SelectedRack = nil
	n.SelectedBoard = nil
	n.Turn = Staging
	log.Debug().Str("player", p.Name).Stringer("kind", kind).
		Int("size", len(candidate)).Msg("staged selection")
	return n
}

// UnstageSet reverses one staging operation: rack-origin tiles go back to
// the rack (re-sorted), board-origin tiles come back as a new, unvalidated
// board set the player must re-stage to legalize.
func (g *GameState) UnstageSet(setID string) *GameState {
	idx := -1
	for i, s := range g.Staged {
		if s.ID == setID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return g
	}
	n := g.clone()
	n.restoreStaged(idx)
	if len(n.Staged) == 0 && n.Turn == Staging {
		n.Turn = Selecting
	}
	return n
}

// UnstageAll reverses every staged set.
func (g *GameState) UnstageAll() *GameState {
	if len(g.Staged) == 0 {
		return g
	}
	n := g.clone()
	n.restoreAllStaged()
	if n.Turn == Staging {
		n.Turn = Selecting
	}
	return n
}

// CommitAllStagedSets moves every staged set onto the board, in staging
// order, and accrues their values to points-this-turn. Fails, leaving state
// untouched, when nothing is staged or any staged set is invalid.
func (g *GameState) CommitAllStagedSets() (*GameState, error) {
	if len(g.Staged) == 0 {
		return g, ErrNothingToCommit
	}
	for _, s := range g.Staged {
		if !s.Valid {
			return g, ruleError(FailureInvalidStagedSet,
				fmt.Sprintf("staged set %s is not a legal run or group", s.ID))
		}
	}
	n := g.clone()
	for _, s := range n.Staged {
		n.Board = append(n.Board, TileSet{ID: s.ID, Tiles: s.Tiles})
		n.TurnPoints += s.Value
	}
	log.Debug().Str("player", n.CurrentPlayer().Name).Int("sets", len(n.Staged)).
		Int("turnpoints", n.TurnPoints).Msg("committed staged sets")
	n.Staged = nil
	if n.Turn == Staging {
		n.Turn = Selecting
	}
	return n, nil
}

// EndTurn finishes the acting player's turn: auto-commits anything staged,
// re-validates the whole board, enforces the initial-meld threshold, then
// handles win, stalemate, and rotation.
func (g *GameState) EndTurn(drewTile bool) (*GameState, error) {
	return g.endTurn(drewTile, true)
}

// EndTurnUnchecked is EndTurn without the initial-meld threshold gate. The
// computer player's pre-meld loop places sets provisionally and keeps them
// on the board even when the total falls short of 30; this is the path that
// lets such a turn finish. The meld flag is still only granted at 30+.
func (g *GameState) EndTurnUnchecked(drewTile bool) (*GameState, error) {
	return g.endTurn(drewTile, false)
}

func (g *GameState) endTurn(drewTile, gateMeld bool) (*GameState, error) {
	if g.Phase == Ended {
		return g, nil
	}
	cur := g
	if len(cur.Staged) > 0 {
		committed, err := cur.CommitAllStagedSets()
		if err != nil {
			return g, err
		}
		cur = committed
	}
	if !sets.BoardValid(boardSeqs(cur.Board)) {
		return g, ErrBoardInvalid
	}
	if gateMeld && !cur.CurrentPlayer().HasMelded &&
		cur.TurnPoints > 0 && cur.TurnPoints < MeldThreshold {
		return g, ruleError(FailureMeldBelowThreshold,
			fmt.Sprintf("initial meld needs %d points, turn only has %d",
				MeldThreshold, cur.TurnPoints))
	}

	n := cur
	if n == g {
		n = g.clone()
	}
	p := n.CurrentPlayer()
	if !p.HasMelded && n.TurnPoints >= MeldThreshold {
		p.HasMelded = true
		log.Debug().Str("player", p.Name).Int("points", n.TurnPoints).
			Msg("initial meld satisfied")
	}

	if len(p.Rack) == 0 {
		n.Phase = Ended
		n.Winner = n.Current
		log.Info().Str("winner", p.Name).Msg("rack empty, game over")
		return n, nil
	}

	if n.TurnPoints > 0 || drewTile {
		n.PassCount = 0
	} else {
		n.PassCount++
	}
	if n.PassCount >= NumPlayers {
		n.Phase = Ended
		n.Winner = n.stalemateWinner()
		log.Info().Str("winner", n.Players[n.Winner].Name).
			Msg("stalemate, lowest rack wins")
		return n, nil
	}

	n.Current = (n.Current + 1) % NumPlayers
	n.beginTurn()
	return n, nil
}

// stalemateWinner picks the player with the cheapest rack; earlier seats win
// ties.
func (g *GameState) stalemateWinner() int {
	winner := 0
	best := tiles.RackValue(g.Players[0].Rack)
	for i := 1; i < len(g.Players); i++ {
		if v := tiles.RackValue(g.Players[i].Rack); v < best {
			best = v
			winner = i
		}
	}
	return winner
}

// CancelTurn throws away all staging and selection state and restores the
// board and the acting player's rack to the turn-start snapshot.
func (g *GameState) CancelTurn() *GameState {
	if g.Phase == Ended {
		return g
	}
	n := g.clone()
	n.Board = copyBoard(n.BoardSnapshot)
	n.CurrentPlayer().Rack = copyTiles(n.RackSnapshot)
	n.Staged = nil
	n.SelectedRack = nil
	n.SelectedBoard = nil
	n.TurnPoints = 0
	n.Turn = Selecting
	log.Debug().Str("player", n.CurrentPlayer().Name).Msg("turn cancelled")
	return n
}

// ApplyRearrangement replaces the whole board with a proposed repartition of
// the current board tiles plus the given rack tiles. Every proposed set must
// validate, and the proposal must use exactly the board tiles plus the named
// rack tiles; otherwise the state comes back unchanged with an error. The
// realized values of the placed rack tiles accrue to points-this-turn.
func (g *GameState) ApplyRearrangement(rackTileIDs []string, proposed [][]tiles.Tile) (*GameState, error) {
	if g.Phase == Ended {
		return g, fmt.Errorf("game is over")
	}
	if !sets.BoardValid(proposed) {
		return g, ErrBoardInvalid
	}

	p := g.CurrentPlayer()
	placed := make(map[string]bool, len(rackTileIDs))
	available := make(map[string]tiles.Tile)
	for _, id := range rackTileIDs {
		t, ok := findTile(p.Rack, id)
		if !ok {
			return g, fmt.Errorf("rack tile %s is not in the acting player's rack", id)
		}
		available[id] = t
		placed[id] = true
	}
	for _, set := range g.Board {
		for _, t := range set.Tiles {
			available[t.ID] = t
		}
	}
	used := make(map[string]bool, len(available))
	for _, seq := range proposed {
		for _, t := range seq {
			have, ok := available[t.ID]
			if !ok || used[t.ID] || have != t {
				return g, fmt.Errorf("proposed board does not conserve tiles")
			}
			used[t.ID] = true
		}
	}
	if len(used) != len(available) {
		return g, fmt.Errorf("proposed board drops %d tiles", len(available)-len(used))
	}

	n := g.clone()
	np := n.CurrentPlayer()
	np.Rack = removeByIDs(np.Rack, rackTileIDs)
	n.Board = make([]TileSet, 0, len(proposed))
	credit := 0
	for _, seq := range proposed {
		realized := sets.RealizedValues(seq)
		credit += lo.SumBy(seq, func(t tiles.Tile) int {
			if placed[t.ID] {
				return realized[t.ID]
			}
			return 0
		})
		arranged := seq
		if sets.Classify(seq) == sets.KindRun {
			arranged = sets.Arrange(seq)
		}
		n.Board = append(n.Board, TileSet{ID: n.IDs.NextID(), Tiles: arranged})
	}
	n.TurnPoints += credit
	n.SelectedRack = nil
	n.SelectedBoard = nil
	log.Debug().Str("player", np.Name).Int("placed", len(rackTileIDs)).
		Int("sets", len(n.Board)).Int("credit", credit).Msg("board rearranged")
	return n, nil
}

// restoreStaged reverses the staged set at idx in place (on a clone).
func (g *GameState) restoreStaged(idx int) {
	s := g.Staged[idx]
	p := g.CurrentPlayer()
	var boardTiles []tiles.Tile
	for _, t := range s.Tiles {
		if s.FromRack[t.ID] {
			p.Rack = append(p.Rack, t)
		} else {
			boardTiles = append(boardTiles, t)
		}
	}
	tiles.Sort(p.Rack)
	if len(boardTiles) > 0 {
		g.Board = append(g.Board, TileSet{ID: g.IDs.NextID(), Tiles: boardTiles})
	}
	g.Staged = append(g.Staged[:idx], g.Staged[idx+1:]...)
}

func (g *GameState) restoreAllStaged() {
	for len(g.Staged) > 0 {
		g.restoreStaged(0)
	}
}

func (g *GameState) findBoardTile(id string) (tiles.Tile, bool) {
	for _, set := range g.Board {
		if t, ok := findTile(set.Tiles, id); ok {
			return t, true
		}
	}
	return tiles.Tile{}, false
}

// removeFromBoard pulls the given tile ids out of their board sets, dropping
// any set emptied by the removal.
func (g *GameState) removeFromBoard(ids []string) {
	if len(ids) == 0 {
		return
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	kept := g.Board[:0]
	for _, set := range g.Board {
		remaining := lo.Filter(set.Tiles, func(t tiles.Tile, _ int) bool {
			return !doomed[t.ID]
		})
		if len(remaining) > 0 {
			kept = append(kept, TileSet{ID: set.ID, Tiles: remaining})
		}
	}
	g.Board = kept
}

func findTile(ts []tiles.Tile, id string) (tiles.Tile, bool) {
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return tiles.Tile{}, false
}

func removeByIDs(ts []tiles.Tile, ids []string) []tiles.Tile {
	if len(ids) == 0 {
		return ts
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	return lo.Filter(ts, func(t tiles.Tile, _ int) bool {
		return !doomed[t.ID]
	})
}

func toggle(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
