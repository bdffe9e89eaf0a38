// Package bot is the computer opponent. It reads an immutable snapshot of
// the game state, plans a turn, and applies it through the same engine
// transitions a human player uses.
package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/jvilar/mompox/config"
	"github.com/jvilar/mompox/game"
)

// Bot plans and plays one full turn at a time. All of its search loops are
// capped, so a turn always terminates without external cancellation.
type Bot struct {
	planDepth       int
	maxOpeningPlays int
	rearrangeBudget int
}

func New(cfg *config.Config) *Bot {
	return &Bot{
		planDepth:       cfg.PlanDepth,
		maxOpeningPlays: cfg.MaxOpeningPlays,
		rearrangeBudget: cfg.RearrangeBudget,
	}
}

// PlayTurn executes one complete computer turn and returns the resulting
// state. It never mutates its input; on any internal inconsistency the turn
// degrades to a draw or pass rather than corrupting state.
func (b *Bot) PlayTurn(g *game.GameState) *game.GameState {
	if g.Phase == game.Ended {
		return g
	}
	if g.CurrentPlayer().HasMelded {
		return b.playMelded(g)
	}
	return b.playOpening(g)
}

// playOpening is the pre-meld loop: repeatedly place the single
// highest-value play, accumulating points. Sets go onto the board
// immediately, before the total is known to reach 30; when it falls short
// the placements stand, the bot draws (or passes), and the turn finishes
// through the ungated path.
func (b *Bot) playOpening(g *game.GameState) *game.GameState {
	cur := g
	for iter := 0; iter < b.maxOpeningPlays; iter++ {
		plays := FindPossiblePlays(cur.CurrentPlayer().Rack)
		if len(plays) == 0 {
			break
		}
		next, ok := b.stagePlay(cur, plays[0])
		if !ok {
			break
		}
		cur = next
		if len(cur.CurrentPlayer().Rack) == 0 {
			break
		}
	}

	total := cur.TurnPoints
	if len(cur.CurrentPlayer().Rack) == 0 || total >= game.MeldThreshold {
		return b.finish(cur, false, total >= game.MeldThreshold)
	}
	// Short of the threshold (or nothing to play): draw if possible, then
	// finish without the meld gate; the provisional sets are not rolled
	// back.
	drew := false
	if len(cur.Pool) > 0 {
		cur = cur.DrawTile()
		drew = true
	}
	return b.finish(cur, drew, total == 0)
}

// playMelded takes the best direct play and chains follow-ups to the plan
// depth; failing any direct play it searches for a board rearrangement, and
// failing that it draws or passes.
func (b *Bot) playMelded(g *game.GameState) *game.GameState {
	cur, played := b.chainPlays(g)

	if !played {
		if next, ok := b.rearrange(cur); ok {
			cur = next
			played = true
			// The rearrangement may have unlocked direct plays.
			cur, _ = b.chainPlays(cur)
		}
	}

	if played {
		return b.finish(cur, false, true)
	}
	if len(cur.Pool) > 0 {
		cur = cur.DrawTile()
		return b.finish(cur, true, true)
	}
	return b.finish(cur, false, true)
}

// chainPlays applies the best available play repeatedly, up to the plan
// depth. stagePlay re-verifies every chosen tile against the live rack, so a
// diverged plan skips the unsafe step instead of corrupting state.
func (b *Bot) chainPlays(g *game.GameState) (*game.GameState, bool) {
	cur := g
	played := false
	for depth := 0; depth < b.planDepth; depth++ {
		plays := FindPossiblePlays(cur.CurrentPlayer().Rack)
		if len(plays) == 0 {
			break
		}
		next, ok := b.stagePlay(cur, plays[0])
		if !ok {
			break
		}
		cur = next
		played = true
		if len(cur.CurrentPlayer().Rack) == 0 {
			break
		}
	}
	return cur, played
}

// stagePlay pushes one play through the selection/staging/commit
// primitives. Every selection is checked by pointer identity: the engine
// returns its receiver unchanged for an unknown tile id, which tells us the
// plan no longer matches the rack.
func (b *Bot) stagePlay(g *game.GameState, play *Play) (*game.GameState, bool) {
	cur := g
	for _, t := range play.Tiles {
		next := cur.SelectTile(t.ID)
		if next == cur {
			log.Warn().Str("tile", t.String()).
				Msg("planned tile missing from rack, skipping play")
			return g, false
		}
		cur = next
	}
	staged := cur.StageCurrentSelection()
	if staged == cur {
		return g, false
	}
	committed, err := staged.CommitAllStagedSets()
	if err != nil {
		log.Warn().Err(err).Msg("planned play failed to commit, skipping")
		return g, false
	}
	return committed, true
}

// finish ends the turn. gated selects the normal end-of-turn path; the
// ungated path is the pre-meld provisional case where placed sets stay on
// the board below the threshold.
func (b *Bot) finish(g *game.GameState, drew, gated bool) *game.GameState {
	var (
		next *game.GameState
		err  error
	)
	if gated {
		next, err = g.EndTurn(drew)
	} else {
		next, err = g.EndTurnUnchecked(drew)
	}
	if err != nil {
		// The board should always validate after our own plays; if it does
		// not, give the turn back rather than wedge the game.
		log.Error().Err(err).Msg("computer turn could not end, cancelling")
		return g.CancelTurn()
	}
	return next
}
