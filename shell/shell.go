// Package shell is the interactive front end: a readline loop that maps
// typed commands onto engine transitions. It holds no game logic of its
// own; every command resolves to one of the public transition functions.
package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/jvilar/mompox/ai/bot"
	"github.com/jvilar/mompox/automatic"
	"github.com/jvilar/mompox/config"
	"github.com/jvilar/mompox/game"
	"github.com/jvilar/mompox/tiles"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config
	bot *bot.Bot

	state *game.GameState
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "new [seed] - start a game against three computer players\n")
	io.WriteString(w, "show - print the board, your rack, and staged sets\n")
	io.WriteString(w, "sel <n> [n...] - toggle rack tiles by index\n")
	io.WriteString(w, "selb <set> <n> - toggle a board tile (after your initial meld)\n")
	io.WriteString(w, "stage - turn the current selection into a staged set\n")
	io.WriteString(w, "unstage [n] - undo one staged set, or all of them\n")
	io.WriteString(w, "commit - move every staged set onto the board\n")
	io.WriteString(w, "draw - take a tile from the pool and end your turn\n")
	io.WriteString(w, "end - end your turn, keeping what you committed\n")
	io.WriteString(w, "cancel - roll your turn back to how it started\n")
	io.WriteString(w, "auto <games> [threads] - run computer-vs-computer games\n")
	io.WriteString(w, "exit - leave\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mmompox>\033[0m ",
		HistoryFile:     "/tmp/mompox-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg, bot: bot.New(cfg)}
}

// Loop reads and executes commands until exit or EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "bye" || line == "exit" {
			break
		}
		if line == "" {
			continue
		}
		if err := sc.execute(line); err != nil {
			showMessage("error: "+err.Error(), sc.l.Stderr())
		}
	}
	log.Debug().Msg("shell loop exited")
}

func (sc *ShellController) execute(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		usage(sc.l.Stderr())
		return nil
	case "new":
		return sc.newGame(args)
	case "auto":
		return sc.autoGames(args)
	}

	if sc.state == nil {
		return fmt.Errorf("no game in progress; start one with new")
	}
	switch cmd {
	case "show":
		sc.show()
		return nil
	case "sel":
		return sc.selectRack(args)
	case "selb":
		return sc.selectBoard(args)
	case "stage":
		sc.state = sc.state.StageCurrentSelection()
		sc.show()
		return nil
	case "unstage":
		return sc.unstage(args)
	case "commit":
		next, err := sc.state.CommitAllStagedSets()
		if err != nil {
			return err
		}
		sc.state = next
		sc.show()
		return nil
	case "draw":
		if len(sc.state.Pool) == 0 {
			return fmt.Errorf("the pool is empty")
		}
		sc.state = sc.state.DrawTile()
		return sc.finishTurn(true)
	case "end":
		return sc.finishTurn(false)
	case "cancel":
		sc.state = sc.state.CancelTurn()
		sc.show()
		return nil
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

func (sc *ShellController) newGame(args []string) error {
	src := tiles.NewSource()
	if sc.cfg.Seed != 0 {
		src = tiles.NewSeededSource(sc.cfg.Seed)
	}
	if len(args) > 0 {
		seed, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad seed %q", args[0])
		}
		src = tiles.NewSeededSource(seed)
	}
	seats := []game.Seat{
		{Name: "you"},
		{Name: "bruno", IsComputer: true},
		{Name: "clara", IsComputer: true},
		{Name: "diego", IsComputer: true},
	}
	g, err := game.NewGame(src, tiles.NewIDSource(), seats)
	if err != nil {
		return err
	}
	sc.state = g
	sc.runComputerTurns()
	sc.show()
	return nil
}

func (sc *ShellController) autoGames(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("auto needs a game count")
	}
	games, err := strconv.Atoi(args[0])
	if err != nil || games <= 0 {
		return fmt.Errorf("bad game count %q", args[0])
	}
	threads := 1
	if len(args) > 1 {
		if threads, err = strconv.Atoi(args[1]); err != nil || threads <= 0 {
			return fmt.Errorf("bad thread count %q", args[1])
		}
	}
	return automatic.StartCompVCompGames(context.Background(), sc.cfg, games,
		threads, "/tmp/mompox-games.csv")
}

func (sc *ShellController) selectRack(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("sel needs at least one rack index")
	}
	rack := sc.state.CurrentPlayer().Rack
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 0 || idx >= len(rack) {
			return fmt.Errorf("no rack tile %q", arg)
		}
		sc.state = sc.state.SelectTile(rack[idx].ID)
	}
	sc.show()
	return nil
}

func (sc *ShellController) selectBoard(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("selb needs a set index and a tile index")
	}
	setIdx, err := strconv.Atoi(args[0])
	if err != nil || setIdx < 0 || setIdx >= len(sc.state.Board) {
		return fmt.Errorf("no board set %q", args[0])
	}
	set := sc.state.Board[setIdx]
	tileIdx, err := strconv.Atoi(args[1])
	if err != nil || tileIdx < 0 || tileIdx >= len(set.Tiles) {
		return fmt.Errorf("no tile %q in set %d", args[1], setIdx)
	}
	next := sc.state.SelectBoardTile(set.Tiles[tileIdx].ID)
	if next == sc.state {
		return fmt.Errorf("board tiles are locked until your initial meld")
	}
	sc.state = next
	sc.show()
	return nil
}

func (sc *ShellController) unstage(args []string) error {
	if len(args) == 0 {
		sc.state = sc.state.UnstageAll()
		sc.show()
		return nil
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 || idx >= len(sc.state.Staged) {
		return fmt.Errorf("no staged set %q", args[0])
	}
	sc.state = sc.state.UnstageSet(sc.state.Staged[idx].ID)
	sc.show()
	return nil
}

func (sc *ShellController) finishTurn(drew bool) error {
	next, err := sc.state.EndTurn(drew)
	if err != nil {
		return err
	}
	sc.state = next
	sc.runComputerTurns()
	sc.show()
	return nil
}

// runComputerTurns plays out every consecutive computer seat until the game
// ends or a human is on turn.
func (sc *ShellController) runComputerTurns() {
	for sc.state.Phase == game.Playing && sc.state.Turn == game.AIThinking {
		seat := sc.state.Current
		name := sc.state.CurrentPlayer().Name
		sc.state = sc.bot.PlayTurn(sc.state)
		showMessage(fmt.Sprintf("%s played (%d board sets, %d tiles left)",
			name, len(sc.state.Board), len(sc.state.Players[seat].Rack)), sc.l.Stderr())
	}
}

func (sc *ShellController) show() {
	out := sc.l.Stderr()
	g := sc.state
	if g.Phase == game.Ended {
		showMessage(fmt.Sprintf("game over, %s wins", g.Players[g.Winner].Name), out)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "board (%d tiles in pool):\n", len(g.Pool))
	for i, set := range g.Board {
		fmt.Fprintf(&b, "  %2d: %s\n", i, tileLine(set.Tiles))
	}
	for i, s := range g.Staged {
		status := "invalid"
		if s.Valid {
			status = fmt.Sprintf("%s, %d points", s.Kind, s.Value)
		}
		fmt.Fprintf(&b, "  staged %d (%s): %s\n", i, status, tileLine(s.Tiles))
	}

	p := g.CurrentPlayer()
	fmt.Fprintf(&b, "%s to play (melded: %v, turn points: %d)\n",
		p.Name, p.HasMelded, g.TurnPoints)
	selected := make(map[string]bool, len(g.SelectedRack))
	for _, id := range g.SelectedRack {
		selected[id] = true
	}
	fmt.Fprintf(&b, "rack:")
	for i, t := range p.Rack {
		mark := " "
		if selected[t.ID] {
			mark = "*"
		}
		fmt.Fprintf(&b, " %d:%s%s", i, t, mark)
	}
	b.WriteString("\n")
	for i, other := range g.Players {
		if i != g.Current {
			fmt.Fprintf(&b, "%s holds %d tiles\n", other.Name, len(other.Rack))
		}
	}
	showMessage(b.String(), out)
}

func tileLine(ts []tiles.Tile) string {
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = t.String()
	}
	return strings.Join(strs, " ")
}
