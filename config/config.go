package config

import "github.com/namsral/flag"

// Config carries the tunables for a session. Flag defaults are the played
// ruleset; only the search caps and seeding are adjustable.
type Config struct {
	Seed            uint64
	PlanDepth       int
	MaxOpeningPlays int
	RearrangeBudget int
	Debug           bool
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("mompox", flag.ContinueOnError)
	fs.Uint64Var(&c.Seed, "seed", 0, "random seed for shuffling; 0 draws from entropy")
	fs.IntVar(&c.PlanDepth, "plan-depth", 10, "how many follow-up plays the computer player chains in one turn")
	fs.IntVar(&c.MaxOpeningPlays, "max-opening-plays", 20, "bound on the computer player's pre-meld accumulation loop")
	fs.IntVar(&c.RearrangeBudget, "rearrange-budget", 25000, "explored-combination ceiling for board rearrangement search")
	fs.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	err := fs.Parse(args)
	return err
}

// Default returns a Config with the flag defaults, for embedding callers
// that never parse a command line.
func Default() *Config {
	c := &Config{}
	_ = c.Load(nil)
	return c
}
