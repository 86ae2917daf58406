package engine

import "github.com/corridors/mcts-engine/mcts"

// Config configures an Engine: the underlying search configuration plus
// the simulation-budget knobs the threaded wrapper manages on its own
// between client calls.
type Config struct {
	MCTS mcts.Config `json:"mcts"`

	// MinSimulations is the simulation target the worker pursues for each
	// new root, and the count GetSortedActions and SetStateAndMakeBestMove
	// wait for before answering. GetEquity and MakeMove do not wait for it.
	MinSimulations int `json:"min_simulations"`
	// MaxSimulations caps how many simulations the background worker will
	// accumulate against one root before idling.
	MaxSimulations int `json:"max_simulations"`
	// SimIncrement is how many simulations the worker runs per wake-up
	// between checking for a pending request.
	SimIncrement int `json:"sim_increment"`
}

// DefaultConfig returns reasonable defaults: the mcts package's defaults,
// plus a modest always-on simulation budget.
func DefaultConfig() Config {
	return Config{
		MCTS:           mcts.DefaultConfig(),
		MinSimulations: 100,
		MaxSimulations: 20000,
		SimIncrement:   200,
	}
}

// IsValid rejects configuration the worker loop could not make progress
// with: a backwards min/max budget or a non-positive increment.
func (c Config) IsValid() bool {
	return c.MCTS.IsValid() &&
		c.MinSimulations >= 0 &&
		c.MaxSimulations >= c.MinSimulations &&
		c.SimIncrement > 0
}
