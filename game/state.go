// Package game defines the capability surface the MCTS engine requires
// from a two-player, perfect-information, deterministic game, and
// supplies Corridors (a Quoridor-family pawn-and-wall game) as the
// concrete instantiation.
package game

// Move is a short, human-readable action token ("e2", "c5h") rendered by
// State.ActionText. It is opaque to the engine beyond string equality.
type Move string

// Evaluator is a bespoke valuation callback a caller can plug into the
// engine in place of random rollouts - a neural network, a tabular
// estimator, a hand-tuned scorer. The engine only consumes it; training
// or producing one is out of scope (see SPEC_FULL.md's non-goals).
//
// Infer returns a scalar value for state (from state's own hero-to-move
// perspective, in [-1, 1]) and, optionally, a prior probability per legal
// child in the same order State.LegalMoves would enumerate them. A nil
// policy means "no priors available."
type Evaluator interface {
	Infer(state State) (policy []float32, value float32)
}

// State is the capability interface the MCTS engine requires from a game
// position. A State is always viewed from the side about to move
// ("hero"); the opponent is "villain". Implementations are expected to be
// cheap to Clone and comparable via Eq.
type State interface {
	// Eq reports whether two states represent the same position from the
	// same side-to-move perspective.
	Eq(other State) bool

	// Clone returns an independent copy that can be mutated/advanced
	// without affecting the receiver.
	Clone() State

	// LegalMoves enumerates legal successor states by invoking sink once
	// per successor, in a fixed, deterministic order. Terminal states
	// enumerate zero successors.
	LegalMoves(sink func(State))

	// IsTerminal reports whether the game has ended at this state.
	IsTerminal() bool

	// TerminalValue returns this state's value from hero's perspective:
	// +1 hero wins, -1 hero loses, 0 draw. Only valid when IsTerminal.
	TerminalValue() float32

	// CheckNonTerminalEval reports whether a domain-specific heuristic can
	// decide this non-terminal position without further search, and if
	// so, its value (in [-1, 1], hero's perspective). Implementations
	// that have no such heuristic always return (0, false).
	CheckNonTerminalEval() (value float32, ok bool)

	// NonTerminalRank is a tie-breaking integer used to prevent search
	// cycles once CheckNonTerminalEval has decided a position; see
	// DESIGN.md for the convention this engine adopts. Only meaningful
	// when CheckNonTerminalEval returned ok=true.
	NonTerminalRank() int

	// Evaluator returns a bespoke evaluation callback for this state, or
	// nil if none is configured (in which case the engine must use
	// rollouts instead).
	Evaluator() Evaluator

	// ActionText renders the transition from this state to child as a
	// short token. flip selects canonical (false) vs current-player (true)
	// perspective rendering.
	ActionText(child State, flip bool) string
}
