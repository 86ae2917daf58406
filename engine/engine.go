// Package engine wraps an mcts.Tree with the single-background-worker
// concurrency discipline spec'd for client-facing use: a goroutine keeps
// accumulating simulations against the current root between calls, and
// every exported method here takes the same mutex that goroutine holds
// while it searches, so a Tree (which is not itself safe for concurrent
// use) only ever sees one caller at a time. Grounded on the teacher's
// Agent/Arena split (agent.go's Agent owning an *mcts.MCTS, arena.go's
// Arena driving a play loop) but restructured around a mutex/condvar
// worker rather than Arena's goroutine-per-game pool, since here there is
// exactly one position to keep warm rather than a batch of games to run
// to completion.
package engine

import (
	"bytes"
	"fmt"
	"log"
	"sync"

	"github.com/corridors/mcts-engine/game"
	"github.com/corridors/mcts-engine/mcts"
)

// Engine is a thread-safe handle onto a single in-progress search. The
// zero value is not usable; construct with New.
type Engine struct {
	mu   sync.Mutex
	cond *sync.Cond

	tree   *mcts.Tree
	config Config
	logger *log.Logger

	targetSims int
	shutdown   bool
	workerErr  error
	done       chan struct{}
}

// New constructs an Engine rooted at root and starts its background
// worker. The caller must eventually call Shutdown.
func New(root game.State, cfg Config, logger *log.Logger) (*Engine, error) {
	if !cfg.IsValid() {
		return nil, mcts.NewError(mcts.InvalidInput, "invalid engine config", nil)
	}
	if logger == nil {
		logger = log.New(&bytes.Buffer{}, "", log.Ltime)
	}
	tree, err := mcts.NewTree(root, cfg.MCTS, logger)
	if err != nil {
		return nil, mcts.WrapError(mcts.InvalidInput, "failed to construct search tree", err, nil)
	}
	e := &Engine{
		tree:       tree,
		config:     cfg,
		logger:     logger,
		targetSims: cfg.MinSimulations,
		done:       make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	go e.worker()
	return e, nil
}

// worker is the Engine's single background goroutine. It sleeps on cond
// whenever the root already has enough simulations or the tree is
// decided, and otherwise runs one SimIncrement-sized batch at a time,
// releasing mu between batches so a caller blocked on the mutex never
// waits longer than a single increment, however far off targetSims is.
func (e *Engine) worker() {
	defer close(e.done)
	defer e.recoverPanic()
	e.mu.Lock()

	for {
		for !e.shutdown && e.simsSatisfiedLocked() {
			e.cond.Wait()
		}
		if e.shutdown {
			e.mu.Unlock()
			return
		}
		n := e.config.SimIncrement
		if remaining := e.targetSims - int(e.tree.RootNode().Visits()); remaining < n {
			n = remaining
		}
		if n <= 0 {
			e.mu.Unlock()
			e.mu.Lock()
			continue
		}
		if err := e.tree.Simulate(n); err != nil {
			e.workerErr = err
			e.shutdown = true
			e.cond.Broadcast()
			e.mu.Unlock()
			return
		}
		e.cond.Broadcast()
		e.mu.Unlock()
		e.mu.Lock()
	}
}

// recoverPanic converts a worker panic into a sticky InternalInvariantViolation
// and shuts the engine down, the way Agent.Close aggregates inferer close
// failures in the teacher rather than letting a goroutine die silently.
// Every point the worker can panic from runs with mu held, so
// recoverPanic takes over that hold instead of locking again, and
// releases it once the error is recorded.
func (e *Engine) recoverPanic() {
	r := recover()
	if r == nil {
		return
	}
	panicErr := mcts.NewError(mcts.InternalInvariantViolation, fmt.Sprintf("worker panic: %v", r), nil)
	e.workerErr = mcts.Aggregate(e.workerErr, panicErr)
	e.shutdown = true
	e.cond.Broadcast()
	e.mu.Unlock()
}

// simsSatisfiedLocked reports whether the current root needs no further
// simulation: it is already decided, or has reached targetSims. Caller
// must hold mu.
func (e *Engine) simsSatisfiedLocked() bool {
	root := e.tree.RootNode()
	if root.IsTerminal() || root.IsHeuristicDecided() {
		return true
	}
	return int(root.Visits()) >= e.targetSims
}

// EnsureSims raises the current root's simulation target to at least n
// (clamped to MaxSimulations) and wakes the worker, returning
// immediately without waiting for the target to be reached - callers
// poll GetVisitCount to observe progress. It only blocks as long as it
// takes to acquire mu.
func (e *Engine) EnsureSims(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		if e.workerErr != nil {
			return e.workerErr
		}
		return mcts.NewError(mcts.IllegalOperation, "engine is shut down", nil)
	}
	if n > e.config.MaxSimulations {
		n = e.config.MaxSimulations
	}
	if n > e.targetSims {
		e.targetSims = n
		e.cond.Broadcast()
	}
	return nil
}

// ensureSimsLocked raises the simulation target the same way EnsureSims
// does, then blocks the caller until it is met, the root is decided, or
// the engine shuts down with an error. Used internally by methods whose
// own contract is to return once min_sims has actually been reached
// (GetSortedActions, SetStateAndMakeBestMove), unlike the public,
// non-blocking EnsureSims. Caller must hold mu.
func (e *Engine) ensureSimsLocked(n int) error {
	if e.shutdown {
		if e.workerErr != nil {
			return e.workerErr
		}
		return mcts.NewError(mcts.IllegalOperation, "engine is shut down", nil)
	}
	if n > e.config.MaxSimulations {
		n = e.config.MaxSimulations
	}
	if n > e.targetSims {
		e.targetSims = n
		e.cond.Broadcast()
	}
	for !e.shutdown && !e.simsSatisfiedLocked() {
		e.cond.Wait()
	}
	if e.shutdown && e.workerErr != nil {
		return e.workerErr
	}
	return nil
}

// GetVisitCount returns the current root's accumulated simulation count.
func (e *Engine) GetVisitCount() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.RootNode().Visits()
}

// GetEquity returns the current root's backpropagated mean value, and
// whether it has been backpropagated into at all.
func (e *Engine) GetEquity() (float32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.RootNode().Equity()
}

// GetEvaluation returns the current root's first-visit evaluation value,
// and whether it has been evaluated at all.
func (e *Engine) GetEvaluation() (float32, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.RootNode().EvalValue()
}

// IsTerminal reports whether the current root is a terminal position.
func (e *Engine) IsTerminal() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.RootNode().IsTerminal()
}

// Display formats the current root's node statistics for logging.
func (e *Engine) Display() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("%v", e.tree.RootNode())
}

// GetSortedActions reports every legal move from the current root,
// ranked per mcts.Tree.GetSortedActions. It ensures MinSimulations have
// run first so an immediately-queried fresh root isn't reporting on
// bare priors.
func (e *Engine) GetSortedActions(flip bool) ([]mcts.SortedAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureSimsLocked(e.config.MinSimulations); err != nil {
		return nil, err
	}
	return e.tree.GetSortedActions(flip)
}

// MakeMove advances the search to the child reached by text, pruning
// every sibling subtree, and lowers the simulation target back down to
// MinSimulations so the worker doesn't keep chasing a stale high-water
// mark against the new root.
func (e *Engine) MakeMove(text string, flip bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return mcts.NewError(mcts.IllegalOperation, "engine is shut down", nil)
	}
	if _, err := e.tree.MakeMoveByText(text, flip); err != nil {
		return err
	}
	e.targetSims = e.config.MinSimulations
	e.cond.Broadcast()
	return nil
}

// SetStateAndMakeBestMove repositions the search at state - reusing the
// matching child's subtree if state is already one of the current root's
// children, discarding the whole tree and starting fresh otherwise - then
// searches to MinSimulations and plays the engine's own best move from
// there, returning its rendered action text.
func (e *Engine) SetStateAndMakeBestMove(state game.State, flip bool) (string, error) {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return "", mcts.NewError(mcts.IllegalOperation, "engine is shut down", nil)
	}
	if child, ok := e.tree.FindChild(state); ok {
		if _, err := e.tree.MakeMove(child); err != nil {
			e.mu.Unlock()
			return "", err
		}
	} else {
		e.tree.Reset(state)
	}
	e.targetSims = e.config.MinSimulations
	e.cond.Broadcast()

	if err := e.ensureSimsLocked(e.config.MinSimulations); err != nil {
		e.mu.Unlock()
		return "", err
	}
	if e.tree.RootNode().IsTerminal() {
		e.mu.Unlock()
		return "", mcts.NewError(mcts.IllegalOperation, "cannot make a move from a terminal position", nil)
	}
	choice, err := e.tree.ChooseBestAction(e.config.MCTS.Epsilon, e.config.MCTS.DecideUsingVisits)
	if err != nil {
		e.mu.Unlock()
		return "", err
	}
	text, err := e.tree.MoveText(choice, flip)
	if err != nil {
		e.mu.Unlock()
		return "", err
	}
	if _, err := e.tree.MakeMove(choice); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.targetSims = e.config.MinSimulations
	e.cond.Broadcast()
	e.mu.Unlock()
	return text, nil
}

// Shutdown stops the background worker and waits for it to exit,
// returning any error a worker panic or stalled rollout left pending. It
// is safe to call more than once; subsequent calls just return the same
// pending error.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	alreadyShut := e.shutdown
	e.shutdown = true
	e.cond.Broadcast()
	e.mu.Unlock()

	if !alreadyShut {
		<-e.done
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workerErr
}
