package mcts

import (
	"bytes"
	"log"
	"math/rand"

	"github.com/corridors/mcts-engine/game"
)

// Tree is the lazily-materialized MCTS search tree rooted at a single
// game position. It is an arena: nodes are addressed by index rather
// than pointer-linked, and MakeMove reassigns the arena's root rather
// than walking a pointer chain, so pruning a discarded subtree is just
// freeing its indices. A Tree is not safe for concurrent use - per
// spec.md §5 that discipline is the threaded wrapper's job
// (package engine), not this package's.
type Tree struct {
	nodes    []*Node
	children [][]index
	freelist []index
	root     index

	rng    *rand.Rand
	config Config
	logger *log.Logger
}

// NewTree constructs a Tree rooted at root with the given configuration.
func NewTree(root game.State, cfg Config, logger *log.Logger) (*Tree, error) {
	if !cfg.IsValid() {
		return nil, newError(InvalidInput, "invalid mcts config", nil)
	}
	if logger == nil {
		logger = log.New(&bytes.Buffer{}, "", log.Ltime)
	}
	t := &Tree{
		rng:    rand.New(rand.NewSource(int64(cfg.Seed))),
		config: cfg,
		logger: logger,
	}
	t.root = t.newNode(root, noIndex)
	return t, nil
}

// Config returns the tree's configuration.
func (t *Tree) Config() Config { return t.config }

func (t *Tree) node(i index) *Node { return t.nodes[int(i)] }

// Root returns the current root's index.
func (t *Tree) Root() index { return t.root }

// RootNode returns the current root node.
func (t *Tree) RootNode() *Node { return t.node(t.root) }

func (t *Tree) alloc() index {
	if l := len(t.freelist); l > 0 {
		i := t.freelist[l-1]
		t.freelist = t.freelist[:l-1]
		return i
	}
	t.nodes = append(t.nodes, &Node{})
	t.children = append(t.children, nil)
	return index(len(t.nodes) - 1)
}

func (t *Tree) free(i index) {
	t.node(i).reset()
	t.children[int(i)] = nil
	t.freelist = append(t.freelist, i)
}

func (t *Tree) newNode(state game.State, parent index) index {
	i := t.alloc()
	n := t.node(i)
	n.reset()
	n.state = state
	n.parent = parent
	return i
}

// GetChildren lazily materializes i's children from game.State.LegalMoves
// on first access and returns the (possibly empty, for a terminal state)
// child index list thereafter.
func (t *Tree) GetChildren(i index) ([]index, error) {
	n := t.node(i)
	if n.hasChildren {
		return t.children[int(i)], nil
	}
	if n.state == nil {
		return nil, newError(InternalInvariantViolation, "node has no state", map[string]interface{}{"node": int(i)})
	}
	if n.state.IsTerminal() {
		n.hasChildren = true
		return nil, nil
	}
	var kids []index
	n.state.LegalMoves(func(s game.State) {
		kids = append(kids, t.newNode(s, i))
	})
	t.children[int(i)] = kids
	n.hasChildren = true
	return kids, nil
}

// MakeMove orphans choice (a child of the current root), frees every
// sibling subtree, and advances the root to choice. The chosen subtree's
// accumulated statistics survive untouched.
func (t *Tree) MakeMove(choice index) (index, error) {
	children, err := t.GetChildren(t.root)
	if err != nil {
		return noIndex, err
	}
	found := false
	for _, c := range children {
		if c == choice {
			found = true
			break
		}
	}
	if !found {
		return noIndex, newError(IllegalOperation, "choice is not a child of the current root",
			map[string]interface{}{"root": int(t.root), "choice": int(choice)})
	}
	oldRoot := t.root
	for _, c := range children {
		if c != choice {
			t.pruneSubtree(c)
		}
	}
	t.free(oldRoot)
	t.node(choice).parent = noIndex
	t.root = choice
	return t.root, nil
}

// MoveText renders the action text for the current root's child at
// index choice, letting a caller (e.g. package engine) name a move it is
// about to make without reaching into Tree's unexported node storage.
func (t *Tree) MoveText(choice index, flip bool) (string, error) {
	children, err := t.GetChildren(t.root)
	if err != nil {
		return "", err
	}
	found := false
	for _, c := range children {
		if c == choice {
			found = true
			break
		}
	}
	if !found {
		return "", newError(IllegalOperation, "choice is not a child of the current root",
			map[string]interface{}{"root": int(t.root), "choice": int(choice)})
	}
	rootState := t.node(t.root).state
	return rootState.ActionText(t.node(choice).state, flip), nil
}

// MakeMoveByText looks up choice's child by its rendered action text
// before orphaning it.
func (t *Tree) MakeMoveByText(text string, flip bool) (index, error) {
	children, err := t.GetChildren(t.root)
	if err != nil {
		return noIndex, err
	}
	rootState := t.node(t.root).state
	for _, c := range children {
		childState := t.node(c).state
		if rootState.ActionText(childState, flip) == text {
			return t.MakeMove(c)
		}
	}
	return noIndex, newError(IllegalOperation, "unknown move text", map[string]interface{}{"text": text})
}

func (t *Tree) pruneSubtree(i index) {
	for _, c := range t.children[int(i)] {
		t.pruneSubtree(c)
	}
	t.free(i)
}

// Reset replaces the tree's state entirely with a fresh root, discarding
// every node. Used by SetStateAndMakeBestMove when the incoming state is
// not one of the current root's children.
func (t *Tree) Reset(root game.State) {
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.freelist = t.freelist[:0]
	t.root = t.newNode(root, noIndex)
}

// FindChild returns the index of the current root's child equal to
// state, or (noIndex, false) if none matches.
func (t *Tree) FindChild(state game.State) (index, bool) {
	children, err := t.GetChildren(t.root)
	if err != nil {
		return noIndex, false
	}
	for _, c := range children {
		if t.node(c).state.Eq(state) {
			return c, true
		}
	}
	return noIndex, false
}

// SortedAction is one entry of GetSortedActions's report.
type SortedAction struct {
	Visits uint32
	Equity float32
	Text   string
}

// GetSortedActions reports every current root child's visit count,
// equity, and rendered action text, sorted descending by equity, then by
// NonTerminalRank (ascending, the engine's cycle-breaking tie-break),
// then by visit count (descending).
func (t *Tree) GetSortedActions(flip bool) ([]SortedAction, error) {
	children, err := t.GetChildren(t.root)
	if err != nil {
		return nil, err
	}
	rootState := t.node(t.root).state
	actions := make([]SortedAction, len(children))
	ranks := make([]int, len(children))
	for i, c := range children {
		cn := t.node(c)
		q, _ := cn.Equity()
		actions[i] = SortedAction{Visits: cn.visits, Equity: q, Text: rootState.ActionText(cn.state, flip)}
		ranks[i] = cn.state.NonTerminalRank()
	}
	sortActions(actions, ranks)
	return actions, nil
}
