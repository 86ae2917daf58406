package mcts

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/corridors/mcts-engine/game"
)

// Node is a single position in the search tree. Nodes are arena-indexed
// (see Tree) rather than pointer-linked: children are owned by the arena,
// and parent is a plain index that gets set to noIndex when a node
// becomes the new root, severing backpropagation at that point.
//
// Statistics (visits, valueSum) are stored from the perspective of
// whichever side chose to move into this node - i.e. the parent's mover,
// not this node's own side-to-move. See Tree.Backpropagate for the sign
// convention this implies.
type Node struct {
	state  game.State
	parent index

	hasChildren bool // children have been materialized (possibly zero of them)

	evaluated   bool
	isTerminal  bool
	isHeuristic bool // decided by game.State.CheckNonTerminalEval

	evalValue float32 // this node's own hero-to-move perspective value
	nonTerminalRank int

	evalProbs []float32 // optional per-child priors, length 0 or len(children)

	visits   uint32
	valueSum float32

	allChildrenEvaluated bool
}

// Equity is the node's mean backpropagated value: value_sum / visits,
// expressed in the perspective of whoever chose to enter this node. Zero
// with ok=false when the node has never been backpropagated into.
func (n *Node) Equity() (value float32, ok bool) {
	if n.visits == 0 {
		return 0, false
	}
	return n.valueSum / float32(n.visits), true
}

// Visits returns the node's backpropagation count.
func (n *Node) Visits() uint32 { return n.visits }

// EvalValue returns the value produced the first time this node was
// evaluated, and whether the node has been evaluated at all.
func (n *Node) EvalValue() (float32, bool) { return n.evalValue, n.evaluated }

// IsTerminal reports whether the node's state is a terminal position.
func (n *Node) IsTerminal() bool { return n.isTerminal || (n.state != nil && n.state.IsTerminal()) }

// IsHeuristicDecided reports whether the node's state was decided by the
// game's non-terminal heuristic rather than by rollout or bespoke eval.
func (n *Node) IsHeuristicDecided() bool { return n.isHeuristic }

// NonTerminalRank is only meaningful once the node is heuristic-decided;
// see Tree.ChooseBestAction and DESIGN.md for the adopted convention.
func (n *Node) NonTerminalRank() int { return n.nonTerminalRank }

// State returns the game position this node represents.
func (n *Node) State() game.State { return n.state }

func (n *Node) decided() bool { return n.isTerminal || n.isHeuristic }

func (n *Node) reset() {
	n.state = nil
	n.parent = noIndex
	n.hasChildren = false
	n.evaluated = false
	n.isTerminal = false
	n.isHeuristic = false
	n.evalValue = 0
	n.nonTerminalRank = 0
	n.evalProbs = nil
	n.visits = 0
	n.valueSum = 0
	n.allChildrenEvaluated = false
}

// Format gives a compact human-readable rendering for logging, matching
// the teacher's Node.Format style.
func (n *Node) Format(f fmt.State, c rune) {
	q, ok := n.Equity()
	fmt.Fprintf(f, "{visits=%d equity=%v(ok=%v) eval=%v terminal=%v heuristic=%v}",
		n.visits, q, ok, n.evalValue, n.isTerminal, n.isHeuristic)
}

// uctExploration computes U_i = sqrt(ln(N-1) / max(n_i, 1)) for classic
// UCT, where parentVisits is N and childVisits is n_i. Both arguments to
// log/division are clamped to keep the formula defined at the edges (a
// freshly-evaluated parent, an unvisited child).
func uctExploration(parentVisits, childVisits uint32) float32 {
	arg := float32(parentVisits) - 1
	if arg < 1 {
		arg = 1
	}
	denom := float32(childVisits)
	if denom < 1 {
		denom = 1
	}
	return math32.Sqrt(math32.Log(arg) / denom)
}

// puctExploration computes U_i = sqrt(N-1) / (1+n_i) for PUCT. The "-1"
// accounts for the parent's own self-evaluation visit not coinciding with
// a visit to any one child; see spec.md §9.
func puctExploration(parentVisits, childVisits uint32) float32 {
	arg := float32(parentVisits) - 1
	if arg < 0 {
		arg = 0
	}
	return math32.Sqrt(arg) / (1 + float32(childVisits))
}
