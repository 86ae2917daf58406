package mcts

import (
	"github.com/chewxy/math32"
	"github.com/corridors/mcts-engine/game"
)

// Evaluate determines i's first-visit value: the terminal value, the
// game's non-terminal heuristic, a rollout, or a bespoke game.Evaluator,
// in that order of precedence. It fails if i was already evaluated.
func (t *Tree) Evaluate(i index) error {
	return t.evaluate(i, t.config.EvalChildren)
}

// evaluate is Evaluate with the EvalChildren preview made explicit, so
// previewing i's children does not in turn preview their children.
func (t *Tree) evaluate(i index, previewChildren bool) error {
	n := t.node(i)
	if n.evaluated {
		return newError(IllegalOperation, "node already evaluated", map[string]interface{}{"node": int(i)})
	}
	state := n.state

	switch {
	case state.IsTerminal():
		n.evalValue = state.TerminalValue()
		n.isTerminal = true
	default:
		if v, ok := state.CheckNonTerminalEval(); ok {
			n.evalValue = v
			n.isHeuristic = true
			n.nonTerminalRank = state.NonTerminalRank()
		} else if t.config.UseRollout {
			v, err := t.rollout(state)
			if err != nil {
				return err
			}
			n.evalValue = v
		} else {
			ev := state.Evaluator()
			if ev == nil {
				return newError(IllegalOperation, "node has no rollout and no evaluator configured",
					map[string]interface{}{"node": int(i)})
			}
			children, err := t.GetChildren(i)
			if err != nil {
				return err
			}
			probs, value := ev.Infer(state)
			if probs != nil && len(probs) != len(children) {
				return newError(IllegalOperation, "evaluator returned priors of mismatched arity",
					map[string]interface{}{"got": len(probs), "want": len(children)})
			}
			n.evalValue = value
			n.evalProbs = probs
		}
	}
	n.evaluated = true

	if previewChildren && !n.isTerminal && !n.isHeuristic {
		children, err := t.GetChildren(i)
		if err != nil {
			return err
		}
		for _, c := range children {
			if !t.node(c).evaluated {
				if err := t.evaluate(c, false); err != nil {
					return err
				}
			}
		}
		n.allChildrenEvaluated = true
	}
	return nil
}

// rollout runs a bounded random simulation from state, returning the
// outcome signed back into state's own hero-to-move perspective.
func (t *Tree) rollout(state game.State) (float32, error) {
	cur := state.Clone()
	sign := float32(1)
	var successors []game.State

	for iter := 0; iter < t.config.MaxRolloutIters; iter++ {
		if cur.IsTerminal() {
			return sign * cur.TerminalValue(), nil
		}
		if v, ok := cur.CheckNonTerminalEval(); ok {
			return sign * v, nil
		}
		successors = successors[:0]
		cur.LegalMoves(func(s game.State) { successors = append(successors, s) })
		if len(successors) == 0 {
			return 0, newError(InternalInvariantViolation, "rollout reached a non-terminal state with no legal moves",
				map[string]interface{}{"iteration": iter})
		}
		cur = successors[t.rng.Intn(len(successors))]
		sign = -sign
	}
	return 0, newError(SearchStalled, "rollout exceeded max iterations without reaching a decided state",
		map[string]interface{}{"max_rollout_iters": t.config.MaxRolloutIters})
}

// selectLeaf descends from root, picking an unevaluated child uniformly
// at random until AllChildrenEvaluated latches, then switching to
// UCT/PUCT scoring, stopping at a node that is unevaluated, terminal, or
// heuristic-decided.
func (t *Tree) selectLeaf(root index) (index, error) {
	cur := root
	for {
		n := t.node(cur)
		if !n.evaluated || n.decided() {
			return cur, nil
		}
		children, err := t.GetChildren(cur)
		if err != nil {
			return noIndex, err
		}
		if len(children) == 0 {
			return cur, nil
		}
		if !n.allChildrenEvaluated {
			var unevaluated []index
			for _, c := range children {
				if !t.node(c).evaluated {
					unevaluated = append(unevaluated, c)
				}
			}
			if len(unevaluated) > 0 {
				cur = unevaluated[t.rng.Intn(len(unevaluated))]
				continue
			}
			n.allChildrenEvaluated = true
		}
		best, err := t.bestChild(n, children)
		if err != nil {
			return noIndex, err
		}
		cur = best
	}
}

// bestChild scores parent's children by UCT or PUCT and returns the
// highest-scoring one, breaking ties uniformly at random. A child's
// stored Equity is already expressed from the perspective of the player
// who chose to enter it - i.e. parent's mover - so no further negation is
// applied here; see DESIGN.md's resolution of spec.md §9's sign-
// convention ambiguity.
func (t *Tree) bestChild(parent *Node, children []index) (index, error) {
	var best []index
	bestScore := math32.Inf(-1)
	for i, c := range children {
		child := t.node(c)
		q, ok := child.Equity()
		if !ok {
			q = 0
		}
		var u float32
		if t.config.UsePUCT {
			u = puctExploration(parent.visits, child.visits)
		} else {
			u = uctExploration(parent.visits, child.visits)
		}
		if t.config.UseProbs && len(parent.evalProbs) == len(children) {
			u *= parent.evalProbs[i]
		}
		score := q + t.config.C*u
		switch {
		case score > bestScore:
			bestScore = score
			best = best[:0]
			best = append(best, c)
		case score == bestScore:
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		return noIndex, newError(InternalInvariantViolation, "select found no candidate child",
			map[string]interface{}{"children": len(children)})
	}
	return best[t.rng.Intn(len(best))], nil
}

// Backpropagate walks from leaf parent-wards, adding ±eval_value at each
// ancestor (sign starting at -1 at the leaf itself and flipping at every
// step) and incrementing visit counts, stopping when it reaches a node
// whose parent link is noIndex (the current root).
func (t *Tree) Backpropagate(leaf index) error {
	n := t.node(leaf)
	if !n.evaluated {
		return newError(IllegalOperation, "cannot backpropagate an unevaluated node", map[string]interface{}{"node": int(leaf)})
	}
	if n.visits > 0 && !n.decided() {
		return newError(InternalInvariantViolation, "backpropagate revisited a non-terminal non-heuristic node",
			map[string]interface{}{"node": int(leaf)})
	}

	sign := float32(-1)
	value := n.evalValue
	cur := leaf
	for {
		node := t.node(cur)
		node.valueSum += sign * value
		node.visits++
		parent := node.parent
		if !parent.valid() {
			return nil
		}
		sign = -sign
		cur = parent
	}
}

// Simulate runs k selection/evaluation/backpropagation passes from the
// current root. If the root is itself unevaluated, it is evaluated and
// backpropagated once first so later selections see a non-zero parent
// visit count.
func (t *Tree) Simulate(k int) error {
	root := t.node(t.root)
	if root.state.IsTerminal() {
		return newError(IllegalOperation, "cannot simulate from a terminal root", nil)
	}
	if !root.evaluated {
		if err := t.Evaluate(t.root); err != nil {
			return err
		}
		if err := t.Backpropagate(t.root); err != nil {
			return err
		}
	}
	children, err := t.GetChildren(t.root)
	if err != nil {
		return err
	}
	if len(children) == 0 && !root.decided() {
		return newError(IllegalOperation, "root has no legal children", nil)
	}

	for i := 0; i < k; i++ {
		leaf, err := t.selectLeaf(t.root)
		if err != nil {
			return err
		}
		if !t.node(leaf).evaluated {
			if err := t.Evaluate(leaf); err != nil {
				return err
			}
		}
		if err := t.Backpropagate(leaf); err != nil {
			return err
		}
	}
	return nil
}

// ChooseBestAction picks the root's child to actually play: an immediate
// winning move if one exists, else the heuristic-preserving move if the
// root is heuristic-decided, else (with probability epsilon) a uniformly
// random child, else the top child by visit count or equity, ties broken
// uniformly at random.
func (t *Tree) ChooseBestAction(epsilon float32, decideUsingVisits bool) (index, error) {
	children, err := t.GetChildren(t.root)
	if err != nil {
		return noIndex, err
	}
	if len(children) == 0 {
		return noIndex, newError(IllegalOperation, "no legal children to choose from", nil)
	}

	var winning []index
	for _, c := range children {
		cn := t.node(c)
		if cn.evaluated && cn.isTerminal && cn.evalValue < 0 {
			winning = append(winning, c)
		}
	}
	if len(winning) > 0 {
		return winning[t.rng.Intn(len(winning))], nil
	}

	root := t.node(t.root)
	if _, ok := root.state.CheckNonTerminalEval(); ok {
		best := children[0]
		bestRank := t.node(best).state.NonTerminalRank()
		tied := []index{best}
		for _, c := range children[1:] {
			r := t.node(c).state.NonTerminalRank()
			switch {
			case r < bestRank:
				bestRank = r
				tied = tied[:0]
				tied = append(tied, c)
			case r == bestRank:
				tied = append(tied, c)
			}
		}
		return tied[t.rng.Intn(len(tied))], nil
	}

	if t.rng.Float32() < epsilon {
		return children[t.rng.Intn(len(children))], nil
	}

	var best []index
	bestMetric := math32.Inf(-1)
	for _, c := range children {
		cn := t.node(c)
		var metric float32
		if decideUsingVisits {
			metric = float32(cn.visits)
		} else if q, ok := cn.Equity(); ok {
			metric = q
		}
		switch {
		case metric > bestMetric:
			bestMetric = metric
			best = best[:0]
			best = append(best, c)
		case metric == bestMetric:
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		return noIndex, newError(InternalInvariantViolation, "choose_best_action scanned every child and found none", nil)
	}
	return best[t.rng.Intn(len(best))], nil
}
