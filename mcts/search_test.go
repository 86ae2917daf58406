package mcts

import (
	"testing"

	"github.com/corridors/mcts-engine/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateAccumulatesRootVisits(t *testing.T) {
	tr, err := NewTree(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, tr.Simulate(20))
	// one backprop pass for the root's own first evaluation, plus one per
	// simulation - the root sits on every backpropagation path.
	assert.Equal(t, uint32(21), tr.RootNode().Visits())
}

func TestSimulateRejectsTerminalRoot(t *testing.T) {
	w := game.NewCorridors(5, 1).ToWire()
	w.HeroX = 0
	w.HeroY = w.N - 1 // hero already sitting on its own goal row, away from villain's cell
	s, err := game.FromWire(w)
	require.NoError(t, err)
	require.True(t, s.IsTerminal())

	tr, err := NewTree(s, testConfig(), nil)
	require.NoError(t, err)
	err = tr.Simulate(1)
	require.Error(t, err)
	mctsErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, IllegalOperation, mctsErr.Kind)
}

func TestBackpropagateAlternatesSign(t *testing.T) {
	tr, err := NewTree(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)

	children, err := tr.GetChildren(tr.Root())
	require.NoError(t, err)
	require.NotEmpty(t, children)
	child := children[0]

	grandchildren, err := tr.GetChildren(child)
	require.NoError(t, err)
	require.NotEmpty(t, grandchildren)
	grandchild := grandchildren[0]

	tr.node(grandchild).evaluated = true
	tr.node(grandchild).isTerminal = true
	tr.node(grandchild).evalValue = 1

	require.NoError(t, tr.Backpropagate(grandchild))

	gq, ok := tr.node(grandchild).Equity()
	require.True(t, ok)
	assert.Equal(t, float32(-1), gq)

	cq, ok := tr.node(child).Equity()
	require.True(t, ok)
	assert.Equal(t, float32(1), cq)

	rq, ok := tr.RootNode().Equity()
	require.True(t, ok)
	assert.Equal(t, float32(-1), rq)
}

func TestChooseBestActionPrefersImmediateWin(t *testing.T) {
	tr, err := NewTree(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)

	children, err := tr.GetChildren(tr.Root())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(children), 2)

	winner := children[0]
	tr.node(winner).evaluated = true
	tr.node(winner).isTerminal = true
	tr.node(winner).evalValue = -1 // loss from the child's own perspective: its mover (root's side) won

	for _, c := range children[1:] {
		tr.node(c).visits = 1000
		tr.node(c).valueSum = 1000 // very high equity, should still lose to the immediate win
	}

	choice, err := tr.ChooseBestAction(0, true)
	require.NoError(t, err)
	assert.Equal(t, winner, choice)
}

func TestChooseBestActionTiesBreakUniformly(t *testing.T) {
	tr, err := NewTree(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)

	children, err := tr.GetChildren(tr.Root())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(children), 2)

	for _, c := range children {
		tr.node(c).visits = 5
		tr.node(c).valueSum = 2
	}

	seen := map[index]bool{}
	for i := 0; i < 200; i++ {
		choice, err := tr.ChooseBestAction(0, true)
		require.NoError(t, err)
		seen[choice] = true
		if len(seen) > 1 {
			break
		}
	}
	assert.Greater(t, len(seen), 1)
}
