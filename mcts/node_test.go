package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeEquityUnvisited(t *testing.T) {
	n := &Node{}
	_, ok := n.Equity()
	assert.False(t, ok)
	assert.Equal(t, uint32(0), n.Visits())
}

func TestNodeEquityAveragesBackprop(t *testing.T) {
	n := &Node{}
	n.visits = 4
	n.valueSum = 2
	q, ok := n.Equity()
	assert.True(t, ok)
	assert.InDelta(t, 0.5, q, 1e-6)
}

func TestNodeDecided(t *testing.T) {
	n := &Node{}
	assert.False(t, n.decided())
	n.isTerminal = true
	assert.True(t, n.decided())

	n2 := &Node{isHeuristic: true}
	assert.True(t, n2.decided())
}

func TestNodeReset(t *testing.T) {
	n := &Node{visits: 5, valueSum: 3, evaluated: true, isTerminal: true, parent: index(2)}
	n.reset()
	assert.Equal(t, uint32(0), n.visits)
	assert.Equal(t, float32(0), n.valueSum)
	assert.False(t, n.evaluated)
	assert.False(t, n.isTerminal)
	assert.Equal(t, noIndex, n.parent)
}

func TestUctExplorationClampsEdges(t *testing.T) {
	// A freshly-evaluated parent (visits=1) and an unvisited child must not
	// divide by zero or take log(0).
	u := uctExploration(1, 0)
	assert.GreaterOrEqual(t, u, float32(0))

	// More child visits should shrink the exploration bonus relative to a
	// less-visited sibling under the same parent.
	uLow := uctExploration(100, 1)
	uHigh := uctExploration(100, 50)
	assert.Greater(t, uLow, uHigh)
}

func TestPuctExplorationClampsEdges(t *testing.T) {
	u := puctExploration(1, 0)
	assert.GreaterOrEqual(t, u, float32(0))

	uLow := puctExploration(100, 1)
	uHigh := puctExploration(100, 50)
	assert.Greater(t, uLow, uHigh)
}
