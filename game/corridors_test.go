package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCorridorsStartingPosition(t *testing.T) {
	s := NewCorridors(9, 10)
	x, y := s.HeroPos()
	assert.Equal(t, 4, x)
	assert.Equal(t, 0, y)
	vx, vy := s.VillainPos()
	assert.Equal(t, 4, vx)
	assert.Equal(t, 8, vy)
	assert.Equal(t, 10, s.HeroWallsRemaining())
	assert.Equal(t, 10, s.VillainWallsRemaining())
	assert.False(t, s.IsTerminal())
	assert.False(t, s.Flip())
}

func TestLegalMovesFromStart(t *testing.T) {
	s := NewCorridors(9, 10)
	var children []State
	s.LegalMoves(func(c State) { children = append(children, c) })

	// hero sits on row 0: N, E, W are open, S is off-board - three pawn
	// moves - plus every still-legal wall placement.
	pawnMoves := 0
	for _, c := range children {
		cc := c.(*Corridors)
		if int(cc.villainWallsRemaining) == int(s.heroWallsRemaining) {
			pawnMoves++
		}
	}
	assert.Equal(t, 3, pawnMoves)
	assert.Greater(t, len(children), 3)

	for _, c := range children {
		cc := c.(*Corridors)
		assert.True(t, cc.Flip() != s.Flip())
		assert.False(t, cc.IsTerminal())
	}
}

func TestEqAndClone(t *testing.T) {
	s := NewCorridors(9, 10)
	clone := s.Clone()
	assert.True(t, s.Eq(clone))

	var children []State
	s.LegalMoves(func(c State) { children = append(children, c) })
	require.NotEmpty(t, children)
	assert.False(t, s.Eq(children[0]))

	// mutating the clone's wall bitmaps must not affect the original -
	// Clone is required to deep-copy them.
	cc := clone.(*Corridors)
	cc.horizontalWalls.set(0, true)
	assert.False(t, s.horizontalWalls.get(0))
}

func TestPawnMoveActionText(t *testing.T) {
	s := NewCorridors(9, 10)
	var north State
	s.LegalMoves(func(c State) {
		cc := c.(*Corridors)
		if cc.villainPos.X == s.heroPos.X && cc.villainPos.Y == s.heroPos.Y+1 {
			north = c
		}
	})
	require.NotNil(t, north)
	assert.Equal(t, "e2", s.ActionText(north, false))
}

func TestWallMoveActionText(t *testing.T) {
	s := NewCorridors(9, 10)
	var wallChild State
	s.LegalMoves(func(c State) {
		cc := c.(*Corridors)
		if int(cc.villainWallsRemaining) != int(s.heroWallsRemaining)-1 {
			return
		}
		if cc.wallMiddles.get(wallMiddleIndex(0, 0, 9)) && wallChild == nil {
			wallChild = c
		}
	})
	require.NotNil(t, wallChild)
	text := s.ActionText(wallChild, false)
	assert.Regexp(t, `^a1[hv]$`, text)
}

func TestTerminalValue(t *testing.T) {
	s := NewCorridors(5, 0)
	s.heroPos = Pos{2, 0}
	s.villainPos = Pos{2, 4}
	assert.False(t, s.IsTerminal())

	// villain already sitting on its own goal row (row 0) means villain,
	// the side that just moved, won.
	s.villainPos = Pos{1, 0}
	assert.True(t, s.IsTerminal())
	assert.Equal(t, float32(-1), s.TerminalValue())

	s.villainPos = Pos{2, 4}
	s.heroPos = Pos{1, 4}
	assert.True(t, s.IsTerminal())
	assert.Equal(t, float32(1), s.TerminalValue())
}

func TestCheckNonTerminalEvalAndRank(t *testing.T) {
	s := NewCorridors(9, 10)
	// no walls spent by either side yet and pawns equidistant - not decided.
	_, ok := s.CheckNonTerminalEval()
	assert.False(t, ok)

	// strip both sides of walls and put hero one step from goal, villain
	// seven steps from its own goal row: villain has no walls left to
	// lengthen hero's path, so hero's 1-step race beats villain's 7.
	near := NewCorridors(9, 0)
	near.heroPos = Pos{4, 7}
	near.villainPos = Pos{8, 7}
	v, ok := near.CheckNonTerminalEval()
	assert.True(t, ok)
	assert.Equal(t, float32(1), v)

	rank := near.NonTerminalRank()
	assert.GreaterOrEqual(t, rank, 0)
}
