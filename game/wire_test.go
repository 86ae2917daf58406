package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireRoundTrip(t *testing.T) {
	s := NewCorridors(9, 10)
	var withWalls State
	s.LegalMoves(func(c State) {
		cc := c.(*Corridors)
		if withWalls == nil && int(cc.villainWallsRemaining) == int(s.heroWallsRemaining)-1 {
			withWalls = c
		}
	})
	require.NotNil(t, withWalls)
	cc := withWalls.(*Corridors)

	w := cc.ToWire()
	back, err := FromWire(w)
	require.NoError(t, err)
	assert.True(t, cc.Eq(back))
}

func TestFromWireRejectsBadSize(t *testing.T) {
	w := NewCorridors(9, 10).ToWire()
	w.HorizontalWalls = w.HorizontalWalls[:len(w.HorizontalWalls)-1]
	_, err := FromWire(w)
	assert.Error(t, err)
}

func TestFromWireRejectsOverlappingPawns(t *testing.T) {
	w := NewCorridors(9, 10).ToWire()
	w.VillainX = w.HeroX
	w.VillainY = w.HeroY
	_, err := FromWire(w)
	assert.Error(t, err)
}

func TestFromWireRejectsOutOfBoundsPawn(t *testing.T) {
	w := NewCorridors(9, 10).ToWire()
	w.HeroX = 100
	_, err := FromWire(w)
	assert.Error(t, err)
}

func TestFromWireRejectsUnreachableGoal(t *testing.T) {
	w := NewCorridors(5, 5).ToWire()
	n := w.N
	// Wall off hero's entire row, sealing it away from every other row.
	for col := 0; col < n; col++ {
		w.HorizontalWalls[horizontalIndex(w.HeroY, col, n)] = true
	}
	for col := 0; col < n-1; col++ {
		w.WallMiddles[wallMiddleIndex(w.HeroY, col, n)] = true
	}
	_, err := FromWire(w)
	assert.Error(t, err)
}
