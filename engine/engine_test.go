package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/corridors/mcts-engine/game"
	"github.com/corridors/mcts-engine/mcts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MCTS.Seed = 11
	cfg.MCTS.MaxRolloutIters = 500
	cfg.MinSimulations = 50
	cfg.MaxSimulations = 2000
	cfg.SimIncrement = 50
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SimIncrement = 0
	_, err := New(game.NewCorridors(5, 1), cfg, nil)
	require.Error(t, err)
}

func TestEnsureSimsIsNonBlockingAndRaisesTarget(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	defer eng.Shutdown()

	require.NoError(t, eng.EnsureSims(100))
	assert.Equal(t, 100, eng.targetSims)

	deadline := time.Now().Add(2 * time.Second)
	for eng.GetVisitCount() < 100 {
		if time.Now().After(deadline) {
			t.Fatal("worker never reached the raised target")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGetSortedActionsWaitsForMinSimulations(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	defer eng.Shutdown()

	actions, err := eng.GetSortedActions(false)
	require.NoError(t, err)
	assert.NotEmpty(t, actions)
	assert.GreaterOrEqual(t, eng.GetVisitCount(), uint32(50))
}

func TestMakeMoveAdvancesRootAndRejectsUnknownText(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	defer eng.Shutdown()

	actions, err := eng.GetSortedActions(false)
	require.NoError(t, err)
	require.NotEmpty(t, actions)

	err = eng.MakeMove("zzzz-not-a-move", false)
	require.Error(t, err)
	mctsErr, ok := err.(*mcts.Error)
	require.True(t, ok)
	assert.Equal(t, mcts.IllegalOperation, mctsErr.Kind)

	require.NoError(t, eng.MakeMove(actions[0].Text, false))
}

func TestSetStateAndMakeBestMoveReusesMatchingChild(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	defer eng.Shutdown()

	require.NoError(t, eng.EnsureSims(50))

	// A separately-built copy of the same starting position, advanced by
	// one legal move, is logically equal to one of the live root's
	// children - exercising the subtree-reuse path rather than a full
	// Reset.
	root := game.NewCorridors(5, 1)
	var childState game.State
	root.LegalMoves(func(c game.State) {
		if childState == nil {
			childState = c
		}
	})
	require.NotNil(t, childState)

	text, err := eng.SetStateAndMakeBestMove(childState, false)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestSetStateAndMakeBestMoveResetsOnUnknownState(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	defer eng.Shutdown()

	require.NoError(t, eng.EnsureSims(50))

	farState := game.NewCorridors(7, 3) // unrelated board size, can't be a child
	text, err := eng.SetStateAndMakeBestMove(farState, false)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestConcurrentReadersSeeAConsistentTree(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	defer eng.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_, err := eng.GetSortedActions(false)
				assert.NoError(t, err)
				_ = eng.GetVisitCount()
				time.Sleep(time.Millisecond)
			}
		}()
	}
	wg.Wait()
}

func TestShutdownIsIdempotent(t *testing.T) {
	eng, err := New(game.NewCorridors(5, 1), testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, eng.Shutdown())
	require.NoError(t, eng.Shutdown())
}
