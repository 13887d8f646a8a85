package campaign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/squadfall/internal/config"
	"github.com/udisondev/squadfall/internal/game/battle"
)

func playBattle(t *testing.T, c *Campaign, outcome battle.Outcome, remaining uint32) float32 {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.StartBattle(ctx))
	require.Equal(t, PhaseBattle, c.Phase())
	score, err := c.FinishBattle(ctx, outcome, remaining)
	require.NoError(t, err)
	return score
}

func TestCampaign_VictoryScenario(t *testing.T) {
	cfg := config.DefaultCampaign()
	cfg.StartingGold = 10
	c := New(cfg)
	require.Equal(t, PhasePreparation, c.Phase())

	score := playBattle(t, c, battle.Victory, 5)
	assert.InDelta(t, 5*1.2+10*2.0, score, 1e-5)
	assert.Equal(t, PhaseVictory, c.Phase())
	assert.Equal(t, 1, c.Progress().Wins)
	assert.Equal(t, 2, c.Progress().Round)

	require.NoError(t, c.NextRound(context.Background()))
	assert.Equal(t, PhasePreparation, c.Phase())
	assert.InDelta(t, score, c.TotalScore(), 1e-5, "score computed once")
}

func TestCampaign_DefeatScenario(t *testing.T) {
	c := New(config.DefaultCampaign())

	score := playBattle(t, c, battle.Defeat, 0)
	assert.Zero(t, score)
	assert.Equal(t, PhaseDefeat, c.Phase())
	assert.Equal(t, 1, c.Progress().Losses)
	assert.Equal(t, 1, c.Progress().Round, "defeat does not advance the round")
}

func TestCampaign_EndsAfterThreeDefeats(t *testing.T) {
	ctx := context.Background()
	c := New(config.DefaultCampaign())

	for i := range 3 {
		playBattle(t, c, battle.Defeat, 0)
		require.NoError(t, c.NextRound(ctx))
		if i < 2 {
			assert.Equal(t, PhasePreparation, c.Phase())
		}
	}
	assert.Equal(t, PhaseGameOver, c.Phase())
	assert.False(t, c.Progress().Won())

	err := c.StartBattle(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGameOver))
	assert.Equal(t, PhaseGameOver, c.Phase())
}

func TestCampaign_WinsCampaign(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultCampaign()
	cfg.VictoryGold = 5
	c := New(cfg)

	for range cfg.WinsToFinish {
		playBattle(t, c, battle.Victory, 1)
		require.NoError(t, c.NextRound(ctx))
	}
	assert.Equal(t, PhaseGameOver, c.Phase())
	assert.True(t, c.Progress().Won())
	assert.Equal(t, 50, c.Gold())
}

func TestCampaign_AbortBattle(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultCampaign()
	cfg.StartingGold = 4
	c := New(cfg)

	assert.Error(t, c.AbortBattle(ctx), "no battle running")

	require.NoError(t, c.StartBattle(ctx))
	require.NoError(t, c.AbortBattle(ctx))

	assert.Equal(t, PhasePreparation, c.Phase())
	assert.Zero(t, c.Progress().Battles())
	assert.Equal(t, battle.Ongoing, c.Progress().History[0])
	assert.Zero(t, c.LastScore())
	assert.Zero(t, c.TotalScore())

	// The aborted round is played again from scratch.
	score := playBattle(t, c, battle.Victory, 2)
	assert.InDelta(t, 2*1.2+4*2.0, score, 1e-5)
	assert.InDelta(t, score, c.TotalScore(), 1e-5)
	assert.Equal(t, battle.Victory, c.Progress().History[0])
}

func TestCampaign_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	c := New(config.DefaultCampaign())

	_, err := c.FinishBattle(ctx, battle.Victory, 1)
	assert.Error(t, err, "no battle running")
	assert.Error(t, c.NextRound(ctx))

	require.NoError(t, c.StartBattle(ctx))
	_, err = c.FinishBattle(ctx, battle.Ongoing, 1)
	assert.Error(t, err)
	assert.Equal(t, PhaseBattle, c.Phase())
}

func TestCampaign_SnapshotRestore(t *testing.T) {
	cfg := config.DefaultCampaign()
	c := New(cfg)
	playBattle(t, c, battle.Victory, 3)

	snap := c.Snapshot()
	restored := Restore(snap, cfg)
	assert.Equal(t, snap, restored.Snapshot())

	require.NoError(t, restored.NextRound(context.Background()))
	assert.Equal(t, PhasePreparation, restored.Phase())

	snap.Phase = PhaseBattle
	assert.Equal(t, PhasePreparation, Restore(snap, cfg).Phase())
}
