package service

import (
	"context"
	"testing"

	"focus-quest/internal/domain/battle"
	"focus-quest/internal/domain/randsrc"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/xerrors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFight_WinPersistsRewards(t *testing.T) {
	users := newFakeUserRepo()
	// 0 < 任何胜率, 必胜
	deps, _, m := testDeps(t, &randsrc.Scripted{Fallback: 0})
	svc := NewBattleService(users, deps)

	res, err := svc.Fight(context.Background(), &FightRequest{
		UserID: "u1",
		Opponent: OpponentRequest{
			Name:  "Training Dummy",
			Stats: &battle.BattlerStats{Health: 150, Attack: 10, Defense: 10, Speed: 10, Level: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Result.Won)
	assert.Equal(t, battle.DifficultyFair, res.Result.Difficulty)
	assert.GreaterOrEqual(t, res.Result.XPEarned, battle.WinXP)
	assert.NotEmpty(t, res.BattleID)
	assert.Equal(t, res.Result.GoldEarned, res.TotalGold)

	stored, err := users.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.BattlesWon)
	assert.Equal(t, res.Result.XPEarned, stored.TotalXP)
	assert.Equal(t, res.Result.GoldEarned, stored.Gold)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.BattlesTotal.WithLabelValues("victory", "fair", metrics.GetServiceName())))
}

func TestFight_LossGrantsConsolationXP(t *testing.T) {
	users := newFakeUserRepo()
	// 0.99 高于胜率上限, 必败
	deps, _, _ := testDeps(t, &randsrc.Scripted{Fallback: 0.99})
	svc := NewBattleService(users, deps)

	res, err := svc.Fight(context.Background(), &FightRequest{
		UserID:   "u1",
		Opponent: OpponentRequest{Name: "Legacy Foe", Power: 1300},
	})
	require.NoError(t, err)
	assert.False(t, res.Result.Won)
	assert.Equal(t, battle.LossXP, res.Result.XPEarned)
	assert.Zero(t, res.Result.GoldEarned)

	stored, err := users.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.BattlesLost)
}

func TestFight_DeterministicGold(t *testing.T) {
	opponent := OpponentRequest{
		ID:    "npc-42",
		Name:  "Bandit",
		Stats: &battle.BattlerStats{Health: 150, Attack: 10, Defense: 10, Speed: 10, Level: 1},
	}

	var gold []int
	for i := 0; i < 2; i++ {
		deps, _, _ := testDeps(t, &randsrc.Scripted{Fallback: 0})
		svc := NewBattleService(newFakeUserRepo(), deps)
		res, err := svc.Fight(context.Background(), &FightRequest{UserID: "u1", Opponent: opponent, DeterministicGold: true})
		require.NoError(t, err)
		require.True(t, res.Result.Won)
		gold = append(gold, res.Result.GoldEarned)
	}
	assert.Equal(t, gold[0], gold[1])

	gr := battle.DifficultyFair.GoldRange()
	assert.GreaterOrEqual(t, gold[0], gr.Min)
}

func TestFight_InvalidRequests(t *testing.T) {
	deps, _, _ := testDeps(t, nil)
	svc := NewBattleService(newFakeUserRepo(), deps)
	ctx := context.Background()

	_, err := svc.Fight(ctx, &FightRequest{Opponent: OpponentRequest{Name: "x", Power: 1000}})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))

	_, err = svc.Fight(ctx, &FightRequest{UserID: "u1", Opponent: OpponentRequest{Name: "x"}})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidStats))

	_, err = svc.Fight(ctx, &FightRequest{UserID: "u1", Opponent: OpponentRequest{
		Name: "x", Stats: &battle.BattlerStats{Health: 150, Attack: -1},
	}})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidStats))

	_, err = svc.Fight(ctx, &FightRequest{UserID: "u1", DeterministicGold: true, Opponent: OpponentRequest{Name: "x", Power: 1000}})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))
}
