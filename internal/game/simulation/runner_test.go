package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatlab/internal/game/combat"
	"github.com/udisondev/combatlab/internal/model"
)

func testRunner(workers int) *Runner {
	cfg := DefaultConfig()
	cfg.Workers = workers
	cfg.Seed = 2024
	return NewRunner(cfg)
}

func TestRun_IdenticalProfilesAreSymmetric(t *testing.T) {
	s := model.DefaultStatBlock()
	res, err := testRunner(4).Run(context.Background(), s, s, 10000)
	require.NoError(t, err)

	assert.Equal(t, 10000, res.TotalBattles)
	assert.Equal(t, res.TotalBattles, res.WinsA+res.WinsB+res.Draws)
	assert.InDelta(t, res.WinRateA(), res.WinRateB(), 0.02)
	assert.Equal(t, res.WinsA, res.WinsB, "mirrored pairs cancel exactly")
}

func TestRun_StrongerSideWins(t *testing.T) {
	a := model.StatBlock{HP: 100, Damage: 20, TxC: 100}
	b := model.StatBlock{HP: 100, Damage: 5, TxC: 100}

	res, err := testRunner(3).Run(context.Background(), a, b, 101)
	require.NoError(t, err)
	assert.Equal(t, 101, res.WinsA)
	assert.Equal(t, 1.0, res.WinRateA())
	assert.Equal(t, 5.0, res.AverageTurns)
	assert.Zero(t, res.CappedBattles)
}

func TestRun_TurnCapForcesDraw(t *testing.T) {
	harmless := model.StatBlock{HP: 100}
	cfg := DefaultConfig()
	cfg.MaxTurns = 20
	res, err := NewRunner(cfg).Run(context.Background(), harmless, harmless, 50)
	require.NoError(t, err)

	assert.Equal(t, 50, res.Draws)
	assert.Equal(t, 50, res.CappedBattles)
	assert.Equal(t, 20.0, res.AverageTurns)
	assert.Equal(t, 1.0, res.DrawRate())
	assert.Equal(t, 0.5, res.Score())
}

func TestRun_TurnCapHPPolicy(t *testing.T) {
	a := model.StatBlock{HP: 100, Damage: 1, TxC: 100}
	b := model.StatBlock{HP: 1000}
	cfg := DefaultConfig()
	cfg.MaxTurns = 10
	cfg.CapPolicy = CapHP
	res, err := NewRunner(cfg).Run(context.Background(), a, b, 10)
	require.NoError(t, err)

	assert.Equal(t, 10, res.WinsA)
	assert.Equal(t, 10, res.CappedBattles)
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	a := model.StatBlock{HP: 80, Damage: 12, TxC: 10, Evasion: 5, CritChance: 15, CritMult: 2, FailChance: 5}
	b := model.StatBlock{HP: 110, Damage: 9, TxC: 5, Evasion: 10, Armor: 2}

	one, err := testRunner(1).Run(context.Background(), a, b, 999)
	require.NoError(t, err)
	many, err := testRunner(7).Run(context.Background(), a, b, 999)
	require.NoError(t, err)

	assert.Equal(t, one, many)
}

func TestRun_Teams(t *testing.T) {
	hitter := model.StatBlock{HP: 50, Damage: 25, TxC: 100}
	res, err := testRunner(2).RunTeams(context.Background(),
		[]model.StatBlock{hitter, hitter}, []model.StatBlock{hitter}, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, res.WinsA, "two identical hitters beat one")
}

func TestRun_Errors(t *testing.T) {
	s := model.DefaultStatBlock()
	_, err := testRunner(1).Run(context.Background(), s, s, 0)
	assert.ErrorIs(t, err, ErrNoIterations)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = testRunner(2).Run(ctx, s, s, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplay_LogsBattle(t *testing.T) {
	a := model.StatBlock{HP: 100, Damage: 20, TxC: 100}
	b := model.StatBlock{HP: 100, Damage: 5, TxC: 100}
	st := testRunner(1).Replay([]model.StatBlock{a}, []model.StatBlock{b}, 1)

	assert.True(t, st.Finished)
	assert.Equal(t, combat.OutcomeTeamA, st.Winner)
	assert.Equal(t, combat.TeamB, st.Initiative, "odd iterations start with side B")
	assert.NotEmpty(t, st.Log)
}

func TestSpan(t *testing.T) {
	covered := 0
	prevHi := 0
	for w := range 4 {
		lo, hi := span(10, 4, w)
		assert.Equal(t, prevHi, lo)
		covered += hi - lo
		prevHi = hi
	}
	assert.Equal(t, 10, covered)
}

func TestParseCapPolicy(t *testing.T) {
	p, err := ParseCapPolicy("hp")
	require.NoError(t, err)
	assert.Equal(t, CapHP, p)
	assert.Equal(t, "hp", p.String())

	p, err = ParseCapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, CapDraw, p)

	_, err = ParseCapPolicy("coin")
	assert.Error(t, err)
}
