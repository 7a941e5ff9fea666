package arena

import (
	"testing"

	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func getEnv(t require.TestingT, cfg Config) *Env {
	d, err := dex.Default()
	require.NoError(t, err)

	env, err := New(d, cfg)
	require.NoError(t, err)

	return env
}

func assertObservationInRange(t require.TestingT, obs Observation) {
	for i, value := range obs {
		assert.GreaterOrEqual(t, value, 0.0, "observation %d", i)
		assert.LessOrEqual(t, value, 1.0, "observation %d", i)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	env := getEnv(t, Config{})
	assert.Equal(t, 3, env.cfg.TeamSize)
	assert.Equal(t, dex.DEFAULT_LEVEL, env.cfg.Level)
	assert.Equal(t, 100, env.cfg.MaxTurns)

	d, err := dex.Default()
	require.NoError(t, err)

	_, err = New(d, Config{TeamSize: 7, MaxTurns: -1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "team size")
	assert.ErrorContains(t, err, "max turns")
}

func TestStepBeforeReset(t *testing.T) {
	env := getEnv(t, Config{})

	_, err := env.Step(0)
	assert.ErrorIs(t, err, ErrNotReset)
	assert.Equal(t, []bool{false, false, false, false}, env.ValidActions())
}

func TestResetIsReproducible(t *testing.T) {
	env := getEnv(t, Config{})

	first, err := env.Reset(42)
	require.NoError(t, err)
	firstTeam := env.Battle().TeamView(golurk.PLAYER)

	second, err := env.Reset(42)
	require.NoError(t, err)
	secondTeam := env.Battle().TeamView(golurk.PLAYER)

	assert.Equal(t, first, second)
	require.Len(t, secondTeam, len(firstTeam))
	for i := range firstTeam {
		assert.Equal(t, firstTeam[i].Name, secondTeam[i].Name)
	}

	assertObservationInRange(t, first)
	assert.Equal(t, 1.0, first[0])
	assert.Equal(t, 1.0, first[1])
}

func TestInvalidAction(t *testing.T) {
	env := getEnv(t, Config{})
	_, err := env.Reset(1)
	require.NoError(t, err)

	_, err = env.Step(-1)
	assert.ErrorIs(t, err, ErrInvalidAction)
	_, err = env.Step(ACTION_COUNT)
	assert.ErrorIs(t, err, ErrInvalidAction)

	assert.Equal(t, 0, env.Battle().Turn)
}

func TestEpisodeRunsToCompletion(t *testing.T) {
	env := getEnv(t, Config{})
	policy := NewRandomPolicy(9)

	obs, err := env.Reset(9)
	require.NoError(t, err)

	var step StepResult
	for !step.Done() {
		step, err = env.Step(policy.Act(obs, env.ValidActions()))
		require.NoError(t, err)

		obs = step.Observation
		assertObservationInRange(t, obs)
		assert.NotEmpty(t, step.Log)
	}

	if step.Terminated {
		assert.True(t, env.Battle().IsBattleOver())
	} else {
		assert.Equal(t, 100, step.Turn)
	}

	_, err = env.Step(0)
	assert.ErrorIs(t, err, ErrEpisodeDone)
}

func TestTruncation(t *testing.T) {
	env := getEnv(t, Config{MaxTurns: 1})

	obs, err := env.Reset(5)
	require.NoError(t, err)

	step, err := env.Step(GreedyPolicy.Act(obs, env.ValidActions()))
	require.NoError(t, err)
	assert.True(t, step.Done())
	assert.NotEqual(t, step.Terminated, step.Truncated)
	assert.Equal(t, 1, step.Turn)
}

func TestRewardIsBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := getEnv(t, Config{TeamSize: rapid.IntRange(1, 6).Draw(t, "team_size")})
		seed := rapid.Uint64().Draw(t, "seed")

		obs, err := env.Reset(seed)
		require.NoError(t, err)

		policy := NewRandomPolicy(seed)
		for turn := 0; turn < 10; turn++ {
			step, err := env.Step(policy.Act(obs, env.ValidActions()))
			require.NoError(t, err)

			// hp deltas are each in [-1, 1] and the terminal bonus adds at most 1
			assert.LessOrEqual(t, step.Reward, 2.0)
			assert.GreaterOrEqual(t, step.Reward, -2.0)
			assertObservationInRange(t, step.Observation)

			obs = step.Observation
			if step.Done() {
				break
			}
		}
	})
}

func TestValidActionsTracksPP(t *testing.T) {
	env := getEnv(t, Config{TeamSize: 1})
	_, err := env.Reset(3)
	require.NoError(t, err)

	active := env.Battle().Player.GetActivePokemon()
	for i, move := range active.Moves {
		if i > 0 {
			active.Battle.PP[move.Name] = 0
		}
	}

	mask := env.ValidActions()
	assert.True(t, mask[0])
	assert.Equal(t, 1, len(validIndices(mask)))

	active.Battle.PP[active.Moves[0].Name] = 0
	assert.Equal(t, []bool{true, false, false, false}, env.ValidActions())
}

func TestGreedyPolicy(t *testing.T) {
	obs := Observation{}
	obs[2] = 0.2
	obs[3] = 0.9
	obs[4] = 0.5

	assert.Equal(t, 1, GreedyPolicy.Act(obs, []bool{true, true, true, false}))
	assert.Equal(t, 2, GreedyPolicy.Act(obs, []bool{true, false, true, false}))
	assert.Equal(t, 0, GreedyPolicy.Act(obs, []bool{false, false, false, false}))
}

func TestEvaluate(t *testing.T) {
	env := getEnv(t, Config{TeamSize: 2, MaxTurns: 50})

	summary, err := Evaluate(env, NewRandomPolicy(1), 5, 100)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Episodes)
	assert.Equal(t, 5, summary.Wins+summary.Losses+summary.Draws)
	require.Len(t, summary.Results, 5)
	assert.Greater(t, summary.AvgTurns, 0.0)
	assert.LessOrEqual(t, summary.AvgTurns, 50.0)
	assert.InDelta(t, float64(summary.Wins)/5, summary.WinRate(), 1e-9)

	for i, result := range summary.Results {
		assert.Equal(t, i+1, result.Episode)
		assert.Equal(t, uint64(100+i), result.Seed)
	}

	again, err := Evaluate(env, NewRandomPolicy(1), 5, 100)
	require.NoError(t, err)
	assert.Equal(t, summary, again)

	empty, err := Evaluate(env, NewRandomPolicy(1), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.WinRate())
}
