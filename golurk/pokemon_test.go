package golurk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTypeMultiplierIsTotal(t *testing.T) {
	allowed := []float64{0, 0.5, 1, 2}

	rapid.Check(t, func(t *rapid.T) {
		attack := rapid.SampledFrom(ALL_TYPES).Draw(t, "attack")
		defend := rapid.SampledFrom(ALL_TYPES).Draw(t, "defend")

		multiplier := TypeMultiplier(attack, defend)
		assert.Contains(t, allowed, multiplier)
	})

	// every pair, not just what rapid happens to draw
	for _, attack := range ALL_TYPES {
		for _, defend := range ALL_TYPES {
			assert.Contains(t, allowed, TypeMultiplier(attack, defend), "%s vs %s", attack, defend)
		}
	}
}

func TestTypeMatchups(t *testing.T) {
	assert.Equal(t, 2.0, TypeMultiplier(TYPE_WATER, TYPE_FIRE))
	assert.Equal(t, 0.5, TypeMultiplier(TYPE_FIRE, TYPE_WATER))
	assert.Equal(t, 0.0, TypeMultiplier(TYPE_GROUND, TYPE_FLYING))
	assert.Equal(t, 0.0, TypeMultiplier(TYPE_NORMAL, TYPE_GHOST))
	assert.Equal(t, 1.0, TypeMultiplier(TYPE_NORMAL, TYPE_WATER))

	venusaur := getVenusaur(t, vineWhipMove)
	charizard := getCharizard(t, emberMove)
	assert.Equal(t, 4.0, charizard.DefenseEffectiveness(TYPE_ROCK))
	assert.Equal(t, 2.0, venusaur.DefenseEffectiveness(TYPE_FIRE))
	assert.Equal(t, 0.25, venusaur.DefenseEffectiveness(TYPE_GRASS))

	parsed, ok := ParseType("Fire")
	assert.True(t, ok)
	assert.Equal(t, TYPE_FIRE, parsed)

	_, ok = ParseType("sound")
	assert.False(t, ok)
}

func TestStageMultiplierMonotonic(t *testing.T) {
	assert.Equal(t, 1.0, StageMultiplier(0))
	assert.Equal(t, 1.0, AccuracyStageMultiplier(0))

	rapid.Check(t, func(t *rapid.T) {
		stage := rapid.IntRange(MIN_STAGE, MAX_STAGE-1).Draw(t, "stage")

		if StageMultiplier(stage) > StageMultiplier(stage+1) {
			t.Fatalf("stage multiplier decreased from %d to %d", stage, stage+1)
		}
		if AccuracyStageMultiplier(stage) > AccuracyStageMultiplier(stage+1) {
			t.Fatalf("accuracy multiplier decreased from %d to %d", stage, stage+1)
		}
	})

	assert.Equal(t, 4.0, StageMultiplier(6))
	assert.Equal(t, 0.25, StageMultiplier(-6))
	assert.Equal(t, 3.0, AccuracyStageMultiplier(6))
	assert.InDelta(t, 1.0/3.0, AccuracyStageMultiplier(-6), 1e-9)
}

func TestModifyStageClamps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stats := NewBattleStats(100, nil)
		stat := rapid.SampledFrom(STAGED_STATS).Draw(t, "stat")
		deltas := rapid.SliceOf(rapid.IntRange(-12, 12)).Draw(t, "deltas")

		for _, delta := range deltas {
			before := stats.Stage(stat)
			applied := stats.ModifyStage(stat, delta)
			after := stats.Stage(stat)

			if after < MIN_STAGE || after > MAX_STAGE {
				t.Fatalf("stage %d escaped the clamp", after)
			}
			if after-before != applied {
				t.Fatalf("applied delta %d does not match the stage change %d -> %d", applied, before, after)
			}
		}
	})
}

func TestModifyStageIdempotentAtBoundary(t *testing.T) {
	stats := NewBattleStats(100, nil)
	stats.ModifyStage(STAT_ATTACK, 6)

	for range 10 {
		assert.Equal(t, 0, stats.ModifyStage(STAT_ATTACK, 1))
		assert.Equal(t, MAX_STAGE, stats.Stage(STAT_ATTACK))
	}

	stats.ModifyStage(STAT_SPEED, -20)
	assert.Equal(t, MIN_STAGE, stats.Stage(STAT_SPEED))
}

func TestPPBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxPP := rapid.IntRange(1, 40).Draw(t, "max_pp")
		move := &Move{Name: "test-move", PP: maxPP}
		stats := NewBattleStats(100, []*Move{move})

		ops := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(t, "ops")
		for _, op := range ops {
			before := stats.PP[move.Name]

			switch op {
			case 0, 1, 2:
				err := stats.UsePP(move.Name)
				if before == 0 {
					if !errors.Is(err, ErrExhaustedResource) {
						t.Fatalf("using pp at 0 returned %v", err)
					}
				} else if err != nil {
					t.Fatalf("using pp at %d failed: %v", before, err)
				}
			case 3:
				stats.RestorePP(move.Name, rapid.IntRange(0, 50).Draw(t, "restore"))
			}

			pp := stats.PP[move.Name]
			if pp < 0 || pp > maxPP {
				t.Fatalf("pp %d left [0, %d]", pp, maxPP)
			}
		}
	})
}

func TestUsePPUnknownMove(t *testing.T) {
	stats := NewBattleStats(100, []*Move{tackleMove})
	assert.ErrorIs(t, stats.UsePP("hyper-beam"), ErrExhaustedResource)
}

func TestStatusExclusivity(t *testing.T) {
	kinds := []StatusKind{STATUS_PARA, STATUS_BURN, STATUS_POISON, STATUS_SLEEP, STATUS_FROZEN}

	rapid.Check(t, func(t *rapid.T) {
		stats := NewBattleStats(100, nil)
		first := rapid.SampledFrom(kinds).Draw(t, "first")
		require.True(t, stats.ApplyStatusIfFree(first))

		for _, kind := range rapid.SliceOf(rapid.SampledFrom(kinds)).Draw(t, "others") {
			if stats.ApplyStatusIfFree(kind) {
				t.Fatalf("status %s replaced %s", kind, first)
			}
			if stats.Status != first {
				t.Fatalf("status changed to %s", stats.Status)
			}
		}

		stats.ClearStatus()
		if !stats.ApplyStatusIfFree(STATUS_BURN) {
			t.Fatalf("status could not be applied after clearing")
		}
	})
}

func TestTakeDamageAndHealClamp(t *testing.T) {
	stats := NewBattleStats(50, nil)

	assert.Equal(t, 20, stats.TakeDamage(20))
	assert.Equal(t, 30, stats.Hp)

	assert.Equal(t, 30, stats.TakeDamage(999))
	assert.Equal(t, 0, stats.Hp)
	assert.True(t, stats.IsFainted())

	assert.Equal(t, 50, stats.Heal(999))
	assert.Equal(t, 50, stats.Hp)
	assert.Equal(t, 0, stats.Heal(10))
	assert.Equal(t, 0, stats.TakeDamage(-5))
}

func TestEffectiveStat(t *testing.T) {
	charizard := getCharizard(t, emberMove)

	assert.Equal(t, 105, charizard.EffectiveStat(STAT_SPEED))

	charizard.Battle.ModifyStage(STAT_SPEED, 1)
	assert.Equal(t, 157, charizard.EffectiveStat(STAT_SPEED))

	// paralysis is applied after the stage and truncates again
	charizard.Battle.Status = STATUS_PARA
	assert.Equal(t, 39, charizard.EffectiveStat(STAT_SPEED))
	assert.Equal(t, 39, charizard.Speed())

	charizard.Battle.ModifyStage(STAT_ATTACK, -1)
	assert.Equal(t, 59, charizard.EffectiveStat(STAT_ATTACK))
}

func TestEffectiveAccuracyAndEvasion(t *testing.T) {
	charizard := getCharizard(t, emberMove)

	assert.Equal(t, 100, charizard.EffectiveStat(STAT_ACCURACY))
	assert.Equal(t, 100, charizard.EffectiveStat(STAT_EVASION))

	charizard.Battle.ModifyStage(STAT_ACCURACY, 1)
	charizard.Battle.ModifyStage(STAT_EVASION, -1)
	assert.Equal(t, 133, charizard.EffectiveStat(STAT_ACCURACY))
	assert.Equal(t, 75, charizard.EffectiveStat(STAT_EVASION))

	charizard.Battle.ModifyStage(STAT_ACCURACY, 6)
	charizard.Battle.ModifyStage(STAT_EVASION, -6)
	assert.Equal(t, 300, charizard.EffectiveStat(STAT_ACCURACY))
	assert.Equal(t, 33, charizard.EffectiveStat(STAT_EVASION))

	// paralysis only touches speed
	charizard.Battle.Status = STATUS_PARA
	assert.Equal(t, 300, charizard.EffectiveStat(STAT_ACCURACY))
}

func TestCloneDoesNotShareBattleState(t *testing.T) {
	original := getCharizard(t, emberMove)
	clone := original.Clone()

	require.NoError(t, clone.Battle.UsePP(emberMove.Name))
	clone.Battle.ModifyStage(STAT_ATTACK, 2)
	clone.Battle.TakeDamage(10)

	assert.Equal(t, emberMove.PP, original.Battle.PP[emberMove.Name])
	assert.Equal(t, 0, original.Battle.Stage(STAT_ATTACK))
	assert.Equal(t, original.Battle.MaxHp, original.Battle.Hp)
}

func TestBuilderValidation(t *testing.T) {
	_, err := NewPokeBuilder("Missingno", []PokemonType{TYPE_NORMAL}, charizardBase, nil).
		SetLevel(0).
		SetIvs(StatSpread{32}).
		SetEvs(StatSpread{252, 252, 252}).
		Build()

	require.ErrorIs(t, err, ErrInvalidPokemon)
	assert.ErrorContains(t, err, "level")
	assert.ErrorContains(t, err, "moves")
	assert.ErrorContains(t, err, "IV")
	assert.ErrorContains(t, err, "EV total")
}

func TestBuilderRejectsDuplicateMoves(t *testing.T) {
	renamed := *emberMove
	renamed.Name = "Ember"

	_, err := NewPokeBuilder("Charizard", []PokemonType{TYPE_FIRE}, charizardBase, nil).
		SetLevel(50).
		SetMoves([]*Move{emberMove, &renamed}).
		Build()

	require.ErrorIs(t, err, ErrInvalidPokemon)
	assert.ErrorContains(t, err, "duplicate moves")

	_, err = NewPokeBuilder("Charizard", []PokemonType{TYPE_FIRE}, charizardBase, nil).
		SetLevel(50).
		SetMoves([]*Move{emberMove, emberMove}).
		Build()
	assert.ErrorIs(t, err, ErrInvalidPokemon)
}

func TestBuilderRandomIvs(t *testing.T) {
	pokemon, err := NewPokeBuilder("Charizard", []PokemonType{TYPE_FIRE}, charizardBase, CreateRNG(floatSource(0.999))).
		SetLevel(100).
		SetMoves([]*Move{emberMove}).
		Build()
	require.NoError(t, err)

	for _, iv := range pokemon.Ivs {
		assert.Equal(t, MAX_IV, iv)
	}
	assert.NotNil(t, pokemon.Ability)
}
