package golurk

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCalcStat(t *testing.T) {
	charizard := getCharizard(t, emberMove)
	blastoise := getBlastoise(t, waterGunMove)

	assert.Equal(t, 138, charizard.Stats.Hp)
	assert.Equal(t, 89, charizard.Stats.Attack)
	assert.Equal(t, 105, charizard.Stats.Speed)
	assert.Equal(t, 105, blastoise.Stats.Defense)
	assert.Equal(t, 139, blastoise.Battle.MaxHp)
	assert.Equal(t, blastoise.Battle.MaxHp, blastoise.Battle.Hp)
}

func TestDamageScenarioA(t *testing.T) {
	attacker := getCharizard(t, emberMove)
	defender := getBlastoise(t, waterGunMove)

	// floor(floor(22*40*89/105/50 + 2) * 1.5 * 0.5)
	assert.Equal(t, 12, Damage(&attacker, &defender, emberMove, false))

	rng := CreateRNG(highSource{})
	damage, crit := CalculateDamage(&attacker, &defender, emberMove, rng)
	assert.False(t, crit)
	assert.Equal(t, 12, damage)
}

func TestCritIgnoresNegativeAttackStage(t *testing.T) {
	attacker := getCharizard(t, emberMove)
	defender := getBlastoise(t, waterGunMove)

	attacker.Battle.ModifyStage(STAT_ATTACK, -6)
	require.Equal(t, MIN_STAGE, attacker.Battle.Stage(STAT_ATTACK))

	normal, crit := CalculateDamage(&attacker, &defender, emberMove, CreateRNG(highSource{}))
	require.False(t, crit)

	critDamage, crit := CalculateDamage(&attacker, &defender, emberMove, CreateRNG(lowSource{}))
	require.True(t, crit)

	assert.Equal(t, 3, normal)
	assert.Equal(t, 24, critDamage)
	assert.Greater(t, critDamage, normal)
}

func TestCritIgnoresPositiveDefenseStage(t *testing.T) {
	attacker := getCharizard(t, emberMove)
	defender := getBlastoise(t, waterGunMove)

	unboosted := getBlastoise(t, waterGunMove)

	defender.Battle.ModifyStage(STAT_DEFENSE, 6)

	assert.Less(t, Damage(&attacker, &defender, emberMove, false), Damage(&attacker, &unboosted, emberMove, false))
	assert.Equal(t, 2*Damage(&attacker, &unboosted, emberMove, false), Damage(&attacker, &defender, emberMove, true))
}

func TestStatusMovesDealNoDamage(t *testing.T) {
	attacker := getCharizard(t, growlMove)
	defender := getBlastoise(t, waterGunMove)

	damage, crit := CalculateDamage(&attacker, &defender, growlMove, CreateRNG(lowSource{}))
	assert.Equal(t, 0, damage)
	assert.False(t, crit)
}

func TestImmuneMatchupDealsNoDamage(t *testing.T) {
	attacker := getBlastoise(t, earthquakeMove)
	defender := getCharizard(t, emberMove)

	assert.Equal(t, 0.0, defender.DefenseEffectiveness(TYPE_GROUND))
	assert.Equal(t, 0, Damage(&attacker, &defender, earthquakeMove, false))
}

func TestCritChance(t *testing.T) {
	assert.Equal(t, 1.0/16.0, CritChance(0))
	assert.Equal(t, 1.0/8.0, CritChance(1))
	assert.Equal(t, 1.0/4.0, CritChance(2))
	assert.Equal(t, 1.0/3.0, CritChance(3))
	assert.Equal(t, 1.0/2.0, CritChance(4))
	assert.Equal(t, 1.0/2.0, CritChance(9))
}

func TestAccuracyCheck(t *testing.T) {
	attacker := getCharizard(t, emberMove)
	defender := getBlastoise(t, waterGunMove)

	shaky := newTestMove("shaky", TYPE_NORMAL, DAMAGETYPE_PHYSICAL, 40)
	shaky.Accuracy = 50

	assert.True(t, AccuracyCheck(&attacker, &defender, shaky, CreateRNG(floatSource(0.49))))
	assert.True(t, AccuracyCheck(&attacker, &defender, shaky, CreateRNG(floatSource(0.50))))
	assert.False(t, AccuracyCheck(&attacker, &defender, shaky, CreateRNG(floatSource(0.51))))

	// 100 accuracy always lands since the draw never reaches 100
	assert.True(t, AccuracyCheck(&attacker, &defender, emberMove, CreateRNG(highSource{})))

	defender.Battle.ModifyStage(STAT_EVASION, 6)
	assert.False(t, AccuracyCheck(&attacker, &defender, emberMove, CreateRNG(floatSource(0.5))))

	assert.True(t, AccuracyCheck(&attacker, &defender, swordsDanceMove, CreateRNG(highSource{})))
}

func TestDamageFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stat := rapid.IntRange(1, 255)
		base := func(label string) BaseStats {
			return BaseStats{
				Hp:        stat.Draw(t, label+"_hp"),
				Attack:    stat.Draw(t, label+"_attack"),
				Defense:   stat.Draw(t, label+"_defense"),
				SpAttack:  stat.Draw(t, label+"_spattack"),
				SpDefense: stat.Draw(t, label+"_spdefense"),
				Speed:     stat.Draw(t, label+"_speed"),
			}
		}

		move := newTestMove("generated",
			rapid.SampledFrom(ALL_TYPES).Draw(t, "move_type"),
			rapid.SampledFrom([]string{DAMAGETYPE_PHYSICAL, DAMAGETYPE_SPECIAL}).Draw(t, "damage_class"),
			rapid.IntRange(1, 250).Draw(t, "power"),
		)

		attacker, err := NewPokeBuilder("attacker", []PokemonType{rapid.SampledFrom(ALL_TYPES).Draw(t, "attacker_type")}, base("attacker"), nil).
			SetLevel(rapid.IntRange(1, 100).Draw(t, "attacker_level")).
			SetIvs(StatSpread{}).
			SetMoves([]*Move{move}).
			Build()
		if err != nil {
			t.Fatalf("building attacker: %v", err)
		}

		defender, err := NewPokeBuilder("defender", rapid.SliceOfNDistinct(rapid.SampledFrom(ALL_TYPES), 1, 2, func(p PokemonType) PokemonType { return p }).Draw(t, "defender_types"), base("defender"), nil).
			SetLevel(rapid.IntRange(1, 100).Draw(t, "defender_level")).
			SetIvs(StatSpread{MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV}).
			SetMoves([]*Move{move}).
			Build()
		if err != nil {
			t.Fatalf("building defender: %v", err)
		}

		attacker.Battle.ModifyStage(STAT_ATTACK, rapid.IntRange(MIN_STAGE, MAX_STAGE).Draw(t, "attack_stage"))
		defender.Battle.ModifyStage(STAT_DEFENSE, rapid.IntRange(MIN_STAGE, MAX_STAGE).Draw(t, "defense_stage"))

		seed := rapid.Uint64().Draw(t, "seed")
		damage, _ := CalculateDamage(&attacker, &defender, move, rand.New(rand.NewPCG(seed, seed)))

		if defender.DefenseEffectiveness(move.Type) == 0 {
			if damage != 0 {
				t.Fatalf("immune defender took %d damage", damage)
			}
			return
		}

		if damage < 1 {
			t.Fatalf("damage fell below 1: %d", damage)
		}
	})
}
