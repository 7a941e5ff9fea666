package golurk

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// lowSource makes every roll succeed: Float64 is always 0
type lowSource struct{}

func (lowSource) Uint64() uint64 {
	return 0
}

// highSource makes every roll below 100% fail
type highSource struct{}

func (highSource) Uint64() uint64 {
	return math.MaxUint64
}

// floatSource makes Float64 return the given value
type floatSource float64

func (f floatSource) Uint64() uint64 {
	return uint64(float64(f) * (1 << 53))
}

var (
	charizardBase = BaseStats{Hp: 78, Attack: 84, Defense: 78, SpAttack: 109, SpDefense: 85, Speed: 100}
	blastoiseBase = BaseStats{Hp: 79, Attack: 83, Defense: 100, SpAttack: 85, SpDefense: 105, Speed: 78}
	venusaurBase  = BaseStats{Hp: 80, Attack: 82, Defense: 83, SpAttack: 100, SpDefense: 100, Speed: 80}
	pikachuBase   = BaseStats{Hp: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90}
)

func newTestMove(name string, moveType PokemonType, damageClass string, power int) *Move {
	return &Move{
		Name:        name,
		Accuracy:    100,
		PP:          10,
		Power:       power,
		DamageClass: damageClass,
		Target:      "selected-pokemon",
		Type:        moveType,
	}
}

var (
	emberMove      = newTestMove("ember", TYPE_FIRE, DAMAGETYPE_PHYSICAL, 40)
	tackleMove     = newTestMove("tackle", TYPE_NORMAL, DAMAGETYPE_PHYSICAL, 40)
	waterGunMove   = newTestMove("water-gun", TYPE_WATER, DAMAGETYPE_SPECIAL, 40)
	vineWhipMove   = newTestMove("vine-whip", TYPE_GRASS, DAMAGETYPE_PHYSICAL, 45)
	earthquakeMove = newTestMove("earthquake", TYPE_GROUND, DAMAGETYPE_PHYSICAL, 100)
	growlMove      = &Move{
		Name:        "growl",
		Accuracy:    100,
		PP:          40,
		DamageClass: DAMAGETYPE_STATUS,
		Target:      "all-opponents",
		Type:        TYPE_NORMAL,
		StatChanges: []StatChange{{Change: -1, StatName: STAT_ATTACK}},
	}
	swordsDanceMove = &Move{
		Name:        "swords-dance",
		Accuracy:    ACCURACY_ALWAYS_HITS,
		PP:          20,
		DamageClass: DAMAGETYPE_STATUS,
		Target:      TARGET_USER,
		Type:        TYPE_NORMAL,
		StatChanges: []StatChange{{Change: 2, StatName: STAT_ATTACK}},
	}
	toxicMove = &Move{
		Name:        "toxic",
		Accuracy:    90,
		PP:          10,
		DamageClass: DAMAGETYPE_STATUS,
		Target:      "selected-pokemon",
		Type:        TYPE_POISON,
		Meta:        MoveMeta{Ailment: "poison", BadlyPoisons: true},
	}
)

// getDummyPokemon builds a level 50 pokemon with zero IVs so its stats are predictable
func getDummyPokemon(t testing.TB, name string, types []PokemonType, base BaseStats, moves ...*Move) Pokemon {
	t.Helper()

	pokemon, err := NewPokeBuilder(name, types, base, nil).
		SetLevel(50).
		SetIvs(StatSpread{}).
		SetMoves(moves).
		Build()
	require.NoError(t, err)

	return pokemon
}

func getCharizard(t testing.TB, moves ...*Move) Pokemon {
	return getDummyPokemon(t, "Charizard", []PokemonType{TYPE_FIRE, TYPE_FLYING}, charizardBase, moves...)
}

func getBlastoise(t testing.TB, moves ...*Move) Pokemon {
	return getDummyPokemon(t, "Blastoise", []PokemonType{TYPE_WATER}, blastoiseBase, moves...)
}

func getVenusaur(t testing.TB, moves ...*Move) Pokemon {
	return getDummyPokemon(t, "Venusaur", []PokemonType{TYPE_GRASS, TYPE_POISON}, venusaurBase, moves...)
}

func getPikachu(t testing.TB, moves ...*Move) Pokemon {
	return getDummyPokemon(t, "Pikachu", []PokemonType{TYPE_ELECTRIC}, pikachuBase, moves...)
}

func withAbility(pokemon Pokemon, ability Ability) Pokemon {
	pokemon.Ability = ability
	return pokemon
}

// getSimpleBattle pits a human player against an AI opponent
func getSimpleBattle(t testing.TB, source rand.Source, playerTeam []Pokemon, opponentTeam []Pokemon) *BattleManager {
	t.Helper()

	m, err := NewBattle(
		Player{Name: "Red", Team: playerTeam},
		Player{Name: "Blue", IsAI: true, Team: opponentTeam},
		WithRandSource(source),
	)
	require.NoError(t, err)

	return m
}

func eventsOfType[T StateEvent](events []TurnEvent) []T {
	found := make([]T, 0)
	for _, e := range events {
		if typed, ok := e.Event.(T); ok {
			found = append(found, typed)
		}
	}

	return found
}
