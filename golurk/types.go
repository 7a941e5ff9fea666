package golurk

import "strings"

type PokemonType string

const (
	TYPE_NORMAL   PokemonType = "normal"
	TYPE_FIRE     PokemonType = "fire"
	TYPE_WATER    PokemonType = "water"
	TYPE_ELECTRIC PokemonType = "electric"
	TYPE_GRASS    PokemonType = "grass"
	TYPE_ICE      PokemonType = "ice"
	TYPE_FIGHTING PokemonType = "fighting"
	TYPE_POISON   PokemonType = "poison"
	TYPE_GROUND   PokemonType = "ground"
	TYPE_FLYING   PokemonType = "flying"
	TYPE_PSYCHIC  PokemonType = "psychic"
	TYPE_BUG      PokemonType = "bug"
	TYPE_ROCK     PokemonType = "rock"
	TYPE_GHOST    PokemonType = "ghost"
	TYPE_DRAGON   PokemonType = "dragon"
	TYPE_DARK     PokemonType = "dark"
	TYPE_STEEL    PokemonType = "steel"
)

var ALL_TYPES = []PokemonType{
	TYPE_NORMAL,
	TYPE_FIRE,
	TYPE_WATER,
	TYPE_ELECTRIC,
	TYPE_GRASS,
	TYPE_ICE,
	TYPE_FIGHTING,
	TYPE_POISON,
	TYPE_GROUND,
	TYPE_FLYING,
	TYPE_PSYCHIC,
	TYPE_BUG,
	TYPE_ROCK,
	TYPE_GHOST,
	TYPE_DRAGON,
	TYPE_DARK,
	TYPE_STEEL,
}

// typeChart only lists matchups that are not neutral
var typeChart = map[PokemonType]map[PokemonType]float64{
	TYPE_NORMAL: {
		TYPE_ROCK:  0.5,
		TYPE_GHOST: 0,
		TYPE_STEEL: 0.5,
	},
	TYPE_FIRE: {
		TYPE_FIRE:   0.5,
		TYPE_WATER:  0.5,
		TYPE_GRASS:  2,
		TYPE_ICE:    2,
		TYPE_BUG:    2,
		TYPE_ROCK:   0.5,
		TYPE_DRAGON: 0.5,
		TYPE_STEEL:  2,
	},
	TYPE_WATER: {
		TYPE_FIRE:   2,
		TYPE_WATER:  0.5,
		TYPE_GRASS:  0.5,
		TYPE_GROUND: 2,
		TYPE_ROCK:   2,
		TYPE_DRAGON: 0.5,
	},
	TYPE_ELECTRIC: {
		TYPE_WATER:    2,
		TYPE_ELECTRIC: 0.5,
		TYPE_GRASS:    0.5,
		TYPE_GROUND:   0,
		TYPE_FLYING:   2,
		TYPE_DRAGON:   0.5,
	},
	TYPE_GRASS: {
		TYPE_FIRE:   0.5,
		TYPE_WATER:  2,
		TYPE_GRASS:  0.5,
		TYPE_POISON: 0.5,
		TYPE_GROUND: 2,
		TYPE_FLYING: 0.5,
		TYPE_BUG:    0.5,
		TYPE_ROCK:   2,
		TYPE_DRAGON: 0.5,
		TYPE_STEEL:  0.5,
	},
	TYPE_ICE: {
		TYPE_FIRE:   0.5,
		TYPE_WATER:  0.5,
		TYPE_GRASS:  2,
		TYPE_ICE:    0.5,
		TYPE_GROUND: 2,
		TYPE_FLYING: 2,
		TYPE_DRAGON: 2,
		TYPE_STEEL:  0.5,
	},
	TYPE_FIGHTING: {
		TYPE_NORMAL:  2,
		TYPE_ICE:     2,
		TYPE_POISON:  0.5,
		TYPE_FLYING:  0.5,
		TYPE_PSYCHIC: 0.5,
		TYPE_BUG:     0.5,
		TYPE_ROCK:    2,
		TYPE_GHOST:   0,
		TYPE_DARK:    2,
		TYPE_STEEL:   2,
	},
	TYPE_POISON: {
		TYPE_GRASS:  2,
		TYPE_POISON: 0.5,
		TYPE_GROUND: 0.5,
		TYPE_ROCK:   0.5,
		TYPE_GHOST:  0.5,
		TYPE_STEEL:  0,
	},
	TYPE_GROUND: {
		TYPE_FIRE:     2,
		TYPE_ELECTRIC: 2,
		TYPE_GRASS:    0.5,
		TYPE_POISON:   2,
		TYPE_FLYING:   0,
		TYPE_BUG:      0.5,
		TYPE_ROCK:     2,
		TYPE_STEEL:    2,
	},
	TYPE_FLYING: {
		TYPE_ELECTRIC: 0.5,
		TYPE_GRASS:    2,
		TYPE_FIGHTING: 2,
		TYPE_BUG:      2,
		TYPE_ROCK:     0.5,
		TYPE_STEEL:    0.5,
	},
	TYPE_PSYCHIC: {
		TYPE_FIGHTING: 2,
		TYPE_POISON:   2,
		TYPE_PSYCHIC:  0.5,
		TYPE_DARK:     0,
		TYPE_STEEL:    0.5,
	},
	TYPE_BUG: {
		TYPE_FIRE:     0.5,
		TYPE_GRASS:    2,
		TYPE_FIGHTING: 0.5,
		TYPE_POISON:   0.5,
		TYPE_FLYING:   0.5,
		TYPE_PSYCHIC:  2,
		TYPE_GHOST:    0.5,
		TYPE_DARK:     2,
		TYPE_STEEL:    0.5,
	},
	TYPE_ROCK: {
		TYPE_FIRE:     2,
		TYPE_ICE:      2,
		TYPE_FIGHTING: 0.5,
		TYPE_GROUND:   0.5,
		TYPE_FLYING:   2,
		TYPE_BUG:      2,
		TYPE_STEEL:    0.5,
	},
	TYPE_GHOST: {
		TYPE_NORMAL:  0,
		TYPE_PSYCHIC: 2,
		TYPE_GHOST:   2,
		TYPE_DARK:    0.5,
		TYPE_STEEL:   0.5,
	},
	TYPE_DRAGON: {
		TYPE_DRAGON: 2,
		TYPE_STEEL:  0.5,
	},
	TYPE_DARK: {
		TYPE_FIGHTING: 0.5,
		TYPE_PSYCHIC:  2,
		TYPE_GHOST:    2,
		TYPE_DARK:     0.5,
		TYPE_STEEL:    0.5,
	},
	TYPE_STEEL: {
		TYPE_FIRE:     0.5,
		TYPE_WATER:    0.5,
		TYPE_ELECTRIC: 0.5,
		TYPE_ICE:      2,
		TYPE_ROCK:     2,
		TYPE_STEEL:    0.5,
	},
}

// TypeMultiplier returns how effective an attack of type attack is against a single defending type.
// Any pair missing from the chart, including unknown types, is neutral.
func TypeMultiplier(attack PokemonType, defend PokemonType) float64 {
	matchups, ok := typeChart[attack]
	if !ok {
		return 1
	}

	mult, ok := matchups[defend]
	if !ok {
		return 1
	}

	return mult
}

// ParseType matches a type name case-insensitively
func ParseType(name string) (PokemonType, bool) {
	lowered := PokemonType(strings.ToLower(strings.TrimSpace(name)))
	for _, t := range ALL_TYPES {
		if t == lowered {
			return t, true
		}
	}

	return "", false
}

func (t PokemonType) String() string {
	return string(t)
}
