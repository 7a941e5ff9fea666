package dex

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/samber/lo"
)

type pokemonOptions struct {
	moves   []string
	ability string
	ivs     *golurk.StatSpread
	evs     golurk.StatSpread
	rng     *rand.Rand
}

type PokemonOption func(*pokemonOptions)

// WithMoves picks the moves instead of the first four of the learnset
func WithMoves(names ...string) PokemonOption {
	return func(o *pokemonOptions) {
		o.moves = names
	}
}

// WithAbility picks the ability instead of the species' first one
func WithAbility(name string) PokemonOption {
	return func(o *pokemonOptions) {
		o.ability = name
	}
}

func WithIvs(ivs golurk.StatSpread) PokemonOption {
	return func(o *pokemonOptions) {
		o.ivs = &ivs
	}
}

func WithEvs(evs golurk.StatSpread) PokemonOption {
	return func(o *pokemonOptions) {
		o.evs = evs
	}
}

// WithRand sets the rng random IVs are rolled with
func WithRand(rng *rand.Rand) PokemonOption {
	return func(o *pokemonOptions) {
		o.rng = rng
	}
}

// NewPokemon builds a battle-ready pokemon of the given species.
// A level of 0 means DEFAULT_LEVEL. IVs are random unless WithIvs is given.
func (d *Dex) NewPokemon(speciesName string, level int, opts ...PokemonOption) (golurk.Pokemon, error) {
	species, ok := d.Species(speciesName)
	if !ok {
		return golurk.Pokemon{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, speciesName)
	}

	o := pokemonOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if level == 0 {
		level = DEFAULT_LEVEL
	}

	moveNames := o.moves
	if len(moveNames) == 0 {
		learnset := d.learnsets[golurk.NormalizeName(species.Name)]
		moveNames = learnset[:min(golurk.MAX_MOVES, len(learnset))]
	}

	moves := make([]*golurk.Move, 0, len(moveNames))
	for _, moveName := range moveNames {
		move, ok := d.Move(moveName)
		if !ok {
			return golurk.Pokemon{}, fmt.Errorf("%w: %q for %s", ErrUnknownMove, moveName, species.Name)
		}

		if !slices.Contains(d.learnsets[golurk.NormalizeName(species.Name)], move.Name) {
			d.logger.V(1).Info("move is not in the learnset", "pokemon_name", species.Name, "move", move.Name)
		}

		moves = append(moves, move)
	}

	abilityName := o.ability
	if abilityName == "" && len(species.Abilities) > 0 {
		abilityName = species.Abilities[0]
	}

	rng := o.rng
	if rng == nil {
		rng = golurk.CreateRNG(golurk.CreateRandomStateSeed())
	}

	builder := golurk.NewPokeBuilder(species.Name, species.Types, species.Base, rng).
		SetLevel(level).
		SetEvs(o.evs).
		SetMoves(moves).
		SetAbility(d.abilities.New(abilityName))

	if o.ivs != nil {
		builder.SetIvs(*o.ivs)
	}

	return builder.Build()
}

// TeamEntry describes one team member in config and team files.
// Moves and Ability are optional and fall back to the species defaults.
type TeamEntry struct {
	Species string   `yaml:"species" mapstructure:"species"`
	Level   int      `yaml:"level,omitempty" mapstructure:"level"`
	Moves   []string `yaml:"moves,omitempty" mapstructure:"moves"`
	Ability string   `yaml:"ability,omitempty" mapstructure:"ability"`
}

// NewTeam builds every entry. Errors from all entries are reported together.
func (d *Dex) NewTeam(entries []TeamEntry, opts ...PokemonOption) ([]golurk.Pokemon, error) {
	if len(entries) == 0 || len(entries) > golurk.MAX_TEAM_SIZE {
		return nil, fmt.Errorf("%w: expected 1-%d pokemon, got %d", golurk.ErrInvalidTeam, golurk.MAX_TEAM_SIZE, len(entries))
	}

	team := make([]golurk.Pokemon, 0, len(entries))
	errs := make([]error, 0)

	for i, entry := range entries {
		entryOpts := append(slices.Clone(opts), WithMoves(entry.Moves...), WithAbility(entry.Ability))

		pokemon, err := d.NewPokemon(entry.Species, entry.Level, entryOpts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("team entry %d: %w", i, err))
			continue
		}

		team = append(team, pokemon)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return team, nil
}

// RandomTeam builds size distinct species with random moves from their learnsets and a random ability
func (d *Dex) RandomTeam(rng *rand.Rand, size int, level int) ([]golurk.Pokemon, error) {
	if size < 1 || size > golurk.MAX_TEAM_SIZE || size > len(d.species) {
		return nil, fmt.Errorf("%w: cannot build a random team of %d", golurk.ErrInvalidTeam, size)
	}

	if level == 0 {
		level = DEFAULT_LEVEL
	}

	names := d.SpeciesNames()
	picked := lo.Map(rng.Perm(len(names))[:size], func(i int, _ int) string { return names[i] })

	team := make([]golurk.Pokemon, 0, size)
	for _, name := range picked {
		species, _ := d.Species(name)

		learnset := lo.Map(d.learnsets[golurk.NormalizeName(name)], func(moveName string, _ int) *golurk.Move {
			return d.moves[moveName]
		})

		abilityName := ""
		if len(species.Abilities) > 0 {
			abilityName = species.Abilities[rng.IntN(len(species.Abilities))]
		}

		pokemon, err := golurk.NewPokeBuilder(species.Name, species.Types, species.Base, rng).
			SetLevel(level).
			SetRandomMoves(learnset).
			SetAbility(d.abilities.New(abilityName)).
			Build()
		if err != nil {
			return nil, err
		}

		team = append(team, pokemon)
	}

	d.logger.V(1).Info("built random team", "pokemon", picked)

	return team, nil
}

// EntryFromPokemon is the inverse of NewPokemon, minus IVs and EVs
func EntryFromPokemon(pokemon *golurk.Pokemon) TeamEntry {
	return TeamEntry{
		Species: pokemon.Name,
		Level:   pokemon.Level,
		Moves:   lo.Map(pokemon.Moves, func(move *golurk.Move, _ int) string { return move.Name }),
		Ability: golurk.NormalizeName(pokemon.AbilityName()),
	}
}
