package golurk

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

var builderLogger = func() logr.Logger {
	return internalLogger.WithName("pokemon_builder")
}

type PokemonBuilder struct {
	poke   Pokemon
	rng    *rand.Rand
	ivsSet bool
}

// NewPokeBuilder starts a level 1 pokemon of the given species with no moves and no ability.
// Unless IVs are set explicitly, Build rolls random ones.
func NewPokeBuilder(name string, types []PokemonType, base BaseStats, rng *rand.Rand) *PokemonBuilder {
	poke := Pokemon{
		Name:  name,
		Types: append([]PokemonType(nil), types...),
		Base:  base,
		Level: 1,
	}

	return &PokemonBuilder{poke: poke, rng: rng}
}

func (pb *PokemonBuilder) SetEvs(evs StatSpread) *PokemonBuilder {
	pb.poke.Evs = evs

	builderLogger().V(1).Info("setting EVs",
		"HP", evs[0],
		"ATTACK", evs[1],
		"DEF", evs[2],
		"SPATTACK", evs[3],
		"SPDEF", evs[4],
		"SPEED", evs[5])

	return pb
}

func (pb *PokemonBuilder) SetIvs(ivs StatSpread) *PokemonBuilder {
	pb.poke.Ivs = ivs
	pb.ivsSet = true

	builderLogger().V(1).Info("setting IVs",
		"HP", ivs[0],
		"ATTACK", ivs[1],
		"DEF", ivs[2],
		"SPATTACK", ivs[3],
		"SPDEF", ivs[4],
		"SPEED", ivs[5])

	return pb
}

func (pb *PokemonBuilder) SetPerfectIvs() *PokemonBuilder {
	return pb.SetIvs(StatSpread{MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV, MAX_IV})
}

func (pb *PokemonBuilder) SetRandomIvs() *PokemonBuilder {
	var ivs StatSpread
	for i := range ivs {
		ivs[i] = rollRange(pb.rng, 0, MAX_IV)
	}

	builderLogger().V(1).Info("setting random IVs")
	return pb.SetIvs(ivs)
}

func (pb *PokemonBuilder) SetLevel(level int) *PokemonBuilder {
	pb.poke.Level = level
	return pb
}

func (pb *PokemonBuilder) SetRandomLevel(low int, high int) *PokemonBuilder {
	pb.poke.Level = rollRange(pb.rng, low, high)
	return pb
}

func (pb *PokemonBuilder) SetMoves(moves []*Move) *PokemonBuilder {
	pb.poke.Moves = append([]*Move(nil), moves...)

	builderLogger().V(1).Info("setting moves", "moves", lo.Map(pb.poke.Moves, func(move *Move, _ int) string {
		if move == nil {
			return "<nil>"
		}

		return move.Name
	}))

	return pb
}

// SetRandomMoves picks up to four distinct moves out of possibleMoves
func (pb *PokemonBuilder) SetRandomMoves(possibleMoves []*Move) *PokemonBuilder {
	if len(possibleMoves) == 0 {
		builderLogger().Info("this pokemon was given no available moves to randomize with", "pokemon_name", pb.poke.Name)
		return pb
	}

	pool := append([]*Move(nil), possibleMoves...)
	moves := make([]*Move, 0, MAX_MOVES)
	for len(moves) < MAX_MOVES && len(pool) > 0 {
		i := rollRange(pb.rng, 0, len(pool)-1)
		moves = append(moves, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}

	return pb.SetMoves(moves)
}

func (pb *PokemonBuilder) SetAbility(ability Ability) *PokemonBuilder {
	pb.poke.Ability = ability
	return pb
}

func (pb *PokemonBuilder) SetRandomAbility(possibleAbilities []string) *PokemonBuilder {
	if len(possibleAbilities) == 0 {
		builderLogger().Info("this pokemon was given no available abilities to randomize with", "pokemon_name", pb.poke.Name)
		return pb
	}

	name := possibleAbilities[rollRange(pb.rng, 0, len(possibleAbilities)-1)]
	return pb.SetAbility(NewAbility(name))
}

func (pb *PokemonBuilder) validate() error {
	errs := make([]error, 0)

	if pb.poke.Level < 1 || pb.poke.Level > MAX_LEVEL {
		errs = append(errs, fmt.Errorf("level must be within 1-%d, got %d", MAX_LEVEL, pb.poke.Level))
	}
	if len(pb.poke.Types) == 0 || len(pb.poke.Types) > 2 {
		errs = append(errs, fmt.Errorf("a pokemon has 1 or 2 types, got %d", len(pb.poke.Types)))
	}
	if len(pb.poke.Moves) == 0 || len(pb.poke.Moves) > MAX_MOVES {
		errs = append(errs, fmt.Errorf("a pokemon knows 1-%d moves, got %d", MAX_MOVES, len(pb.poke.Moves)))
	}
	if lo.Contains(pb.poke.Moves, nil) {
		errs = append(errs, errors.New("move slots cannot be empty"))
	} else if dupes := lo.FindDuplicatesBy(pb.poke.Moves, func(m *Move) string { return NormalizeName(m.Name) }); len(dupes) > 0 {
		// PP is tracked per move name so a move can only fill one slot
		names := lo.Map(dupes, func(m *Move, _ int) string { return m.Name })
		errs = append(errs, fmt.Errorf("duplicate moves: %s", strings.Join(names, ", ")))
	}

	for i := range pb.poke.Ivs {
		if pb.poke.Ivs[i] < 0 || pb.poke.Ivs[i] > MAX_IV {
			errs = append(errs, fmt.Errorf("IV %d must be within 0-%d, got %d", i, MAX_IV, pb.poke.Ivs[i]))
		}
		if pb.poke.Evs[i] < 0 || pb.poke.Evs[i] > MAX_EV {
			errs = append(errs, fmt.Errorf("EV %d must be within 0-%d, got %d", i, MAX_EV, pb.poke.Evs[i]))
		}
	}
	if pb.poke.Evs.Total() > MAX_TOTAL_EV {
		errs = append(errs, fmt.Errorf("EV total must be at most %d, got %d", MAX_TOTAL_EV, pb.poke.Evs.Total()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %s: %w", ErrInvalidPokemon, pb.poke.Name, errors.Join(errs...))
	}

	return nil
}

// Build validates the pokemon and computes its stats and battle state
func (pb *PokemonBuilder) Build() (Pokemon, error) {
	if !pb.ivsSet {
		pb.SetRandomIvs()
	}

	if pb.poke.Ability == nil {
		pb.poke.Ability = NewAbility("")
	}

	if err := pb.validate(); err != nil {
		return Pokemon{}, err
	}

	pb.poke.ReCalcStats()
	builderLogger().V(1).Info("building pokemon", "pokemon", pb.poke.String())

	return pb.poke.Clone(), nil
}
