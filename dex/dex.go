// Package dex loads species, moves and learnsets and turns them into battle-ready pokemon.
package dex

import (
	"cmp"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"github.com/go-logr/logr"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

//go:embed data/*
var embeddedData embed.FS

const (
	SPECIES_FILE   = "species.csv"
	MOVES_FILE     = "moves.yaml"
	LEARNSETS_FILE = "learnsets.yaml"

	DEFAULT_LEVEL = 50
)

var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrUnknownMove    = errors.New("unknown move")
	ErrInvalidData    = errors.New("invalid data")
)

type Species struct {
	Pokedex   int
	Name      string
	Types     []golurk.PokemonType
	Base      golurk.BaseStats
	Abilities []string
}

// Dex is read-only once loaded and can be shared between goroutines
type Dex struct {
	species   map[string]Species
	moves     map[string]*golurk.Move
	learnsets map[string][]string
	abilities *golurk.AbilityRegistry

	logger logr.Logger
}

type options struct {
	logger    logr.Logger
	abilities *golurk.AbilityRegistry
}

type Option func(*options)

func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAbilities swaps the registry abilities are built from
func WithAbilities(registry *golurk.AbilityRegistry) Option {
	return func(o *options) {
		o.abilities = registry
	}
}

// Load reads the species csv, the moves file and the learnsets file from files concurrently
func Load(ctx context.Context, files fs.FS, opts ...Option) (*Dex, error) {
	o := options{logger: logr.Discard(), abilities: golurk.DefaultAbilities()}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.WithName("dex")

	var species []Species
	var moves []golurk.Move
	var learnsets map[string][]string

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		file, err := files.Open(SPECIES_FILE)
		if err != nil {
			return err
		}
		defer file.Close()

		species, err = LoadSpecies(file)
		if err != nil {
			return fmt.Errorf("%s: %w", SPECIES_FILE, err)
		}

		logger.Info("Loaded species", "count", len(species))
		return nil
	})
	group.Go(func() error {
		file, err := files.Open(MOVES_FILE)
		if err != nil {
			return err
		}
		defer file.Close()

		moves, err = LoadMoves(file)
		if err != nil {
			return fmt.Errorf("%s: %w", MOVES_FILE, err)
		}

		logger.Info("Loaded moves", "count", len(moves))
		return nil
	})
	group.Go(func() error {
		file, err := files.Open(LEARNSETS_FILE)
		if err != nil {
			return err
		}
		defer file.Close()

		learnsets, err = LoadLearnsets(file)
		if err != nil {
			return fmt.Errorf("%s: %w", LEARNSETS_FILE, err)
		}

		logger.Info("Loaded learnsets", "pokemon_count", len(learnsets))
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error(err, "couldn't load pokemon data")
		return nil, err
	}

	d := &Dex{
		species:   make(map[string]Species, len(species)),
		moves:     make(map[string]*golurk.Move, len(moves)),
		learnsets: make(map[string][]string, len(learnsets)),
		abilities: o.abilities,
		logger:    logger,
	}

	for _, s := range species {
		d.species[golurk.NormalizeName(s.Name)] = s
	}
	for i := range moves {
		d.moves[golurk.NormalizeName(moves[i].Name)] = &moves[i]
	}
	for name, moveNames := range learnsets {
		d.learnsets[golurk.NormalizeName(name)] = lo.Map(moveNames, func(moveName string, _ int) string { return golurk.NormalizeName(moveName) })
	}

	if err := d.crossCheck(); err != nil {
		logger.Error(err, "pokemon data is inconsistent")
		return nil, err
	}

	return d, nil
}

// crossCheck makes sure every species has a learnset and every learnset only names known moves
func (d *Dex) crossCheck() error {
	errs := make([]error, 0)

	for key, s := range d.species {
		if len(d.learnsets[key]) == 0 {
			errs = append(errs, fmt.Errorf("%s has no learnset", s.Name))
		}
	}

	for name, moveNames := range d.learnsets {
		if _, ok := d.species[name]; !ok {
			errs = append(errs, fmt.Errorf("learnset for %w %q", ErrUnknownSpecies, name))
		}

		for _, moveName := range moveNames {
			if _, ok := d.moves[moveName]; !ok {
				errs = append(errs, fmt.Errorf("%s learns %w %q", name, ErrUnknownMove, moveName))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidData, errors.Join(errs...))
	}

	return nil
}

var loadDefault = sync.OnceValues(func() (*Dex, error) {
	files, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return nil, err
	}

	return Load(context.Background(), files)
})

// Default returns the dex built from the embedded data files. It is only loaded once.
func Default() (*Dex, error) {
	return loadDefault()
}

// Embedded exposes the embedded data files, mainly so they can be loaded with custom options
func Embedded() fs.FS {
	files, _ := fs.Sub(embeddedData, "data")
	return files
}

func (d *Dex) Species(name string) (Species, bool) {
	species, ok := d.species[golurk.NormalizeName(name)]
	return species, ok
}

// SpeciesNames lists every species in pokedex order
func (d *Dex) SpeciesNames() []string {
	all := lo.Values(d.species)
	slices.SortFunc(all, func(a Species, b Species) int {
		return cmp.Compare(a.Pokedex, b.Pokedex)
	})

	return lo.Map(all, func(s Species, _ int) string { return s.Name })
}

// Move returns the shared move template. Callers must not modify it.
func (d *Dex) Move(name string) (*golurk.Move, bool) {
	move, ok := d.moves[golurk.NormalizeName(name)]
	return move, ok
}

func (d *Dex) MoveNames() []string {
	names := lo.Keys(d.moves)
	slices.Sort(names)

	return names
}

func (d *Dex) Learnset(species string) []string {
	return slices.Clone(d.learnsets[golurk.NormalizeName(species)])
}

func (d *Dex) Abilities() *golurk.AbilityRegistry {
	return d.abilities
}
