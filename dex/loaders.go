package dex

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathanieltooley/pokeduel/golurk"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const speciesColumns = 11

// LoadSpecies reads a csv with a header row and the columns:
// pokedex, name, type1, type2, hp, attack, defense, special-attack, special-defense, speed, abilities.
// type2 may be empty and abilities are separated by "|".
func LoadSpecies(r io.Reader) ([]Species, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = speciesColumns

	if _, err := csvReader.Read(); err != nil {
		return nil, fmt.Errorf("%w: missing header: %w", ErrInvalidData, err)
	}

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	species := make([]Species, 0, len(rows))
	for i, row := range rows {
		s, err := parseSpeciesRow(row)
		if err != nil {
			// +2 for the header and 1-based rows
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidData, i+2, err)
		}

		species = append(species, s)
	}

	return species, nil
}

func parseSpeciesRow(row []string) (Species, error) {
	numbers := make([]int, 0, 7)
	for _, column := range []int{0, 4, 5, 6, 7, 8, 9} {
		value, err := strconv.Atoi(strings.TrimSpace(row[column]))
		if err != nil {
			return Species{}, err
		}
		if value <= 0 {
			return Species{}, fmt.Errorf("column %d must be positive, got %d", column, value)
		}

		numbers = append(numbers, value)
	}

	name := strings.TrimSpace(row[1])
	if name == "" {
		return Species{}, errors.New("name must not be empty")
	}

	types := make([]golurk.PokemonType, 0, 2)
	for _, typeName := range row[2:4] {
		if strings.TrimSpace(typeName) == "" {
			continue
		}

		t, ok := golurk.ParseType(typeName)
		if !ok {
			return Species{}, fmt.Errorf("unknown type %q", typeName)
		}

		types = append(types, t)
	}
	if len(types) == 0 {
		return Species{}, fmt.Errorf("%s has no types", name)
	}

	abilities := make([]string, 0)
	for _, ability := range strings.Split(row[10], "|") {
		if ability = strings.TrimSpace(ability); ability != "" {
			abilities = append(abilities, ability)
		}
	}

	return Species{
		Pokedex: numbers[0],
		Name:    name,
		Types:   types,
		Base: golurk.BaseStats{
			Hp:        numbers[1],
			Attack:    numbers[2],
			Defense:   numbers[3],
			SpAttack:  numbers[4],
			SpDefense: numbers[5],
			Speed:     numbers[6],
		},
		Abilities: abilities,
	}, nil
}

// LoadMoves reads a yaml list of moves. Unknown fields are rejected and every move is validated.
func LoadMoves(r io.Reader) ([]golurk.Move, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	moves := make([]golurk.Move, 0)
	if err := decoder.Decode(&moves); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	title := cases.Title(language.English)
	errs := make([]error, 0)

	for i := range moves {
		move := &moves[i]
		move.Name = golurk.NormalizeName(move.Name)
		move.DisplayName = title.String(strings.ReplaceAll(move.Name, "-", " "))

		if move.Name == "toxic" {
			move.Meta.BadlyPoisons = true
		}

		if err := move.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, errors.Join(errs...))
	}

	return moves, nil
}

// LoadLearnsets reads a yaml map of species names to the moves they learn
func LoadLearnsets(r io.Reader) (map[string][]string, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	learnsets := make(map[string][]string)
	if err := decoder.Decode(&learnsets); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	return learnsets, nil
}
