// Package tests contains integration tests between the engine and the dex
package tests

import (
	"math/rand/v2"
	"sync"

	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
)

var (
	defaultDex  *dex.Dex
	dexErr      error
	loadDexOnce sync.Once
)

// getDex loads the embedded dex once for every test in the package
func getDex() (*dex.Dex, error) {
	loadDexOnce.Do(func() {
		defaultDex, dexErr = dex.Default()
	})

	return defaultDex, dexErr
}

func newBattle(d *dex.Dex, player []dex.TeamEntry, opponent []dex.TeamEntry, playerIsAI bool, seed uint64) (*golurk.BattleManager, error) {
	rng := rand.New(rand.NewPCG(seed, seed))

	playerTeam, err := d.NewTeam(player, dex.WithRand(rng))
	if err != nil {
		return nil, err
	}

	opponentTeam, err := d.NewTeam(opponent, dex.WithRand(rng))
	if err != nil {
		return nil, err
	}

	return golurk.NewBattle(
		golurk.Player{Name: "Red", IsAI: playerIsAI, Team: playerTeam},
		golurk.Player{Name: "Blue", IsAI: true, Team: opponentTeam},
		golurk.WithSeed(seed, seed+1),
	)
}

// randomBattle builds two random AI teams from seed
func randomBattle(d *dex.Dex, seed uint64, size int, level int) (*golurk.BattleManager, error) {
	rng := rand.New(rand.NewPCG(seed, ^seed))

	playerTeam, err := d.RandomTeam(rng, size, level)
	if err != nil {
		return nil, err
	}

	opponentTeam, err := d.RandomTeam(rng, size, level)
	if err != nil {
		return nil, err
	}

	return golurk.NewBattle(
		golurk.Player{Name: "Red", IsAI: true, Team: playerTeam, Bag: map[string]int{"potion": 1, "full-heal": 1}},
		golurk.Player{Name: "Blue", IsAI: true, Team: opponentTeam},
		golurk.WithSeed(seed, seed+1),
	)
}
