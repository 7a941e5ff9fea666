package global

import (
	"fmt"
	"math/rand/v2"

	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/rs/zerolog/log"
)

const RANDOM_TEAM_SIZE = 3

// BattleSeed returns the configured seed, or a random one when the config leaves it at 0
func (c Config) BattleSeed() uint64 {
	if c.Battle.Seed != 0 {
		return c.Battle.Seed
	}

	return rand.Uint64()
}

// NewBattle builds both teams from the config and starts a battle.
// Team building and the battle itself are seeded from seed, so a seed always replays the same battle.
func NewBattle(d *dex.Dex, cfg Config, seed uint64, playerIsAI bool) (*golurk.BattleManager, error) {
	teamRng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	playerTeam, err := buildTeam(d, cfg.Player, cfg.Battle.Level, teamRng)
	if err != nil {
		return nil, fmt.Errorf("building %s's team: %w", cfg.Player.Name, err)
	}

	opponentTeam, err := buildTeam(d, cfg.Opponent, cfg.Battle.Level, teamRng)
	if err != nil {
		return nil, fmt.Errorf("building %s's team: %w", cfg.Opponent.Name, err)
	}

	battle, err := golurk.NewBattle(
		golurk.Player{Name: cfg.Player.Name, IsAI: playerIsAI, Team: playerTeam, Bag: cfg.Battle.Items},
		golurk.Player{Name: cfg.Opponent.Name, IsAI: true, Team: opponentTeam, Bag: cfg.Battle.Items},
		golurk.WithSeed(seed, seed+1),
	)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("battle_id", battle.ID.String()).
		Uint64("seed", seed).
		Msg("battle created from config")

	return battle, nil
}

func buildTeam(d *dex.Dex, player PlayerConfig, level int, rng *rand.Rand) ([]golurk.Pokemon, error) {
	entries := player.Team

	if player.TeamFile != "" {
		teamFile, err := dex.LoadTeamFile(player.TeamFile)
		if err != nil {
			return nil, err
		}

		entries = teamFile.Team
	}

	if len(entries) == 0 {
		return d.RandomTeam(rng, RANDOM_TEAM_SIZE, level)
	}

	// entries without a level use the battle's level
	leveled := make([]dex.TeamEntry, len(entries))
	for i, entry := range entries {
		if entry.Level == 0 {
			entry.Level = level
		}
		leveled[i] = entry
	}

	return d.NewTeam(leveled, dex.WithRand(rng))
}
