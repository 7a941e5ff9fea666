package global

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfigDir keeps tests away from the real user config directory
func isolateConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	return filepath.Join(dir, "pokeduel")
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	return path
}

func validConfig() Config {
	return Config{
		Player:   PlayerConfig{Name: "Red"},
		Opponent: PlayerConfig{Name: "Blue"},
		Battle:   BattleConfig{Level: 50, Items: map[string]int{"potion": 1}},
		Logging:  LoggingConfig{Level: "info", Dir: "logs"},
		Sim:      SimConfig{Battles: 1, Workers: 1},
		UI:       UIConfig{MessageDelay: time.Second},
	}
}

func TestDefaults(t *testing.T) {
	configDir := isolateConfigDir(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "Player", cfg.Player.Name)
	assert.Equal(t, "Rival", cfg.Opponent.Name)
	assert.Empty(t, cfg.Player.Team)
	assert.Equal(t, dex.DEFAULT_LEVEL, cfg.Battle.Level)
	assert.Equal(t, uint64(0), cfg.Battle.Seed)
	assert.Equal(t, map[string]int{"potion": 2, "super-potion": 1, "full-heal": 1}, cfg.Battle.Items)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(configDir, "logs"), cfg.Logging.Dir)
	assert.Equal(t, filepath.Join(configDir, "history.db"), cfg.History.Path)
	assert.Equal(t, 10, cfg.Sim.Battles)
	assert.Equal(t, 4, cfg.Sim.Workers)
	assert.Equal(t, 800*time.Millisecond, cfg.UI.MessageDelay)
}

func TestLoadFromFile(t *testing.T) {
	isolateConfigDir(t)

	path := writeConfig(t, `
player:
  name: Red
  team:
    - species: pikachu
      level: 60
      moves: [thunderbolt, quick-attack]
    - species: snorlax
      ability: thick-fat
opponent:
  name: Blue
battle:
  seed: 1234
  items:
    hyper-potion: 3
logging:
  level: debug
history:
  path: ""
ui:
  message_delay: 250ms
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Red", cfg.Player.Name)
	assert.Equal(t, []dex.TeamEntry{
		{Species: "pikachu", Level: 60, Moves: []string{"thunderbolt", "quick-attack"}},
		{Species: "snorlax", Ability: "thick-fat"},
	}, cfg.Player.Team)
	assert.Equal(t, "Blue", cfg.Opponent.Name)
	assert.Equal(t, uint64(1234), cfg.Battle.Seed)
	assert.Equal(t, 3, cfg.Battle.Items["hyper-potion"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "", cfg.History.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.MessageDelay)
}

func TestLoadInvalidPath(t *testing.T) {
	isolateConfigDir(t)

	_, err := LoadConfig("/nonexistent/path.yaml", nil)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("POKEDUEL_PLAYER_NAME", "Gold")
	t.Setenv("POKEDUEL_SIM_WORKERS", "8")
	t.Setenv("POKEDUEL_BATTLE_SEED", "99")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "Gold", cfg.Player.Name)
	assert.Equal(t, 8, cfg.Sim.Workers)
	assert.Equal(t, uint64(99), cfg.Battle.Seed)
}

func TestFlagOverrides(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("POKEDUEL_SIM_BATTLES", "20")

	path := writeConfig(t, "player:\n  name: Red\nsim:\n  workers: 2\n")

	flags := NewFlagSet("test")
	require.NoError(t, flags.Parse([]string{"--seed", "7", "--battles", "3", "--log-level", "trace", "--message-delay", "1s"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "Red", cfg.Player.Name)
	assert.Equal(t, uint64(7), cfg.Battle.Seed)
	assert.Equal(t, 3, cfg.Sim.Battles)
	assert.Equal(t, 2, cfg.Sim.Workers)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, time.Second, cfg.UI.MessageDelay)

	headless, err := flags.GetBool("headless")
	require.NoError(t, err)
	assert.False(t, headless)
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Player.Name = " "
	cfg.Opponent.Team = []dex.TeamEntry{{Level: 101, Moves: []string{"a", "b", "c", "d", "e"}}}
	cfg.Battle.Level = 0
	cfg.Battle.Items = map[string]int{"rare-candy": 1, "potion": -1}
	cfg.Logging.Level = "verbose"
	cfg.Sim.Workers = 0
	cfg.UI.MessageDelay = -time.Second

	err := cfg.Validate()
	require.Error(t, err)

	for _, problem := range []string{
		"player.name must not be empty",
		"opponent.team[0].species must not be empty",
		"opponent.team[0].level must be 0-100, got 101",
		"opponent.team[0] can know at most 4 moves, got 5",
		"battle.level must be 1-100, got 0",
		`battle.items has unknown item "rare-candy"`,
		"battle.items.potion must not be negative, got -1",
		`logging.level must be one of [trace, debug, info, warn, error], got "verbose"`,
		"sim.workers must be >= 1, got 0",
		"ui.message_delay must not be negative",
	} {
		assert.ErrorContains(t, err, problem)
	}
}

func TestValidateTeamSize(t *testing.T) {
	cfg := validConfig()
	cfg.Player.Team = make([]dex.TeamEntry, 7)
	for i := range cfg.Player.Team {
		cfg.Player.Team[i].Species = "pikachu"
	}

	assert.ErrorContains(t, cfg.Validate(), "player.team can have at most 6 pokemon, got 7")
}

func TestLoadFromViperValidates(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("sim.battles", 0)

	_, err := LoadFromViper(v)
	assert.ErrorContains(t, err, "sim.battles must be >= 1")
}

func TestZerologLevel(t *testing.T) {
	for name, level := range map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		parsed, err := LoggingConfig{Level: name}.ZerologLevel()
		require.NoError(t, err, name)
		assert.Equal(t, level, parsed)
	}

	_, err := LoggingConfig{Level: "fatal"}.ZerologLevel()
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	isolateConfigDir(t)

	cfg := validConfig()
	cfg.Player.Team = []dex.TeamEntry{{Species: "pikachu", Level: 40, Moves: []string{"thunderbolt"}}}
	cfg.Opponent.TeamFile = "rival.yaml"
	cfg.Battle.Seed = 99
	// item defaults merge with the file, so every default item is listed
	cfg.Battle.Items = map[string]int{"potion": 1, "super-potion": 0, "full-heal": 3}
	cfg.History.Path = "history.db"
	cfg.UI.MessageDelay = 250 * time.Millisecond

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Player.Name = ""

	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.Error(t, SaveConfig(path, cfg))
	assert.NoFileExists(t, path)
}
