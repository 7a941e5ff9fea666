package global

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nathanieltooley/pokeduel/dex"
	"github.com/nathanieltooley/pokeduel/golurk"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "POKEDUEL"

type PlayerConfig struct {
	Name string `mapstructure:"name"`
	// Team is built with the dex. An empty team means a random one.
	Team []dex.TeamEntry `mapstructure:"team"`
	// TeamFile is a saved team that overrides Team when set
	TeamFile string `mapstructure:"team_file"`
}

type BattleConfig struct {
	Level int `mapstructure:"level"`
	// Seed of 0 picks a random seed per battle
	Seed  uint64         `mapstructure:"seed"`
	Items map[string]int `mapstructure:"items"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type HistoryConfig struct {
	// Path of the sqlite file. Empty disables history.
	Path string `mapstructure:"path"`
}

type SimConfig struct {
	Battles int `mapstructure:"battles"`
	Workers int `mapstructure:"workers"`
}

type UIConfig struct {
	MessageDelay time.Duration `mapstructure:"message_delay"`
}

type Config struct {
	Player   PlayerConfig  `mapstructure:"player"`
	Opponent PlayerConfig  `mapstructure:"opponent"`
	Battle   BattleConfig  `mapstructure:"battle"`
	Logging  LoggingConfig `mapstructure:"logging"`
	History  HistoryConfig `mapstructure:"history"`
	Sim      SimConfig     `mapstructure:"sim"`
	UI       UIConfig      `mapstructure:"ui"`
}

func DefaultConfigDir() string {
	configDir, _ := os.UserConfigDir()
	return filepath.Join(configDir, "pokeduel")
}

func DefaultConfigLocation() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultTeamLocation is where the team editor saves when no team_file is configured
func DefaultTeamLocation() string {
	return filepath.Join(DefaultConfigDir(), "team.yaml")
}

func setDefaults(v *viper.Viper) {
	configDir := DefaultConfigDir()

	v.SetDefault("player.name", "Player")
	v.SetDefault("player.team_file", "")
	v.SetDefault("opponent.name", "Rival")
	v.SetDefault("opponent.team_file", "")

	v.SetDefault("battle.level", dex.DEFAULT_LEVEL)
	v.SetDefault("battle.seed", 0)
	v.SetDefault("battle.items", map[string]int{
		"potion":       2,
		"super-potion": 1,
		"full-heal":    1,
	})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.dir", filepath.Join(configDir, "logs"))

	v.SetDefault("history.path", filepath.Join(configDir, "history.db"))

	v.SetDefault("sim.battles", 10)
	v.SetDefault("sim.workers", 4)

	v.SetDefault("ui.message_delay", "800ms")
}

// flagKeys maps command line flags to the config keys they override
var flagKeys = map[string]string{
	"player-name":   "player.name",
	"opponent-name": "opponent.name",
	"player-team":   "player.team_file",
	"opponent-team": "opponent.team_file",
	"level":         "battle.level",
	"seed":          "battle.seed",
	"log-level":     "logging.level",
	"log-dir":       "logging.dir",
	"history":       "history.path",
	"battles":       "sim.battles",
	"workers":       "sim.workers",
	"message-delay": "ui.message_delay",
}

// NewFlagSet registers every flag the host understands.
// Only flags that were actually set override the config file and environment.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)

	flags.StringP("config", "c", "", "path to a yaml config file (default "+DefaultConfigLocation()+")")
	flags.Bool("headless", false, "run AI vs AI battles without the TUI and print a summary")

	flags.String("player-name", "", "player name")
	flags.String("opponent-name", "", "opponent name")
	flags.String("player-team", "", "yaml team file for the player")
	flags.String("opponent-team", "", "yaml team file for the opponent")
	flags.Int("level", 0, "level of pokemon without an explicit level")
	flags.Uint64("seed", 0, "battle seed, 0 for random")
	flags.String("log-level", "", "one of trace, debug, info, warn, error")
	flags.String("log-dir", "", "directory for log files")
	flags.String("history", "", "sqlite file battles are recorded to")
	flags.Int("battles", 0, "number of headless battles")
	flags.Int("workers", 0, "number of headless battles run at once")
	flags.Duration("message-delay", 0, "delay between battle messages in the TUI")

	return flags
}

// LoadConfig reads defaults, then the config file, then POKEDUEL_* environment variables, then flags.
// An empty path reads the default location if a file exists there.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())

		if err := v.ReadInConfig(); err != nil {
			notFound := viper.ConfigFileNotFoundError{}
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil || !flag.Changed {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", flagName, err)
			}
		}
	}

	return LoadFromViper(v)
}

func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every problem with the config at once
func (c Config) Validate() error {
	var errs []string

	errs = append(errs, validatePlayer("player", c.Player)...)
	errs = append(errs, validatePlayer("opponent", c.Opponent)...)

	if c.Battle.Level < 1 || c.Battle.Level > golurk.MAX_LEVEL {
		errs = append(errs, fmt.Sprintf("battle.level must be 1-%d, got %d", golurk.MAX_LEVEL, c.Battle.Level))
	}
	for id, count := range c.Battle.Items {
		if _, ok := golurk.LookupItem(id); !ok {
			errs = append(errs, fmt.Sprintf("battle.items has unknown item %q", id))
		}
		if count < 0 {
			errs = append(errs, fmt.Sprintf("battle.items.%s must not be negative, got %d", id, count))
		}
	}

	if _, err := c.Logging.ZerologLevel(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Sim.Battles < 1 {
		errs = append(errs, fmt.Sprintf("sim.battles must be >= 1, got %d", c.Sim.Battles))
	}
	if c.Sim.Workers < 1 {
		errs = append(errs, fmt.Sprintf("sim.workers must be >= 1, got %d", c.Sim.Workers))
	}

	if c.UI.MessageDelay < 0 {
		errs = append(errs, "ui.message_delay must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

func validatePlayer(key string, p PlayerConfig) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, key+".name must not be empty")
	}
	if len(p.Team) > golurk.MAX_TEAM_SIZE {
		errs = append(errs, fmt.Sprintf("%s.team can have at most %d pokemon, got %d", key, golurk.MAX_TEAM_SIZE, len(p.Team)))
	}

	for i, entry := range p.Team {
		if entry.Species == "" {
			errs = append(errs, fmt.Sprintf("%s.team[%d].species must not be empty", key, i))
		}
		if entry.Level < 0 || entry.Level > golurk.MAX_LEVEL {
			errs = append(errs, fmt.Sprintf("%s.team[%d].level must be 0-%d, got %d", key, i, golurk.MAX_LEVEL, entry.Level))
		}
		if len(entry.Moves) > golurk.MAX_MOVES {
			errs = append(errs, fmt.Sprintf("%s.team[%d] can know at most %d moves, got %d", key, i, golurk.MAX_MOVES, len(entry.Moves)))
		}
	}

	return errs
}

var validLevels = []string{"trace", "debug", "info", "warn", "error"}

func (l LoggingConfig) ZerologLevel() (zerolog.Level, error) {
	for _, valid := range validLevels {
		if l.Level == valid {
			return zerolog.ParseLevel(l.Level)
		}
	}

	return zerolog.NoLevel, fmt.Errorf("logging.level must be one of [%s], got %q", strings.Join(validLevels, ", "), l.Level)
}

// SaveConfig writes cfg as yaml to path, creating the directory if needed
func SaveConfig(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	v := viper.New()
	savePlayer(v, "player", cfg.Player)
	savePlayer(v, "opponent", cfg.Opponent)

	v.Set("battle.level", cfg.Battle.Level)
	v.Set("battle.seed", cfg.Battle.Seed)
	v.Set("battle.items", cfg.Battle.Items)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.dir", cfg.Logging.Dir)
	v.Set("history.path", cfg.History.Path)
	v.Set("sim.battles", cfg.Sim.Battles)
	v.Set("sim.workers", cfg.Sim.Workers)
	v.Set("ui.message_delay", cfg.UI.MessageDelay.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func savePlayer(v *viper.Viper, key string, p PlayerConfig) {
	v.Set(key+".name", p.Name)
	v.Set(key+".team_file", p.TeamFile)
	if len(p.Team) > 0 {
		v.Set(key+".team", p.Team)
	}
}
