package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/battleship/internal/game/player"
)

// EnvPrefix is prepended to every environment override, e.g. BATTLESHIP_AI_SEED
const EnvPrefix = "BATTLESHIP"

// Config holds all configuration for the application
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	AI      AIConfig      `mapstructure:"ai"`
	Match   MatchConfig   `mapstructure:"match"`
	Logging LoggingConfig `mapstructure:"logging"`
	CLI     CLIConfig     `mapstructure:"cli"`
}

// GameConfig holds the rules shared by both boards
type GameConfig struct {
	Fleet []VesselConfig `mapstructure:"fleet"`
}

// VesselConfig is one entry of the fleet list
type VesselConfig struct {
	Name   string `mapstructure:"name"`
	Length int    `mapstructure:"length"`
}

// AIConfig tunes the autonomous combatant
type AIConfig struct {
	MaxPlacementAttempts int   `mapstructure:"max_placement_attempts"`
	Seed                 int64 `mapstructure:"seed"` // 0 means seed from the clock
}

// MatchConfig holds match pacing and safety limits
type MatchConfig struct {
	MaxTurns    int `mapstructure:"max_turns"`
	TurnDelayMs int `mapstructure:"turn_delay_ms"`
}

// LoggingConfig selects zerolog level and output format
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CLIConfig holds settings only the command line client reads
type CLIConfig struct {
	Mode       string `mapstructure:"mode"`
	ShowBoards bool   `mapstructure:"show_boards"`
}

const (
	ModeAuto  = "auto"
	ModeHuman = "human"
)

// FleetSpecs converts the configured fleet for the player package
func (g GameConfig) FleetSpecs() []player.FleetSpec {
	specs := make([]player.FleetSpec, len(g.Fleet))
	for i, vc := range g.Fleet {
		specs[i] = player.FleetSpec{Name: vc.Name, Length: vc.Length}
	}
	return specs
}

var (
	cfg *Config
	v   *viper.Viper
)

func setViperDefaults(v *viper.Viper) {
	fleet := make([]map[string]interface{}, 0, 5)
	for _, spec := range player.DefaultFleet() {
		fleet = append(fleet, map[string]interface{}{"name": spec.Name, "length": spec.Length})
	}
	v.SetDefault("game.fleet", fleet)

	v.SetDefault("ai.max_placement_attempts", player.DefaultMaxPlacementAttempts)
	v.SetDefault("ai.seed", 0)

	v.SetDefault("match.max_turns", 200)
	v.SetDefault("match.turn_delay_ms", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("cli.mode", ModeAuto)
	v.SetDefault("cli.show_boards", true)
}

// Init loads defaults, then the config file, then BATTLESHIP_* environment
// overrides. With an empty configPath the search paths are tried and a
// missing file is not an error; an explicit path must exist and parse.
func Init(configPath string) error {
	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/battleship")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return reload()
}

func reload() error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	cfg = next
	return nil
}

// Get returns the global config, initializing it with defaults on first use
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// Set overrides a key at runtime, e.g. from a command line flag, and
// re-validates. The previous config is kept if the new value is invalid.
func Set(key string, value interface{}) error {
	if v == nil {
		return fmt.Errorf("config not initialized - call Init() first")
	}
	v.Set(key, value)
	return reload()
}

// ConfigFilePath returns the path of the loaded config file, if any
func ConfigFilePath() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// WatchConfig reloads the config when the file changes. onChange receives
// the reload error, nil on success; an invalid edit leaves the old config active.
func WatchConfig(onChange func(error)) {
	v.OnConfigChange(func(fsnotify.Event) {
		err := reload()
		if onChange != nil {
			onChange(err)
		}
	})
	v.WatchConfig()
}

// Validate checks configuration values
func Validate(c *Config) error {
	if err := player.ValidateFleet(c.Game.FleetSpecs()); err != nil {
		return fmt.Errorf("game.fleet: %w", err)
	}
	if c.AI.MaxPlacementAttempts <= 0 {
		return fmt.Errorf("ai.max_placement_attempts must be positive")
	}
	if c.Match.MaxTurns <= 0 {
		return fmt.Errorf("match.max_turns must be positive")
	}
	if c.Match.TurnDelayMs < 0 {
		return fmt.Errorf("match.turn_delay_ms must be non-negative")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	switch c.CLI.Mode {
	case ModeAuto, ModeHuman:
	default:
		return fmt.Errorf("cli.mode must be %s or %s, got %q", ModeAuto, ModeHuman, c.CLI.Mode)
	}

	return nil
}
