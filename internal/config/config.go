// Package config loads the application configuration from a TOML file,
// layered over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Map     MapConfig     `toml:"map"`
	Save    SaveConfig    `toml:"save"`
	Logging LoggingConfig `toml:"logging"`
	Policy  PolicyConfig  `toml:"policy"`
}

type GameConfig struct {
	// Seed for the world's random source. Zero means a time-based seed.
	Seed int64 `toml:"seed"`
	// MaxExits caps how many fresh exits one room may offer.
	MaxExits int `toml:"max_exits"`
}

type MapConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type SaveConfig struct {
	// Path of the SQLite save database. Empty disables saving.
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	// File receives log output. The terminal is owned by the UI, so
	// logs never go to stdout/stderr while the game runs.
	File string `toml:"file"`
}

type PolicyConfig struct {
	// File optionally overrides the embedded generation policy.
	File string `toml:"file"`
}

// Load reads a TOML config file layered over defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Seed:     0,
			MaxExits: 3,
		},
		Map: MapConfig{
			Width:  21,
			Height: 15,
		},
		Save: SaveConfig{
			Path: "dungeondelve.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "dungeondelve.log",
		},
	}
}
