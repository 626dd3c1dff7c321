// Package config provides YAML-based configuration loading for the engine,
// the HTTP server, score storage and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/tetris"
)

// Environment variables that override file configuration.
const (
	EnvAddr     = "BLOCKFALL_ADDR"
	EnvDBPath   = "BLOCKFALL_DB"
	EnvLogLevel = "BLOCKFALL_LOG_LEVEL"
)

// Config contains all configuration for a blockfall process.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// EngineConfig defines the tick rate and randomness of the game.
type EngineConfig struct {
	TickRate   int    `yaml:"tick_rate"`
	Seed       int64  `yaml:"seed"`        // 0 = time based
	FirstShape string `yaml:"first_shape"` // fixed first piece, empty for random
}

// ServerConfig defines the HTTP command surface.
type ServerConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig defines where finished games are recorded.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines the logger verbosity.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Runtime returns the engine settings as a core.RuntimeConfig.
func (c Config) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		TickRate:   c.Engine.TickRate,
		Seed:       c.Engine.Seed,
		FirstShape: c.Engine.FirstShape,
	}
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ApplyEnv overrides fields from BLOCKFALL_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		c.Storage.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate checks that the configuration can start a game.
func (c Config) Validate() error {
	var errs []error

	if c.Engine.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("engine.tick_rate must be positive, got %d", c.Engine.TickRate))
	}
	if c.Engine.FirstShape != "" {
		name := []rune(c.Engine.FirstShape)
		if len(name) != 1 {
			errs = append(errs, fmt.Errorf("engine.first_shape: %w: %q", tetris.ErrUnknownShape, c.Engine.FirstShape))
		} else if _, err := tetris.MakeShape(name[0]); err != nil {
			errs = append(errs, fmt.Errorf("engine.first_shape: %w", err))
		}
	}
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if c.Storage.DBPath == "" {
		errs = append(errs, errors.New("storage.db_path must not be empty"))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
