package config

import (
	_ "embed"

	"github.com/vovakirdan/blockfall/internal/core"
)

//go:embed defaults/blockfall.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
// It matches defaults/blockfall.yaml and is used if the embed fails to parse.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			TickRate: core.DefaultConfig().TickRate,
		},
		Server: ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			DBPath: "~/.blockfall/scores.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
