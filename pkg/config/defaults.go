package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvStopWordsFile = "CHATLENS_STOP_WORDS_FILE"
	EnvStrict        = "CHATLENS_STRICT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MediaPlaceholders: analyzer.DefaultMediaPlaceholders(),
		TopParticipants:   analyzer.DefaultTopParticipants,
		TopWords:          analyzer.DefaultTopWords,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if path := os.Getenv(EnvStopWordsFile); path != "" {
		c.StopWordsFile = path
	}
	if v := os.Getenv(EnvStrict); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Strict = strict
		}
	}
}
