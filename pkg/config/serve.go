package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ServeSettings configures the HTTP server.
type ServeSettings struct {
	Addr         string
	LogLevel     string
	Config       string // analysis config file, optional
	MaxBodyBytes int64
	ReadTimeout  time.Duration
}

// Server setting defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	DefaultReadTimeout  = 30 * time.Second
)

// LoadServeSettings merges a settings file, CHATLENS_* environment variables
// and flags into ServeSettings. Without settingsFile, chatlens-server.{yaml,json,toml}
// in the working directory is read if present.
func LoadServeSettings(settingsFile string, flags *pflag.FlagSet) (ServeSettings, error) {
	v := viper.New()
	v.SetEnvPrefix("CHATLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("log-level", "info")
	v.SetDefault("config", "")
	v.SetDefault("max-body-bytes", DefaultMaxBodyBytes)
	v.SetDefault("read-timeout", DefaultReadTimeout)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ServeSettings{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
		if err := v.ReadInConfig(); err != nil {
			return ServeSettings{}, fmt.Errorf("read settings: %w", err)
		}
	} else {
		v.SetConfigName("chatlens-server")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return ServeSettings{}, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	s := ServeSettings{
		Addr:         v.GetString("addr"),
		LogLevel:     v.GetString("log-level"),
		Config:       v.GetString("config"),
		MaxBodyBytes: v.GetInt64("max-body-bytes"),
		ReadTimeout:  v.GetDuration("read-timeout"),
	}

	if s.Addr == "" {
		return ServeSettings{}, errors.New("addr: must not be empty")
	}
	if s.MaxBodyBytes <= 0 {
		return ServeSettings{}, fmt.Errorf("max-body-bytes: must be positive, got %d", s.MaxBodyBytes)
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}

	return s, nil
}
