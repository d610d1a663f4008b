// Package config loads application settings from an optional YAML file plus
// FIT_COACH_* environment variables, with sensible defaults for everything.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	// DataDir holds routines, history, schedule, and by default the log.
	DataDir string `mapstructure:"data_dir"`

	Log struct {
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	} `mapstructure:"log"`

	Speech struct {
		Enabled     bool   `mapstructure:"enabled"`
		LanguageTag string `mapstructure:"language"`
		VoiceHint   string `mapstructure:"voice_hint"`
	} `mapstructure:"speech"`
}

// DefaultDataDir returns ~/.fit-coach, falling back to a relative directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fit-coach"
	}
	return filepath.Join(home, ".fit-coach")
}

// Load reads configuration. path may be empty, in which case config.yaml in
// the default data directory is used if present. A missing file is fine; an
// unreadable or malformed one is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	dataDir := DefaultDataDir()
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 2)
	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.language", "en-US")
	v.SetDefault("speech.voice_hint", "")

	v.SetEnvPrefix("FIT_COACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, "fit-coach.log")
	}
	return &cfg, nil
}
