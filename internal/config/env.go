package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds SYMDIGIT_* overrides. Nil fields are unset.
type EnvConfig struct {
	Variant          *string `env:"SYMDIGIT_VARIANT"`
	DurationSeconds  *int    `env:"SYMDIGIT_DURATION"`
	TutorialRequired *int    `env:"SYMDIGIT_TUTORIAL_REQUIRED"`
	TutorialRetry    *string `env:"SYMDIGIT_TUTORIAL_RETRY"`
	AutoStart        *bool   `env:"SYMDIGIT_AUTO_START"`
	Lang             *string `env:"SYMDIGIT_LANG"`
	KeyFile          *string `env:"SYMDIGIT_KEY_FILE"`
	DBPath           string  `env:"SYMDIGIT_DB"`
	LogPath          string  `env:"SYMDIGIT_LOG"`
}

// LoadEnv reads overrides from the process environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Merge layers env overrides over the file config. Env wins where set.
func Merge(file GameConfig, e EnvConfig) GameConfig {
	out := file
	if e.Variant != nil {
		out.Variant = e.Variant
	}
	if e.DurationSeconds != nil {
		out.DurationSeconds = e.DurationSeconds
	}
	if e.TutorialRequired != nil {
		out.TutorialRequired = e.TutorialRequired
	}
	if e.TutorialRetry != nil {
		out.TutorialRetry = e.TutorialRetry
	}
	if e.AutoStart != nil {
		out.AutoStart = e.AutoStart
	}
	if e.Lang != nil {
		out.Lang = e.Lang
	}
	if e.KeyFile != nil {
		out.KeyFile = e.KeyFile
	}
	return out
}

// DBPathOrDefault returns the env override or the XDG default.
func (e EnvConfig) DBPathOrDefault() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}

// LogPathOrDefault returns the env override or the XDG default.
func (e EnvConfig) LogPathOrDefault() string {
	if e.LogPath != "" {
		return e.LogPath
	}
	return DefaultLogPath()
}
