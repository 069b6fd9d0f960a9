package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/symdigit/internal/game"
	"github.com/verte-zerg/symdigit/internal/i18n"
	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/symbols"
	"github.com/verte-zerg/symdigit/internal/tutorial"
)

func validateConfig(cfg model.Config) error {
	if _, err := symbols.LookupVariant(cfg.Variant); err != nil {
		return fmt.Errorf("--variant: %w", err)
	}
	if cfg.DurationSeconds < 0 || cfg.DurationSeconds > maxDurationSeconds {
		return fmt.Errorf("--duration must be between 0 and %d", maxDurationSeconds)
	}
	if cfg.TutorialRequired < 0 || cfg.TutorialRequired > maxTutorialRequired {
		return fmt.Errorf("--tutorial-required must be between 0 and %d", maxTutorialRequired)
	}
	if _, err := tutorial.ParseRetryPolicy(cfg.TutorialRetry); err != nil {
		return fmt.Errorf("--tutorial-retry: %w", err)
	}
	if !supportedLang(cfg.Lang) {
		return fmt.Errorf("--lang must be one of: %s", strings.Join(supportedLangs(), ", "))
	}
	return nil
}

func supportedLangs() []string {
	cat, err := i18n.Load()
	if err != nil {
		return []string{i18n.BaseLocale}
	}
	return cat.Locales()
}

func supportedLang(lang string) bool {
	for _, l := range supportedLangs() {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

// resolveSettings turns a validated config into game settings and the key.
// Zero duration and quota fall back to the variant's values.
func resolveSettings(cfg model.Config) (game.Settings, symbols.Key, error) {
	v, err := symbols.LookupVariant(cfg.Variant)
	if err != nil {
		return game.Settings{}, symbols.Key{}, err
	}
	if cfg.KeyFile != "" {
		entries, err := symbols.LoadKeyFile(cfg.KeyFile)
		if err != nil {
			return game.Settings{}, symbols.Key{}, fmt.Errorf("failed to load key file: %w", err)
		}
		v = v.WithEntries(entries)
	}
	key, err := v.Key()
	if err != nil {
		return game.Settings{}, symbols.Key{}, fmt.Errorf("invalid key: %w", err)
	}
	retry, err := tutorial.ParseRetryPolicy(cfg.TutorialRetry)
	if err != nil {
		return game.Settings{}, symbols.Key{}, err
	}
	settings := game.Settings{
		Variant:          v,
		Duration:         v.Duration,
		TutorialRequired: v.TutorialRequired,
		TutorialRetry:    retry,
		AutoStart:        cfg.AutoStart,
	}
	if cfg.DurationSeconds > 0 {
		settings.Duration = time.Duration(cfg.DurationSeconds) * time.Second
	}
	if cfg.TutorialRequired > 0 {
		settings.TutorialRequired = cfg.TutorialRequired
	}
	return settings, key, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# symdigit configuration
# Uncomment a value to enable it. SYMDIGIT_* environment variables override
# config values, and CLI flags override both.

[game]
# variant = %q            # Symbol set (%s)
# duration = 60                # Session length in seconds (0: variant default)
# tutorial-required = 10       # Correct practice answers before the session
# tutorial-retry = %q       # After a wrong practice answer: keep or advance
# auto-start = false           # Start the session right after the tutorial
# lang = %q                   # Interface language
# key-file = ""                # Custom key file (TOKEN GLYPH DIGIT per line)
`,
		symbols.DefaultVariant,
		strings.Join(symbols.VariantNames(), ", "),
		defaultTutorialRetry,
		defaultLang,
	)
}
