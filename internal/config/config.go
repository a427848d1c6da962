package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/spellcost/internal/magic"
	"github.com/udisondev/spellcost/internal/model"
)

// Environment overrides, applied after the YAML file.
const (
	EnvConfigPath      = "SPELLCOST_CONFIG"
	EnvLogLevel        = "SPELLCOST_LOG_LEVEL"
	EnvDefaultGoldCost = "SPELLCOST_DEFAULT_GOLD_COST"
	EnvCatalogPath     = "SPELLCOST_CATALOG"
	EnvWorkers         = "SPELLCOST_WORKERS"
)

// SpellCost holds all configuration for the spell cost tool.
type SpellCost struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Flat gold cost of an effect without duration, chance or magnitude.
	DefaultEffectGoldCost int `yaml:"default_effect_gold_cost"`

	// Effect catalog YAML; empty means the embedded default catalog.
	CatalogPath string `yaml:"catalog_path"`

	// Max spells priced in parallel.
	Workers int `yaml:"workers"`

	// Player is the default caster, used by spellbooks without their own caster.
	Player CasterConfig `yaml:"player"`
}

// CasterConfig describes a caster's live magic skill values.
type CasterConfig struct {
	Name   string              `yaml:"name"`
	Skills map[model.Skill]int `yaml:"skills"`
}

// DefaultSpellCost returns SpellCost config with sensible defaults.
func DefaultSpellCost() SpellCost {
	return SpellCost{
		LogLevel:              "info",
		DefaultEffectGoldCost: magic.DefaultEffectGoldCost,
		Workers:               4,
	}
}

// Load loads config from a YAML file and applies environment overrides.
// If the file doesn't exist, returns defaults (plus overrides).
func Load(path string) (SpellCost, error) {
	cfg := DefaultSpellCost()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decodeStrict rejects unknown keys so typos don't fall back to defaults silently.
func decodeStrict(data []byte, cfg *SpellCost) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *SpellCost) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCatalogPath); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv(EnvDefaultGoldCost); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvDefaultGoldCost, v, err)
		}
		c.DefaultEffectGoldCost = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks value ranges.
func (c SpellCost) Validate() error {
	if c.DefaultEffectGoldCost < 0 {
		return fmt.Errorf("default_effect_gold_cost must be >= 0, got %d", c.DefaultEffectGoldCost)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// SlogLevel returns LogLevel as slog.Level (info if unknown).
func (c SpellCost) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// HasPlayer reports whether a default player caster is configured.
func (c SpellCost) HasPlayer() bool {
	return len(c.Player.Skills) > 0
}

// Sheet builds a skill sheet from the configured values.
func (c CasterConfig) Sheet() *model.SkillSheet {
	return model.NewSkillSheet(c.Name, c.Skills)
}
