package data

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/spellcost/internal/magic"
)

//go:embed effects.yaml
var defaultCatalogYAML []byte

// Catalog хранит registry всех типов эффектов, индексированный по ключу.
// Read-only после загрузки, безопасен для конкурентного чтения.
type Catalog struct {
	effects map[string]*EffectTemplate
	keys    []string
}

type catalogFile struct {
	Effects []*EffectTemplate `yaml:"effects"`
}

// DefaultCatalog parses the catalog embedded into the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogYAML))
}

// LoadCatalogFile loads a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening effect catalog %s: %w", path, err)
	}
	defer f.Close()

	cat, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("effect catalog %s: %w", path, err)
	}
	return cat, nil
}

// LoadCatalog parses a YAML catalog and validates every template.
// Unknown fields are rejected to catch typos in cost keys.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file catalogFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing effect catalog: empty document")
		}
		return nil, fmt.Errorf("parsing effect catalog: %w", err)
	}

	cat := &Catalog{effects: make(map[string]*EffectTemplate, len(file.Effects))}
	for i, t := range file.Effects {
		if t == nil {
			return nil, fmt.Errorf("effect #%d: empty entry", i)
		}
		if err := validateTemplate(t); err != nil {
			return nil, fmt.Errorf("effect #%d (%q): %w", i, t.Key, err)
		}
		if _, dup := cat.effects[t.Key]; dup {
			return nil, fmt.Errorf("effect #%d: duplicate key %q", i, t.Key)
		}
		cat.effects[t.Key] = t
		cat.keys = append(cat.keys, t.Key)
	}
	slices.Sort(cat.keys)

	slog.Info("loaded effect catalog", "effects", len(cat.effects))
	return cat, nil
}

func validateTemplate(t *EffectTemplate) error {
	if t.Key == "" {
		return fmt.Errorf("missing key")
	}
	if t.SupportDuration && t.DurationCosts == nil {
		return fmt.Errorf("supports duration but has no duration_costs")
	}
	if t.SupportChance && t.ChanceCosts == nil {
		return fmt.Errorf("supports chance but has no chance_costs")
	}
	if t.SupportMagnitude && t.MagnitudeCosts == nil {
		return fmt.Errorf("supports magnitude but has no magnitude_costs")
	}
	for name, costs := range map[string]*magic.EffectCosts{
		"duration_costs":  t.DurationCosts,
		"chance_costs":    t.ChanceCosts,
		"magnitude_costs": t.MagnitudeCosts,
	} {
		if costs == nil {
			continue
		}
		if err := costs.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Get returns the template by key. Returns nil, false if not found.
func (c *Catalog) Get(key string) (*EffectTemplate, bool) {
	t, ok := c.effects[key]
	return t, ok
}

// Keys returns all effect keys, sorted.
func (c *Catalog) Keys() []string {
	return slices.Clone(c.keys)
}

// Len returns the number of effect types.
func (c *Catalog) Len() int {
	return len(c.effects)
}
