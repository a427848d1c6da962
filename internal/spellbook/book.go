// Package spellbook prices whole spellbooks against an effect catalog.
package spellbook

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/spellcost/internal/config"
	"github.com/udisondev/spellcost/internal/data"
	"github.com/udisondev/spellcost/internal/magic"
	"github.com/udisondev/spellcost/internal/model"
)

// Book is a spellbook as read from YAML.
type Book struct {
	// Caster prices every spell of the book; nil falls back to the default player.
	Caster *config.CasterConfig `yaml:"caster"`
	Spells []SpellDef           `yaml:"spells"`
}

// SpellDef is one spell of the book.
type SpellDef struct {
	Name    string      `yaml:"name"`
	Effects []EffectDef `yaml:"effects"`
}

// EffectDef references a catalog effect by key with its per-spell settings.
type EffectDef struct {
	Effect   string               `yaml:"effect"`
	Settings magic.EffectSettings `yaml:"settings"`
}

// LoadBookFile reads a spellbook from a YAML file.
func LoadBookFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spellbook %s: %w", path, err)
	}
	defer f.Close()

	book, err := LoadBook(f)
	if err != nil {
		return nil, fmt.Errorf("spellbook %s: %w", path, err)
	}
	return book, nil
}

// LoadBook parses a spellbook.
func LoadBook(r io.Reader) (*Book, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var book Book
	if err := dec.Decode(&book); err != nil {
		if err == io.EOF {
			return &book, nil
		}
		return nil, fmt.Errorf("parsing spellbook: %w", err)
	}
	return &book, nil
}

// CasterSheet returns the book's own caster, or nil if the book has none.
func (b *Book) CasterSheet() *model.SkillSheet {
	if b.Caster == nil {
		return nil
	}
	return b.Caster.Sheet()
}

// Resolve binds every effect of the book to its catalog template.
func (b *Book) Resolve(cat *data.Catalog) ([]magic.Spell, error) {
	spells := make([]magic.Spell, 0, len(b.Spells))
	for i, def := range b.Spells {
		if def.Name == "" {
			return nil, fmt.Errorf("spell #%d: missing name", i)
		}
		spell := magic.Spell{Name: def.Name, Effects: make([]magic.SpellEffect, 0, len(def.Effects))}
		for j, ed := range def.Effects {
			tmpl, ok := cat.Get(ed.Effect)
			if !ok {
				return nil, fmt.Errorf("spell %q effect %d: unknown effect %q", def.Name, j, ed.Effect)
			}
			spell.Effects = append(spell.Effects, magic.SpellEffect{Effect: tmpl, Settings: ed.Settings})
		}
		spells = append(spells, spell)
	}
	return spells, nil
}
