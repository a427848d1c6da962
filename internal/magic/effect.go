// Package magic computes gold and spell-point costs of spell effects.
package magic

import (
	"fmt"
	"math"

	"github.com/udisondev/spellcost/internal/model"
)

// EffectCosts is the linear cost model of one effect component:
// OffsetGold + CostA*starting + CostB*increasePerLevel.
type EffectCosts struct {
	OffsetGold float64 `yaml:"offset_gold"`
	CostA      float64 `yaml:"cost_a"`
	CostB      float64 `yaml:"cost_b"`
}

// Validate rejects coefficients that are NaN, infinite or beyond int range.
func (c EffectCosts) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"offset_gold", c.OffsetGold},
		{"cost_a", c.CostA},
		{"cost_b", c.CostB},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || math.Abs(f.v) >= float64(math.MaxInt) {
			return fmt.Errorf("%s = %g: %w", f.name, f.v, ErrInvalidConfiguration)
		}
	}
	return nil
}

// EffectProperties describes the cost-relevant properties of an effect type.
// Cost pointers may be nil for components the effect does not support.
type EffectProperties struct {
	SupportDuration  bool
	SupportChance    bool
	SupportMagnitude bool
	MagicSkill       model.Skill

	DurationCosts  *EffectCosts
	ChanceCosts    *EffectCosts
	MagnitudeCosts *EffectCosts
}

// HasActiveComponents reports whether any of duration, chance or magnitude is supported.
func (p EffectProperties) HasActiveComponents() bool {
	return p.SupportDuration || p.SupportChance || p.SupportMagnitude
}

// Effect is anything that can describe its cost properties.
type Effect interface {
	Properties() EffectProperties
}

// EffectSettings holds per-spell values for each component.
// Plus values are granted once per PerLevel caster levels.
type EffectSettings struct {
	DurationBase     int `yaml:"duration_base"`
	DurationPlus     int `yaml:"duration_plus"`
	DurationPerLevel int `yaml:"duration_per_level"`

	ChanceBase     int `yaml:"chance_base"`
	ChancePlus     int `yaml:"chance_plus"`
	ChancePerLevel int `yaml:"chance_per_level"`

	MagnitudeBaseMin  int `yaml:"magnitude_base_min"`
	MagnitudeBaseMax  int `yaml:"magnitude_base_max"`
	MagnitudePlusMin  int `yaml:"magnitude_plus_min"`
	MagnitudePlusMax  int `yaml:"magnitude_plus_max"`
	MagnitudePerLevel int `yaml:"magnitude_per_level"`
}

// SpellCost is the result of a cost calculation.
type SpellCost struct {
	GoldCost       int `json:"gold_cost" yaml:"gold_cost"`
	SpellPointCost int `json:"spell_point_cost" yaml:"spell_point_cost"`
}

// Add returns the component-wise sum of two costs.
func (c SpellCost) Add(other SpellCost) SpellCost {
	return SpellCost{
		GoldCost:       c.GoldCost + other.GoldCost,
		SpellPointCost: c.SpellPointCost + other.SpellPointCost,
	}
}

// Caster resolves live skill values for cost scaling.
type Caster interface {
	LiveSkillValue(skill model.Skill) (int, error)
}

// DefaultCasterFunc returns the caster used when none is passed explicitly
// (normally the current player). Returns false if nobody can be resolved.
type DefaultCasterFunc func() (Caster, bool)

// EffectCostFormula is the contract hosts depend on to price an effect.
type EffectCostFormula interface {
	EffectCosts(effect Effect, settings EffectSettings, caster Caster) (SpellCost, error)
}
