package data

import (
	"github.com/udisondev/spellcost/internal/magic"
	"github.com/udisondev/spellcost/internal/model"
)

// EffectTemplate: immutable описание типа эффекта, загруженное из каталога.
// Один экземпляр на ключ эффекта, shared между всеми заклинаниями, НЕ модифицировать после загрузки.
type EffectTemplate struct {
	Key        string      `yaml:"key"`
	Name       string      `yaml:"name"`
	MagicSkill model.Skill `yaml:"magic_skill"`

	SupportDuration  bool `yaml:"support_duration"`
	SupportChance    bool `yaml:"support_chance"`
	SupportMagnitude bool `yaml:"support_magnitude"`

	DurationCosts  *magic.EffectCosts `yaml:"duration_costs,omitempty"`
	ChanceCosts    *magic.EffectCosts `yaml:"chance_costs,omitempty"`
	MagnitudeCosts *magic.EffectCosts `yaml:"magnitude_costs,omitempty"`
}

// Properties implements magic.Effect.
func (t *EffectTemplate) Properties() magic.EffectProperties {
	return magic.EffectProperties{
		SupportDuration:  t.SupportDuration,
		SupportChance:    t.SupportChance,
		SupportMagnitude: t.SupportMagnitude,
		MagicSkill:       t.MagicSkill,
		DurationCosts:    t.DurationCosts,
		ChanceCosts:      t.ChanceCosts,
		MagnitudeCosts:   t.MagnitudeCosts,
	}
}
