package magic

import "fmt"

// SpellEffect is one configured effect inside a spell.
type SpellEffect struct {
	Effect   Effect
	Settings EffectSettings
}

// Spell is a named bundle of effects cast together.
type Spell struct {
	Name    string
	Effects []SpellEffect
}

// SpellCosts sums the costs of every effect of the spell.
// A nil caster is resolved once, so all effects are priced for the same caster.
func (c *Calculator) SpellCosts(spell Spell, caster Caster) (SpellCost, error) {
	var total SpellCost
	if len(spell.Effects) == 0 {
		return total, nil
	}

	caster, err := c.resolveCaster(caster)
	if err != nil {
		return SpellCost{}, fmt.Errorf("spell %q: %w", spell.Name, err)
	}

	for i, se := range spell.Effects {
		cost, err := c.EffectCosts(se.Effect, se.Settings, caster)
		if err != nil {
			return SpellCost{}, fmt.Errorf("spell %q effect %d: %w", spell.Name, i, err)
		}
		total = total.Add(cost)
	}
	return total, nil
}
