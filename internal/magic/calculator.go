package magic

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
)

// DefaultEffectGoldCost is the gold cost of an effect with no duration, chance or magnitude.
const DefaultEffectGoldCost = 320

// Spell point cost = gold * (spellPointSkillCap - skill) / spellPointDivisor.
// Skill above the cap yields a negative cost; callers get it as is.
const (
	spellPointSkillCap = 110
	spellPointDivisor  = 400
)

// Calculator prices spell effects. Stateless after construction and safe
// for concurrent use.
type Calculator struct {
	defaultGoldCost int
	defaultCaster   DefaultCasterFunc
	logger          *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithDefaultGoldCost overrides the flat cost of effects without active components.
func WithDefaultGoldCost(gold int) Option {
	return func(c *Calculator) { c.defaultGoldCost = gold }
}

// WithDefaultCaster sets the provider used when EffectCosts gets a nil caster.
func WithDefaultCaster(fn DefaultCasterFunc) Option {
	return func(c *Calculator) { c.defaultCaster = fn }
}

// WithLogger sets the logger for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// NewCalculator creates a Calculator with DefaultEffectGoldCost and no default caster.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{defaultGoldCost: DefaultEffectGoldCost}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// DefaultGoldCost returns the configured flat cost.
func (c *Calculator) DefaultGoldCost() int {
	return c.defaultGoldCost
}

// EffectCosts computes gold and spell-point cost of one effect.
//
// Differences from the classic formula:
//   - the average of min/max magnitude is not truncated, so 1-2 costs more than 1-1;
//   - the per-level increase is not truncated, so 1 per 2 levels costs more than 0 per 2 levels.
//
// Each component is truncated toward zero before summing. Nothing is
// returned on error.
func (c *Calculator) EffectCosts(effect Effect, settings EffectSettings, caster Caster) (SpellCost, error) {
	if isNil(effect) {
		return SpellCost{}, fmt.Errorf("nil effect: %w", ErrInvalidConfiguration)
	}
	props := effect.Properties()

	caster, err := c.resolveCaster(caster)
	if err != nil {
		return SpellCost{}, err
	}

	skillValue, err := caster.LiveSkillValue(props.MagicSkill)
	if err != nil {
		return SpellCost{}, fmt.Errorf("%w: %s: %w", ErrSkillLookup, props.MagicSkill, err)
	}

	if !props.HasActiveComponents() {
		return SpellCost{
			GoldCost:       c.defaultGoldCost,
			SpellPointCost: spellPointCost(c.defaultGoldCost, skillValue),
		}, nil
	}

	if err := validate(props, settings); err != nil {
		return SpellCost{}, err
	}

	var durationGold, chanceGold, magnitudeGold int
	if props.SupportDuration {
		durationGold, err = ComponentGoldCost(*props.DurationCosts,
			float64(settings.DurationBase),
			float64(settings.DurationPlus)/float64(settings.DurationPerLevel))
		if err != nil {
			return SpellCost{}, fmt.Errorf("duration: %w", err)
		}
	}
	if props.SupportChance {
		chanceGold, err = ComponentGoldCost(*props.ChanceCosts,
			float64(settings.ChanceBase),
			float64(settings.ChancePlus)/float64(settings.ChancePerLevel))
		if err != nil {
			return SpellCost{}, fmt.Errorf("chance: %w", err)
		}
	}
	if props.SupportMagnitude {
		magnitudeBase := float64(settings.MagnitudeBaseMin+settings.MagnitudeBaseMax) / 2.0
		magnitudePlus := float64(settings.MagnitudePlusMin+settings.MagnitudePlusMax) / 2.0
		magnitudeGold, err = ComponentGoldCost(*props.MagnitudeCosts,
			magnitudeBase,
			magnitudePlus/float64(settings.MagnitudePerLevel))
		if err != nil {
			return SpellCost{}, fmt.Errorf("magnitude: %w", err)
		}
	}

	total, ok := addGold(durationGold, chanceGold)
	if ok {
		total, ok = addGold(total, magnitudeGold)
	}
	if !ok {
		return SpellCost{}, fmt.Errorf("total gold cost overflows int: %w", ErrInvalidConfiguration)
	}
	cost := SpellCost{
		GoldCost:       total,
		SpellPointCost: spellPointCost(total, skillValue),
	}

	c.logger.Debug("effect cost",
		"skill", props.MagicSkill,
		"skill_value", skillValue,
		"duration_gold", durationGold,
		"chance_gold", chanceGold,
		"magnitude_gold", magnitudeGold,
		"gold", cost.GoldCost,
		"spell_points", cost.SpellPointCost)

	return cost, nil
}

// ComponentGoldCost evaluates one component's linear cost model and truncates toward zero.
// A result that is not finite or does not fit in an int is ErrInvalidConfiguration.
func ComponentGoldCost(costs EffectCosts, starting, increasePerLevel float64) (int, error) {
	gold := math.Trunc(costs.OffsetGold + costs.CostA*starting + costs.CostB*increasePerLevel)
	if math.IsNaN(gold) || gold < float64(math.MinInt) || gold >= float64(math.MaxInt) {
		return 0, fmt.Errorf("gold cost %g out of int range: %w", gold, ErrInvalidConfiguration)
	}
	return int(gold), nil
}

func addGold(a, b int) (int, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func (c *Calculator) resolveCaster(caster Caster) (Caster, error) {
	if caster != nil {
		return caster, nil
	}
	if c.defaultCaster == nil {
		return nil, ErrUnresolvableCaster
	}
	def, ok := c.defaultCaster()
	if !ok || def == nil {
		return nil, ErrUnresolvableCaster
	}
	return def, nil
}

// validate checks every supported component before any cost is computed.
func validate(props EffectProperties, settings EffectSettings) error {
	if props.SupportDuration {
		if err := checkComponent("duration", props.DurationCosts, settings.DurationPerLevel); err != nil {
			return err
		}
	}
	if props.SupportChance {
		if err := checkComponent("chance", props.ChanceCosts, settings.ChancePerLevel); err != nil {
			return err
		}
	}
	if props.SupportMagnitude {
		if err := checkComponent("magnitude", props.MagnitudeCosts, settings.MagnitudePerLevel); err != nil {
			return err
		}
	}
	return nil
}

func checkComponent(name string, costs *EffectCosts, perLevel int) error {
	if costs == nil {
		return fmt.Errorf("%s costs missing: %w", name, ErrInvalidConfiguration)
	}
	if perLevel == 0 {
		return fmt.Errorf("%s per-level divisor is zero: %w", name, ErrInvalidConfiguration)
	}
	if err := costs.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// isNil also catches typed nil pointers wrapped in the interface.
func isNil(effect Effect) bool {
	if effect == nil {
		return true
	}
	v := reflect.ValueOf(effect)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func spellPointCost(gold, skillValue int) int {
	return gold * (spellPointSkillCap - skillValue) / spellPointDivisor
}
