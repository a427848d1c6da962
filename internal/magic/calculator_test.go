package magic

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcost/internal/model"
	"github.com/udisondev/spellcost/internal/testutil"
)

type testEffect EffectProperties

func (e testEffect) Properties() EffectProperties { return EffectProperties(e) }

type pointerEffect struct{}

func (e *pointerEffect) Properties() EffectProperties { return EffectProperties{MagicSkill: model.SkillIllusion} }

func costs(offset, a, b float64) *EffectCosts {
	return &EffectCosts{OffsetGold: offset, CostA: a, CostB: b}
}

func magnitudeOnly(c *EffectCosts) testEffect {
	return testEffect{
		SupportMagnitude: true,
		MagicSkill:       model.SkillDestruction,
		MagnitudeCosts:   c,
	}
}

func TestEffectCosts_NoActiveComponents(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	effect := testEffect{MagicSkill: model.SkillMysticism}

	for skill := 0; skill <= 110; skill++ {
		cost, err := calc.EffectCosts(effect, EffectSettings{}, testutil.NewStubCaster(skill))
		require.NoError(t, err)
		assert.Equal(t, DefaultEffectGoldCost, cost.GoldCost, "skill=%d", skill)
		assert.Equal(t, DefaultEffectGoldCost*(110-skill)/400, cost.SpellPointCost, "skill=%d", skill)
		assert.GreaterOrEqual(t, cost.SpellPointCost, 0, "skill=%d", skill)
	}
}

func TestEffectCosts_NoActiveComponentsIgnoresSettings(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	settings := EffectSettings{DurationBase: 99, MagnitudeBaseMax: 50}

	cost, err := calc.EffectCosts(testEffect{}, settings, testutil.NewStubCaster(30))
	require.NoError(t, err)
	assert.Equal(t, SpellCost{GoldCost: 320, SpellPointCost: 64}, cost)
}

func TestEffectCosts_CustomDefaultGoldCost(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(WithDefaultGoldCost(400))
	assert.Equal(t, 400, calc.DefaultGoldCost())

	cost, err := calc.EffectCosts(testEffect{}, EffectSettings{}, testutil.NewStubCaster(10))
	require.NoError(t, err)
	assert.Equal(t, SpellCost{GoldCost: 400, SpellPointCost: 100}, cost)
}

func TestEffectCosts_MagnitudeScenario(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	settings := EffectSettings{
		MagnitudeBaseMin:  1,
		MagnitudeBaseMax:  3,
		MagnitudePerLevel: 1,
	}

	cost, err := calc.EffectCosts(magnitudeOnly(costs(0, 10, 0)), settings, testutil.NewStubCaster(60))
	require.NoError(t, err)
	assert.Equal(t, SpellCost{GoldCost: 20, SpellPointCost: 2}, cost)
}

func TestEffectCosts_MagnitudeAverageNotTruncated(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	caster := testutil.NewStubCaster(0)

	tests := []struct {
		name     string
		settings EffectSettings
		want     int
	}{
		{
			name:     "2-4 averages to 3",
			settings: EffectSettings{MagnitudeBaseMin: 2, MagnitudeBaseMax: 4, MagnitudePerLevel: 1},
			want:     30,
		},
		{
			name:     "1-2 costs more than 1-1",
			settings: EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 2, MagnitudePerLevel: 1},
			want:     15,
		},
		{
			name:     "1-1",
			settings: EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 1, MagnitudePerLevel: 1},
			want:     10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := calc.EffectCosts(magnitudeOnly(costs(0, 10, 0)), tt.settings, caster)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cost.GoldCost)
		})
	}
}

func TestEffectCosts_PerLevelIncreaseNotTruncated(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	effect := testEffect{
		SupportDuration: true,
		DurationCosts:   costs(0, 0, 10),
	}

	// 1 per 2 levels -> 0.5 * 10
	cost, err := calc.EffectCosts(effect, EffectSettings{DurationPlus: 1, DurationPerLevel: 2}, testutil.NewStubCaster(0))
	require.NoError(t, err)
	assert.Equal(t, 5, cost.GoldCost)

	// magnitude plus 1-2 averaged to 1.5, per 3 levels -> 0.5 * 10
	cost, err = calc.EffectCosts(magnitudeOnly(costs(0, 0, 10)),
		EffectSettings{MagnitudePlusMin: 1, MagnitudePlusMax: 2, MagnitudePerLevel: 3},
		testutil.NewStubCaster(0))
	require.NoError(t, err)
	assert.Equal(t, 5, cost.GoldCost)
}

func TestComponentGoldCost_Truncates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		costs    EffectCosts
		starting float64
		increase float64
		want     int
	}{
		{"1.5 truncates to 1", EffectCosts{CostA: 1.5}, 1, 0, 1},
		{"1.99 truncates to 1", EffectCosts{OffsetGold: 0.99, CostA: 1}, 1, 0, 1},
		{"negative truncates toward zero", EffectCosts{CostA: -1.5}, 1, 0, -1},
		{"offset only", EffectCosts{OffsetGold: 7}, 100, 100, 7},
		{"all terms", EffectCosts{OffsetGold: 2, CostA: 3, CostB: 4}, 5, 0.25, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComponentGoldCost(tt.costs, tt.starting, tt.increase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComponentGoldCost_OutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		costs    EffectCosts
		starting float64
	}{
		{"positive infinity", EffectCosts{CostA: math.Inf(1)}, 1},
		{"negative infinity", EffectCosts{OffsetGold: math.Inf(-1)}, 0},
		{"nan", EffectCosts{CostA: math.NaN()}, 1},
		{"above max int", EffectCosts{CostA: 1e18}, 100},
		{"below min int", EffectCosts{CostA: -1e18}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComponentGoldCost(tt.costs, tt.starting, 0)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestEffectCosts_ComponentAdditivity(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	caster := testutil.NewStubCaster(50)

	full := testEffect{
		SupportDuration:  true,
		SupportChance:    true,
		SupportMagnitude: true,
		MagicSkill:       model.SkillAlteration,
		DurationCosts:    costs(5, 2, 3),
		ChanceCosts:      costs(1, 0.5, 1),
		MagnitudeCosts:   costs(4, 1.25, 2.5),
	}
	settings := EffectSettings{
		DurationBase: 10, DurationPlus: 3, DurationPerLevel: 2,
		ChanceBase: 25, ChancePlus: 1, ChancePerLevel: 3,
		MagnitudeBaseMin: 3, MagnitudeBaseMax: 8,
		MagnitudePlusMin: 1, MagnitudePlusMax: 2, MagnitudePerLevel: 1,
	}

	total, err := calc.EffectCosts(full, settings, caster)
	require.NoError(t, err)

	var sum int
	for _, only := range []func(*testEffect){
		func(e *testEffect) { e.SupportChance, e.SupportMagnitude = false, false },
		func(e *testEffect) { e.SupportDuration, e.SupportMagnitude = false, false },
		func(e *testEffect) { e.SupportDuration, e.SupportChance = false, false },
	} {
		e := full
		only(&e)
		cost, err := calc.EffectCosts(e, settings, caster)
		require.NoError(t, err)
		sum += cost.GoldCost
	}

	// 29 (29.5) + 13 (13.83) + 14 (14.625)
	assert.Equal(t, 56, total.GoldCost)
	assert.Equal(t, sum, total.GoldCost)
	assert.Equal(t, 56*60/400, total.SpellPointCost)
}

func TestEffectCosts_SpellPointsMonotonicInSkill(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	effect := magnitudeOnly(costs(3, 7, 2))
	settings := EffectSettings{MagnitudeBaseMin: 5, MagnitudeBaseMax: 15, MagnitudePlusMin: 1, MagnitudePlusMax: 3, MagnitudePerLevel: 2}

	prev, err := calc.EffectCosts(effect, settings, testutil.NewStubCaster(0))
	require.NoError(t, err)
	for skill := 1; skill <= 200; skill++ {
		cost, err := calc.EffectCosts(effect, settings, testutil.NewStubCaster(skill))
		require.NoError(t, err)
		assert.Equal(t, prev.GoldCost, cost.GoldCost, "gold cost does not depend on skill")
		assert.LessOrEqual(t, cost.SpellPointCost, prev.SpellPointCost, "skill=%d", skill)
		prev = cost
	}
}

func TestEffectCosts_SkillAboveCapGoesNegative(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	cost, err := calc.EffectCosts(testEffect{}, EffectSettings{}, testutil.NewStubCaster(110))
	require.NoError(t, err)
	assert.Equal(t, 0, cost.SpellPointCost)

	cost, err = calc.EffectCosts(testEffect{}, EffectSettings{}, testutil.NewStubCaster(150))
	require.NoError(t, err)
	assert.Equal(t, -32, cost.SpellPointCost)
}

func TestEffectCosts_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	caster := testutil.NewStubCaster(40)

	tests := []struct {
		name     string
		effect   Effect
		settings EffectSettings
	}{
		{
			name:     "zero duration divisor",
			effect:   testEffect{SupportDuration: true, DurationCosts: costs(1, 1, 1)},
			settings: EffectSettings{DurationBase: 1, DurationPlus: 1},
		},
		{
			name:     "zero chance divisor",
			effect:   testEffect{SupportChance: true, ChanceCosts: costs(1, 1, 1)},
			settings: EffectSettings{ChanceBase: 1, ChancePlus: 1},
		},
		{
			name:     "zero magnitude divisor",
			effect:   magnitudeOnly(costs(1, 1, 1)),
			settings: EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 2},
		},
		{
			name:     "zero divisor with zero plus",
			effect:   magnitudeOnly(costs(1, 1, 1)),
			settings: EffectSettings{},
		},
		{
			name:     "missing magnitude costs",
			effect:   magnitudeOnly(nil),
			settings: EffectSettings{MagnitudePerLevel: 1},
		},
		{
			name: "bad component among valid ones",
			effect: testEffect{
				SupportDuration: true, DurationCosts: costs(1, 1, 1),
				SupportChance: true, ChanceCosts: costs(1, 1, 1),
			},
			settings: EffectSettings{DurationPerLevel: 1},
		},
		{
			name:   "nil effect",
			effect: nil,
		},
		{
			name:   "typed nil effect",
			effect: (*pointerEffect)(nil),
		},
		{
			name:     "infinite coefficient",
			effect:   magnitudeOnly(costs(0, math.Inf(1), 0)),
			settings: EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 1, MagnitudePerLevel: 1},
		},
		{
			name:     "nan coefficient",
			effect:   magnitudeOnly(costs(0, math.NaN(), 0)),
			settings: EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 1, MagnitudePerLevel: 1},
		},
		{
			name:     "coefficient beyond int range",
			effect:   magnitudeOnly(costs(0, 1e300, 0)),
			settings: EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 1, MagnitudePerLevel: 1},
		},
		{
			name:     "infinite offset on duration",
			effect:   testEffect{SupportDuration: true, DurationCosts: costs(math.Inf(-1), 0, 0)},
			settings: EffectSettings{DurationPerLevel: 1},
		},
		{
			name:     "component cost overflows int",
			effect:   magnitudeOnly(costs(0, 1e18, 0)),
			settings: EffectSettings{MagnitudeBaseMin: 100, MagnitudeBaseMax: 100, MagnitudePerLevel: 1},
		},
		{
			name: "total cost overflows int",
			effect: testEffect{
				SupportDuration: true, DurationCosts: costs(9e18, 0, 0),
				SupportMagnitude: true, MagnitudeCosts: costs(9e18, 0, 0),
			},
			settings: EffectSettings{DurationPerLevel: 1, MagnitudePerLevel: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := calc.EffectCosts(tt.effect, tt.settings, caster)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Equal(t, SpellCost{}, cost)
		})
	}
}

func TestEffectCosts_UnsupportedComponentIgnoresZeroDivisor(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	effect := magnitudeOnly(costs(0, 10, 0))
	effect.DurationCosts = costs(100, 100, 100)

	cost, err := calc.EffectCosts(effect, EffectSettings{
		DurationBase:      5,
		DurationPlus:      5,
		MagnitudeBaseMin:  1,
		MagnitudeBaseMax:  1,
		MagnitudePerLevel: 1,
	}, testutil.NewStubCaster(10))
	require.NoError(t, err)
	assert.Equal(t, 10, cost.GoldCost)
}

func TestEffectCosts_DefaultCaster(t *testing.T) {
	t.Parallel()

	player := testutil.NewStubCaster(30)
	calc := NewCalculator(WithDefaultCaster(func() (Caster, bool) { return player, true }))

	cost, err := calc.EffectCosts(testEffect{}, EffectSettings{}, nil)
	require.NoError(t, err)
	assert.Equal(t, SpellCost{GoldCost: 320, SpellPointCost: 64}, cost)
	assert.Equal(t, int32(1), player.Calls.Load())

	// An explicit caster wins over the default one.
	other := testutil.NewStubCaster(70)
	cost, err = calc.EffectCosts(testEffect{}, EffectSettings{}, other)
	require.NoError(t, err)
	assert.Equal(t, 32, cost.SpellPointCost)
	assert.Equal(t, int32(1), player.Calls.Load())
}

func TestEffectCosts_UnresolvableCaster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		calc *Calculator
	}{
		{"no provider", NewCalculator()},
		{"provider reports nobody", NewCalculator(WithDefaultCaster(func() (Caster, bool) { return nil, false }))},
		{"provider returns nil", NewCalculator(WithDefaultCaster(func() (Caster, bool) { return nil, true }))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.calc.EffectCosts(testEffect{}, EffectSettings{}, nil)
			assert.ErrorIs(t, err, ErrUnresolvableCaster)
		})
	}
}

func TestEffectCosts_SkillLookupFailurePropagates(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()

	cost, err := calc.EffectCosts(magnitudeOnly(costs(0, 10, 0)),
		EffectSettings{MagnitudePerLevel: 1}, testutil.FailingCaster{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSkillLookup)
	assert.ErrorIs(t, err, testutil.ErrSimulated)
	assert.Equal(t, SpellCost{}, cost)
}

func TestEffectCosts_UsesGoverningSkill(t *testing.T) {
	t.Parallel()

	sheet := model.NewSkillSheet("Mage", map[model.Skill]int{
		model.SkillDestruction: 10,
		model.SkillRestoration: 90,
	})
	calc := NewCalculator()

	cost, err := calc.EffectCosts(testEffect{MagicSkill: model.SkillRestoration}, EffectSettings{}, sheet)
	require.NoError(t, err)
	assert.Equal(t, 320*20/400, cost.SpellPointCost)

	_, err = calc.EffectCosts(testEffect{MagicSkill: model.SkillIllusion}, EffectSettings{}, sheet)
	assert.ErrorIs(t, err, ErrSkillLookup)
	assert.ErrorIs(t, err, model.ErrUnknownSkill)
}

func TestCalculator_ConcurrentUse(t *testing.T) {
	t.Parallel()

	calc := NewCalculator()
	effect := magnitudeOnly(costs(0, 10, 0))
	settings := EffectSettings{MagnitudeBaseMin: 1, MagnitudeBaseMax: 3, MagnitudePerLevel: 1}
	caster := testutil.NewStubCaster(60)

	var wg sync.WaitGroup
	results := make([]SpellCost, 64)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cost, err := calc.EffectCosts(effect, settings, caster)
			if err == nil {
				results[i] = cost
			}
		}()
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, SpellCost{GoldCost: 20, SpellPointCost: 2}, r, "goroutine %d", i)
	}
}

func TestCalculator_ImplementsFormula(t *testing.T) {
	var _ EffectCostFormula = NewCalculator()
}
