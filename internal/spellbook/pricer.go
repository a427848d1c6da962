package spellbook

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/spellcost/internal/magic"
)

// SpellFormula prices a full spell.
type SpellFormula interface {
	SpellCosts(spell magic.Spell, caster magic.Caster) (magic.SpellCost, error)
}

// Result is the price of one spell.
type Result struct {
	Spell string          `json:"spell"`
	Cost  magic.SpellCost `json:"cost"`
}

// Pricer prices spells in parallel with a bounded number of workers.
type Pricer struct {
	formula SpellFormula
	workers int
}

// NewPricer creates a Pricer. workers < 1 is treated as 1.
func NewPricer(formula SpellFormula, workers int) *Pricer {
	return &Pricer{formula: formula, workers: max(workers, 1)}
}

// PriceAll prices spells for caster (nil = formula's default caster).
// Results keep the input order. The first error cancels the remaining work.
func (p *Pricer) PriceAll(ctx context.Context, spells []magic.Spell, caster magic.Caster) ([]Result, error) {
	results := make([]Result, len(spells))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, spell := range spells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cost, err := p.formula.SpellCosts(spell, caster)
			if err != nil {
				return fmt.Errorf("pricing spell %q: %w", spell.Name, err)
			}
			results[i] = Result{Spell: spell.Name, Cost: cost}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("priced spellbook", "spells", len(results), "workers", p.workers)
	return results, nil
}
