// Package replay implements item reconstruction from an item's identity
// tuple (base_type_id, seed, operation log): regenerating the base item
// and replaying every logged currency application against the same live
// RNG stream that produced it, plus the pure-apply primitive that lets
// callers append one more operation without hand-managing RNG state.
package replay

import (
	"github.com/LukeThayer/loot-generator/internal/loot/currency"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/rng"
)

// Engine reconstructs and extends items from their identity tuple.
type Engine struct {
	Generator *generator.Generator
	Currency  *currency.Engine
}

// New builds a replay Engine over the given Generator. It owns its own
// currency.Engine bound to the same Generator/Config.
func New(gen *generator.Generator) *Engine {
	return &Engine{Generator: gen, Currency: currency.New(gen)}
}

// Reconstruct rebuilds an item from (baseTypeID, seed, ops): generate
// the base item, then replay each logged operation in order against the
// same live RNG stream, ignoring currency errors as no-ops (spec §4.G —
// an operation that is illegal to replay, e.g. because config changed
// underneath it, is simply skipped rather than aborting reconstruction).
func (e *Engine) Reconstruct(baseTypeID string, seed uint64, ops []item.Operation) (*item.Item, error) {
	src := e.Generator.NewSource(seed)
	it, err := e.Generator.GenerateNormalFrom(baseTypeID, seed, src)
	if err != nil {
		return nil, err
	}
	e.replayOnto(it, ops, src)
	it.Operations = append([]item.Operation(nil), ops...)
	return it, nil
}

func (e *Engine) replayOnto(it *item.Item, ops []item.Operation, src *rng.Source) {
	for _, op := range ops {
		if op.Kind != item.OpCurrency {
			continue
		}
		_ = e.Currency.Apply(it, op.CurrencyID, src)
	}
}

// PureApply is the public-facing primitive: given an immutable item and
// a new currency id, it fast-forwards a fresh RNG (seeded from the
// item's own seed) through the item's existing operation log against a
// scratch item, applies the new currency to a clone of the real item
// using that same now-aligned RNG, and on success returns a new item
// with the operation appended. The passed-in item is never mutated.
func (e *Engine) PureApply(it *item.Item, currencyID string) (*item.Item, error) {
	src := e.Generator.NewSource(it.Seed)

	scratch, err := e.Generator.GenerateNormalFrom(it.BaseTypeID, it.Seed, src)
	if err != nil {
		return nil, err
	}
	e.replayOnto(scratch, it.Operations, src)

	next := it.Clone()
	if err := e.Currency.Apply(next, currencyID, src); err != nil {
		return nil, err
	}
	next.Operations = append(next.Operations, item.Operation{
		Kind:       item.OpCurrency,
		CurrencyID: currencyID,
	})
	return next, nil
}
