// Package generator implements deterministic, seeded item generation:
// building a normal or unique item from a base type and a seed, and the
// weighted, tag-biased, item-level-gated affix roll shared by the
// generator and the currency engine.
package generator

import (
	"fmt"
	"sort"

	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/rng"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

// ErrUnknownBase is returned when a base_type_id has no entry in Config.
type ErrUnknownBase struct{ BaseTypeID string }

func (e *ErrUnknownBase) Error() string { return fmt.Sprintf("generator: unknown base type %q", e.BaseTypeID) }

// ErrUnknownUnique is returned when a unique_id has no entry in Config.
type ErrUnknownUnique struct{ UniqueID string }

func (e *ErrUnknownUnique) Error() string { return fmt.Sprintf("generator: unknown unique %q", e.UniqueID) }

// Generator produces items from a Config. It is immutable after
// construction and holds only the Config, so a single Generator may be
// shared across goroutines so long as each caller owns its own RNG
// Source and Item instances (spec §5).
type Generator struct {
	Config *config.Config
}

// New builds a Generator over the given Config.
func New(cfg *config.Config) *Generator {
	return &Generator{Config: cfg}
}

// NewSource builds a fresh deterministic RNG stream from seed.
func (g *Generator) NewSource(seed uint64) *rng.Source {
	return rng.NewFromSeed(seed)
}

// GenerateNormal builds a normal item from (base_type_id, seed), using a
// freshly seeded RNG.
func (g *Generator) GenerateNormal(baseTypeID string, seed uint64) (*item.Item, error) {
	return g.GenerateNormalFrom(baseTypeID, seed, g.NewSource(seed))
}

// GenerateNormalFrom builds a normal item using a caller-supplied RNG
// Source. Replay uses this to continue drawing
// from a live stream that already has history (spec §4.G).
func (g *Generator) GenerateNormalFrom(baseTypeID string, seed uint64, src *rng.Source) (*item.Item, error) {
	base, ok := g.Config.GetBase(baseTypeID)
	if !ok {
		return nil, &ErrUnknownBase{BaseTypeID: baseTypeID}
	}
	it := newNormalItem(base, seed)
	rollImplicitAndDefenses(it, base, src)
	return it, nil
}

// GenerateUnique builds a unique item from (unique_id, seed).
func (g *Generator) GenerateUnique(uniqueID string, seed uint64) (*item.Item, error) {
	return g.GenerateUniqueFrom(uniqueID, seed, g.NewSource(seed))
}

// GenerateUniqueFrom mirrors GenerateNormalFrom for uniques.
func (g *Generator) GenerateUniqueFrom(uniqueID string, seed uint64, src *rng.Source) (*item.Item, error) {
	unique, ok := g.Config.GetUnique(uniqueID)
	if !ok {
		return nil, &ErrUnknownUnique{UniqueID: uniqueID}
	}
	base, ok := g.Config.GetBase(unique.BaseType)
	if !ok {
		return nil, &ErrUnknownBase{BaseTypeID: unique.BaseType}
	}
	it := newNormalItem(base, seed)
	it.Rarity = types.RarityUnique
	it.Name = unique.Name

	rollImplicitAndDefenses(it, base, src)

	for _, modCfg := range unique.Mods {
		value := int32(src.RangeInclusive(int64(modCfg.Min), int64(modCfg.Max)))
		it.Prefixes = append(it.Prefixes, item.Modifier{
			AffixID: "unique_" + uniqueID,
			Name:    unique.Name,
			Stat:    modCfg.Stat,
			Scope:   types.ScopeGlobal,
			Tier:    0,
			Value:   value,
			TierMin: modCfg.Min,
			TierMax: modCfg.Max,
		})
	}
	return it, nil
}

func newNormalItem(base *config.BaseType, seed uint64) *item.Item {
	it := &item.Item{
		BaseTypeID:   base.ID,
		Seed:         seed,
		Name:         base.Name,
		BaseName:     base.Name,
		Class:        base.Class,
		Rarity:       types.RarityNormal,
		Requirements: base.Requirements,
	}
	if base.Tags != nil {
		it.Tags = make(map[string]struct{}, len(base.Tags))
		for t := range base.Tags {
			it.Tags[t] = struct{}{}
		}
	}
	if base.Damage != nil {
		it.Damage = append(it.Damage, base.Damage.Damages...)
	}
	return it
}

func rollImplicitAndDefenses(it *item.Item, base *config.BaseType, src *rng.Source) {
	if base.Implicit != nil {
		imp := base.Implicit
		v := int32(src.RangeInclusive(int64(imp.Min), int64(imp.Max)))
		it.Implicit = &item.Modifier{
			AffixID: "implicit",
			Name:    "Implicit",
			Stat:    imp.Stat,
			Scope:   types.ScopeLocal,
			Tier:    0,
			Value:   v,
			TierMin: imp.Min,
			TierMax: imp.Max,
		}
	}
	if base.Defenses != nil {
		if r := base.Defenses.Armour; r != nil {
			v := int32(src.RangeInclusive(int64(r.Min), int64(r.Max)))
			it.Defenses.Armour = &v
		}
		if r := base.Defenses.Evasion; r != nil {
			v := int32(src.RangeInclusive(int64(r.Min), int64(r.Max)))
			it.Defenses.Evasion = &v
		}
		if r := base.Defenses.EnergyShield; r != nil {
			v := int32(src.RangeInclusive(int64(r.Min), int64(r.Max)))
			it.Defenses.EnergyShield = &v
		}
	}
}

// validAffixes returns every affix of the given kind allowed on class,
// restricted to pools if non-empty, sorted by id ascending for
// deterministic tie-breaking (spec §4.E: candidate order must be stable).
func (g *Generator) validAffixes(class types.ItemClass, kind types.AffixType, pools []string) []*config.Affix {
	var allowedIDs map[string]struct{}
	if len(pools) > 0 {
		allowedIDs = make(map[string]struct{})
		for _, poolID := range pools {
			pool, ok := g.Config.GetPool(poolID)
			if !ok {
				continue
			}
			for _, id := range pool.AffixID {
				allowedIDs[id] = struct{}{}
			}
		}
	}
	var out []*config.Affix
	for _, a := range g.Config.Affixes {
		if a.Kind != kind {
			continue
		}
		if !a.AllowsClass(class) {
			continue
		}
		if allowedIDs != nil {
			if _, ok := allowedIDs[a.ID]; !ok {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasMatchingTag(a *config.Affix, itemTags map[string]struct{}) bool {
	if len(a.Tags) == 0 {
		return true
	}
	for t := range a.Tags {
		if _, ok := itemTags[t]; ok {
			return true
		}
	}
	return false
}

func matchingTagCount(a *config.Affix, itemTags map[string]struct{}) int {
	n := 0
	for t := range a.Tags {
		if _, ok := itemTags[t]; ok {
			n++
		}
	}
	return n
}

// calculateWeight mirrors the reference calculate_weight: sum of tier
// weights, scaled by 1 + 0.5 per matching tag, truncated to an integer.
func calculateWeight(a *config.Affix, itemTags map[string]struct{}) int64 {
	var base int64
	for _, t := range a.Tiers {
		base += t.Weight
	}
	multiplier := 1.0 + float64(matchingTagCount(a, itemTags))*0.5
	return int64(float64(base) * multiplier)
}

// RollAffix performs the weighted, tag-biased, item-level-gated affix
// roll described in spec §4.E. It returns nil when no candidate
// is available or the roll otherwise yields nothing — this is not an
// error condition, callers (make_magic/make_rare, the currency engine)
// treat it as "no affix this attempt".
func (g *Generator) RollAffix(
	class types.ItemClass,
	itemTags map[string]struct{},
	kind types.AffixType,
	existingIDs []string,
	pools []string,
	itemLevel uint32,
	src *rng.Source,
) *item.Modifier {
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	candidates := g.validAffixes(class, kind, pools)
	var valid []*config.Affix
	for _, a := range candidates {
		if _, skip := existing[a.ID]; skip {
			continue
		}
		if !hasMatchingTag(a, itemTags) {
			continue
		}
		valid = append(valid, a)
	}
	if len(valid) == 0 {
		return nil
	}

	weights := make([]int64, len(valid))
	var total int64
	for i, a := range valid {
		weights[i] = calculateWeight(a, itemTags)
		total += weights[i]
	}
	if total <= 0 {
		return nil
	}
	idx := src.ChooseWeighted(weights)
	affix := valid[idx]

	var eligible []config.AffixTier
	for _, t := range affix.Tiers {
		if t.MinItemLvl <= itemLevel {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	tierWeights := make([]int64, len(eligible))
	var tierTotal int64
	for i, t := range eligible {
		tierWeights[i] = t.Weight
		tierTotal += t.Weight
	}
	if tierTotal <= 0 {
		return nil
	}
	tier := eligible[src.ChooseWeighted(tierWeights)]

	value := int32(src.RangeInclusive(int64(tier.Value.Min), int64(tier.Value.Max)))
	var valueMax *int32
	if tier.ValueMax != nil {
		vm := int32(src.RangeInclusive(int64(tier.ValueMax.Min), int64(tier.ValueMax.Max)))
		valueMax = &vm
	}

	return &item.Modifier{
		AffixID:      affix.ID,
		Name:         affix.Name,
		Stat:         affix.Stat,
		Scope:        affix.Scope,
		Tier:         tier.Tier,
		Value:        value,
		ValueMax:     valueMax,
		TierMin:      tier.Value.Min,
		TierMax:      tier.Value.Max,
		TierMaxValue: tier.ValueMax,
	}
}

// GenerateRareName draws the fixed pair of word-table indices the
// reference implementation uses for rare-item naming.
func (g *Generator) GenerateRareName(src *rng.Source) string {
	prefix := rareNamePrefixes[src.RangeInclusive(0, int64(len(rareNamePrefixes)-1))]
	suffix := rareNameSuffixes[src.RangeInclusive(0, int64(len(rareNameSuffixes)-1))]
	return prefix + " " + suffix
}

// MakeMagic resets it to a freshly rolled magic item (rarity=magic, 1-2
// affixes), drawing from every valid affix (no pool filter).
func (g *Generator) MakeMagic(it *item.Item, src *rng.Source) {
	it.Rarity = types.RarityMagic
	it.Prefixes = nil
	it.Suffixes = nil
	g.rollAffixesOnto(it, src, int(src.RangeInclusive(1, 2)))
}

// MakeRare resets it to a freshly rolled rare item (rarity=rare, 4-6
// affixes, fresh rare name).
func (g *Generator) MakeRare(it *item.Item, src *rng.Source) {
	it.Rarity = types.RarityRare
	it.Prefixes = nil
	it.Suffixes = nil
	it.Name = g.GenerateRareName(src)
	g.rollAffixesOnto(it, src, int(src.RangeInclusive(4, 6)))
}

func (g *Generator) rollAffixesOnto(it *item.Item, src *rng.Source, count int) {
	itemLevel := it.Requirements.Level
	for i := 0; i < count; i++ {
		existing := existingAffixIDs(it)
		canPrefix := it.CanAddPrefix()
		canSuffix := it.CanAddSuffix()

		var kind types.AffixType
		switch {
		case canPrefix && canSuffix:
			if src.CoinFlip() {
				kind = types.AffixPrefix
			} else {
				kind = types.AffixSuffix
			}
		case canPrefix:
			kind = types.AffixPrefix
		case canSuffix:
			kind = types.AffixSuffix
		default:
			return
		}

		mod := g.RollAffix(it.Class, it.Tags, kind, existing, nil, itemLevel, src)
		if mod == nil {
			continue
		}
		if kind == types.AffixPrefix {
			it.Prefixes = append(it.Prefixes, *mod)
		} else {
			it.Suffixes = append(it.Suffixes, *mod)
		}
	}
}

func existingAffixIDs(it *item.Item) []string {
	ids := make([]string, 0, len(it.Prefixes)+len(it.Suffixes))
	for _, m := range it.Prefixes {
		ids = append(ids, m.AffixID)
	}
	for _, m := range it.Suffixes {
		ids = append(ids, m.AffixID)
	}
	return ids
}
