// Package currency implements the config-driven currency application
// engine: a requirements gate followed by a fixed, ordered effects
// pipeline (set rarity, clear affixes, remove affixes, reroll affixes,
// add affixes, add a specific affix, try a unique transformation).
package currency

import (
	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/rng"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

// Engine applies currencies against a Generator's Config.
type Engine struct {
	Generator *generator.Generator
}

// New builds an Engine over the given Generator.
func New(gen *generator.Generator) *Engine {
	return &Engine{Generator: gen}
}

func (e *Engine) config() *config.Config { return e.Generator.Config }

// Apply applies currency (looked up by id) to it in place, drawing from
// src. A failed requirements check returns before any change; an error
// from a later pipeline stage leaves the stages before it applied. Apply
// does not append to the operation log: replay.Engine.PureApply applies
// to a clone and appends the operation on success.
func (e *Engine) Apply(it *item.Item, currencyID string, src *rng.Source) error {
	cur, ok := e.config().GetCurrency(currencyID)
	if !ok {
		return &UnknownCurrencyError{ID: currencyID}
	}
	return e.ApplyCurrency(it, cur, src)
}

// CanApply reports whether currency's requirements are currently met by
// it, without applying any effect or consuming any RNG draw.
func (e *Engine) CanApply(it *item.Item, currencyID string) error {
	cur, ok := e.config().GetCurrency(currencyID)
	if !ok {
		return &UnknownCurrencyError{ID: currencyID}
	}
	return e.checkRequirements(it, cur)
}

// ApplyCurrency applies an already-resolved *config.Currency to it.
func (e *Engine) ApplyCurrency(it *item.Item, cur *config.Currency, src *rng.Source) error {
	if err := e.checkRequirements(it, cur); err != nil {
		return err
	}

	eff := &cur.Effects

	// 1. Set rarity.
	if eff.SetRarity != nil {
		it.Rarity = *eff.SetRarity
		if *eff.SetRarity == types.RarityRare && it.Name == it.BaseName {
			it.Name = e.Generator.GenerateRareName(src)
		}
	}

	// 2. Clear affixes.
	if eff.ClearAffixes {
		it.Prefixes = nil
		it.Suffixes = nil
		if it.Rarity == types.RarityNormal {
			it.Name = it.BaseName
		}
	}

	// 3. Remove random affixes.
	if eff.RemoveAffixes != nil {
		for i := uint32(0); i < *eff.RemoveAffixes; i++ {
			if err := e.removeRandomAffix(it, src); err != nil {
				return err
			}
		}
	}

	// 4. Reroll random affixes.
	if eff.RerollAffixes != nil {
		for i := uint32(0); i < *eff.RerollAffixes; i++ {
			if err := e.rerollRandomAffix(it, eff.AffixPools, src); err != nil {
				return err
			}
		}
	}

	// 5. Add random affixes.
	if eff.AddAffixes != nil {
		count := eff.AddAffixes.Min
		if eff.AddAffixes.Min != eff.AddAffixes.Max {
			count = uint32(src.RangeInclusive(int64(eff.AddAffixes.Min), int64(eff.AddAffixes.Max)))
		}
		for i := uint32(0); i < count; i++ {
			if !e.addRandomAffix(it, eff.AffixPools, src) {
				break
			}
		}
	}

	// 6. Add specific affix from set.
	if len(eff.AddSpecificAffix) > 0 {
		if err := e.addSpecificAffixFromSet(it, eff.AddSpecificAffix, src); err != nil {
			return err
		}
	}

	// 7. Try unique transformation.
	if eff.TryUnique {
		if err := e.tryUniqueTransformation(it, src); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) checkRequirements(it *item.Item, cur *config.Currency) error {
	reqs := &cur.Requirements
	eff := &cur.Effects

	if len(reqs.Rarities) > 0 && !containsRarity(reqs.Rarities, it.Rarity) {
		return &InvalidRarityError{Expected: reqs.Rarities, Got: it.Rarity}
	}

	if reqs.HasAffix && len(it.Prefixes) == 0 && len(it.Suffixes) == 0 {
		return ErrNoAffixesToRemove
	}

	if reqs.HasAffixSlot {
		targetRarity := it.Rarity
		if eff.SetRarity != nil {
			targetRarity = *eff.SetRarity
		}
		prefixCount, suffixCount := 0, 0
		if !eff.ClearAffixes {
			prefixCount, suffixCount = len(it.Prefixes), len(it.Suffixes)
		}
		canAddPrefix := prefixCount < targetRarity.MaxPrefixes()
		canAddSuffix := suffixCount < targetRarity.MaxSuffixes()
		if !canAddPrefix && !canAddSuffix {
			return ErrNoAffixSlots
		}
	}

	if len(eff.AddSpecificAffix) > 0 {
		targetRarity := it.Rarity
		if eff.SetRarity != nil {
			targetRarity = *eff.SetRarity
		}
		if !e.canAddAnySpecificAffix(it, eff.AddSpecificAffix, targetRarity, eff.ClearAffixes) {
			return ErrNoValidAffixes
		}
	}

	needsPools := eff.AddAffixes != nil || eff.RerollAffixes != nil
	if needsPools && len(eff.AffixPools) == 0 {
		return ErrNoAffixPoolsSpecified
	}

	return nil
}

func containsRarity(rs []types.Rarity, r types.Rarity) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

// canAddAnySpecificAffix mirrors the Rust upfront validation: used to
// reject a currency before any mutation happens when none of its
// candidate specific affixes could actually land.
func (e *Engine) canAddAnySpecificAffix(it *item.Item, candidates []config.SpecificAffix, targetRarity types.Rarity, willClear bool) bool {
	var existing map[string]struct{}
	if !willClear {
		existing = make(map[string]struct{})
		for _, m := range it.Prefixes {
			existing[m.AffixID] = struct{}{}
		}
		for _, m := range it.Suffixes {
			existing[m.AffixID] = struct{}{}
		}
	}

	prefixCount, suffixCount := 0, 0
	if !willClear {
		prefixCount, suffixCount = len(it.Prefixes), len(it.Suffixes)
	}
	canAddPrefix := prefixCount < targetRarity.MaxPrefixes()
	canAddSuffix := suffixCount < targetRarity.MaxSuffixes()

	for _, c := range candidates {
		affix, ok := e.config().GetAffix(c.AffixID)
		if !ok {
			continue
		}
		if _, present := existing[c.AffixID]; present {
			continue
		}
		if !affix.AllowsClass(it.Class) {
			continue
		}
		switch affix.Kind {
		case types.AffixPrefix:
			if canAddPrefix {
				return true
			}
		case types.AffixSuffix:
			if canAddSuffix {
				return true
			}
		}
	}
	return false
}

// addRandomAffix adds one randomly-selected affix, trying the other
// affix type if the first roll comes up empty. Returns false when
// neither type can add (out of slots or no valid affix at all).
func (e *Engine) addRandomAffix(it *item.Item, pools []string, src *rng.Source) bool {
	existing := existingAffixIDs(it)
	canPrefix := it.CanAddPrefix()
	canSuffix := it.CanAddSuffix()

	if !canPrefix && !canSuffix {
		return false
	}

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
	default:
		kind = types.AffixSuffix
	}

	itemLevel := it.Requirements.Level

	if mod := e.Generator.RollAffix(it.Class, it.Tags, kind, existing, pools, itemLevel, src); mod != nil {
		appendModifier(it, kind, mod)
		return true
	}

	otherKind := types.AffixSuffix
	canOther := canSuffix
	if kind == types.AffixSuffix {
		otherKind = types.AffixPrefix
		canOther = canPrefix
	}
	if canOther {
		if mod := e.Generator.RollAffix(it.Class, it.Tags, otherKind, existing, pools, itemLevel, src); mod != nil {
			appendModifier(it, otherKind, mod)
			return true
		}
	}
	return false
}

func appendModifier(it *item.Item, kind types.AffixType, mod *item.Modifier) {
	if kind == types.AffixPrefix {
		it.Prefixes = append(it.Prefixes, *mod)
	} else {
		it.Suffixes = append(it.Suffixes, *mod)
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

// addSpecificAffixFromSet weighted-picks one candidate from the set and
// adds it by id.
func (e *Engine) addSpecificAffixFromSet(it *item.Item, candidates []config.SpecificAffix, src *rng.Source) error {
	existing := make(map[string]struct{})
	for _, m := range it.Prefixes {
		existing[m.AffixID] = struct{}{}
	}
	for _, m := range it.Suffixes {
		existing[m.AffixID] = struct{}{}
	}

	var valid []config.SpecificAffix
	for _, c := range candidates {
		affix, ok := e.config().GetAffix(c.AffixID)
		if !ok {
			continue
		}
		if _, present := existing[c.AffixID]; present {
			continue
		}
		if !affix.AllowsClass(it.Class) {
			continue
		}
		switch affix.Kind {
		case types.AffixPrefix:
			if !it.CanAddPrefix() {
				continue
			}
		case types.AffixSuffix:
			if !it.CanAddSuffix() {
				continue
			}
		}
		valid = append(valid, c)
	}

	if len(valid) == 0 {
		return ErrNoValidAffixes
	}

	var totalWeight int64
	for _, c := range valid {
		totalWeight += c.Weight
	}

	selected := valid[0]
	if totalWeight > 0 {
		roll := src.RangeInclusive(0, totalWeight-1)
		for _, c := range valid {
			if roll < c.Weight {
				selected = c
				break
			}
			roll -= c.Weight
		}
	}

	return e.addAffixByID(it, selected.AffixID, selected.Tier, src)
}

// addAffixByID adds a named affix to the item, optionally at an
// explicit tier (which bypasses the item-level gate — an explicit
// override always wins).
func (e *Engine) addAffixByID(it *item.Item, affixID string, tier *uint32, src *rng.Source) error {
	affix, ok := e.config().GetAffix(affixID)
	if !ok {
		return &AffixNotFoundError{AffixID: affixID}
	}

	itemLevel := it.Requirements.Level

	var selectedTier config.AffixTier
	if tier != nil {
		t, ok := affix.TierByNumber(*tier)
		if !ok {
			return &TierNotFoundError{AffixID: affixID, Tier: *tier}
		}
		selectedTier = t
	} else {
		var eligible []config.AffixTier
		for _, t := range affix.Tiers {
			if t.MinItemLvl <= itemLevel {
				eligible = append(eligible, t)
			}
		}
		if len(eligible) == 0 {
			return ErrNoValidAffixes
		}
		weights := make([]int64, len(eligible))
		var total int64
		for i, t := range eligible {
			weights[i] = t.Weight
			total += t.Weight
		}
		if total <= 0 {
			return ErrNoValidAffixes
		}
		selectedTier = eligible[src.ChooseWeighted(weights)]
	}

	value := int32(src.RangeInclusive(int64(selectedTier.Value.Min), int64(selectedTier.Value.Max)))
	var valueMax *int32
	if selectedTier.ValueMax != nil {
		vm := int32(src.RangeInclusive(int64(selectedTier.ValueMax.Min), int64(selectedTier.ValueMax.Max)))
		valueMax = &vm
	}

	mod := item.Modifier{
		AffixID:      affix.ID,
		Name:         affix.Name,
		Stat:         affix.Stat,
		Scope:        affix.Scope,
		Tier:         selectedTier.Tier,
		Value:        value,
		ValueMax:     valueMax,
		TierMin:      selectedTier.Value.Min,
		TierMax:      selectedTier.Value.Max,
		TierMaxValue: selectedTier.ValueMax,
	}

	switch affix.Kind {
	case types.AffixPrefix:
		it.Prefixes = append(it.Prefixes, mod)
	case types.AffixSuffix:
		it.Suffixes = append(it.Suffixes, mod)
	}
	return nil
}

// removeRandomAffix removes one uniformly-chosen modifier across
// prefixes ++ suffixes (prefixes first, per item.Item.AllModifiers'
// index scheme).
func (e *Engine) removeRandomAffix(it *item.Item, src *rng.Source) error {
	total := len(it.Prefixes) + len(it.Suffixes)
	if total == 0 {
		return ErrNoAffixesToRemove
	}
	idx := int(src.RangeInclusive(0, int64(total-1)))
	if idx < len(it.Prefixes) {
		it.Prefixes = append(it.Prefixes[:idx], it.Prefixes[idx+1:]...)
	} else {
		j := idx - len(it.Prefixes)
		it.Suffixes = append(it.Suffixes[:j], it.Suffixes[j+1:]...)
	}
	return nil
}

// rerollRandomAffix removes one uniformly-chosen modifier and rolls a
// fresh one of the same type onto the item. The remove-index draw always
// happens; RollAffix then draws only as far as it gets before finding no
// candidate or no eligible tier. A reroll that nets an empty slot is a
// valid outcome, not an error.
func (e *Engine) rerollRandomAffix(it *item.Item, pools []string, src *rng.Source) error {
	prefixCount := len(it.Prefixes)
	total := prefixCount + len(it.Suffixes)
	if total == 0 {
		return ErrNoAffixesToRemove
	}
	idx := int(src.RangeInclusive(0, int64(total-1)))
	isPrefix := idx < prefixCount
	itemLevel := it.Requirements.Level

	if isPrefix {
		it.Prefixes = append(it.Prefixes[:idx], it.Prefixes[idx+1:]...)
		existing := existingAffixIDs(it)
		if mod := e.Generator.RollAffix(it.Class, it.Tags, types.AffixPrefix, existing, pools, itemLevel, src); mod != nil {
			it.Prefixes = append(it.Prefixes, *mod)
		}
	} else {
		j := idx - prefixCount
		it.Suffixes = append(it.Suffixes[:j], it.Suffixes[j+1:]...)
		existing := existingAffixIDs(it)
		if mod := e.Generator.RollAffix(it.Class, it.Tags, types.AffixSuffix, existing, pools, itemLevel, src); mod != nil {
			it.Suffixes = append(it.Suffixes, *mod)
		}
	}
	return nil
}

// tryUniqueTransformation finds every unique recipe matching it, picks
// one by weight, and transforms the item into that unique, mapping
// stat values from its existing affixes onto the unique's mod slots
// per each recipe mapping's mode.
func (e *Engine) tryUniqueTransformation(it *item.Item, src *rng.Source) error {
	var matching []config.UniqueRecipe
	for _, r := range e.config().Recipes {
		if recipeMatches(&r, it) {
			matching = append(matching, r)
		}
	}
	if len(matching) == 0 {
		return ErrNoMatchingRecipe
	}

	var totalWeight int64
	for _, r := range matching {
		totalWeight += r.Weight
	}
	if totalWeight <= 0 {
		return ErrNoMatchingRecipe
	}
	roll := src.RangeInclusive(0, totalWeight-1)
	var recipe *config.UniqueRecipe
	for i := range matching {
		if roll < matching[i].Weight {
			recipe = &matching[i]
			break
		}
		roll -= matching[i].Weight
	}
	if recipe == nil {
		return ErrNoMatchingRecipe
	}

	unique, ok := e.config().GetUnique(recipe.UniqueID)
	if !ok {
		return ErrNoMatchingRecipe
	}

	type statValue struct {
		value   int32
		affixID string
	}
	statValues := make(map[types.StatType]statValue)
	for _, m := range it.Prefixes {
		statValues[m.Stat] = statValue{m.Value, m.AffixID}
	}
	for _, m := range it.Suffixes {
		statValues[m.Stat] = statValue{m.Value, m.AffixID}
	}

	it.Rarity = types.RarityUnique
	it.Name = unique.Name
	it.Prefixes = nil
	it.Suffixes = nil

	for modIndex, modCfg := range unique.Mods {
		uniqueRange := modCfg.Max - modCfg.Min
		randomValue := int32(src.RangeInclusive(int64(modCfg.Min), int64(modCfg.Max)))

		value := randomValue
		if mapping := findMapping(recipe.Mappings, modIndex); mapping != nil {
			switch mapping.Mode {
			case types.MappingRandom:
				value = randomValue
			case types.MappingDirect, types.MappingPercentage:
				if sv, ok := statValues[mapping.FromStat]; ok {
					var mappedValue int32
					switch mapping.Mode {
					case types.MappingDirect:
						mappedValue = clampInt32(sv.value, modCfg.Min, modCfg.Max)
					case types.MappingPercentage:
						percentage := 0.5
						if affixCfg, ok := e.config().GetAffix(sv.affixID); ok {
							percentage = tierPercentage(affixCfg, sv.value)
						}
						mappedValue = modCfg.Min + int32(float64(uniqueRange)*percentage)
					}

					influence := clampFloat(mapping.Influence, 0, 1)
					switch {
					case influence >= 1.0:
						value = mappedValue
					case influence <= 0.0:
						value = randomValue
					default:
						blended := influence*float64(mappedValue) + (1-influence)*float64(randomValue)
						value = clampInt32(int32(blended), modCfg.Min, modCfg.Max)
					}
				} else {
					value = randomValue
				}
			}
		}

		it.Prefixes = append(it.Prefixes, item.Modifier{
			AffixID: "unique_" + recipe.UniqueID,
			Name:    unique.Name,
			Stat:    modCfg.Stat,
			Scope:   types.ScopeGlobal,
			Tier:    0,
			Value:   value,
			TierMin: modCfg.Min,
			TierMax: modCfg.Max,
		})
	}

	return nil
}

func findMapping(mappings []config.RecipeMapping, modIndex int) *config.RecipeMapping {
	for i := range mappings {
		if mappings[i].ToModIndex == modIndex {
			return &mappings[i]
		}
	}
	return nil
}

// tierPercentage places origValue within the affix's overall span, from
// the lowest minimum across all tiers up to tier 1's maximum (or, with no
// tier 1, the highest maximum), as a [0,1] fraction; an empty span gives 0.5.
func tierPercentage(affix *config.Affix, origValue int32) float64 {
	var overallMax int32
	foundTier1 := false
	for _, t := range affix.Tiers {
		if t.Tier == 1 {
			overallMax = t.Value.Max
			foundTier1 = true
			break
		}
	}
	if !foundTier1 {
		for _, t := range affix.Tiers {
			if t.Value.Max > overallMax {
				overallMax = t.Value.Max
			}
		}
	}
	var overallMin int32
	first := true
	for _, t := range affix.Tiers {
		if first || t.Value.Min < overallMin {
			overallMin = t.Value.Min
			first = false
		}
	}
	fullRange := overallMax - overallMin
	if fullRange <= 0 {
		return 0.5
	}
	p := float64(origValue-overallMin) / float64(fullRange)
	return clampFloat(p, 0, 1)
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func recipeMatches(recipe *config.UniqueRecipe, it *item.Item) bool {
	if recipe.BaseType != it.BaseTypeID {
		return false
	}
	for _, req := range recipe.RequiredAffixes {
		if !affixRequirementMet(&req, it) {
			return false
		}
	}
	return true
}

func affixRequirementMet(req *config.RecipeAffixRequirement, it *item.Item) bool {
	matches := func(m *item.Modifier, kind types.AffixType) bool {
		return m.Stat == req.Stat && m.Tier >= req.MinTier && m.Tier <= req.MaxTier &&
			(req.Kind == nil || *req.Kind == kind)
	}
	for i := range it.Prefixes {
		if matches(&it.Prefixes[i], types.AffixPrefix) {
			return true
		}
	}
	for i := range it.Suffixes {
		if matches(&it.Suffixes[i], types.AffixSuffix) {
			return true
		}
	}
	return false
}
