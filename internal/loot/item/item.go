// Package item holds the realized item value model: the storage triple
// (base_type_id, seed, operation log) plus every field derivable from it.
package item

import (
	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

// OpKind identifies one entry in an item's operation log. Currency is the
// only kind the core defines today (spec §4.H's op_kind = 0).
type OpKind uint8

const OpCurrency OpKind = 0

// Operation is one entry in an item's append-only operation log.
type Operation struct {
	Kind       OpKind
	CurrencyID string // meaningful when Kind == OpCurrency
}

// Modifier is one realized stat roll on an item: the affix it came from,
// the tier it rolled, and the rolled value(s).
type Modifier struct {
	AffixID       string
	Name          string
	Stat          types.StatType
	Scope         types.Scope
	Tier          uint32
	Value         int32
	ValueMax      *int32
	TierMin       int32
	TierMax       int32
	TierMaxValue  *types.RollRange
}

// Defenses holds an item's concrete (already-rolled) defense values.
type Defenses struct {
	Armour       *int32
	Evasion      *int32
	EnergyShield *int32
}

// HasAny reports whether any defense value is present.
func (d *Defenses) HasAny() bool {
	return d != nil && (d.Armour != nil || d.Evasion != nil || d.EnergyShield != nil)
}

// Item is the fully realized loot item: its identity tuple
// (BaseTypeID, Seed, Operations) plus every field derived from it by the
// generator and currency engine.
type Item struct {
	BaseTypeID string
	Seed       uint64
	Operations []Operation

	Name         string
	BaseName     string
	Class        types.ItemClass
	Rarity       types.Rarity
	Tags         map[string]struct{}
	Requirements types.EquipRequirements

	Implicit *Modifier
	Defenses Defenses
	Damage   []config.DamageEntry

	Prefixes []Modifier
	Suffixes []Modifier
}

// Clone returns a copy whose Operations, Prefixes, Suffixes, Damage, Tags
// and Implicit (including its ValueMax) are its own, so changing them
// leaves the original untouched. The Implicit's TierMaxValue, the
// ValueMax and TierMaxValue pointers of prefix and suffix modifiers, and
// the Defenses value pointers still point at the original's values.
func (it *Item) Clone() *Item {
	cp := *it
	cp.Operations = append([]Operation(nil), it.Operations...)
	cp.Prefixes = append([]Modifier(nil), it.Prefixes...)
	cp.Suffixes = append([]Modifier(nil), it.Suffixes...)
	cp.Damage = append([]config.DamageEntry(nil), it.Damage...)
	if it.Tags != nil {
		cp.Tags = make(map[string]struct{}, len(it.Tags))
		for k := range it.Tags {
			cp.Tags[k] = struct{}{}
		}
	}
	if it.Implicit != nil {
		impl := *it.Implicit
		if impl.ValueMax != nil {
			vm := *impl.ValueMax
			impl.ValueMax = &vm
		}
		cp.Implicit = &impl
	}
	return &cp
}

// AffixCount returns the current number of prefixes and suffixes.
func (it *Item) AffixCount() (prefixes, suffixes int) {
	return len(it.Prefixes), len(it.Suffixes)
}

// HasAffixID reports whether any prefix or suffix carries the given
// affix id. Affix-id uniqueness across prefixes ∪ suffixes is invariant 2.
func (it *Item) HasAffixID(affixID string) bool {
	for _, m := range it.Prefixes {
		if m.AffixID == affixID {
			return true
		}
	}
	for _, m := range it.Suffixes {
		if m.AffixID == affixID {
			return true
		}
	}
	return false
}

// CanAddPrefix reports whether the item has a free prefix slot at its
// current rarity.
func (it *Item) CanAddPrefix() bool {
	return len(it.Prefixes) < it.Rarity.MaxPrefixes()
}

// CanAddSuffix reports whether the item has a free suffix slot at its
// current rarity.
func (it *Item) CanAddSuffix() bool {
	return len(it.Suffixes) < it.Rarity.MaxSuffixes()
}

// AllModifiers returns prefixes followed by suffixes, for callers that
// want a single ordered view (e.g. the currency engine's remove/reroll
// index scheme: index < len(Prefixes) selects a prefix, else a suffix).
func (it *Item) AllModifiers() []Modifier {
	out := make([]Modifier, 0, len(it.Prefixes)+len(it.Suffixes))
	out = append(out, it.Prefixes...)
	out = append(out, it.Suffixes...)
	return out
}
