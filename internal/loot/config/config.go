// Package config holds the in-memory, load-once entity tables the loot
// engine operates against: base types, affixes, pools, currencies, and
// uniques/recipes. Config is a pure lookup value object — once loaded it
// is never mutated, and may be shared freely across goroutines.
package config

import (
	"fmt"

	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

// BaseType describes an item shell: its class, tags, optional implicit
// modifier, optional defenses, optional weapon damage, and equip
// requirements.
type BaseType struct {
	ID           string
	Name         string
	Class        types.ItemClass
	Tags         map[string]struct{}
	Implicit     *ImplicitSpec
	Defenses     *DefensesSpec
	Damage       *DamageSpec
	Requirements types.EquipRequirements
}

// ImplicitSpec is a base type's built-in, always-present modifier.
type ImplicitSpec struct {
	Stat types.StatType
	Min  int32
	Max  int32
}

// DefensesSpec holds the optional roll ranges for a base type's defenses,
// rolled in this fixed order: armour, evasion, energy shield.
type DefensesSpec struct {
	Armour       *types.RollRange
	Evasion      *types.RollRange
	EnergyShield *types.RollRange
}

// HasAny reports whether any defense is present.
func (d *DefensesSpec) HasAny() bool {
	return d != nil && (d.Armour != nil || d.Evasion != nil || d.EnergyShield != nil)
}

// DamageEntry is one damage-type row of a weapon's damage spread.
type DamageEntry struct {
	DamageType string
	Min        int32
	Max        int32
}

// DamageSpec is a weapon base type's fixed (non-rolled) damage profile.
type DamageSpec struct {
	Damages         []DamageEntry
	AttackSpeed     float64
	CriticalChance  float64
	SpellEfficiency float64
}

// AffixTier is one row of an affix's value table.
type AffixTier struct {
	Tier       uint32
	Weight     int64
	Value      types.RollRange
	ValueMax   *types.RollRange
	MinItemLvl uint32
}

// Affix is a named modifier template instantiated into a Modifier on roll.
type Affix struct {
	ID             string
	Name           string
	Kind           types.AffixType
	Stat           types.StatType
	Scope          types.Scope
	Tags           map[string]struct{}
	AllowedClasses map[types.ItemClass]struct{} // empty => universal
	Tiers          []AffixTier
}

// AllowsClass reports whether this affix may roll on the given class.
func (a *Affix) AllowsClass(c types.ItemClass) bool {
	if len(a.AllowedClasses) == 0 {
		return true
	}
	_, ok := a.AllowedClasses[c]
	return ok
}

// TierByNumber returns the tier with the given tier number, if present.
func (a *Affix) TierByNumber(tier uint32) (AffixTier, bool) {
	for _, t := range a.Tiers {
		if t.Tier == tier {
			return t, true
		}
	}
	return AffixTier{}, false
}

// AffixPool is a named filter: a list of affix ids, never an owner.
type AffixPool struct {
	ID      string
	Name    string
	AffixID []string
}

// SpecificAffix names one candidate for a currency's add_specific_affix
// effect: an explicit affix id, an optional explicit tier override, and a
// selection weight (default 100).
type SpecificAffix struct {
	AffixID string
	Tier    *uint32
	Weight  int64
}

// AffixCount is an inclusive [Min, Max] count range, used by add_affixes.
type AffixCount struct {
	Min uint32
	Max uint32
}

// CurrencyRequirements gates whether a currency may be applied.
type CurrencyRequirements struct {
	Rarities        []types.Rarity
	HasAffix        bool
	HasAffixSlot    bool
}

// CurrencyEffects is the ordered, conditional effect pipeline a currency
// applies. Stage order is fixed: SetRarity, ClearAffixes, RemoveAffixes,
// RerollAffixes, AddAffixes, AddSpecificAffix, TryUnique.
type CurrencyEffects struct {
	SetRarity        *types.Rarity
	ClearAffixes     bool
	RemoveAffixes    *uint32
	RerollAffixes    *uint32
	AddAffixes       *AffixCount
	AddSpecificAffix []SpecificAffix
	TryUnique        bool
	AffixPools       []string
}

// Currency is declarative: a Requirements gate and an Effects pipeline.
type Currency struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Requirements CurrencyRequirements
	Effects      CurrencyEffects
}

// UniqueMod is one fixed-range stat on a Unique item.
type UniqueMod struct {
	Stat types.StatType
	Min  int32
	Max  int32
}

// Unique is a named, fixed-base-type item template with an ordered list
// of mods.
type Unique struct {
	ID       string
	Name     string
	BaseType string
	Flavor   string
	Mods     []UniqueMod
}

// RecipeAffixRequirement gates a unique recipe on an existing modifier.
type RecipeAffixRequirement struct {
	Stat     types.StatType
	Kind     *types.AffixType // nil => either kind matches
	MinTier  uint32
	MaxTier  uint32 // default 99
}

// RecipeMapping maps a source affix's rolled value onto one of the
// unique's mod slots.
type RecipeMapping struct {
	FromStat   types.StatType
	ToModIndex int
	Mode       types.MappingMode
	Influence  float64 // default 1.0
}

// UniqueRecipe is a transformation rule from a rare/magic item into a
// specific unique.
type UniqueRecipe struct {
	UniqueID         string
	BaseType         string
	Weight           int64 // default 100
	RequiredAffixes  []RecipeAffixRequirement
	Mappings         []RecipeMapping
}

// Config is the immutable, fully-loaded entity graph the engine consumes.
type Config struct {
	BaseTypes map[string]*BaseType
	Affixes   map[string]*Affix
	Pools     map[string]*AffixPool
	Currencies map[string]*Currency
	Uniques   map[string]*Unique
	Recipes   []UniqueRecipe
}

// New returns an empty, ready-to-populate Config.
func New() *Config {
	return &Config{
		BaseTypes:  make(map[string]*BaseType),
		Affixes:    make(map[string]*Affix),
		Pools:      make(map[string]*AffixPool),
		Currencies: make(map[string]*Currency),
		Uniques:    make(map[string]*Unique),
	}
}

// GetBase looks up a base type by id.
func (c *Config) GetBase(id string) (*BaseType, bool) {
	b, ok := c.BaseTypes[id]
	return b, ok
}

// GetAffix looks up an affix by id.
func (c *Config) GetAffix(id string) (*Affix, bool) {
	a, ok := c.Affixes[id]
	return a, ok
}

// GetPool looks up an affix pool by id.
func (c *Config) GetPool(id string) (*AffixPool, bool) {
	p, ok := c.Pools[id]
	return p, ok
}

// GetCurrency looks up a currency by id.
func (c *Config) GetCurrency(id string) (*Currency, bool) {
	cur, ok := c.Currencies[id]
	return cur, ok
}

// GetUnique looks up a unique by id.
func (c *Config) GetUnique(id string) (*Unique, bool) {
	u, ok := c.Uniques[id]
	return u, ok
}

// ErrDuplicateID is returned by loaders when two entities in the same
// table share an id.
type ErrDuplicateID struct {
	Table string
	ID    string
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("config: duplicate %s id %q", e.Table, e.ID)
}
