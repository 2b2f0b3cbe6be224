// Package types holds the enumerations and small value types shared across
// the loot engine: rarity, item class, affix kind, stat tags, and equip
// requirements.
package types

// Rarity is the realized quality tier of an item. It gates how many
// prefixes and suffixes an item may carry.
type Rarity int

const (
	RarityNormal Rarity = iota
	RarityMagic
	RarityRare
	RarityUnique
)

var rarityNames = [...]string{"normal", "magic", "rare", "unique"}

func (r Rarity) String() string {
	if int(r) < 0 || int(r) >= len(rarityNames) {
		return "unknown"
	}
	return rarityNames[r]
}

// MaxPrefixes returns the maximum number of prefix modifiers this rarity
// may carry. Uniques carry their fixed stats as prefixes for uniform
// iteration, but the cap itself is 0: a unique's mods are appended directly
// by the unique-transformation / unique-generation paths, not by the
// capped prefix/suffix roll path.
func (r Rarity) MaxPrefixes() int {
	switch r {
	case RarityNormal:
		return 0
	case RarityMagic:
		return 1
	case RarityRare:
		return 3
	case RarityUnique:
		return 0
	default:
		return 0
	}
}

// MaxSuffixes mirrors MaxPrefixes for suffix modifiers.
func (r Rarity) MaxSuffixes() int {
	switch r {
	case RarityNormal:
		return 0
	case RarityMagic:
		return 1
	case RarityRare:
		return 3
	case RarityUnique:
		return 0
	default:
		return 0
	}
}

// ParseRarity maps a config/YAML string to a Rarity.
func ParseRarity(s string) (Rarity, bool) {
	for i, name := range rarityNames {
		if name == s {
			return Rarity(i), true
		}
	}
	return 0, false
}

// ItemClass is a granular item category used for affix/base-type filtering.
type ItemClass string

const (
	ClassOneHandSword ItemClass = "one_hand_sword"
	ClassOneHandAxe   ItemClass = "one_hand_axe"
	ClassOneHandMace  ItemClass = "one_hand_mace"
	ClassDagger       ItemClass = "dagger"
	ClassClaw         ItemClass = "claw"
	ClassWand         ItemClass = "wand"
	ClassTwoHandSword ItemClass = "two_hand_sword"
	ClassTwoHandAxe   ItemClass = "two_hand_axe"
	ClassTwoHandMace  ItemClass = "two_hand_mace"
	ClassBow          ItemClass = "bow"
	ClassStaff        ItemClass = "staff"
	ClassShield       ItemClass = "shield"
	ClassHelmet       ItemClass = "helmet"
	ClassBodyArmour   ItemClass = "body_armour"
	ClassGloves       ItemClass = "gloves"
	ClassBoots        ItemClass = "boots"
)

var weaponClasses = map[ItemClass]bool{
	ClassOneHandSword: true,
	ClassOneHandAxe:   true,
	ClassOneHandMace:  true,
	ClassDagger:       true,
	ClassClaw:         true,
	ClassWand:         true,
	ClassTwoHandSword: true,
	ClassTwoHandAxe:   true,
	ClassTwoHandMace:  true,
	ClassBow:          true,
	ClassStaff:        true,
}

var armourClasses = map[ItemClass]bool{
	ClassHelmet:     true,
	ClassBodyArmour: true,
	ClassGloves:     true,
	ClassBoots:      true,
	ClassShield:     true,
}

// IsWeapon reports whether the class is one of the weapon classes.
func (c ItemClass) IsWeapon() bool { return weaponClasses[c] }

// IsArmour reports whether the class is one of the armour classes.
func (c ItemClass) IsArmour() bool { return armourClasses[c] }

// AffixType distinguishes prefix from suffix modifiers.
type AffixType int

const (
	AffixPrefix AffixType = iota
	AffixSuffix
)

func (a AffixType) String() string {
	if a == AffixSuffix {
		return "suffix"
	}
	return "prefix"
}

// ParseAffixType maps a config string to an AffixType.
func ParseAffixType(s string) (AffixType, bool) {
	switch s {
	case "prefix":
		return AffixPrefix, true
	case "suffix":
		return AffixSuffix, true
	default:
		return 0, false
	}
}

// Scope distinguishes modifiers that alter the item's own base stats
// (local) from modifiers that alter character stats once equipped
// (global). The core carries this tag but never interprets it.
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeGlobal
)

func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "local"
}

// ParseScope maps a config string to a Scope.
func ParseScope(s string) (Scope, bool) {
	switch s {
	case "local":
		return ScopeLocal, true
	case "global":
		return ScopeGlobal, true
	default:
		return 0, false
	}
}

// DefenseType names an armour-style defense stat.
type DefenseType int

const (
	DefenseArmour DefenseType = iota
	DefenseEvasion
	DefenseEnergyShield
)

func (d DefenseType) String() string {
	switch d {
	case DefenseArmour:
		return "armour"
	case DefenseEvasion:
		return "evasion"
	case DefenseEnergyShield:
		return "energy_shield"
	default:
		return "unknown"
	}
}

// Attribute is one of the six equip-requirement attributes.
type Attribute int

const (
	AttributeStrength Attribute = iota
	AttributeDexterity
	AttributeConstitution
	AttributeIntelligence
	AttributeWisdom
	AttributeCharisma
)

// StatType is an open string type carrying the semantic stat a modifier
// grants (e.g. "added_physical_damage", "fire_resistance"). It is a
// defined string rather than a closed enum so config-supplied stats
// outside the known reference list still round-trip; see DESIGN.md.
type StatType string

// Known stat tags recovered from the reference implementation. This list
// is not exhaustive or closed — StatType accepts any non-empty string —
// but these constants give the common stats typed, discoverable names.
const (
	StatAddedPhysicalDamage    StatType = "added_physical_damage"
	StatAddedFireDamage        StatType = "added_fire_damage"
	StatAddedColdDamage        StatType = "added_cold_damage"
	StatAddedLightningDamage   StatType = "added_lightning_damage"
	StatAddedChaosDamage       StatType = "added_chaos_damage"
	StatIncreasedPhysicalDmg   StatType = "increased_physical_damage"
	StatIncreasedElementalDmg  StatType = "increased_elemental_damage"
	StatIncreasedChaosDamage   StatType = "increased_chaos_damage"
	StatIncreasedAttackSpeed   StatType = "increased_attack_speed"
	StatIncreasedCriticalChance StatType = "increased_critical_chance"
	StatIncreasedCriticalDamage StatType = "increased_critical_damage"
	StatPoisonDamageOverTime   StatType = "poison_damage_over_time"
	StatChanceToPoison         StatType = "chance_to_poison"
	StatIncreasedPoisonDuration StatType = "increased_poison_duration"
	StatAddedArmour            StatType = "added_armour"
	StatAddedEvasion           StatType = "added_evasion"
	StatAddedEnergyShield      StatType = "added_energy_shield"
	StatIncreasedArmour        StatType = "increased_armour"
	StatIncreasedEvasion       StatType = "increased_evasion"
	StatIncreasedEnergyShield  StatType = "increased_energy_shield"
	StatAddedStrength          StatType = "added_strength"
	StatAddedDexterity         StatType = "added_dexterity"
	StatAddedConstitution      StatType = "added_constitution"
	StatAddedIntelligence      StatType = "added_intelligence"
	StatAddedWisdom            StatType = "added_wisdom"
	StatAddedCharisma          StatType = "added_charisma"
	StatAddedAllAttributes     StatType = "added_all_attributes"
	StatAddedLife              StatType = "added_life"
	StatAddedMana              StatType = "added_mana"
	StatIncreasedLife          StatType = "increased_life"
	StatIncreasedMana          StatType = "increased_mana"
	StatLifeRegeneration       StatType = "life_regeneration"
	StatManaRegeneration       StatType = "mana_regeneration"
	StatLifeOnHit              StatType = "life_on_hit"
	StatLifeLeech              StatType = "life_leech"
	StatManaLeech              StatType = "mana_leech"
	StatFireResistance         StatType = "fire_resistance"
	StatColdResistance         StatType = "cold_resistance"
	StatLightningResistance    StatType = "lightning_resistance"
	StatChaosResistance        StatType = "chaos_resistance"
	StatAllResistances         StatType = "all_resistances"
	StatAddedAccuracy          StatType = "added_accuracy"
	StatIncreasedAccuracy      StatType = "increased_accuracy"
	StatIncreasedMovementSpeed StatType = "increased_movement_speed"
	StatIncreasedItemRarity    StatType = "increased_item_rarity"
	StatIncreasedItemQuantity  StatType = "increased_item_quantity"
)

// MappingMode selects how a unique recipe maps a source affix's rolled
// value onto a unique mod's range.
type MappingMode int

const (
	MappingPercentage MappingMode = iota
	MappingDirect
	MappingRandom
)

// ParseMappingMode maps a config string to a MappingMode. Percentage is
// the default when the config omits the field.
func ParseMappingMode(s string) (MappingMode, bool) {
	switch s {
	case "", "percentage":
		return MappingPercentage, true
	case "direct":
		return MappingDirect, true
	case "random":
		return MappingRandom, true
	default:
		return 0, false
	}
}

// EquipRequirements is the attribute/level gate for equipping an item.
type EquipRequirements struct {
	Level        uint32
	Strength     uint32
	Dexterity    uint32
	Constitution uint32
	Intelligence uint32
	Wisdom       uint32
	Charisma     uint32
}

// RollRange is an inclusive [Min, Max] integer range used for affix value
// rolls and implicit/defense rolls.
type RollRange struct {
	Min int32
	Max int32
}
