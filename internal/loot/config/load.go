package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

// file is the top-level shape of one YAML document. Any subset of the
// fields may be present; a directory load merges documents across many
// files the way internal/item/affix/registry.go's LoadFromDirectory does.
type file struct {
	BaseTypes  []baseTypeDef  `yaml:"base_types"`
	Affixes    []affixDef     `yaml:"affixes"`
	Pools      []poolDef      `yaml:"pools"`
	Currencies []currencyDef  `yaml:"currencies"`
	Uniques    []uniqueDef    `yaml:"uniques"`
	Recipes    []recipeDef    `yaml:"recipes"`
}

type rollRangeDef struct {
	Min int32 `yaml:"min"`
	Max int32 `yaml:"max"`
}

type requirementsDef struct {
	Level        uint32 `yaml:"level"`
	Strength     uint32 `yaml:"strength"`
	Dexterity    uint32 `yaml:"dexterity"`
	Constitution uint32 `yaml:"constitution"`
	Intelligence uint32 `yaml:"intelligence"`
	Wisdom       uint32 `yaml:"wisdom"`
	Charisma     uint32 `yaml:"charisma"`
}

type implicitDef struct {
	Stat string `yaml:"stat"`
	Min  int32  `yaml:"min"`
	Max  int32  `yaml:"max"`
}

type defensesDef struct {
	Armour       *rollRangeDef `yaml:"armour,omitempty"`
	Evasion      *rollRangeDef `yaml:"evasion,omitempty"`
	EnergyShield *rollRangeDef `yaml:"energy_shield,omitempty"`
}

type damageEntryDef struct {
	DamageType string `yaml:"damage_type"`
	Min        int32  `yaml:"min"`
	Max        int32  `yaml:"max"`
}

type damageDef struct {
	Damages         []damageEntryDef `yaml:"damages"`
	AttackSpeed     float64          `yaml:"attack_speed"`
	CriticalChance  float64          `yaml:"critical_chance"`
	SpellEfficiency float64          `yaml:"spell_efficiency"`
}

type baseTypeDef struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Class        string           `yaml:"class"`
	Tags         []string         `yaml:"tags,omitempty"`
	Implicit     *implicitDef     `yaml:"implicit,omitempty"`
	Defenses     *defensesDef     `yaml:"defenses,omitempty"`
	Damage       *damageDef       `yaml:"damage,omitempty"`
	Requirements *requirementsDef `yaml:"requirements,omitempty"`
}

type affixTierDef struct {
	Tier       uint32        `yaml:"tier"`
	Weight     int64         `yaml:"weight"`
	Min        int32         `yaml:"min"`
	Max        int32         `yaml:"max"`
	MaxValue   *rollRangeDef `yaml:"max_value,omitempty"`
	MinItemLvl uint32        `yaml:"min_ilvl"`
}

type affixDef struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	AffixType      string         `yaml:"affix_type"`
	Stat           string         `yaml:"stat"`
	Scope          string         `yaml:"scope"`
	Tags           []string       `yaml:"tags,omitempty"`
	AllowedClasses []string       `yaml:"allowed_classes,omitempty"`
	Tiers          []affixTierDef `yaml:"tiers"`
}

type poolDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Affixes     []string `yaml:"affixes"`
}

type specificAffixDef struct {
	ID     string `yaml:"id"`
	Tier   *uint32 `yaml:"tier,omitempty"`
	Weight int64  `yaml:"weight"`
}

type affixCountDef struct {
	Min uint32 `yaml:"min"`
	Max uint32 `yaml:"max"`
}

type currencyRequirementsDef struct {
	Rarities     []string `yaml:"rarities,omitempty"`
	HasAffix     bool     `yaml:"has_affix"`
	HasAffixSlot bool     `yaml:"has_affix_slot"`
}

type currencyEffectsDef struct {
	SetRarity        *string            `yaml:"set_rarity,omitempty"`
	ClearAffixes     bool               `yaml:"clear_affixes"`
	RemoveAffixes    *uint32            `yaml:"remove_affixes,omitempty"`
	RerollAffixes    *uint32            `yaml:"reroll_affixes,omitempty"`
	AddAffixes       *affixCountDef     `yaml:"add_affixes,omitempty"`
	AddSpecificAffix []specificAffixDef `yaml:"add_specific_affix,omitempty"`
	TryUnique        bool               `yaml:"try_unique"`
	AffixPools       []string           `yaml:"affix_pools,omitempty"`
}

type currencyDef struct {
	ID           string                  `yaml:"id"`
	Name         string                  `yaml:"name"`
	Description  string                  `yaml:"description,omitempty"`
	Category     string                  `yaml:"category,omitempty"`
	Requirements currencyRequirementsDef `yaml:"requires"`
	Effects      currencyEffectsDef      `yaml:"effects"`
}

type uniqueModDef struct {
	Stat string `yaml:"stat"`
	Min  int32  `yaml:"min"`
	Max  int32  `yaml:"max"`
}

type uniqueDef struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	BaseType string         `yaml:"base_type"`
	Flavor   string         `yaml:"flavor,omitempty"`
	Mods     []uniqueModDef `yaml:"mods"`
}

type recipeAffixReqDef struct {
	Stat      string  `yaml:"stat"`
	AffixType *string `yaml:"affix_type,omitempty"`
	MinTier   uint32  `yaml:"min_tier"`
	MaxTier   uint32  `yaml:"max_tier"`
}

type recipeMappingDef struct {
	FromStat   string  `yaml:"from_stat"`
	ToModIndex int     `yaml:"to_mod_index"`
	Mode       string  `yaml:"mode,omitempty"`
	Influence  *float64 `yaml:"influence,omitempty"`
}

type recipeDef struct {
	UniqueID        string              `yaml:"unique_id"`
	BaseType        string              `yaml:"base_type"`
	Weight          int64               `yaml:"weight"`
	RequiredAffixes []recipeAffixReqDef `yaml:"required_affixes,omitempty"`
	Mappings        []recipeMappingDef  `yaml:"mappings,omitempty"`
}

// LoadDir reads every *.yaml / *.yml file in dir (non-recursive) and
// merges them into a single Config. The config directory layout itself
// (where dir lives, how it's discovered) is an external concern; LoadDir
// just takes an explicit path, mirroring LoadFromDirectory in the
// reference affix registry.
func LoadDir(dir string) (*Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("config: read dir %s: %w", dir, err)
	}
	cfg := New()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := LoadFile(filepath.Join(dir, entry.Name()), cfg); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", entry.Name(), err)
		}
	}
	return cfg, nil
}

// LoadFile parses one YAML document and merges it into cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return mergeFile(cfg, &f)
}

func mergeFile(cfg *Config, f *file) error {
	for _, d := range f.BaseTypes {
		bt, err := convertBaseType(d)
		if err != nil {
			return fmt.Errorf("base_type %s: %w", d.ID, err)
		}
		if _, exists := cfg.BaseTypes[bt.ID]; exists {
			return &ErrDuplicateID{Table: "base_types", ID: bt.ID}
		}
		cfg.BaseTypes[bt.ID] = bt
	}
	for _, d := range f.Affixes {
		a, err := convertAffix(d)
		if err != nil {
			return fmt.Errorf("affix %s: %w", d.ID, err)
		}
		if _, exists := cfg.Affixes[a.ID]; exists {
			return &ErrDuplicateID{Table: "affixes", ID: a.ID}
		}
		cfg.Affixes[a.ID] = a
	}
	for _, d := range f.Pools {
		p := &AffixPool{ID: d.ID, Name: d.Name, AffixID: append([]string(nil), d.Affixes...)}
		if _, exists := cfg.Pools[p.ID]; exists {
			return &ErrDuplicateID{Table: "pools", ID: p.ID}
		}
		cfg.Pools[p.ID] = p
	}
	for _, d := range f.Currencies {
		c, err := convertCurrency(d)
		if err != nil {
			return fmt.Errorf("currency %s: %w", d.ID, err)
		}
		if _, exists := cfg.Currencies[c.ID]; exists {
			return &ErrDuplicateID{Table: "currencies", ID: c.ID}
		}
		cfg.Currencies[c.ID] = c
	}
	for _, d := range f.Uniques {
		u := convertUnique(d)
		if _, exists := cfg.Uniques[u.ID]; exists {
			return &ErrDuplicateID{Table: "uniques", ID: u.ID}
		}
		cfg.Uniques[u.ID] = u
	}
	for _, d := range f.Recipes {
		r, err := convertRecipe(d)
		if err != nil {
			return fmt.Errorf("recipe for %s: %w", d.UniqueID, err)
		}
		cfg.Recipes = append(cfg.Recipes, r)
	}
	return nil
}

func tagSet(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return nil
	}
	s := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func convertBaseType(d baseTypeDef) (*BaseType, error) {
	bt := &BaseType{
		ID:    d.ID,
		Name:  d.Name,
		Class: types.ItemClass(d.Class),
		Tags:  tagSet(d.Tags),
	}
	if d.Requirements != nil {
		bt.Requirements = types.EquipRequirements{
			Level:        d.Requirements.Level,
			Strength:     d.Requirements.Strength,
			Dexterity:    d.Requirements.Dexterity,
			Constitution: d.Requirements.Constitution,
			Intelligence: d.Requirements.Intelligence,
			Wisdom:       d.Requirements.Wisdom,
			Charisma:     d.Requirements.Charisma,
		}
	}
	if d.Implicit != nil {
		bt.Implicit = &ImplicitSpec{Stat: types.StatType(d.Implicit.Stat), Min: d.Implicit.Min, Max: d.Implicit.Max}
	}
	if d.Defenses != nil {
		bt.Defenses = &DefensesSpec{
			Armour:       convertRollRange(d.Defenses.Armour),
			Evasion:      convertRollRange(d.Defenses.Evasion),
			EnergyShield: convertRollRange(d.Defenses.EnergyShield),
		}
	}
	if d.Damage != nil {
		dmg := &DamageSpec{
			AttackSpeed:     d.Damage.AttackSpeed,
			CriticalChance:  d.Damage.CriticalChance,
			SpellEfficiency: d.Damage.SpellEfficiency,
		}
		for _, e := range d.Damage.Damages {
			dmg.Damages = append(dmg.Damages, DamageEntry{DamageType: e.DamageType, Min: e.Min, Max: e.Max})
		}
		bt.Damage = dmg
	}
	return bt, nil
}

func convertRollRange(d *rollRangeDef) *types.RollRange {
	if d == nil {
		return nil
	}
	return &types.RollRange{Min: d.Min, Max: d.Max}
}

func convertAffix(d affixDef) (*Affix, error) {
	kind, ok := types.ParseAffixType(d.AffixType)
	if !ok {
		return nil, fmt.Errorf("unknown affix_type %q", d.AffixType)
	}
	scope := types.ScopeLocal
	if d.Scope != "" {
		s, ok := types.ParseScope(d.Scope)
		if !ok {
			return nil, fmt.Errorf("unknown scope %q", d.Scope)
		}
		scope = s
	}
	a := &Affix{
		ID:   d.ID,
		Name: d.Name,
		Kind: kind,
		Stat: types.StatType(d.Stat),
		Scope: scope,
		Tags: tagSet(d.Tags),
	}
	if len(d.AllowedClasses) > 0 {
		a.AllowedClasses = make(map[types.ItemClass]struct{}, len(d.AllowedClasses))
		for _, c := range d.AllowedClasses {
			a.AllowedClasses[types.ItemClass(c)] = struct{}{}
		}
	}
	for _, t := range d.Tiers {
		a.Tiers = append(a.Tiers, AffixTier{
			Tier:       t.Tier,
			Weight:     t.Weight,
			Value:      types.RollRange{Min: t.Min, Max: t.Max},
			ValueMax:   convertRollRange(t.MaxValue),
			MinItemLvl: t.MinItemLvl,
		})
	}
	return a, nil
}

func convertCurrency(d currencyDef) (*Currency, error) {
	c := &Currency{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
	}
	for _, r := range d.Requirements.Rarities {
		parsed, ok := types.ParseRarity(r)
		if !ok {
			return nil, fmt.Errorf("unknown rarity %q", r)
		}
		c.Requirements.Rarities = append(c.Requirements.Rarities, parsed)
	}
	c.Requirements.HasAffix = d.Requirements.HasAffix
	c.Requirements.HasAffixSlot = d.Requirements.HasAffixSlot

	eff := &d.Effects
	if eff.SetRarity != nil {
		r, ok := types.ParseRarity(*eff.SetRarity)
		if !ok {
			return nil, fmt.Errorf("unknown set_rarity %q", *eff.SetRarity)
		}
		c.Effects.SetRarity = &r
	}
	c.Effects.ClearAffixes = eff.ClearAffixes
	c.Effects.RemoveAffixes = eff.RemoveAffixes
	c.Effects.RerollAffixes = eff.RerollAffixes
	if eff.AddAffixes != nil {
		c.Effects.AddAffixes = &AffixCount{Min: eff.AddAffixes.Min, Max: eff.AddAffixes.Max}
	}
	for _, sa := range eff.AddSpecificAffix {
		weight := sa.Weight
		if weight == 0 {
			weight = 100
		}
		c.Effects.AddSpecificAffix = append(c.Effects.AddSpecificAffix, SpecificAffix{
			AffixID: sa.ID,
			Tier:    sa.Tier,
			Weight:  weight,
		})
	}
	c.Effects.TryUnique = eff.TryUnique
	c.Effects.AffixPools = append([]string(nil), eff.AffixPools...)
	return c, nil
}

func convertUnique(d uniqueDef) *Unique {
	u := &Unique{ID: d.ID, Name: d.Name, BaseType: d.BaseType, Flavor: d.Flavor}
	for _, m := range d.Mods {
		u.Mods = append(u.Mods, UniqueMod{Stat: types.StatType(m.Stat), Min: m.Min, Max: m.Max})
	}
	return u
}

func convertRecipe(d recipeDef) (UniqueRecipe, error) {
	weight := d.Weight
	if weight == 0 {
		weight = 100
	}
	r := UniqueRecipe{UniqueID: d.UniqueID, BaseType: d.BaseType, Weight: weight}
	for _, req := range d.RequiredAffixes {
		minTier := req.MinTier
		if minTier == 0 {
			minTier = 1
		}
		maxTier := req.MaxTier
		if maxTier == 0 {
			maxTier = 99
		}
		rr := RecipeAffixRequirement{Stat: types.StatType(req.Stat), MinTier: minTier, MaxTier: maxTier}
		if req.AffixType != nil {
			at, ok := types.ParseAffixType(*req.AffixType)
			if !ok {
				return UniqueRecipe{}, fmt.Errorf("unknown affix_type %q", *req.AffixType)
			}
			rr.Kind = &at
		}
		r.RequiredAffixes = append(r.RequiredAffixes, rr)
	}
	for _, m := range d.Mappings {
		mode, ok := types.ParseMappingMode(m.Mode)
		if !ok {
			return UniqueRecipe{}, fmt.Errorf("unknown mapping mode %q", m.Mode)
		}
		influence := 1.0
		if m.Influence != nil {
			influence = *m.Influence
		}
		r.Mappings = append(r.Mappings, RecipeMapping{
			FromStat:   types.StatType(m.FromStat),
			ToModIndex: m.ToModIndex,
			Mode:       mode,
			Influence:  influence,
		})
	}
	return r, nil
}
