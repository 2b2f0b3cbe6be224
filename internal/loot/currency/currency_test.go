package currency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/currency"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.BaseTypes["rusty_sword"] = &config.BaseType{
		ID:    "rusty_sword",
		Name:  "Rusty Sword",
		Class: types.ClassOneHandSword,
		Tags:  map[string]struct{}{"sword": {}},
		Requirements: types.EquipRequirements{
			Level: 10,
		},
	}
	cfg.Affixes["of_fire"] = &config.Affix{
		ID:   "of_fire",
		Name: "of Fire",
		Kind: types.AffixSuffix,
		Stat: types.StatAddedFireDamage,
		Tiers: []config.AffixTier{
			{Tier: 1, Weight: 100, Value: types.RollRange{Min: 1, Max: 5}, MinItemLvl: 0},
		},
	}
	cfg.Affixes["of_strength"] = &config.Affix{
		ID:   "of_strength",
		Name: "of Strength",
		Kind: types.AffixPrefix,
		Stat: types.StatAddedStrength,
		Tiers: []config.AffixTier{
			{Tier: 1, Weight: 100, Value: types.RollRange{Min: 1, Max: 10}, MinItemLvl: 0},
		},
	}
	cfg.Pools["weapon_pool"] = &config.AffixPool{
		ID:      "weapon_pool",
		AffixID: []string{"of_fire", "of_strength"},
	}
	cfg.Currencies["transmute"] = &config.Currency{
		ID:   "transmute",
		Name: "Orb of Transmutation",
		Requirements: config.CurrencyRequirements{
			Rarities: []types.Rarity{types.RarityNormal},
		},
		Effects: config.CurrencyEffects{
			SetRarity:  rarityPtr(types.RarityMagic),
			AddAffixes: &config.AffixCount{Min: 1, Max: 1},
			AffixPools: []string{"weapon_pool"},
		},
	}
	cfg.Currencies["alteration"] = &config.Currency{
		ID:   "alteration",
		Name: "Orb of Alteration",
		Requirements: config.CurrencyRequirements{
			Rarities: []types.Rarity{types.RarityMagic},
		},
		Effects: config.CurrencyEffects{
			ClearAffixes: true,
			AddAffixes:   &config.AffixCount{Min: 1, Max: 1},
			AffixPools:   []string{"weapon_pool"},
		},
	}
	return cfg
}

func rarityPtr(r types.Rarity) *types.Rarity { return &r }

func newItem(cfg *config.Config) *item.Item {
	gen := generator.New(cfg)
	it, err := gen.GenerateNormal("rusty_sword", 42)
	if err != nil {
		panic(err)
	}
	return it
}

func TestApply(t *testing.T) {
	t.Run("requirements reject wrong rarity", func(t *testing.T) {
		cfg := testConfig()
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)
		it.Rarity = types.RarityRare

		src := gen.NewSource(1)
		err := eng.Apply(it, "transmute", src)
		require.Error(t, err)
		var rarityErr *currency.InvalidRarityError
		assert.ErrorAs(t, err, &rarityErr)
	})

	t.Run("unknown currency", func(t *testing.T) {
		cfg := testConfig()
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)

		src := gen.NewSource(1)
		err := eng.Apply(it, "nonexistent", src)
		require.Error(t, err)
		var unknownErr *currency.UnknownCurrencyError
		assert.ErrorAs(t, err, &unknownErr)
	})

	t.Run("transmute upgrades normal to magic with one affix", func(t *testing.T) {
		cfg := testConfig()
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)
		require.Equal(t, types.RarityNormal, it.Rarity)

		src := gen.NewSource(1)
		err := eng.Apply(it, "transmute", src)
		require.NoError(t, err)

		assert.Equal(t, types.RarityMagic, it.Rarity)
		prefixes, suffixes := it.AffixCount()
		assert.Equal(t, 1, prefixes+suffixes)
	})

	t.Run("CanApply does not mutate or consume rng", func(t *testing.T) {
		cfg := testConfig()
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)

		err := eng.CanApply(it, "transmute")
		require.NoError(t, err)
		assert.Equal(t, types.RarityNormal, it.Rarity)
	})

	t.Run("no affix pools specified is an upfront error", func(t *testing.T) {
		cfg := testConfig()
		cur := cfg.Currencies["transmute"]
		cur.Effects.AffixPools = nil
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)

		src := gen.NewSource(1)
		err := eng.Apply(it, "transmute", src)
		assert.ErrorIs(t, err, currency.ErrNoAffixPoolsSpecified)
	})

	t.Run("clear affixes resets name to base on normal", func(t *testing.T) {
		cfg := testConfig()
		cfg.Currencies["scour"] = &config.Currency{
			ID: "scour",
			Effects: config.CurrencyEffects{
				SetRarity:    rarityPtr(types.RarityNormal),
				ClearAffixes: true,
			},
		}
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)
		it.Rarity = types.RarityMagic
		it.Name = "Fiery Rusty Sword"
		it.Suffixes = []item.Modifier{{AffixID: "of_fire"}}

		src := gen.NewSource(1)
		err := eng.Apply(it, "scour", src)
		require.NoError(t, err)
		assert.Equal(t, it.BaseName, it.Name)
		assert.Empty(t, it.Suffixes)
	})
}

func TestAddAffixByID(t *testing.T) {
	t.Run("explicit bad tier returns TierNotFoundError", func(t *testing.T) {
		cfg := testConfig()
		cfg.Currencies["imbue"] = &config.Currency{
			ID: "imbue",
			Effects: config.CurrencyEffects{
				AddSpecificAffix: []config.SpecificAffix{
					{AffixID: "of_fire", Tier: tierPtr(99), Weight: 100},
				},
			},
		}
		gen := generator.New(cfg)
		eng := currency.New(gen)
		it := newItem(cfg)
		it.Rarity = types.RarityMagic

		src := gen.NewSource(1)
		err := eng.Apply(it, "imbue", src)
		require.Error(t, err)
		var tnf *currency.TierNotFoundError
		assert.ErrorAs(t, err, &tnf)
	})
}

func tierPtr(v uint32) *uint32 { return &v }
