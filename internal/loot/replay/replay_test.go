package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/replay"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.BaseTypes["rusty_sword"] = &config.BaseType{
		ID:           "rusty_sword",
		Name:         "Rusty Sword",
		Class:        types.ClassOneHandSword,
		Tags:         map[string]struct{}{"sword": {}},
		Requirements: types.EquipRequirements{Level: 10},
	}
	cfg.Affixes["of_fire"] = &config.Affix{
		ID:   "of_fire",
		Name: "of Fire",
		Kind: types.AffixSuffix,
		Stat: types.StatAddedFireDamage,
		Tiers: []config.AffixTier{
			{Tier: 1, Weight: 100, Value: types.RollRange{Min: 1, Max: 5}},
		},
	}
	cfg.Pools["weapon_pool"] = &config.AffixPool{
		ID:      "weapon_pool",
		AffixID: []string{"of_fire"},
	}
	rarity := types.RarityMagic
	cfg.Currencies["transmute"] = &config.Currency{
		ID: "transmute",
		Requirements: config.CurrencyRequirements{
			Rarities: []types.Rarity{types.RarityNormal},
		},
		Effects: config.CurrencyEffects{
			SetRarity:  &rarity,
			AddAffixes: &config.AffixCount{Min: 1, Max: 1},
			AffixPools: []string{"weapon_pool"},
		},
	}
	return cfg
}

func TestPureApplyThenReconstruct(t *testing.T) {
	cfg := testConfig()
	gen := generator.New(cfg)
	eng := replay.New(gen)

	base, err := gen.GenerateNormal("rusty_sword", 7)
	require.NoError(t, err)

	applied, err := eng.PureApply(base, "transmute")
	require.NoError(t, err)
	assert.Equal(t, types.RarityMagic, applied.Rarity)
	assert.Equal(t, types.RarityNormal, base.Rarity, "original item must be untouched")

	reconstructed, err := eng.Reconstruct("rusty_sword", 7, applied.Operations)
	require.NoError(t, err)

	assert.Equal(t, applied.Rarity, reconstructed.Rarity)
	assert.Equal(t, applied.Prefixes, reconstructed.Prefixes)
	assert.Equal(t, applied.Suffixes, reconstructed.Suffixes)
	assert.Equal(t, applied.Name, reconstructed.Name)
}

func TestReconstructIgnoresFailedOps(t *testing.T) {
	cfg := testConfig()
	gen := generator.New(cfg)
	eng := replay.New(gen)

	ops := []item.Operation{
		{Kind: item.OpCurrency, CurrencyID: "does_not_exist"},
	}
	it, err := eng.Reconstruct("rusty_sword", 1, ops)
	require.NoError(t, err)
	assert.Equal(t, types.RarityNormal, it.Rarity)
	assert.Equal(t, ops, it.Operations)
}
