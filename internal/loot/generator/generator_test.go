package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.BaseTypes["rusty_sword"] = &config.BaseType{
		ID:    "rusty_sword",
		Name:  "Rusty Sword",
		Class: types.ClassOneHandSword,
		Tags:  map[string]struct{}{"sword": {}},
		Implicit: &config.ImplicitSpec{
			Stat: types.StatAddedPhysicalDamage,
			Min:  1,
			Max:  3,
		},
		Requirements: types.EquipRequirements{Level: 1},
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
	cfg.Uniques["doombringer"] = &config.Unique{
		ID:       "doombringer",
		Name:     "Doombringer",
		BaseType: "rusty_sword",
		Mods: []config.UniqueMod{
			{Stat: types.StatAddedFireDamage, Min: 10, Max: 20},
		},
	}
	return cfg
}

func TestGenerateNormalIsDeterministic(t *testing.T) {
	gen := generator.New(testConfig())

	a, err := gen.GenerateNormal("rusty_sword", 777)
	require.NoError(t, err)
	b, err := gen.GenerateNormal("rusty_sword", 777)
	require.NoError(t, err)

	assert.Equal(t, a.Implicit.Value, b.Implicit.Value)
	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, types.RarityNormal, a.Rarity)
}

func TestGenerateNormalUnknownBase(t *testing.T) {
	gen := generator.New(testConfig())
	_, err := gen.GenerateNormal("nonexistent", 1)
	require.Error(t, err)
	var unknown *generator.ErrUnknownBase
	assert.ErrorAs(t, err, &unknown)
}

func TestGenerateUnique(t *testing.T) {
	gen := generator.New(testConfig())

	it, err := gen.GenerateUnique("doombringer", 5)
	require.NoError(t, err)
	assert.Equal(t, types.RarityUnique, it.Rarity)
	assert.Equal(t, "Doombringer", it.Name)
	require.Len(t, it.Prefixes, 1)
	assert.GreaterOrEqual(t, it.Prefixes[0].Value, int32(10))
	assert.LessOrEqual(t, it.Prefixes[0].Value, int32(20))

	t.Run("unknown unique", func(t *testing.T) {
		_, err := gen.GenerateUnique("nope", 1)
		require.Error(t, err)
		var unknown *generator.ErrUnknownUnique
		assert.ErrorAs(t, err, &unknown)
	})
}

func TestRollAffixRespectsItemLevelGate(t *testing.T) {
	cfg := testConfig()
	cfg.Affixes["of_fire"].Tiers = []config.AffixTier{
		{Tier: 1, Weight: 100, Value: types.RollRange{Min: 1, Max: 5}, MinItemLvl: 50},
	}
	gen := generator.New(cfg)
	src := gen.NewSource(1)

	mod := gen.RollAffix(types.ClassOneHandSword, map[string]struct{}{"sword": {}}, types.AffixSuffix, nil, nil, 1, src)
	assert.Nil(t, mod, "affix tier above the item's level should not be eligible")
}

func TestRollAffixExcludesExistingIDs(t *testing.T) {
	gen := generator.New(testConfig())
	src := gen.NewSource(1)

	mod := gen.RollAffix(types.ClassOneHandSword, nil, types.AffixSuffix, []string{"of_fire"}, nil, 10, src)
	assert.Nil(t, mod, "the only candidate suffix is already present, so no roll should succeed")
}

func TestMakeMagicAffixCountBounds(t *testing.T) {
	gen := generator.New(testConfig())
	it, err := gen.GenerateNormal("rusty_sword", 1)
	require.NoError(t, err)

	src := gen.NewSource(999)
	gen.MakeMagic(it, src)

	assert.Equal(t, types.RarityMagic, it.Rarity)
	total := len(it.Prefixes) + len(it.Suffixes)
	assert.GreaterOrEqual(t, total, 0)
	assert.LessOrEqual(t, total, 2)
	assert.LessOrEqual(t, len(it.Prefixes), it.Rarity.MaxPrefixes())
	assert.LessOrEqual(t, len(it.Suffixes), it.Rarity.MaxSuffixes())
}

func TestMakeRareSetsFreshNameAndAffixBounds(t *testing.T) {
	gen := generator.New(testConfig())
	it, err := gen.GenerateNormal("rusty_sword", 1)
	require.NoError(t, err)
	originalName := it.Name

	src := gen.NewSource(55)
	gen.MakeRare(it, src)

	assert.Equal(t, types.RarityRare, it.Rarity)
	assert.NotEqual(t, originalName, it.Name)
	total := len(it.Prefixes) + len(it.Suffixes)
	assert.LessOrEqual(t, total, 6)
}

func TestGenerateRareNameIsDeterministicPerSeed(t *testing.T) {
	gen := generator.New(testConfig())

	name1 := gen.GenerateRareName(gen.NewSource(10))
	name2 := gen.GenerateRareName(gen.NewSource(10))
	assert.Equal(t, name1, name2)
}
