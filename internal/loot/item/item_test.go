package item_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

func sampleItem() *item.Item {
	maxVal := int32(10)
	it := &item.Item{
		BaseTypeID: "rusty_sword",
		Seed:       42,
		Operations: []item.Operation{{Kind: item.OpCurrency, CurrencyID: "transmute"}},
		Name:       "Rusty Sword",
		BaseName:   "Rusty Sword",
		Class:      types.ClassOneHandSword,
		Rarity:     types.RarityMagic,
		Tags:       map[string]struct{}{"sword": {}},
		Implicit:   &item.Modifier{AffixID: "implicit", Value: 2, ValueMax: &maxVal},
		Prefixes:   []item.Modifier{{AffixID: "of_fire", Value: 5}},
	}
	return it
}

func TestClone(t *testing.T) {
	orig := sampleItem()
	cp := orig.Clone()

	t.Run("equal values", func(t *testing.T) {
		assert.Equal(t, orig.BaseTypeID, cp.BaseTypeID)
		assert.Equal(t, orig.Seed, cp.Seed)
		assert.Equal(t, orig.Prefixes, cp.Prefixes)
		require.NotNil(t, cp.Implicit)
		assert.Equal(t, *orig.Implicit, *cp.Implicit)
	})

	t.Run("independent mutation", func(t *testing.T) {
		cp.Prefixes[0].Value = 999
		assert.NotEqual(t, orig.Prefixes[0].Value, cp.Prefixes[0].Value)

		cp.Operations = append(cp.Operations, item.Operation{Kind: item.OpCurrency, CurrencyID: "alteration"})
		assert.Len(t, orig.Operations, 1)
		assert.Len(t, cp.Operations, 2)

		cp.Tags["extra"] = struct{}{}
		_, origHas := orig.Tags["extra"]
		assert.False(t, origHas)

		*cp.Implicit.ValueMax = 1
		assert.NotEqual(t, *orig.Implicit.ValueMax, *cp.Implicit.ValueMax)
	})
}

func TestAffixCount(t *testing.T) {
	it := sampleItem()
	it.Suffixes = []item.Modifier{{AffixID: "of_strength"}, {AffixID: "of_haste"}}

	prefixes, suffixes := it.AffixCount()
	assert.Equal(t, 1, prefixes)
	assert.Equal(t, 2, suffixes)
}

func TestHasAffixID(t *testing.T) {
	it := sampleItem()
	it.Suffixes = []item.Modifier{{AffixID: "of_strength"}}

	assert.True(t, it.HasAffixID("of_fire"))
	assert.True(t, it.HasAffixID("of_strength"))
	assert.False(t, it.HasAffixID("of_ice"))
}

func TestCanAddPrefixSuffix(t *testing.T) {
	t.Run("magic allows one of each", func(t *testing.T) {
		it := sampleItem() // already has 1 prefix, magic caps at 1
		assert.False(t, it.CanAddPrefix())
		assert.True(t, it.CanAddSuffix())
	})

	t.Run("rare allows up to three", func(t *testing.T) {
		it := sampleItem()
		it.Rarity = types.RarityRare
		assert.True(t, it.CanAddPrefix())
		assert.True(t, it.CanAddSuffix())
	})

	t.Run("normal allows none", func(t *testing.T) {
		it := &item.Item{Rarity: types.RarityNormal}
		assert.False(t, it.CanAddPrefix())
		assert.False(t, it.CanAddSuffix())
	})
}

func TestAllModifiers(t *testing.T) {
	it := sampleItem()
	it.Suffixes = []item.Modifier{{AffixID: "of_strength"}}

	all := it.AllModifiers()
	require.Len(t, all, 2)
	assert.Equal(t, "of_fire", all[0].AffixID)
	assert.Equal(t, "of_strength", all[1].AffixID)
}
