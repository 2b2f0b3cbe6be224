package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

func TestRarityCaps(t *testing.T) {
	t.Run("prefix and suffix caps by rarity", func(t *testing.T) {
		cases := []struct {
			r               types.Rarity
			prefixes, suffixes int
		}{
			{types.RarityNormal, 0, 0},
			{types.RarityMagic, 1, 1},
			{types.RarityRare, 3, 3},
			{types.RarityUnique, 0, 0},
		}
		for _, c := range cases {
			assert.Equal(t, c.prefixes, c.r.MaxPrefixes(), c.r.String())
			assert.Equal(t, c.suffixes, c.r.MaxSuffixes(), c.r.String())
		}
	})

	t.Run("ParseRarity round-trips String", func(t *testing.T) {
		for _, r := range []types.Rarity{types.RarityNormal, types.RarityMagic, types.RarityRare, types.RarityUnique} {
			parsed, ok := types.ParseRarity(r.String())
			assert.True(t, ok)
			assert.Equal(t, r, parsed)
		}
	})

	t.Run("ParseRarity rejects unknown", func(t *testing.T) {
		_, ok := types.ParseRarity("legendary")
		assert.False(t, ok)
	})
}

func TestItemClassClassifiers(t *testing.T) {
	assert.True(t, types.ClassOneHandSword.IsWeapon())
	assert.False(t, types.ClassOneHandSword.IsArmour())
	assert.True(t, types.ClassBodyArmour.IsArmour())
	assert.False(t, types.ClassBodyArmour.IsWeapon())
}

func TestParseAffixType(t *testing.T) {
	p, ok := types.ParseAffixType("prefix")
	assert.True(t, ok)
	assert.Equal(t, types.AffixPrefix, p)

	s, ok := types.ParseAffixType("suffix")
	assert.True(t, ok)
	assert.Equal(t, types.AffixSuffix, s)

	_, ok = types.ParseAffixType("bogus")
	assert.False(t, ok)
}

func TestParseMappingMode(t *testing.T) {
	t.Run("empty string defaults to percentage", func(t *testing.T) {
		m, ok := types.ParseMappingMode("")
		assert.True(t, ok)
		assert.Equal(t, types.MappingPercentage, m)
	})

	t.Run("known modes", func(t *testing.T) {
		m, ok := types.ParseMappingMode("direct")
		assert.True(t, ok)
		assert.Equal(t, types.MappingDirect, m)

		m, ok = types.ParseMappingMode("random")
		assert.True(t, ok)
		assert.Equal(t, types.MappingRandom, m)
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		_, ok := types.ParseMappingMode("bogus")
		assert.False(t, ok)
	})
}
