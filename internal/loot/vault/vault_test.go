package vault_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/replay"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
	"github.com/LukeThayer/loot-generator/internal/loot/vault"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.BaseTypes["rusty_sword"] = &config.BaseType{
		ID:           "rusty_sword",
		Name:         "Rusty Sword",
		Class:        types.ClassOneHandSword,
		Requirements: types.EquipRequirements{Level: 10},
	}
	return cfg
}

func TestPutGetList(t *testing.T) {
	cfg := testConfig()
	gen := generator.New(cfg)
	eng := replay.New(gen)

	store, err := vault.OpenMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	it, err := gen.GenerateNormal("rusty_sword", 123)
	require.NoError(t, err)

	id, err := store.Put(ctx, it, vault.Metadata{Tags: []string{"sword"}, ItemLevel: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	loaded, err := store.Get(ctx, id, eng)
	require.NoError(t, err)
	assert.Equal(t, it.Seed, loaded.Seed)
	assert.Equal(t, it.BaseTypeID, loaded.BaseTypeID)

	records, err := store.List(ctx, "rusty_sword", 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, []string{"sword"}, records[0].Metadata.Tags)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id, eng)
	assert.ErrorIs(t, err, vault.ErrNotFound)
}
