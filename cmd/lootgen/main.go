// Command lootgen is a trace-printing demo of the loot engine: it builds
// a small in-memory item config, generates items, applies currencies,
// round-trips them through the binary codec and the SQLite vault, and
// prints each step so the engine's behavior is visible end to end.
package main

import (
	"bytes"
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/LukeThayer/loot-generator/internal/loot/codec"
	"github.com/LukeThayer/loot-generator/internal/loot/config"
	"github.com/LukeThayer/loot-generator/internal/loot/generator"
	"github.com/LukeThayer/loot-generator/internal/loot/item"
	"github.com/LukeThayer/loot-generator/internal/loot/replay"
	"github.com/LukeThayer/loot-generator/internal/loot/types"
	"github.com/LukeThayer/loot-generator/internal/loot/vault"
)

func main() {
	runID, _ := gonanoid.New(8)
	fmt.Printf("=== Loot Generator Demo (run %s) ===\n\n", runID)

	// 1. Build the config.
	fmt.Println("1. Building item config...")
	cfg := sampleConfig()
	gen := generator.New(cfg)
	eng := replay.New(gen)
	fmt.Printf("   base types: %d, affixes: %d, currencies: %d\n",
		len(cfg.BaseTypes), len(cfg.Affixes), len(cfg.Currencies))

	// 2. Generate items.
	fmt.Println("\n2. Generating items...")
	sword, err := gen.GenerateNormal("rusty_sword", 1001)
	must(err)
	printItem("Normal sword", sword)

	unique, err := gen.GenerateUnique("doombringer", 2002)
	must(err)
	printItem("Unique", unique)

	// 3. Apply currencies through the replay engine's pure-apply primitive.
	fmt.Println("\n3. Applying currencies...")
	magic, err := eng.PureApply(sword, "transmute")
	must(err)
	printItem("After transmute", magic)

	rare, err := eng.PureApply(magic, "alteration")
	must(err)
	printItem("After alteration", rare)

	// 4. Encode to the binary wire format.
	fmt.Println("\n4. Encoding to binary...")
	var buf bytes.Buffer
	must(codec.EncodeItem(&buf, rare))
	fmt.Printf("   encoded item: %d bytes\n", buf.Len())

	// 5. Save to the SQLite vault.
	fmt.Println("\n5. Saving to vault...")
	store, err := vault.OpenMemory()
	must(err)
	defer store.Close()

	ctx := context.Background()
	id, err := store.Put(ctx, rare, vault.Metadata{
		Tags:      []string{"demo"},
		ItemLevel: rare.Requirements.Level,
	})
	must(err)
	fmt.Printf("   saved as vault id %s\n", id)

	// 6. Load back and confirm it reconstructs identically.
	fmt.Println("\n6. Loading from vault and verifying...")
	loaded, err := store.Get(ctx, id, eng)
	must(err)
	fmt.Printf("   Name:   %s == %s ? %v\n", rare.Name, loaded.Name, rare.Name == loaded.Name)
	fmt.Printf("   Rarity: %s == %s ? %v\n", rare.Rarity, loaded.Rarity, rare.Rarity == loaded.Rarity)
	fmt.Printf("   Seed:   %d == %d ? %v\n", rare.Seed, loaded.Seed, rare.Seed == loaded.Seed)

	// 7. List the vault's contents.
	fmt.Println("\n7. Listing vault contents...")
	records, err := store.List(ctx, "", 10, 0)
	must(err)
	for _, r := range records {
		fmt.Printf("   - %s: %s (tags=%v)\n", r.ID, r.Name, r.Metadata.Tags)
	}

	// 8. Cleanup.
	fmt.Println("\n8. Cleaning up...")
	must(store.Delete(ctx, id))
	fmt.Println("   removed demo item from vault")

	fmt.Println("\n=== Demo Complete ===")
}

func printItem(label string, it *item.Item) {
	prefixes, suffixes := it.AffixCount()
	fmt.Printf("   %s: %s (rarity=%s, prefixes=%d, suffixes=%d)\n",
		label, it.Name, it.Rarity, prefixes, suffixes)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func sampleConfig() *config.Config {
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

	cfg.Pools["weapon_pool"] = &config.AffixPool{
		ID:      "weapon_pool",
		Name:    "Weapon Pool",
		AffixID: []string{"of_fire", "of_strength"},
	}

	setMagic := types.RarityMagic
	cfg.Currencies["transmute"] = &config.Currency{
		ID:   "transmute",
		Name: "Orb of Transmutation",
		Requirements: config.CurrencyRequirements{
			Rarities: []types.Rarity{types.RarityNormal},
		},
		Effects: config.CurrencyEffects{
			SetRarity:  &setMagic,
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
			AddAffixes:   &config.AffixCount{Min: 1, Max: 2},
			AffixPools:   []string{"weapon_pool"},
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
