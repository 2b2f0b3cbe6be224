package currency

import (
	"errors"
	"fmt"

	"github.com/LukeThayer/loot-generator/internal/loot/types"
)

// Sentinel errors for conditions that carry no payload.
var (
	ErrNoAffixSlots          = errors.New("currency: no affix slots available")
	ErrNoAffixesToRemove     = errors.New("currency: no affixes to remove")
	ErrNoValidAffixes        = errors.New("currency: no valid affixes to add")
	ErrNoMatchingRecipe      = errors.New("currency: no matching unique recipe")
	ErrNoAffixPoolsSpecified = errors.New("currency: no affix pools specified for currency")
)

// InvalidRarityError reports a rarity requirement mismatch.
type InvalidRarityError struct {
	Expected []types.Rarity
	Got      types.Rarity
}

func (e *InvalidRarityError) Error() string {
	return fmt.Sprintf("currency: invalid rarity: expected %v, got %s", e.Expected, e.Got)
}

// AffixNotFoundError reports a referenced affix id with no config entry.
type AffixNotFoundError struct{ AffixID string }

func (e *AffixNotFoundError) Error() string {
	return fmt.Sprintf("currency: affix not found: %s", e.AffixID)
}

// AffixAlreadyPresentError reports an affix id already on the item.
type AffixAlreadyPresentError struct{ AffixID string }

func (e *AffixAlreadyPresentError) Error() string {
	return fmt.Sprintf("currency: affix already on item: %s", e.AffixID)
}

// AffixNotAllowedError reports an affix that cannot roll on the item's class.
type AffixNotAllowedError struct{ AffixID string }

func (e *AffixNotAllowedError) Error() string {
	return fmt.Sprintf("currency: affix not allowed on this item: %s", e.AffixID)
}

// TierNotFoundError reports an explicit tier override with no matching
// tier row on the affix.
type TierNotFoundError struct {
	AffixID string
	Tier    uint32
}

func (e *TierNotFoundError) Error() string {
	return fmt.Sprintf("currency: tier %d not found for affix %s", e.Tier, e.AffixID)
}

// UnknownCurrencyError reports a currency id with no config entry.
type UnknownCurrencyError struct{ ID string }

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("currency: unknown currency: %s", e.ID)
}
