// Package domain holds the partner store aggregate and the commission policy.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

// Tier classifies a partner store and selects its commission rule.
type Tier string

const (
	TierRegular    Tier = "regular"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// ErrUnknownTier is returned for tiers outside regular, premium and enterprise.
var ErrUnknownTier = fmt.Errorf("%w: unknown store tier", sharedDomain.ErrValidation)

// IsValid checks if the tier is known.
func (t Tier) IsValid() bool {
	_, ok := tierPresets[t]
	return ok
}

// ParseTier converts user input to a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// TierPreset holds the settings a new store receives for its tier.
type TierPreset struct {
	CommissionRate  decimal.Decimal
	Featured        bool
	PrioritySupport bool
}

var tierPresets = map[Tier]TierPreset{
	TierRegular: {
		CommissionRate: decimal.RequireFromString("0.05"),
	},
	TierPremium: {
		CommissionRate: decimal.RequireFromString("0.03"),
		Featured:       true,
	},
	TierEnterprise: {
		CommissionRate:  decimal.RequireFromString("0.02"),
		Featured:        true,
		PrioritySupport: true,
	},
}

// PresetFor returns the creation preset for a tier.
func PresetFor(t Tier) (TierPreset, error) {
	p, ok := tierPresets[t]
	if !ok {
		return TierPreset{}, fmt.Errorf("%w: %q", ErrUnknownTier, t)
	}
	return p, nil
}
