package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

var (
	ErrNegativeAmount = fmt.Errorf("%w: sale amount must not be negative", sharedDomain.ErrValidation)
	ErrInvalidRate    = fmt.Errorf("%w: commission rate must be between 0 and 1", sharedDomain.ErrValidation)
	ErrRatePrecision  = fmt.Errorf("%w: commission rate allows at most 4 decimal places", sharedDomain.ErrValidation)
)

// DefaultEnterpriseCap is the enterprise commission ceiling.
//
// The ceiling applies to each sale on its own. Commission already charged
// earlier in the month is not accumulated.
var DefaultEnterpriseCap = decimal.NewFromInt(5000)

var (
	premiumLargeThreshold  = decimal.NewFromInt(10000)
	premiumMediumThreshold = decimal.NewFromInt(5000)
	premiumLargeFactor     = decimal.RequireFromString("0.8")
	premiumMediumFactor    = decimal.RequireFromString("0.9")
)

// CommissionResult is the breakdown of a commission calculation.
type CommissionResult struct {
	Tier          Tier
	SaleAmount    decimal.Decimal
	BaseRate      decimal.Decimal
	EffectiveRate decimal.Decimal
	Commission    decimal.Decimal
	NetAmount     decimal.Decimal
	Capped        bool
}

type commissionRule struct {
	rate   func(baseRate, saleAmount decimal.Decimal) decimal.Decimal
	capped bool
}

var commissionRules = map[Tier]commissionRule{
	TierRegular:    {rate: flatRate},
	TierPremium:    {rate: volumeDiscountRate},
	TierEnterprise: {rate: flatRate, capped: true},
}

func flatRate(baseRate, _ decimal.Decimal) decimal.Decimal {
	return baseRate
}

// volumeDiscountRate gives 10% off the base rate above 5000 and 20% off above 10000.
func volumeDiscountRate(baseRate, saleAmount decimal.Decimal) decimal.Decimal {
	switch {
	case saleAmount.GreaterThan(premiumLargeThreshold):
		return baseRate.Mul(premiumLargeFactor)
	case saleAmount.GreaterThan(premiumMediumThreshold):
		return baseRate.Mul(premiumMediumFactor)
	default:
		return baseRate
	}
}

// CommissionPolicy computes commissions by store tier.
type CommissionPolicy struct {
	enterpriseCap decimal.Decimal
}

// NewCommissionPolicy creates a policy with the given enterprise ceiling.
func NewCommissionPolicy(enterpriseCap decimal.Decimal) CommissionPolicy {
	return CommissionPolicy{enterpriseCap: enterpriseCap}
}

// DefaultCommissionPolicy returns the policy with DefaultEnterpriseCap.
func DefaultCommissionPolicy() CommissionPolicy {
	return NewCommissionPolicy(DefaultEnterpriseCap)
}

// EnterpriseCap returns the configured enterprise ceiling.
func (p CommissionPolicy) EnterpriseCap() decimal.Decimal {
	return p.enterpriseCap
}

// Calculate returns the commission breakdown for a sale.
func (p CommissionPolicy) Calculate(tier Tier, baseRate, saleAmount decimal.Decimal) (CommissionResult, error) {
	rule, ok := commissionRules[tier]
	if !ok {
		return CommissionResult{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	if saleAmount.IsNegative() {
		return CommissionResult{}, ErrNegativeAmount
	}
	if err := ValidateRate(baseRate); err != nil {
		return CommissionResult{}, err
	}

	rate := rule.rate(baseRate, saleAmount)
	commission := saleAmount.Mul(rate)
	capped := false
	if rule.capped && commission.GreaterThan(p.enterpriseCap) {
		commission = p.enterpriseCap
		capped = true
	}

	return CommissionResult{
		Tier:          tier,
		SaleAmount:    saleAmount,
		BaseRate:      baseRate,
		EffectiveRate: rate,
		Commission:    commission,
		NetAmount:     saleAmount.Sub(commission),
		Capped:        capped,
	}, nil
}

// Calculate uses the default policy.
func Calculate(tier Tier, baseRate, saleAmount decimal.Decimal) (CommissionResult, error) {
	return DefaultCommissionPolicy().Calculate(tier, baseRate, saleAmount)
}

// ComputeCommission returns only the commission owed on a sale.
func ComputeCommission(tier Tier, baseRate, saleAmount decimal.Decimal) (decimal.Decimal, error) {
	res, err := Calculate(tier, baseRate, saleAmount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return res.Commission, nil
}

// validateStoredRate checks a rate that is about to be saved on a store.
func validateStoredRate(rate decimal.Decimal) error {
	if err := ValidateRate(rate); err != nil {
		return err
	}
	if !sharedDomain.FitsPlaces(rate, sharedDomain.RatePlaces) {
		return fmt.Errorf("%w: got %s", ErrRatePrecision, rate)
	}
	return nil
}

// ValidateRate checks that a commission rate lies in [0, 1].
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: got %s", ErrInvalidRate, rate)
	}
	return nil
}
