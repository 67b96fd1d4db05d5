package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeCommission_Regular(t *testing.T) {
	amounts := []string{"0", "0.01", "99.99", "5000", "10000.01", "123456.78"}
	for _, amount := range amounts {
		t.Run(amount, func(t *testing.T) {
			got, err := ComputeCommission(TierRegular, d("0.05"), d(amount))
			require.NoError(t, err)
			assertDecimal(t, d(amount).Mul(d("0.05")).String(), got)
		})
	}
}

func TestCalculate_PremiumVolumeDiscount(t *testing.T) {
	tests := []struct {
		amount     string
		rate       string
		commission string
	}{
		{"3000", "0.05", "150.00"},
		{"5000", "0.05", "250.00"},
		{"6000", "0.045", "270.00"},
		{"10000", "0.045", "450.00"},
		{"15000", "0.04", "600.00"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			res, err := Calculate(TierPremium, d("0.05"), d(tt.amount))
			require.NoError(t, err)
			assertDecimal(t, tt.rate, res.EffectiveRate)
			assertDecimal(t, tt.commission, res.Commission)
			assertDecimal(t, d(tt.amount).Sub(d(tt.commission)).String(), res.NetAmount)
			assert.False(t, res.Capped)
		})
	}
}

func TestCalculate_EnterpriseCap(t *testing.T) {
	res, err := Calculate(TierEnterprise, d("0.02"), d("1000000"))
	require.NoError(t, err)
	assertDecimal(t, "5000.00", res.Commission)
	assertDecimal(t, "995000", res.NetAmount)
	assert.True(t, res.Capped)

	res, err = Calculate(TierEnterprise, d("0.02"), d("100000"))
	require.NoError(t, err)
	assertDecimal(t, "2000", res.Commission)
	assert.False(t, res.Capped)

	t.Run("cap is applied per call", func(t *testing.T) {
		for range 3 {
			res, err := Calculate(TierEnterprise, d("0.02"), d("300000"))
			require.NoError(t, err)
			assertDecimal(t, "5000", res.Commission)
		}
	})

	t.Run("configured cap", func(t *testing.T) {
		policy := NewCommissionPolicy(d("1500"))
		res, err := policy.Calculate(TierEnterprise, d("0.02"), d("100000"))
		require.NoError(t, err)
		assertDecimal(t, "1500", res.Commission)
		assert.True(t, res.Capped)
	})
}

func TestCalculate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		tier   Tier
		rate   string
		amount string
		err    error
	}{
		{"unknown tier", Tier("gold"), "0.05", "100", ErrUnknownTier},
		{"empty tier", Tier(""), "0.05", "100", ErrUnknownTier},
		{"negative amount", TierRegular, "0.05", "-0.01", ErrNegativeAmount},
		{"rate above one", TierPremium, "1.5", "100", ErrInvalidRate},
		{"negative rate", TierEnterprise, "-0.1", "100", ErrInvalidRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Calculate(tt.tier, d(tt.rate), d(tt.amount))
			require.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, sharedDomain.ErrValidation)
			assert.Equal(t, CommissionResult{}, res)
		})
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("premium")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, tier)

	_, err = ParseTier("Premium")
	assert.ErrorIs(t, err, ErrUnknownTier)
}
