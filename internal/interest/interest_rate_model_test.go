package interest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func legacyConfig() Config {
	return Config{
		OptimalUtilizationRate: d("0.8"),
		PlateauInterestRate:    d("0.1"),
		MaxInterestRate:        d("1"),
	}
}

func TestCurve(t *testing.T) {
	c := legacyConfig()

	data := map[string]string{
		"0":   "0",
		"0.5": "0.625",
		"0.9": "0.55",
		"1":   "1",
	}

	for u, want := range data {
		t.Run(u, func(t *testing.T) {
			got := c.Curve(d(u))
			assert.True(t, got.Equal(d(want)), "curve(%s) = %s", u, got)
		})
	}
}

func TestCurveDegenerate(t *testing.T) {
	c := legacyConfig()
	c.OptimalUtilizationRate = decimal.Zero
	assert.True(t, c.Curve(decimal.Zero).IsZero())
	assert.True(t, c.Curve(d("0.5")).Equal(d("0.55")))

	c.OptimalUtilizationRate = d("1")
	assert.True(t, c.Curve(d("1.2")).Equal(d("1")))
}

func TestUtilizationRate(t *testing.T) {
	assert.True(t, UtilizationRate(decimal.Zero, d("100")).IsZero())
	assert.True(t, UtilizationRate(d("-1"), d("100")).IsZero())
	assert.True(t, UtilizationRate(d("200"), d("50")).Equal(d("0.25")))
}

func TestRates(t *testing.T) {
	c := legacyConfig()
	c.InsuranceFeeFixedApr = d("0.01")
	c.ProtocolFixedFeeApr = d("0.02")
	c.InsuranceIrFee = d("0.001")
	c.ProtocolIrFee = d("0.002")

	lending, borrowing := c.Rates(d("1000"), d("500"))
	// curve(0.5) = 0.625
	assert.True(t, lending.Equal(d("0.3125")), lending.String())
	// 0.625 * 1.03 + 0.003
	assert.True(t, borrowing.Equal(d("0.64675")), borrowing.String())

	lending, borrowing = c.Rates(decimal.Zero, decimal.Zero)
	assert.True(t, lending.IsZero())
	assert.True(t, borrowing.Equal(d("0.003")))
}

func TestRatesBorrowingCoversLending(t *testing.T) {
	c := legacyConfig()
	for _, liab := range []string{"0", "10", "400", "800", "950", "1000"} {
		lending, borrowing := c.Rates(d("1000"), d(liab))
		assert.True(t, borrowing.GreaterThanOrEqual(lending), "liabilities %s", liab)
	}
}

func TestMultipointCurve(t *testing.T) {
	c := Config{
		CurveType:       CurveMultipoint,
		ZeroUtilRate:    EncodeRate(d("0")),
		HundredUtilRate: EncodeRate(d("3")),
		Points: []RatePoint{
			{Util: EncodeUtil(d("0.5")), Rate: EncodeRate(d("0.1"))},
			{Util: EncodeUtil(d("0.9")), Rate: EncodeRate(d("0.5"))},
		},
	}
	assert.NoError(t, c.Validate())

	near := func(want string, got decimal.Decimal) {
		assert.True(t, got.Sub(d(want)).Abs().LessThan(d("0.000001")), "want %s got %s", want, got)
	}

	near("0", c.Curve(decimal.Zero))
	near("0.05", c.Curve(d("0.25")))
	near("0.1", c.Curve(d("0.5")))
	near("0.3", c.Curve(d("0.7")))
	near("1.75", c.Curve(d("0.95")))
	near("3", c.Curve(d("1.5")))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, legacyConfig().Validate())

	c := legacyConfig()
	c.OptimalUtilizationRate = d("1")
	assert.Error(t, c.Validate())

	c = legacyConfig()
	c.PlateauInterestRate = d("2")
	assert.Error(t, c.Validate())

	c = legacyConfig()
	c.ProtocolIrFee = d("-0.1")
	assert.Error(t, c.Validate())

	c = Config{CurveType: CurveMultipoint, Points: []RatePoint{{Util: 10}, {Util: 10}}}
	assert.Error(t, c.Validate())
}

func TestAprToApy(t *testing.T) {
	assert.True(t, AprToApy(decimal.Zero).IsZero())

	apy := AprToApy(d("0.1"))
	assert.True(t, apy.GreaterThan(d("0.105")))
	assert.True(t, apy.LessThan(d("0.106")))

	assert.True(t, AprToApy(d("50")).Equal(MaxApy))
	assert.True(t, AprToApy(d("-0.1")).IsNegative())
}
