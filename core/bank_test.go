package core

import (
	"sharelend/pkg/number"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankAssetUsdValue(t *testing.T) {
	bank := newTestBank(usdcBank, defaultSpec("USDC", usdcOracle), "1", "0")

	// 100 tokens of a 6 decimals mint, in native units
	value, err := bank.AssetUsdValue(d("100000000"), MarginRequirementInit, PriceBiasNone)
	require.NoError(t, err)
	assert.True(t, value.Equal(d("100")), value.String())

	ui, _ := NewBalance(balanceRecord(usdcBank, "100000000", "0")).QuantityUi(bank)
	assert.True(t, ui.Equal(d("100")))
}

func TestBankWeights(t *testing.T) {
	spec := defaultSpec("SOL", solOracle)
	spec.assetInit, spec.assetMaint = "0.75", "0.875"
	spec.liabInit, spec.liabMaint = "1.5", "1.25"
	bank := newTestBank(solBank, spec, "10", "0")

	data := []struct {
		mrt         MarginRequirementType
		asset, liab string
	}{
		{MarginRequirementInit, "0.75", "1.5"},
		{MarginRequirementMaint, "0.875", "1.25"},
		{MarginRequirementEquity, "1", "1"},
	}

	for _, v := range data {
		t.Run(v.mrt.String(), func(t *testing.T) {
			asset, err := bank.AssetWeight(v.mrt)
			require.NoError(t, err)
			assert.True(t, asset.Equal(d(v.asset)), asset.String())

			liab, err := bank.LiabilityWeight(v.mrt)
			require.NoError(t, err)
			assert.True(t, liab.Equal(d(v.liab)), liab.String())
		})
	}

	_, err := bank.AssetWeight(MarginRequirementType(9))
	assert.ErrorIs(t, err, ErrInvalidMarginRequirementType)
	_, err = bank.LiabilityUsdValue(d("1"), MarginRequirementType(-1), PriceBiasNone)
	assert.ErrorIs(t, err, ErrInvalidMarginRequirementType)
}

func TestBankMaintIsLooserThanInit(t *testing.T) {
	spec := defaultSpec("SOL", solOracle)
	spec.assetInit, spec.assetMaint = "0.75", "0.875"
	spec.liabInit, spec.liabMaint = "1.5", "1.25"
	bank := newTestBank(solBank, spec, "10", "0.05")

	for _, shares := range []string{"0", "1", "123456789", "5000000000"} {
		for _, bias := range []PriceBias{PriceBiasLowest, PriceBiasNone, PriceBiasHighest} {
			assetInit, _ := bank.AssetUsdValue(d(shares), MarginRequirementInit, bias)
			assetMaint, _ := bank.AssetUsdValue(d(shares), MarginRequirementMaint, bias)
			assert.True(t, assetMaint.GreaterThanOrEqual(assetInit))

			liabInit, _ := bank.LiabilityUsdValue(d(shares), MarginRequirementInit, bias)
			liabMaint, _ := bank.LiabilityUsdValue(d(shares), MarginRequirementMaint, bias)
			assert.True(t, liabMaint.LessThanOrEqual(liabInit))
		}
	}
}

func TestBankShares(t *testing.T) {
	r := bankRecord(defaultSpec("USDC", usdcOracle))
	r.AssetShareValue = number.I80F48("1.25")
	r.LiabilityShareValue = number.I80F48("2")
	bank := NewBank(usdcBank, "USDC", r, NewPriceReading(d("1"), d("0"), 0))

	assert.True(t, bank.AssetQuantity(d("100")).Equal(d("125")))
	assert.True(t, bank.AssetShares(d("125")).Equal(d("100")))
	assert.True(t, bank.LiabilityQuantity(d("100")).Equal(d("200")))
	assert.True(t, bank.LiabilityShares(d("200")).Equal(d("100")))

	r.AssetShareValue = number.I80F48("0")
	zero := NewBank(usdcBank, "USDC", r, NewPriceReading(d("1"), d("0"), 0))
	assert.True(t, zero.AssetShares(d("125")).IsZero())
}

func TestBankQuantityFromUsdValue(t *testing.T) {
	bank := newTestBank(solBank, defaultSpec("SOL", solOracle), "20", "0")
	q, err := bank.QuantityFromUsdValue(d("50"), PriceBiasNone)
	require.NoError(t, err)
	assert.True(t, q.Equal(d("2500000")), q.String())

	_, err = bank.QuantityFromUsdValue(d("50"), PriceBias(4))
	assert.ErrorIs(t, err, ErrInvalidPriceBias)
}

func TestBankInterestRates(t *testing.T) {
	spec := defaultSpec("USDC", usdcOracle)
	spec.totalAssets, spec.totalLiabilities = "1000000000", "500000000"
	bank := newTestBank(usdcBank, spec, "1", "0")

	assert.True(t, bank.UtilizationRate().Equal(d("0.5")))
	lending, borrowing := bank.InterestRates()
	assert.True(t, lending.Equal(d("0.5")), lending.String())
	assert.True(t, borrowing.Equal(d("1")), borrowing.String())

	tvl, err := bank.Tvl()
	require.NoError(t, err)
	assert.True(t, tvl.Equal(d("500")), tvl.String())
}

func TestBankRemainingCapacity(t *testing.T) {
	spec := defaultSpec("USDC", usdcOracle)
	spec.totalAssets, spec.totalLiabilities = "1000000000", "500000000"
	spec.depositLimit, spec.borrowLimit = 2000000000, 600000000
	spec.lastUpdate = 1700000000
	bank := newTestBank(usdcBank, spec, "1", "0")

	deposit, borrow := bank.RemainingCapacity(time.Unix(1700000000, 0))
	assert.True(t, deposit.Equal(d("1000000000")), deposit.String())
	assert.True(t, borrow.Equal(d("100000000")), borrow.String())

	// a year later twice the outstanding interest is reserved
	deposit, borrow = bank.RemainingCapacity(time.Unix(1700000000+31557600, 0))
	assert.True(t, deposit.Equal(d("0")), deposit.String())
	assert.True(t, borrow.IsZero(), borrow.String())

	// borrows never exceed the liquidity left in the bank
	spec.borrowLimit = 2000000000
	bank = newTestBank(usdcBank, spec, "1", "0")
	_, borrow = bank.RemainingCapacity(time.Unix(1700000000, 0))
	assert.True(t, borrow.Equal(d("500000000")), borrow.String())
}

func TestBankConfigValidate(t *testing.T) {
	spec := defaultSpec("SOL", solOracle)
	spec.assetInit, spec.assetMaint = "0.75", "0.875"
	spec.liabInit, spec.liabMaint = "1.5", "1.25"
	bank := newTestBank(solBank, spec, "10", "0")
	assert.NoError(t, bank.Config.Validate())

	bad := bank.Config
	bad.AssetWeightMaint = d("0.5")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBankConfig)

	bad = bank.Config
	bad.LiabilityWeightMaint = d("2")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBankConfig)

	bad = bank.Config
	bad.LiabilityWeightInit = d("0.9")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBankConfig)

	bad = bank.Config
	bad.InterestRateConfig.OptimalUtilizationRate = d("0")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidBankConfig)
}

func TestBankDescribe(t *testing.T) {
	bank := newTestBank(solBank, defaultSpec("SOL", solOracle), "10", "0")
	assert.Contains(t, bank.Describe(), "Bank SOL")
}
