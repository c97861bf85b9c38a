package core

import (
	"context"
	"fmt"
	"math/big"
	"sharelend/internal/interest"
	"sharelend/pkg/number"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// OracleSetup oracle flavor of a bank
type OracleSetup uint8

const (
	// OracleSetupNone no oracle
	OracleSetupNone OracleSetup = iota
	// OracleSetupPythEma pyth ema price
	OracleSetupPythEma
	// OracleSetupSwitchboard switchboard aggregator
	OracleSetupSwitchboard
)

func (s OracleSetup) String() string {
	switch s {
	case OracleSetupPythEma:
		return "pyth_ema"
	case OracleSetupSwitchboard:
		return "switchboard"
	default:
		return "none"
	}
}

// BankConfig risk config of a bank
type BankConfig struct {
	AssetWeightInit      decimal.Decimal `json:"asset_weight_init"`
	AssetWeightMaint     decimal.Decimal `json:"asset_weight_maint"`
	LiabilityWeightInit  decimal.Decimal `json:"liability_weight_init"`
	LiabilityWeightMaint decimal.Decimal `json:"liability_weight_maint"`
	// native units
	DepositLimit decimal.Decimal `json:"deposit_limit"`
	BorrowLimit  decimal.Decimal `json:"borrow_limit"`

	OracleSetup        OracleSetup        `json:"oracle_setup"`
	OracleKeys         []solana.PublicKey `json:"oracle_keys"`
	InterestRateConfig interest.Config    `json:"interest_rate_config"`
}

// Validate asset weights in [0, 1] with maint >= init,
// liability weights >= 1 with maint <= init
func (c BankConfig) Validate() error {
	if c.AssetWeightInit.IsNegative() || c.AssetWeightInit.GreaterThan(one) {
		return errors.Wrap(ErrInvalidBankConfig, "asset weight init should be in [0, 1]")
	}

	if c.AssetWeightMaint.LessThan(c.AssetWeightInit) || c.AssetWeightMaint.GreaterThan(one) {
		return errors.Wrap(ErrInvalidBankConfig, "asset weight maint should be in [asset weight init, 1]")
	}

	if c.LiabilityWeightInit.LessThan(one) {
		return errors.Wrap(ErrInvalidBankConfig, "liability weight init should be >= 1")
	}

	if c.LiabilityWeightMaint.LessThan(one) || c.LiabilityWeightMaint.GreaterThan(c.LiabilityWeightInit) {
		return errors.Wrap(ErrInvalidBankConfig, "liability weight maint should be in [1, liability weight init]")
	}

	if err := c.InterestRateConfig.Validate(); err != nil {
		return errors.Wrap(ErrInvalidBankConfig, err.Error())
	}

	return nil
}

// Bank lending pool of a single mint. A Bank is never mutated after it is
// built; price reloads produce a new value.
type Bank struct {
	Address      solana.PublicKey `json:"address"`
	Label        string           `json:"label"`
	Group        solana.PublicKey `json:"group"`
	Mint         solana.PublicKey `json:"mint"`
	MintDecimals int32            `json:"mint_decimals"`

	AssetShareValue     decimal.Decimal `json:"asset_share_value"`
	LiabilityShareValue decimal.Decimal `json:"liability_share_value"`

	LiquidityVault     solana.PublicKey `json:"liquidity_vault"`
	LiquidityVaultBump uint8            `json:"liquidity_vault_bump"`
	InsuranceVault     solana.PublicKey `json:"insurance_vault"`
	InsuranceVaultBump uint8            `json:"insurance_vault_bump"`
	FeeVault           solana.PublicKey `json:"fee_vault"`
	FeeVaultBump       uint8            `json:"fee_vault_bump"`

	CollectedInsuranceFeesOutstanding decimal.Decimal `json:"collected_insurance_fees_outstanding"`
	CollectedGroupFeesOutstanding     decimal.Decimal `json:"collected_group_fees_outstanding"`

	TotalAssetShares     decimal.Decimal `json:"total_asset_shares"`
	TotalLiabilityShares decimal.Decimal `json:"total_liability_shares"`

	LastUpdate int64      `json:"last_update"`
	Config     BankConfig `json:"config"`

	price PriceReading
}

// NewBank decode a bank record
func NewBank(address solana.PublicKey, label string, r BankRecord, price PriceReading) *Bank {
	dec := func(w number.WrappedI80F48) decimal.Decimal {
		return number.I80F48ToDecimal(w, 0)
	}

	ir := r.Config.InterestRateConfig
	return &Bank{
		Address:      address,
		Label:        label,
		Group:        r.Group,
		Mint:         r.Mint,
		MintDecimals: int32(r.MintDecimals),

		AssetShareValue:     dec(r.AssetShareValue),
		LiabilityShareValue: dec(r.LiabilityShareValue),

		LiquidityVault:     r.LiquidityVault,
		LiquidityVaultBump: r.LiquidityVaultBump,
		InsuranceVault:     r.InsuranceVault,
		InsuranceVaultBump: r.InsuranceVaultBump,
		FeeVault:           r.FeeVault,
		FeeVaultBump:       r.FeeVaultBump,

		CollectedInsuranceFeesOutstanding: dec(r.CollectedInsuranceFeesOutstanding),
		CollectedGroupFeesOutstanding:     dec(r.CollectedGroupFeesOutstanding),

		TotalAssetShares:     dec(r.TotalAssetShares),
		TotalLiabilityShares: dec(r.TotalLiabilityShares),

		LastUpdate: r.LastUpdate,
		Config: BankConfig{
			AssetWeightInit:      dec(r.Config.AssetWeightInit),
			AssetWeightMaint:     dec(r.Config.AssetWeightMaint),
			LiabilityWeightInit:  dec(r.Config.LiabilityWeightInit),
			LiabilityWeightMaint: dec(r.Config.LiabilityWeightMaint),
			DepositLimit:         decimal.NewFromBigInt(new(big.Int).SetUint64(r.Config.DepositLimit), 0),
			BorrowLimit:          decimal.NewFromBigInt(new(big.Int).SetUint64(r.Config.BorrowLimit), 0),
			OracleSetup:          r.Config.OracleSetup,
			OracleKeys:           r.Config.OracleKeys,
			InterestRateConfig: interest.Config{
				OptimalUtilizationRate: dec(ir.OptimalUtilizationRate),
				PlateauInterestRate:    dec(ir.PlateauInterestRate),
				MaxInterestRate:        dec(ir.MaxInterestRate),
				InsuranceFeeFixedApr:   dec(ir.InsuranceFeeFixedApr),
				InsuranceIrFee:         dec(ir.InsuranceIrFee),
				ProtocolFixedFeeApr:    dec(ir.ProtocolFixedFeeApr),
				ProtocolIrFee:          dec(ir.ProtocolIrFee),
				CurveType:              ir.CurveType,
				ZeroUtilRate:           ir.ZeroUtilRate,
				HundredUtilRate:        ir.HundredUtilRate,
				Points:                 ir.Points,
			},
		},
		price: price,
	}
}

// OracleKey primary oracle of the bank, zero when none is configured
func (b *Bank) OracleKey() solana.PublicKey {
	if len(b.Config.OracleKeys) == 0 {
		return solana.PublicKey{}
	}
	return b.Config.OracleKeys[0]
}

// PriceReading current price reading
func (b *Bank) PriceReading() PriceReading {
	return b.price
}

// WithPriceReading copy of the bank using p
func (b *Bank) WithPriceReading(p PriceReading) *Bank {
	nb := *b
	nb.price = p
	return &nb
}

// ReloadPriceData fetch a fresh reading and return the updated copy
func (b *Bank) ReloadPriceData(ctx context.Context, oracle IPriceOracle) (*Bank, error) {
	record, err := oracle.FetchPrice(ctx, b.OracleKey())
	if err != nil {
		return nil, errors.Wrapf(err, "reload price of bank %s", b.Label)
	}

	return b.WithPriceReading(b.price.Reload(record.Price, record.Confidence, record.Timestamp)), nil
}

// AssetQuantity shares * asset share value
func (b *Bank) AssetQuantity(shares decimal.Decimal) decimal.Decimal {
	return shares.Mul(b.AssetShareValue)
}

// LiabilityQuantity shares * liability share value
func (b *Bank) LiabilityQuantity(shares decimal.Decimal) decimal.Decimal {
	return shares.Mul(b.LiabilityShareValue)
}

// AssetShares quantity / asset share value
func (b *Bank) AssetShares(quantity decimal.Decimal) decimal.Decimal {
	return number.SafeDiv(quantity, b.AssetShareValue)
}

// LiabilityShares quantity / liability share value
func (b *Bank) LiabilityShares(quantity decimal.Decimal) decimal.Decimal {
	return number.SafeDiv(quantity, b.LiabilityShareValue)
}

// TotalAssets total deposits in native units
func (b *Bank) TotalAssets() decimal.Decimal {
	return b.AssetQuantity(b.TotalAssetShares)
}

// TotalLiabilities total borrows in native units
func (b *Bank) TotalLiabilities() decimal.Decimal {
	return b.LiabilityQuantity(b.TotalLiabilityShares)
}

// UtilizationRate total liabilities / total assets
func (b *Bank) UtilizationRate() decimal.Decimal {
	return interest.UtilizationRate(b.TotalAssets(), b.TotalLiabilities())
}

// InterestRates lending and borrowing apr
func (b *Bank) InterestRates() (lending, borrowing decimal.Decimal) {
	return b.Config.InterestRateConfig.Rates(b.TotalAssets(), b.TotalLiabilities())
}

// AssetWeight collateral weight for the requirement type
func (b *Bank) AssetWeight(mrt MarginRequirementType) (decimal.Decimal, error) {
	switch mrt {
	case MarginRequirementInit:
		return b.Config.AssetWeightInit, nil
	case MarginRequirementMaint:
		return b.Config.AssetWeightMaint, nil
	case MarginRequirementEquity:
		return one, nil
	default:
		return decimal.Zero, errors.Wrapf(ErrInvalidMarginRequirementType, "type %d", int(mrt))
	}
}

// LiabilityWeight liability weight for the requirement type
func (b *Bank) LiabilityWeight(mrt MarginRequirementType) (decimal.Decimal, error) {
	switch mrt {
	case MarginRequirementInit:
		return b.Config.LiabilityWeightInit, nil
	case MarginRequirementMaint:
		return b.Config.LiabilityWeightMaint, nil
	case MarginRequirementEquity:
		return one, nil
	default:
		return decimal.Zero, errors.Wrapf(ErrInvalidMarginRequirementType, "type %d", int(mrt))
	}
}

// Price oracle price with bias
func (b *Bank) Price(bias PriceBias) (decimal.Decimal, error) {
	return b.price.Price(bias)
}

// UsdValue quantity (native) * price * weight / 10^decimals
func (b *Bank) UsdValue(quantity decimal.Decimal, bias PriceBias, weight decimal.Decimal) (decimal.Decimal, error) {
	price, err := b.Price(bias)
	if err != nil {
		return decimal.Zero, err
	}

	return quantity.Mul(price).Mul(weight).Shift(-b.MintDecimals), nil
}

// AssetUsdValue weighted usd value of asset shares
func (b *Bank) AssetUsdValue(shares decimal.Decimal, mrt MarginRequirementType, bias PriceBias) (decimal.Decimal, error) {
	weight, err := b.AssetWeight(mrt)
	if err != nil {
		return decimal.Zero, err
	}

	return b.UsdValue(b.AssetQuantity(shares), bias, weight)
}

// LiabilityUsdValue weighted usd value of liability shares
func (b *Bank) LiabilityUsdValue(shares decimal.Decimal, mrt MarginRequirementType, bias PriceBias) (decimal.Decimal, error) {
	weight, err := b.LiabilityWeight(mrt)
	if err != nil {
		return decimal.Zero, err
	}

	return b.UsdValue(b.LiabilityQuantity(shares), bias, weight)
}

// QuantityFromUsdValue native quantity worth usd, zero when the price is not positive
func (b *Bank) QuantityFromUsdValue(usd decimal.Decimal, bias PriceBias) (decimal.Decimal, error) {
	price, err := b.Price(bias)
	if err != nil {
		return decimal.Zero, err
	}

	if !price.IsPositive() {
		return decimal.Zero, nil
	}

	return usd.Div(price).Shift(b.MintDecimals), nil
}

// Tvl usd value of deposits net of borrows
func (b *Bank) Tvl() (decimal.Decimal, error) {
	return b.UsdValue(b.TotalAssets().Sub(b.TotalLiabilities()), PriceBiasNone, one)
}

// RemainingCapacity native headroom under the deposit and borrow limits.
// Interest accrued since the last on-chain update is reserved twice. Borrow
// headroom is also capped at deposits minus liabilities, and both are floored
// at zero after the interest reserve.
func (b *Bank) RemainingCapacity(now time.Time) (deposit, borrow decimal.Decimal) {
	deposits, liabilities := b.TotalAssets(), b.TotalLiabilities()
	lending, borrowing := b.InterestRates()
	elapsed := interest.Elapsed(b.LastUpdate, now)

	two := decimal.NewFromInt(2)
	lendingInterest := interest.OutstandingInterest(lending, deposits, elapsed).Mul(two)
	borrowingInterest := interest.OutstandingInterest(borrowing, liabilities, elapsed).Mul(two)

	deposit = number.Max(decimal.Zero, b.Config.DepositLimit.Sub(deposits).Sub(lendingInterest))

	borrow = b.Config.BorrowLimit.Sub(liabilities).Sub(borrowingInterest)
	borrow = number.Min(borrow, deposits.Sub(liabilities))
	borrow = number.Max(decimal.Zero, borrow)

	return number.Floor(deposit, 0), number.Floor(borrow, 0)
}

// Describe human readable summary
func (b *Bank) Describe() string {
	lending, borrowing := b.InterestRates()
	price, _ := b.Price(PriceBiasNone)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Bank %s (%s)\n", b.Label, b.Address)
	fmt.Fprintf(&sb, "- mint: %s, decimals: %d\n", b.Mint, b.MintDecimals)
	fmt.Fprintf(&sb, "- price: %s +/- %s\n", price, b.price.ConfidenceInterval())
	fmt.Fprintf(&sb, "- total deposits: %s\n", number.NativeToUiDecimal(b.TotalAssets(), b.MintDecimals))
	fmt.Fprintf(&sb, "- total borrows: %s\n", number.NativeToUiDecimal(b.TotalLiabilities(), b.MintDecimals))
	fmt.Fprintf(&sb, "- utilization: %s%%\n", b.UtilizationRate().Shift(2).StringFixed(2))
	fmt.Fprintf(&sb, "- lending apr: %s%%, borrowing apr: %s%%\n", lending.Shift(2).StringFixed(2), borrowing.Shift(2).StringFixed(2))
	fmt.Fprintf(&sb, "- asset weights: init %s, maint %s\n", b.Config.AssetWeightInit.StringFixed(4), b.Config.AssetWeightMaint.StringFixed(4))
	fmt.Fprintf(&sb, "- liability weights: init %s, maint %s", b.Config.LiabilityWeightInit.StringFixed(4), b.Config.LiabilityWeightMaint.StringFixed(4))
	return sb.String()
}

// BankOverview derived figures of a bank
type BankOverview struct {
	Bank                     *Bank           `json:"bank"`
	Price                    decimal.Decimal `json:"price"`
	ConfidenceInterval       decimal.Decimal `json:"confidence_interval"`
	TotalDeposits            decimal.Decimal `json:"total_deposits"`
	TotalBorrows             decimal.Decimal `json:"total_borrows"`
	UtilizationRate          decimal.Decimal `json:"utilization_rate"`
	LendingRate              decimal.Decimal `json:"lending_rate"`
	BorrowingRate            decimal.Decimal `json:"borrowing_rate"`
	LendingApy               decimal.Decimal `json:"lending_apy"`
	BorrowingApy             decimal.Decimal `json:"borrowing_apy"`
	Tvl                      decimal.Decimal `json:"tvl"`
	RemainingDepositCapacity decimal.Decimal `json:"remaining_deposit_capacity"`
	RemainingBorrowCapacity  decimal.Decimal `json:"remaining_borrow_capacity"`
}

// IBankService bank lookups over the current snapshot
type IBankService interface {
	All(ctx context.Context) ([]*Bank, error)
	Find(ctx context.Context, key string) (*Bank, error)
	Refresh(ctx context.Context, bank *Bank) (*Bank, error)
	Overview(ctx context.Context, bank *Bank) (*BankOverview, error)
}
