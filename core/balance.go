package core

import (
	"fmt"
	"sharelend/pkg/number"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// HealthComponents weighted usd value of assets and liabilities
type HealthComponents struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
}

// Add component-wise sum
func (h HealthComponents) Add(o HealthComponents) HealthComponents {
	return HealthComponents{
		Assets:      h.Assets.Add(o.Assets),
		Liabilities: h.Liabilities.Add(o.Liabilities),
	}
}

// Balance position of an account in one bank
type Balance struct {
	Active          bool             `json:"active"`
	BankPk          solana.PublicKey `json:"bank_pk"`
	AssetShares     decimal.Decimal  `json:"asset_shares"`
	LiabilityShares decimal.Decimal  `json:"liability_shares"`
	LastUpdate      uint64           `json:"last_update"`
}

// NewBalance decode a balance record
func NewBalance(r BalanceRecord) Balance {
	return Balance{
		Active:          r.Active,
		BankPk:          r.BankPk,
		AssetShares:     number.I80F48ToDecimal(r.AssetShares, 0),
		LiabilityShares: number.I80F48ToDecimal(r.LiabilityShares, 0),
		LastUpdate:      r.LastUpdate,
	}
}

// NewEmptyBalance inactive balance for bankPk
func NewEmptyBalance(bankPk solana.PublicKey) Balance {
	return Balance{BankPk: bankPk}
}

// UsdValue weighted usd value at the unbiased price
func (b Balance) UsdValue(bank *Bank, mrt MarginRequirementType) (HealthComponents, error) {
	return b.usdValue(bank, mrt, PriceBiasNone, PriceBiasNone)
}

// UsdValueWithPriceBias assets at the lowest price, liabilities at the highest
func (b Balance) UsdValueWithPriceBias(bank *Bank, mrt MarginRequirementType) (HealthComponents, error) {
	return b.usdValue(bank, mrt, PriceBiasLowest, PriceBiasHighest)
}

func (b Balance) usdValue(bank *Bank, mrt MarginRequirementType, assetBias, liabilityBias PriceBias) (HealthComponents, error) {
	assets, err := bank.AssetUsdValue(b.AssetShares, mrt, assetBias)
	if err != nil {
		return HealthComponents{}, err
	}

	liabilities, err := bank.LiabilityUsdValue(b.LiabilityShares, mrt, liabilityBias)
	if err != nil {
		return HealthComponents{}, err
	}

	return HealthComponents{Assets: assets, Liabilities: liabilities}, nil
}

// Quantity native quantities of the position
func (b Balance) Quantity(bank *Bank) (assets, liabilities decimal.Decimal) {
	return bank.AssetQuantity(b.AssetShares), bank.LiabilityQuantity(b.LiabilityShares)
}

// QuantityUi ui quantities of the position
func (b Balance) QuantityUi(bank *Bank) (assets, liabilities decimal.Decimal) {
	assets, liabilities = b.Quantity(bank)
	return number.NativeToUiDecimal(assets, bank.MintDecimals), number.NativeToUiDecimal(liabilities, bank.MintDecimals)
}

// Describe human readable summary
func (b Balance) Describe(bank *Bank) string {
	assets, liabilities := b.QuantityUi(bank)
	value, err := b.UsdValue(bank, MarginRequirementEquity)
	if err != nil {
		return fmt.Sprintf("%s: %s deposits, %s borrows", bank.Label, assets, liabilities)
	}

	return fmt.Sprintf("%s: %s ($%s) deposits, %s ($%s) borrows",
		bank.Label,
		assets, value.Assets.StringFixed(2),
		liabilities, value.Liabilities.StringFixed(2),
	)
}
