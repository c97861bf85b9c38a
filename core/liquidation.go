package core

import (
	"sharelend/pkg/number"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// HealthCheckAccount bank and oracle pair passed to a health check
type HealthCheckAccount struct {
	Bank   solana.PublicKey `json:"bank"`
	Oracle solana.PublicKey `json:"oracle"`
}

// LiquidateParams inputs of a liquidation instruction. The amount is taken
// as given; the program decides whether the liquidation is allowed.
type LiquidateParams struct {
	Liquidator    solana.PublicKey `json:"liquidator"`
	Liquidatee    solana.PublicKey `json:"liquidatee"`
	AssetBank     solana.PublicKey `json:"asset_bank"`
	LiabilityBank solana.PublicKey `json:"liability_bank"`
	// native units of the asset bank's mint
	AssetAmount decimal.Decimal `json:"asset_amount"`

	AssetOracle     solana.PublicKey     `json:"asset_oracle"`
	LiabilityOracle solana.PublicKey     `json:"liability_oracle"`
	LiquidatorBanks []HealthCheckAccount `json:"liquidator_banks"`
	LiquidateeBanks []HealthCheckAccount `json:"liquidatee_banks"`
}

// NewLiquidateParams collect the inputs for liquidating assetQuantityUi of
// assetBank's token from liquidatee against its liabBank liability
func NewLiquidateParams(liquidator, liquidatee *Account, assetBank, liabBank *Bank, assetQuantityUi decimal.Decimal) (*LiquidateParams, error) {
	if !assetQuantityUi.IsPositive() {
		return nil, errors.Wrapf(ErrInvalidAmount, "liquidate %s", assetQuantityUi)
	}

	liquidatorBanks, err := liquidator.HealthCheckBanks([]*Bank{assetBank, liabBank}, nil)
	if err != nil {
		return nil, err
	}

	liquidateeBanks, err := liquidatee.HealthCheckBanks(nil, nil)
	if err != nil {
		return nil, err
	}

	return &LiquidateParams{
		Liquidator:      liquidator.Address,
		Liquidatee:      liquidatee.Address,
		AssetBank:       assetBank.Address,
		LiabilityBank:   liabBank.Address,
		AssetAmount:     number.UiToNative(assetQuantityUi, assetBank.MintDecimals),
		AssetOracle:     assetBank.OracleKey(),
		LiabilityOracle: liabBank.OracleKey(),
		LiquidatorBanks: healthCheckAccounts(liquidatorBanks),
		LiquidateeBanks: healthCheckAccounts(liquidateeBanks),
	}, nil
}

func healthCheckAccounts(banks []*Bank) []HealthCheckAccount {
	accounts := make([]HealthCheckAccount, 0, len(banks))
	for _, b := range banks {
		accounts = append(accounts, HealthCheckAccount{Bank: b.Address, Oracle: b.OracleKey()})
	}

	return accounts
}
