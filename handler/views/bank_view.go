package views

import (
	"sharelend/core"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Bank bank view
type Bank struct {
	Address      solana.PublicKey `json:"address"`
	Label        string           `json:"label"`
	Mint         solana.PublicKey `json:"mint"`
	MintDecimals int32            `json:"mint_decimals"`
	OracleSetup  string           `json:"oracle_setup"`
	Oracle       solana.PublicKey `json:"oracle"`

	Price              decimal.Decimal `json:"price"`
	ConfidenceInterval decimal.Decimal `json:"confidence_interval"`

	TotalDeposits   decimal.Decimal `json:"total_deposits"`
	TotalBorrows    decimal.Decimal `json:"total_borrows"`
	UtilizationRate decimal.Decimal `json:"utilization_rate"`
	LendingRate     decimal.Decimal `json:"lending_rate"`
	BorrowingRate   decimal.Decimal `json:"borrowing_rate"`
	LendingAPY      decimal.Decimal `json:"lending_apy"`
	BorrowingAPY    decimal.Decimal `json:"borrowing_apy"`
	Tvl             decimal.Decimal `json:"tvl"`

	AssetWeightInit      decimal.Decimal `json:"asset_weight_init"`
	AssetWeightMaint     decimal.Decimal `json:"asset_weight_maint"`
	LiabilityWeightInit  decimal.Decimal `json:"liability_weight_init"`
	LiabilityWeightMaint decimal.Decimal `json:"liability_weight_maint"`

	RemainingDepositCapacity decimal.Decimal `json:"remaining_deposit_capacity"`
	RemainingBorrowCapacity  decimal.Decimal `json:"remaining_borrow_capacity"`
}

// BankView bank view of an overview
func BankView(o *core.BankOverview) Bank {
	b := o.Bank
	return Bank{
		Address:      b.Address,
		Label:        b.Label,
		Mint:         b.Mint,
		MintDecimals: b.MintDecimals,
		OracleSetup:  b.Config.OracleSetup.String(),
		Oracle:       b.OracleKey(),

		Price:              o.Price,
		ConfidenceInterval: o.ConfidenceInterval,

		TotalDeposits:   o.TotalDeposits,
		TotalBorrows:    o.TotalBorrows,
		UtilizationRate: o.UtilizationRate,
		LendingRate:     o.LendingRate,
		BorrowingRate:   o.BorrowingRate,
		LendingAPY:      o.LendingApy,
		BorrowingAPY:    o.BorrowingApy,
		Tvl:             o.Tvl,

		AssetWeightInit:      b.Config.AssetWeightInit,
		AssetWeightMaint:     b.Config.AssetWeightMaint,
		LiabilityWeightInit:  b.Config.LiabilityWeightInit,
		LiabilityWeightMaint: b.Config.LiabilityWeightMaint,

		RemainingDepositCapacity: o.RemainingDepositCapacity,
		RemainingBorrowCapacity:  o.RemainingBorrowCapacity,
	}
}
