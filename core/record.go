package core

import (
	"context"
	"sharelend/internal/interest"
	"sharelend/pkg/number"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// GroupRecord decoded group account
type GroupRecord struct {
	Admin solana.PublicKey
}

// InterestRateConfigRecord decoded interest rate config
type InterestRateConfigRecord struct {
	OptimalUtilizationRate number.WrappedI80F48
	PlateauInterestRate    number.WrappedI80F48
	MaxInterestRate        number.WrappedI80F48

	InsuranceFeeFixedApr number.WrappedI80F48
	InsuranceIrFee       number.WrappedI80F48
	ProtocolFixedFeeApr  number.WrappedI80F48
	ProtocolIrFee        number.WrappedI80F48

	CurveType       interest.CurveType
	ZeroUtilRate    uint32
	HundredUtilRate uint32
	Points          []interest.RatePoint
}

// BankConfigRecord decoded bank config
type BankConfigRecord struct {
	AssetWeightInit      number.WrappedI80F48
	AssetWeightMaint     number.WrappedI80F48
	LiabilityWeightInit  number.WrappedI80F48
	LiabilityWeightMaint number.WrappedI80F48

	DepositLimit uint64
	BorrowLimit  uint64

	OracleSetup OracleSetup
	OracleKeys  []solana.PublicKey

	InterestRateConfig InterestRateConfigRecord
}

// BankRecord decoded bank account
type BankRecord struct {
	Group        solana.PublicKey
	Mint         solana.PublicKey
	MintDecimals uint8

	AssetShareValue     number.WrappedI80F48
	LiabilityShareValue number.WrappedI80F48

	LiquidityVault     solana.PublicKey
	LiquidityVaultBump uint8
	InsuranceVault     solana.PublicKey
	InsuranceVaultBump uint8
	FeeVault           solana.PublicKey
	FeeVaultBump       uint8

	CollectedInsuranceFeesOutstanding number.WrappedI80F48
	CollectedGroupFeesOutstanding     number.WrappedI80F48

	TotalAssetShares     number.WrappedI80F48
	TotalLiabilityShares number.WrappedI80F48

	LastUpdate int64

	Config BankConfigRecord
}

// BalanceRecord decoded balance slot
type BalanceRecord struct {
	Active          bool
	BankPk          solana.PublicKey
	AssetShares     number.WrappedI80F48
	LiabilityShares number.WrappedI80F48
	LastUpdate      uint64
}

// AccountRecord decoded margin account
type AccountRecord struct {
	Group     solana.PublicKey
	Authority solana.PublicKey
	Balances  []BalanceRecord
}

// PriceRecord decoded oracle reading
type PriceRecord struct {
	OracleKey  solana.PublicKey
	Price      decimal.Decimal
	Confidence decimal.Decimal
	Timestamp  int64
}

// BankEntry bank record with its address and label
type BankEntry struct {
	Address solana.PublicKey
	Label   string
	Record  BankRecord
}

// RecordBatch records read at a single ledger slot
type RecordBatch struct {
	Slot         uint64
	GroupAddress solana.PublicKey
	Group        GroupRecord
	Banks        []BankEntry
	Prices       map[solana.PublicKey]PriceRecord
	Accounts     map[solana.PublicKey]AccountRecord
}

// IRecordStore source of decoded ledger records.
// FetchBatch must read everything it returns from the same ledger slot.
type IRecordStore interface {
	FetchBatch(ctx context.Context, group solana.PublicKey, accounts []solana.PublicKey) (*RecordBatch, error)
	FetchPrices(ctx context.Context, oracleKeys []solana.PublicKey) (map[solana.PublicKey]PriceRecord, error)
}
