package core

import (
	"sharelend/internal/interest"
	"sharelend/pkg/number"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	testGroup  = key(1)
	usdcBank   = key(10)
	solBank    = key(11)
	ethBank    = key(12)
	usdcOracle = key(20)
	solOracle  = key(21)
	ethOracle  = key(22)
)

func key(seed byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = seed
	pk[31] = 0xaa
	return pk
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertNear(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	diff := got.Sub(d(want)).Abs()
	assert.True(t, diff.LessThan(d("0.000001")), "want %s got %s", want, got)
}

type bankSpec struct {
	label    string
	oracle   solana.PublicKey
	decimals uint8

	assetInit, assetMaint, liabInit, liabMaint string

	// native quantities, share values are 1
	totalAssets, totalLiabilities string
	depositLimit, borrowLimit     uint64
	lastUpdate                    int64
}

func defaultSpec(label string, oracle solana.PublicKey) bankSpec {
	return bankSpec{
		label:            label,
		oracle:           oracle,
		decimals:         6,
		assetInit:        "1",
		assetMaint:       "1",
		liabInit:         "1",
		liabMaint:        "1",
		totalAssets:      "0",
		totalLiabilities: "0",
	}
}

func bankRecord(s bankSpec) BankRecord {
	return BankRecord{
		Group:                testGroup,
		Mint:                 key(s.oracle[0] + 100),
		MintDecimals:         s.decimals,
		AssetShareValue:      number.I80F48("1"),
		LiabilityShareValue:  number.I80F48("1"),
		TotalAssetShares:     number.I80F48(s.totalAssets),
		TotalLiabilityShares: number.I80F48(s.totalLiabilities),
		LastUpdate:           s.lastUpdate,
		Config: BankConfigRecord{
			AssetWeightInit:      number.I80F48(s.assetInit),
			AssetWeightMaint:     number.I80F48(s.assetMaint),
			LiabilityWeightInit:  number.I80F48(s.liabInit),
			LiabilityWeightMaint: number.I80F48(s.liabMaint),
			DepositLimit:         s.depositLimit,
			BorrowLimit:          s.borrowLimit,
			OracleSetup:          OracleSetupPythEma,
			OracleKeys:           []solana.PublicKey{s.oracle},
			InterestRateConfig: InterestRateConfigRecord{
				OptimalUtilizationRate: number.I80F48("0.5"),
				PlateauInterestRate:    number.I80F48("0.25"),
				MaxInterestRate:        number.I80F48("1"),
				CurveType:              interest.CurveLegacy,
			},
		},
	}
}

func newTestBank(address solana.PublicKey, s bankSpec, price, confidence string) *Bank {
	return NewBank(address, s.label, bankRecord(s), NewPriceReading(d(price), d(confidence), 0))
}

// deposit and borrow are native quantities
func balanceRecord(bank solana.PublicKey, deposit, borrow string) BalanceRecord {
	return BalanceRecord{
		Active:          true,
		BankPk:          bank,
		AssetShares:     number.I80F48(deposit),
		LiabilityShares: number.I80F48(borrow),
	}
}

func newTestAccount(t *testing.T, address solana.PublicKey, group *Group, balances ...BalanceRecord) *Account {
	t.Helper()
	a, err := NewAccount(address, AccountRecord{Group: group.Address, Authority: key(99), Balances: balances}, group)
	if err != nil {
		t.Fatal(err)
	}
	return a
}
