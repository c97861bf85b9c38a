// Package fixture in-memory ledger records for tests
package fixture

import (
	"context"
	"sharelend/core"
	"sharelend/pkg/number"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	Group      = Key(1)
	Admin      = Key(2)
	USDCBank   = Key(10)
	SOLBank    = Key(11)
	USDCOracle = Key(20)
	SOLOracle  = Key(21)
	Account    = Key(50)
	Authority  = Key(51)
	Liquidator = Key(52)
)

// Key deterministic address
func Key(seed byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = seed
	pk[31] = 0x77
	return pk
}

func bank(label string, oracle solana.PublicKey, totalAssets, totalLiabilities string) core.BankRecord {
	return core.BankRecord{
		Group:                Group,
		Mint:                 Key(oracle[0] + 100),
		MintDecimals:         6,
		AssetShareValue:      number.I80F48("1"),
		LiabilityShareValue:  number.I80F48("1"),
		TotalAssetShares:     number.I80F48(totalAssets),
		TotalLiabilityShares: number.I80F48(totalLiabilities),
		Config: core.BankConfigRecord{
			AssetWeightInit:      number.I80F48("0.5"),
			AssetWeightMaint:     number.I80F48("0.75"),
			LiabilityWeightInit:  number.I80F48("1.5"),
			LiabilityWeightMaint: number.I80F48("1.25"),
			DepositLimit:         10000000000,
			BorrowLimit:          5000000000,
			OracleSetup:          core.OracleSetupPythEma,
			OracleKeys:           []solana.PublicKey{oracle},
			InterestRateConfig: core.InterestRateConfigRecord{
				OptimalUtilizationRate: number.I80F48("0.5"),
				PlateauInterestRate:    number.I80F48("0.25"),
				MaxInterestRate:        number.I80F48("1"),
			},
		},
	}
}

// Batch USDC at $1 and SOL at $20; Account deposits 100 USDC and borrows 1 SOL,
// Liquidator deposits 1000 USDC
func Batch() *core.RecordBatch {
	return &core.RecordBatch{
		Slot:         100,
		GroupAddress: Group,
		Group:        core.GroupRecord{Admin: Admin},
		Banks: []core.BankEntry{
			{Address: USDCBank, Label: "USDC", Record: bank("USDC", USDCOracle, "1000000000", "500000000")},
			{Address: SOLBank, Label: "SOL", Record: bank("SOL", SOLOracle, "100000000", "10000000")},
		},
		Prices: map[solana.PublicKey]core.PriceRecord{
			USDCOracle: {OracleKey: USDCOracle, Price: decimal.NewFromInt(1)},
			SOLOracle:  {OracleKey: SOLOracle, Price: decimal.NewFromInt(20)},
		},
		Accounts: map[solana.PublicKey]core.AccountRecord{
			Account: {
				Group:     Group,
				Authority: Authority,
				Balances: []core.BalanceRecord{
					{Active: true, BankPk: USDCBank, AssetShares: number.I80F48("100000000")},
					{Active: true, BankPk: SOLBank, LiabilityShares: number.I80F48("1000000")},
				},
			},
			Liquidator: {
				Group:     Group,
				Authority: Authority,
				Balances: []core.BalanceRecord{
					{Active: true, BankPk: USDCBank, AssetShares: number.I80F48("1000000000")},
				},
			},
		},
	}
}

// Store record store serving a mutable batch
type Store struct {
	mu      sync.Mutex
	batch   *core.RecordBatch
	err     error
	batches int
	prices  int
}

// NewStore store serving Batch()
func NewStore() *Store {
	return &Store{batch: Batch()}
}

// SetPrice replace the reading of an oracle
func (s *Store) SetPrice(oracle solana.PublicKey, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.batch.Prices[oracle]
	p.OracleKey = oracle
	p.Price = price
	s.batch.Prices[oracle] = p
}

// SetSlot move the batch to another slot
func (s *Store) SetSlot(slot uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Slot = slot
}

// SetError make every fetch fail with err, nil restores
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls number of batch and price fetches
func (s *Store) Calls() (batches, prices int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, s.prices
}

func (s *Store) FetchBatch(_ context.Context, group solana.PublicKey, accounts []solana.PublicKey) (*core.RecordBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches++
	if s.err != nil {
		return nil, s.err
	}

	if !group.Equals(s.batch.GroupAddress) {
		return nil, errors.Errorf("unknown group %s", group)
	}

	out := *s.batch
	out.Prices = make(map[solana.PublicKey]core.PriceRecord, len(s.batch.Prices))
	for k, v := range s.batch.Prices {
		out.Prices[k] = v
	}

	out.Accounts = make(map[solana.PublicKey]core.AccountRecord)
	for k, v := range s.batch.Accounts {
		if len(accounts) == 0 || contains(accounts, k) {
			out.Accounts[k] = v
		}
	}

	return &out, nil
}

func (s *Store) FetchPrices(_ context.Context, oracleKeys []solana.PublicKey) (map[solana.PublicKey]core.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices++
	if s.err != nil {
		return nil, s.err
	}

	prices := make(map[solana.PublicKey]core.PriceRecord, len(oracleKeys))
	for _, k := range oracleKeys {
		if p, ok := s.batch.Prices[k]; ok {
			prices[k] = p
		}
	}

	return prices, nil
}

func (s *Store) FetchPrice(ctx context.Context, oracleKey solana.PublicKey) (*core.PriceRecord, error) {
	prices, err := s.FetchPrices(ctx, []solana.PublicKey{oracleKey})
	if err != nil {
		return nil, err
	}

	p, ok := prices[oracleKey]
	if !ok {
		return nil, errors.Wrapf(core.ErrPriceNotFound, "oracle %s", oracleKey)
	}

	return &p, nil
}

func contains(keys []solana.PublicKey, k solana.PublicKey) bool {
	for _, key := range keys {
		if key.Equals(k) {
			return true
		}
	}
	return false
}
