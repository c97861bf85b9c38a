package bank

import (
	"context"
	"sharelend/core"
	"sharelend/internal/interest"
	"sharelend/pkg/number"
	"time"

	"github.com/pkg/errors"
)

// New new bank service, oracle serves fresh price reads
func New(snapshots core.ISnapshotService, oracle core.IPriceOracle) core.IBankService {
	return &bankService{
		snapshots: snapshots,
		oracle:    oracle,
		now:       time.Now,
	}
}

type bankService struct {
	snapshots core.ISnapshotService
	oracle    core.IPriceOracle
	now       func() time.Time
}

func (s *bankService) All(ctx context.Context) ([]*core.Bank, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	return snap.Group.Banks(), nil
}

// Find bank by address or label
func (s *bankService) Find(ctx context.Context, key string) (*core.Bank, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	bank := snap.Group.Lookup(key)
	if bank == nil {
		return nil, errors.Wrapf(core.ErrBankNotFound, "bank %s", key)
	}

	return bank, nil
}

// Refresh copy of bank priced by a fresh oracle read, the snapshot is not changed
func (s *bankService) Refresh(ctx context.Context, bank *core.Bank) (*core.Bank, error) {
	return bank.ReloadPriceData(ctx, s.oracle)
}

func (s *bankService) Overview(ctx context.Context, bank *core.Bank) (*core.BankOverview, error) {
	price, err := bank.Price(core.PriceBiasNone)
	if err != nil {
		return nil, err
	}

	tvl, err := bank.Tvl()
	if err != nil {
		return nil, err
	}

	lending, borrowing := bank.InterestRates()
	deposit, borrow := bank.RemainingCapacity(s.now())

	return &core.BankOverview{
		Bank:                     bank,
		Price:                    price,
		ConfidenceInterval:       bank.PriceReading().ConfidenceInterval(),
		TotalDeposits:            number.NativeToUiDecimal(bank.TotalAssets(), bank.MintDecimals),
		TotalBorrows:             number.NativeToUiDecimal(bank.TotalLiabilities(), bank.MintDecimals),
		UtilizationRate:          bank.UtilizationRate(),
		LendingRate:              lending,
		BorrowingRate:            borrowing,
		LendingApy:               interest.AprToApy(lending),
		BorrowingApy:             interest.AprToApy(borrowing),
		Tvl:                      tvl,
		RemainingDepositCapacity: number.NativeToUiDecimal(deposit, bank.MintDecimals),
		RemainingBorrowCapacity:  number.NativeToUiDecimal(borrow, bank.MintDecimals),
	}, nil
}
