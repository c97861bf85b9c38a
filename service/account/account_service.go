package account

import (
	"context"
	"sharelend/core"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// New new account service
func New(snapshots core.ISnapshotService) core.IAccountService {
	return &accountService{snapshots: snapshots}
}

type accountService struct {
	snapshots core.ISnapshotService
}

func (s *accountService) find(ctx context.Context, address solana.PublicKey) (*core.Account, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	if a, err := snap.Account(address); err == nil {
		return a, nil
	}

	return s.snapshots.Track(ctx, address)
}

// Health risk summary of an account
func (s *accountService) Health(ctx context.Context, address solana.PublicKey) (*core.AccountHealth, error) {
	account, err := s.find(ctx, address)
	if err != nil {
		return nil, err
	}

	health := core.AccountHealth{
		Address:     account.Address,
		Authority:   account.Authority,
		MaxWithdraw: make(map[string]decimal.Decimal),
	}

	if health.Init, err = account.HealthComponents(core.MarginRequirementInit); err != nil {
		return nil, err
	}

	if health.Maint, err = account.HealthComponents(core.MarginRequirementMaint); err != nil {
		return nil, err
	}

	if health.Equity, err = account.HealthComponentsWithoutBias(core.MarginRequirementEquity); err != nil {
		return nil, err
	}

	if health.FreeCollateral, err = account.FreeCollateral(); err != nil {
		return nil, err
	}

	health.CanBeLiquidated = health.Maint.Assets.LessThan(health.Maint.Liabilities)

	if health.NetApr, err = account.NetApr(); err != nil {
		return nil, err
	}

	if health.Apy, err = account.ComputeApy(); err != nil {
		return nil, err
	}

	for _, b := range account.ActiveBalances() {
		bank := account.Group().GetBankByPk(b.BankPk)
		if bank == nil {
			return nil, errors.Wrapf(core.ErrBankNotFound, "bank %s", b.BankPk)
		}

		amount, err := account.MaxWithdrawForBank(bank)
		if err != nil {
			return nil, err
		}

		value, err := b.UsdValue(bank, core.MarginRequirementEquity)
		if err != nil {
			return nil, err
		}

		liquidationPrice, err := account.LiquidationPriceForBank(bank)
		if err != nil {
			return nil, err
		}

		deposit, borrow := b.QuantityUi(bank)
		health.MaxWithdraw[bank.Address.String()] = amount
		health.Balances = append(health.Balances, core.BalanceHealth{
			Bank:             bank.Address,
			Label:            bank.Label,
			Deposit:          deposit,
			Borrow:           borrow,
			DepositValue:     value.Assets,
			BorrowValue:      value.Liabilities,
			MaxWithdraw:      amount,
			LiquidationPrice: liquidationPrice,
		})
	}

	return &health, nil
}

// MaxWithdraw ui amount of the bank's token the account can take out
func (s *accountService) MaxWithdraw(ctx context.Context, address solana.PublicKey, bankKey string) (decimal.Decimal, error) {
	account, err := s.find(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}

	bank := account.Group().Lookup(bankKey)
	if bank == nil {
		return decimal.Zero, errors.Wrapf(core.ErrBankNotFound, "bank %s", bankKey)
	}

	return account.MaxWithdrawForBank(bank)
}

// Liquidation inputs for liquidating req.Amount of the liquidatee's asset.
// Both accounts are read from the same snapshot.
func (s *accountService) Liquidation(ctx context.Context, req core.LiquidationRequest) (*core.LiquidateParams, error) {
	for _, address := range []solana.PublicKey{req.Liquidatee, req.Liquidator} {
		if _, err := s.find(ctx, address); err != nil {
			return nil, err
		}
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return nil, err
	}

	liquidatee, err := snap.Account(req.Liquidatee)
	if err != nil {
		return nil, err
	}

	liquidator, err := snap.Account(req.Liquidator)
	if err != nil {
		return nil, err
	}

	assetBank := snap.Group.Lookup(req.AssetBank)
	if assetBank == nil {
		return nil, errors.Wrapf(core.ErrBankNotFound, "asset bank %s", req.AssetBank)
	}

	liabBank := snap.Group.Lookup(req.LiabilityBank)
	if liabBank == nil {
		return nil, errors.Wrapf(core.ErrBankNotFound, "liability bank %s", req.LiabilityBank)
	}

	return core.NewLiquidateParams(liquidator, liquidatee, assetBank, liabBank, req.Amount)
}
