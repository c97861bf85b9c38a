package core

import (
	"context"
	"fmt"
	"sharelend/internal/interest"
	"sharelend/pkg/number"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxBalances balance slots of an account
const MaxBalances = 16

// Account margin account bound to a group
type Account struct {
	Address   solana.PublicKey
	Authority solana.PublicKey

	group    *Group
	balances [MaxBalances]Balance
}

// NewAccount decode an account record against its group
func NewAccount(address solana.PublicKey, r AccountRecord, group *Group) (*Account, error) {
	if !r.Group.Equals(group.Address) {
		return nil, errors.Wrapf(ErrGroupMismatch, "account %s belongs to %s", address, r.Group)
	}

	if len(r.Balances) > MaxBalances {
		return nil, errors.Wrapf(ErrTooManyBalances, "account %s has %d balances", address, len(r.Balances))
	}

	a := &Account{
		Address:   address,
		Authority: r.Authority,
		group:     group,
	}

	for i, b := range r.Balances {
		a.balances[i] = NewBalance(b)
	}

	return a, nil
}

// Group group the account is valued against
func (a *Account) Group() *Group {
	return a.group
}

func (a *Account) withGroup(g *Group) *Account {
	na := *a
	na.group = g
	return &na
}

// Balances all slots, active or not
func (a *Account) Balances() [MaxBalances]Balance {
	return a.balances
}

// ActiveBalances active slots in slot order
func (a *Account) ActiveBalances() []Balance {
	balances := make([]Balance, 0, MaxBalances)
	for _, b := range a.balances {
		if b.Active {
			balances = append(balances, b)
		}
	}

	return balances
}

// FreeSlots number of inactive slots
func (a *Account) FreeSlots() int {
	return MaxBalances - len(a.ActiveBalances())
}

// IsFull no slot left for a new bank
func (a *Account) IsFull() bool {
	return a.FreeSlots() == 0
}

// GetBalance active balance in bankPk, an empty balance otherwise
func (a *Account) GetBalance(bankPk solana.PublicKey) Balance {
	for _, b := range a.balances {
		if b.Active && b.BankPk.Equals(bankPk) {
			return b
		}
	}

	return NewEmptyBalance(bankPk)
}

func (a *Account) bankOf(b Balance) (*Bank, error) {
	bank := a.group.GetBankByPk(b.BankPk)
	if bank == nil {
		return nil, errors.Wrapf(ErrBankNotFound, "bank %s of account %s", b.BankPk, a.Address)
	}

	return bank, nil
}

// HealthComponents weighted totals with assets at the lowest and
// liabilities at the highest price
func (a *Account) HealthComponents(mrt MarginRequirementType) (HealthComponents, error) {
	return a.healthComponents(mrt, true)
}

// HealthComponentsWithoutBias weighted totals at the unbiased price
func (a *Account) HealthComponentsWithoutBias(mrt MarginRequirementType) (HealthComponents, error) {
	return a.healthComponents(mrt, false)
}

func (a *Account) healthComponents(mrt MarginRequirementType, biased bool, excluded ...solana.PublicKey) (HealthComponents, error) {
	var total HealthComponents
	for _, b := range a.ActiveBalances() {
		if containsKey(excluded, b.BankPk) {
			continue
		}

		bank, err := a.bankOf(b)
		if err != nil {
			return HealthComponents{}, err
		}

		var v HealthComponents
		if biased {
			v, err = b.UsdValueWithPriceBias(bank, mrt)
		} else {
			v, err = b.UsdValue(bank, mrt)
		}
		if err != nil {
			return HealthComponents{}, err
		}

		total = total.Add(v)
	}

	return total, nil
}

// CanBeLiquidated maintenance assets below maintenance liabilities
func (a *Account) CanBeLiquidated() (bool, error) {
	h, err := a.HealthComponents(MarginRequirementMaint)
	if err != nil {
		return false, err
	}

	return h.Assets.LessThan(h.Liabilities), nil
}

// SignedFreeCollateral initial assets minus initial liabilities
func (a *Account) SignedFreeCollateral() (decimal.Decimal, error) {
	h, err := a.HealthComponents(MarginRequirementInit)
	if err != nil {
		return decimal.Zero, err
	}

	return h.Assets.Sub(h.Liabilities), nil
}

// FreeCollateral usd headroom for new positions, never negative
func (a *Account) FreeCollateral() (decimal.Decimal, error) {
	fc, err := a.SignedFreeCollateral()
	if err != nil {
		return decimal.Zero, err
	}

	return number.Max(decimal.Zero, fc), nil
}

// Equity unweighted unbiased assets minus liabilities
func (a *Account) Equity() (decimal.Decimal, error) {
	h, err := a.HealthComponentsWithoutBias(MarginRequirementEquity)
	if err != nil {
		return decimal.Zero, err
	}

	return h.Assets.Sub(h.Liabilities), nil
}

// MaxWithdrawForBank ui amount of bank's token the account can take out,
// withdrawing its deposit first and borrowing the rest against the free
// collateral left. Collateral received from liquidations is not considered.
func (a *Account) MaxWithdrawForBank(bank *Bank) (decimal.Decimal, error) {
	fc, err := a.FreeCollateral()
	if err != nil {
		return decimal.Zero, err
	}

	withdraw, untied, err := a.withdrawable(bank, fc)
	if err != nil {
		return decimal.Zero, err
	}

	liabilityWeight, _ := bank.LiabilityWeight(MarginRequirementInit)
	priceHighest, _ := bank.Price(PriceBiasHighest)
	borrow := number.SafeDiv(fc.Sub(untied), priceHighest.Mul(liabilityWeight))
	if borrow.IsNegative() {
		borrow = decimal.Zero
	}

	return withdraw.Add(borrow), nil
}

// MaxWithdrawWithoutBorrowForBank ui amount of the deposit in bank that can
// be withdrawn without opening a borrow
func (a *Account) MaxWithdrawWithoutBorrowForBank(bank *Bank) (decimal.Decimal, error) {
	fc, err := a.FreeCollateral()
	if err != nil {
		return decimal.Zero, err
	}

	withdraw, _, err := a.withdrawable(bank, fc)
	return withdraw, err
}

// withdrawable ui amount of the deposit the free collateral covers and the
// usd collateral that withdrawal releases
func (a *Account) withdrawable(bank *Bank, fc decimal.Decimal) (amount, untied decimal.Decimal, err error) {
	balance := a.GetBalance(bank.Address)
	deposit, _ := balance.QuantityUi(bank)

	assetWeight, _ := bank.AssetWeight(MarginRequirementInit)
	if assetWeight.IsZero() {
		return deposit, decimal.Zero, nil
	}

	value, err := bank.AssetUsdValue(balance.AssetShares, MarginRequirementInit, PriceBiasLowest)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	untied = number.Max(decimal.Zero, number.Min(value, fc))

	priceLowest, _ := bank.Price(PriceBiasLowest)
	if !priceLowest.IsPositive() {
		return decimal.Zero, decimal.Zero, nil
	}

	return untied.Div(priceLowest.Mul(assetWeight)), untied, nil
}

// NetApr lending apr weighted by asset value minus borrowing apr weighted
// by liability value
func (a *Account) NetApr() (decimal.Decimal, error) {
	totals, err := a.HealthComponentsWithoutBias(MarginRequirementEquity)
	if err != nil {
		return decimal.Zero, err
	}

	apr := decimal.Zero
	for _, b := range a.ActiveBalances() {
		bank, err := a.bankOf(b)
		if err != nil {
			return decimal.Zero, err
		}

		v, err := b.UsdValue(bank, MarginRequirementEquity)
		if err != nil {
			return decimal.Zero, err
		}

		lending, borrowing := bank.InterestRates()
		apr = apr.Add(number.SafeDiv(lending.Mul(v.Assets), totals.Assets))
		apr = apr.Sub(number.SafeDiv(borrowing.Mul(v.Liabilities), totals.Liabilities))
	}

	return apr, nil
}

// ComputeApy net apr compounded into an apy
func (a *Account) ComputeApy() (decimal.Decimal, error) {
	apr, err := a.NetApr()
	if err != nil {
		return decimal.Zero, err
	}

	return interest.AprToApy(apr), nil
}

// LiquidationPriceForBank price of the bank's token at which the account
// reaches maintenance health, all other prices constant. Nil for an inactive
// balance, a deposit with nothing borrowed elsewhere or a negative price.
func (a *Account) LiquidationPriceForBank(bank *Bank) (*decimal.Decimal, error) {
	balance := a.GetBalance(bank.Address)
	if !balance.Active {
		return nil, nil
	}

	deposit, borrow := balance.QuantityUi(bank)
	if balance.LiabilityShares.IsZero() {
		return a.liquidationPrice(bank, true, deposit)
	}

	return a.liquidationPrice(bank, false, borrow)
}

// LiquidationPriceForBankAmount liquidation price of a position of amount ui
// tokens in the bank, deposited when lending or borrowed otherwise
func (a *Account) LiquidationPriceForBankAmount(bank *Bank, lending bool, amount decimal.Decimal) (*decimal.Decimal, error) {
	if !a.GetBalance(bank.Address).Active {
		return nil, nil
	}

	return a.liquidationPrice(bank, lending, amount)
}

func (a *Account) liquidationPrice(bank *Bank, lending bool, amount decimal.Decimal) (*decimal.Decimal, error) {
	h, err := a.healthComponents(MarginRequirementMaint, true, bank.Address)
	if err != nil {
		return nil, err
	}

	none, _ := bank.Price(PriceBiasNone)

	var price decimal.Decimal
	if lending {
		if h.Liabilities.IsZero() {
			return nil, nil
		}

		weight, err := bank.AssetWeight(MarginRequirementMaint)
		if err != nil {
			return nil, err
		}

		denominator := amount.Mul(weight)
		if denominator.IsZero() {
			return nil, nil
		}

		lowest, _ := bank.Price(PriceBiasLowest)
		price = h.Liabilities.Sub(h.Assets).Div(denominator).Add(none.Sub(lowest))
	} else {
		weight, err := bank.LiabilityWeight(MarginRequirementMaint)
		if err != nil {
			return nil, err
		}

		denominator := amount.Mul(weight)
		if denominator.IsZero() {
			return nil, nil
		}

		highest, _ := bank.Price(PriceBiasHighest)
		price = h.Assets.Sub(h.Liabilities).Div(denominator).Sub(highest.Sub(none))
	}

	if price.IsNegative() {
		return nil, nil
	}

	return &price, nil
}

func containsKey(keys []solana.PublicKey, k solana.PublicKey) bool {
	for _, key := range keys {
		if key.Equals(k) {
			return true
		}
	}

	return false
}

// HealthCheckBanks banks a transaction touching the account must pass for
// the health check, in slot order. Mandatory banks fill inactive slots.
func (a *Account) HealthCheckBanks(mandatory, excluded []*Bank) ([]*Bank, error) {
	skip := make(map[solana.PublicKey]bool, len(excluded))
	for _, b := range excluded {
		skip[b.Address] = true
	}

	active := make(map[solana.PublicKey]bool, MaxBalances)
	for _, b := range a.ActiveBalances() {
		active[b.BankPk] = true
	}

	toAdd := make([]*Bank, 0, len(mandatory))
	for _, bank := range mandatory {
		if active[bank.Address] {
			continue
		}

		active[bank.Address] = true
		toAdd = append(toAdd, bank)
	}

	// mandatory banks take free slots in slot order, the rest are dropped
	banks := make([]*Bank, 0, MaxBalances)
	for _, b := range a.balances {
		if !b.Active {
			if len(toAdd) > 0 {
				banks = append(banks, toAdd[0])
				toAdd = toAdd[1:]
			}
			continue
		}

		if skip[b.BankPk] {
			continue
		}

		bank, err := a.bankOf(b)
		if err != nil {
			return nil, err
		}

		banks = append(banks, bank)
	}

	return banks, nil
}

// Describe human readable summary
func (a *Account) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Account %s\n", a.Address)
	fmt.Fprintf(&sb, "- authority: %s\n", a.Authority)

	if h, err := a.HealthComponents(MarginRequirementMaint); err == nil {
		fmt.Fprintf(&sb, "- maint health: $%s assets, $%s liabilities\n", h.Assets.StringFixed(2), h.Liabilities.StringFixed(2))
	}

	fmt.Fprint(&sb, "- balances:")
	for _, b := range a.ActiveBalances() {
		bank := a.group.GetBankByPk(b.BankPk)
		if bank == nil {
			fmt.Fprintf(&sb, "\n  - %s: unknown bank", b.BankPk)
			continue
		}
		fmt.Fprintf(&sb, "\n  - %s", b.Describe(bank))
	}

	return sb.String()
}

// AccountHealth risk summary of an account
type AccountHealth struct {
	Address         solana.PublicKey           `json:"address"`
	Authority       solana.PublicKey           `json:"authority"`
	Init            HealthComponents           `json:"init"`
	Maint           HealthComponents           `json:"maint"`
	Equity          HealthComponents           `json:"equity"`
	FreeCollateral  decimal.Decimal            `json:"free_collateral"`
	CanBeLiquidated bool                       `json:"can_be_liquidated"`
	NetApr          decimal.Decimal            `json:"net_apr"`
	Apy             decimal.Decimal            `json:"apy"`
	// ui max withdraw keyed by bank address
	MaxWithdraw     map[string]decimal.Decimal `json:"max_withdraw"`
	Balances        []BalanceHealth            `json:"balances"`
}

// BalanceHealth ui quantities and unweighted usd values of one balance
type BalanceHealth struct {
	Bank         solana.PublicKey `json:"bank"`
	Label        string           `json:"label"`
	Deposit      decimal.Decimal  `json:"deposit"`
	Borrow       decimal.Decimal  `json:"borrow"`
	DepositValue decimal.Decimal  `json:"deposit_value"`
	BorrowValue  decimal.Decimal  `json:"borrow_value"`
	MaxWithdraw  decimal.Decimal  `json:"max_withdraw"`

	LiquidationPrice *decimal.Decimal `json:"liquidation_price,omitempty"`
}

// IAccountService account risk views over the current snapshot
type IAccountService interface {
	Health(ctx context.Context, address solana.PublicKey) (*AccountHealth, error)
	MaxWithdraw(ctx context.Context, address solana.PublicKey, bankKey string) (decimal.Decimal, error)
	Liquidation(ctx context.Context, req LiquidationRequest) (*LiquidateParams, error)
}

// LiquidationRequest liquidation to prepare, banks by label or address
type LiquidationRequest struct {
	Liquidator    solana.PublicKey
	Liquidatee    solana.PublicKey
	AssetBank     string
	LiabilityBank string
	// ui units of the asset bank's token
	Amount decimal.Decimal
}
