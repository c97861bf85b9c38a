package record

import (
	"sharelend/core"
	"sharelend/internal/interest"
	"sharelend/pkg/number"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Batch wire form of a record batch, addresses base58 and fixed point
// values as decimal strings
type Batch struct {
	Slot     uint64    `json:"slot" yaml:"slot"`
	Group    Group     `json:"group" yaml:"group"`
	Banks    []Bank    `json:"banks" yaml:"banks"`
	Prices   []Price   `json:"prices" yaml:"prices"`
	Accounts []Account `json:"accounts" yaml:"accounts"`
}

type Group struct {
	Address string `json:"address" yaml:"address"`
	Admin   string `json:"admin" yaml:"admin"`
}

type InterestRateConfig struct {
	OptimalUtilizationRate string `json:"optimal_utilization_rate" yaml:"optimal_utilization_rate"`
	PlateauInterestRate    string `json:"plateau_interest_rate" yaml:"plateau_interest_rate"`
	MaxInterestRate        string `json:"max_interest_rate" yaml:"max_interest_rate"`
	InsuranceFeeFixedApr   string `json:"insurance_fee_fixed_apr" yaml:"insurance_fee_fixed_apr"`
	InsuranceIrFee         string `json:"insurance_ir_fee" yaml:"insurance_ir_fee"`
	ProtocolFixedFeeApr    string `json:"protocol_fixed_fee_apr" yaml:"protocol_fixed_fee_apr"`
	ProtocolIrFee          string `json:"protocol_ir_fee" yaml:"protocol_ir_fee"`

	CurveType       uint8                `json:"curve_type" yaml:"curve_type"`
	ZeroUtilRate    uint32               `json:"zero_util_rate" yaml:"zero_util_rate"`
	HundredUtilRate uint32               `json:"hundred_util_rate" yaml:"hundred_util_rate"`
	Points          []interest.RatePoint `json:"points" yaml:"points"`
}

type BankConfig struct {
	AssetWeightInit      string             `json:"asset_weight_init" yaml:"asset_weight_init"`
	AssetWeightMaint     string             `json:"asset_weight_maint" yaml:"asset_weight_maint"`
	LiabilityWeightInit  string             `json:"liability_weight_init" yaml:"liability_weight_init"`
	LiabilityWeightMaint string             `json:"liability_weight_maint" yaml:"liability_weight_maint"`
	DepositLimit         uint64             `json:"deposit_limit" yaml:"deposit_limit"`
	BorrowLimit          uint64             `json:"borrow_limit" yaml:"borrow_limit"`
	OracleSetup          uint8              `json:"oracle_setup" yaml:"oracle_setup"`
	OracleKeys           []string           `json:"oracle_keys" yaml:"oracle_keys"`
	InterestRateConfig   InterestRateConfig `json:"interest_rate_config" yaml:"interest_rate_config"`
}

type Bank struct {
	Address      string `json:"address" yaml:"address"`
	Label        string `json:"label" yaml:"label"`
	Group        string `json:"group" yaml:"group"`
	Mint         string `json:"mint" yaml:"mint"`
	MintDecimals uint8  `json:"mint_decimals" yaml:"mint_decimals"`

	AssetShareValue     string `json:"asset_share_value" yaml:"asset_share_value"`
	LiabilityShareValue string `json:"liability_share_value" yaml:"liability_share_value"`

	LiquidityVault     string `json:"liquidity_vault" yaml:"liquidity_vault"`
	LiquidityVaultBump uint8  `json:"liquidity_vault_bump" yaml:"liquidity_vault_bump"`
	InsuranceVault     string `json:"insurance_vault" yaml:"insurance_vault"`
	InsuranceVaultBump uint8  `json:"insurance_vault_bump" yaml:"insurance_vault_bump"`
	FeeVault           string `json:"fee_vault" yaml:"fee_vault"`
	FeeVaultBump       uint8  `json:"fee_vault_bump" yaml:"fee_vault_bump"`

	CollectedInsuranceFeesOutstanding string `json:"collected_insurance_fees_outstanding" yaml:"collected_insurance_fees_outstanding"`
	CollectedGroupFeesOutstanding     string `json:"collected_group_fees_outstanding" yaml:"collected_group_fees_outstanding"`

	TotalAssetShares     string `json:"total_asset_shares" yaml:"total_asset_shares"`
	TotalLiabilityShares string `json:"total_liability_shares" yaml:"total_liability_shares"`

	LastUpdate int64      `json:"last_update" yaml:"last_update"`
	Config     BankConfig `json:"config" yaml:"config"`
}

type Balance struct {
	Active          bool   `json:"active" yaml:"active"`
	BankPk          string `json:"bank_pk" yaml:"bank_pk"`
	AssetShares     string `json:"asset_shares" yaml:"asset_shares"`
	LiabilityShares string `json:"liability_shares" yaml:"liability_shares"`
	LastUpdate      uint64 `json:"last_update" yaml:"last_update"`
}

type Account struct {
	Address   string    `json:"address" yaml:"address"`
	Group     string    `json:"group" yaml:"group"`
	Authority string    `json:"authority" yaml:"authority"`
	Balances  []Balance `json:"balances" yaml:"balances"`
}

type Price struct {
	Oracle     string `json:"oracle" yaml:"oracle"`
	Price      string `json:"price" yaml:"price"`
	Confidence string `json:"confidence" yaml:"confidence"`
	Timestamp  int64  `json:"timestamp" yaml:"timestamp"`
}

// decoder collects the first conversion error so the field lists stay flat
type decoder struct {
	err error
}

func (d *decoder) pk(field, v string) solana.PublicKey {
	if v == "" || d.err != nil {
		return solana.PublicKey{}
	}

	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		d.err = errors.Wrapf(err, "%s: invalid address %q", field, v)
	}
	return pk
}

func (d *decoder) pks(field string, vs []string) []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(vs))
	for _, v := range vs {
		keys = append(keys, d.pk(field, v))
	}
	return keys
}

func (d *decoder) dec(field, v string) decimal.Decimal {
	if v == "" || d.err != nil {
		return decimal.Zero
	}

	n, err := decimal.NewFromString(v)
	if err != nil {
		d.err = errors.Wrapf(err, "%s: invalid number %q", field, v)
	}
	return n
}

func (d *decoder) fixed(field, v string) number.WrappedI80F48 {
	n := d.dec(field, v)
	if d.err != nil {
		return number.WrappedI80F48{}
	}

	w, err := number.DecimalToI80F48(n)
	if err != nil {
		d.err = errors.Wrapf(err, "%s: %s", field, v)
	}
	return w
}

// Decode convert the wire batch into ledger records
func (b *Batch) Decode() (*core.RecordBatch, error) {
	d := &decoder{}

	batch := &core.RecordBatch{
		Slot:         b.Slot,
		GroupAddress: d.pk("group.address", b.Group.Address),
		Group:        core.GroupRecord{Admin: d.pk("group.admin", b.Group.Admin)},
		Banks:        make([]core.BankEntry, 0, len(b.Banks)),
		Prices:       make(map[solana.PublicKey]core.PriceRecord, len(b.Prices)),
		Accounts:     make(map[solana.PublicKey]core.AccountRecord, len(b.Accounts)),
	}

	for _, bank := range b.Banks {
		batch.Banks = append(batch.Banks, core.BankEntry{
			Address: d.pk("bank.address", bank.Address),
			Label:   bank.Label,
			Record:  d.bank(bank),
		})
	}

	for _, p := range b.Prices {
		record := d.price(p)
		batch.Prices[record.OracleKey] = record
	}

	for _, a := range b.Accounts {
		batch.Accounts[d.pk("account.address", a.Address)] = d.account(a)
	}

	if d.err != nil {
		return nil, d.err
	}

	return batch, nil
}

func (d *decoder) bank(b Bank) core.BankRecord {
	c, ir := b.Config, b.Config.InterestRateConfig
	return core.BankRecord{
		Group:        d.pk("bank.group", b.Group),
		Mint:         d.pk("bank.mint", b.Mint),
		MintDecimals: b.MintDecimals,

		AssetShareValue:     d.fixed("bank.asset_share_value", b.AssetShareValue),
		LiabilityShareValue: d.fixed("bank.liability_share_value", b.LiabilityShareValue),

		LiquidityVault:     d.pk("bank.liquidity_vault", b.LiquidityVault),
		LiquidityVaultBump: b.LiquidityVaultBump,
		InsuranceVault:     d.pk("bank.insurance_vault", b.InsuranceVault),
		InsuranceVaultBump: b.InsuranceVaultBump,
		FeeVault:           d.pk("bank.fee_vault", b.FeeVault),
		FeeVaultBump:       b.FeeVaultBump,

		CollectedInsuranceFeesOutstanding: d.fixed("bank.collected_insurance_fees_outstanding", b.CollectedInsuranceFeesOutstanding),
		CollectedGroupFeesOutstanding:     d.fixed("bank.collected_group_fees_outstanding", b.CollectedGroupFeesOutstanding),

		TotalAssetShares:     d.fixed("bank.total_asset_shares", b.TotalAssetShares),
		TotalLiabilityShares: d.fixed("bank.total_liability_shares", b.TotalLiabilityShares),

		LastUpdate: b.LastUpdate,
		Config: core.BankConfigRecord{
			AssetWeightInit:      d.fixed("config.asset_weight_init", c.AssetWeightInit),
			AssetWeightMaint:     d.fixed("config.asset_weight_maint", c.AssetWeightMaint),
			LiabilityWeightInit:  d.fixed("config.liability_weight_init", c.LiabilityWeightInit),
			LiabilityWeightMaint: d.fixed("config.liability_weight_maint", c.LiabilityWeightMaint),
			DepositLimit:         c.DepositLimit,
			BorrowLimit:          c.BorrowLimit,
			OracleSetup:          core.OracleSetup(c.OracleSetup),
			OracleKeys:           d.pks("config.oracle_keys", c.OracleKeys),
			InterestRateConfig: core.InterestRateConfigRecord{
				OptimalUtilizationRate: d.fixed("ir.optimal_utilization_rate", ir.OptimalUtilizationRate),
				PlateauInterestRate:    d.fixed("ir.plateau_interest_rate", ir.PlateauInterestRate),
				MaxInterestRate:        d.fixed("ir.max_interest_rate", ir.MaxInterestRate),
				InsuranceFeeFixedApr:   d.fixed("ir.insurance_fee_fixed_apr", ir.InsuranceFeeFixedApr),
				InsuranceIrFee:         d.fixed("ir.insurance_ir_fee", ir.InsuranceIrFee),
				ProtocolFixedFeeApr:    d.fixed("ir.protocol_fixed_fee_apr", ir.ProtocolFixedFeeApr),
				ProtocolIrFee:          d.fixed("ir.protocol_ir_fee", ir.ProtocolIrFee),
				CurveType:              interest.CurveType(ir.CurveType),
				ZeroUtilRate:           ir.ZeroUtilRate,
				HundredUtilRate:        ir.HundredUtilRate,
				Points:                 ir.Points,
			},
		},
	}
}

func (d *decoder) account(a Account) core.AccountRecord {
	r := core.AccountRecord{
		Group:     d.pk("account.group", a.Group),
		Authority: d.pk("account.authority", a.Authority),
		Balances:  make([]core.BalanceRecord, 0, len(a.Balances)),
	}

	for _, b := range a.Balances {
		r.Balances = append(r.Balances, core.BalanceRecord{
			Active:          b.Active,
			BankPk:          d.pk("balance.bank_pk", b.BankPk),
			AssetShares:     d.fixed("balance.asset_shares", b.AssetShares),
			LiabilityShares: d.fixed("balance.liability_shares", b.LiabilityShares),
			LastUpdate:      b.LastUpdate,
		})
	}

	return r
}

func (d *decoder) price(p Price) core.PriceRecord {
	return core.PriceRecord{
		OracleKey:  d.pk("price.oracle", p.Oracle),
		Price:      d.dec("price.price", p.Price),
		Confidence: d.dec("price.confidence", p.Confidence),
		Timestamp:  p.Timestamp,
	}
}

// Select the part of a batch covering accounts, all accounts when none are given
func (b *Batch) Select(accounts []solana.PublicKey) *Batch {
	if len(accounts) == 0 {
		return b
	}

	want := make(map[string]bool, len(accounts))
	for _, pk := range accounts {
		want[pk.String()] = true
	}

	out := *b
	out.Accounts = make([]Account, 0, len(accounts))
	for _, a := range b.Accounts {
		if want[a.Address] {
			out.Accounts = append(out.Accounts, a)
		}
	}

	return &out
}

// PriceMap decoded prices for oracleKeys, all prices when none are given
func (b *Batch) PriceMap(oracleKeys []solana.PublicKey) (map[solana.PublicKey]core.PriceRecord, error) {
	want := make(map[solana.PublicKey]bool, len(oracleKeys))
	for _, k := range oracleKeys {
		want[k] = true
	}

	d := &decoder{}
	prices := make(map[solana.PublicKey]core.PriceRecord, len(b.Prices))
	for _, p := range b.Prices {
		record := d.price(p)
		if len(want) == 0 || want[record.OracleKey] {
			prices[record.OracleKey] = record
		}
	}

	if d.err != nil {
		return nil, d.err
	}

	return prices, nil
}
