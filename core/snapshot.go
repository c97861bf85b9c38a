package core

import (
	"context"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Snapshot group, banks and accounts read at one ledger slot. A published
// snapshot is read only; refreshes build a new one.
type Snapshot struct {
	ID       string
	Slot     uint64
	Group    *Group
	LoadedAt time.Time

	accounts map[solana.PublicKey]*Account
	opts     []PriceOption
}

// BuildSnapshot decode a record batch. Every bank needs a price for its oracle.
func BuildSnapshot(batch *RecordBatch, opts ...PriceOption) (*Snapshot, error) {
	s := &Snapshot{
		Slot:     batch.Slot,
		LoadedAt: time.Now(),
		accounts: make(map[solana.PublicKey]*Account, len(batch.Accounts)),
		opts:     opts,
	}

	banks := make([]*Bank, 0, len(batch.Banks))
	for _, entry := range batch.Banks {
		bank, err := s.buildBank(entry, batch.Prices)
		if err != nil {
			return nil, err
		}

		banks = append(banks, bank)
	}

	s.Group = NewGroup(batch.GroupAddress, batch.Group.Admin, banks)

	for pk, r := range batch.Accounts {
		account, err := NewAccount(pk, r, s.Group)
		if err != nil {
			return nil, err
		}

		s.accounts[pk] = account
	}

	return s, nil
}

func (s *Snapshot) buildBank(entry BankEntry, prices map[solana.PublicKey]PriceRecord) (*Bank, error) {
	bank := NewBank(entry.Address, entry.Label, entry.Record, PriceReading{})

	price, ok := prices[bank.OracleKey()]
	if !ok {
		return nil, errors.Wrapf(ErrPriceNotFound, "oracle %s of bank %s", bank.OracleKey(), entry.Label)
	}

	return bank.WithPriceReading(NewPriceReading(price.Price, price.Confidence, price.Timestamp, s.opts...)), nil
}

// Account account by address
func (s *Snapshot) Account(pk solana.PublicKey) (*Account, error) {
	a, ok := s.accounts[pk]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", pk)
	}

	return a, nil
}

// Accounts all loaded accounts ordered by address
func (s *Snapshot) Accounts() []*Account {
	accounts := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Address.String() < accounts[j].Address.String()
	})

	return accounts
}

// AccountKeys addresses of the loaded accounts
func (s *Snapshot) AccountKeys() []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(s.accounts))
	for _, a := range s.Accounts() {
		keys = append(keys, a.Address)
	}

	return keys
}

// OracleKeys oracle of every bank
func (s *Snapshot) OracleKeys() []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, s.Group.Len())
	for _, b := range s.Group.Banks() {
		keys = append(keys, b.OracleKey())
	}

	return keys
}

// WithPrices new snapshot with the bank prices replaced. Banks whose oracle
// is missing from prices keep their current reading.
func (s *Snapshot) WithPrices(prices map[solana.PublicKey]PriceRecord) *Snapshot {
	banks := make([]*Bank, 0, s.Group.Len())
	for _, b := range s.Group.Banks() {
		if p, ok := prices[b.OracleKey()]; ok {
			b = b.WithPriceReading(b.PriceReading().Reload(p.Price, p.Confidence, p.Timestamp))
		}
		banks = append(banks, b)
	}

	ns := &Snapshot{
		ID:       s.ID,
		Slot:     s.Slot,
		Group:    NewGroup(s.Group.Address, s.Group.Admin, banks),
		LoadedAt: time.Now(),
		accounts: make(map[solana.PublicKey]*Account, len(s.accounts)),
		opts:     s.opts,
	}

	for pk, a := range s.accounts {
		ns.accounts[pk] = a.withGroup(ns.Group)
	}

	return ns
}

// ISnapshotService owner of the current snapshot
type ISnapshotService interface {
	Current(ctx context.Context) (*Snapshot, error)
	Reload(ctx context.Context) (*Snapshot, error)
	RefreshPrices(ctx context.Context) (*Snapshot, error)
	Track(ctx context.Context, account solana.PublicKey) (*Account, error)
}
