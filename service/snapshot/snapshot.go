package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"sharelend/core"
	"sharelend/pkg/concurrency"
	"sharelend/pkg/id"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fox-one/pkg/logger"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	priceChunkSize   = 16
	priceConcurrency = 4
)

// Config snapshot service config
type Config struct {
	Group        solana.PublicKey
	Accounts     []solana.PublicKey
	PriceOptions []core.PriceOption
}

// New new snapshot service
func New(store core.IRecordStore, cfg Config) core.ISnapshotService {
	s := &service{
		store:    store,
		group:    cfg.Group,
		opts:     cfg.PriceOptions,
		accounts: make(map[solana.PublicKey]bool, len(cfg.Accounts)),
		limit:    concurrency.NewGoLimit(priceConcurrency),
	}

	for _, pk := range cfg.Accounts {
		s.accounts[pk] = true
	}

	return s
}

type service struct {
	store core.IRecordStore
	group solana.PublicKey
	opts  []core.PriceOption

	current atomic.Pointer[core.Snapshot]
	sf      singleflight.Group
	limit   *concurrency.GoLimit

	mu       sync.Mutex
	accounts map[solana.PublicKey]bool
}

func (s *service) tracked() []solana.PublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]solana.PublicKey, 0, len(s.accounts))
	for pk := range s.accounts {
		keys = append(keys, pk)
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

// Current latest published snapshot, loading the first one on demand
func (s *service) Current(ctx context.Context) (*core.Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}

	return s.Reload(ctx)
}

// Reload fetch group, banks, prices and tracked accounts in one batch and
// publish the result. Concurrent callers share one reload.
func (s *service) Reload(ctx context.Context) (*core.Snapshot, error) {
	v, err, _ := s.sf.Do("reload", func() (interface{}, error) {
		return s.reload(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Snapshot), nil
}

func (s *service) reload(ctx context.Context) (*core.Snapshot, error) {
	log := logger.FromContext(ctx).WithField("service", "snapshot")

	batch, err := s.store.FetchBatch(ctx, s.group, s.tracked())
	if err != nil {
		log.WithError(err).Errorln("fetch batch")
		return nil, err
	}

	snap, err := core.BuildSnapshot(batch, s.opts...)
	if err != nil {
		log.WithError(err).Errorln("build snapshot")
		return nil, err
	}

	snap.ID = id.UUIDFromString(fmt.Sprintf("%s:%d", s.group, batch.Slot))
	s.current.Store(snap)

	log.WithField("slot", snap.Slot).Debugf("snapshot %s loaded, %d banks, %d accounts", snap.ID, snap.Group.Len(), len(batch.Accounts))
	return snap, nil
}

// RefreshPrices publish a copy of the current snapshot with fresh prices.
// A full reload that lands first wins and the refresh is dropped.
func (s *service) RefreshPrices(ctx context.Context) (*core.Snapshot, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	prices, err := s.fetchPrices(ctx, cur.OracleKeys())
	if err != nil {
		return nil, err
	}

	next := cur.WithPrices(prices)
	if !s.current.CompareAndSwap(cur, next) {
		return s.current.Load(), nil
	}

	return next, nil
}

func (s *service) fetchPrices(ctx context.Context, keys []solana.PublicKey) (map[solana.PublicKey]core.PriceRecord, error) {
	var mu sync.Mutex
	prices := make(map[solana.PublicKey]core.PriceRecord, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(keys); start += priceChunkSize {
		end := start + priceChunkSize
		if end > len(keys) {
			end = len(keys)
		}

		chunk := keys[start:end]
		g.Go(func() error {
			s.limit.Add()
			defer s.limit.Done()

			got, err := s.store.FetchPrices(ctx, chunk)
			if err != nil {
				return errors.Wrap(err, "fetch prices")
			}

			mu.Lock()
			for k, p := range got {
				prices[k] = p
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prices, nil
}

// Track add an account to every future snapshot, reloading when the
// current one does not have it yet
func (s *service) Track(ctx context.Context, pk solana.PublicKey) (*core.Account, error) {
	if snap := s.current.Load(); snap != nil {
		if a, err := snap.Account(pk); err == nil {
			return a, nil
		}
	}

	s.mu.Lock()
	s.accounts[pk] = true
	s.mu.Unlock()

	// a reload already in flight may have started before pk was tracked
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		snap, rerr := s.Reload(ctx)
		if rerr != nil {
			return nil, rerr
		}

		var a *core.Account
		if a, err = snap.Account(pk); err == nil {
			return a, nil
		}
	}

	s.mu.Lock()
	delete(s.accounts, pk)
	s.mu.Unlock()
	return nil, err
}
