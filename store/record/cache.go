package record

import (
	"context"
	"fmt"
	"sharelend/core"
	"time"

	"github.com/bluele/gcache"
	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/singleflight"
)

// Cache keep fetched batches and prices for exp, concurrent misses share one fetch
func Cache(store Store, exp time.Duration) Store {
	return &cacheStore{
		Store: store,
		cache: gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:    &singleflight.Group{},
	}
}

type cacheStore struct {
	Store
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheStore) FetchBatch(ctx context.Context, group solana.PublicKey, accounts []solana.PublicKey) (*core.RecordBatch, error) {
	key := s.batchKey(group, accounts)
	if v, err := s.cache.Get(key); err == nil {
		if batch, ok := v.(*core.RecordBatch); ok {
			return batch, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		batch, err := s.Store.FetchBatch(ctx, group, accounts)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(key, batch)
		return batch, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.RecordBatch), nil
}

func (s *cacheStore) FetchPrices(ctx context.Context, oracleKeys []solana.PublicKey) (map[solana.PublicKey]core.PriceRecord, error) {
	key := s.pricesKey(oracleKeys)
	if v, err := s.cache.Get(key); err == nil {
		if prices, ok := v.(map[solana.PublicKey]core.PriceRecord); ok {
			return prices, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		prices, err := s.Store.FetchPrices(ctx, oracleKeys)
		if err != nil {
			return nil, err
		}

		_ = s.cache.Set(key, prices)
		return prices, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(map[solana.PublicKey]core.PriceRecord), nil
}

func (s *cacheStore) FetchPrice(ctx context.Context, oracleKey solana.PublicKey) (*core.PriceRecord, error) {
	return fetchPrice(ctx, s, oracleKey)
}

func (s *cacheStore) batchKey(group solana.PublicKey, accounts []solana.PublicKey) string {
	return fmt.Sprintf("batch:%s:%s", group, joinKeys(accounts))
}

func (s *cacheStore) pricesKey(oracleKeys []solana.PublicKey) string {
	return fmt.Sprintf("prices:%s", joinKeys(oracleKeys))
}
