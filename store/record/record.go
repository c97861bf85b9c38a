package record

import (
	"context"
	"sharelend/core"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Store record source that also serves single oracle readings
type Store interface {
	core.IRecordStore
	core.IPriceOracle
}

func decodeBatch(b *Batch, group solana.PublicKey, accounts []solana.PublicKey) (*core.RecordBatch, error) {
	batch, err := b.Select(accounts).Decode()
	if err != nil {
		return nil, err
	}

	if !batch.GroupAddress.Equals(group) {
		return nil, errors.Errorf("source serves group %s, not %s", batch.GroupAddress, group)
	}

	return batch, nil
}

func fetchPrice(ctx context.Context, s core.IRecordStore, oracleKey solana.PublicKey) (*core.PriceRecord, error) {
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

func joinKeys(keys []solana.PublicKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
