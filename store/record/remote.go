package record

import (
	"context"
	"sharelend/core"
	"sharelend/pkg/id"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const headerKeyRequestID = "X-Request-Id"

// RemoteStore fetches batches from an indexer speaking the Batch json format
//
//	GET /groups/{group}/batch?accounts=a,b
//	GET /prices?oracles=a,b
type RemoteStore struct {
	client *resty.Client
}

// NewRemoteStore new remote store
func NewRemoteStore(endpoint string, timeout time.Duration) *RemoteStore {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(timeout)

	return &RemoteStore{client: client}
}

func (s *RemoteStore) request(ctx context.Context) *resty.Request {
	return s.client.R().SetContext(ctx).SetHeader(headerKeyRequestID, id.GenTraceID())
}

func (s *RemoteStore) FetchBatch(ctx context.Context, group solana.PublicKey, accounts []solana.PublicKey) (*core.RecordBatch, error) {
	var b Batch
	req := s.request(ctx).SetPathParam("group", group.String()).SetResult(&b)
	if len(accounts) > 0 {
		req = req.SetQueryParam("accounts", joinKeys(accounts))
	}

	r, err := req.Get("/groups/{group}/batch")
	if err := parseResponse(r, err); err != nil {
		return nil, errors.Wrap(err, "fetch batch")
	}

	return decodeBatch(&b, group, accounts)
}

func (s *RemoteStore) FetchPrices(ctx context.Context, oracleKeys []solana.PublicKey) (map[solana.PublicKey]core.PriceRecord, error) {
	var prices []Price
	r, err := s.request(ctx).
		SetQueryParam("oracles", joinKeys(oracleKeys)).
		SetResult(&prices).
		Get("/prices")
	if err := parseResponse(r, err); err != nil {
		return nil, errors.Wrap(err, "fetch prices")
	}

	b := Batch{Prices: prices}
	return b.PriceMap(oracleKeys)
}

func (s *RemoteStore) FetchPrice(ctx context.Context, oracleKey solana.PublicKey) (*core.PriceRecord, error) {
	return fetchPrice(ctx, s, oracleKey)
}

func parseResponse(r *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !r.IsSuccess() {
		return errors.Errorf("%s: %s", r.Status(), r.String())
	}

	return nil
}
