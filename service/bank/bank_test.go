package bank

import (
	"context"
	"sharelend/core"
	"sharelend/internal/fixture"
	"sharelend/service/snapshot"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(store *fixture.Store) *bankService {
	snapshots := snapshot.New(store, snapshot.Config{Group: fixture.Group})
	s := New(snapshots, store).(*bankService)
	s.now = func() time.Time { return time.Unix(0, 0) }
	return s
}

func TestAll(t *testing.T) {
	banks, err := newService(fixture.NewStore()).All(context.Background())
	require.Nil(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, "SOL", banks[0].Label)
	assert.Equal(t, "USDC", banks[1].Label)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := newService(fixture.NewStore())

	b, err := s.Find(ctx, "SOL")
	require.Nil(t, err)
	assert.Equal(t, fixture.SOLBank, b.Address)

	b, err = s.Find(ctx, fixture.USDCBank.String())
	require.Nil(t, err)
	assert.Equal(t, "USDC", b.Label)

	_, err = s.Find(ctx, "BTC")
	assert.Equal(t, core.ErrBankNotFound, errors.Cause(err))
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	s := newService(fixture.NewStore())

	b, err := s.Find(ctx, "USDC")
	require.Nil(t, err)

	o, err := s.Overview(ctx, b)
	require.Nil(t, err)

	assert.True(t, o.Price.Equal(decimal.NewFromInt(1)))
	assert.True(t, o.TotalDeposits.Equal(decimal.NewFromInt(1000)))
	assert.True(t, o.TotalBorrows.Equal(decimal.NewFromInt(500)))
	assert.True(t, o.UtilizationRate.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, o.LendingRate.Equal(decimal.RequireFromString("0.5")), o.LendingRate.String())
	assert.True(t, o.BorrowingRate.Equal(decimal.NewFromInt(1)), o.BorrowingRate.String())
	assert.True(t, o.LendingApy.GreaterThan(o.LendingRate))
	assert.True(t, o.Tvl.Equal(decimal.NewFromInt(500)))
	assert.True(t, o.RemainingDepositCapacity.Equal(decimal.NewFromInt(9000)), o.RemainingDepositCapacity.String())
	assert.True(t, o.RemainingBorrowCapacity.Equal(decimal.NewFromInt(500)), o.RemainingBorrowCapacity.String())
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	store := fixture.NewStore()
	s := newService(store)

	b, err := s.Find(ctx, "SOL")
	require.Nil(t, err)

	store.SetPrice(fixture.SOLOracle, decimal.NewFromInt(25))

	fresh, err := s.Refresh(ctx, b)
	require.Nil(t, err)

	price, _ := fresh.Price(core.PriceBiasNone)
	assert.True(t, price.Equal(decimal.NewFromInt(25)))

	price, _ = b.Price(core.PriceBiasNone)
	assert.True(t, price.Equal(decimal.NewFromInt(20)))

	store.SetError(errors.New("rpc down"))
	_, err = s.Refresh(ctx, b)
	assert.NotNil(t, err)
}
