package snapshot

import (
	"context"
	"errors"
	"sharelend/core"
	"sharelend/internal/fixture"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReload(t *testing.T) {
	ctx := context.Background()
	store := fixture.NewStore()
	svc := New(store, Config{Group: fixture.Group})

	snap, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), snap.Slot)
	assert.NotEmpty(t, snap.ID)

	again, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, again)

	store.SetSlot(101)
	next, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(101), next.Slot)
	assert.NotEqual(t, snap.ID, next.ID)
	assert.Equal(t, uint64(100), snap.Slot, "published snapshot is untouched")
}

func TestReloadFailureKeepsCurrent(t *testing.T) {
	ctx := context.Background()
	store := fixture.NewStore()
	svc := New(store, Config{Group: fixture.Group})

	snap, err := svc.Reload(ctx)
	require.NoError(t, err)

	store.SetError(errors.New("rpc down"))
	_, err = svc.Reload(ctx)
	assert.Error(t, err)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, cur)
}

func TestRefreshPrices(t *testing.T) {
	ctx := context.Background()
	store := fixture.NewStore()
	svc := New(store, Config{Group: fixture.Group})

	snap, err := svc.Reload(ctx)
	require.NoError(t, err)

	store.SetPrice(fixture.SOLOracle, decimal.NewFromInt(25))
	next, err := svc.RefreshPrices(ctx)
	require.NoError(t, err)

	price, _ := next.Group.GetBankByPk(fixture.SOLBank).Price(core.PriceBiasNone)
	assert.True(t, price.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, snap.ID, next.ID)

	old, _ := snap.Group.GetBankByPk(fixture.SOLBank).Price(core.PriceBiasNone)
	assert.True(t, old.Equal(decimal.NewFromInt(20)))

	cur, _ := svc.Current(ctx)
	assert.Same(t, next, cur)

	account, err := cur.Account(fixture.Account)
	require.NoError(t, err)
	h, err := account.HealthComponentsWithoutBias(core.MarginRequirementEquity)
	require.NoError(t, err)
	assert.True(t, h.Liabilities.Equal(decimal.NewFromInt(25)), h.Liabilities.String())
}

func TestTrack(t *testing.T) {
	ctx := context.Background()
	store := fixture.NewStore()
	svc := New(store, Config{Group: fixture.Group, Accounts: []solana.PublicKey{fixture.Key(99)}})

	snap, err := svc.Reload(ctx)
	require.NoError(t, err)
	_, err = snap.Account(fixture.Account)
	assert.ErrorIs(t, err, core.ErrAccountNotFound)

	account, err := svc.Track(ctx, fixture.Account)
	require.NoError(t, err)
	assert.Equal(t, fixture.Authority, account.Authority)

	batches, _ := store.Calls()
	_, err = svc.Track(ctx, fixture.Account)
	require.NoError(t, err)
	again, _ := store.Calls()
	assert.Equal(t, batches, again, "tracked account is served from the current snapshot")

	_, err = svc.Track(ctx, fixture.Key(98))
	assert.ErrorIs(t, err, core.ErrAccountNotFound)
}

func TestTrackedOrder(t *testing.T) {
	keys := []solana.PublicKey{fixture.Key(93), fixture.Key(91), fixture.Key(92), fixture.Key(90)}
	svc := New(fixture.NewStore(), Config{Group: fixture.Group, Accounts: keys}).(*service)

	want := []solana.PublicKey{fixture.Key(90), fixture.Key(91), fixture.Key(92), fixture.Key(93)}
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, svc.tracked())
	}
}

func TestConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	store := fixture.NewStore()
	svc := New(store, Config{Group: fixture.Group})
	_, err := svc.Reload(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.SetPrice(fixture.SOLOracle, decimal.NewFromInt(int64(20+i)))
			_, err := svc.RefreshPrices(ctx)
			assert.NoError(t, err)
		}(i)

		go func() {
			defer wg.Done()
			snap, err := svc.Current(ctx)
			assert.NoError(t, err)

			account, err := snap.Account(fixture.Account)
			assert.NoError(t, err)
			_, err = account.CanBeLiquidated()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
