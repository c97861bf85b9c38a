// Package refresher keeps the published snapshot current: a full reload on
// one ticker and a cheaper price refresh on another
package refresher

import (
	"context"
	"sharelend/core"
	"sharelend/worker"
	"time"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Config tick intervals, a zero PriceInterval disables price refreshes
type Config struct {
	RefreshInterval time.Duration
	PriceInterval   time.Duration
}

// Refresher snapshot worker
type Refresher struct {
	reload  worker.TickWorker
	prices  worker.TickWorker
	service core.ISnapshotService
	metrics *metrics
}

// New new snapshot refresher
func New(snapshots core.ISnapshotService, cfg Config) *Refresher {
	return &Refresher{
		reload:  worker.TickWorker{Delay: cfg.RefreshInterval, ErrDelay: time.Second},
		prices:  worker.TickWorker{Delay: cfg.PriceInterval, ErrDelay: time.Second},
		service: snapshots,
		metrics: defaultMetrics(),
	}
}

// Run run worker
func (w *Refresher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.reload.StartTick(ctx, w.onReload)
	})

	if w.prices.Delay > 0 {
		g.Go(func() error {
			return w.prices.StartTick(ctx, w.onRefreshPrices)
		})
	}

	return g.Wait()
}

func (w *Refresher) onReload(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "refresher")

	snap, err := w.service.Reload(ctx)
	w.metrics.reloads.WithLabelValues(result(err)).Inc()
	if err != nil {
		log.WithError(err).Errorln("reload snapshot")
		return err
	}

	w.observe(ctx, snap)
	return nil
}

func (w *Refresher) onRefreshPrices(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "refresher")

	snap, err := w.service.RefreshPrices(ctx)
	w.metrics.refreshes.WithLabelValues(result(err)).Inc()
	if err != nil {
		log.WithError(err).Errorln("refresh prices")
		return err
	}

	w.observe(ctx, snap)
	return nil
}

func (w *Refresher) observe(ctx context.Context, snap *core.Snapshot) {
	log := logger.FromContext(ctx).WithField("worker", "refresher")

	accounts := snap.Accounts()
	w.metrics.slot.Set(float64(snap.Slot))
	w.metrics.accounts.Set(float64(len(accounts)))

	var liquidatable int
	for _, a := range accounts {
		ok, err := a.CanBeLiquidated()
		if err != nil {
			log.WithError(err).Warnf("health of account %s", a.Address)
			continue
		}

		if ok {
			liquidatable++
			log.WithField("account", a.Address).Warnln("account below maintenance requirement")
		}
	}

	w.metrics.liquidatable.Set(float64(liquidatable))
}
