package refresher

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	reloads      *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	slot         prometheus.Gauge
	accounts     prometheus.Gauge
	liquidatable prometheus.Gauge
}

var (
	metricsOnce sync.Once
	registry    *metrics
)

func defaultMetrics() *metrics {
	metricsOnce.Do(func() {
		registry = &metrics{
			reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "sharelend_snapshot_reloads_total",
				Help: "Full snapshot reloads by result.",
			}, []string{"result"}),
			refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "sharelend_price_refreshes_total",
				Help: "Price refreshes of the current snapshot by result.",
			}, []string{"result"}),
			slot: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "sharelend_snapshot_slot",
				Help: "Ledger slot of the published snapshot.",
			}),
			accounts: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "sharelend_snapshot_accounts",
				Help: "Accounts held by the published snapshot.",
			}),
			liquidatable: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "sharelend_accounts_liquidatable",
				Help: "Tracked accounts below their maintenance requirement.",
			}),
		}
		prometheus.MustRegister(
			registry.reloads,
			registry.refreshes,
			registry.slot,
			registry.accounts,
			registry.liquidatable,
		)
	})
	return registry
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
