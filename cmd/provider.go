package cmd

import (
	"sharelend/core"
	accountservice "sharelend/service/account"
	bankservice "sharelend/service/bank"
	snapshotservice "sharelend/service/snapshot"
	"sharelend/store/record"
	"sharelend/worker/refresher"

	"github.com/sirupsen/logrus"
)

func provideConfig() *core.Config {
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatalln("invalid config")
	}

	return &cfg
}

// ---------------store-----------------------------------------

func provideRecordStore(cfg *core.Config) record.Store {
	var store record.Store
	if cfg.Source.File != "" {
		store = record.NewFileStore(cfg.Source.File)
	} else {
		store = record.NewRemoteStore(cfg.Source.Endpoint, cfg.SourceTimeout())
	}

	if ttl := cfg.CacheTTL(); ttl > 0 {
		store = record.Cache(store, ttl)
	}

	return store
}

// ---------------service-----------------------------------------

func provideSnapshotService(cfg *core.Config, store core.IRecordStore) core.ISnapshotService {
	group, _ := cfg.GroupAddress()
	accounts, _ := cfg.AccountAddresses()

	return snapshotservice.New(store, snapshotservice.Config{
		Group:        group,
		Accounts:     accounts,
		PriceOptions: cfg.PriceOptions(),
	})
}

func provideBankService(snapshots core.ISnapshotService, oracle core.IPriceOracle) core.IBankService {
	return bankservice.New(snapshots, oracle)
}

func provideAccountService(snapshots core.ISnapshotService) core.IAccountService {
	return accountservice.New(snapshots)
}

// ---------------worker-----------------------------------------

func provideRefresher(cfg *core.Config, snapshots core.ISnapshotService) *refresher.Refresher {
	return refresher.New(snapshots, refresher.Config{
		RefreshInterval: cfg.RefreshEvery(),
		PriceInterval:   cfg.PriceEvery(),
	})
}
