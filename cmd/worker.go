package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "sharelend snapshot refresher",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		config := provideConfig()
		store := provideRecordStore(config)
		snapshots := provideSnapshotService(config, store)

		if port, _ := cmd.Flags().GetInt("metrics-port"); port > 0 {
			addr := fmt.Sprintf(":%d", port)
			go func() {
				logrus.Infoln("metrics at", addr)
				if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
					logrus.WithError(err).Errorln("metrics server aborted")
				}
			}()
		}

		if err := provideRefresher(config, snapshots).Run(ctx); err != nil && err != context.Canceled {
			logrus.WithError(err).Fatalln("refresher aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().Int("metrics-port", 9100, "prometheus metrics port, 0 disables")
}
