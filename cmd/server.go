package cmd

import (
	"context"
	"fmt"
	"net/http"
	"sharelend/handler"
	"time"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run sharelend api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		config := provideConfig()
		store := provideRecordStore(config)
		snapshots := provideSnapshotService(config, store)
		banks := provideBankService(snapshots, store)
		accounts := provideAccountService(snapshots)

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: handler.New(rootCmd.Version, snapshots, banks, accounts).Handler(),
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		if withWorker, _ := cmd.Flags().GetBool("worker"); withWorker {
			go func() {
				if err := provideRefresher(config, snapshots).Run(ctx); err != nil && err != context.Canceled {
					logrus.WithError(err).Errorln("refresher stopped")
				}
			}()
		}

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("worker", true, "keep the snapshot fresh in the background")
}
