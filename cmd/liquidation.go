package cmd

import (
	"encoding/json"
	"sharelend/core"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var liquidationCmd = &cobra.Command{
	Use:   "liquidation <liquidatee> <liquidator> <asset bank> <liability bank> <amount>",
	Short: "print the inputs of a liquidation, amount in ui units of the asset",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		liquidatee, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}

		liquidator, err := solana.PublicKeyFromBase58(args[1])
		if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(args[4])
		if err != nil {
			return err
		}

		config := provideConfig()
		store := provideRecordStore(config)
		snapshots := provideSnapshotService(config, store)

		params, err := provideAccountService(snapshots).Liquidation(ctx, core.LiquidationRequest{
			Liquidator:    liquidator,
			Liquidatee:    liquidatee,
			AssetBank:     args[2],
			LiabilityBank: args[3],
			Amount:        amount,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(params)
	},
}

func init() {
	rootCmd.AddCommand(liquidationCmd)
}
