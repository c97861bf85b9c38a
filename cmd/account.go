package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account <address>",
	Short: "print balances and health of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		address, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}

		config := provideConfig()
		store := provideRecordStore(config)
		snapshots := provideSnapshotService(config, store)

		account, err := snapshots.Track(ctx, address)
		if err != nil {
			return err
		}

		health, err := provideAccountService(snapshots).Health(ctx, address)
		if err != nil {
			return err
		}

		equity, err := account.Equity()
		if err != nil {
			return err
		}

		cmd.Println(account.Describe())
		cmd.Printf("- equity: $%s\n", equity.StringFixed(2))
		cmd.Printf("- free collateral: $%s\n", health.FreeCollateral.StringFixed(2))
		cmd.Printf("- net apr: %s%%, apy: %s%%\n", health.NetApr.Shift(2).StringFixed(2), health.Apy.Shift(2).StringFixed(2))
		cmd.Println("- liquidatable:", health.CanBeLiquidated)

		for _, b := range health.Balances {
			cmd.Printf("- max withdraw %s: %s\n", b.Label, b.MaxWithdraw.StringFixed(6))
			if b.LiquidationPrice != nil {
				cmd.Printf("- liquidation price %s: $%s\n", b.Label, b.LiquidationPrice.StringFixed(4))
			}
		}

		if bankKey, _ := cmd.Flags().GetString("withdraw"); bankKey != "" {
			amount, err := provideAccountService(snapshots).MaxWithdraw(ctx, address, bankKey)
			if err != nil {
				return err
			}

			cmd.Printf("- max withdraw %s: %s\n", bankKey, amount)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().String("withdraw", "", "bank label or address to compute the max withdraw for")
}
