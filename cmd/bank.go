package cmd

import (
	"github.com/spf13/cobra"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "print the banks of the group",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config := provideConfig()
		store := provideRecordStore(config)
		snapshots := provideSnapshotService(config, store)
		banks := provideBankService(snapshots, store)

		snap, err := snapshots.Current(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("Group %s at slot %d\n", snap.Group.Address, snap.Slot)

		all, err := banks.All(ctx)
		if err != nil {
			return err
		}

		for _, b := range all {
			o, err := banks.Overview(ctx, b)
			if err != nil {
				return err
			}

			cmd.Println(b.Describe())
			cmd.Printf("- tvl: $%s\n", o.Tvl.StringFixed(2))
			cmd.Printf("- remaining capacity: %s deposits, %s borrows\n", o.RemainingDepositCapacity, o.RemainingBorrowCapacity)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(banksCmd)
}
