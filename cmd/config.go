package cmd

import (
	"github.com/fatih/structs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print the effective config, file and env merged with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()

		return enc.Encode(structs.Map(cfg))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
