package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "apevault",
	Short: "ApeVault students backend",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
