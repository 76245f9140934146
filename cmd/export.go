package cmd

import (
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <subcommand>",
	Short: "Exports data from the platform",
	Args:  cobra.MinimumNArgs(1),
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
