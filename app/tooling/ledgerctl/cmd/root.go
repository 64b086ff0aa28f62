// Package cmd contains the ledgerctl commands.
package cmd

import (
	"io"
	"os"

	"github.com/ardanlabs/forkchain/business/report"
	"github.com/spf13/cobra"
)

// NewRootCmd constructs the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Demonstrates a hash linked ledger with proof of work and fork resolution",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("styled", "s", false, "Decorate the output for a terminal.")

	rootCmd.AddCommand(
		newTamperCmd(),
		newMineCmd(),
		newForkCmd(),
		newSelectCmd(),
		newProfileCmd(),
		newStatusCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// printer returns the report printer selected by the styled flag.
func printer(cmd *cobra.Command) report.Printer {
	var out io.Writer = cmd.OutOrStdout()

	styled, _ := cmd.Flags().GetBool("styled")
	if styled {
		return report.NewStyled(out)
	}
	return report.NewPlain(out)
}
