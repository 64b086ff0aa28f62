package cmd

import (
	"github.com/ardanlabs/forkchain/foundation/blockchain/profile"
	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	var cfg profile.Config

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Measure the attempts proof of work takes at each difficulty",
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := profile.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			printer(cmd).Profile(samples)

			return nil
		},
	}

	profileCmd.Flags().UintSliceVarP(&cfg.Difficulties, "difficulties", "d", []uint{0, 1, 2, 3}, "Difficulties to sample.")
	profileCmd.Flags().IntVarP(&cfg.Runs, "runs", "r", 10, "Blocks mined at each difficulty.")
	profileCmd.Flags().Uint64Var(&cfg.MaxAttempts, "max-attempts", 0, "Bound on the nonces tried per block, zero is unbounded.")

	return profileCmd
}
