package cmd

import (
	"fmt"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/selector"
	"github.com/spf13/cobra"
)

// defaultValidators names the participants of each strategy when none are
// provided.
var defaultValidators = map[string][]string{
	selector.StrategyPOW:  {"MinerA", "MinerB", "MinerC"},
	selector.StrategyPOS:  {"StakerA", "StakerB", "StakerC"},
	selector.StrategyDPOS: {"DelegateA", "DelegateB", "DelegateC"},
}

func newSelectCmd() *cobra.Command {
	var (
		seed       uint64
		validators []string
		voters     []string
	)

	selectCmd := &cobra.Command{
		Use:       "select pow|pos|dpos",
		Short:     "Select the validator for the next block",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: selector.Strategies(),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy := args[0]

			fn, err := selector.Retrieve(strategy)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			names := validators
			if len(names) == 0 {
				names = defaultValidators[strategy]
			}

			round, err := fn(selector.NewRand(seed), selector.Participants{
				Validators: names,
				Voters:     voters,
			})
			if err != nil {
				return err
			}

			printer(cmd).Round(round)
			fmt.Fprintf(cmd.OutOrStdout(), "seed: %d\n", seed)

			return nil
		},
	}

	selectCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the selection, a random seed is used when not set.")
	selectCmd.Flags().StringSliceVar(&validators, "validators", nil, "Names of the candidates.")
	selectCmd.Flags().StringSliceVar(&voters, "voters", []string{"Voter1", "Voter2", "Voter3"}, "Names of the voters for dpos.")

	return selectCmd
}
