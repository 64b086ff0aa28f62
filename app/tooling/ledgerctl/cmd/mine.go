package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ardanlabs/forkchain/business/report"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/spf13/cobra"
)

func newMineCmd() *cobra.Command {
	var (
		miners      []string
		blocks      int
		difficulty  uint
		hard        uint
		maxAttempts uint64
	)

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine blocks with proof of work at different difficulties",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			p := printer(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Starting mining simulation...")

			for _, name := range miners {
				if err := mine(ctx, p, name, difficulty, maxAttempts, blocks); err != nil {
					return err
				}
			}

			if hard > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "\nDemonstrating difficulty adjustment...")
				if err := mine(ctx, p, "HardMiner", hard, maxAttempts, 1); err != nil {
					return err
				}
			}

			return nil
		},
	}

	mineCmd.Flags().StringSliceVarP(&miners, "miners", "m", []string{"Miner1", "Miner2"}, "Names of the miners.")
	mineCmd.Flags().IntVarP(&blocks, "blocks", "b", 2, "Blocks mined by each miner.")
	mineCmd.Flags().UintVarP(&difficulty, "difficulty", "d", 4, "Leading zero digits required in a hash.")
	mineCmd.Flags().UintVar(&hard, "hard", 5, "Difficulty of the final miner, zero skips it.")
	mineCmd.Flags().Uint64Var(&maxAttempts, "max-attempts", 0, "Bound on the nonces tried per block, zero is unbounded.")

	return mineCmd
}

// mine has a single miner build blocks on its own chain and prints them.
func mine(ctx context.Context, p report.Printer, name string, difficulty uint, maxAttempts uint64, blocks int) error {
	n, err := node.New(node.Config{
		Name:        name,
		Difficulty:  difficulty,
		MaxAttempts: maxAttempts,
	})
	if err != nil {
		return err
	}

	for i := range blocks {
		t := time.Now()
		block, err := n.Mine(ctx, fmt.Sprintf("Block %d mined by %s", i+1, name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		p.Mined(report.Mining{
			Miner:   name,
			Block:   block,
			Elapsed: time.Since(t),
		})
	}

	p.Chain(fmt.Sprintf("Blockchain for Miner %s", name), n.Chain())

	return nil
}
