package cmd

import (
	"fmt"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

func newTamperCmd() *cobra.Command {
	var (
		index   uint64
		payload string
		rehash  bool
	)

	tamperCmd := &cobra.Command{
		Use:   "tamper",
		Short: "Build a chain, change a block and show that validation catches it",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer(cmd)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Creating a new blockchain...")
			chain := database.NewChain("First Block")

			fmt.Fprintln(out, "Adding blocks...")
			chain.Append("Block 1 Data")
			chain.Append("Block 2 Data")

			p.Chain("Blockchain", chain)
			p.Valid("Is the chain valid", chain.Verify())

			fmt.Fprintf(out, "\nDemonstrating tampering...\nChanging data in Block %d...\n", index)
			if err := rewrite(&chain, index, payload, rehash); err != nil {
				return err
			}

			p.Chain("Blockchain", chain)
			p.Valid("Is the chain valid after tampering", chain.Verify())

			return nil
		},
	}

	tamperCmd.Flags().Uint64VarP(&index, "index", "i", 1, "Index of the block to change.")
	tamperCmd.Flags().StringVarP(&payload, "payload", "p", "Tampered Data", "Payload written into the block.")
	tamperCmd.Flags().BoolVarP(&rehash, "rehash", "r", false, "Recompute the changed block's hash.")

	return tamperCmd
}

// rewrite overwrites the payload of a block behind the chain's back, the
// way an attacker editing stored data would. With rehash the block's own
// hash is recomputed but its successor still points at the old hash.
func rewrite(chain *database.Chain, index uint64, payload string, rehash bool) error {
	blocks := chain.Blocks()
	if index >= uint64(len(blocks)) {
		return fmt.Errorf("block %d does not exist, chain length is %d", index, len(blocks))
	}

	blocks[index].Payload = payload
	if rehash {
		blocks[index].Hash = blocks[index].CalculateHash()
	}

	*chain = database.ChainFrom(blocks)

	return nil
}
