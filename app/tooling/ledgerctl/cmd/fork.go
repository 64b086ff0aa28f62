package cmd

import (
	"fmt"

	"github.com/ardanlabs/forkchain/business/report"
	"github.com/ardanlabs/forkchain/foundation/blockchain/network"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/spf13/cobra"
)

func newForkCmd() *cobra.Command {
	var count int

	forkCmd := &cobra.Command{
		Use:   "fork",
		Short: "Broadcast a chain, fork the network and resolve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 3 {
				return fmt.Errorf("at least 3 nodes are required, got %d", count)
			}

			p := printer(cmd)
			out := cmd.OutOrStdout()

			nw := network.New(nil)
			for i := range count {
				n, err := node.New(node.Config{Name: fmt.Sprintf("Node%d", i+1)})
				if err != nil {
					return err
				}
				if err := nw.Add(n); err != nil {
					return err
				}
			}
			nodes := nw.Nodes()

			fmt.Fprintf(out, "%s adds 2 blocks and broadcasts...\n", nodes[0].Name())
			nodes[0].Append("Block 1")
			nodes[0].Append("Block 2")
			if err := nw.Broadcast(nodes[0].ID()); err != nil {
				return err
			}
			p.Network(report.Nodes(nodes))

			fmt.Fprintf(out, "\nSimulating a fork: %s and %s add different blocks...\n", nodes[1].Name(), nodes[2].Name())
			nodes[1].Append("X")
			nodes[2].Append("Y")
			p.Network(report.Nodes(nodes))

			fmt.Fprintln(out, "\nSimulating consensus mechanism...")
			if _, err := nw.ReconcileAll(); err != nil {
				return err
			}
			p.Network(report.Nodes(nodes))

			fmt.Fprintf(out, "\nConverged: %v\n", nw.Converged())

			return nil
		},
	}

	forkCmd.Flags().IntVarP(&count, "nodes", "n", 3, "Number of nodes in the network.")

	return forkCmd
}
