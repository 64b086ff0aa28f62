package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/forkchain/business/report"
	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var url string

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the chain held by every node of a running ledger service",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := http.Client{Timeout: 10 * time.Second}

			var status []node.Status
			if err := get(&client, url+"/v1/nodes", &status); err != nil {
				return err
			}

			ncs := make([]report.NodeChain, len(status))
			for i, ns := range status {
				var c struct {
					Blocks []database.Block `json:"blocks"`
				}
				if err := get(&client, fmt.Sprintf("%s/v1/nodes/%s/chain", url, ns.ID), &c); err != nil {
					return err
				}

				ncs[i] = report.NodeChain{
					Status: ns,
					Chain:  database.ChainFrom(c.Blocks),
				}
			}

			printer(cmd).Network(ncs)

			return nil
		},
	}

	statusCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the ledger service.")

	return statusCmd
}

func get(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %s", url, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
