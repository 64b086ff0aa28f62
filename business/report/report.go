// Package report renders chains, mining results and selection rounds for
// people to read.
package report

import (
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/ardanlabs/forkchain/foundation/blockchain/profile"
	"github.com/ardanlabs/forkchain/foundation/blockchain/selector"
)

// timeFormat is how block timestamps are displayed.
const timeFormat = "2006-01-02 15:04:05 MST"

// Mining represents the outcome of a miner solving a block.
type Mining struct {
	Miner   string
	Block   database.Block
	Elapsed time.Duration
}

// NodeChain pairs a node's status with the chain it holds.
type NodeChain struct {
	Status node.Status
	Chain  database.Chain
}

// Printer renders the results of the ledger operations.
type Printer interface {
	Chain(title string, chain database.Chain)
	Valid(label string, err error)
	Mined(m Mining)
	Network(nodes []NodeChain)
	Round(r selector.Round)
	Profile(samples []profile.Sample)
}

// Nodes collects the status and chain of every node in order.
func Nodes(nodes []*node.Node) []NodeChain {
	ncs := make([]NodeChain, len(nodes))
	for i, n := range nodes {
		ncs[i] = NodeChain{
			Status: n.Status(),
			Chain:  n.Chain(),
		}
	}
	return ncs
}
