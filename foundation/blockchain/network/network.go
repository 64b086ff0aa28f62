// Package network maintains the set of nodes taking part in the simulation
// and drives block sharing and fork resolution between them.
package network

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
)

// Set of errors returned by the network.
var (
	ErrNodeExists   = errors.New("node already registered")
	ErrNodeNotFound = errors.New("node not found")
)

// EventHandler defines a function that is called when events
// occur in the processing of the network.
type EventHandler func(v string, args ...any)

// =============================================================================

// Network represents the registry of known nodes. Nodes are identified by
// their stable id and kept in registration order.
type Network struct {
	mu        sync.RWMutex
	order     []string
	nodes     map[string]*node.Node
	evHandler EventHandler
}

// New constructs a network for registering nodes.
func New(evHandler EventHandler) *Network {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Network{
		nodes:     make(map[string]*node.Node),
		evHandler: ev,
	}
}

// Add registers a new node with the network.
func (nw *Network) Add(n *node.Node) error {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if _, exists := nw.nodes[n.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrNodeExists, n.ID())
	}

	nw.nodes[n.ID()] = n
	nw.order = append(nw.order, n.ID())

	nw.evHandler("network: Add: node[%s]: nodes[%d]", n, len(nw.order))

	return nil
}

// Remove unregisters the node with the specified id.
func (nw *Network) Remove(id string) {
	nw.mu.Lock()
	defer nw.mu.Unlock()

	if _, exists := nw.nodes[id]; !exists {
		return
	}

	delete(nw.nodes, id)
	for i, oid := range nw.order {
		if oid == id {
			nw.order = append(nw.order[:i], nw.order[i+1:]...)
			break
		}
	}
}

// Node returns the node registered with the specified id.
func (nw *Network) Node(id string) (*node.Node, error) {
	nw.mu.RLock()
	defer nw.mu.RUnlock()

	n, exists := nw.nodes[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, nil
}

// Nodes returns the registered nodes in registration order.
func (nw *Network) Nodes() []*node.Node {
	nw.mu.RLock()
	defer nw.mu.RUnlock()

	nodes := make([]*node.Node, len(nw.order))
	for i, id := range nw.order {
		nodes[i] = nw.nodes[id]
	}
	return nodes
}

// Peers returns every registered node except the one with the specified id.
func (nw *Network) Peers(id string) []*node.Node {
	var peers []*node.Node
	for _, n := range nw.Nodes() {
		if n.ID() != id {
			peers = append(peers, n)
		}
	}
	return peers
}

// Status returns a summary of every node in registration order.
func (nw *Network) Status() []node.Status {
	nodes := nw.Nodes()

	status := make([]node.Status, len(nodes))
	for i, n := range nodes {
		status[i] = n.Status()
	}
	return status
}

// =============================================================================

// Broadcast shares the sender's chain with every other node in a single
// synchronous pass. Each node keeps its own chain unless the sender's is
// longer.
func (nw *Network) Broadcast(senderID string) error {
	sender, err := nw.Node(senderID)
	if err != nil {
		return err
	}

	nw.evHandler("network: Broadcast: started: sender[%s]", sender)
	defer nw.evHandler("network: Broadcast: completed: sender[%s]", sender)

	chain := sender.Chain()
	for _, n := range nw.Peers(senderID) {
		updated := n.Update(chain)
		nw.evHandler("network: Broadcast: node[%s]: updated[%v]", n, updated)
	}

	return nil
}

// Propagate places the sender's chain into the inbox of every other node.
// The candidates are applied when each node drains its inbox.
func (nw *Network) Propagate(senderID string) error {
	sender, err := nw.Node(senderID)
	if err != nil {
		return err
	}

	nw.evHandler("network: Propagate: sender[%s]", sender)

	chain := sender.Chain()
	for _, n := range nw.Peers(senderID) {
		n.Deliver(chain)
	}

	return nil
}

// reconcileRounds bounds how many times ReconcileAll chooses again when a
// node grew past the chosen chain while it was being installed.
const reconcileRounds = 3

// ReconcileAll resolves forks. The longest chain held by any node is chosen,
// with ties going to the node registered first, and every node adopts it.
// A node that grew longer than the chosen chain after the choice was made
// refuses it, and the choice is made again from fresh copies. After the call
// all nodes hold the same chain unless a node is configured to reject it as
// invalid or keeps growing for every round. The last chosen chain is returned.
func (nw *Network) ReconcileAll() (database.Chain, error) {
	nodes := nw.Nodes()
	if len(nodes) == 0 {
		return database.Chain{}, ErrNodeNotFound
	}

	nw.evHandler("network: ReconcileAll: started: nodes[%d]", len(nodes))
	defer nw.evHandler("network: ReconcileAll: completed")

	var winner database.Chain
	for round := 1; round <= reconcileRounds; round++ {
		var best int
		winner, best = longest(nodes)
		nw.evHandler("network: ReconcileAll: winner[%s]: round[%d]: length[%d]: tip[%s]", nodes[best], round, winner.Length(), winner.LatestBlock())

		var refused int
		for _, n := range nodes {
			adopted := n.Adopt(winner)
			nw.evHandler("network: ReconcileAll: node[%s]: adopted[%v]", n, adopted)

			if !adopted && n.LatestBlock().Hash != winner.LatestBlock().Hash {
				refused++
			}
		}

		if refused == 0 {
			break
		}

		nw.evHandler("network: ReconcileAll: round[%d]: refused[%d]", round, refused)
	}

	return winner, nil
}

// longest snapshots every chain and returns the longest along with the
// position of the node holding it. Snapshotting first keeps the choice
// independent of the order nodes are updated in.
func longest(nodes []*node.Node) (database.Chain, int) {
	chains := make([]database.Chain, len(nodes))
	for i, n := range nodes {
		chains[i] = n.Chain()
	}

	best := 0
	for i := 1; i < len(chains); i++ {
		if chains[i].Length() > chains[best].Length() {
			best = i
		}
	}

	return chains[best], best
}

// Converged reports whether every node holds a chain with the same tip.
func (nw *Network) Converged() bool {
	nodes := nw.Nodes()
	if len(nodes) == 0 {
		return true
	}

	tip := nodes[0].LatestBlock().Hash
	for _, n := range nodes[1:] {
		if n.LatestBlock().Hash != tip {
			return false
		}
	}
	return true
}
