package node

import (
	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
)

// Deliver places a candidate chain from a peer into the node's inbox. The
// inbox is unbounded so no candidate is ever dropped. Candidates are
// applied when the inbox is drained.
func (n *Node) Deliver(candidate database.Chain) {
	n.inboxMu.Lock()
	n.inbox = append(n.inbox, candidate.Copy())
	size := len(n.inbox)
	n.inboxMu.Unlock()

	n.evHandler("node: Deliver: %s: candidate length[%d]: inbox[%d]", n, candidate.Length(), size)

	// If there is already a signal pending in the channel, just return
	// since the inbox will be drained.
	select {
	case n.inboxSignal <- struct{}{}:
	default:
	}
}

// InboxSignal returns a channel that receives a value when candidates
// have been delivered.
func (n *Node) InboxSignal() <-chan struct{} {
	return n.inboxSignal
}

// InboxLength returns the number of candidates waiting to be applied.
func (n *Node) InboxLength() int {
	n.inboxMu.Lock()
	defer n.inboxMu.Unlock()

	return len(n.inbox)
}

// DrainInbox applies Update to every candidate in the inbox in the order
// they were delivered. It returns how many candidates were considered and
// how many replaced the chain.
func (n *Node) DrainInbox() (considered int, replaced int) {
	n.inboxMu.Lock()
	candidates := n.inbox
	n.inbox = nil
	n.inboxMu.Unlock()

	for _, candidate := range candidates {
		considered++
		if n.Update(candidate) {
			replaced++
		}
	}

	if considered > 0 {
		n.evHandler("node: DrainInbox: %s: considered[%d]: replaced[%d]", n, considered, replaced)
	}

	return considered, replaced
}
