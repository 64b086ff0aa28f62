package state

import (
	"context"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/mempool"
)

// Append adds a block to the specified node's chain without proof of work.
// Chains accept any payload, but blocks created through the simulation must
// carry one so ErrEmptyPayload is returned for an empty payload.
func (s *State) Append(id string, payload string) (database.Block, error) {
	n, err := s.network.Node(id)
	if err != nil {
		return database.Block{}, err
	}

	if payload == "" {
		return database.Block{}, ErrEmptyPayload
	}

	return n.Append(payload), nil
}

// Mine performs the proof of work for the payload on the specified node and
// appends the block. The call blocks until the block is solved or ctx is
// done. Like Append, an empty payload is refused.
func (s *State) Mine(ctx context.Context, id string, payload string) (database.Block, error) {
	n, err := s.network.Node(id)
	if err != nil {
		return database.Block{}, err
	}

	if payload == "" {
		return database.Block{}, ErrEmptyPayload
	}

	return n.Mine(ctx, payload)
}

// Submit queues the payload in the specified node's mempool. The node's
// worker mines it in the background and shares the result.
func (s *State) Submit(id string, payload string) (mempool.Entry, error) {
	w, err := s.worker(id)
	if err != nil {
		return mempool.Entry{}, err
	}

	if payload == "" {
		return mempool.Entry{}, ErrEmptyPayload
	}

	return w.Submit(payload)
}

// Broadcast shares the specified node's chain with every other node.
func (s *State) Broadcast(id string) error {
	return s.network.Broadcast(id)
}

// Reconcile resolves forks by having every node adopt the longest chain.
func (s *State) Reconcile() (database.Chain, error) {
	return s.network.ReconcileAll()
}
