package state

import (
	"errors"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
)

// QueryNodes returns the status of every node in registration order.
func (s *State) QueryNodes() []node.Status {
	return s.network.Status()
}

// QueryChain returns a copy of the chain held by the specified node.
func (s *State) QueryChain(id string) (database.Chain, error) {
	n, err := s.network.Node(id)
	if err != nil {
		return database.Chain{}, err
	}
	return n.Chain(), nil
}

// Validation represents the outcome of checking a node's chain.
type Validation struct {
	Valid  bool   `json:"valid"`
	Index  uint64 `json:"index,omitempty"`
	Reason string `json:"error,omitempty"`
}

// QueryValidate checks the chain held by the specified node and reports the
// first invalid block.
func (s *State) QueryValidate(id string) (Validation, error) {
	n, err := s.network.Node(id)
	if err != nil {
		return Validation{}, err
	}

	verr := n.Verify()
	if verr == nil {
		return Validation{Valid: true}, nil
	}

	v := Validation{Reason: verr.Error()}

	var ve *database.ValidationError
	if errors.As(verr, &ve) {
		v.Index = ve.Index
	}

	return v, nil
}

// QueryMempool returns the payloads waiting to be mined by the specified
// node, oldest first.
func (s *State) QueryMempool(id string) ([]mempool.Entry, error) {
	w, err := s.worker(id)
	if err != nil {
		return nil, err
	}
	return w.Mempool().PickBest(-1), nil
}

// QueryConverged reports whether every node holds the same chain tip.
func (s *State) QueryConverged() bool {
	return s.network.Converged()
}
