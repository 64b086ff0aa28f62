// Package state is the core API for the simulation. It owns the network of
// nodes and the worker running for each of them.
package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/forkchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/forkchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/forkchain/foundation/blockchain/network"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"github.com/ardanlabs/forkchain/foundation/blockchain/worker"
	"golang.org/x/time/rate"
)

// Set of errors returned by the simulation.
var (
	ErrNoNodes      = errors.New("at least one node is required")
	ErrEmptyPayload = errors.New("payload is required")
)

// EventHandler defines a function that is called when events
// occur in the processing of the simulation.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the simulation.
type Config struct {
	NodeNames          []string
	Genesis            genesis.Genesis
	ValidateCandidates bool
	MiningRate         rate.Limit // Blocks per second a worker may start mining, zero is unpaced.
	EvHandler          EventHandler
}

// State manages the network of nodes taking part in the simulation.
type State struct {
	genesis   genesis.Genesis
	network   *network.Network
	workers   map[string]*worker.Worker
	evHandler EventHandler
}

// New constructs the nodes, registers them with a network and starts a
// worker for each of them.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if len(cfg.NodeNames) == 0 {
		return nil, ErrNoNodes
	}

	nw := network.New(network.EventHandler(ev))

	// Every node starts from the same genesis block.
	var nodes []*node.Node
	for _, name := range cfg.NodeNames {
		n, err := node.New(node.Config{
			Name:               name,
			Difficulty:         cfg.Genesis.Difficulty,
			MaxAttempts:        cfg.Genesis.MaxAttempts,
			GenesisPayload:     cfg.Genesis.Payload,
			GenesisTime:        cfg.Genesis.Date,
			ValidateCandidates: cfg.ValidateCandidates,
			EvHandler:          node.EventHandler(ev),
		})
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}

		if err := nw.Add(n); err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}

		nodes = append(nodes, n)
	}

	state := State{
		genesis:   cfg.Genesis,
		network:   nw,
		workers:   make(map[string]*worker.Worker),
		evHandler: ev,
	}

	limit := cfg.MiningRate
	if limit <= 0 {
		limit = rate.Inf
	}

	for _, n := range nodes {
		state.workers[n.ID()] = worker.Run(worker.Config{
			Node:      n,
			Network:   nw,
			Mempool:   mempool.New(),
			Limiter:   rate.NewLimiter(limit, 1),
			EvHandler: worker.EventHandler(ev),
		})
	}

	return &state, nil
}

// Shutdown cleanly brings every node down.
func (s *State) Shutdown() {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	for _, w := range s.workers {
		w.Shutdown()
	}
}

// Network returns the network of nodes.
func (s *State) Network() *network.Network {
	return s.network
}

// Genesis returns the genesis settings the nodes were started with.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// worker returns the worker running for the node with the specified id.
func (s *State) worker(id string) (*worker.Worker, error) {
	w, exists := s.workers[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", network.ErrNodeNotFound, id)
	}
	return w, nil
}
