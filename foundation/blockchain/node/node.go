// Package node implements a single replica of the ledger. A node owns one
// chain, mines on top of it and accepts candidate chains from peers.
package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/validate"
	"github.com/google/uuid"
)

// DefaultGenesisPayload is the payload of the genesis block when the
// configuration doesn't provide one.
const DefaultGenesisPayload = "Genesis Block"

// Set of errors returned by the node.
var (
	ErrMiningInProgress = errors.New("node is already mining")
	ErrMiningCancelled  = errors.New("mining cancelled by a longer chain")
	ErrStaleTip         = errors.New("chain tip changed while mining")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start a node.
type Config struct {
	ID                 string
	Name               string `validate:"required"`
	Difficulty         uint   `validate:"lte=64"`
	MaxAttempts        uint64
	GenesisPayload     string
	GenesisTime        time.Time
	ValidateCandidates bool
	EvHandler          EventHandler
}

// Status represents a summary of the node's chain.
type Status struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Length      uint64 `json:"length"`
	LatestHash  string `json:"latest_hash"`
	Valid       bool   `json:"valid"`
	InboxLength int    `json:"inbox_length"`
}

// mining tracks the block currently being mined so a longer chain can
// cancel it.
type mining struct {
	target    uint64
	cancel    context.CancelFunc
	cancelled bool
}

// Node manages a single copy of the chain.
type Node struct {
	id                 string
	name               string
	difficulty         uint
	maxAttempts        uint64
	validateCandidates bool
	evHandler          EventHandler

	mu     sync.Mutex
	chain  database.Chain
	mining *mining

	inboxMu     sync.Mutex
	inbox       []database.Chain
	inboxSignal chan struct{}
}

// New constructs a node holding a fresh genesis chain.
func New(cfg Config) (*Node, error) {
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	payload := cfg.GenesisPayload
	if payload == "" {
		payload = DefaultGenesisPayload
	}

	genesisTime := cfg.GenesisTime
	if genesisTime.IsZero() {
		genesisTime = time.Now()
	}

	n := Node{
		id:                 id,
		name:               cfg.Name,
		difficulty:         cfg.Difficulty,
		maxAttempts:        cfg.MaxAttempts,
		validateCandidates: cfg.ValidateCandidates,
		evHandler:          ev,
		chain:              database.NewChainAt(payload, genesisTime),
		inboxSignal:        make(chan struct{}, 1),
	}

	return &n, nil
}

// ID returns the stable identity of the node.
func (n *Node) ID() string {
	return n.id
}

// Name returns the display name of the node.
func (n *Node) Name() string {
	return n.name
}

// Difficulty returns the number of leading zeros this node mines for.
func (n *Node) Difficulty() uint {
	return n.difficulty
}

// String implements the fmt.Stringer interface for logging.
func (n *Node) String() string {
	return fmt.Sprintf("%s[%s]", n.name, n.id)
}

// =============================================================================

// Chain returns a read only copy of the node's chain.
func (n *Node) Chain() database.Chain {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.chain.Copy()
}

// Length returns the number of blocks in the node's chain.
func (n *Node) Length() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.chain.Length()
}

// LatestBlock returns a copy of the block at the tip of the chain.
func (n *Node) LatestBlock() database.Block {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.chain.LatestBlock()
}

// Validate reports whether the node's chain passes validation.
func (n *Node) Validate() bool {
	return n.Verify() == nil
}

// Verify returns the first validation failure in the node's chain.
func (n *Node) Verify() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.chain.Verify()
}

// Status returns a summary of the node's chain.
func (n *Node) Status() Status {
	n.mu.Lock()
	chain := n.chain.Copy()
	n.mu.Unlock()

	return Status{
		ID:          n.id,
		Name:        n.name,
		Length:      chain.Length(),
		LatestHash:  chain.LatestBlock().Hash,
		Valid:       chain.Validate(),
		InboxLength: n.InboxLength(),
	}
}

// =============================================================================

// Append adds a block for the payload to the chain without mining.
func (n *Node) Append(payload string) database.Block {
	n.mu.Lock()
	defer n.mu.Unlock()

	b := n.chain.Append(payload)
	n.evHandler("node: Append: %s: %s", n, b)

	return b
}

// Update replaces the node's chain with the candidate if the candidate is
// longer. The candidate is only validated when the node is configured to
// validate candidates. Any mining made stale by the new chain is cancelled.
func (n *Node) Update(candidate database.Chain) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	var replaced bool
	switch {
	case n.validateCandidates:
		var err error
		replaced, err = n.chain.ReplaceVerified(candidate)
		if err != nil {
			n.evHandler("node: Update: %s: REJECTED: %s", n, err)
			return false
		}

	default:
		replaced = n.chain.Replace(candidate)
	}

	if !replaced {
		n.evHandler("node: Update: %s: kept chain: length[%d]: candidate[%d]", n, n.chain.Length(), candidate.Length())
		return false
	}

	n.evHandler("node: Update: %s: REPLACED: length[%d]: tip[%s]", n, n.chain.Length(), n.chain.LatestBlock())
	n.cancelStaleMining()

	return true
}

// Adopt installs the candidate chain when it is at least as long as the
// node's chain. It is used when the network has already decided which chain
// every node should hold, so a competing chain of equal length is replaced.
// A shorter candidate is refused so blocks added since the decision are
// never lost. Adopting a chain with the same tip is a no-op.
func (n *Node) Adopt(candidate database.Chain) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if candidate.Length() < n.chain.Length() {
		n.evHandler("node: Adopt: %s: REFUSED: length[%d]: candidate[%d]", n, n.chain.Length(), candidate.Length())
		return false
	}

	if candidate.Length() == n.chain.Length() && candidate.LatestBlock().Hash == n.chain.LatestBlock().Hash {
		return false
	}

	if n.validateCandidates {
		if err := candidate.Verify(); err != nil {
			n.evHandler("node: Adopt: %s: REJECTED: %s", n, err)
			return false
		}
	}

	n.chain = candidate.Copy()
	n.evHandler("node: Adopt: %s: ADOPTED: length[%d]: tip[%s]", n, n.chain.Length(), n.chain.LatestBlock())
	n.cancelStaleMining()

	return true
}

// cancelStaleMining stops a mining operation whose block can no longer
// extend the longest chain. The caller must hold the lock.
func (n *Node) cancelStaleMining() {
	if n.mining == nil || n.mining.cancelled {
		return
	}

	if n.chain.Length() >= n.mining.target {
		n.evHandler("node: %s: MINING: CANCEL: chain length[%d] reached target[%d]", n, n.chain.Length(), n.mining.target)
		n.mining.cancelled = true
		n.mining.cancel()
	}
}
