// Package database handles the in memory chain of blocks along with the
// rules for extending, validating and replacing it.
package database

import (
	"errors"
	"fmt"
	"time"
)

// Set of errors returned when extending a chain.
var (
	ErrNotNextBlock = errors.New("block is not the next block in the chain")
	ErrNotFound     = errors.New("block not found")
)

// State represents the integrity state of a chain.
type State int

// Set of chain states.
const (
	StateEmpty State = iota
	StateValid
	StateTampered
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateValid:
		return "valid"
	case StateTampered:
		return "tampered"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// =============================================================================

// Chain is an ordered sequence of hash linked blocks. A Chain is not safe
// for concurrent use; the owner is expected to serialize access.
type Chain struct {
	blocks []Block
}

// NewChain constructs a chain holding a genesis block with the specified
// payload.
func NewChain(genesisPayload string) Chain {
	return NewChainAt(genesisPayload, time.Now())
}

// NewChainAt constructs a chain whose genesis block is stamped with the
// specified time.
func NewChainAt(genesisPayload string, ts time.Time) Chain {
	return Chain{
		blocks: []Block{NewBlockAt(0, genesisPayload, GenesisPrevHash, ts)},
	}
}

// ChainFrom constructs a chain from a list of blocks, such as one received
// from a peer. The blocks are copied and not checked.
func ChainFrom(blocks []Block) Chain {
	cpy := make([]Block, len(blocks))
	copy(cpy, blocks)

	return Chain{blocks: cpy}
}

// Append builds the next block for the specified payload and adds it to the
// end of the chain. No proof of work is performed. Appending to an empty
// chain creates the genesis block.
func (c *Chain) Append(payload string) Block {
	prevHash := GenesisPrevHash
	if len(c.blocks) > 0 {
		prevHash = c.blocks[len(c.blocks)-1].Hash
	}

	b := NewBlock(uint64(len(c.blocks)), payload, prevHash)
	c.blocks = append(c.blocks, b)

	return b
}

// AppendBlock adds an already constructed block, such as a mined block, to
// the end of the chain. The block must carry the next index, link to the
// current tip and hold a hash matching its contents.
func (c *Chain) AppendBlock(b Block) error {
	if len(c.blocks) == 0 {
		return fmt.Errorf("%w: chain has no genesis block", ErrNotNextBlock)
	}

	if b.Index != uint64(len(c.blocks)) {
		return fmt.Errorf("%w: got index %d, exp %d", ErrNotNextBlock, b.Index, len(c.blocks))
	}

	if err := b.ValidateBlock(c.blocks[len(c.blocks)-1]); err != nil {
		return fmt.Errorf("%w: %w", ErrNotNextBlock, err)
	}

	c.blocks = append(c.blocks, b)

	return nil
}

// Validate walks the chain and reports whether every block holds the hash
// of its own contents and links to its parent. A chain holding only the
// genesis block is valid.
func (c Chain) Validate() bool {
	return c.Verify() == nil
}

// Verify performs the same checks as Validate, returning a *ValidationError
// for the first block that fails.
func (c Chain) Verify() error {
	for i := 1; i < len(c.blocks); i++ {
		if err := c.blocks[i].ValidateBlock(c.blocks[i-1]); err != nil {
			return err
		}
	}

	return nil
}

// State reports the integrity state of the chain.
func (c Chain) State() State {
	switch {
	case len(c.blocks) == 0:
		return StateEmpty
	case c.Validate():
		return StateValid
	default:
		return StateTampered
	}
}

// Replace swaps in the candidate chain if it is longer than this chain and
// reports if the swap happened. The candidate is not validated.
func (c *Chain) Replace(candidate Chain) bool {
	if candidate.Length() <= c.Length() {
		return false
	}

	c.blocks = candidate.Copy().blocks
	return true
}

// ReplaceVerified applies the same rule as Replace but first rejects a
// candidate that fails verification.
func (c *Chain) ReplaceVerified(candidate Chain) (bool, error) {
	if candidate.Length() <= c.Length() {
		return false, nil
	}

	if err := candidate.Verify(); err != nil {
		return false, fmt.Errorf("candidate chain: %w", err)
	}

	c.blocks = candidate.Copy().blocks
	return true, nil
}

// Length returns the number of blocks in the chain.
func (c Chain) Length() uint64 {
	return uint64(len(c.blocks))
}

// LatestBlock returns the block at the tip of the chain. The zero block is
// returned for an empty chain.
func (c Chain) LatestBlock() Block {
	if len(c.blocks) == 0 {
		return Block{}
	}
	return c.blocks[len(c.blocks)-1]
}

// Block returns the block at the specified index.
func (c Chain) Block(index uint64) (Block, error) {
	if index >= uint64(len(c.blocks)) {
		return Block{}, fmt.Errorf("%w: index %d, length %d", ErrNotFound, index, len(c.blocks))
	}
	return c.blocks[index], nil
}

// Blocks returns a copy of the blocks in the chain.
func (c Chain) Blocks() []Block {
	cpy := make([]Block, len(c.blocks))
	copy(cpy, c.blocks)
	return cpy
}

// Copy returns a chain that shares no memory with this chain.
func (c Chain) Copy() Chain {
	return ChainFrom(c.blocks)
}
