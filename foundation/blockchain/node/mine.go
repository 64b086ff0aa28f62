package node

import (
	"context"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
)

// Mine performs the proof of work for a new block holding the payload on
// top of the node's current tip and appends it. The search runs without
// holding the node lock so peers can still deliver chains. If a chain at
// least as long as the one being built is installed while mining, the
// search is cancelled and ErrMiningCancelled is returned.
func (n *Node) Mine(ctx context.Context, payload string) (database.Block, error) {
	n.evHandler("node: Mine: %s: MINING: started", n)
	defer n.evHandler("node: Mine: %s: MINING: completed", n)

	prevBlock, m, ctx, err := n.startMining(ctx)
	if err != nil {
		return database.Block{}, err
	}
	defer m.cancel()

	t := time.Now()
	block, attempts, err := database.POW(ctx, database.POWArgs{
		Difficulty:  n.difficulty,
		PrevBlock:   prevBlock,
		Payload:     payload,
		MaxAttempts: n.maxAttempts,
		EvHandler:   n.evHandler,
	})
	duration := time.Since(t)

	n.evHandler("node: Mine: %s: MINING: blk[%d]: duration[%v]: attempts[%d]", n, prevBlock.Index+1, duration, attempts)

	return n.finishMining(m, prevBlock, block, err)
}

// IsMining reports whether a mining operation is in flight.
func (n *Node) IsMining() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.mining != nil
}

// CancelMining stops any mining operation in flight.
func (n *Node) CancelMining() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mining != nil && !n.mining.cancelled {
		n.evHandler("node: CancelMining: %s: MINING: CANCEL: requested", n)
		n.mining.cancelled = true
		n.mining.cancel()
	}
}

// =============================================================================

// startMining registers a new mining operation and captures the tip to
// build on.
func (n *Node) startMining(ctx context.Context) (database.Block, *mining, context.Context, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mining != nil {
		return database.Block{}, nil, nil, ErrMiningInProgress
	}

	ctx, cancel := context.WithCancel(ctx)
	m := mining{
		target: n.chain.Length() + 1,
		cancel: cancel,
	}
	n.mining = &m

	return n.chain.LatestBlock(), &m, ctx, nil
}

// finishMining clears the mining operation and, if the block was solved
// against a tip that is still current, appends it to the chain.
func (n *Node) finishMining(m *mining, prevBlock database.Block, block database.Block, powErr error) (database.Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.mining = nil

	if m.cancelled {
		return database.Block{}, ErrMiningCancelled
	}

	if powErr != nil {
		return database.Block{}, powErr
	}

	if n.chain.LatestBlock().Hash != prevBlock.Hash {
		n.evHandler("node: Mine: %s: MINING: STALE: blk[%d] discarded", n, block.Index)
		return database.Block{}, ErrStaleTip
	}

	if err := n.chain.AppendBlock(block); err != nil {
		return database.Block{}, err
	}

	n.evHandler("node: Mine: %s: MINING: APPENDED: %s", n, block)

	return block, nil
}
