package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/forkchain/foundation/blockchain/database"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
)

// busyRetry is how long to wait before trying again when the node is
// already mining a block on behalf of another caller.
const busyRetry = 100 * time.Millisecond

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes the oldest payload from the mempool, mines it
// into a new block and shares the node's chain with the network.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Make sure there are payloads in the mempool.
	entries := w.mempool.PickBest(1)
	if len(entries) == 0 {
		w.evHandler("worker: runMiningOperation: MINING: no payloads to mine")
		return
	}
	entry := entries[0]

	// After running a mining operation, check if a new operation should
	// be signaled again.
	defer func() {
		length := w.mempool.Count()
		if length > 0 && !w.isShutdown() {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation: pending[%d]", length)
			w.SignalStartMining()
		}
	}()

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-w.shut:
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		// Respect the mining cadence for this node.
		if err := w.limiter.Wait(ctx); err != nil {
			w.evHandler("worker: runMiningOperation: MINING: limiter: %s", err)
			return
		}

		t := time.Now()
		block, err := w.node.Mine(ctx, entry.Payload)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case errors.Is(err, node.ErrMiningCancelled), errors.Is(err, node.ErrStaleTip):
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: payload[%s] kept: %s", entry.ID, err)
			case errors.Is(err, node.ErrMiningInProgress):
				w.evHandler("worker: runMiningOperation: MINING: busy: retry in %v", busyRetry)
				select {
				case <-time.After(busyRetry):
				case <-ctx.Done():
				}
			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			case errors.Is(err, database.ErrMaxAttempts):
				w.evHandler("worker: runMiningOperation: MINING: WARNING: payload[%s] dropped: %s", entry.ID, err)
				w.mempool.Delete(entry.ID)
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
			return
		}

		w.mempool.Delete(entry.ID)
		w.evHandler("worker: runMiningOperation: MINING: SOLVED: %s: %s: elapsed[%.2fs]", w.node, block, duration.Seconds())

		// WOW, we mined a block. Share the chain with the network.
		// Log the error, but that's it.
		if w.network != nil {
			if err := w.network.Propagate(w.node.ID()); err != nil {
				w.evHandler("worker: runMiningOperation: MINING: propagate: WARNING %s", err)
			}
		}
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}
