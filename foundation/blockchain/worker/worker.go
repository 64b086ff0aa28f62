// Package worker implements background mining and chain sharing for a
// single node taking part in the network.
package worker

import (
	"errors"
	"sync"

	"github.com/ardanlabs/forkchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/forkchain/foundation/blockchain/network"
	"github.com/ardanlabs/forkchain/foundation/blockchain/node"
	"golang.org/x/time/rate"
)

// ErrShutdown is returned when work is submitted after shutdown.
var ErrShutdown = errors.New("worker is shut down")

// EventHandler defines a function that is called when events
// occur in the processing of the worker.
type EventHandler func(v string, args ...any)

// Config represents the collaborators a worker needs to run.
type Config struct {
	Node      *node.Node
	Network   *network.Network
	Mempool   *mempool.Mempool
	Limiter   *rate.Limiter // Nil means mining is not paced.
	EvHandler EventHandler
}

// =============================================================================

// Worker manages the mining and inbox workflows for a node.
type Worker struct {
	node         *node.Node
	network      *network.Network
	mempool      *mempool.Mempool
	limiter      *rate.Limiter
	wg           sync.WaitGroup
	shut         chan struct{}
	shutOnce     sync.Once
	startMining  chan bool
	cancelMining chan bool
	evHandler    EventHandler
}

// Run creates a worker for the node and starts up all the background
// processes.
func Run(cfg Config) *Worker {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	mp := cfg.Mempool
	if mp == nil {
		mp = mempool.New()
	}

	w := Worker{
		node:         cfg.Node,
		network:      cfg.Network,
		mempool:      mp,
		limiter:      limiter,
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		evHandler:    ev,
	}

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.inboxOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// Mempool returns the pool of payloads waiting to be mined by this worker.
func (w *Worker) Mempool() *mempool.Mempool {
	return w.mempool
}

// Submit queues the payload for mining and signals the mining G.
func (w *Worker) Submit(payload string) (mempool.Entry, error) {
	if w.isShutdown() {
		return mempool.Entry{}, ErrShutdown
	}

	entry, count, err := w.mempool.Upsert(payload)
	if err != nil {
		return mempool.Entry{}, err
	}

	w.evHandler("worker: Submit: %s: payload[%s]: pending[%d]", w.node, entry.ID, count)
	w.SignalStartMining()

	return entry, nil
}

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.shutOnce.Do(func() {
		w.evHandler("worker: shutdown: %s: started", w.node)
		defer w.evHandler("worker: shutdown: %s: completed", w.node)

		w.evHandler("worker: shutdown: signal cancel mining")
		close(w.shut)
		w.SignalCancelMining()
		w.node.CancelMining()

		w.evHandler("worker: shutdown: terminate goroutines")
		w.wg.Wait()
	})
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
