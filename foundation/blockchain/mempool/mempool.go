// Package mempool maintains the pending payloads waiting to be mined into
// a block by a node.
package mempool

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyPayload is returned when a blank payload is submitted.
var ErrEmptyPayload = errors.New("payload is empty")

// Entry represents a payload waiting in the mempool.
type Entry struct {
	ID       string    `json:"id"`
	Payload  string    `json:"payload"`
	Received time.Time `json:"received"`
	seq      uint64
}

// Mempool represents a cache of payloads keyed by a unique id and kept in
// the order they were received.
type Mempool struct {
	mu   sync.RWMutex
	pool map[string]Entry
	seq  uint64
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]Entry),
	}
}

// Count returns the current number of payloads in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds a payload to the mempool and returns the entry that was
// created along with the new size of the pool.
func (mp *Mempool) Upsert(payload string) (Entry, int, error) {
	if payload == "" {
		return Entry{}, 0, ErrEmptyPayload
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.seq++
	entry := Entry{
		ID:       uuid.NewString(),
		Payload:  payload,
		Received: time.Now().UTC(),
		seq:      mp.seq,
	}

	mp.pool[entry.ID] = entry

	return entry, len(mp.pool), nil
}

// Delete removes the payload with the specified id from the mempool.
func (mp *Mempool) Delete(id string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, id)
}

// Truncate clears all the payloads from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]Entry)
}

// PickBest returns the oldest howMany payloads in the order they were
// received. Pass -1 for all the payloads.
func (mp *Mempool) PickBest(howMany int) []Entry {
	mp.mu.RLock()
	entries := make([]Entry, 0, len(mp.pool))
	for _, entry := range mp.pool {
		entries = append(entries, entry)
	}
	mp.mu.RUnlock()

	sort.Sort(byReceived(entries))

	if howMany >= 0 && howMany < len(entries) {
		entries = entries[:howMany]
	}

	return entries
}

// =============================================================================

// byReceived provides sorting support by the order entries were received.
type byReceived []Entry

// Len returns the number of entries in the list.
func (br byReceived) Len() int {
	return len(br)
}

// Less keeps the oldest entries at the front of the list.
func (br byReceived) Less(i, j int) bool {
	return br[i].seq < br[j].seq
}

// Swap moves entries in the order they were received.
func (br byReceived) Swap(i, j int) {
	br[i], br[j] = br[j], br[i]
}
