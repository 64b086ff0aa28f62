// Package events fans out event messages to registered subscribers such as
// websocket connections.
package events

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrNotFound is returned when releasing an unknown subscription.
var ErrNotFound = errors.New("subscription not found")

// DefaultBuffer is the number of messages held for a slow subscriber
// before messages are dropped.
const DefaultBuffer = 100

// Events maintains a mapping of subscription id and channels so goroutines
// can register and receive events.
type Events struct {
	mu      sync.RWMutex
	subs    map[string]chan string
	buffer  int
	dropped atomic.Uint64
}

// New constructs an events for registering and receiving events. Each
// subscriber holds up to buffer messages.
func New(buffer int) *Events {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	return &Events{
		subs:   make(map[string]chan string),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its id and the channel
// messages are delivered on.
func (evt *Events) Subscribe() (string, <-chan string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan string, evt.buffer)
	evt.subs[id] = ch

	return id, ch
}

// Unsubscribe closes and removes the channel that was provided by
// the call to Subscribe.
func (evt *Events) Unsubscribe(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return ErrNotFound
	}

	delete(evt.subs, id)
	close(ch)
	return nil
}

// Send signals a message to every registered channel. Send will not block
// waiting for a receiver on any given channel; the message is dropped for
// a subscriber whose buffer is full.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
			evt.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Dropped returns the number of messages that could not be delivered.
func (evt *Events) Dropped() uint64 {
	return evt.dropped.Load()
}

// Shutdown closes and removes all channels that were provided by
// the call to Subscribe.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}
