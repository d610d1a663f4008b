package events

import (
	"sync"
)

// ChannelEvent provides pub/sub behavior using channels.
// T is the type of the value sent to listener channels.
type ChannelEvent[T any] struct {
	mu         sync.RWMutex
	channels   map[uint64]chan<- T
	nextID     uint64
	replayLast bool
	last       T
	hasLast    bool
}

// NewChannelEvent creates a new ChannelEvent instance.
// replayLast: if true, the event remembers the most recent Notify value and
// sends it to new listeners immediately on Listen.
func NewChannelEvent[T any](replayLast bool) *ChannelEvent[T] {
	return &ChannelEvent[T]{
		channels:   make(map[uint64]chan<- T),
		replayLast: replayLast,
	}
}

// Listen registers a channel to receive values when Notify is invoked.
// Returns a deregistration function that removes the listener.
// Sends never block: a full channel is skipped.
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.channels[id] = ch
	replay := e.replayLast && e.hasLast
	last := e.last
	e.mu.Unlock()

	// Replay outside the lock so a synchronously-draining listener can't deadlock
	if replay {
		select {
		case ch <- last:
		default:
		}
	}

	return func() {
		e.mu.Lock()
		delete(e.channels, id)
		e.mu.Unlock()
	}
}

// Notify sends the value to all registered channels. Non-blocking: a listener
// with a full channel misses this value and catches up on the next one, which
// for state snapshots is always the fresher value anyway.
func (e *ChannelEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		e.last = value
		e.hasLast = true
	}
	targets := make([]chan<- T, 0, len(e.channels))
	for _, ch := range e.channels {
		targets = append(targets, ch)
	}
	e.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- value:
		default:
		}
	}
}

// ListenerCount returns the current number of registered listeners.
func (e *ChannelEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.channels)
}
