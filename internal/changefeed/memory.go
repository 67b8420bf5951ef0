package changefeed

import (
	"context"
	"sync"
)

// MemoryFeed implements ChangeFeed in-process. It is the single-instance
// fallback when no Redis address is configured, and the test double.
type MemoryFeed struct {
	mu          sync.RWMutex
	subscribers map[uint]map[int]chan Event
	nextID      int
	closed      bool
}

// NewMemoryFeed creates an in-process change feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subscribers: make(map[uint]map[int]chan Event)}
}

// Publish delivers the event to every live subscriber of the recipient.
// Subscribers with a full buffer are skipped rather than blocked on.
func (f *MemoryFeed) Publish(_ context.Context, recipientID uint, event Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subscribers[recipientID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber for one recipient. The cancel func is
// idempotent and also runs when ctx is cancelled.
func (f *MemoryFeed) Subscribe(ctx context.Context, recipientID uint) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	if f.subscribers[recipientID] == nil {
		f.subscribers[recipientID] = make(map[int]chan Event)
	}
	f.subscribers[recipientID][id] = ch
	f.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if subs, ok := f.subscribers[recipientID]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(f.subscribers, recipientID)
				}
			}
			f.mu.Unlock()
			close(ch)
			close(done)
		})
	}

	// The watcher must also exit when cancel is called directly, or it
	// would block forever on a context that is never cancelled.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}

// Close detaches all subscriptions. Channels are closed by their own cancel
// funcs (each subscriber's context is cancelled on server shutdown), which
// keeps close single-owner.
func (f *MemoryFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.subscribers = make(map[uint]map[int]chan Event)
	return nil
}
