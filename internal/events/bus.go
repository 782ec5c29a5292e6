// Package events carries location change notifications between the resolvers and
// observers of one process.
package events

import "sync"

// LocationChanged tells observers that the stored location was rewritten.
// Observers re-read the local store; the fields only identify the write.
type LocationChanged struct {
	Origin  string
	Version int64
}

// Bus is a publish/subscribe channel for LocationChanged notifications. It is owned by the
// composition root and handed to every component that needs it.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscription receives notifications on C until Close is called.
type Subscription struct {
	C <-chan LocationChanged

	ch   chan LocationChanged
	bus  *Bus
	once sync.Once
}

// Subscribe registers a new subscriber.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan LocationChanged, 1)
	sub := &Subscription{C: ch, ch: ch, bus: b}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Close removes the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		close(s.ch)
		s.bus.mu.Unlock()
	})
}

// Publish notifies every subscriber without blocking. A subscriber that still has an
// unread notification keeps the newer one instead, since both mean "re-read".
func (b *Bus) Publish(ev LocationChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
