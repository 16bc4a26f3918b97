package events

import "sync"

// Bag groups subscriptions so they can be released together. Unsubscribe runs
// at most once; subscriptions added afterwards are released immediately.
type Bag struct {
	mu     sync.Mutex
	subs   []Subscription
	closed bool
}

// NewBag returns an empty bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add records sub. Nil subscriptions are ignored.
func (b *Bag) Add(sub Subscription) {
	if b == nil || sub == nil {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
}

// Unsubscribe releases every recorded subscription.
func (b *Bag) Unsubscribe() {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// Closed reports whether Unsubscribe already ran.
func (b *Bag) Closed() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
