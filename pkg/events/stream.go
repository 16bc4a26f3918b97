package events

import (
	"sync"
)

// Handler receives values emitted on a stream.
type Handler[T any] func(T)

// Subscription releases a handler registration. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Stream is a subscribable source of values.
type Stream[T any] interface {
	Subscribe(handler Handler[T]) Subscription
}

// StreamFunc adapts a function into a Stream.
type StreamFunc[T any] func(handler Handler[T]) Subscription

// Subscribe delegates to the underlying function.
func (fn StreamFunc[T]) Subscribe(handler Handler[T]) Subscription {
	return fn(handler)
}

// SubscriptionFunc adapts a release function into a Subscription that runs at
// most once.
func SubscriptionFunc(release func()) Subscription {
	return &onceSubscription{release: release}
}

type onceSubscription struct {
	once    sync.Once
	release func()
}

func (s *onceSubscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

// Subject is a hot multicast stream. Values emitted before a handler subscribes
// are not replayed.
type Subject[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []subscriber[T]
	closed   bool
}

type subscriber[T any] struct {
	id      uint64
	handler Handler[T]
}

// NewSubject constructs an empty subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe registers handler. Subscribing to a closed subject returns a no-op
// subscription.
func (s *Subject[T]) Subscribe(handler Handler[T]) Subscription {
	if s == nil || handler == nil {
		return noopSubscription{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return noopSubscription{}
	}
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, subscriber[T]{id: id, handler: handler})
	s.mu.Unlock()

	return SubscriptionFunc(func() {
		s.remove(id)
	})
}

// Emit delivers value to every current handler. Handlers added or removed
// during emission take effect on the next Emit.
func (s *Subject[T]) Emit(value T) {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed || len(s.handlers) == 0 {
		s.mu.Unlock()
		return
	}
	handlers := make([]subscriber[T], len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, sub := range handlers {
		if !s.active(sub.id) {
			continue
		}
		sub.handler(value)
	}
}

// Len returns the number of active handlers.
func (s *Subject[T]) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Close drops every handler; later emissions and subscriptions are ignored.
func (s *Subject[T]) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.closed = true
	s.handlers = nil
	s.mu.Unlock()
}

func (s *Subject[T]) active(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.handlers {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, sub := range s.handlers {
		if sub.id == id {
			s.handlers = append(s.handlers[:idx:idx], s.handlers[idx+1:]...)
			return
		}
	}
}
