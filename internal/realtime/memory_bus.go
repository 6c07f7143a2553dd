package realtime

import (
	"context"
	"sync"

	"github.com/rapidaid/rapidaid/internal/api/models"
)

// InMemoryBus is an in-process Bus with the same last-write-wins
// delivery semantics as NATSBus. This is intended for testing.
type InMemoryBus struct {
	mu     sync.Mutex
	subs   map[string][]*memorySubscription
	closed bool
}

// NewInMemoryBus creates a new in-process bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		subs: make(map[string][]*memorySubscription),
	}
}

// PublishRequestUpdated delivers a snapshot to all subscribers of the
// request's subject.
func (b *InMemoryBus) PublishRequestUpdated(_ context.Context, req *models.Request) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	subs := make([]*memorySubscription, len(b.subs[req.ID]))
	copy(subs, b.subs[req.ID])
	b.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(req)
	}

	return nil
}

// SubscribeRequest subscribes to one request's change feed.
func (b *InMemoryBus) SubscribeRequest(requestID string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &memorySubscription{
		bus:       b,
		requestID: requestID,
		updates:   make(chan *models.Request, subscriptionBuffer),
	}
	b.subs[requestID] = append(b.subs[requestID], sub)
	return sub, nil
}

// Close tears down all subscriptions.
func (b *InMemoryBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var all []*memorySubscription
	for _, subs := range b.subs {
		all = append(all, subs...)
	}
	b.subs = make(map[string][]*memorySubscription)
	b.mu.Unlock()

	for _, sub := range all {
		sub.closeChannel()
	}
}

// SubscriberCount reports the number of live subscriptions for a
// request. Used by teardown tests.
func (b *InMemoryBus) SubscriberCount(requestID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[requestID])
}

type memorySubscription struct {
	bus       *InMemoryBus
	requestID string
	updates   chan *models.Request

	mu   sync.Mutex
	done bool
}

func (s *memorySubscription) deliver(req *models.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}

	for {
		select {
		case s.updates <- req:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

func (s *memorySubscription) Updates() <-chan *models.Request {
	return s.updates
}

func (s *memorySubscription) Unsubscribe() {
	s.bus.mu.Lock()
	subs := s.bus.subs[s.requestID]
	for i, sub := range subs {
		if sub == s {
			s.bus.subs[s.requestID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.bus.mu.Unlock()

	s.closeChannel()
}

func (s *memorySubscription) closeChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	close(s.updates)
}

// Ensure InMemoryBus implements Bus interface.
var _ Bus = (*InMemoryBus)(nil)
