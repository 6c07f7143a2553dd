package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/api/models"
)

// NATSBus is a Bus backed by a NATS connection. One subject per
// request keeps per-request ordering as long as there is a single
// publisher, which is the dispatch update path.
type NATSBus struct {
	conn   *nats.Conn
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewNATSBus connects to a NATS server and returns a bus.
func NewNATSBus(url string, logger zerolog.Logger) (*NATSBus, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	return &NATSBus{
		conn:   conn,
		logger: logger.With().Str("component", "realtime_bus").Logger(),
	}, nil
}

// PublishRequestUpdated publishes a request snapshot to its subject.
func (b *NATSBus) PublishRequestUpdated(_ context.Context, req *models.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request snapshot: %w", err)
	}

	if err := b.conn.Publish(SubjectForRequest(req.ID), data); err != nil {
		return fmt.Errorf("failed to publish request update: %w", err)
	}

	return nil
}

// SubscribeRequest subscribes to one request's change feed.
func (b *NATSBus) SubscribeRequest(requestID string) (Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	b.mu.Unlock()

	sub := &natsSubscription{
		updates: make(chan *models.Request, subscriptionBuffer),
	}

	natsSub, err := b.conn.Subscribe(SubjectForRequest(requestID), func(msg *nats.Msg) {
		var req models.Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			b.logger.Warn().Err(err).
				Str("subject", msg.Subject).
				Msg("dropping malformed change event")
			return
		}
		sub.deliver(&req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to request updates: %w", err)
	}

	sub.unsubscribe = func() { _ = natsSub.Unsubscribe() }
	return sub, nil
}

// IsConnected reports whether the underlying NATS connection is up.
// Used by the readiness probe.
func (b *NATSBus) IsConnected() bool {
	return b.conn.IsConnected()
}

// Close drains the connection.
func (b *NATSBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.conn.Close()
}

const subscriptionBuffer = 16

type natsSubscription struct {
	updates     chan *models.Request
	unsubscribe func()

	mu   sync.Mutex
	done bool
}

// deliver pushes a snapshot to the consumer. A slow consumer loses the
// oldest buffered snapshot: only the latest state matters.
func (s *natsSubscription) deliver(req *models.Request) {
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

func (s *natsSubscription) Updates() <-chan *models.Request {
	return s.updates
}

func (s *natsSubscription) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	close(s.updates)
}

// Ensure NATSBus implements Bus interface.
var _ Bus = (*NATSBus)(nil)
