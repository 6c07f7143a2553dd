// Package realtime provides the request change feed: dispatch updates
// are published to one subject per request and consumed by tracking
// sessions. Delivery is last-write-wins; consumers replace their
// snapshot wholesale and no sequence guard is applied.
package realtime

import (
	"context"
	"errors"

	"github.com/rapidaid/rapidaid/internal/api/models"
)

// Bus errors.
var (
	ErrBusClosed = errors.New("realtime bus closed")
)

// SubjectForRequest returns the change-feed subject for a request.
func SubjectForRequest(requestID string) string {
	return "requests." + requestID + ".updated"
}

// Bus publishes and subscribes to request change events.
type Bus interface {
	// PublishRequestUpdated publishes a request snapshot to the
	// request's subject.
	PublishRequestUpdated(ctx context.Context, req *models.Request) error

	// SubscribeRequest subscribes to change events for one request.
	// The caller must call Unsubscribe when done.
	SubscribeRequest(requestID string) (Subscription, error)

	// Close tears down the bus. Open subscriptions are drained.
	Close()
}

// Subscription is a live subscription to one request's change feed.
type Subscription interface {
	// Updates yields request snapshots as they are delivered. The
	// channel is closed on Unsubscribe or bus shutdown.
	Updates() <-chan *models.Request

	// Unsubscribe tears the subscription down. Idempotent.
	Unsubscribe()
}
