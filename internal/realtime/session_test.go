package realtime_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/realtime"
)

// countingDirectory counts ambulance lookups.
type countingDirectory struct {
	repo    *ambulance.InMemoryRepository
	lookups int64
}

func (d *countingDirectory) Get(ctx context.Context, id string) (*ambulance.Ambulance, error) {
	atomic.AddInt64(&d.lookups, 1)
	return d.repo.Get(ctx, id)
}

func (d *countingDirectory) count() int64 {
	return atomic.LoadInt64(&d.lookups)
}

// channelSink forwards frames to a channel so tests can await them.
type channelSink struct {
	events chan *models.TrackEvent
	err    error
}

func newChannelSink() *channelSink {
	return &channelSink{events: make(chan *models.TrackEvent, 16)}
}

func (s *channelSink) Send(event *models.TrackEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events <- event
	return nil
}

func (s *channelSink) next(t *testing.T) *models.TrackEvent {
	t.Helper()
	select {
	case event := <-s.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tracking frame")
		return nil
	}
}

func pendingRequest(id string) *models.Request {
	return &models.Request{
		ID:            id,
		PatientName:   "Jane Doe",
		PatientPhone:  "555-0100",
		EmergencyType: "cardiac",
		Pickup:        models.Point{Lat: 12.9, Lon: 77.6},
		PickupAddress: "MG Road, Bengaluru",
		Status:        "pending",
		StatusColor:   "warning",
		StatusText:    "Finding Ambulance...",
	}
}

func seedDirectory(t *testing.T) *countingDirectory {
	t.Helper()
	repo := ambulance.NewInMemoryRepository()
	err := repo.Create(context.Background(), &ambulance.Ambulance{
		ID:            "amb_1",
		VehicleNumber: "KA-01-AB-1234",
		DriverName:    "Ravi Kumar",
		DriverPhone:   "555-0142",
	})
	if err != nil {
		t.Fatalf("failed to seed ambulance: %v", err)
	}
	return &countingDirectory{repo: repo}
}

func TestSession_SnapshotPushedOnConnect(t *testing.T) {
	bus := realtime.NewInMemoryBus()
	defer bus.Close()
	directory := seedDirectory(t)
	sink := newChannelSink()
	session := realtime.NewSession(bus, directory, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, pendingRequest("req_1"), sink) }()

	snapshot := sink.next(t)
	if snapshot.Type != models.TrackEventSnapshot {
		t.Errorf("expected snapshot frame, got %q", snapshot.Type)
	}
	if snapshot.Request.Status != "pending" {
		t.Errorf("expected pending snapshot, got %q", snapshot.Request.Status)
	}
	if snapshot.Ambulance != nil {
		t.Error("expected no ambulance payload on a pending snapshot")
	}
	if directory.count() != 0 {
		t.Errorf("expected no directory lookups, got %d", directory.count())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean teardown, got %v", err)
	}
}

func TestSession_AmbulanceChangeLooksUpExactlyOnce(t *testing.T) {
	bus := realtime.NewInMemoryBus()
	defer bus.Close()
	directory := seedDirectory(t)
	sink := newChannelSink()
	session := realtime.NewSession(bus, directory, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, pendingRequest("req_1"), sink) }()
	sink.next(t) // snapshot

	ambID := "amb_1"
	assigned := pendingRequest("req_1")
	assigned.Status = "assigned"
	assigned.StatusColor = "info"
	assigned.StatusText = "Ambulance Assigned"
	assigned.AmbulanceID = &ambID

	if err := bus.PublishRequestUpdated(ctx, assigned); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	update := sink.next(t)
	if update.Type != models.TrackEventUpdate {
		t.Errorf("expected update frame, got %q", update.Type)
	}
	if update.Request.Status != "assigned" {
		t.Errorf("expected snapshot replaced with assigned, got %q", update.Request.Status)
	}
	if update.Ambulance == nil || update.Ambulance.VehicleNumber != "KA-01-AB-1234" {
		t.Errorf("expected ambulance payload, got %+v", update.Ambulance)
	}
	if directory.count() != 1 {
		t.Errorf("expected exactly 1 directory lookup, got %d", directory.count())
	}

	// Same ambulance again: no new lookup, no payload, consumer keeps
	// the one it already has.
	enRoute := pendingRequest("req_1")
	enRoute.Status = "en_route"
	enRoute.AmbulanceID = &ambID
	if err := bus.PublishRequestUpdated(ctx, enRoute); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	update = sink.next(t)
	if update.Request.Status != "en_route" {
		t.Errorf("expected en_route snapshot, got %q", update.Request.Status)
	}
	if update.Ambulance != nil {
		t.Error("expected no ambulance payload when the assignment is unchanged")
	}
	if directory.count() != 1 {
		t.Errorf("expected still 1 directory lookup, got %d", directory.count())
	}

	cancel()
	<-done
}

func TestSession_CancelledEventCarriesNoAmbulancePayload(t *testing.T) {
	bus := realtime.NewInMemoryBus()
	defer bus.Close()
	directory := seedDirectory(t)
	sink := newChannelSink()
	session := realtime.NewSession(bus, directory, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ambID := "amb_1"
	initial := pendingRequest("req_1")
	initial.Status = "assigned"
	initial.AmbulanceID = &ambID

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, initial, sink) }()
	sink.next(t) // snapshot, includes ambulance

	cancelled := pendingRequest("req_1")
	cancelled.Status = "cancelled"
	cancelled.StatusColor = "danger"
	cancelled.StatusText = "Request Cancelled"
	cancelled.AmbulanceID = &ambID
	if err := bus.PublishRequestUpdated(ctx, cancelled); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	update := sink.next(t)
	if update.Request.StatusColor != "danger" || update.Request.StatusText != "Request Cancelled" {
		t.Errorf("unexpected presentation: %q / %q", update.Request.StatusColor, update.Request.StatusText)
	}
	if update.Ambulance != nil {
		t.Error("expected ambulance panel untouched on a cancellation")
	}
	if directory.count() != 1 {
		t.Errorf("expected only the snapshot lookup, got %d", directory.count())
	}

	cancel()
	<-done
}

func TestSession_TeardownOnContextCancel(t *testing.T) {
	bus := realtime.NewInMemoryBus()
	defer bus.Close()
	directory := seedDirectory(t)
	sink := newChannelSink()
	session := realtime.NewSession(bus, directory, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, pendingRequest("req_1"), sink) }()
	sink.next(t) // snapshot

	if bus.SubscriberCount("req_1") != 1 {
		t.Fatalf("expected 1 subscriber, got %d", bus.SubscriberCount("req_1"))
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean teardown, got %v", err)
	}
	if bus.SubscriberCount("req_1") != 0 {
		t.Errorf("expected subscription torn down, got %d subscribers", bus.SubscriberCount("req_1"))
	}

	// Publishing after teardown must not reach the sink.
	if err := bus.PublishRequestUpdated(context.Background(), pendingRequest("req_1")); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	select {
	case event := <-sink.events:
		t.Errorf("received frame after teardown: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSession_SinkFailureEndsSession(t *testing.T) {
	bus := realtime.NewInMemoryBus()
	defer bus.Close()
	directory := seedDirectory(t)
	sink := newChannelSink()
	sink.err = errors.New("connection reset")
	session := realtime.NewSession(bus, directory, zerolog.Nop())

	err := session.Run(context.Background(), pendingRequest("req_1"), sink)
	if err == nil {
		t.Fatal("expected sink error to end the session")
	}
	if bus.SubscriberCount("req_1") != 0 {
		t.Errorf("expected subscription torn down, got %d subscribers", bus.SubscriberCount("req_1"))
	}
}
