package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/api/middleware"
	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/api/response"
	"github.com/rapidaid/rapidaid/internal/realtime"
	"github.com/rapidaid/rapidaid/internal/request"
)

const (
	trackWriteTimeout = 10 * time.Second
	trackPongTimeout  = 60 * time.Second
	trackPingInterval = 30 * time.Second
)

// TrackHandler streams live tracking frames for a request over a
// WebSocket. Frames carry the full request snapshot; consumers render
// the latest one and discard anything they missed.
type TrackHandler struct {
	requests *request.Service
	session  *realtime.Session
	metrics  *middleware.TrackingMetrics
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewTrackHandler creates a new TrackHandler. metrics may be nil.
func NewTrackHandler(requests *request.Service, session *realtime.Session, metrics *middleware.TrackingMetrics, logger zerolog.Logger) *TrackHandler {
	return &TrackHandler{
		requests: requests,
		session:  session,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser clients authenticate with a bearer token, not
			// cookies, so cross-origin upgrades carry no ambient
			// credentials to protect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "track_handler").Logger(),
	}
}

// Track handles GET /v1/requests/{requestID}/track. Ownership is
// checked before the upgrade, so an unknown or foreign request id
// reads as a plain 404 problem response.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	initial, err := h.requests.Get(r.Context(), userID, requestID)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			response.NotFound(w, r, "request not found")
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to load request")
		response.InternalError(w, r, "failed to load request")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		h.logger.Warn().Err(err).Str("request_id", requestID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if h.metrics != nil {
		h.metrics.SessionStarted(ctx)
		defer h.metrics.SessionEnded(context.WithoutCancel(ctx))
	}

	go h.readPump(conn, cancel)
	go h.pingPump(ctx, conn)

	sink := &wsSink{ctx: ctx, conn: conn, metrics: h.metrics}
	if err := h.session.Run(ctx, initial, sink); err != nil {
		h.logger.Warn().Err(err).Str("request_id", requestID).Msg("tracking session ended with error")
		_ = sink.Send(&models.TrackEvent{
			Type:    models.TrackEventError,
			Message: "tracking session ended",
		})
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "tracking session ended"),
			time.Now().Add(trackWriteTimeout))
		return
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(trackWriteTimeout))
}

// readPump drains the connection so control frames are processed, and
// cancels the session when the client goes away. Clients do not send
// data frames; anything received is discarded.
func (h *TrackHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(trackPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(trackPongTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *TrackHandler) pingPump(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(trackPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(trackWriteTimeout)); err != nil {
				return
			}
		}
	}
}

// wsSink delivers tracking frames over a WebSocket connection.
type wsSink struct {
	ctx     context.Context
	conn    *websocket.Conn
	metrics *middleware.TrackingMetrics
}

var _ realtime.Sink = (*wsSink)(nil)

func (s *wsSink) Send(event *models.TrackEvent) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(trackWriteTimeout))
	if err := s.conn.WriteJSON(event); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.FramePushed(s.ctx)
	}
	return nil
}
