package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/api/response"
	"github.com/rapidaid/rapidaid/internal/request"
	"github.com/rapidaid/rapidaid/internal/user"
)

// RequestHandler handles emergency request submission and retrieval.
type RequestHandler struct {
	requests *request.Service
	users    *user.Service
	logger   zerolog.Logger
}

// NewRequestHandler creates a new RequestHandler. users may be nil, in
// which case blank patient details are not prefilled from the profile.
func NewRequestHandler(requests *request.Service, users *user.Service, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		users:    users,
		logger:   logger.With().Str("component", "request_handler").Logger(),
	}
}

// Create handles POST /v1/requests.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.RequestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	h.prefillFromProfile(r, userID, &input)

	result, err := h.requests.Create(r.Context(), userID, &input)
	if err != nil {
		var valErr *request.ValidationError
		if errors.As(err, &valErr) {
			response.BadRequest(w, r, "validation failed", valErr.Errors)
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create request")
		response.InternalError(w, r, "failed to create request")
		return
	}

	response.Created(w, r, "/v1/requests/"+result.ID, result)
}

// List handles GET /v1/requests - the caller's requests, newest first.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	list, err := h.requests.List(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list requests")
		response.InternalError(w, r, "failed to list requests")
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}

// Get handles GET /v1/requests/{requestID}. Lookups are scoped to the
// caller, so another user's request id reads as not found.
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	result, err := h.requests.Get(r.Context(), userID, requestID)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			response.NotFound(w, r, "request not found")
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to load request")
		response.InternalError(w, r, "failed to load request")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// prefillFromProfile fills blank patient details from the caller's
// saved profile. Profile errors are ignored; validation catches the
// blanks downstream.
func (h *RequestHandler) prefillFromProfile(r *http.Request, userID string, input *models.RequestCreateRequest) {
	if h.users == nil {
		return
	}
	if strings.TrimSpace(input.PatientName) != "" && strings.TrimSpace(input.PatientPhone) != "" {
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("profile prefill skipped")
		return
	}
	if strings.TrimSpace(input.PatientName) == "" {
		input.PatientName = profile.FullName
	}
	if strings.TrimSpace(input.PatientPhone) == "" {
		input.PatientPhone = profile.PhoneNumber
	}
}
