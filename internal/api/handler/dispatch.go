package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/api/response"
	"github.com/rapidaid/rapidaid/internal/request"
)

// DispatchHandler handles the operator-facing dispatch endpoints:
// the active request board, status updates and the fleet directory.
type DispatchHandler struct {
	requests   *request.Service
	ambulances *ambulance.Service
	logger     zerolog.Logger
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(requests *request.Service, ambulances *ambulance.Service, logger zerolog.Logger) *DispatchHandler {
	return &DispatchHandler{
		requests:   requests,
		ambulances: ambulances,
		logger:     logger.With().Str("component", "dispatch_handler").Logger(),
	}
}

// ListRequests handles GET /v1/dispatch/requests - all active
// requests, oldest first.
func (h *DispatchHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	list, err := h.requests.DispatchList(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list active requests")
		response.InternalError(w, r, "failed to list active requests")
		return
	}

	response.JSON(w, r, http.StatusOK, list)
}

// UpdateRequest handles PATCH /v1/dispatch/requests/{requestID}.
func (h *DispatchHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var input models.DispatchUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	result, err := h.requests.DispatchUpdate(r.Context(), requestID, &input)
	if err != nil {
		var valErr *request.ValidationError
		if errors.As(err, &valErr) {
			response.BadRequest(w, r, "validation failed", valErr.Errors)
			return
		}
		if errors.Is(err, request.ErrRequestNotFound) {
			response.NotFound(w, r, "request not found")
			return
		}
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to update request")
		response.InternalError(w, r, "failed to update request")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// ListAmbulances handles GET /v1/dispatch/ambulances.
func (h *DispatchHandler) ListAmbulances(w http.ResponseWriter, r *http.Request) {
	items, err := h.ambulances.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list ambulances")
		response.InternalError(w, r, "failed to list ambulances")
		return
	}

	response.JSON(w, r, http.StatusOK, &models.AmbulanceList{Items: items})
}

// GetAmbulance handles GET /v1/dispatch/ambulances/{ambulanceID}.
func (h *DispatchHandler) GetAmbulance(w http.ResponseWriter, r *http.Request) {
	ambulanceID := chi.URLParam(r, "ambulanceID")

	result, err := h.ambulances.Get(r.Context(), ambulanceID)
	if err != nil {
		if errors.Is(err, ambulance.ErrAmbulanceNotFound) {
			response.NotFound(w, r, "ambulance not found")
			return
		}
		h.logger.Error().Err(err).Str("ambulance_id", ambulanceID).Msg("failed to load ambulance")
		response.InternalError(w, r, "failed to load ambulance")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// CreateAmbulance handles POST /v1/dispatch/ambulances.
func (h *DispatchHandler) CreateAmbulance(w http.ResponseWriter, r *http.Request) {
	var input models.AmbulanceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	result, err := h.ambulances.Create(r.Context(), &input)
	if err != nil {
		var valErr *ambulance.ValidationError
		if errors.As(err, &valErr) {
			response.BadRequest(w, r, "validation failed", valErr.Errors)
			return
		}
		h.logger.Error().Err(err).Msg("failed to create ambulance")
		response.InternalError(w, r, "failed to create ambulance")
		return
	}

	response.Created(w, r, "/v1/dispatch/ambulances/"+result.ID, result)
}

// UpdateAmbulance handles PUT /v1/dispatch/ambulances/{ambulanceID}.
func (h *DispatchHandler) UpdateAmbulance(w http.ResponseWriter, r *http.Request) {
	ambulanceID := chi.URLParam(r, "ambulanceID")

	var input models.AmbulanceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	result, err := h.ambulances.Update(r.Context(), ambulanceID, &input)
	if err != nil {
		var valErr *ambulance.ValidationError
		if errors.As(err, &valErr) {
			response.BadRequest(w, r, "validation failed", valErr.Errors)
			return
		}
		if errors.Is(err, ambulance.ErrAmbulanceNotFound) {
			response.NotFound(w, r, "ambulance not found")
			return
		}
		h.logger.Error().Err(err).Str("ambulance_id", ambulanceID).Msg("failed to update ambulance")
		response.InternalError(w, r, "failed to update ambulance")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// DeleteAmbulance handles DELETE /v1/dispatch/ambulances/{ambulanceID}.
func (h *DispatchHandler) DeleteAmbulance(w http.ResponseWriter, r *http.Request) {
	ambulanceID := chi.URLParam(r, "ambulanceID")

	if err := h.ambulances.Delete(r.Context(), ambulanceID); err != nil {
		if errors.Is(err, ambulance.ErrAmbulanceNotFound) {
			response.NotFound(w, r, "ambulance not found")
			return
		}
		h.logger.Error().Err(err).Str("ambulance_id", ambulanceID).Msg("failed to delete ambulance")
		response.InternalError(w, r, "failed to delete ambulance")
		return
	}

	response.NoContent(w, r)
}
