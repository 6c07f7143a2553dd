package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/api/response"
	"github.com/rapidaid/rapidaid/internal/user"
)

// ProfileHandler handles the caller's contact profile.
type ProfileHandler struct {
	users  *user.Service
	logger zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users *user.Service, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		users:  users,
		logger: logger.With().Str("component", "profile_handler").Logger(),
	}
}

// GetProfile handles GET /v1/me/profile. A user who has never saved a
// profile gets a blank one back rather than a 404.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load profile")
		response.InternalError(w, r, "failed to load profile")
		return
	}

	response.JSON(w, r, http.StatusOK, profile)
}

// UpsertProfile handles PUT /v1/me/profile.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	profile, err := h.users.UpsertProfile(r.Context(), userID, &input)
	if err != nil {
		var valErr *user.ValidationError
		if errors.As(err, &valErr) {
			response.BadRequest(w, r, "validation failed", valErr.Errors)
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save profile")
		response.InternalError(w, r, "failed to save profile")
		return
	}

	response.JSON(w, r, http.StatusOK, profile)
}
