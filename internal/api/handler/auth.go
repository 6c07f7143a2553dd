package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/api/response"
	"github.com/rapidaid/rapidaid/internal/auth"
	"github.com/rapidaid/rapidaid/internal/user"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth   *auth.Service
	users  *user.Service
	logger zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler. users may be nil, in which
// case registration does not seed a profile.
func NewAuthHandler(authService *auth.Service, users *user.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		users:  users,
		logger: logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", toAPIFieldErrors(errs))
		return
	}

	tokens, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			response.Conflict(w, r, "an account with this email already exists")
			return
		}
		h.logger.Error().Err(err).Msg("registration failed")
		response.InternalError(w, r, "registration failed")
		return
	}

	if h.users != nil && tokens.User != nil {
		if err := h.users.SeedProfile(r.Context(), tokens.User.ID, req.FullName, req.PhoneNumber); err != nil {
			h.logger.Warn().Err(err).Str("user_id", tokens.User.ID).Msg("failed to seed profile")
		}
	}

	response.JSON(w, r, http.StatusCreated, tokens)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", toAPIFieldErrors(errs))
		return
	}

	tokens, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokens)
}

// Refresh handles POST /v1/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", toAPIFieldErrors(errs))
		return
	}

	tokens, err := h.auth.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) || errors.Is(err, auth.ErrRefreshTokenExpired) {
			response.Unauthorized(w, r, "invalid or expired refresh token")
			return
		}
		h.logger.Error().Err(err).Msg("token refresh failed")
		response.InternalError(w, r, "token refresh failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokens)
}

// Logout handles POST /v1/auth/logout. Revokes the presented refresh
// token; an already-revoked token is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", toAPIFieldErrors(errs))
		return
	}

	if err := h.auth.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
		h.logger.Warn().Err(err).Msg("refresh token revocation failed")
	}

	response.NoContent(w, r)
}

// LogoutAll handles POST /v1/auth/logout-all. Requires authentication;
// revokes every refresh token issued to the caller.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	if err := h.auth.RevokeAllTokens(r.Context(), userID); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("token revocation failed")
		response.InternalError(w, r, "logout failed")
		return
	}

	response.NoContent(w, r)
}

func toAPIFieldErrors(errs []auth.FieldError) []models.FieldError {
	out := make([]models.FieldError, len(errs))
	for i, e := range errs {
		out[i] = models.FieldError{Field: e.Field, Message: e.Message, Code: e.Code}
	}
	return out
}
