// Package auth provides authentication services for RapidAid.
package auth

import (
	"regexp"
	"time"
)

// User represents an authenticated user in the system.
type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed in API payloads
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// emailRegex is a light-weight sanity check, not a full RFC validation.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// FullName and PhoneNumber seed the profile used to prefill the
	// submission form. Both are optional at registration.
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Validate validates the registration request.
func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required", Code: "REQUIRED"})
	} else if !emailRegex.MatchString(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "email is not valid", Code: "FORMAT"})
	}

	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required", Code: "REQUIRED"})
	} else if len(r.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters", Code: "TOO_SHORT"})
	}

	return errs
}

// LoginRequest represents the request body for password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required", Code: "REQUIRED"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required", Code: "REQUIRED"})
	}

	return errs
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	RefreshToken string `json:"refreshToken,omitempty"`

	// User contains the authenticated user's information.
	User *User `json:"user"`
}

// RefreshTokenRequest represents the request to refresh an access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate validates the refresh token request.
func (r *RefreshTokenRequest) Validate() []FieldError {
	var errs []FieldError

	if r.RefreshToken == "" {
		errs = append(errs, FieldError{Field: "refreshToken", Message: "refresh token is required", Code: "REQUIRED"})
	}

	return errs
}
