package models

// Profile represents a user's contact profile, used to prefill the
// request submission form. A user without a stored profile gets blanks.
type Profile struct {
	UserID      string    `json:"userId"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// ProfileInput is the input for creating or updating a profile.
type ProfileInput struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}
