package models

// Request represents an emergency ambulance request.
type Request struct {
	ID            string     `json:"id"`
	PatientName   string     `json:"patientName"`
	PatientPhone  string     `json:"patientPhone"`
	EmergencyType string     `json:"emergencyType"`
	Pickup        Point      `json:"pickup"`
	PickupAddress string     `json:"pickupAddress"`
	Notes         *string    `json:"notes,omitempty"`
	Status        string     `json:"status"`
	StatusColor   string     `json:"statusColor"`
	StatusText    string     `json:"statusText"`
	AmbulanceID   *string    `json:"ambulanceId,omitempty"`
	Ambulance     *Ambulance `json:"ambulance,omitempty"`
	CreatedAt     Timestamp  `json:"createdAt"`
	UpdatedAt     Timestamp  `json:"updatedAt"`
}

// RequestCreateRequest is the input for submitting an emergency request.
// Pickup is a pointer so a missing location is distinguishable from (0, 0).
type RequestCreateRequest struct {
	PatientName   string  `json:"patientName"`
	PatientPhone  string  `json:"patientPhone"`
	EmergencyType string  `json:"emergencyType"`
	Pickup        *Point  `json:"pickup"`
	Notes         *string `json:"notes,omitempty"`
}

// RequestList is the response for listing a user's requests.
type RequestList struct {
	Items []Request `json:"items"`
}

// DispatchUpdateRequest is the operator input for updating a request.
// Both fields are optional; at least one must be present.
type DispatchUpdateRequest struct {
	Status      *string `json:"status,omitempty"`
	AmbulanceID *string `json:"ambulanceId,omitempty"`
}

// Track event types pushed over a tracking WebSocket.
const (
	TrackEventSnapshot = "snapshot"
	TrackEventUpdate   = "update"
	TrackEventError    = "error"
)

// TrackEvent is a frame pushed over a tracking WebSocket. The request
// replaces the client's snapshot wholesale; the ambulance payload is
// present only on frames where the assigned ambulance appeared or changed.
type TrackEvent struct {
	Type      string     `json:"type"`
	Request   *Request   `json:"request,omitempty"`
	Ambulance *Ambulance `json:"ambulance,omitempty"`
	Message   string     `json:"message,omitempty"`
}
