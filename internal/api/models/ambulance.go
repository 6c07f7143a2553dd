package models

// Ambulance represents a vehicle in the fleet directory.
type Ambulance struct {
	ID            string    `json:"id"`
	VehicleNumber string    `json:"vehicleNumber"`
	DriverName    string    `json:"driverName"`
	DriverPhone   string    `json:"driverPhone"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// AmbulanceInput is the input for creating or updating an ambulance.
type AmbulanceInput struct {
	VehicleNumber string `json:"vehicleNumber"`
	DriverName    string `json:"driverName"`
	DriverPhone   string `json:"driverPhone"`
}

// AmbulanceList is the response for listing the fleet.
type AmbulanceList struct {
	Items []Ambulance `json:"items"`
}
