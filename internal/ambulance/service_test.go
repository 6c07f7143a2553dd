package ambulance_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rapidaid/rapidaid/internal/ambulance"
	"github.com/rapidaid/rapidaid/internal/api/models"
)

func validInput() *models.AmbulanceInput {
	return &models.AmbulanceInput{
		VehicleNumber: "KA-01-AB-1234",
		DriverName:    "Ravi Kumar",
		DriverPhone:   "555-0142",
	}
}

func TestService_Create(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())

	result, err := service.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("failed to create ambulance: %v", err)
	}

	if result.ID == "" {
		t.Error("expected ambulance ID to be set")
	}
	if !strings.HasPrefix(result.ID, "amb_") {
		t.Errorf("expected ambulance ID to start with 'amb_', got %q", result.ID)
	}
	if result.VehicleNumber != "KA-01-AB-1234" {
		t.Errorf("expected vehicle number %q, got %q", "KA-01-AB-1234", result.VehicleNumber)
	}
}

func TestService_Create_ValidationErrors(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*models.AmbulanceInput)
		wantField string
	}{
		{
			name:      "missing vehicle number",
			mutate:    func(in *models.AmbulanceInput) { in.VehicleNumber = "" },
			wantField: "vehicleNumber",
		},
		{
			name:      "missing driver name",
			mutate:    func(in *models.AmbulanceInput) { in.DriverName = "" },
			wantField: "driverName",
		},
		{
			name:      "driver phone too long",
			mutate:    func(in *models.AmbulanceInput) { in.DriverPhone = strings.Repeat("5", 21) },
			wantField: "driverPhone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			_, err := service.Create(ctx, input)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr *ambulance.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field error for %q, got %+v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())

	_, err := service.Get(context.Background(), "amb_nonexistent")
	if !errors.Is(err, ambulance.ErrAmbulanceNotFound) {
		t.Errorf("expected ErrAmbulanceNotFound, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())
	ctx := context.Background()

	created, err := service.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("failed to create ambulance: %v", err)
	}

	input := validInput()
	input.DriverName = "Arjun Mehta"

	updated, err := service.Update(ctx, created.ID, input)
	if err != nil {
		t.Fatalf("failed to update ambulance: %v", err)
	}
	if updated.DriverName != "Arjun Mehta" {
		t.Errorf("expected driver name %q, got %q", "Arjun Mehta", updated.DriverName)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())

	_, err := service.Update(context.Background(), "amb_nonexistent", validInput())
	if !errors.Is(err, ambulance.ErrAmbulanceNotFound) {
		t.Errorf("expected ErrAmbulanceNotFound, got %v", err)
	}
}

func TestService_List_OrderedByVehicleNumber(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())
	ctx := context.Background()

	for _, vn := range []string{"KA-01-B-2222", "KA-01-A-1111", "KA-01-C-3333"} {
		input := validInput()
		input.VehicleNumber = vn
		if _, err := service.Create(ctx, input); err != nil {
			t.Fatalf("failed to create ambulance: %v", err)
		}
	}

	items, err := service.List(ctx)
	if err != nil {
		t.Fatalf("failed to list ambulances: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 ambulances, got %d", len(items))
	}
	want := []string{"KA-01-A-1111", "KA-01-B-2222", "KA-01-C-3333"}
	for i, vn := range want {
		if items[i].VehicleNumber != vn {
			t.Errorf("expected vehicle number %q at index %d, got %q", vn, i, items[i].VehicleNumber)
		}
	}
}

func TestService_Delete(t *testing.T) {
	service := ambulance.NewService(ambulance.NewInMemoryRepository())
	ctx := context.Background()

	created, err := service.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("failed to create ambulance: %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("failed to delete ambulance: %v", err)
	}
	if _, err := service.Get(ctx, created.ID); !errors.Is(err, ambulance.ErrAmbulanceNotFound) {
		t.Errorf("expected ErrAmbulanceNotFound after delete, got %v", err)
	}
}
