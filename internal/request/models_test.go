package request

import "testing"

func TestStatusPresentation(t *testing.T) {
	tests := []struct {
		status    Status
		wantColor string
		wantText  string
	}{
		{StatusPending, "warning", "Finding Ambulance..."},
		{StatusAssigned, "info", "Ambulance Assigned"},
		{StatusEnRoute, "orange", "Ambulance On The Way"},
		{StatusArrived, "success", "Ambulance Arrived"},
		{StatusCompleted, "neutral", "Request Completed"},
		{StatusCancelled, "danger", "Request Cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			color, text := tt.status.Presentation()
			if color != tt.wantColor {
				t.Errorf("color = %q, want %q", color, tt.wantColor)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestStatusPresentation_UnknownFallsBackToNeutral(t *testing.T) {
	color, text := Status("dispatched").Presentation()
	if color != "neutral" {
		t.Errorf("color = %q, want %q", color, "neutral")
	}
	if text != "dispatched" {
		t.Errorf("text = %q, want raw status string", text)
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "assigned", "en_route", "arrived", "completed", "cancelled"} {
		if _, ok := ParseStatus(valid); !ok {
			t.Errorf("ParseStatus(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "dispatched", "PENDING", "enroute"} {
		if _, ok := ParseStatus(invalid); ok {
			t.Errorf("ParseStatus(%q) = true, want false", invalid)
		}
	}
}

func TestParseEmergencyType(t *testing.T) {
	for _, valid := range []string{"cardiac", "accident", "breathing", "trauma", "stroke", "other"} {
		if _, ok := ParseEmergencyType(valid); !ok {
			t.Errorf("ParseEmergencyType(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "heart", "Cardiac"} {
		if _, ok := ParseEmergencyType(invalid); ok {
			t.Errorf("ParseEmergencyType(%q) = true, want false", invalid)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Error("expected completed and cancelled to be terminal")
	}
	for _, s := range []Status{StatusPending, StatusAssigned, StatusEnRoute, StatusArrived} {
		if s.Terminal() {
			t.Errorf("expected %q to be non-terminal", s)
		}
	}
}
