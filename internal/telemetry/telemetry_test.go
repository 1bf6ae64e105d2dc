package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/relabs-tech/helmet_sentry/internal/gps"
)

func TestFormatStatusFieldNames(t *testing.T) {
	payload, err := FormatStatus(Status{
		Time:            "2026-08-27T10:00:00Z",
		HelmetWorn:      true,
		StrapFastened:   true,
		Fix:             gps.Fix{Latitude: 1.5, Longitude: 2.5, SpeedMps: 10, Valid: true, Satellites: 7},
		HorizontalAccel: 3.25,
	})
	if err != nil {
		t.Fatalf("FormatStatus() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	for _, key := range []string{"time", "helmet_worn", "strap_fastened", "fix", "horizontal_accel", "accident", "latched"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("status payload missing %q field", key)
		}
	}

	fix, ok := decoded["fix"].(map[string]any)
	if !ok {
		t.Fatal("fix field should be an object")
	}
	if fix["satellites"] != float64(7) {
		t.Errorf("fix.satellites = %v, want 7", fix["satellites"])
	}
}

func TestNewEventStampsUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	e := NewEvent(time.Date(2026, 8, 27, 11, 0, 0, 0, loc), EventAlertSent, "sent")

	if e.Time != "2026-08-27T10:00:00Z" {
		t.Errorf("event time = %q, want UTC RFC3339", e.Time)
	}
	if e.Type != EventAlertSent {
		t.Errorf("event type = %q", e.Type)
	}
}

func TestFormatEventOmitsEmptyMessage(t *testing.T) {
	payload, err := FormatEvent(Event{Time: "2026-08-27T10:00:00Z", Type: EventStartup})
	if err != nil {
		t.Fatalf("FormatEvent() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := decoded["message"]; ok {
		t.Error("empty message should be omitted from the payload")
	}
}
