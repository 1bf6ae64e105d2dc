// Package telemetry publishes controller state to the operator channel
// over MQTT. Publishing is observability only: failures are logged by the
// caller and never influence the alert path.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/relabs-tech/helmet_sentry/internal/gps"
)

// Event types on the events topic.
const (
	EventStartup     = "STARTUP"
	EventDegraded    = "DEGRADED"
	EventAlertSent   = "ALERT_SENT"
	EventAlertFailed = "ALERT_FAILED"
)

// Status is a periodic snapshot of the controller session.
type Status struct {
	Time            string  `json:"time"`
	HelmetWorn      bool    `json:"helmet_worn"`
	StrapFastened   bool    `json:"strap_fastened"`
	Fix             gps.Fix `json:"fix"`
	HorizontalAccel float64 `json:"horizontal_accel"`
	Accident        bool    `json:"accident"`
	Latched         bool    `json:"latched"`
}

// Event is a one-off lifecycle or alert notification.
type Event struct {
	Time    string `json:"time"`
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Publisher pushes snapshots and events to the operator channel.
type Publisher interface {
	PublishStatus(s Status) error
	PublishEvent(e Event) error
	Close() error
}

// NewEvent stamps an event with the given time.
func NewEvent(now time.Time, eventType, message string) Event {
	return Event{
		Time:    now.UTC().Format(time.RFC3339),
		Type:    eventType,
		Message: message,
	}
}

// FormatStatus renders the status JSON payload.
func FormatStatus(s Status) ([]byte, error) {
	return json.Marshal(s)
}

// FormatEvent renders the event JSON payload.
func FormatEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}
