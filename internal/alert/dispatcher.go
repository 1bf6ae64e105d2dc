package alert

import (
	"fmt"
	"log"

	"github.com/relabs-tech/helmet_sentry/internal/cellular"
	"github.com/relabs-tech/helmet_sentry/internal/gps"
	"github.com/relabs-tech/helmet_sentry/internal/rf"
)

// Dispatcher delivers a latched alert over the two independent channels.
// Either collaborator may be nil when the controller runs degraded; a nil
// channel is skipped, the other still gets its one attempt.
type Dispatcher struct {
	rf    rf.Sender
	sms   cellular.Sender
	admin string
}

// NewDispatcher builds a dispatcher targeting the fixed administrator
// number.
func NewDispatcher(rfSender rf.Sender, smsSender cellular.Sender, adminNumber string) *Dispatcher {
	return &Dispatcher{rf: rfSender, sms: smsSender, admin: adminNumber}
}

// FormatSMS renders the alert text with the last known coordinates at six
// decimal places and a map link.
func FormatSMS(fix gps.Fix) string {
	return fmt.Sprintf(
		"Crash detected. Last position: %.6f, %.6f https://maps.google.com/?q=%.6f,%.6f",
		fix.Latitude, fix.Longitude, fix.Latitude, fix.Longitude,
	)
}

// Dispatch makes the single delivery attempt on both channels. The RF
// beacon is fire-and-forget; the SMS outcome decides the returned error.
// Failure is terminal for the event, callers must not retry.
func (d *Dispatcher) Dispatch(fix gps.Fix) error {
	if d.rf != nil {
		if err := d.rf.Send(rf.PayloadAlert); err != nil {
			log.Printf("alert: RF beacon send failed: %v", err)
		}
	}

	if d.sms == nil {
		return fmt.Errorf("alert: cellular channel unavailable")
	}
	if err := d.sms.SendSMS(d.admin, FormatSMS(fix)); err != nil {
		return fmt.Errorf("alert: SMS send failed: %w", err)
	}
	return nil
}
