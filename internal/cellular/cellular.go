// Package cellular sends SMS messages through a UART-attached GSM modem.
// AT-command framing lives entirely in this package; callers only see
// destination and text.
package cellular

// Sender delivers one SMS. A returned error means the single attempt
// failed; the core never retries.
type Sender interface {
	SendSMS(destination, text string) error
	Close() error
}
