// Package rf drives the short-range RF beacon transmitter. Sends are
// best-effort: the controller fires a frame and never waits for an
// acknowledgement.
package rf

// Sender transmits one raw frame over the local RF link.
type Sender interface {
	Send(payload []byte) error
	Close() error
}

// Well-known beacon payloads.
var (
	// PayloadWorn is broadcast once when the helmet enters the
	// properly-worn state.
	PayloadWorn = []byte("ON")

	// PayloadAlert is broadcast when the accident alert fires.
	PayloadAlert = []byte("SOS")
)
