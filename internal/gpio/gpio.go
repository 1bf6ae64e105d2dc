// Package gpio reads the strap-clasp switch and the IR proximity sensor
// through the Linux GPIO character device. A fake implementation allows
// testing without hardware.
package gpio

// Reader reads the two helmet switch lines.
type Reader interface {
	// Read returns the raw levels of the strap-clasp line and the IR
	// proximity line. No inversion happens here; the wear package owns
	// the polarity semantics.
	Read() (strapActive, proximityActive bool, err error)

	// Close releases GPIO resources.
	Close() error
}
