//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the switch lines from actual hardware.
type RealReader struct {
	chip      *gpiocdev.Chip
	strap     *gpiocdev.Line
	proximity *gpiocdev.Line
}

// NewRealReader requests the two switch lines as inputs with pull-down,
// matching the external divider on the strap switch and the open-collector
// output of the IR module.
func NewRealReader(chipName string, strapPin, proximityPin int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	strap, err := chip.RequestLine(strapPin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request strap pin %d: %w", strapPin, err)
	}

	proximity, err := chip.RequestLine(proximityPin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		strap.Close()
		chip.Close()
		return nil, fmt.Errorf("request proximity pin %d: %w", proximityPin, err)
	}

	return &RealReader{chip: chip, strap: strap, proximity: proximity}, nil
}

// Read returns the raw line levels. Level 1 is "active" for both lines.
func (r *RealReader) Read() (bool, bool, error) {
	strapRaw, err := r.strap.Value()
	if err != nil {
		return false, false, fmt.Errorf("read strap pin: %w", err)
	}

	proximityRaw, err := r.proximity.Value()
	if err != nil {
		return false, false, fmt.Errorf("read proximity pin: %w", err)
	}

	return strapRaw == 1, proximityRaw == 1, nil
}

// Close releases both lines and the chip.
func (r *RealReader) Close() error {
	var errs []error
	if r.strap != nil {
		if err := r.strap.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close strap pin: %w", err))
		}
	}
	if r.proximity != nil {
		if err := r.proximity.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close proximity pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
