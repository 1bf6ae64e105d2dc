package sensors

import (
	"errors"

	"github.com/relabs-tech/helmet_sentry/internal/imu"
)

// FakeAccel is a scripted accelerometer for tests and for running the
// controller without hardware. The last sample repeats once the script is
// exhausted.
type FakeAccel struct {
	Samples   []imu.AccelRaw
	ReadError error

	index int
}

// NewFakeAccel creates a FakeAccel with the given samples.
func NewFakeAccel(samples []imu.AccelRaw) *FakeAccel {
	return &FakeAccel{Samples: samples}
}

// ReadRaw returns the next scripted sample.
func (f *FakeAccel) ReadRaw() (imu.AccelRaw, error) {
	if f.ReadError != nil {
		return imu.AccelRaw{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return imu.AccelRaw{}, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}
