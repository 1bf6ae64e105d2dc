package gpio

import "errors"

// Sample is a single scripted reading of the two switch lines.
type Sample struct {
	Strap     bool
	Proximity bool
}

// FakeReader is a test double returning scripted line levels. When the
// script is exhausted the last sample repeats, mimicking stable switches.
type FakeReader struct {
	Samples   []Sample
	ReadError error
	Closed    bool

	index int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Strap, s.Proximity, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
