package gps

// Sampler owns the controller's view of the rider position. It forwards
// receiver bytes to the decoder and folds whatever the decoder currently
// reports into the Fix.
//
// Update rules: a valid location overwrites latitude/longitude and sets the
// sticky Valid flag; a valid speed overwrites SpeedMps; fields the decoder
// cannot vouch for this round keep their previous value. Satellite count is
// informational and tracked unconditionally.
type Sampler struct {
	dec *Decoder
	fix Fix
}

// NewSampler wraps the given decoder.
func NewSampler(dec *Decoder) *Sampler {
	return &Sampler{dec: dec}
}

// Feed pushes a chunk of receiver bytes through the decoder and refreshes
// the fix from the decoder's current state.
func (s *Sampler) Feed(data []byte) {
	for _, c := range data {
		s.dec.FeedByte(c)
	}
	s.refresh()
}

func (s *Sampler) refresh() {
	if s.dec.HasValidLocation() {
		s.fix.Latitude = s.dec.Latitude()
		s.fix.Longitude = s.dec.Longitude()
		s.fix.Valid = true
	}
	if s.dec.HasValidSpeed() {
		s.fix.SpeedMps = s.dec.SpeedMps()
	}
	s.fix.Satellites = s.dec.SatelliteCount()
}

// Fix returns the latest position view. Valid stays false until the first
// valid location has been decoded.
func (s *Sampler) Fix() Fix { return s.fix }
