package gps

import "testing"

func TestSamplerStartsInvalid(t *testing.T) {
	s := NewSampler(NewDecoder())
	if s.Fix().Valid {
		t.Error("fix must be invalid before any valid location")
	}
}

func TestSamplerValidIsSticky(t *testing.T) {
	s := NewSampler(NewDecoder())

	s.Feed([]byte(sentence(validRMC)))
	fix := s.Fix()
	if !fix.Valid {
		t.Fatal("fix should be valid after a valid RMC")
	}

	// A later void sentence invalidates nothing: the last known position
	// and the validity flag survive for the process lifetime.
	s.Feed([]byte(sentence(voidRMC)))
	fix = s.Fix()
	if !fix.Valid {
		t.Error("Valid must stay true once set")
	}
	if !approx(fix.Latitude, rmcLat) || !approx(fix.Longitude, rmcLon) {
		t.Error("last known coordinates must survive a void sentence")
	}
	if !approx(fix.SpeedMps, rmcSpeedMS) {
		t.Error("last known speed must survive a void sentence")
	}
}

func TestSamplerPartialUpdateFromGGA(t *testing.T) {
	s := NewSampler(NewDecoder())
	s.Feed([]byte(sentence(validRMC)))
	before := s.Fix()

	// GGA carries position and satellites but no speed: location updates,
	// speed is retained from the RMC.
	s.Feed([]byte(sentence("GPGGA,123520,4807.100,N,01131.200,E,1,09,0.9,545.4,M,46.9,M,,")))
	after := s.Fix()

	if !approx(after.Latitude, 48.0+7.100/60.0) {
		t.Errorf("Latitude = %v, want GGA value", after.Latitude)
	}
	if !approx(after.SpeedMps, before.SpeedMps) {
		t.Errorf("SpeedMps = %v, want retained %v", after.SpeedMps, before.SpeedMps)
	}
	if after.Satellites != 9 {
		t.Errorf("Satellites = %d, want 9", after.Satellites)
	}
}

func TestSamplerFeedInChunks(t *testing.T) {
	s := NewSampler(NewDecoder())

	full := sentence(validRMC)
	half := len(full) / 2
	s.Feed([]byte(full[:half]))
	if s.Fix().Valid {
		t.Error("half a sentence must not yield a fix")
	}
	s.Feed([]byte(full[half:]))
	if !s.Fix().Valid {
		t.Error("sentence split across feeds should decode")
	}
}
