package motion

import (
	"errors"
	"math"
	"testing"

	"github.com/relabs-tech/helmet_sentry/internal/imu"
	"github.com/relabs-tech/helmet_sentry/internal/sensors"
)

const kmhToMps = 1.0 / 3.6

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		speedKmh float64
		accel    float64
		want     bool
	}{
		{"fast and hard deceleration", 36, 6.0, true},
		{"too slow", 30, 6.0, false},
		{"deceleration too soft", 36, 4.0, false},
		{"both below threshold", 30, 4.0, false},
		{"deceleration exactly at threshold", 36, 5.0, false},
		{"standstill", 0, 20.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Sample{HorizontalAccel: tt.accel}, tt.speedKmh*kmhToMps)
			if got != tt.want {
				t.Errorf("Classify(accel=%.1f, speed=%.0f km/h) = %v, want %v",
					tt.accel, tt.speedKmh, got, tt.want)
			}
		})
	}

	// The speed comparison is inclusive.
	if !Classify(Sample{HorizontalAccel: 6.0}, SpeedThresholdMps) {
		t.Error("speed exactly at threshold should classify as accident")
	}
}

func TestHorizontalAccel(t *testing.T) {
	tests := []struct {
		name   string
		ax, ay int16
		want   float64
	}{
		{"at rest", 0, 0, 0},
		{"1g along x", 16384, 0, 9.80665},
		{"1g along y", 0, 16384, 9.80665},
		{"negative counts use magnitude", -16384, 0, 9.80665},
		{"both axes combine", 16384, 16384, 9.80665 * math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HorizontalAccel(tt.ax, tt.ay)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("HorizontalAccel(%d, %d) = %v, want %v", tt.ax, tt.ay, got, tt.want)
			}
		})
	}
}

func TestSamplerIgnoresZAxis(t *testing.T) {
	src := sensors.NewFakeAccel([]imu.AccelRaw{{Ax: 16384, Ay: 0, Az: 32767}})
	s := NewSampler(src)

	sample, err := s.Sample()
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if math.Abs(sample.HorizontalAccel-9.80665) > 1e-9 {
		t.Errorf("HorizontalAccel = %v, want 9.80665 (z axis must not contribute)", sample.HorizontalAccel)
	}
}

func TestSamplerPropagatesReadError(t *testing.T) {
	src := &sensors.FakeAccel{ReadError: errors.New("bus fault")}
	s := NewSampler(src)

	if _, err := s.Sample(); err == nil {
		t.Error("expected error from failing accelerometer read")
	}
}
