// Package motion turns raw accelerometer counts into a horizontal
// deceleration magnitude and classifies crash candidates from the
// deceleration-at-speed heuristic.
package motion

import (
	"math"

	"github.com/relabs-tech/helmet_sentry/internal/imu"
)

const (
	// g0 is standard gravity.
	g0 = 9.80665

	// countsPerG is the sensitivity at the ±2g range configured on the IMU.
	countsPerG = 16384.0

	// SpeedThresholdMps is 35 km/h, the minimum riding speed at which a
	// hard deceleration is treated as a crash candidate.
	SpeedThresholdMps = 35.0 / 3.6

	// decelThreshold is the magnitude of the -5.0 m/s² crash deceleration
	// constant. The horizontal sample is already a magnitude, so the
	// comparison is unsigned.
	decelThreshold = 5.0
)

// Sample is one horizontal acceleration reading. Each sample fully replaces
// the previous one; there is no smoothing.
type Sample struct {
	HorizontalAccel float64 `json:"horizontal_accel"` // m/s²
}

// Sampler reads the accelerometer and computes horizontal acceleration.
type Sampler struct {
	src imu.Reader
}

// NewSampler wraps the given raw accelerometer source.
func NewSampler(src imu.Reader) *Sampler {
	return &Sampler{src: src}
}

// Sample reads one raw measurement and converts the two horizontal axes to
// a scalar magnitude in m/s². The z axis carries gravity plus vertical
// motion and is deliberately excluded: crash deceleration is modeled in the
// forward/lateral plane only.
func (s *Sampler) Sample() (Sample, error) {
	raw, err := s.src.ReadRaw()
	if err != nil {
		return Sample{}, err
	}
	return Sample{HorizontalAccel: HorizontalAccel(raw.Ax, raw.Ay)}, nil
}

// HorizontalAccel converts two horizontal-axis raw counts to an
// acceleration magnitude in m/s².
func HorizontalAccel(ax, ay int16) float64 {
	axg := float64(ax) / countsPerG
	ayg := float64(ay) / countsPerG
	return math.Sqrt(axg*axg+ayg*ayg) * g0
}

// Classify is the accident determination: true iff the rider is at or above
// riding speed and the instantaneous horizontal deceleration exceeds the
// crash threshold. Single-sample, no temporal consistency check; the flag
// is volatile and must be re-derived on every motion tick.
func Classify(s Sample, speedMps float64) bool {
	return speedMps >= SpeedThresholdMps && s.HorizontalAccel > decelThreshold
}
