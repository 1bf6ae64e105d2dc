package gps

// Fix is the latest known position of the rider, suitable for JSON and MQTT.
//
// Valid is sticky: it turns true on the first valid location report and
// stays true for the process lifetime. Speed and location update
// independently, so SpeedMps may be older or newer than Latitude/Longitude.
type Fix struct {
	Latitude   float64 `json:"lat"`        // decimal degrees
	Longitude  float64 `json:"lon"`        // decimal degrees
	SpeedMps   float64 `json:"speed_mps"`  // speed over ground
	Valid      bool    `json:"valid"`      // true once any valid location arrived
	Satellites int     `json:"satellites"` // satellites in use, from GGA
}
