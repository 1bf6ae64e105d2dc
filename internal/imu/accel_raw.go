package imu

// AccelRaw is a single raw accelerometer sample in signed sensor counts.
// At the ±2g range used here the sensitivity is 16384 counts per g.
type AccelRaw struct {
	Ax int16 `json:"ax"`
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`
}

// Reader provides raw accelerometer samples on demand.
type Reader interface {
	ReadRaw() (AccelRaw, error)
}
