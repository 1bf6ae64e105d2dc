// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

const knotsToMps = 0.514444

// maxSentenceLen bounds the line buffer against a wedged receiver that
// never sends a line terminator.
const maxSentenceLen = 128

// Decoder consumes the raw character stream from the GPS receiver one byte
// at a time and keeps the result of the most recent sentence that carried
// position data. Callers feed bytes as they arrive and query the decoder
// whenever they need the freshest values; raw NMEA text never leaves this
// package.
type Decoder struct {
	buf []byte

	hasLocation bool
	lat, lon    float64
	hasSpeed    bool
	speedMps    float64
	satellites  int
}

// NewDecoder returns a decoder with no data yet.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, maxSentenceLen)}
}

// FeedByte appends one byte of the receiver stream. A complete line is
// parsed immediately; partial sentences, garbage between sentences, and
// checksum failures are silently dropped, matching the noisy reality of a
// GPS UART.
func (d *Decoder) FeedByte(c byte) {
	if c == '\n' {
		line := strings.TrimSpace(string(d.buf))
		d.buf = d.buf[:0]
		if line != "" && strings.HasPrefix(line, "$") {
			d.parseLine(line)
		}
		return
	}
	if len(d.buf) >= maxSentenceLen {
		d.buf = d.buf[:0]
	}
	d.buf = append(d.buf, c)
}

func (d *Decoder) parseLine(line string) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// Partial or corrupted sentence. The receiver repeats at 1 Hz,
		// so skipping is cheaper than recovering.
		return
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		if m.Validity == nmea.ValidRMC {
			d.hasLocation = true
			d.lat = m.Latitude
			d.lon = m.Longitude
			d.hasSpeed = true
			d.speedMps = m.Speed * knotsToMps
		} else {
			d.hasLocation = false
			d.hasSpeed = false
		}
	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		d.satellites = int(m.NumSatellites)
		if m.FixQuality != nmea.Invalid {
			d.hasLocation = true
			d.lat = m.Latitude
			d.lon = m.Longitude
		} else {
			d.hasLocation = false
		}
	}
}

// HasValidLocation reports whether the most recent position sentence
// carried a valid location.
func (d *Decoder) HasValidLocation() bool { return d.hasLocation }

// Latitude returns the last decoded latitude in decimal degrees.
func (d *Decoder) Latitude() float64 { return d.lat }

// Longitude returns the last decoded longitude in decimal degrees.
func (d *Decoder) Longitude() float64 { return d.lon }

// HasValidSpeed reports whether the most recent RMC carried a usable
// speed over ground. GGA sentences never set it.
func (d *Decoder) HasValidSpeed() bool { return d.hasSpeed }

// SpeedMps returns the last decoded speed over ground in m/s.
func (d *Decoder) SpeedMps() float64 { return d.speedMps }

// SatelliteCount returns the number of satellites in use per the last GGA.
func (d *Decoder) SatelliteCount() int { return d.satellites }
