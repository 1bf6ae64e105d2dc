// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/helmet_sentry/internal/imu"
)

// MPU-60x0/9250 register addresses used by the controller.
const (
	regSampleRateDiv = 0x19
	regConfig        = 0x1A
	regAccelConfig   = 0x1C
	regAccelXOutH    = 0x3B
	regPwrMgmt1      = 0x6B
	regWhoAmI        = 0x75
)

// whoAmIValues lists the WHO_AM_I responses of the MPU variants this board
// has shipped with (6050, 6500, 9250, 9255).
var whoAmIValues = map[byte]string{
	0x68: "MPU-6050",
	0x70: "MPU-6500",
	0x71: "MPU-9250",
	0x73: "MPU-9255",
}

// AccelSource reads raw accelerometer counts from the helmet IMU over I2C.
type AccelSource struct {
	dev *i2c.Dev
}

// NewAccelSource opens the I2C bus, wakes the sensor, and configures the
// ±2g range the crash heuristic is calibrated for. The WHO_AM_I probe acts
// as the startup self-test: if the sensor does not answer with a known ID
// the controller runs degraded without motion sensing.
func NewAccelSource(busName string, addr uint16) (*AccelSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("accel: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("accel: open I2C bus %q: %w", busName, err)
	}

	s := &AccelSource{dev: &i2c.Dev{Bus: bus, Addr: addr}}

	id, err := s.readReg(regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("accel: WHO_AM_I read: %w", err)
	}
	name, ok := whoAmIValues[id]
	if !ok {
		return nil, fmt.Errorf("accel: self-test failed, unexpected WHO_AM_I 0x%02X", id)
	}
	log.Printf("accel: %s detected at 0x%02X", name, addr)

	// Wake from sleep, PLL clock source.
	if err := s.writeReg(regPwrMgmt1, 0x01); err != nil {
		return nil, fmt.Errorf("accel: wake: %w", err)
	}
	// ±2g full scale (16384 counts/g).
	if err := s.writeReg(regAccelConfig, 0x00); err != nil {
		return nil, fmt.Errorf("accel: set ±2g range: %w", err)
	}
	// 1 kHz internal rate, divider 9 -> 100 Hz output, DLPF at 41 Hz.
	if err := s.writeReg(regConfig, 0x03); err != nil {
		return nil, fmt.Errorf("accel: set DLPF: %w", err)
	}
	if err := s.writeReg(regSampleRateDiv, 0x09); err != nil {
		return nil, fmt.Errorf("accel: set sample rate divider: %w", err)
	}

	return s, nil
}

// ReadRaw burst-reads the six accelerometer output registers.
func (s *AccelSource) ReadRaw() (imu.AccelRaw, error) {
	var buf [6]byte
	if err := s.dev.Tx([]byte{regAccelXOutH}, buf[:]); err != nil {
		return imu.AccelRaw{}, fmt.Errorf("accel: burst read: %w", err)
	}
	return imu.AccelRaw{
		Ax: int16(uint16(buf[0])<<8 | uint16(buf[1])),
		Ay: int16(uint16(buf[2])<<8 | uint16(buf[3])),
		Az: int16(uint16(buf[4])<<8 | uint16(buf[5])),
	}, nil
}

func (s *AccelSource) readReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := s.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (s *AccelSource) writeReg(reg, val byte) error {
	return s.dev.Tx([]byte{reg, val}, nil)
}
