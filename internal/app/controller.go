// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"log"
	"os"
	"time"

	"github.com/relabs-tech/helmet_sentry/internal/alert"
	"github.com/relabs-tech/helmet_sentry/internal/cellular"
	"github.com/relabs-tech/helmet_sentry/internal/gpio"
	"github.com/relabs-tech/helmet_sentry/internal/gps"
	"github.com/relabs-tech/helmet_sentry/internal/imu"
	"github.com/relabs-tech/helmet_sentry/internal/motion"
	"github.com/relabs-tech/helmet_sentry/internal/rf"
	"github.com/relabs-tech/helmet_sentry/internal/telemetry"
	"github.com/relabs-tech/helmet_sentry/internal/wear"
)

// Deps are the collaborators and intervals of one Controller. Any
// collaborator may be nil: a failed init leaves the controller running
// degraded with the remaining sensors.
type Deps struct {
	Lines    gpio.Reader
	Accel    imu.Reader
	GPSBytes <-chan []byte
	Beacon   rf.Sender
	Modem    cellular.Sender
	Operator telemetry.Publisher

	AdminNumber string

	MotionInterval time.Duration
	GateInterval   time.Duration
	StatusInterval time.Duration
}

// Controller owns all mutable session state of the safety loop. Every
// field is read and written only from the goroutine driving Step, so no
// locking is needed anywhere below.
type Controller struct {
	deps       Deps
	position   *gps.Sampler
	sampler    *motion.Sampler
	gate       *alert.Gate
	dispatcher *alert.Dispatcher

	// session state
	wearState wear.State
	sample    motion.Sample
	accident  bool
	wornPrev  bool

	// interval gating deadlines
	lastMotion time.Time
	lastGate   time.Time
	lastStatus time.Time
}

// NewController wires a controller from its collaborators.
func NewController(deps Deps) *Controller {
	c := &Controller{
		deps:       deps,
		position:   gps.NewSampler(gps.NewDecoder()),
		gate:       alert.NewGate(),
		dispatcher: alert.NewDispatcher(deps.Beacon, deps.Modem, deps.AdminNumber),
	}
	if deps.Accel != nil {
		c.sampler = motion.NewSampler(deps.Accel)
	}
	return c
}

// Step runs one scheduler iteration at the given instant. Cheap inputs
// (GPS bytes, switch lines) run every call; the motion sampler, the alert
// gate, and the status snapshot each run only when their interval elapsed.
// Components update strictly before the gate is evaluated, so the gate
// always sees this iteration's wear state and fix.
func (c *Controller) Step(now time.Time) {
	c.feedPosition()
	c.readSwitches()

	if now.Sub(c.lastMotion) >= c.deps.MotionInterval {
		c.lastMotion = now
		c.sampleMotion()
	}

	if now.Sub(c.lastGate) >= c.deps.GateInterval {
		c.lastGate = now
		c.evaluateGate(now)
	}

	if c.deps.StatusInterval > 0 && now.Sub(c.lastStatus) >= c.deps.StatusInterval {
		c.lastStatus = now
		c.publishStatus(now)
	}
}

// feedPosition drains whatever the GPS reader goroutine accumulated since
// the last tick. The fix is mutated here, on the loop goroutine, never in
// the reader.
func (c *Controller) feedPosition() {
	for {
		select {
		case chunk, ok := <-c.deps.GPSBytes:
			if !ok {
				return
			}
			c.position.Feed(chunk)
		default:
			return
		}
	}
}

// readSwitches derives the wear state from the two raw levels. A read
// failure counts as inactive levels, which fails safe toward "not worn".
// Entering the properly-worn state fires the one-shot RF confirmation.
func (c *Controller) readSwitches() {
	var strapActive, proximityActive bool
	if c.deps.Lines != nil {
		var err error
		strapActive, proximityActive, err = c.deps.Lines.Read()
		if err != nil {
			log.Printf("controller: switch read error: %v", err)
			strapActive, proximityActive = false, false
		}
	}

	c.wearState = wear.FromLevels(strapActive, proximityActive)

	worn := c.wearState.Worn()
	if worn && !c.wornPrev && c.deps.Beacon != nil {
		// Fire-and-forget confirmation; the outcome is not examined.
		_ = c.deps.Beacon.Send(rf.PayloadWorn)
	}
	c.wornPrev = worn
}

// sampleMotion takes a fresh horizontal acceleration sample and reruns the
// accident classifier against the freshest fix. The flag is volatile: it
// is recomputed from this sample alone, a read failure clears it.
func (c *Controller) sampleMotion() {
	if c.sampler == nil {
		return
	}
	sample, err := c.sampler.Sample()
	if err != nil {
		log.Printf("controller: accelerometer read error: %v", err)
		c.sample = motion.Sample{}
		c.accident = false
		return
	}
	c.sample = sample
	c.accident = motion.Classify(sample, c.position.Fix().SpeedMps)
}

// evaluateGate runs the alert gate and, on the latching evaluation,
// dispatches exactly once. The dispatch outcome is reported to the
// operator channel but never retried.
func (c *Controller) evaluateGate(now time.Time) {
	if !c.gate.Evaluate(c.wearState, c.position.Fix(), c.accident) {
		return
	}

	fix := c.position.Fix()
	log.Printf("controller: accident confirmed at %.6f, %.6f (%.1f m/s), dispatching alert",
		fix.Latitude, fix.Longitude, fix.SpeedMps)

	if err := c.dispatcher.Dispatch(fix); err != nil {
		log.Printf("controller: alert dispatch failed: %v", err)
		c.publishEvent(now, telemetry.EventAlertFailed, err.Error())
		return
	}
	log.Printf("controller: alert dispatched to both channels")
	c.publishEvent(now, telemetry.EventAlertSent, alert.FormatSMS(fix))
}

func (c *Controller) publishStatus(now time.Time) {
	if c.deps.Operator == nil {
		return
	}
	s := telemetry.Status{
		Time:            now.UTC().Format(time.RFC3339),
		HelmetWorn:      c.wearState.HelmetWorn,
		StrapFastened:   c.wearState.StrapFastened,
		Fix:             c.position.Fix(),
		HorizontalAccel: c.sample.HorizontalAccel,
		Accident:        c.accident,
		Latched:         c.gate.Latched(),
	}
	if err := c.deps.Operator.PublishStatus(s); err != nil {
		log.Printf("controller: status publish error: %v", err)
	}
}

func (c *Controller) publishEvent(now time.Time, eventType, message string) {
	if c.deps.Operator == nil {
		return
	}
	if err := c.deps.Operator.PublishEvent(telemetry.NewEvent(now, eventType, message)); err != nil {
		log.Printf("controller: event publish error: %v", err)
	}
}

// Latched reports whether the alert already fired.
func (c *Controller) Latched() bool { return c.gate.Latched() }

// Run drives Step from the tick channel until a signal arrives.
func (c *Controller) Run(tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("controller: received %v, shutting down", s)
			return nil
		case now := <-tick:
			c.Step(now)
		}
	}
}
