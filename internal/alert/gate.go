// Package alert holds the single-shot accident alert: the gate that decides
// when to fire and the dispatcher that delivers the alert over the RF
// beacon and the cellular modem.
package alert

import (
	"github.com/relabs-tech/helmet_sentry/internal/gps"
	"github.com/relabs-tech/helmet_sentry/internal/motion"
	"github.com/relabs-tech/helmet_sentry/internal/wear"
)

// Gate is the accident alert state machine. It starts armed and latches on
// the first evaluation where every precondition holds; the latch is never
// released, so one alert per process lifetime.
type Gate struct {
	latched bool
}

// NewGate returns an armed gate.
func NewGate() *Gate {
	return &Gate{}
}

// Evaluate checks the five dispatch preconditions against the freshest
// component outputs. It returns true exactly once, on the evaluation that
// latches; the caller must dispatch on that return. A missing or invalid
// fix fails safe toward not alerting.
func (g *Gate) Evaluate(w wear.State, fix gps.Fix, accident bool) bool {
	if g.latched {
		return false
	}
	if !w.Worn() {
		return false
	}
	if !fix.Valid {
		return false
	}
	if fix.SpeedMps < motion.SpeedThresholdMps {
		return false
	}
	if !accident {
		return false
	}
	g.latched = true
	return true
}

// Latched reports whether the alert has already fired.
func (g *Gate) Latched() bool { return g.latched }
