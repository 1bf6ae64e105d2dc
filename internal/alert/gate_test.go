package alert

import (
	"testing"

	"github.com/relabs-tech/helmet_sentry/internal/gps"
	"github.com/relabs-tech/helmet_sentry/internal/wear"
)

func worn() wear.State {
	return wear.State{HelmetWorn: true, StrapFastened: true}
}

func fastFix() gps.Fix {
	return gps.Fix{Latitude: 12.3, Longitude: 98.7, SpeedMps: 40.0 / 3.6, Valid: true}
}

func TestGateFiresWhenAllPreconditionsHold(t *testing.T) {
	g := NewGate()
	if !g.Evaluate(worn(), fastFix(), true) {
		t.Fatal("gate should fire with all preconditions satisfied")
	}
	if !g.Latched() {
		t.Error("gate should be latched after firing")
	}
}

func TestGateRequiresEveryPrecondition(t *testing.T) {
	invalidFix := fastFix()
	invalidFix.Valid = false

	slowFix := fastFix()
	slowFix.SpeedMps = 20.0 / 3.6

	tests := []struct {
		name     string
		wear     wear.State
		fix      gps.Fix
		accident bool
	}{
		{"helmet not worn", wear.State{StrapFastened: true}, fastFix(), true},
		{"strap not fastened", wear.State{HelmetWorn: true}, fastFix(), true},
		{"no valid fix", worn(), invalidFix, true},
		{"below riding speed", worn(), slowFix, true},
		{"no accident flag", worn(), fastFix(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate()
			if g.Evaluate(tt.wear, tt.fix, tt.accident) {
				t.Error("gate fired with a missing precondition")
			}
			if g.Latched() {
				t.Error("gate latched without firing")
			}
		})
	}
}

func TestGateLatchIsPermanent(t *testing.T) {
	g := NewGate()
	if !g.Evaluate(worn(), fastFix(), true) {
		t.Fatal("gate should fire the first time")
	}

	// No later input combination may re-trigger, identical ones included.
	for i := 0; i < 5; i++ {
		if g.Evaluate(worn(), fastFix(), true) {
			t.Fatalf("latched gate re-fired on evaluation %d", i)
		}
	}
	if !g.Latched() {
		t.Error("gate should remain latched")
	}
}
