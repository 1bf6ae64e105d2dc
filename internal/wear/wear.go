// Package wear derives the helmet wear state from the two raw switch
// levels. The decision is a fixed table over the debounced levels; there is
// no history and no hysteresis, the state is recomputed from scratch on
// every poll.
package wear

// State is the debounced helmet wear state.
type State struct {
	HelmetWorn    bool `json:"helmet_worn"`
	StrapFastened bool `json:"strap_fastened"`
}

// Worn reports whether the helmet is on-head with the strap closed, the
// only condition under which an accident alert may fire.
func (s State) Worn() bool { return s.HelmetWorn && s.StrapFastened }

// FromLevels maps the raw digital levels to a State.
//
// The IR proximity sensor is active when nothing is in front of it, so an
// active proximity line means the helmet is NOT on a head. Only a closed
// strap with the proximity beam blocked counts as properly worn:
//
//	strap=active   proximity=inactive -> worn, fastened
//	strap=inactive proximity=inactive -> not fastened
//	strap=active   proximity=active   -> not on head
//	strap=inactive proximity=active   -> not worn (unreachable in practice)
func FromLevels(strapActive, proximityActive bool) State {
	if strapActive && !proximityActive {
		return State{HelmetWorn: true, StrapFastened: true}
	}
	return State{}
}
