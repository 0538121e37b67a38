// Package anim holds the step flash animation: a decaying
// remaining-time state and the traveling rainbow renderer driven by it.
package anim

// State tracks how much flash time remains after a step. The zero
// value is idle.
type State struct {
	flash     float64
	remaining float64
}

// NewState returns an idle state whose decay window lasts flashS
// seconds per trigger.
func NewState(flashS float64) *State {
	return &State{flash: flashS}
}

// Trigger restarts the decay window at the full flash duration.
// Triggering during an active window restarts it; windows never stack.
func (s *State) Trigger() {
	s.remaining = s.flash
}

// Advance consumes elapsed seconds from the window, floored at zero,
// and reports the remaining fraction as Remaining does.
func (s *State) Advance(elapsed float64) float64 {
	if elapsed > 0 {
		s.remaining -= elapsed
		if s.remaining < 0 {
			s.remaining = 0
		}
	}
	return s.Remaining()
}

// Remaining reports the remaining fraction of the decay window in
// 0...1, where 0 means idle and 1 means a window just started.
func (s *State) Remaining() float64 {
	if s.flash <= 0 {
		return 0
	}
	return s.remaining / s.flash
}
