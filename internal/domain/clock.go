package domain

import "github.com/jonboulle/clockwork"

// clock stamps ProcessedAt on reports. Tests and fixture generation freeze it
// with SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the report time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
