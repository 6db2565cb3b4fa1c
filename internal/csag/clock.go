package csag

import "github.com/jonboulle/clockwork"

// clock supplies the CREATED stamp when the writer serializes metadata that
// has none. Tests and the mock generator freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by Write. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
