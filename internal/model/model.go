package model

import "time"

// Window is a resolved start/end instant pair for one agenda event.
// The resolver does not enforce End >= Start; agenda data is expected
// to define the ordering.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the window. Negative when the agenda
// data is inverted.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// CountdownTarget is the next future occurrence of the headline wedding
// date, as selected by when.ResolveNextOccurrence. A missing target means
// the celebrations are already underway.
type CountdownTarget struct {
	// At is the resolved instant, anchored to the configured UTC offset.
	At time.Time

	// Label is the display label for the countdown (e.g. "Wedding Ceremony").
	Label string
}
