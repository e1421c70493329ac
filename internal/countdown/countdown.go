// Package countdown decomposes the time remaining until a target
// instant and drives the once-per-second recomputation loop.
package countdown

import (
	"context"
	"time"
)

// Remaining is the wall-clock breakdown of a future delta.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Until decomposes target-now into days/hours/minutes/seconds via floor
// division on the millisecond delta. ok is false once the delta is <= 0;
// that is the terminal "celebrations underway" state.
func Until(target, now time.Time) (Remaining, bool) {
	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return Remaining{}, false
	}
	return Remaining{
		Days:    int(ms / (1000 * 60 * 60 * 24)),
		Hours:   int(ms/(1000*60*60)) % 24,
		Minutes: int(ms/(1000*60)) % 60,
		Seconds: int(ms/1000) % 60,
	}, true
}

// Runner re-evaluates the remaining time on a fixed cadence. Each tick
// is an independent recomputation from the sampled clock; there is no
// state carried between ticks.
type Runner struct {
	// Interval between recomputations. Defaults to one second.
	Interval time.Duration

	// Now supplies the wall clock; defaults to time.Now. Tests inject a
	// fake clock here.
	Now func() time.Time
}

// Run invokes tick with a fresh breakdown once per interval until the
// target passes or ctx is canceled. The ticker is released on return,
// so callers scope the loop's lifetime with the context.
func (r Runner) Run(ctx context.Context, target time.Time, tick func(Remaining)) {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	// Emit immediately so the display never waits a full interval for
	// its first value.
	rem, ok := Until(target, now())
	if !ok {
		return
	}
	tick(rem)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rem, ok := Until(target, now())
			if !ok {
				return
			}
			tick(rem)
		}
	}
}
