package countdown

import (
	"context"
	"testing"
	"time"
)

func TestUntilBreakdown(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		delta time.Duration
		want  Remaining
	}{
		{"one of each", 90061000 * time.Millisecond, Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"just under a day", 24*time.Hour - time.Second, Remaining{Days: 0, Hours: 23, Minutes: 59, Seconds: 59}},
		{"exact days", 48 * time.Hour, Remaining{Days: 2}},
		{"sub-second floors to zero", 900 * time.Millisecond, Remaining{}},
	}
	for _, c := range cases {
		got, ok := Until(base.Add(c.delta), base)
		if !ok {
			t.Fatalf("%s: Until not ok", c.name)
		}
		if got != c.want {
			t.Errorf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
}

func TestUntilTerminal(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, delta := range []time.Duration{0, -time.Second, -24 * time.Hour} {
		if _, ok := Until(base.Add(delta), base); ok {
			t.Errorf("delta %s: expected terminal state", delta)
		}
	}
}

func TestRunnerStopsWhenTargetPasses(t *testing.T) {
	// Fake clock: every sample advances one second, independent of the
	// real ticker interval.
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sampled := now
	r := Runner{
		Interval: time.Millisecond,
		Now: func() time.Time {
			cur := sampled
			sampled = sampled.Add(time.Second)
			return cur
		},
	}

	target := now.Add(3500 * time.Millisecond)

	var ticks []Remaining
	done := make(chan struct{})
	go func() {
		r.Run(context.Background(), target, func(rem Remaining) {
			ticks = append(ticks, rem)
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not terminate after target passed")
	}

	// Samples at +0s, +1s, +2s, +3s are in the future; +4s is past.
	if len(ticks) != 4 {
		t.Fatalf("got %d ticks, want 4: %+v", len(ticks), ticks)
	}
	if ticks[0].Seconds != 3 || ticks[3].Seconds != 0 {
		t.Errorf("unexpected tick sequence: %+v", ticks)
	}
}

func TestRunnerPastTargetEmitsNothing(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r := Runner{Interval: time.Millisecond, Now: func() time.Time { return now }}

	called := false
	r.Run(context.Background(), now.Add(-time.Hour), func(Remaining) { called = true })
	if called {
		t.Error("tick invoked for a past target")
	}
}

func TestRunnerCanceled(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	r := Runner{Interval: time.Hour, Now: func() time.Time { return now }}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, now.Add(24*time.Hour), func(Remaining) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not observe cancellation")
	}
}
