package when

import (
	"testing"
	"time"
)

const istOffset = "+05:30"

func TestNormalizeTimeTwelveHour(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12:00 AM", "00:00:00"},
		{"12:00 PM", "12:00:00"},
		{"1:00 PM", "13:00:00"},
		{"01:00 PM", "13:00:00"},
		{"11:59 PM", "23:59:00"},
		{"9:05 AM", "09:05:00"},
		{"9:05AM", "09:05:00"},     // space before the suffix is optional
		{"  1:00 pm ", "13:00:00"}, // trimmed and case-folded
	}
	for _, c := range cases {
		if got := NormalizeTime(c.in); got != c.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTimeTwentyFourHour(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"17:00", "17:00:00"},
		{"7:05", "07:05:00"},
		{"17:00:30", "17:00:30"},
		{"0:00", "00:00:00"},
	}
	for _, c := range cases {
		if got := NormalizeTime(c.in); got != c.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTimeFallback(t *testing.T) {
	cases := []string{"", "   ", "noon", "25", "1.00 PM", "1:00 XM", "13:00 PM extra"}
	for _, in := range cases {
		if got := NormalizeTime(in); got != DefaultTime {
			t.Errorf("NormalizeTime(%q) = %q, want default %q", in, got, DefaultTime)
		}
	}
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	for _, canonical := range []string{"00:00:00", "09:00:00", "13:00:00", "23:59:59"} {
		if got := NormalizeTime(canonical); got != canonical {
			t.Errorf("NormalizeTime(%q) = %q, want unchanged", canonical, got)
		}
	}
}

func TestFixedZone(t *testing.T) {
	loc, ok := FixedZone("+05:30")
	if !ok {
		t.Fatal("FixedZone(+05:30) not ok")
	}
	_, offset := time.Date(2024, 12, 25, 0, 0, 0, 0, loc).Zone()
	if offset != 5*3600+30*60 {
		t.Errorf("offset = %d, want 19800", offset)
	}

	loc, ok = FixedZone("-08:00")
	if !ok {
		t.Fatal("FixedZone(-08:00) not ok")
	}
	_, offset = time.Date(2024, 12, 25, 0, 0, 0, 0, loc).Zone()
	if offset != -8*3600 {
		t.Errorf("offset = %d, want -28800", offset)
	}

	for _, bad := range []string{"", "+5:30", "05:30", "+05:300", "UTC"} {
		if _, ok := FixedZone(bad); ok {
			t.Errorf("FixedZone(%q) unexpectedly ok", bad)
		}
	}
}

func TestAnchorToOffset(t *testing.T) {
	got, ok := AnchorToOffset(2024, 12, 25, "13:00:00", istOffset)
	if !ok {
		t.Fatal("anchor not ok")
	}
	want := time.Date(2024, 12, 25, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("anchored instant = %s, want %s", got.UTC(), want)
	}
}

func TestAnchorToOffsetInvalidDates(t *testing.T) {
	cases := []struct {
		year, month, day int
	}{
		{2024, 2, 30}, // February has no day 30
		{2023, 2, 29}, // not a leap year
		{2024, 4, 31}, // 30-day month
		{2024, 13, 1}, // month out of range
		{2024, 0, 10},
	}
	for _, c := range cases {
		if _, ok := AnchorToOffset(c.year, c.month, c.day, "09:00:00", istOffset); ok {
			t.Errorf("AnchorToOffset(%d-%02d-%02d) unexpectedly valid", c.year, c.month, c.day)
		}
	}

	// Leap day on a leap year is fine.
	if _, ok := AnchorToOffset(2024, 2, 29, "09:00:00", istOffset); !ok {
		t.Error("2024-02-29 should anchor")
	}
}

func TestResolveNextOccurrenceLiteralYearWins(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, ok := ResolveNextOccurrence("2024-12-25", "1:00 PM", istOffset, now)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	want := time.Date(2024, 12, 25, 7, 30, 0, 0, time.UTC) // 13:00 IST
	if !got.Equal(want) {
		t.Errorf("occurrence = %s, want %s", got.UTC(), want)
	}
}

func TestResolveNextOccurrenceCurrentYear(t *testing.T) {
	// Literal year 2024 is past; the same month/day this year is still
	// ahead, so the annual reprise this year wins over next year.
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	got, ok := ResolveNextOccurrence("2024-12-25", "1:00 PM", istOffset, now)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	want := time.Date(2025, 12, 25, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("occurrence = %s, want %s", got.UTC(), want)
	}
}

func TestResolveNextOccurrenceRollsToNextYear(t *testing.T) {
	// Both the literal year and this year's reprise are in the past.
	now := time.Date(2025, 12, 25, 14, 0, 0, 0, time.UTC) // after 13:00 IST = 07:30 UTC
	got, ok := ResolveNextOccurrence("2024-12-25", "1:00 PM", istOffset, now)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	want := time.Date(2026, 12, 25, 7, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("occurrence = %s, want %s", got.UTC(), want)
	}
}

func TestResolveNextOccurrencePrecedenceOrder(t *testing.T) {
	// A literal year far in the future must win over the nearer
	// current-year candidate: the candidate list is ordered, not sorted
	// by proximity.
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	got, ok := ResolveNextOccurrence("2030-12-25", "1:00 PM", istOffset, now)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	if got.Year() != 2030 {
		t.Errorf("occurrence year = %d, want literal year 2030", got.Year())
	}
}

func TestResolveNextOccurrenceInvalidCalendarDate(t *testing.T) {
	for _, now := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
	} {
		if _, ok := ResolveNextOccurrence("2024-02-30", "9:00 AM", istOffset, now); ok {
			t.Errorf("2024-02-30 resolved at now=%s, want none", now)
		}
	}
}

func TestResolveNextOccurrenceMalformedDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, dateStr := range []string{"", "2024", "2024-12", "2024--25", "2024-12-", "next friday"} {
		if _, ok := ResolveNextOccurrence(dateStr, "1:00 PM", istOffset, now); ok {
			t.Errorf("ResolveNextOccurrence(%q) unexpectedly ok", dateStr)
		}
	}
}

func TestResolveNextOccurrenceMalformedTimeFallsBack(t *testing.T) {
	// An unparseable time never aborts resolution; it anchors at the
	// 09:00:00 default.
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, ok := ResolveNextOccurrence("2024-12-25", "around lunch", istOffset, now)
	if !ok {
		t.Fatal("expected an occurrence")
	}
	want := time.Date(2024, 12, 25, 3, 30, 0, 0, time.UTC) // 09:00 IST
	if !got.Equal(want) {
		t.Errorf("occurrence = %s, want %s", got.UTC(), want)
	}
}

func TestResolveWindow(t *testing.T) {
	win, ok := ResolveWindow("2024-12-25", "01:00 PM", "04:00 PM", istOffset)
	if !ok {
		t.Fatal("expected a window")
	}
	wantStart := time.Date(2024, 12, 25, 7, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 12, 25, 10, 30, 0, 0, time.UTC)
	if !win.Start.Equal(wantStart) || !win.End.Equal(wantEnd) {
		t.Errorf("window = [%s, %s], want [%s, %s]",
			win.Start.UTC(), win.End.UTC(), wantStart, wantEnd)
	}
	if win.Duration() != 3*time.Hour {
		t.Errorf("duration = %s, want 3h", win.Duration())
	}
}

func TestResolveWindowMalformedTimesUseDefault(t *testing.T) {
	win, ok := ResolveWindow("2024-12-25", "", "garbage", istOffset)
	if !ok {
		t.Fatal("expected a window")
	}
	// Both times fall back to 09:00:00, giving a zero-length window.
	if !win.Start.Equal(win.End) {
		t.Errorf("expected identical fallback instants, got %s / %s", win.Start, win.End)
	}
}

func TestResolveWindowInvalidDate(t *testing.T) {
	if _, ok := ResolveWindow("2024-02-30", "09:00", "10:00", istOffset); ok {
		t.Error("2024-02-30 should not resolve")
	}
	if _, ok := ResolveWindow("someday", "09:00", "10:00", istOffset); ok {
		t.Error("non-date should not resolve")
	}
}
