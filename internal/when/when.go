// Package when normalizes the loosely formatted date and clock-time
// strings coming from the invitation config into concrete instants.
//
// Everything here is total: malformed time strings fall back to a
// documented default and malformed dates report not-ok instead of
// returning an error, so the rendering path never has a failure to
// propagate.
package when

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vivaah/internal/model"
)

// DefaultTime is the canonical fallback used for empty or unparseable
// clock-time strings.
const DefaultTime = "09:00:00"

var (
	twelveHourRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	twentyFourHourRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	offsetRe         = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)
)

// NormalizeTime converts a free-form clock time into canonical 24-hour
// "HH:MM:SS" form.
//
//   - empty input -> DefaultTime
//   - 12-hour form "H:MM AM|PM" (space optional): hour mod 12, +12 for PM,
//     seconds fixed to 00
//   - 24-hour form "H:MM" or "H:MM:SS": zero-padded, seconds default 00
//   - anything else -> DefaultTime (silent fallback, never an error)
func NormalizeTime(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return DefaultTime
	}

	if m := twelveHourRe.FindStringSubmatch(trimmed); m != nil {
		hours, _ := strconv.Atoi(m[1])
		hours %= 12
		if m[3] == "PM" {
			hours += 12
		}
		return fmt.Sprintf("%02d:%s:00", hours, m[2])
	}

	if m := twentyFourHourRe.FindStringSubmatch(trimmed); m != nil {
		hours, _ := strconv.Atoi(m[1])
		seconds := m[3]
		if seconds == "" {
			seconds = "00"
		}
		return fmt.Sprintf("%02d:%s:%s", hours, m[2], seconds)
	}

	return DefaultTime
}

// FixedZone converts a literal UTC offset string ("+05:30") into a
// fixed time.Location. ok is false for anything not matching the
// sign-HH:MM grammar.
func FixedZone(offset string) (*time.Location, bool) {
	m := offsetRe.FindStringSubmatch(strings.TrimSpace(offset))
	if m == nil {
		return nil, false
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	secs := hours*3600 + minutes*60
	if m[1] == "-" {
		secs = -secs
	}
	return time.FixedZone("UTC"+m[1]+m[2]+":"+m[3], secs), true
}

// AnchorToOffset combines a calendar date and a canonical "HH:MM:SS"
// time with a literal UTC offset into an absolute instant.
//
// ok is false when the offset is malformed or the wall-clock components
// do not name a real calendar moment (day 30 in February, minute 99).
// time.Date silently normalizes out-of-range components, so validity is
// checked by comparing the constructed instant back against its inputs.
func AnchorToOffset(year int, month, day int, canonical, offset string) (time.Time, bool) {
	loc, ok := FixedZone(offset)
	if !ok {
		return time.Time{}, false
	}

	m := twentyFourHourRe.FindStringSubmatch(canonical)
	if m == nil || m[3] == "" {
		return time.Time{}, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, hh, mm, ss, 0, loc)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day ||
		t.Hour() != hh || t.Minute() != mm || t.Second() != ss {
		return time.Time{}, false
	}
	return t, true
}

// ResolveNextOccurrence determines the next future instant matching the
// month/day/time of dateStr ("YYYY-MM-DD"), anchored to offset.
//
// Candidate years are tried strictly in this order:
//
//  1. the literal year embedded in dateStr
//  2. now's calendar year
//  3. now's calendar year + 1
//
// The first candidate that anchors to a valid instant strictly after
// now wins. A past literal year is deliberately skipped in favor of the
// annual reprise of the same month/day; callers depend on this order
// for the countdown display, so it must not be "fixed" to a plain
// one-shot comparison.
//
// ok is false when no candidate is both valid and in the future, or
// when dateStr is missing its month or day.
func ResolveNextOccurrence(dateStr, timeStr, offset string, now time.Time) (time.Time, bool) {
	parts := strings.SplitN(dateStr, "-", 3)
	if len(parts) < 3 || parts[1] == "" || parts[2] == "" {
		return time.Time{}, false
	}
	month, merr := strconv.Atoi(parts[1])
	day, derr := strconv.Atoi(parts[2])
	if merr != nil || derr != nil {
		return time.Time{}, false
	}

	canonical := NormalizeTime(timeStr)

	candidates := make([]int, 0, 3)
	if literalYear, err := strconv.Atoi(parts[0]); err == nil {
		candidates = append(candidates, literalYear)
	}
	candidates = append(candidates, now.Year(), now.Year()+1)

	for _, year := range candidates {
		t, ok := AnchorToOffset(year, month, day, canonical, offset)
		if ok && t.After(now) {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveWindow anchors an agenda event's date and start/end times into
// a concrete window. Both times are normalized first, so malformed
// input degrades to the default time rather than failing.
//
// ok is false when the date itself is malformed or names an impossible
// calendar day. End >= Start is not enforced here.
func ResolveWindow(dateStr, startTime, endTime, offset string) (model.Window, bool) {
	parts := strings.SplitN(dateStr, "-", 3)
	if len(parts) < 3 {
		return model.Window{}, false
	}
	year, yerr := strconv.Atoi(parts[0])
	month, merr := strconv.Atoi(parts[1])
	day, derr := strconv.Atoi(parts[2])
	if yerr != nil || merr != nil || derr != nil {
		return model.Window{}, false
	}

	start, ok := AnchorToOffset(year, month, day, NormalizeTime(startTime), offset)
	if !ok {
		return model.Window{}, false
	}
	end, ok := AnchorToOffset(year, month, day, NormalizeTime(endTime), offset)
	if !ok {
		return model.Window{}, false
	}
	return model.Window{Start: start, End: end}, true
}
