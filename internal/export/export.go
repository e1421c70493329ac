// Package export produces the calendar-interchange artifacts for agenda
// events: a Google Calendar deep link, a single-event iCalendar document
// for direct download, and the subscribable whole-agenda feed.
package export

import (
	"net/url"
	"strings"
	"time"
)

// compactUTC renders an instant in the compact UTC basic format used by
// both the deep link and the interchange document: YYYYMMDDTHHMMSSZ.
func compactUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// GoogleCalendarLink builds the "add to Google Calendar" deep link for
// one event. The dates parameter carries both instants in compact UTC
// form regardless of zoneID; zoneID is only a display hint (ctz).
//
// Parameter order matches the published invitation links, so it is kept
// stable rather than letting url.Values sort the query.
func GoogleCalendarLink(title, description, location, zoneID string, start, end time.Time) string {
	var b strings.Builder
	b.WriteString("https://calendar.google.com/calendar/render?action=TEMPLATE")
	b.WriteString("&text=")
	b.WriteString(url.QueryEscape(title))
	b.WriteString("&dates=")
	b.WriteString(compactUTC(start))
	b.WriteString("/")
	b.WriteString(compactUTC(end))
	b.WriteString("&details=")
	b.WriteString(url.QueryEscape(description))
	b.WriteString("&location=")
	b.WriteString(url.QueryEscape(location))
	b.WriteString("&ctz=")
	b.WriteString(url.QueryEscape(zoneID))
	return b.String()
}

// InterchangeDocument renders a single-event iCalendar document suitable
// for direct download/import.
//
// The line layout (field names, order, UTC-Z timestamps, "\n" joins) is
// the one contract third-party calendar applications parse, so it is
// emitted verbatim here instead of going through an ICS builder that
// would reorder properties or add DTSTAMP/UID lines.
//
// Field values are inserted without escaping reserved characters
// (commas, semicolons, embedded newlines). A description containing
// them produces a malformed document; callers keep the agenda text
// clean of them.
func InterchangeDocument(title, description, location, sourceURL string, start, end time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"URL:" + sourceURL,
		"DTSTART:" + compactUTC(start),
		"DTEND:" + compactUTC(end),
		"SUMMARY:" + title,
		"DESCRIPTION:" + description,
		"LOCATION:" + location,
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\n")
}

// SuggestFileName derives a download filename from an event title:
// lower-cased, each space replaced with a hyphen (consecutive spaces
// yield consecutive hyphens), with the .ics extension appended.
func SuggestFileName(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".ics"
}
