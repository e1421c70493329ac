package export

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// FeedEvent is one agenda entry ready for feed serialization: resolved
// instants plus the descriptive fields.
type FeedEvent struct {
	Title       string
	Description string
	Location    string
	URL         string
	Start       time.Time
	End         time.Time
}

// AgendaFeed serializes the whole agenda as a subscribable iCalendar
// feed. Unlike InterchangeDocument this goes through the ICS library,
// which handles folding and text escaping; the per-event download keeps
// its bit-exact legacy shape, the feed does not need to.
func AgendaFeed(name, timezone string, events []FeedEvent, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//vivaah//invitation//EN")
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(timezone)

	for _, fe := range events {
		ev := cal.AddEvent(uuid.NewString())
		ev.SetDtStampTime(now)
		ev.SetStartAt(fe.Start)
		ev.SetEndAt(fe.End)
		ev.SetSummary(fe.Title)
		if fe.Description != "" {
			ev.SetDescription(fe.Description)
		}
		if fe.Location != "" {
			ev.SetLocation(fe.Location)
		}
		if fe.URL != "" {
			ev.SetURL(fe.URL)
		}
	}

	return cal.Serialize()
}
