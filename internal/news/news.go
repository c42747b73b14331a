// Package news supplies the macro event calendar used by the decision
// pipeline's news-proximity gate.
package news

import (
	"math"
	"time"
)

// noEventDistance stands in for "no upcoming events"; far enough to
// pass any proximity gate.
const noEventDistance = 9999

// Event is one calendar entry.
type Event struct {
	Title   string
	Country string
	Impact  string
	Time    time.Time
}

// Calendar is an immutable snapshot of upcoming events, taken once per
// batch run and shared read-only across instruments.
type Calendar struct {
	events []Event
}

// NewCalendar builds a calendar from a fetched event list.
func NewCalendar(events []Event) *Calendar {
	return &Calendar{events: events}
}

// Events returns the underlying event list.
func (c *Calendar) Events() []Event {
	return c.events
}

// MinutesToNearestHighImpact returns the signed-distance magnitude in
// minutes to the nearest high-impact event, along with its title. An
// empty calendar returns a large sentinel distance so the gate passes
// rather than crashing.
func (c *Calendar) MinutesToNearestHighImpact(now time.Time) (float64, string) {
	nearest := float64(noEventDistance)
	title := ""
	for _, ev := range c.events {
		minutes := math.Abs(ev.Time.Sub(now).Minutes())
		if minutes < nearest {
			nearest = minutes
			title = ev.Title
		}
	}
	return nearest, title
}
