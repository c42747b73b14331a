package risk

import (
	"time"
)

// Session names returned by SessionFor.
const (
	SessionLondon  = "LONDON"
	SessionNewYork = "NEW_YORK"
)

// SessionWindows holds the configured UTC session bounds as "HH:MM"
// strings. Comparison is lexicographic, which is correct for
// zero-padded 24-hour times, with inclusive bounds on both ends.
type SessionWindows struct {
	LondonStart  string
	LondonEnd    string
	NewYorkStart string
	NewYorkEnd   string
}

// SessionFor returns the active session for the given instant, or an
// empty string when the UTC time-of-day falls outside both windows.
func (w SessionWindows) SessionFor(t time.Time) string {
	hhmm := t.UTC().Format("15:04")
	if hhmm >= w.LondonStart && hhmm <= w.LondonEnd {
		return SessionLondon
	}
	if hhmm >= w.NewYorkStart && hhmm <= w.NewYorkEnd {
		return SessionNewYork
	}
	return ""
}
