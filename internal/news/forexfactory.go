package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	feedURL      = "https://nfs.faireconomy.media/ff_calendar_thisweek.xml"
	fetchRetries = 3
	fetchTimeout = 15 * time.Second
)

// ffWeekly mirrors the ForexFactory weekly calendar XML.
type ffWeekly struct {
	XMLName xml.Name  `xml:"weeklyevents"`
	Events  []ffEvent `xml:"event"`
}

type ffEvent struct {
	Title   string `xml:"title"`
	Country string `xml:"country"`
	Impact  string `xml:"impact"`
	Date    string `xml:"date"`
	Time    string `xml:"time"`
}

// Fetcher retrieves the weekly economic calendar from ForexFactory.
type Fetcher struct {
	client *http.Client
	url    string
}

// NewFetcher creates a calendar fetcher with a bounded HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		url:    feedURL,
	}
}

// Fetch downloads the weekly feed and returns a calendar filtered to
// high-impact USD events. Transient failures are retried before giving
// up.
func (f *Fetcher) Fetch(ctx context.Context) (*Calendar, error) {
	var lastErr error
	for attempt := 0; attempt < fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		cal, err := f.fetchOnce(ctx)
		if err == nil {
			return cal, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetching news calendar: %w", lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context) (*Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; smc-analyst/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var weekly ffWeekly
	if err := xml.Unmarshal(body, &weekly); err != nil {
		return nil, fmt.Errorf("decoding calendar feed: %w", err)
	}

	var events []Event
	for _, raw := range weekly.Events {
		if !strings.EqualFold(raw.Country, "USD") || !strings.EqualFold(raw.Impact, "High") {
			continue
		}
		when, err := parseEventTime(raw.Date, raw.Time)
		if err != nil {
			continue
		}
		events = append(events, Event{
			Title:   raw.Title,
			Country: strings.ToUpper(raw.Country),
			Impact:  raw.Impact,
			Time:    when,
		})
	}
	return NewCalendar(events), nil
}

// parseEventTime combines the feed's MM-DD-YYYY date and 12-hour clock
// time fields. All-day entries carry no parseable time and are skipped.
func parseEventTime(date, clock string) (time.Time, error) {
	clock = strings.ToUpper(strings.TrimSpace(clock))
	if clock == "" || clock == "ALL DAY" || clock == "TENTATIVE" {
		return time.Time{}, fmt.Errorf("no fixed time")
	}
	return time.Parse("01-02-2006 3:04PM", strings.TrimSpace(date)+" "+clock)
}
