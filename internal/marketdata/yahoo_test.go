package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chartResponse builds a minimal chart payload. Timestamps and quote
// arrays are parallel; nil entries become JSON nulls.
func chartResponse(timestamps []int64, closes []interface{}) string {
	ts := "["
	for i, t := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", t)
	}
	ts += "]"

	quote := "["
	for i, c := range closes {
		if i > 0 {
			quote += ","
		}
		if c == nil {
			quote += "null"
		} else {
			quote += fmt.Sprintf("%v", c)
		}
	}
	quote += "]"

	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":%s,"indicators":{"quote":[{"open":%s,"high":%s,"low":%s,"close":%s,"volume":%s}]}}],"error":null}}`,
		ts, quote, quote, quote, quote, quote)
}

func testProvider(serverURL string, client *http.Client) *YahooProvider {
	p := NewYahooProvider()
	p.client = client
	p.baseURL = serverURL
	return p
}

func TestFetchParsesBars(t *testing.T) {
	body := chartResponse(
		[]int64{1000, 2000, 3000},
		[]interface{}{100.5, 101.5, 102.5},
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	provider := testProvider(server.URL, server.Client())
	bars, err := provider.Fetch(context.Background(), "EURUSD=X", "1h", "3mo")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(bars) != 3 {
		t.Fatalf("bar count = %d, want 3", len(bars))
	}
	if bars[0].Close != 100.5 || bars[2].Close != 102.5 {
		t.Errorf("closes not parsed: %+v", bars)
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Error("bars not sorted by timestamp")
	}
}

func TestFetchSkipsNullBars(t *testing.T) {
	body := chartResponse(
		[]int64{1000, 2000, 3000},
		[]interface{}{100.5, nil, 102.5},
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	provider := testProvider(server.URL, server.Client())
	bars, err := provider.Fetch(context.Background(), "EURUSD=X", "1h", "3mo")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("null bar should be skipped, got %d bars", len(bars))
	}
}

func TestFetchSortsOutOfOrderBars(t *testing.T) {
	body := chartResponse(
		[]int64{3000, 1000, 2000},
		[]interface{}{103.0, 101.0, 102.0},
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	provider := testProvider(server.URL, server.Client())
	bars, err := provider.Fetch(context.Background(), "EURUSD=X", "1h", "3mo")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if bars[0].Close != 101.0 || bars[2].Close != 103.0 {
		t.Errorf("bars not sorted: %+v", bars)
	}
}

func TestFetchAPIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	provider := testProvider(server.URL, server.Client())
	if _, err := provider.Fetch(context.Background(), "BOGUS", "1h", "3mo"); err == nil {
		t.Error("expected error for API-level failure")
	}
}

func TestFetchAugmentsIndicators(t *testing.T) {
	// 20 bars: enough for the 14-period RSI and ATR windows.
	timestamps := make([]int64, 20)
	closes := make([]interface{}, 20)
	for i := range timestamps {
		timestamps[i] = int64(1000 * (i + 1))
		closes[i] = 100.0 + float64(i)
	}
	body := chartResponse(timestamps, closes)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	provider := testProvider(server.URL, server.Client())
	bars, err := provider.Fetch(context.Background(), "EURUSD=X", "1h", "3mo")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	last := bars[len(bars)-1]
	if last.RSI == 0 {
		t.Error("RSI column not filled on the tail of the series")
	}
	if last.VWAP == 0 {
		t.Error("VWAP column not filled")
	}
	// Leading rows predate the indicator windows and stay zeroed.
	if bars[0].RSI != 0 {
		t.Errorf("leading RSI should be undefined, got %.2f", bars[0].RSI)
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{nil, 0},
		{1.5, 1.5},
		{3, 3},
		{"oops", 0},
	}
	for _, tt := range tests {
		if got := toFloat(tt.in); got != tt.want {
			t.Errorf("toFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
