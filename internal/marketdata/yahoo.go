package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"smc-analyst/internal/analysis/indicators"
	"smc-analyst/internal/models"
)

const (
	chartBaseURL  = "https://query1.finance.yahoo.com/v8/finance/chart"
	fetchRetries  = 3
	fetchTimeout  = 30 * time.Second
	defaultPeriod = 14
)

// YahooProvider implements Provider against the Yahoo Finance chart API.
type YahooProvider struct {
	client  *http.Client
	engine  *indicators.Engine
	baseURL string
}

// NewYahooProvider creates a Yahoo Finance provider with the indicator
// engine used to fill the derived Bar columns.
func NewYahooProvider() *YahooProvider {
	engine := indicators.NewEngine(4)
	engine.Register(indicators.NewRSI(defaultPeriod))
	engine.Register(indicators.NewATR(defaultPeriod))
	engine.Register(indicators.NewVWAP())
	return &YahooProvider{
		client:  &http.Client{Timeout: fetchTimeout},
		engine:  engine,
		baseURL: chartBaseURL,
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Fetch downloads the chart data, drops null bars, sorts by timestamp
// and augments the series with RSI, ATR and VWAP.
func (p *YahooProvider) Fetch(ctx context.Context, symbol, interval, period string) ([]models.Bar, error) {
	var bars []models.Bar
	var lastErr error
	for attempt := 0; attempt < fetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		bars, lastErr = p.fetchChart(ctx, symbol, interval, period)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("fetching %s: %w", symbol, lastErr)
	}

	if err := p.augment(ctx, bars); err != nil {
		return nil, fmt.Errorf("computing indicators for %s: %w", symbol, err)
	}
	return bars, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, interval, rng string) ([]models.Bar, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		p.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data returned")
	}
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    int64(toFloat(quote.Volume[i])),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

// augment fills the derived columns in place. A series too short for an
// indicator window leaves that column zeroed; consumers treat leading
// zeros as undefined.
func (p *YahooProvider) augment(ctx context.Context, bars []models.Bar) error {
	results, err := p.engine.CalculateAll(ctx, bars)
	if err != nil {
		return err
	}
	rsi := results[fmt.Sprintf("RSI_%d", defaultPeriod)]
	atr := results[fmt.Sprintf("ATR_%d", defaultPeriod)]
	vwap := results["VWAP"]

	for i := range bars {
		if i < len(rsi) {
			bars[i].RSI = rsi[i]
		}
		if i < len(atr) {
			bars[i].ATR = atr[i]
		}
		if i < len(vwap) {
			bars[i].VWAP = vwap[i]
		}
	}
	return nil
}
