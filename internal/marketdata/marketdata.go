// Package marketdata fetches OHLCV bar series and augments them with
// the indicator columns the analysis expects.
package marketdata

import (
	"context"

	"smc-analyst/internal/models"
)

// Provider supplies a bar series for a symbol at a given interval and
// range. Implementations return bars ordered by timestamp with
// RSI/ATR/VWAP already populated.
type Provider interface {
	Fetch(ctx context.Context, symbol, interval, period string) ([]models.Bar, error)
}
