package smc

import (
	"smc-analyst/internal/models"
)

// LocateSwings finds local price extrema over a symmetric window of
// lookback bars on each side. Only interior bars are eligible; a series
// of 2*lookback+1 bars or fewer yields empty results. A bar qualifies as
// a swing high when its high equals the window maximum, so ties produce
// multiple swing points, recorded oldest first. A single bar may be both
// a swing high and a swing low.
func LocateSwings(bars []models.Bar, lookback int) (highs, lows []models.SwingPoint) {
	n := len(bars)
	if lookback <= 0 || n < 2*lookback+1 {
		return nil, nil
	}

	for i := lookback; i < n-lookback; i++ {
		windowHigh := bars[i].High
		windowLow := bars[i].Low
		for j := i - lookback; j <= i+lookback; j++ {
			if bars[j].High > windowHigh {
				windowHigh = bars[j].High
			}
			if bars[j].Low < windowLow {
				windowLow = bars[j].Low
			}
		}

		if bars[i].High == windowHigh {
			highs = append(highs, models.SwingPoint{
				Index: i,
				Price: bars[i].High,
				Kind:  models.SwingHigh,
			})
		}
		if bars[i].Low == windowLow {
			lows = append(lows, models.SwingPoint{
				Index: i,
				Price: bars[i].Low,
				Kind:  models.SwingLow,
			})
		}
	}

	return highs, lows
}
