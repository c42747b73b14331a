package smc

import (
	"smc-analyst/internal/models"
)

// maxFairValueGaps caps how many gaps are retained.
const maxFairValueGaps = 5

// DetectFairValueGaps scans for three-bar imbalances.
//
// A bearish gap exists when bar[i-2]'s low sits above bar[i]'s high; a
// bullish gap when bar[i-2]'s high sits below bar[i]'s low. The bearish
// check wins when a position could satisfy both. The result keeps the
// five most recent gaps in scan order, oldest first.
func DetectFairValueGaps(bars []models.Bar) []models.FairValueGap {
	var gaps []models.FairValueGap

	for i := 2; i < len(bars); i++ {
		before := bars[i-2]
		current := bars[i]

		if before.Low > current.High {
			gaps = append(gaps, models.FairValueGap{
				Kind:   models.Bearish,
				Index:  i,
				Top:    before.Low,
				Bottom: current.High,
				Size:   before.Low - current.High,
			})
		} else if before.High < current.Low {
			gaps = append(gaps, models.FairValueGap{
				Kind:   models.Bullish,
				Index:  i,
				Top:    current.Low,
				Bottom: before.High,
				Size:   current.Low - before.High,
			})
		}
	}

	if len(gaps) > maxFairValueGaps {
		gaps = gaps[len(gaps)-maxFairValueGaps:]
	}
	return gaps
}
