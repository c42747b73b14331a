package smc

import (
	"smc-analyst/internal/models"
)

// DetectStructureShift checks for a market structure shift against the
// located swing points.
//
// Bearish: the two most recent swing lows form a higher low and the
// current close has broken below it. Bullish: the two most recent swing
// highs form a lower high and the current close has broken above it.
//
// The bearish condition is evaluated first and short-circuits, so when
// both conditions hold on the same series the bearish shift is reported.
// That asymmetry is deliberate and kept for determinism.
func DetectStructureShift(bars []models.Bar, highs, lows []models.SwingPoint) *models.StructureShift {
	if len(bars) == 0 {
		return nil
	}
	current := bars[len(bars)-1].Close

	if len(lows) >= 2 {
		earlier := lows[len(lows)-2]
		later := lows[len(lows)-1]
		if later.Price > earlier.Price && current < later.Price {
			return &models.StructureShift{
				Type:        models.MSSBearish,
				BrokenLevel: later.Price,
				Implication: "Trend reversal to downside",
			}
		}
	}

	if len(highs) >= 2 {
		earlier := highs[len(highs)-2]
		later := highs[len(highs)-1]
		if later.Price < earlier.Price && current > later.Price {
			return &models.StructureShift{
				Type:        models.MSSBullish,
				BrokenLevel: later.Price,
				Implication: "Trend reversal to upside",
			}
		}
	}

	return nil
}
