// Package liquidity provides sweep detection and confirmation checks on
// the latest bar of a series.
package liquidity

import (
	"smc-analyst/internal/models"
)

// sweepLookback is the number of prior bars whose extreme must be taken
// out for a sweep.
const sweepLookback = 10

// Sweep event labels.
const (
	EventHighSweep = "Local High Sweep"
	EventLowSweep  = "Local Low Sweep"
)

// Check is the result of evaluating liquidity and confirmation for one
// direction on the latest bar.
type Check struct {
	Swept      bool
	Event      string  // empty when no sweep occurred
	KeyLevel   float64 // the prior extreme that was swept (or tested)
	Exhaustion bool    // wick on the sweep side >= body * ratio
	Divergence bool    // RSI divergence against the previous bar
}

// Confirmed reports whether the direction passes confirmation:
// divergence or exhaustion must be present.
func (c Check) Confirmed() bool {
	return c.Divergence || c.Exhaustion
}

// Evaluate runs the liquidity and confirmation checks for the given
// direction. Shorts evaluate the high side, longs the low side. A series
// too short for the sweep window reports no sweep rather than failing;
// RSI values at the head of a short series are undefined and simply
// produce no divergence.
func Evaluate(bars []models.Bar, dir models.Direction, wickRatio float64) Check {
	var c Check
	n := len(bars)
	if n < 2 {
		return c
	}
	if wickRatio <= 0 {
		wickRatio = 1.0
	}

	current := bars[n-1]
	prev := bars[n-2]
	body := current.Body()

	if dir == models.DirectionShort {
		if n > sweepLookback {
			recentHigh := bars[n-1-sweepLookback].High
			for _, b := range bars[n-sweepLookback : n-1] {
				if b.High > recentHigh {
					recentHigh = b.High
				}
			}
			c.KeyLevel = recentHigh
			if current.High > recentHigh {
				c.Swept = true
				c.Event = EventHighSweep
			}
		}
		c.Exhaustion = current.UpperWick() >= body*wickRatio
		c.Divergence = current.High > prev.High && current.RSI < prev.RSI
		return c
	}

	if n > sweepLookback {
		recentLow := bars[n-1-sweepLookback].Low
		for _, b := range bars[n-sweepLookback : n-1] {
			if b.Low < recentLow {
				recentLow = b.Low
			}
		}
		c.KeyLevel = recentLow
		if current.Low < recentLow {
			c.Swept = true
			c.Event = EventLowSweep
		}
	}
	c.Exhaustion = current.LowerWick() >= body*wickRatio
	c.Divergence = current.Low < prev.Low && current.RSI > prev.RSI
	return c
}
