// Package smc provides smart-money-concept structure detection: order
// blocks, fair value gaps, premium/discount zones, and market structure
// shifts. All detectors are pure functions of the bar series.
package smc

import (
	"smc-analyst/internal/models"
)

// DefaultSwingLookback is the default symmetric window for swing detection.
const DefaultSwingLookback = 5

// Detector runs the full structural analysis over one bar series.
type Detector struct {
	SwingLookback int
}

// NewDetector creates a detector with the given swing lookback.
// A non-positive lookback falls back to the default.
func NewDetector(swingLookback int) *Detector {
	if swingLookback <= 0 {
		swingLookback = DefaultSwingLookback
	}
	return &Detector{SwingLookback: swingLookback}
}

// AnalyzeAll computes every structural fact for the series. Absent
// structures (no blocks, no gaps, no shift) leave their fields empty or
// nil; that is a valid outcome, not an error.
func (d *Detector) AnalyzeAll(bars []models.Bar) *models.SMCSnapshot {
	highs, lows := LocateSwings(bars, d.SwingLookback)

	return &models.SMCSnapshot{
		BearishBlocks: DetectOrderBlocks(bars, models.Bearish, d.SwingLookback),
		BullishBlocks: DetectOrderBlocks(bars, models.Bullish, d.SwingLookback),
		Gaps:          DetectFairValueGaps(bars),
		Zone:          CalculateZone(bars),
		Shift:         DetectStructureShift(bars, highs, lows),
	}
}
