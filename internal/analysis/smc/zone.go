package smc

import (
	"smc-analyst/internal/models"
)

// zoneWindow is the trailing range used for premium/discount classification.
const zoneWindow = 50

// Fibonacci retracement ratios, expressed as distance below the range high.
var fibLevels = []struct {
	label string
	ratio float64
}{
	{"1.0 (High)", 0},
	{"0.786", 0.214},
	{"0.618 (Golden)", 0.382},
	{"0.5 (Equilibrium)", 0.5},
	{"0.382", 0.618},
	{"0.236", 0.764},
	{"0.0 (Low)", 1.0},
}

// CalculateZone classifies the current close within the trailing
// min(50, len) bar range. A flat window (range 0) pins the position to
// 0.5 so the classification lands on Equilibrium instead of dividing by
// zero.
func CalculateZone(bars []models.Bar) models.ZoneInfo {
	info := models.ZoneInfo{Levels: make(map[string]float64, len(fibLevels))}
	if len(bars) == 0 {
		info.Position = 0.5
		info.Zone = models.ZoneEquilibrium
		info.Strength = "NEUTRAL ZONE"
		return info
	}

	window := bars
	if len(bars) > zoneWindow {
		window = bars[len(bars)-zoneWindow:]
	}

	high := window[0].High
	low := window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	current := bars[len(bars)-1].Close
	rangeSize := high - low

	position := 0.5
	if rangeSize > 0 {
		position = (current - low) / rangeSize
	}

	for _, lv := range fibLevels {
		info.Levels[lv.label] = high - rangeSize*lv.ratio
	}

	info.CurrentPrice = current
	info.Position = position

	switch {
	case position > 0.618:
		info.Zone = models.ZonePremium
		info.Strength = "STRONG SHORT ZONE"
	case position > 0.5:
		info.Zone = models.ZonePremiumWeak
		info.Strength = "MODERATE SHORT ZONE"
	case position > 0.382:
		info.Zone = models.ZoneEquilibrium
		info.Strength = "NEUTRAL ZONE"
	default:
		info.Zone = models.ZoneDiscount
		info.Strength = "LONG ZONE"
	}

	return info
}
