// Package scoring estimates the success probability of a trade setup.
// Two implementations exist: an additive rule-based scorer and a learned
// logistic model loaded from a JSON artifact. The decision pipeline is
// indifferent to which one produced the score.
package scoring

import (
	"smc-analyst/internal/models"

	"github.com/rs/zerolog"
)

// Scorer produces a success probability in [0, 100] for a setup.
type Scorer interface {
	Name() string
	Score(setup *models.TradeSetup, snap *models.SMCSnapshot) float64
}

// Select picks the scorer at construction time: the learned model when a
// usable artifact exists at modelPath, otherwise the rule-based
// fallback. Model problems are logged and recovered here; they never
// surface to the pipeline.
func Select(modelPath string, logger zerolog.Logger) Scorer {
	if modelPath == "" {
		return &RuleScorer{}
	}
	ms, err := NewModelScorer(modelPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", modelPath).
			Msg("Probability model unavailable, using rule-based scorer")
		return &RuleScorer{}
	}
	logger.Debug().Str("path", modelPath).Msg("Probability model loaded")
	return ms
}

// trendAligned reports whether the higher-timeframe trend matches the
// trade direction.
func trendAligned(setup *models.TradeSetup) bool {
	switch setup.Direction {
	case models.DirectionShort:
		return setup.HTFTrend == models.TrendBearish
	case models.DirectionLong:
		return setup.HTFTrend == models.TrendBullish
	}
	return false
}

// zoneExtended reports whether the zone position is beyond 0.7 in the
// trade direction (above 0.7 for shorts, below 0.3 for longs).
func zoneExtended(setup *models.TradeSetup) bool {
	switch setup.Direction {
	case models.DirectionShort:
		return setup.ZonePosition > 0.7
	case models.DirectionLong:
		return setup.ZonePosition < 0.3
	}
	return false
}

// matchingBlocks returns the count of order blocks whose polarity
// matches the trade direction.
func matchingBlocks(setup *models.TradeSetup) int {
	if setup.Direction == models.DirectionLong {
		return setup.BullishOBCount
	}
	return setup.BearishOBCount
}

// matchingShift reports whether a structure shift in the trade direction
// is present.
func matchingShift(setup *models.TradeSetup) bool {
	if setup.Direction == models.DirectionLong {
		return setup.HasBullishMSS
	}
	return setup.HasBearishMSS
}
