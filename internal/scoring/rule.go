package scoring

import (
	"smc-analyst/internal/models"
)

// RuleScorer is the deterministic additive fallback scorer.
type RuleScorer struct{}

func (r *RuleScorer) Name() string {
	return "rule-based"
}

// Score adds fixed points per favorable factor and caps the result at 100:
// trend alignment 30, liquidity sweep 25, RSI divergence 10, large wick
// 10, extended zone position 15, matching order block 10, matching
// structure shift 10.
func (r *RuleScorer) Score(setup *models.TradeSetup, snap *models.SMCSnapshot) float64 {
	var prob float64

	if trendAligned(setup) {
		prob += 30
	}
	if setup.LiquidityEvent != "" {
		prob += 25
	}
	if setup.RSIDivergence {
		prob += 10
	}
	if setup.HasLargeWick {
		prob += 10
	}
	if zoneExtended(setup) {
		prob += 15
	}
	if matchingBlocks(setup) > 0 {
		prob += 10
	}
	if matchingShift(setup) {
		prob += 10
	}

	if prob > 100 {
		prob = 100
	}
	return prob
}
