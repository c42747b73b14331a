// Package risk enforces the daily trading limits and per-setup
// thresholds. All checks are pure: counters are caller-owned and
// threaded through explicitly, never held in package state.
package risk

import (
	"fmt"

	"smc-analyst/internal/models"
)

// Limits holds the configured risk thresholds.
type Limits struct {
	MaxTradesPerDay     int
	ConsecutiveLossStop int
	MaxDailyDrawdownPct float64
	MinRiskReward       float64
	MaxSpread           float64
	MinProbability      float64
}

// DayState carries the per-day counters the caller threads through a
// batch run. The zero value is a fresh day.
type DayState struct {
	Trades            int
	ConsecutiveLosses int
	DrawdownPct       float64
}

// RecordTrade returns the state after a new trade was taken.
func (s DayState) RecordTrade() DayState {
	s.Trades++
	return s
}

// RecordOutcome returns the state after an executed plan resolved.
// Wins reset the consecutive-loss streak; losses extend it and add the
// risked percentage to the drawdown.
func (s DayState) RecordOutcome(outcome models.Outcome, riskPct float64) DayState {
	switch outcome {
	case models.OutcomeWin:
		s.ConsecutiveLosses = 0
	case models.OutcomeLoss:
		s.ConsecutiveLosses++
		s.DrawdownPct += riskPct
	}
	return s
}

// CanTrade reports whether the daily limits still allow a new trade.
// Checks run in fixed order: trade count, loss streak, drawdown. The
// first failing limit supplies the reason.
func (l Limits) CanTrade(state DayState) (bool, string) {
	if state.Trades >= l.MaxTradesPerDay {
		return false, fmt.Sprintf("Daily trade limit reached (%d/%d)", state.Trades, l.MaxTradesPerDay)
	}
	if state.ConsecutiveLosses >= l.ConsecutiveLossStop {
		return false, fmt.Sprintf("Consecutive loss stop hit (%d losses)", state.ConsecutiveLosses)
	}
	if state.DrawdownPct >= l.MaxDailyDrawdownPct {
		return false, fmt.Sprintf("Daily drawdown limit reached (%.2f%%)", state.DrawdownPct)
	}
	return true, ""
}

// ValidateSetup applies the per-setup thresholds. Checks run in fixed
// order: risk-reward, spread, probability.
func (l Limits) ValidateSetup(rrRatio, spread, probability float64) (bool, string) {
	if rrRatio < l.MinRiskReward {
		return false, fmt.Sprintf("R:R %.2f below minimum %.2f", rrRatio, l.MinRiskReward)
	}
	if spread > l.MaxSpread {
		return false, fmt.Sprintf("Spread %.2f above maximum %.2f", spread, l.MaxSpread)
	}
	if probability < l.MinProbability {
		return false, fmt.Sprintf("Probability %.0f%% below minimum %.0f%%", probability, l.MinProbability)
	}
	return true, ""
}
