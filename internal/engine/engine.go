// Package engine runs the decision pipeline: news gate, structural
// analysis, trend classification, directional branch evaluation and the
// final verdict. One Analyze call processes one instrument's bar series
// to completion; all cross-call state is threaded through the request.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smc-analyst/internal/analysis/indicators"
	"smc-analyst/internal/analysis/liquidity"
	"smc-analyst/internal/analysis/smc"
	"smc-analyst/internal/models"
	"smc-analyst/internal/news"
	"smc-analyst/internal/risk"
	"smc-analyst/internal/scoring"
)

// newsGateMinutes is the proximity window around high-impact events.
// Distances at the boundary reject.
const newsGateMinutes = 15

// stopBufferRatio is the fraction of the current bar range added beyond
// the swept extreme when placing the stop.
const stopBufferRatio = 0.10

// rewardMultiple fixes the first target at twice the stop distance.
const rewardMultiple = 2.0

// Settings are the per-asset-class analysis knobs resolved by the
// caller from config.
type Settings struct {
	ValidShortZones     []string
	ValidLongZones      []string
	ExhaustionWickRatio float64
	SwingLookback       int
}

// Request carries everything one analysis call needs. Calendar and
// DayState are owned by the caller; the engine only reads them.
type Request struct {
	Instrument string
	Bars       []models.Bar
	Direction  models.Direction
	Session    string
	Spread     float64
	Settings   Settings
	Calendar   *news.Calendar
	State      risk.DayState
	Now        time.Time
}

// Analyst evaluates trade setups for one request at a time.
type Analyst struct {
	scorer scoring.Scorer
	limits risk.Limits
	logger zerolog.Logger
}

// NewAnalyst creates an analyst with the given scorer and risk limits.
func NewAnalyst(scorer scoring.Scorer, limits risk.Limits, logger zerolog.Logger) *Analyst {
	return &Analyst{scorer: scorer, limits: limits, logger: logger}
}

// Analyze runs the full pipeline and returns a verdict. Rejections are
// valid outcomes and carry the reason plus whatever structural data was
// computed before the gate fired.
func (a *Analyst) Analyze(req Request) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Instrument: req.Instrument,
		Verdict:    models.VerdictNoTrade,
	}

	if ok, reason := a.limits.CanTrade(req.State); !ok {
		result.Reason = reason
		return result
	}

	if req.Calendar != nil {
		minutes, title := req.Calendar.MinutesToNearestHighImpact(req.Now)
		if minutes <= newsGateMinutes {
			result.Reason = fmt.Sprintf("High Impact News: %s in %.0f min", title, minutes)
			return result
		}
	}

	detector := smc.NewDetector(req.Settings.SwingLookback)
	snap := detector.AnalyzeAll(req.Bars)
	result.SMC = snap

	trend := classifyTrend(req.Bars)

	switch req.Direction {
	case models.DirectionShort, models.DirectionLong:
		branch := a.evaluateBranch(req, req.Direction, trend, snap)
		return mergeBranch(result, branch)
	default:
		short := a.evaluateBranch(req, models.DirectionShort, trend, snap)
		if short.Verdict == models.VerdictValidSetup {
			return mergeBranch(result, short)
		}
		long := a.evaluateBranch(req, models.DirectionLong, trend, snap)
		if long.Verdict == models.VerdictValidSetup {
			return mergeBranch(result, long)
		}
		result.Reason = fmt.Sprintf("SHORT: %s | LONG: %s", short.Reason, long.Reason)
		// Only a branch that reached risk validation carries a setup;
		// short wins the audit snapshot when both do.
		result.Setup = short.Setup
		if result.Setup == nil {
			result.Setup = long.Setup
		}
		return result
	}
}

// branchResult is the outcome of one directional evaluation.
type branchResult struct {
	Verdict models.Verdict
	Reason  string
	Setup   *models.TradeSetup
	Plan    *models.TradePlan
}

// mergeBranch folds a branch outcome into the call-level result.
func mergeBranch(result *models.AnalysisResult, branch branchResult) *models.AnalysisResult {
	result.Verdict = branch.Verdict
	result.Reason = branch.Reason
	result.Setup = branch.Setup
	result.Plan = branch.Plan
	return result
}

// evaluateBranch runs the seven fixed gates for one direction: zone
// membership, opposing structure shift, liquidity sweep, confirmation,
// plan construction, probability scoring, risk validation.
func (a *Analyst) evaluateBranch(req Request, dir models.Direction, trend models.Trend, snap *models.SMCSnapshot) branchResult {
	branch := branchResult{Verdict: models.VerdictNoTrade}

	validZones := req.Settings.ValidShortZones
	opposingShift := models.MSSBullish
	if dir == models.DirectionLong {
		validZones = req.Settings.ValidLongZones
		opposingShift = models.MSSBearish
	}

	if !containsZone(validZones, snap.Zone.Zone) {
		branch.Reason = fmt.Sprintf("Price in %s zone, not valid for %s", snap.Zone.Zone, dir)
		return branch
	}

	if snap.HasShift(opposingShift) {
		branch.Reason = fmt.Sprintf("%s against %s bias", opposingShift, dir)
		return branch
	}

	check := liquidity.Evaluate(req.Bars, dir, req.Settings.ExhaustionWickRatio)
	if !check.Swept {
		branch.Reason = fmt.Sprintf("No liquidity sweep for %s", dir)
		return branch
	}

	if !check.Confirmed() {
		branch.Reason = "No confirmation: neither RSI divergence nor exhaustion wick"
		return branch
	}

	current := req.Bars[len(req.Bars)-1]
	plan := buildPlan(req.Instrument, dir, current, req.Now)
	setup := buildSetup(req, dir, trend, snap, check, current)

	setup.Timestamp = req.Now
	plan.Probability = a.scorer.Score(setup, snap)

	if ok, reason := a.limits.ValidateSetup(plan.EstimatedRR, req.Spread, plan.Probability); !ok {
		branch.Reason = reason
		branch.Setup = setup
		return branch
	}

	a.logger.Info().
		Str("instrument", req.Instrument).
		Str("direction", string(dir)).
		Float64("probability", plan.Probability).
		Msg("Valid setup found")

	branch.Verdict = models.VerdictValidSetup
	branch.Setup = setup
	branch.Plan = plan
	return branch
}

// buildPlan constructs the provisional entry, stop and targets. Entry
// is the current close; the stop sits beyond the current extreme by a
// fraction of the bar range; the first target fixes reward at twice the
// risk and the second extends one more multiple.
func buildPlan(instrument string, dir models.Direction, current models.Bar, now time.Time) *models.TradePlan {
	entry := current.Close
	buffer := current.Range() * stopBufferRatio

	var stop, target1, target2 float64
	if dir == models.DirectionShort {
		stop = current.High + buffer
		risk := stop - entry
		target1 = entry - rewardMultiple*risk
		target2 = entry - (rewardMultiple+1)*risk
	} else {
		stop = current.Low - buffer
		risk := entry - stop
		target1 = entry + rewardMultiple*risk
		target2 = entry + (rewardMultiple+1)*risk
	}

	rr := 0.0
	if riskDistance(entry, stop) > 0 {
		rr = rewardMultiple
	}

	return &models.TradePlan{
		ID:             fmt.Sprintf("%s-%s-%d", instrument, dir, now.Unix()),
		Instrument:     instrument,
		Direction:      dir,
		EntryZoneStart: entry,
		EntryZoneEnd:   entry + (stop-entry)*stopBufferRatio,
		StopLoss:       stop,
		Target1:        target1,
		Target2:        target2,
		EstimatedRR:    rr,
		Outcome:        models.OutcomePending,
		CreatedAt:      now,
	}
}

func riskDistance(entry, stop float64) float64 {
	if stop > entry {
		return stop - entry
	}
	return entry - stop
}

// buildSetup assembles the structural snapshot record before scoring.
func buildSetup(req Request, dir models.Direction, trend models.Trend, snap *models.SMCSnapshot, check liquidity.Check, current models.Bar) *models.TradeSetup {
	minutes := float64(9999)
	if req.Calendar != nil {
		minutes, _ = req.Calendar.MinutesToNearestHighImpact(req.Now)
	}
	return &models.TradeSetup{
		Instrument:     req.Instrument,
		Session:        req.Session,
		Direction:      dir,
		HTFTrend:       trend,
		KeyLevel:       check.KeyLevel,
		LiquidityEvent: check.Event,
		HasLargeWick:   check.Exhaustion,
		RSIDivergence:  check.Divergence,
		ATR:            current.ATR,
		VWAPDistance:   current.Close - current.VWAP,
		Spread:         req.Spread,
		NewsProximity:  minutes,
		ZonePosition:   snap.Zone.Position,
		Zone:           snap.Zone.Zone,
		BearishOBCount: len(snap.BearishBlocks),
		BullishOBCount: len(snap.BullishBlocks),
		FVGCount:       len(snap.Gaps),
		HasBearishMSS:  snap.HasShift(models.MSSBearish),
		HasBullishMSS:  snap.HasShift(models.MSSBullish),
	}
}

// classifyTrend labels the higher-timeframe trend from the 50 and 200
// period moving averages. Series too short for either window classify
// as Ranging rather than failing.
func classifyTrend(bars []models.Bar) models.Trend {
	sma50, err50 := indicators.NewSMA(50).Last(bars)
	sma200, err200 := indicators.NewSMA(200).Last(bars)
	if err50 != nil || err200 != nil {
		return models.TrendRanging
	}

	last := bars[len(bars)-1].Close
	switch {
	case last < sma50 && last < sma200:
		return models.TrendBearish
	case last > sma50 && last > sma200:
		return models.TrendBullish
	default:
		return models.TrendRanging
	}
}

func containsZone(zones []string, zone string) bool {
	for _, z := range zones {
		if strings.EqualFold(z, zone) {
			return true
		}
	}
	return false
}
