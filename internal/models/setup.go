package models

import "time"

// Verdict is the terminal output of one analysis run.
type Verdict string

const (
	VerdictNoTrade    Verdict = "NO TRADE"
	VerdictValidSetup Verdict = "VALID SETUP"
)

// TradeSetup is the structural and contextual snapshot assembled for one
// analysis call. It is created once per call and never mutated afterward;
// ownership passes to the caller.
type TradeSetup struct {
	Instrument     string
	Session        string
	Direction      Direction
	HTFTrend       Trend
	KeyLevel       float64 // swept extreme on the sweep side
	LiquidityEvent string  // empty when no sweep occurred
	HasLargeWick   bool
	RSIDivergence  bool
	ATR            float64
	VWAPDistance   float64
	Spread         float64
	NewsProximity  float64 // minutes to nearest high-impact event
	ZonePosition   float64
	Zone           string
	BearishOBCount int
	BullishOBCount int
	FVGCount       int
	HasBearishMSS  bool
	HasBullishMSS  bool
	Timestamp      time.Time
}

// Outcome records how an executed plan resolved.
type Outcome string

const (
	OutcomePending Outcome = "PENDING"
	OutcomeWin     Outcome = "WIN"
	OutcomeLoss    Outcome = "LOSS"
)

// TradePlan is the fully parameterized plan emitted for a valid setup.
type TradePlan struct {
	ID             string
	Instrument     string
	Direction      Direction
	EntryZoneStart float64
	EntryZoneEnd   float64
	StopLoss       float64
	Target1        float64
	Target2        float64
	EstimatedRR    float64
	Probability    float64
	Outcome        Outcome
	CreatedAt      time.Time
}

// AnalysisResult is the verdict of the decision pipeline for one
// instrument. Setup and SMC are populated on every path that computed
// them, including rejections, so non-trades remain auditable.
type AnalysisResult struct {
	Instrument string
	Verdict    Verdict
	Reason     string
	Setup      *TradeSetup
	Plan       *TradePlan // nil unless Verdict == VerdictValidSetup
	SMC        *SMCSnapshot
}
