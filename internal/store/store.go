// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"smc-analyst/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Analysis snapshots
	SaveResult(ctx context.Context, result *models.AnalysisResult) error

	// Trade plans
	SavePlan(ctx context.Context, plan *models.TradePlan) error
	GetPlan(ctx context.Context, id string) (*models.TradePlan, error)
	GetPlans(ctx context.Context, filter PlanFilter) ([]models.TradePlan, error)
	RecordOutcome(ctx context.Context, planID string, outcome models.Outcome) error

	// Review
	GetStats(ctx context.Context, dateRange DateRange) (*Stats, error)

	// Lifecycle
	Close() error
}

// PlanFilter represents filters for querying trade plans.
type PlanFilter struct {
	Instrument string
	Outcome    models.Outcome
	Limit      int
}

// DateRange represents a date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Stats summarizes recorded plan outcomes for the review mode.
type Stats struct {
	TotalPlans     int
	Wins           int
	Losses         int
	Pending        int
	WinRate        float64
	AvgProbability float64
	ByInstrument   map[string]*InstrumentStats
}

// InstrumentStats is the per-instrument outcome breakdown.
type InstrumentStats struct {
	Instrument string
	Plans      int
	Wins       int
	Losses     int
	WinRate    float64
}
