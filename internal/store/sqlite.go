package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"smc-analyst/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Analysis snapshots: one row per verdict, including rejections
	CREATE TABLE IF NOT EXISTS analysis_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		instrument TEXT NOT NULL,
		verdict TEXT NOT NULL,
		reason TEXT,
		direction TEXT,
		session TEXT,
		htf_trend TEXT,
		zone TEXT,
		zone_position REAL,
		liquidity_event TEXT,
		rsi_divergence INTEGER DEFAULT 0,
		large_wick INTEGER DEFAULT 0,
		bearish_ob_count INTEGER DEFAULT 0,
		bullish_ob_count INTEGER DEFAULT 0,
		fvg_count INTEGER DEFAULT 0,
		bearish_mss INTEGER DEFAULT 0,
		bullish_mss INTEGER DEFAULT 0,
		atr REAL,
		vwap_distance REAL,
		spread REAL,
		news_proximity REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Trade plans emitted for valid setups
	CREATE TABLE IF NOT EXISTS trade_plans (
		id TEXT PRIMARY KEY,
		instrument TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry_zone_start REAL NOT NULL,
		entry_zone_end REAL NOT NULL,
		stop_loss REAL NOT NULL,
		target1 REAL,
		target2 REAL,
		risk_reward REAL,
		probability REAL,
		outcome TEXT DEFAULT 'PENDING',
		created_at DATETIME NOT NULL,
		resolved_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_instrument ON analysis_snapshots(instrument);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON analysis_snapshots(created_at);
	CREATE INDEX IF NOT EXISTS idx_plans_instrument ON trade_plans(instrument);
	CREATE INDEX IF NOT EXISTS idx_plans_outcome ON trade_plans(outcome);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult persists one analysis verdict, including rejections, so
// non-trades remain auditable. Plans are saved separately.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *models.AnalysisResult) error {
	var (
		direction, session, trend, zone, event  string
		zonePos, atr, vwapDist, spread, newsMin float64
		divergence, wick                        int
		bearOB, bullOB, fvg, bearMSS, bullMSS   int
	)
	if setup := result.Setup; setup != nil {
		direction = string(setup.Direction)
		session = setup.Session
		trend = string(setup.HTFTrend)
		zone = setup.Zone
		zonePos = setup.ZonePosition
		event = setup.LiquidityEvent
		divergence = boolInt(setup.RSIDivergence)
		wick = boolInt(setup.HasLargeWick)
		bearOB = setup.BearishOBCount
		bullOB = setup.BullishOBCount
		fvg = setup.FVGCount
		bearMSS = boolInt(setup.HasBearishMSS)
		bullMSS = boolInt(setup.HasBullishMSS)
		atr = setup.ATR
		vwapDist = setup.VWAPDistance
		spread = setup.Spread
		newsMin = setup.NewsProximity
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_snapshots (instrument, verdict, reason, direction, session, htf_trend, zone, zone_position, liquidity_event, rsi_divergence, large_wick, bearish_ob_count, bullish_ob_count, fvg_count, bearish_mss, bullish_mss, atr, vwap_distance, spread, news_proximity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.Instrument, result.Verdict, result.Reason, direction, session, trend, zone, zonePos, event, divergence, wick, bearOB, bullOB, fvg, bearMSS, bullMSS, atr, vwapDist, spread, newsMin)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// SavePlan saves a trade plan to the database.
func (s *SQLiteStore) SavePlan(ctx context.Context, plan *models.TradePlan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trade_plans (id, instrument, direction, entry_zone_start, entry_zone_end, stop_loss, target1, target2, risk_reward, probability, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.Instrument, plan.Direction, plan.EntryZoneStart, plan.EntryZoneEnd, plan.StopLoss, plan.Target1, plan.Target2, plan.EstimatedRR, plan.Probability, plan.Outcome, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save trade plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a single plan by ID, or nil when absent.
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*models.TradePlan, error) {
	var p models.TradePlan
	err := s.db.QueryRowContext(ctx, `
		SELECT id, instrument, direction, entry_zone_start, entry_zone_end, stop_loss, target1, target2, risk_reward, probability, outcome, created_at
		FROM trade_plans WHERE id = ?
	`, id).Scan(&p.ID, &p.Instrument, &p.Direction, &p.EntryZoneStart, &p.EntryZoneEnd, &p.StopLoss, &p.Target1, &p.Target2, &p.EstimatedRR, &p.Probability, &p.Outcome, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade plan: %w", err)
	}
	return &p, nil
}

// GetPlans retrieves trade plans from the database.
func (s *SQLiteStore) GetPlans(ctx context.Context, filter PlanFilter) ([]models.TradePlan, error) {
	query := "SELECT id, instrument, direction, entry_zone_start, entry_zone_end, stop_loss, target1, target2, risk_reward, probability, outcome, created_at FROM trade_plans WHERE 1=1"
	args := []interface{}{}

	if filter.Instrument != "" {
		query += " AND instrument = ?"
		args = append(args, filter.Instrument)
	}
	if filter.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, filter.Outcome)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade plans: %w", err)
	}
	defer rows.Close()

	var plans []models.TradePlan
	for rows.Next() {
		var p models.TradePlan
		if err := rows.Scan(&p.ID, &p.Instrument, &p.Direction, &p.EntryZoneStart, &p.EntryZoneEnd, &p.StopLoss, &p.Target1, &p.Target2, &p.EstimatedRR, &p.Probability, &p.Outcome, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// RecordOutcome marks a plan as resolved.
func (s *SQLiteStore) RecordOutcome(ctx context.Context, planID string, outcome models.Outcome) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE trade_plans SET outcome = ?, resolved_at = ? WHERE id = ?
	`, outcome, time.Now(), planID)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("trade plan not found: %s", planID)
	}

	return nil
}

// GetStats aggregates recorded outcomes over a date range.
func (s *SQLiteStore) GetStats(ctx context.Context, dateRange DateRange) (*Stats, error) {
	stats := &Stats{ByInstrument: make(map[string]*InstrumentStats)}

	var wins, losses, pending sql.NullInt64
	var avgProb sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			SUM(CASE WHEN outcome = 'WIN' THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = 'LOSS' THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = 'PENDING' THEN 1 ELSE 0 END),
			COALESCE(AVG(probability), 0)
		FROM trade_plans
		WHERE created_at >= ? AND created_at <= ?
	`, dateRange.Start, dateRange.End).Scan(&stats.TotalPlans, &wins, &losses, &pending, &avgProb)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan stats: %w", err)
	}
	if wins.Valid {
		stats.Wins = int(wins.Int64)
	}
	if losses.Valid {
		stats.Losses = int(losses.Int64)
	}
	if pending.Valid {
		stats.Pending = int(pending.Int64)
	}
	if avgProb.Valid {
		stats.AvgProbability = avgProb.Float64
	}
	if resolved := stats.Wins + stats.Losses; resolved > 0 {
		stats.WinRate = float64(stats.Wins) / float64(resolved) * 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			instrument,
			COUNT(*),
			SUM(CASE WHEN outcome = 'WIN' THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = 'LOSS' THEN 1 ELSE 0 END)
		FROM trade_plans
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY instrument
	`, dateRange.Start, dateRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var is InstrumentStats
		if err := rows.Scan(&is.Instrument, &is.Plans, &is.Wins, &is.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan instrument stats: %w", err)
		}
		if resolved := is.Wins + is.Losses; resolved > 0 {
			is.WinRate = float64(is.Wins) / float64(resolved) * 100
		}
		stats.ByInstrument[is.Instrument] = &is
	}

	return stats, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
