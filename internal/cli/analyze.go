package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"smc-analyst/internal/engine"
	"smc-analyst/internal/errors"
	"smc-analyst/internal/logging"
	"smc-analyst/internal/models"
	"smc-analyst/internal/news"
	"smc-analyst/internal/risk"
	"smc-analyst/internal/store"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Analyze instruments for trade setups",
		Long: `Analyze runs the decision pipeline over the enabled instruments, or a
single named instrument when given. Every verdict is persisted; valid
setups additionally produce a trade plan and a consolidated email.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) > 0 {
				symbol = args[0]
			}
			direction, _ := cmd.Flags().GetString("direction")
			session, _ := cmd.Flags().GetString("session")
			force, _ := cmd.Flags().GetBool("force")

			results, err := app.runBatch(cmd.Context(), batchOptions{
				Symbol:    symbol,
				Direction: models.Direction(strings.ToUpper(direction)),
				Session:   session,
				Force:     force,
			})
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(results)
			}
			renderResults(output, results)
			return nil
		},
	}

	cmd.Flags().String("direction", "BOTH", "trade direction to evaluate: SHORT, LONG or BOTH")
	cmd.Flags().String("session", "", "session override: LONDON or NEW_YORK (default: auto-detect)")
	cmd.Flags().Bool("force", false, "analyze even outside session windows")

	return cmd
}

// batchOptions controls one batch analysis run.
type batchOptions struct {
	Symbol    string
	Direction models.Direction
	Session   string
	Force     bool
}

// runBatch analyzes the selected instruments in sequence, threading the
// day counters through and persisting every verdict. The event calendar
// is fetched once and shared read-only across the batch.
func (app *App) runBatch(ctx context.Context, opts batchOptions) ([]*models.AnalysisResult, error) {
	now := time.Now().UTC()

	session := opts.Session
	if session == "" {
		session = app.Sessions.SessionFor(now)
	}
	if session == "" && !opts.Force {
		app.Logger.Info().Msg("Outside session windows, skipping analysis")
		return nil, errors.ErrMarketClosed
	}

	instruments, err := app.selectInstruments(opts.Symbol)
	if err != nil {
		return nil, err
	}

	calendar := app.fetchCalendar(ctx)

	direction := opts.Direction
	if direction == "" {
		direction = models.DirectionBoth
	}

	state := app.loadDayState(ctx, now)
	var results []*models.AnalysisResult

	for _, ins := range instruments {
		logger := logging.WithInstrument(app.Logger, ins.Name)

		bars, err := app.Provider.Fetch(ctx, ins.YahooSymbol, app.Config.Data.Interval, app.Config.Data.Period)
		if err != nil {
			logger.Error().Err(err).Msg("Fetch failed, skipping instrument")
			app.Notifier.SendError(ctx, err, "fetching "+ins.Name)
			continue
		}

		settings := app.Config.AnalysisFor(ins.AssetClass)
		result := app.Analyst.Analyze(engine.Request{
			Instrument: ins.Name,
			Bars:       bars,
			Direction:  direction,
			Session:    session,
			Spread:     ins.Spread,
			Settings: engine.Settings{
				ValidShortZones:     settings.ValidShortZones,
				ValidLongZones:      settings.ValidLongZones,
				ExhaustionWickRatio: settings.ExhaustionWickRatio,
				SwingLookback:       settings.SwingLookback,
			},
			Calendar: calendar,
			State:    state,
			Now:      now,
		})

		logging.LogVerdict(logger, result)
		app.persistResult(ctx, logger, result)

		if result.Verdict == models.VerdictValidSetup {
			state = state.RecordTrade()
		}
		results = append(results, result)
	}

	if err := app.Notifier.SendSetups(ctx, results); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to send setup notification")
	}

	return results, nil
}

// loadDayState rebuilds the day counters from plans recorded today so
// the daily limits span consecutive runs, not just one batch. Losses
// accrue the configured per-trade risk percentage toward the drawdown.
func (app *App) loadDayState(ctx context.Context, now time.Time) risk.DayState {
	var state risk.DayState
	if app.Store == nil {
		return state
	}

	plans, err := app.Store.GetPlans(ctx, store.PlanFilter{})
	if err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to load today's plans, starting with fresh day counters")
		return state
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// Plans come back newest first; fold oldest first so the
	// consecutive-loss streak reflects the actual order.
	for i := len(plans) - 1; i >= 0; i-- {
		plan := plans[i]
		if plan.CreatedAt.Before(dayStart) {
			continue
		}
		state = state.RecordTrade()
		state = state.RecordOutcome(plan.Outcome, app.Config.Risk.RiskPerTradePct)
	}
	return state
}

// selectInstruments resolves the instrument set for a run: one named
// instrument, or all enabled ones.
func (app *App) selectInstruments(symbol string) ([]models.Instrument, error) {
	enabled := app.Config.EnabledInstruments()
	if symbol == "" {
		if len(enabled) == 0 {
			return nil, fmt.Errorf("no enabled instruments in config")
		}
		return enabled, nil
	}

	for _, ins := range app.Config.Instruments {
		if strings.EqualFold(ins.Name, symbol) {
			return []models.Instrument{{
				Name:        ins.Name,
				YahooSymbol: ins.YahooSymbol,
				AssetClass:  models.AssetClass(ins.AssetClass),
				Enabled:     true,
				Spread:      ins.Spread,
			}}, nil
		}
	}
	return nil, fmt.Errorf("instrument %s not found in config", symbol)
}

// fetchCalendar retrieves the news calendar when the gate is enabled.
// Fetch failures degrade to an empty calendar so analysis proceeds.
func (app *App) fetchCalendar(ctx context.Context) *news.Calendar {
	if !app.Config.News.Enabled {
		return news.NewCalendar(nil)
	}
	calendar, err := app.News.Fetch(ctx)
	if err != nil {
		app.Logger.Warn().Err(err).Msg("News fetch failed, gate will pass")
		return news.NewCalendar(nil)
	}
	return calendar
}

// persistResult saves the verdict and, for valid setups, the trade plan.
// Persistence failures are logged and do not abort the batch.
func (app *App) persistResult(ctx context.Context, logger zerolog.Logger, result *models.AnalysisResult) {
	if app.Store == nil {
		return
	}
	if err := app.Store.SaveResult(ctx, result); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist analysis result")
	}
	if result.Plan != nil {
		if err := app.Store.SavePlan(ctx, result.Plan); err != nil {
			logger.Warn().Err(err).Msg("Failed to persist trade plan")
		} else {
			logging.LogSetup(logger, result.Plan)
		}
	}
}

func renderResults(output *Output, results []*models.AnalysisResult) {
	for _, r := range results {
		output.Println()
		output.Bold("%s: %s", r.Instrument, output.Verdict(string(r.Verdict)))
		if r.Reason != "" {
			output.Dim("  %s", r.Reason)
		}
		if r.SMC != nil {
			output.Printf("  Zone: %s (position %.2f)\n", r.SMC.Zone.Zone, r.SMC.Zone.Position)
			output.Printf("  Order blocks: %d bearish / %d bullish | FVGs: %d\n",
				len(r.SMC.BearishBlocks), len(r.SMC.BullishBlocks), len(r.SMC.Gaps))
			if r.SMC.Shift != nil {
				output.Printf("  Structure: %s (%s)\n", r.SMC.Shift.Type, r.SMC.Shift.Implication)
			}
		}
		if r.Plan != nil {
			p := r.Plan
			output.Success("  %s | Entry %.5f-%.5f | Stop %.5f | T1 %.5f | T2 %.5f",
				p.Direction, p.EntryZoneStart, p.EntryZoneEnd, p.StopLoss, p.Target1, p.Target2)
			output.Printf("  R:R %.1f | Probability %.0f%% | Plan ID %s\n",
				p.EstimatedRR, p.Probability, p.ID)
		}
	}
	output.Println()
}
