package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smc-analyst/internal/errors"
	"smc-analyst/internal/logging"
	"smc-analyst/internal/models"
	"smc-analyst/internal/store"
)

func newOutcomeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "outcome <plan-id> <win|loss>",
		Short: "Record the outcome of a trade plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			planID := args[0]
			var outcome models.Outcome
			switch strings.ToLower(args[1]) {
			case "win":
				outcome = models.OutcomeWin
			case "loss":
				outcome = models.OutcomeLoss
			default:
				return errors.Wrapf(errors.ErrInvalidOutcome, "%q (expected win or loss)", args[1])
			}

			if err := app.Store.RecordOutcome(cmd.Context(), planID, outcome); err != nil {
				return err
			}
			logging.LogOutcome(app.Logger, planID, outcome)

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"plan_id": planID,
					"outcome": string(outcome),
				})
			}
			output.Success("Recorded %s for plan %s", outcome, planID)
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show trade plan statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return errors.ErrDatabaseError
			}

			days, _ := cmd.Flags().GetInt("days")
			now := time.Now().UTC()
			stats, err := app.Store.GetStats(cmd.Context(), store.DateRange{
				Start: now.AddDate(0, 0, -days),
				End:   now,
			})
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(stats)
			}
			renderStats(output, stats, days)
			return nil
		},
	}

	cmd.Flags().Int("days", 30, "number of days to include")

	return cmd
}

func renderStats(output *Output, stats *store.Stats, days int) {
	output.Bold("Trade Plan Statistics (last %d days)", days)
	output.Println()
	output.Printf("  Total Plans:      %d\n", stats.TotalPlans)
	output.Printf("  Wins:             %s\n", output.Green(fmt.Sprintf("%d", stats.Wins)))
	output.Printf("  Losses:           %s\n", output.Red(fmt.Sprintf("%d", stats.Losses)))
	output.Printf("  Pending:          %d\n", stats.Pending)
	output.Printf("  Win Rate:         %.1f%%\n", stats.WinRate)
	output.Printf("  Avg Probability:  %.1f%%\n", stats.AvgProbability)
	output.Println()

	if len(stats.ByInstrument) == 0 {
		return
	}

	names := make([]string, 0, len(stats.ByInstrument))
	for name := range stats.ByInstrument {
		names = append(names, name)
	}
	sort.Strings(names)

	output.Bold("By Instrument")
	table := NewTable(output, "Instrument", "Plans", "Wins", "Losses", "Win Rate")
	for _, name := range names {
		ins := stats.ByInstrument[name]
		table.AddRow(
			ins.Instrument,
			fmt.Sprintf("%d", ins.Plans),
			fmt.Sprintf("%d", ins.Wins),
			fmt.Sprintf("%d", ins.Losses),
			fmt.Sprintf("%.1f%%", ins.WinRate),
		)
	}
	table.Render()
}
