package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"smc-analyst/internal/errors"
	"smc-analyst/internal/models"
)

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run analysis on a schedule",
		Long: `Watch runs the analyze pipeline on a cron schedule. Runs that fall
outside session windows are skipped. The process blocks until it
receives SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, _ := cmd.Flags().GetString("schedule")
			direction, _ := cmd.Flags().GetString("direction")

			return app.watch(cmd.Context(), schedule, models.Direction(strings.ToUpper(direction)))
		},
	}

	cmd.Flags().String("schedule", "0 * * * *", "cron schedule for analysis runs")
	cmd.Flags().String("direction", "BOTH", "trade direction to evaluate: SHORT, LONG or BOTH")

	return cmd
}

func (app *App) watch(ctx context.Context, schedule string, direction models.Direction) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(schedule, func() {
		app.Logger.Info().Str("schedule", schedule).Msg("Scheduled analysis starting")
		_, err := app.runBatch(ctx, batchOptions{Direction: direction})
		if err != nil {
			if errors.Is(err, errors.ErrMarketClosed) {
				return
			}
			app.Logger.Error().Err(err).Msg("Scheduled analysis failed")
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid schedule %q", schedule)
	}

	scheduler.Start()
	app.Logger.Info().Str("schedule", schedule).Msg("Watch mode started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		app.Logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-ctx.Done():
		app.Logger.Info().Msg("Context cancelled, shutting down")
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}
