// Package analytics provides commands for the page-view analytics log.
package analytics

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/cmd/cmdutil"
	"github.com/agentstation/toolhub/internal/cmd/emoji"
	"github.com/agentstation/toolhub/internal/cmd/output"
	"github.com/agentstation/toolhub/internal/cmd/table"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
)

// NewCommand creates the analytics command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	return newCommand(app, time.Now)
}

func newCommand(app application.Application, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analytics",
		GroupID: "management",
		Short:   "Inspect and maintain page-view analytics",
		Long: `Analytics reads the event log recorded by the API server.

Daily rollups are normally written by the server at midnight UTC.
Use "aggregate" to build one by hand, for example after an import
of historical events.`,
	}

	cmd.AddCommand(newAggregateCommand(app, now))
	cmd.AddCommand(newDailyCommand(app, now))
	cmd.AddCommand(newPagesCommand(app, now))
	cmd.AddCommand(newPruneCommand(app, now))
	return cmd
}

func newAggregateCommand(app application.Application, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Roll up one day of events (default yesterday)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := app.Analytics()
			if err != nil {
				return err
			}
			day := now().UTC().Truncate(24 * time.Hour).Add(-24 * time.Hour)
			if date := cmdutil.MustGetString(cmd, "date"); date != "" {
				if day, err = parseDay("date", date); err != nil {
					return err
				}
			}

			scheduler := analytics.NewScheduler(log, analytics.WithNow(now), analytics.WithLogger(app.Logger()))
			stats, err := scheduler.Aggregate(cmd.Context(), day)
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), stats,
				func(bool) table.Data { return table.DailyToTableData([]analytics.DailyStats{stats}) })
		},
	}
	cmd.Flags().String("date", "", "Day to roll up (YYYY-MM-DD, UTC)")
	return cmd
}

func newDailyCommand(app application.Application, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show daily rollups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := dayRange(cmd, now())
			if err != nil {
				return err
			}
			log, err := app.Analytics()
			if err != nil {
				return err
			}
			days, err := log.Daily(cmd.Context(), analytics.DayKey(from), analytics.DayKey(to))
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), days,
				func(bool) table.Data { return table.DailyToTableData(days) })
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func newPagesCommand(app application.Application, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Show views per page from raw events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, to, err := dayRange(cmd, now())
			if err != nil {
				return err
			}
			log, err := app.Analytics()
			if err != nil {
				return err
			}
			events, err := log.Range(cmd.Context(), from, to.Add(24*time.Hour))
			if err != nil {
				return err
			}
			pages := analytics.ByPage(events)
			return output.Print(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), pages,
				func(bool) table.Data { return table.PagesToTableData(pages) })
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func newPruneCommand(app application.Application, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete raw events older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			retention, err := cmd.Flags().GetDuration("older-than")
			if err != nil {
				return err
			}
			if retention <= 0 {
				return errors.NewValidationError("older-than", retention, "must be positive")
			}
			log, err := app.Analytics()
			if err != nil {
				return err
			}
			n, err := log.Prune(cmd.Context(), now().Add(-retention))
			if err != nil {
				return err
			}
			app.Logger().Info().Int("pruned", n).Dur("older_than", retention).Msg("Pruned analytics events")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Pruned %d events\n", emoji.Success, n)
			return nil
		},
	}
	cmd.Flags().Duration("older-than", constants.AnalyticsRetention, "Delete events older than this")
	return cmd
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "First day (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().String("to", "", "Last day (YYYY-MM-DD, default today)")
}

// dayRange returns the inclusive day range from --from and --to.
func dayRange(cmd *cobra.Command, now time.Time) (time.Time, time.Time, error) {
	to := now.UTC().Truncate(24 * time.Hour)
	from := to.Add(-29 * 24 * time.Hour)

	var err error
	if raw := cmdutil.MustGetString(cmd, "from"); raw != "" {
		if from, err = parseDay("from", raw); err != nil {
			return from, to, err
		}
	}
	if raw := cmdutil.MustGetString(cmd, "to"); raw != "" {
		if to, err = parseDay("to", raw); err != nil {
			return from, to, err
		}
	}
	if from.After(to) {
		return from, to, errors.NewValidationError("from", analytics.DayKey(from), "must not be after to")
	}
	return from, to, nil
}

func parseDay(field, raw string) (time.Time, error) {
	t, err := time.Parse(constants.TimeFormatDay, raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError(field, raw, "must be a date like 2025-01-31")
	}
	return t, nil
}
