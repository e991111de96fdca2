package analytics

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/logging"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs the nightly rollup and retention jobs on a cron schedule.
type Scheduler struct {
	log       Log
	cron      *cron.Cron
	schedule  string
	retention time.Duration
	now       func() time.Time
	logger    *zerolog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedule overrides the cron spec. Seconds are optional.
func WithSchedule(spec string) SchedulerOption {
	return func(s *Scheduler) { s.schedule = spec }
}

// WithRetention overrides how long raw events are kept.
func WithRetention(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.retention = d }
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger for job output.
func WithLogger(logger *zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = logger }
}

// NewScheduler creates a stopped scheduler over log.
func NewScheduler(log Log, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		log:       log,
		schedule:  constants.DailyAggregationSchedule,
		retention: constants.AnalyticsRetention,
		now:       time.Now,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cron = cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser))
	return s
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunDaily(ctx); err != nil {
			s.logger.Error().Err(err).Msg("daily analytics rollup failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Dur("retention", s.retention).Msg("analytics scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish or ctx
// to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunDaily rolls up the previous UTC day and prunes expired events.
func (s *Scheduler) RunDaily(ctx context.Context) (DailyStats, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	yesterday := today.Add(-24 * time.Hour)

	stats, err := s.Aggregate(ctx, yesterday)
	if err != nil {
		return DailyStats{}, err
	}

	pruned, err := s.log.Prune(ctx, s.now().Add(-s.retention))
	if err != nil {
		return stats, err
	}
	s.logger.Info().
		Str("date", stats.Date).
		Int("page_views", stats.PageViews).
		Int("unique_visitors", stats.UniqueVisitors).
		Int("pruned", pruned).
		Msg("aggregated daily analytics")
	return stats, nil
}

// Aggregate rolls up one UTC day and saves the result.
func (s *Scheduler) Aggregate(ctx context.Context, day time.Time) (DailyStats, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	events, err := s.log.Range(ctx, start, start.Add(24*time.Hour))
	if err != nil {
		return DailyStats{}, err
	}
	stats := AggregateDay(events, start)
	if err := s.log.SaveDaily(ctx, stats); err != nil {
		return DailyStats{}, err
	}
	return stats, nil
}
