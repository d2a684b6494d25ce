// Package schedule triggers the daily rarity report and the weekly
// leaderboards at a fixed wall-clock time.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
)

// leaderboardWindow is how far back a scheduled leaderboard looks.
const leaderboardWindow = 7

// RarityRunner publishes the rarity report for one date.
type RarityRunner interface {
	Run(ctx context.Context, date time.Time) error
}

// LeaderboardRunner publishes the identifier leaderboard of one taxon.
type LeaderboardRunner interface {
	Run(ctx context.Context, taxonID int64, from, to time.Time) error
}

// Options controls when jobs fire and what they cover.
type Options struct {
	Hour     int
	Minute   int
	Location *time.Location

	// LookbackDays is how many days before today the rarity report covers.
	LookbackDays int

	LeaderboardTaxonIDs []int64
	LeaderboardWeekday  time.Weekday
}

// Scheduler runs jobs one at a time on the goroutine that calls Run.
type Scheduler struct {
	opts        Options
	rarity      RarityRunner
	leaderboard LeaderboardRunner
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	running     atomic.Bool
}

// New creates a Scheduler. leaderboard may be nil when no leaderboard taxa are configured.
func New(opts Options, rarity RarityRunner, leaderboard LeaderboardRunner, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Scheduler{
		opts:        opts,
		rarity:      rarity,
		leaderboard: leaderboard,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil while the scheduling loop is active.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.running.Load() {
		return errors.New("scheduler is not running")
	}
	return nil
}

// Run waits for each scheduled time and runs the due jobs until ctx is
// cancelled. Job failures are logged and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.running.Store(true)
	s.metrics.SchedulerRunning.Set(1)
	defer func() {
		s.running.Store(false)
		s.metrics.SchedulerRunning.Set(0)
	}()

	s.logger.Info("scheduler started",
		"time", time.Date(0, 1, 1, s.opts.Hour, s.opts.Minute, 0, 0, time.UTC).Format("15:04"),
		"location", s.opts.Location.String(),
		"lookback_days", s.opts.LookbackDays,
		"leaderboard_taxa", len(s.opts.LeaderboardTaxonIDs),
	)

	for {
		now := s.clock.Now()
		next := NextRun(now, s.opts.Hour, s.opts.Minute, s.opts.Location)
		s.logger.Debug("next run scheduled", "at", next)

		timer := s.clock.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-timer.Chan():
		}

		s.runDue(ctx, next)
	}
}

func (s *Scheduler) runDue(ctx context.Context, at time.Time) {
	today := domain.StartOfDay(at.In(s.opts.Location))

	date := today.AddDate(0, 0, -s.opts.LookbackDays)
	if err := s.rarity.Run(ctx, date); err != nil {
		s.logger.Error("scheduled rarity report failed", "date", domain.ISODate(date), "error", err)
	}

	if s.leaderboard == nil || today.Weekday() != s.opts.LeaderboardWeekday {
		return
	}
	from := today.AddDate(0, 0, -leaderboardWindow)
	for _, taxonID := range s.opts.LeaderboardTaxonIDs {
		if ctx.Err() != nil {
			return
		}
		if err := s.leaderboard.Run(ctx, taxonID, from, today); err != nil {
			s.logger.Error("scheduled leaderboard failed", "taxon_id", taxonID, "error", err)
		}
	}
}

// NextRun returns the first instant strictly after now at hour:minute wall
// time in loc.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
