package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
)

// LeaderboardReport publishes the top identifiers of an iconic taxon group.
type LeaderboardReport struct {
	fetcher   IdentifierFetcher
	publisher Publisher
	composer  domain.Composer
	placeID   int64
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLeaderboardReport wires the leaderboard stages together.
func NewLeaderboardReport(f IdentifierFetcher, p Publisher, composer domain.Composer, placeID int64, logger *slog.Logger, metrics *observability.Metrics) *LeaderboardReport {
	return &LeaderboardReport{
		fetcher:   f,
		publisher: p,
		composer:  composer,
		placeID:   placeID,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run publishes the leaderboard for taxonID between from and to. When nobody
// identified anything in the range no post is made.
func (l *LeaderboardReport) Run(ctx context.Context, taxonID int64, from, to time.Time) error {
	top, err := l.fetcher.TopIdentifiers(ctx, taxonID, from, to, l.placeID, domain.LeaderboardSize)
	if err != nil {
		l.finish(outcomeError)
		return fmt.Errorf("top identifiers for taxon %d: %w", taxonID, err)
	}
	if len(top) == 0 {
		l.logger.Warn("no identifiers in range, skipping leaderboard",
			"taxon_id", taxonID, "from", domain.ISODate(from), "to", domain.ISODate(to))
		l.finish(outcomeEmpty)
		return nil
	}

	post := l.composer.Leaderboard(taxonID, from, to, top)
	id, err := l.publisher.Publish(ctx, post)
	if err != nil {
		l.finish(outcomeError)
		return fmt.Errorf("publish leaderboard for taxon %d: %w", taxonID, err)
	}
	l.metrics.PostsPublished.WithLabelValues(publishMode(l.publisher)).Inc()

	l.logger.Info("leaderboard published", "taxon_id", taxonID, "identifiers", len(top), "id", id)
	l.finish(outcomeSuccess)
	return nil
}

func (l *LeaderboardReport) finish(outcome string) {
	l.metrics.Runs.WithLabelValues(CommandTopIdentifiers, outcome).Inc()
	l.metrics.LastRunTimestamp.WithLabelValues(CommandTopIdentifiers).Set(float64(domain.Now().Unix()))
}
