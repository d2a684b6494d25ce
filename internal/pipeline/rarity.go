package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
)

// RarityReport finds the rarest species observed in the region on a date and
// publishes them as a single post or a thread.
type RarityReport struct {
	fetcher   ObservationFetcher
	counter   SpeciesCounter
	publisher Publisher
	composer  domain.Composer
	placeID   int64
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewRarityReport wires the report stages together.
func NewRarityReport(f ObservationFetcher, c SpeciesCounter, p Publisher, composer domain.Composer, placeID int64, logger *slog.Logger, metrics *observability.Metrics) *RarityReport {
	return &RarityReport{
		fetcher:   f,
		counter:   c,
		publisher: p,
		composer:  composer,
		placeID:   placeID,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run builds and publishes the report for date. A date without species-level
// observations is logged and treated as a successful run with nothing to post.
func (r *RarityReport) Run(ctx context.Context, date time.Time) error {
	day := domain.ISODate(date)

	posts, err := r.Prepare(ctx, date)
	if errors.Is(err, domain.ErrNoObservationsForDate) {
		r.logger.Warn("nothing to publish", "date", day, "reason", err)
		r.finish(outcomeEmpty)
		return nil
	}
	if err != nil {
		r.finish(outcomeError)
		return fmt.Errorf("rarity report for %s: %w", day, err)
	}

	ids, err := PublishThread(ctx, r.publisher, posts)
	r.metrics.PostsPublished.WithLabelValues(publishMode(r.publisher)).Add(float64(len(ids)))
	if err != nil {
		r.logger.Error("thread publishing interrupted", "date", day, "published", len(ids), "total", len(posts), "error", err)
		r.finish(outcomeError)
		return fmt.Errorf("rarity report for %s: %w", day, err)
	}

	r.logger.Info("rarity report published", "date", day, "posts", len(ids), "first_id", ids[0])
	r.finish(outcomeSuccess)
	return nil
}

// Prepare fetches and ranks the day's observations and composes the posts
// without publishing anything.
func (r *RarityReport) Prepare(ctx context.Context, date time.Time) ([]domain.Post, error) {
	observations, err := r.fetcher.FetchObservations(ctx, date, r.placeID)
	if err != nil {
		return nil, fmt.Errorf("fetch observations: %w", err)
	}
	observations = domain.SpeciesOnly(observations)
	r.metrics.ObservationsFetched.Add(float64(len(observations)))

	var regional []domain.TaxonCount
	if len(observations) > 0 {
		regional, err = r.counter.CountSpecies(ctx, domain.TaxonIDs(observations), r.placeID)
		if err != nil {
			return nil, fmt.Errorf("count regional occurrences: %w", err)
		}
	}

	rarest, err := domain.SelectRarest(domain.RankByRegionalCount(observations, regional))
	if err != nil {
		return nil, err
	}
	for _, t := range rarest {
		if t.CountPlace == 0 {
			r.logger.Warn("observed taxon missing from regional counts",
				"date", domain.ISODate(date),
				"taxon_id", t.TaxonID,
				"taxon", t.TaxonName,
				"place_id", r.placeID,
			)
		}
	}
	r.metrics.RarestSetSize.Observe(float64(len(rarest)))

	global, err := r.counter.CountSpecies(ctx, domain.RankedTaxonIDs(rarest), 0)
	if err != nil {
		return nil, fmt.Errorf("count global occurrences: %w", err)
	}
	rarest, err = domain.ApplyGlobalCounts(rarest, global)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("rarest taxa selected",
		"date", domain.ISODate(date),
		"observations", len(observations),
		"rarest", len(rarest),
		"count_place", rarest[0].CountPlace,
	)
	return r.composer.Compose(date, rarest), nil
}

func (r *RarityReport) finish(outcome string) {
	r.metrics.Runs.WithLabelValues(CommandCheckOnDate, outcome).Inc()
	r.metrics.LastRunTimestamp.WithLabelValues(CommandCheckOnDate).Set(float64(domain.Now().Unix()))
}
