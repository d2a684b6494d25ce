// Package pipeline runs the bot's reports: it pulls data from iNaturalist,
// hands it to the domain composer and publishes the resulting posts.
package pipeline

import (
	"context"
	"time"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

// Command names used as metric labels.
const (
	CommandCheckOnDate    = "check_on_date"
	CommandTopIdentifiers = "top_identifiers"
)

const (
	outcomeSuccess = "success"
	outcomeEmpty   = "empty"
	outcomeError   = "error"
)

// ObservationFetcher lists the observations created on a date inside a place.
type ObservationFetcher interface {
	FetchObservations(ctx context.Context, date time.Time, placeID int64) ([]domain.Observation, error)
}

// SpeciesCounter returns per-taxon observation counts inside a place, or
// globally when placeID is 0.
type SpeciesCounter interface {
	CountSpecies(ctx context.Context, taxonIDs []int64, placeID int64) ([]domain.TaxonCount, error)
}

// IdentifierFetcher returns the most active identifiers of a taxon.
type IdentifierFetcher interface {
	TopIdentifiers(ctx context.Context, taxonID int64, from, to time.Time, placeID int64, limit int) ([]domain.Identifier, error)
}

// Publisher sends one post and returns the id the server assigned to it.
type Publisher interface {
	Publish(ctx context.Context, post domain.Post) (string, error)
}

type dryRunner interface {
	DryRun() bool
}

func publishMode(p Publisher) string {
	if d, ok := p.(dryRunner); ok && d.DryRun() {
		return "dry_run"
	}
	return "live"
}
