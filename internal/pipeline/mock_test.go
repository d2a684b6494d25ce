package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

type countCall struct {
	ids     []int64
	placeID int64
}

type fakeINat struct {
	observations []domain.Observation
	regional     map[int64]int
	global       map[int64]int
	identifiers  []domain.Identifier
	fetchErr     error
	countErr     error

	countCalls []countCall
	fetchDate  time.Time
}

func (f *fakeINat) FetchObservations(_ context.Context, date time.Time, _ int64) ([]domain.Observation, error) {
	f.fetchDate = date
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.observations, nil
}

func (f *fakeINat) CountSpecies(_ context.Context, ids []int64, placeID int64) ([]domain.TaxonCount, error) {
	f.countCalls = append(f.countCalls, countCall{ids: ids, placeID: placeID})
	if f.countErr != nil {
		return nil, f.countErr
	}
	source, scope := f.regional, domain.ScopeRegional
	if placeID == 0 {
		source, scope = f.global, domain.ScopeGlobal
	}
	var out []domain.TaxonCount
	for _, id := range ids {
		if n, ok := source[id]; ok {
			out = append(out, domain.TaxonCount{TaxonID: id, Count: n, Scope: scope})
		}
	}
	return out, nil
}

func (f *fakeINat) TopIdentifiers(_ context.Context, _ int64, _, _ time.Time, _ int64, _ int) ([]domain.Identifier, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.identifiers, nil
}

type recordingPublisher struct {
	posts  []domain.Post
	failAt int // 1-based; 0 never fails
	blank  int // 1-based post that gets an empty id; 0 never
}

func (p *recordingPublisher) Publish(_ context.Context, post domain.Post) (string, error) {
	if p.failAt > 0 && len(p.posts)+1 == p.failAt {
		return "", errors.New("server said no")
	}
	p.posts = append(p.posts, post)
	if p.blank == len(p.posts) {
		return "", nil
	}
	return "status-" + strconv.Itoa(len(p.posts)), nil
}

func observation(id, taxonID int64, name string) domain.Observation {
	return domain.Observation{
		ID:          id,
		TaxonID:     taxonID,
		TaxonName:   name,
		IconicTaxon: "Aves",
		Rank:        domain.RankSpecies,
		ObservedAt:  time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC),
		URL:         "https://www.naturalista.uy/observations/" + strconv.FormatInt(id, 10),
		Username:    "ana",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
