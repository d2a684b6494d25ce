package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
	"github.com/tacuruses/naturalista-bot/internal/pipeline"
)

var (
	weekStart = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)
	weekEnd   = time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
)

func newLeaderboard(src *fakeINat, pub pipeline.Publisher, metrics *observability.Metrics) *pipeline.LeaderboardReport {
	return pipeline.NewLeaderboardReport(src, pub, domain.NewComposer(domain.DefaultRegion()), placeUY, discardLogger(), metrics)
}

func TestLeaderboardReport_Publishes(t *testing.T) {
	src := &fakeINat{identifiers: []domain.Identifier{{Login: "ana", Count: 3}}}
	pub := &recordingPublisher{}
	metrics := observability.NewMetricsForTesting()

	err := newLeaderboard(src, pub, metrics).Run(context.Background(), 3, weekStart, weekEnd)
	require.NoError(t, err)

	require.Len(t, pub.posts, 1)
	assert.Contains(t, pub.posts[0].Body, "<b>aves</b> 🐦")
	assert.Contains(t, pub.posts[0].Body, "🥇")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Runs.WithLabelValues(pipeline.CommandTopIdentifiers, "success")), 0)
}

func TestLeaderboardReport_NoIdentifiersSkips(t *testing.T) {
	pub := &recordingPublisher{}
	metrics := observability.NewMetricsForTesting()

	err := newLeaderboard(&fakeINat{}, pub, metrics).Run(context.Background(), 3, weekStart, weekEnd)
	require.NoError(t, err)

	assert.Empty(t, pub.posts)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Runs.WithLabelValues(pipeline.CommandTopIdentifiers, "empty")), 0)
}

func TestLeaderboardReport_Errors(t *testing.T) {
	t.Run("fetch", func(t *testing.T) {
		src := &fakeINat{fetchErr: &domain.UpstreamError{API: "inaturalist", Endpoint: "/v1/observations/identifiers", StatusCode: 500}}
		err := newLeaderboard(src, &recordingPublisher{}, observability.NewMetricsForTesting()).Run(context.Background(), 3, weekStart, weekEnd)
		require.ErrorIs(t, err, domain.ErrUpstreamRequestFailed)
	})

	t.Run("publish", func(t *testing.T) {
		src := &fakeINat{identifiers: []domain.Identifier{{Login: "ana", Count: 3}}}
		err := newLeaderboard(src, &recordingPublisher{failAt: 1}, observability.NewMetricsForTesting()).Run(context.Background(), 3, weekStart, weekEnd)
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrUpstreamRequestFailed))
		assert.Contains(t, err.Error(), "taxon 3")
	})
}
