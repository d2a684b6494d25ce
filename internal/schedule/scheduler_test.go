package schedule_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tacuruses/naturalista-bot/internal/observability"
	"github.com/tacuruses/naturalista-bot/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var montevideo = mustLoad("America/Montevideo")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fakeRarity struct {
	dates chan time.Time
	err   error
}

func (f *fakeRarity) Run(_ context.Context, date time.Time) error {
	f.dates <- date
	return f.err
}

type leaderboardCall struct {
	taxonID  int64
	from, to time.Time
}

type fakeLeaderboard struct {
	calls chan leaderboardCall
}

func (f *fakeLeaderboard) Run(_ context.Context, taxonID int64, from, to time.Time) error {
	f.calls <- leaderboardCall{taxonID: taxonID, from: from, to: to}
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, montevideo)
}

// startScheduler runs s in the background and returns a stop function that
// cancels it and waits for Run to return.
func startScheduler(t *testing.T, s *schedule.Scheduler, clock *clockwork.FakeClock) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job")
		var zero T
		return zero
	}
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before today's slot", time.Date(2024, 5, 10, 9, 0, 0, 0, montevideo), time.Date(2024, 5, 10, 10, 0, 0, 0, montevideo)},
		{"exactly at slot", time.Date(2024, 5, 10, 10, 0, 0, 0, montevideo), time.Date(2024, 5, 11, 10, 0, 0, 0, montevideo)},
		{"after slot", time.Date(2024, 5, 10, 18, 30, 0, 0, montevideo), time.Date(2024, 5, 11, 10, 0, 0, 0, montevideo)},
		{"now in another zone", time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), time.Date(2024, 5, 10, 10, 0, 0, 0, montevideo)},
		{"month rollover", time.Date(2024, 5, 31, 23, 0, 0, 0, montevideo), time.Date(2024, 6, 1, 10, 0, 0, 0, montevideo)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := schedule.NextRun(tc.now, 10, 0, montevideo)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestScheduler_RunsDailyReport(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 8, 9, 0, 0, 0, montevideo))
	rarity := &fakeRarity{dates: make(chan time.Time, 4)}
	metrics := observability.NewMetricsForTesting()

	s := schedule.New(schedule.Options{Hour: 10, Location: montevideo, LookbackDays: 7}, rarity, nil, clock, slog.New(slog.DiscardHandler), metrics)
	stop := startScheduler(t, s, clock)
	defer stop()

	clock.Advance(time.Hour)
	assert.True(t, day(2024, 5, 1).Equal(receive(t, rarity.dates)))
}

func TestScheduler_KeepsRunningAfterJobFailure(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 8, 9, 0, 0, 0, montevideo))
	rarity := &fakeRarity{dates: make(chan time.Time, 4), err: errors.New("upstream down")}

	s := schedule.New(schedule.Options{Hour: 10, Location: montevideo, LookbackDays: 1}, rarity, nil, clock, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
	stop := startScheduler(t, s, clock)
	defer stop()

	clock.Advance(time.Hour)
	assert.True(t, day(2024, 5, 7).Equal(receive(t, rarity.dates)))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(24 * time.Hour)
	assert.True(t, day(2024, 5, 8).Equal(receive(t, rarity.dates)))
}

func TestScheduler_WeeklyLeaderboard(t *testing.T) {
	// 2024-05-10 is a Friday.
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 10, 9, 0, 0, 0, montevideo))
	rarity := &fakeRarity{dates: make(chan time.Time, 4)}
	board := &fakeLeaderboard{calls: make(chan leaderboardCall, 4)}
	opts := schedule.Options{
		Hour:                10,
		Location:            montevideo,
		LookbackDays:        7,
		LeaderboardTaxonIDs: []int64{3, 47126},
		LeaderboardWeekday:  time.Friday,
	}

	s := schedule.New(opts, rarity, board, clock, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
	stop := startScheduler(t, s, clock)
	defer stop()

	clock.Advance(time.Hour)
	receive(t, rarity.dates)

	first := receive(t, board.calls)
	second := receive(t, board.calls)
	assert.Equal(t, int64(3), first.taxonID)
	assert.Equal(t, int64(47126), second.taxonID)
	assert.True(t, day(2024, 5, 3).Equal(first.from))
	assert.True(t, day(2024, 5, 10).Equal(first.to))
}

func TestScheduler_NoLeaderboardOnOtherDays(t *testing.T) {
	// 2024-05-09 is a Thursday.
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 9, 9, 0, 0, 0, montevideo))
	rarity := &fakeRarity{dates: make(chan time.Time, 4)}
	board := &fakeLeaderboard{calls: make(chan leaderboardCall, 4)}
	opts := schedule.Options{Hour: 10, Location: montevideo, LeaderboardTaxonIDs: []int64{3}, LeaderboardWeekday: time.Friday}

	s := schedule.New(opts, rarity, board, clock, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
	stop := startScheduler(t, s, clock)
	defer stop()

	clock.Advance(time.Hour)
	receive(t, rarity.dates)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Empty(t, board.calls)
}

func TestScheduler_Readiness(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 8, 9, 0, 0, 0, montevideo))
	s := schedule.New(schedule.Options{Hour: 10, Location: montevideo}, &fakeRarity{dates: make(chan time.Time, 1)}, nil, clock, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())

	require.Error(t, s.CheckReadiness(context.Background()))

	stop := startScheduler(t, s, clock)
	assert.NoError(t, s.CheckReadiness(context.Background()))
	stop()

	assert.Error(t, s.CheckReadiness(context.Background()))
}
