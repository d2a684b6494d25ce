package main

import (
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tacuruses/naturalista-bot/internal/adapter/console"
	httpadapter "github.com/tacuruses/naturalista-bot/internal/adapter/http"
	"github.com/tacuruses/naturalista-bot/internal/pipeline"
	"github.com/tacuruses/naturalista-bot/internal/schedule"
)

func newServeCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daily schedule and serve health and metrics endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := a.publisher(dryRun, console.FormatHTML, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			client := a.inaturalist()
			rarity := pipeline.NewRarityReport(client, client, pub, a.composer(), a.cfg.PlaceID, a.logger, a.metrics)

			var leaderboard schedule.LeaderboardRunner
			if len(a.cfg.LeaderboardTaxonIDs) > 0 {
				leaderboard = pipeline.NewLeaderboardReport(client, pub, a.composer(), a.cfg.PlaceID, a.logger, a.metrics)
			}

			sched := schedule.New(schedule.Options{
				Hour:                a.cfg.ScheduleHour,
				Minute:              a.cfg.ScheduleMinute,
				Location:            a.cfg.ScheduleLocation,
				LookbackDays:        a.cfg.ScheduleLookbackDays,
				LeaderboardTaxonIDs: a.cfg.LeaderboardTaxonIDs,
				LeaderboardWeekday:  a.cfg.LeaderboardWeekday,
			}, rarity, leaderboard, clockwork.NewRealClock(), a.logger, a.metrics)
			srv := httpadapter.NewServer(a.cfg.HTTPAddr, sched, a.logger)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return srv.Run(ctx, a.cfg.ShutdownTimeout) })
			g.Go(func() error { return sched.Run(ctx) })

			err = g.Wait()
			a.logger.Info("shutdown complete")
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print scheduled posts to stdout instead of publishing")
	return cmd
}
