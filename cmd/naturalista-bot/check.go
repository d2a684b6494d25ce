package main

import (
	"github.com/spf13/cobra"

	"github.com/tacuruses/naturalista-bot/internal/adapter/console"
	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/pipeline"
)

func newCheckCommand(a *app) *cobra.Command {
	var (
		dryRun bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "check-on-date [DATE]",
		Short: "Publish the rarest species observed on DATE (YYYY-MM-DD)",
		Long: "Finds the species observed in the region on DATE with the fewest regional records and publishes them.\n" +
			"DATE defaults to today minus SCHEDULE_LOOKBACK_DAYS in SCHEDULE_TZ.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.cfg.ScheduleLocation
			date := domain.DaysAgo(a.cfg.ScheduleLookbackDays, loc)
			if len(args) == 1 {
				var err error
				if date, err = parseDate(args[0], loc); err != nil {
					return err
				}
			}

			pub, err := a.publisher(dryRun, format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			client := a.inaturalist()
			report := pipeline.NewRarityReport(client, client, pub, a.composer(), a.cfg.PlaceID, a.logger, a.metrics)
			return report.Run(cmd.Context(), date)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print posts to stdout instead of publishing")
	cmd.Flags().StringVar(&format, "format", console.FormatHTML, "dry-run output format: html or text")
	return cmd
}
