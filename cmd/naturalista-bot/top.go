package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacuruses/naturalista-bot/internal/adapter/console"
	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/pipeline"
)

func newTopIdentifiersCommand(a *app) *cobra.Command {
	var (
		from, to string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "top-identifiers TAXON_ID",
		Short: "Publish the top identifiers of an iconic taxon group",
		Long:  "Publishes the five users with the most identifications of TAXON_ID in the region. The range defaults to the last seven days.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxonID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || taxonID <= 0 {
				return fmt.Errorf("invalid taxon id %q", args[0])
			}

			start, end, err := leaderboardRange(from, to, a)
			if err != nil {
				return err
			}

			pub, err := a.publisher(dryRun, console.FormatHTML, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			report := pipeline.NewLeaderboardReport(a.inaturalist(), pub, a.composer(), a.cfg.PlaceID, a.logger, a.metrics)
			return report.Run(cmd.Context(), taxonID, start, end)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day of the range (YYYY-MM-DD), default a week before --to")
	cmd.Flags().StringVar(&to, "to", "", "last day of the range (YYYY-MM-DD), default today")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the post to stdout instead of publishing")
	return cmd
}

func leaderboardRange(from, to string, a *app) (start, end time.Time, err error) {
	loc := a.cfg.ScheduleLocation
	end = domain.DaysAgo(0, loc)
	if to != "" {
		if end, err = parseDate(to, loc); err != nil {
			return start, end, err
		}
	}
	start = end.AddDate(0, 0, -7)
	if from != "" {
		if start, err = parseDate(from, loc); err != nil {
			return start, end, err
		}
	}
	if start.After(end) {
		return start, end, fmt.Errorf("--from %s is after --to %s", domain.ISODate(start), domain.ISODate(end))
	}
	return start, end, nil
}
