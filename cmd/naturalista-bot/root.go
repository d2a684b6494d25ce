package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacuruses/naturalista-bot/internal/adapter/console"
	"github.com/tacuruses/naturalista-bot/internal/adapter/inaturalist"
	"github.com/tacuruses/naturalista-bot/internal/adapter/mastodon"
	"github.com/tacuruses/naturalista-bot/internal/config"
	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
	"github.com/tacuruses/naturalista-bot/internal/pipeline"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// newRootCommand builds the command tree. newMetrics is called once per run.
func newRootCommand(newMetrics func() *observability.Metrics) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "naturalista-bot",
		Short:         "Publish the rarest species observed on iNaturalist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(a.logger)
			a.metrics = newMetrics()
			return nil
		},
	}

	root.AddCommand(
		newCheckCommand(a),
		newTopIdentifiersCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) inaturalist() *inaturalist.Client {
	return inaturalist.NewClient(inaturalist.Options{
		BaseURL:             a.cfg.INatBaseURL,
		Locale:              a.cfg.INatLocale,
		SiteURL:             a.cfg.SiteURL,
		ObservationsPerPage: a.cfg.ObservationsPerPage,
		CountsPerPage:       a.cfg.CountsPerPage,
		Timeout:             a.cfg.HTTPTimeout,
	}, a.metrics, a.logger)
}

// publisher returns the console publisher for dry runs and the Mastodon
// client otherwise.
func (a *app) publisher(dryRun bool, format string, out io.Writer) (pipeline.Publisher, error) {
	if dryRun {
		return console.NewPublisher(out, format)
	}
	if err := a.cfg.RequirePublisher(); err != nil {
		return nil, err
	}
	return mastodon.NewClient(mastodon.Options{
		Host:         a.cfg.FediHost,
		Token:        a.cfg.FediToken,
		Visibility:   a.cfg.PostVisibility,
		AttachPhotos: a.cfg.AttachPhotos,
		Timeout:      a.cfg.HTTPTimeout,
	}, a.metrics, a.logger), nil
}

func (a *app) composer() domain.Composer {
	return domain.NewComposer(a.cfg.Region())
}

// parseDate reads a YYYY-MM-DD argument as midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
