package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // schedule zones must resolve on minimal images

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

// Config holds all bot settings, populated from environment variables.
type Config struct {
	INatBaseURL         string `env:"INAT_BASE_URL" validate:"required,url"`
	INatLocale          string `env:"INAT_LOCALE" validate:"required"`
	ObservationsPerPage int    `env:"INAT_OBSERVATIONS_PER_PAGE" validate:"min=1,max=200"`
	CountsPerPage       int    `env:"INAT_COUNTS_PER_PAGE" validate:"min=1,max=500"`

	// Region the daily report covers.
	PlaceID    int64  `env:"PLACE_ID" validate:"gt=0"`
	RegionName string `env:"REGION_NAME" validate:"required"`
	RegionFlag string `env:"REGION_FLAG"`
	SiteURL    string `env:"SITE_URL" validate:"required,url"`

	// Mastodon-compatible publishing server.
	FediHost       string `env:"FEDI_HOST" validate:"omitempty,url"`
	FediToken      string `env:"FEDI_TOKEN"`
	PostVisibility string `env:"POST_VISIBILITY" validate:"oneof=unlisted private direct"`
	AttachPhotos   bool   `env:"ATTACH_PHOTOS"`

	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" validate:"gt=0"`
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	// Schedule used by the serve command.
	ScheduleHour         int            `env:"SCHEDULE_TIME" validate:"min=0,max=23"`
	ScheduleMinute       int            `env:"SCHEDULE_TIME" validate:"min=0,max=59"`
	ScheduleLocation     *time.Location `env:"SCHEDULE_TZ"`
	ScheduleLookbackDays int            `env:"SCHEDULE_LOOKBACK_DAYS" validate:"min=0"`
	LeaderboardTaxonIDs  []int64        `env:"LEADERBOARD_TAXON_IDS" validate:"dive,gt=0"`
	LeaderboardWeekday   time.Weekday   `env:"LEADERBOARD_WEEKDAY"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		INatBaseURL: strings.TrimRight(envOrDefault("INAT_BASE_URL", "https://api.inaturalist.org"), "/"),
		RegionName:  envOrDefault("REGION_NAME", domain.DefaultRegion().Name),
		RegionFlag:  envOrDefault("REGION_FLAG", domain.DefaultRegion().Flag),
		SiteURL:     strings.TrimRight(envOrDefault("SITE_URL", domain.DefaultRegion().SiteURL), "/"),

		FediHost:       strings.TrimRight(os.Getenv("FEDI_HOST"), "/"),
		FediToken:      os.Getenv("FEDI_TOKEN"),
		PostVisibility: envOrDefault("POST_VISIBILITY", "unlisted"),

		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOrDefault("LOG_FORMAT", "json")),
	}

	var err error
	cfg.INatLocale, err = parseLocale(envOrDefault("INAT_LOCALE", "es-AR"))
	collect(err)
	cfg.ObservationsPerPage, err = parseInt("INAT_OBSERVATIONS_PER_PAGE", 200)
	collect(err)
	cfg.CountsPerPage, err = parseInt("INAT_COUNTS_PER_PAGE", 500)
	collect(err)
	placeID, err := parseInt("PLACE_ID", int(domain.DefaultRegion().PlaceID))
	cfg.PlaceID = int64(placeID)
	collect(err)
	cfg.AttachPhotos, err = parseBool("ATTACH_PHOTOS", false)
	collect(err)
	cfg.HTTPTimeout, err = parseDuration("HTTP_TIMEOUT", "30s")
	collect(err)
	cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", "10s")
	collect(err)
	cfg.ScheduleHour, cfg.ScheduleMinute, err = parseClock(envOrDefault("SCHEDULE_TIME", "10:00"))
	collect(err)
	cfg.ScheduleLocation, err = time.LoadLocation(envOrDefault("SCHEDULE_TZ", "America/Montevideo"))
	if err != nil {
		collect(fmt.Errorf("invalid SCHEDULE_TZ: %w", err))
	}
	cfg.ScheduleLookbackDays, err = parseInt("SCHEDULE_LOOKBACK_DAYS", 7)
	collect(err)
	cfg.LeaderboardTaxonIDs, err = parseIDList(os.Getenv("LEADERBOARD_TAXON_IDS"))
	collect(err)
	cfg.LeaderboardWeekday, err = parseWeekday(envOrDefault("LEADERBOARD_WEEKDAY", "monday"))
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Region returns the report region described by the configuration.
func (c *Config) Region() domain.Region {
	return domain.Region{
		PlaceID: c.PlaceID,
		Name:    c.RegionName,
		Flag:    c.RegionFlag,
		SiteURL: c.SiteURL,
	}
}

// RequirePublisher checks that the credentials for live publishing are present.
func (c *Config) RequirePublisher() error {
	if c.FediHost == "" {
		return errors.New("FEDI_HOST is required to publish")
	}
	if c.FediToken == "" {
		return errors.New("FEDI_TOKEN is required to publish")
	}
	return nil
}

var validate = newValidator()

func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report env variable names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Errorf("invalid %s: failed %q check", fe.Field(), fe.Tag()))
		}
		return errors.Join(msgs...)
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// parseLocale canonicalizes a BCP 47 tag such as "es-AR".
func parseLocale(s string) (string, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid INAT_LOCALE %q: %w", s, err)
	}
	return tag.String(), nil
}

// parseClock parses "HH:MM" in 24-hour notation.
func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid SCHEDULE_TIME %q: want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LEADERBOARD_TAXON_IDS: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid LEADERBOARD_WEEKDAY %q", s)
}
