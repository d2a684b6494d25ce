package inaturalist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tacuruses/naturalista-bot/internal/domain"
	"github.com/tacuruses/naturalista-bot/internal/observability"
)

const (
	apiName = "inaturalist"

	endpointObservations  = "/v1/observations"
	endpointSpeciesCounts = "/v1/observations/species_counts"
	endpointIdentifiers   = "/v1/observations/identifiers"
)

// Options configures a Client.
type Options struct {
	BaseURL             string
	Locale              string
	SiteURL             string // observation links are rewritten to this host
	ObservationsPerPage int
	CountsPerPage       int
	Timeout             time.Duration
}

// Client queries the iNaturalist v1 API. Only the first page of each query is read.
type Client struct {
	httpClient          *http.Client
	baseURL             string
	locale              string
	siteURL             string
	observationsPerPage int
	countsPerPage       int
	metrics             *observability.Metrics
	logger              *slog.Logger
}

// NewClient creates an iNaturalist API client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:             strings.TrimRight(opts.BaseURL, "/"),
		locale:              opts.Locale,
		siteURL:             strings.TrimRight(opts.SiteURL, "/"),
		observationsPerPage: opts.ObservationsPerPage,
		countsPerPage:       opts.CountsPerPage,
		metrics:             metrics,
		logger:              logger,
	}
}

// FetchObservations returns the research-grade, species-level observations
// created on date inside placeID, with names localized to the client locale.
func (c *Client) FetchObservations(ctx context.Context, date time.Time, placeID int64) ([]domain.Observation, error) {
	place := strconv.FormatInt(placeID, 10)
	params := url.Values{
		"place_id":           {place},
		"preferred_place_id": {place},
		"created_on":         {domain.ISODate(date)},
		"lrank":              {domain.RankSpecies},
		"quality_grade":      {"research"},
		"locale":             {c.locale},
		"per_page":           {strconv.Itoa(c.observationsPerPage)},
	}

	var resp observationsResponse
	if err := c.getJSON(ctx, endpointObservations, params, &resp); err != nil {
		return nil, err
	}

	observations := make([]domain.Observation, 0, len(resp.Results))
	for _, r := range resp.Results {
		observations = append(observations, r.toDomain(c.siteURL))
	}
	species := domain.SpeciesOnly(observations)

	c.logger.Debug("observations fetched",
		"date", domain.ISODate(date),
		"place_id", placeID,
		"results", len(resp.Results),
		"species", len(species),
	)
	return species, nil
}

// CountSpecies returns the number of observations of each taxon inside
// placeID, or on the whole platform when placeID is 0. Taxa without
// observations are absent from the result.
func (c *Client) CountSpecies(ctx context.Context, taxonIDs []int64, placeID int64) ([]domain.TaxonCount, error) {
	if len(taxonIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(taxonIDs))
	for i, id := range taxonIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{
		"taxon_id": {strings.Join(ids, ",")},
		"per_page": {strconv.Itoa(c.countsPerPage)},
	}
	scope := domain.ScopeGlobal
	if placeID != 0 {
		params.Set("place_id", strconv.FormatInt(placeID, 10))
		scope = domain.ScopeRegional
	}

	var resp speciesCountsResponse
	if err := c.getJSON(ctx, endpointSpeciesCounts, params, &resp); err != nil {
		return nil, err
	}

	counts := make([]domain.TaxonCount, 0, len(resp.Results))
	for _, r := range resp.Results {
		counts = append(counts, domain.TaxonCount{TaxonID: r.Taxon.ID, Count: r.Count, Scope: scope})
	}

	c.logger.Debug("species counted", "scope", scope.String(), "taxa", len(taxonIDs), "results", len(counts))
	return counts, nil
}

// TopIdentifiers returns up to limit users ranked by the identifications they
// made for taxonID inside placeID between from and to, most active first.
func (c *Client) TopIdentifiers(ctx context.Context, taxonID int64, from, to time.Time, placeID int64, limit int) ([]domain.Identifier, error) {
	params := url.Values{
		"taxon_id": {strconv.FormatInt(taxonID, 10)},
		"place_id": {strconv.FormatInt(placeID, 10)},
		"d1":       {domain.ISODate(from)},
		"d2":       {domain.ISODate(to)},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(limit)},
	}

	var resp identifiersResponse
	if err := c.getJSON(ctx, endpointIdentifiers, params, &resp); err != nil {
		return nil, err
	}

	top := make([]domain.Identifier, 0, len(resp.Results))
	for _, r := range resp.Results {
		top = append(top, domain.Identifier{Login: r.User.Login, Name: r.User.Name, Count: r.Count})
	}
	return top, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	fullURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.WithLabelValues(apiName, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(apiName, "error").Inc()
		return &domain.UpstreamError{API: apiName, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.APIRequests.WithLabelValues(apiName, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &domain.UpstreamError{API: apiName, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.APIRequests.WithLabelValues(apiName, "error").Inc()
		return &domain.UpstreamError{API: apiName, Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.metrics.APIRequests.WithLabelValues(apiName, "success").Inc()
	return nil
}
