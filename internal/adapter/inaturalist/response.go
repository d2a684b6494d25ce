package inaturalist

import (
	"net/url"
	"strings"
	"time"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

// iNaturalist API response types. Only the fields the bot reads are decoded;
// absent or null fields decode to zero values.

type observationsResponse struct {
	TotalResults int                 `json:"total_results"`
	Results      []observationResult `json:"results"`
}

type observationResult struct {
	ID             int64         `json:"id"`
	URI            string        `json:"uri"`
	TimeObservedAt string        `json:"time_observed_at"`
	ObservedOn     string        `json:"observed_on"`
	Taxon          *taxonResult  `json:"taxon"`
	User           userResult    `json:"user"`
	Photos         []photoResult `json:"photos"`
}

type taxonResult struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Rank                string `json:"rank"`
	IconicTaxonName     string `json:"iconic_taxon_name"`
	PreferredCommonName string `json:"preferred_common_name"`
	Threatened          bool   `json:"threatened"`
	Introduced          bool   `json:"introduced"`
	Native              bool   `json:"native"`
}

type userResult struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type photoResult struct {
	URL string `json:"url"`
}

type speciesCountsResponse struct {
	Results []struct {
		Count int `json:"count"`
		Taxon struct {
			ID int64 `json:"id"`
		} `json:"taxon"`
	} `json:"results"`
}

type identifiersResponse struct {
	Results []struct {
		Count int        `json:"count"`
		User  userResult `json:"user"`
	} `json:"results"`
}

func (r observationResult) toDomain(siteURL string) domain.Observation {
	o := domain.Observation{
		ID:         r.ID,
		ObservedAt: parseObservedAt(r.TimeObservedAt, r.ObservedOn),
		URL:        rewriteHost(r.URI, siteURL),
		Username:   r.User.Login,
	}
	if r.Taxon != nil {
		o.TaxonID = r.Taxon.ID
		o.TaxonName = r.Taxon.Name
		o.CommonName = r.Taxon.PreferredCommonName
		o.IconicTaxon = r.Taxon.IconicTaxonName
		o.Rank = r.Taxon.Rank
		o.Threatened = r.Taxon.Threatened
		o.Introduced = r.Taxon.Introduced
		o.Native = r.Taxon.Native
	}
	if len(r.Photos) > 0 {
		o.PhotoURL = mediumPhotoURL(r.Photos[0].URL)
	}
	return o
}

// parseObservedAt prefers the full observation timestamp and falls back to the
// observation date. Returns zero time when neither parses.
func parseObservedAt(timeObservedAt, observedOn string) time.Time {
	if t, err := time.Parse(time.RFC3339, timeObservedAt); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, observedOn); err == nil {
		return t
	}
	return time.Time{}
}

// rewriteHost points an observation URI at the regional network site,
// e.g. https://www.inaturalist.org/observations/1 -> https://www.naturalista.uy/observations/1.
func rewriteHost(uri, siteURL string) string {
	if siteURL == "" {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return uri
	}
	return siteURL + u.Path
}

// mediumPhotoURL swaps the square thumbnail returned by the API for the medium size.
func mediumPhotoURL(u string) string {
	return strings.Replace(u, "/square.", "/medium.", 1)
}
