package domain

import "time"

// RankSpecies is the only taxonomic rank that takes part in rarity ranking.
const RankSpecies = "species"

// Observation is a single species-level record returned by the observation query.
type Observation struct {
	ID          int64
	TaxonID     int64
	TaxonName   string // scientific name
	CommonName  string // localized preferred common name, may be empty
	IconicTaxon string // e.g. "Aves", "Plantae"
	Rank        string
	ObservedAt  time.Time
	URL         string // observation page on the regional site
	Username    string
	PhotoURL    string
	Threatened  bool
	Introduced  bool
	Native      bool
}

// CountScope tells whether a species count was scoped to a place or to the whole platform.
type CountScope int

const (
	ScopeRegional CountScope = iota
	ScopeGlobal
)

func (s CountScope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "regional"
}

// TaxonCount is the number of research-grade observations of a taxon within a scope.
type TaxonCount struct {
	TaxonID int64
	Count   int
	Scope   CountScope
}

// RankedTaxon is an observation joined with its occurrence counts.
// CountWorld holds the occurrences outside the region, not the platform total.
type RankedTaxon struct {
	Observation
	CountPlace int
	CountWorld int
}

// Identifier is a contributor ranked by the number of identifications made.
type Identifier struct {
	Login string
	Name  string
	Count int
}

// Region describes the place the bot reports on and how it is presented.
type Region struct {
	PlaceID int64
	Name    string // used in narrative text, e.g. "Uruguay"
	Flag    string // emoji flag shown in headers
	SiteURL string // regional iNaturalist network site, e.g. "https://www.naturalista.uy"
}

// DefaultRegion is Uruguay on the NaturalistaUY network site.
func DefaultRegion() Region {
	return Region{
		PlaceID: 7259,
		Name:    "Uruguay",
		Flag:    "🇺🇾",
		SiteURL: "https://www.naturalista.uy",
	}
}

// ProfileURL returns the regional profile page of a user.
func (r Region) ProfileURL(login string) string {
	return r.SiteURL + "/people/" + login
}

// Post is a rendered message ready to be published.
type Post struct {
	Body             string
	InReplyTo        string
	PhotoURL         string
	PhotoDescription string
}
