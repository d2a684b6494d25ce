package domain

import (
	"fmt"
	"slices"
)

// SpeciesOnly drops every observation whose rank is not species.
func SpeciesOnly(observations []Observation) []Observation {
	out := make([]Observation, 0, len(observations))
	for _, o := range observations {
		if o.Rank == RankSpecies {
			out = append(out, o)
		}
	}
	return out
}

// TaxonIDs returns the distinct taxon ids of the observations in first-seen order.
func TaxonIDs(observations []Observation) []int64 {
	seen := make(map[int64]struct{}, len(observations))
	ids := make([]int64, 0, len(observations))
	for _, o := range observations {
		if _, ok := seen[o.TaxonID]; ok {
			continue
		}
		seen[o.TaxonID] = struct{}{}
		ids = append(ids, o.TaxonID)
	}
	return ids
}

// RankedTaxonIDs returns the taxon ids of ranked entries, in order.
func RankedTaxonIDs(ranked []RankedTaxon) []int64 {
	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.TaxonID
	}
	return ids
}

// CountFor returns the count of taxonID, or 0 when the taxon is absent from counts.
func CountFor(counts []TaxonCount, taxonID int64) int {
	for _, c := range counts {
		if c.TaxonID == taxonID {
			return c.Count
		}
	}
	return 0
}

// RankByRegionalCount joins observations with their regional counts and sorts
// them ascending by count. Each taxon appears once, represented by its first
// observation; ties keep observation order.
func RankByRegionalCount(observations []Observation, regional []TaxonCount) []RankedTaxon {
	seen := make(map[int64]struct{}, len(observations))
	ranked := make([]RankedTaxon, 0, len(observations))
	for _, o := range observations {
		if _, ok := seen[o.TaxonID]; ok {
			continue
		}
		seen[o.TaxonID] = struct{}{}
		ranked = append(ranked, RankedTaxon{
			Observation: o,
			CountPlace:  CountFor(regional, o.TaxonID),
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedTaxon) int {
		return a.CountPlace - b.CountPlace
	})
	return ranked
}

// SelectRarest returns every entry tied at the lowest regional count. The
// input must already be sorted by RankByRegionalCount.
func SelectRarest(ranked []RankedTaxon) ([]RankedTaxon, error) {
	if len(ranked) == 0 {
		return nil, ErrNoObservationsForDate
	}

	minCount := ranked[0].CountPlace
	rarest := make([]RankedTaxon, 0, 1)
	for _, r := range ranked {
		if r.CountPlace == minCount {
			rarest = append(rarest, r)
		}
	}
	return rarest, nil
}

// ApplyGlobalCounts sets CountWorld on each entry to the occurrences outside
// the region. A global count below the regional one is reported as
// ErrInconsistentCountData.
func ApplyGlobalCounts(rarest []RankedTaxon, global []TaxonCount) ([]RankedTaxon, error) {
	out := make([]RankedTaxon, len(rarest))
	for i, r := range rarest {
		r.CountWorld = CountFor(global, r.TaxonID) - r.CountPlace
		if r.CountWorld < 0 {
			return nil, fmt.Errorf("taxon %d (%s): global count %d below regional count %d: %w",
				r.TaxonID, r.TaxonName, r.CountWorld+r.CountPlace, r.CountPlace, ErrInconsistentCountData)
		}
		out[i] = r
	}
	return out, nil
}
