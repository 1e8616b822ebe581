package engine

import (
	"fmt"
	"strings"

	"github.com/sells-group/precall-audit/internal/match"
	"github.com/sells-group/precall-audit/internal/model"
)

// Resolver scoring weights. A website-domain match alone must outrank any
// name/city combination without one, so it dominates the scale.
const (
	domainMatchScore  = 1000.0
	cityMatchScore    = 50.0
	minNameSimilarity = 60
)

// Resolve picks the best-matching candidate for the audited business.
// Candidates are scored by website-domain equality, token-set name
// similarity (counted only above minNameSimilarity), and case-insensitive
// city containment in the candidate address. Ties break by review count,
// then by input order. directoryFailed marks a provider-level failure and
// propagates as ResolutionError.
func Resolve(inputs model.AuditInputs, candidates []model.Candidate, directoryFailed bool) model.ResolvedBusiness {
	if directoryFailed {
		return model.ResolvedBusiness{
			Name:             inputs.BusinessName,
			ResolutionStatus: model.ResolutionError,
		}
	}

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		score := scoreCandidate(inputs, c)
		if score <= bestScore {
			continue
		}
		// Strictly-greater keeps input order on exact ties; review count
		// already separated candidates inside scoreCandidate's epsilon.
		best = i
		bestScore = score
	}

	if best < 0 || bestScore <= 0 {
		return model.ResolvedBusiness{
			Name:             inputs.BusinessName,
			ResolutionStatus: model.ResolutionNotFound,
		}
	}
	return resolvedFromCandidate(candidates[best])
}

// scoreCandidate combines the three identity signals into one ranking score.
// Review count contributes a sub-unit epsilon so it only ever breaks ties
// between candidates whose signal scores are equal.
func scoreCandidate(inputs model.AuditInputs, c model.Candidate) float64 {
	score := 0.0
	if c.Website != "" && match.DomainsEqual(inputs.WebsiteURL, c.Website) {
		score += domainMatchScore
	}
	if sim := match.TokenSetRatio(inputs.BusinessName, c.Name); sim >= minNameSimilarity {
		score += float64(sim)
	}
	if cityInAddress(inputs.City, c.Address) {
		score += cityMatchScore
	}
	if score > 0 && c.ReviewCount != nil && *c.ReviewCount > 0 {
		score += reviewEpsilon(*c.ReviewCount)
	}
	return score
}

func cityInAddress(city, address string) bool {
	city = strings.ToLower(strings.TrimSpace(city))
	return city != "" && strings.Contains(strings.ToLower(address), city)
}

// reviewEpsilon maps a review count into (0, 1) monotonically.
func reviewEpsilon(n int) float64 {
	return float64(n) / (float64(n) + 1e6)
}

func resolvedFromCandidate(c model.Candidate) model.ResolvedBusiness {
	rb := model.ResolvedBusiness{
		Name:             c.Name,
		Address:          c.Address,
		Rating:           c.Rating,
		TotalReviews:     c.ReviewCount,
		ResolutionStatus: model.ResolutionFound,
	}
	if c.ExternalID != "" {
		id := c.ExternalID
		rb.PlaceID = &id
		mapsURL := c.MapsURL
		if mapsURL == "" {
			mapsURL = fmt.Sprintf("https://www.google.com/maps/place/?q=place_id:%s", id)
		}
		rb.GoogleMapsURL = &mapsURL
	}
	if c.Phone != "" {
		p := c.Phone
		rb.Phone = &p
	}
	if c.Website != "" {
		w := c.Website
		rb.Website = &w
	}
	return rb
}
