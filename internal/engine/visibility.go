package engine

import (
	"github.com/sells-group/precall-audit/internal/match"
	"github.com/sells-group/precall-audit/internal/model"
)

// Visibility matching thresholds. With a candidate address on file the name
// similarity bar is lower because the address must also agree; without one,
// the name alone has to be near-certain.
const (
	visibilityNameThreshold     = 80
	visibilityNameOnlyThreshold = 90
)

// ScoreVisibility determines whether the resolved business appears in the
// top-3 local pack. A provider failure or missing pack section yields
// Unavailable with no competitors; otherwise the raw top-3 entries are
// always reported, even when the target is one of them.
func ScoreVisibility(rb model.ResolvedBusiness, pack LocalPackResult) model.VisibilityResult {
	if pack.Failed || len(pack.Entries) == 0 {
		return model.VisibilityResult{
			Visibility:         model.VisibilityUnavailable,
			LocalPackAvailable: false,
			TopCompetitors:     []model.LocalPackEntry{},
		}
	}

	entries := pack.Entries
	if len(entries) > 3 {
		entries = entries[:3]
	}

	visibility := model.VisibilityAbsent
	for _, e := range entries {
		if entryMatchesBusiness(rb, e) {
			visibility = model.VisibilityPresent
			break
		}
	}

	return model.VisibilityResult{
		Visibility:         visibility,
		LocalPackAvailable: true,
		TopCompetitors:     entries,
	}
}

func entryMatchesBusiness(rb model.ResolvedBusiness, e model.LocalPackEntry) bool {
	sim := match.TokenSetRatio(rb.Name, e.Name)
	if sim < visibilityNameThreshold {
		return false
	}
	if rb.Address != "" && e.Address != nil && *e.Address != "" {
		return match.AddressMatch(rb.Address, *e.Address)
	}
	return sim >= visibilityNameOnlyThreshold
}
