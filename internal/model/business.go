package model

// ResolutionStatus describes the outcome of directory resolution.
type ResolutionStatus string

const (
	ResolutionFound    ResolutionStatus = "found"
	ResolutionNotFound ResolutionStatus = "not_found"
	ResolutionError    ResolutionStatus = "error"
)

// Candidate is a single directory search result. Candidates are consumed
// once by the resolver and discarded.
type Candidate struct {
	ExternalID  string   `json:"external_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	MapsURL     string   `json:"maps_url,omitempty"`
}

// ResolvedBusiness is the canonical identity for the rest of the pipeline.
// Immutable once created.
type ResolvedBusiness struct {
	PlaceID          *string          `json:"place_id"`
	Name             string           `json:"name"`
	Address          string           `json:"address"`
	Phone            *string          `json:"phone"`
	Website          *string          `json:"website"`
	Rating           *float64         `json:"rating"`
	TotalReviews     *int             `json:"total_reviews"`
	GoogleMapsURL    *string          `json:"google_maps_url"`
	ResolutionStatus ResolutionStatus `json:"resolution_status"`
}

// LocalPackEntry is one of the top-3 map results for a location-qualified
// search. Rank runs 1-3.
type LocalPackEntry struct {
	Rank        int      `json:"rank"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Address     *string  `json:"address,omitempty"`
}

// Visibility is the tri-state local-pack visibility outcome. Unavailable
// means the local-pack query produced no usable result set at all, which is
// distinct from the business being absent from a found set.
type Visibility string

const (
	VisibilityUnavailable Visibility = "unavailable"
	VisibilityAbsent      Visibility = "absent"
	VisibilityPresent     Visibility = "present"
)

// Bool maps the tri-state to the nullable boolean used on the wire:
// nil for Unavailable, false for Absent, true for Present.
func (v Visibility) Bool() *bool {
	switch v {
	case VisibilityPresent:
		b := true
		return &b
	case VisibilityAbsent:
		b := false
		return &b
	}
	return nil
}

// VisibilityResult holds the local-pack visibility outcome. Competitors are
// always reported when a pack was found, even if the target is one of them.
type VisibilityResult struct {
	Visibility         Visibility
	LocalPackAvailable bool
	TopCompetitors     []LocalPackEntry
}

// LocalVisibility is the wire form of VisibilityResult.
type LocalVisibility struct {
	MapsVisibleTop3    *bool            `json:"maps_visible_top3"`
	TopCompetitors     []LocalPackEntry `json:"top3_competitors"`
	LocalPackAvailable bool             `json:"local_pack_available"`
}

// Wire converts a VisibilityResult to its wire form.
func (r VisibilityResult) Wire() LocalVisibility {
	comps := r.TopCompetitors
	if comps == nil {
		comps = []LocalPackEntry{}
	}
	return LocalVisibility{
		MapsVisibleTop3:    r.Visibility.Bool(),
		TopCompetitors:     comps,
		LocalPackAvailable: r.LocalPackAvailable,
	}
}

// ReviewDataStatus marks whether the review lookup yielded usable data.
type ReviewDataStatus string

const (
	ReviewDataAvailable    ReviewDataStatus = "available"
	ReviewDataInsufficient ReviewDataStatus = "insufficient_api_data"
)

// Reviews holds review activity for the resolved business.
type Reviews struct {
	TotalReviews     *int             `json:"total_reviews"`
	Rating           *float64         `json:"rating"`
	LastReviewDate   *string          `json:"last_review_date"`
	ReviewDataStatus ReviewDataStatus `json:"review_data_status"`
}
