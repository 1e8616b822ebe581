// Package engine implements the audit decision engine: identity resolution,
// local-pack visibility scoring, call-capture signal extraction, the
// after-hours risk cascade, conclusion selection, and narrative rendering.
//
// The engine never performs I/O. It consumes already-fetched provider
// payloads and is deterministic: the same inputs and payloads always produce
// the same report. Audit ids, timestamps, and the call trail are stamped by
// the orchestrator, not here.
package engine

import (
	"github.com/sells-group/precall-audit/internal/model"
)

// ReviewDetails is the directory details lookup payload. Available is false
// when the lookup failed or returned nothing usable.
type ReviewDetails struct {
	Available      bool
	Phone          *string
	Website        *string
	Rating         *float64
	TotalReviews   *int
	LastReviewDate *string
}

// LocalPackResult is the local-pack provider payload. Failed marks a provider
// error; an empty Entries slice with Failed=false means the query succeeded
// but returned no local-pack section. Both yield Unavailable visibility.
type LocalPackResult struct {
	Failed  bool
	Entries []model.LocalPackEntry
}

// Payloads carries every provider result the engine consumes. The orchestrator
// assembles it; the engine only ever sees terminal successes or terminal
// failure markers.
type Payloads struct {
	DirectoryFailed bool
	Candidates      []model.Candidate
	Details         ReviewDetails
	LocalPack       LocalPackResult
	Pages           []model.PageFetch
}

// Reason codes for audits that fail at the resolution stage.
const (
	ReasonBusinessNotFound       = "business_not_found"
	ReasonDirectoryProviderError = "directory_provider_error"
)

// Run executes the full decision pipeline and assembles the report envelope.
// Resolution failure aborts the pipeline: later stages never run and the
// report carries explicit not-found/error markers throughout. Every other
// degradation is absorbed into null/unknown fields.
func Run(inputs model.AuditInputs, p Payloads) *model.AuditReport {
	resolved := Resolve(inputs, p.Candidates, p.DirectoryFailed)
	if resolved.ResolutionStatus != model.ResolutionFound {
		return unresolvedReport(inputs, resolved)
	}

	resolved = mergeDetails(resolved, p.Details)
	reviews := buildReviews(resolved, p.Details)

	visibility := ScoreVisibility(resolved, p.LocalPack)
	capture := AssessCapture(p.Pages)
	risk := ClassifyRisk(capture)

	var topReviews *int
	if len(visibility.TopCompetitors) > 0 {
		topReviews = visibility.TopCompetitors[0].ReviewCount
	}
	conclusion := SelectConclusion(visibility.Visibility, risk.RiskLevel, reviews.TotalReviews, topReviews)

	missed := RenderOpportunity(conclusion, inputs.PrimaryService, inputs.City, reviews.TotalReviews, visibility.TopCompetitors)
	summary := RenderSummary(conclusion.Conclusion, risk, visibility.TopCompetitors)

	return &model.AuditReport{
		Inputs:             inputs,
		ResolvedBusiness:   resolved,
		LocalVisibility:    visibility.Wire(),
		Reviews:            reviews,
		CallCapture:        capture,
		AfterHoursRisk:     risk,
		SelectedConclusion: conclusion,
		MissedOpportunity:  missed,
		SalesSafeSummary:   summary,
	}
}

// mergeDetails overlays details-lookup fields onto the resolved business.
// Details values win only where present; the resolver's values survive gaps.
func mergeDetails(rb model.ResolvedBusiness, d ReviewDetails) model.ResolvedBusiness {
	if !d.Available {
		return rb
	}
	if d.Phone != nil {
		rb.Phone = d.Phone
	}
	if d.Website != nil {
		rb.Website = d.Website
	}
	if d.Rating != nil {
		rb.Rating = d.Rating
	}
	if d.TotalReviews != nil {
		rb.TotalReviews = d.TotalReviews
	}
	return rb
}

func buildReviews(rb model.ResolvedBusiness, d ReviewDetails) model.Reviews {
	status := model.ReviewDataInsufficient
	if rb.TotalReviews != nil {
		status = model.ReviewDataAvailable
	}
	var last *string
	if d.Available {
		last = d.LastReviewDate
	}
	return model.Reviews{
		TotalReviews:     rb.TotalReviews,
		Rating:           rb.Rating,
		LastReviewDate:   last,
		ReviewDataStatus: status,
	}
}

// unresolvedReport builds the fixed envelope for audits that fail resolution.
// Every downstream field carries its explicit no-data marker.
func unresolvedReport(inputs model.AuditInputs, resolved model.ResolvedBusiness) *model.AuditReport {
	reason := ReasonBusinessNotFound
	if resolved.ResolutionStatus == model.ResolutionError {
		reason = ReasonDirectoryProviderError
	}
	conclusion := model.SelectedConclusion{
		Conclusion: model.ConclusionNotDiscoverable,
		Reason:     reason,
	}
	return &model.AuditReport{
		Inputs:           inputs,
		ResolvedBusiness: resolved,
		LocalVisibility: model.LocalVisibility{
			MapsVisibleTop3:    nil,
			TopCompetitors:     []model.LocalPackEntry{},
			LocalPackAvailable: false,
		},
		Reviews: model.Reviews{ReviewDataStatus: model.ReviewDataInsufficient},
		CallCapture: model.CaptureSignals{
			PhonesDetected:          []string{},
			PhoneConsistency:        model.PhoneNotFound,
			CallTrackingDetected:    model.TriUnknown,
			CaptureAssessmentStatus: model.CaptureNoData,
		},
		AfterHoursRisk:     model.RiskAssessment{RiskLevel: model.RiskUnknown, Reason: reason},
		SelectedConclusion: conclusion,
		MissedOpportunity:  RenderOpportunity(conclusion, inputs.PrimaryService, inputs.City, nil, nil),
		SalesSafeSummary: model.SalesSafeSummary{
			Headline: model.ConclusionNotDiscoverable,
			KeyFact:  "Business could not be resolved",
		},
	}
}
