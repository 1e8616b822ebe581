package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/precall-audit/internal/model"
)

func auditInputs() model.AuditInputs {
	return model.AuditInputs{
		BusinessName:   "Smith Pest Control",
		WebsiteURL:     "https://www.smithpest.com",
		City:           "Springfield",
		PrimaryService: "pest_control",
	}
}

func basePayloads() Payloads {
	return Payloads{
		Candidates: []model.Candidate{{
			ExternalID:  "place-1",
			Name:        "Smith Pest Control LLC",
			Address:     "123 Main St, Springfield, IL",
			Website:     "https://smithpest.com",
			Rating:      floatp(4.6),
			ReviewCount: intp(100),
		}},
		Details: ReviewDetails{
			Available:      true,
			Phone:          strp("(415) 555-2671"),
			Rating:         floatp(4.6),
			TotalReviews:   intp(100),
			LastReviewDate: strp("2026-08-01T00:00:00Z"),
		},
		LocalPack: LocalPackResult{Entries: []model.LocalPackEntry{
			{Rank: 1, Name: "Smith Pest Control", Address: strp("123 Main St, Springfield"), ReviewCount: intp(120)},
			{Rank: 2, Name: "Acme Exterminators", Address: strp("77 Pine St, Springfield"), ReviewCount: intp(90)},
			{Rank: 3, Name: "Budget Bugs", Address: strp("9 Low Rd, Springfield"), ReviewCount: intp(30)},
		}},
		Pages: []model.PageFetch{
			page("/", homepageHTML),
			page("/contact", contactHTML),
			page("/services", servicesHTML),
		},
	}
}

func TestRunHealthyBusiness(t *testing.T) {
	t.Parallel()

	report := Run(auditInputs(), basePayloads())

	require.Equal(t, model.ResolutionFound, report.ResolvedBusiness.ResolutionStatus)
	require.NotNil(t, report.LocalVisibility.MapsVisibleTop3)
	assert.True(t, *report.LocalVisibility.MapsVisibleTop3)
	assert.Equal(t, model.RiskLow, report.AfterHoursRisk.RiskLevel)
	assert.Equal(t, model.ConclusionNotDiscoverable, report.SelectedConclusion.Conclusion)
	assert.Equal(t, "default", report.SelectedConclusion.Reason)
	assert.Equal(t, model.ReviewDataAvailable, report.Reviews.ReviewDataStatus)
	require.NotNil(t, report.Reviews.TotalReviews)
	assert.Equal(t, 100, *report.Reviews.TotalReviews)
}

func TestRunInvisibleBusiness(t *testing.T) {
	t.Parallel()

	p := basePayloads()
	p.LocalPack = LocalPackResult{Entries: []model.LocalPackEntry{
		{Rank: 1, Name: "Acme Exterminators", Address: strp("77 Pine St, Springfield"), ReviewCount: intp(90)},
		{Rank: 2, Name: "Budget Bugs", Address: strp("9 Low Rd, Springfield"), ReviewCount: intp(30)},
		{Rank: 3, Name: "Zen Pest Solutions", Address: strp("5 High St, Springfield"), ReviewCount: intp(12)},
	}}

	report := Run(auditInputs(), p)

	require.NotNil(t, report.LocalVisibility.MapsVisibleTop3)
	assert.False(t, *report.LocalVisibility.MapsVisibleTop3)
	assert.Equal(t, model.ConclusionInvisible, report.SelectedConclusion.Conclusion)
	assert.Equal(t, "invisible_high_value", report.MissedOpportunity.OpportunityCode)
	assert.Contains(t, report.MissedOpportunity.OpportunityDescription, "Springfield")
	assert.Equal(t, "Not appearing in top 3 local pack results", report.SalesSafeSummary.KeyFact)
}

func TestRunLocalPackUnavailable(t *testing.T) {
	t.Parallel()

	p := basePayloads()
	p.LocalPack = LocalPackResult{Failed: true}

	report := Run(auditInputs(), p)

	assert.Nil(t, report.LocalVisibility.MapsVisibleTop3)
	assert.False(t, report.LocalVisibility.LocalPackAvailable)
	assert.Equal(t, model.ConclusionNotDiscoverable, report.SelectedConclusion.Conclusion)
	assert.Equal(t, "local_pack_not_available", report.SelectedConclusion.Reason)
}

func TestRunCaptureGaps(t *testing.T) {
	t.Parallel()

	p := basePayloads()
	p.Pages = []model.PageFetch{
		page("/", "<html><body><p>We love bugs.</p></body></html>"),
		page("/contact", "<html><body><p>Write to us sometime.</p></body></html>"),
		failedPage("/services"),
	}

	report := Run(auditInputs(), p)

	assert.Equal(t, model.RiskHigh, report.AfterHoursRisk.RiskLevel)
	assert.Equal(t, "no_capture_mechanisms", report.AfterHoursRisk.Reason)
	assert.Equal(t, model.ConclusionCaptureGaps, report.SelectedConclusion.Conclusion)
	assert.Equal(t, "capture_gaps", report.MissedOpportunity.OpportunityCode)
	assert.Equal(t, model.CapturePartialFailure, report.CallCapture.CaptureAssessmentStatus)
}

func TestRunReviewGap(t *testing.T) {
	t.Parallel()

	p := basePayloads()
	p.Details.TotalReviews = intp(40)
	p.LocalPack = LocalPackResult{Entries: []model.LocalPackEntry{
		{Rank: 1, Name: "Smith Pest Control", Address: strp("123 Main St, Springfield"), ReviewCount: intp(240)},
		{Rank: 2, Name: "Acme Exterminators", Address: strp("77 Pine St, Springfield"), ReviewCount: intp(90)},
	}}

	report := Run(auditInputs(), p)

	assert.Equal(t, model.ConclusionOutpaced, report.SelectedConclusion.Conclusion)
	assert.Equal(t, "significant_review_gap", report.SelectedConclusion.Reason)
	assert.Contains(t, report.MissedOpportunity.OpportunityDescription, "240")
	assert.Contains(t, report.MissedOpportunity.OpportunityDescription, "40")
	assert.Equal(t, "Top competitor has 240 reviews", report.SalesSafeSummary.KeyFact)
}

func TestRunBusinessNotFound(t *testing.T) {
	t.Parallel()

	p := basePayloads()
	p.Candidates = nil

	report := Run(auditInputs(), p)

	assert.Equal(t, model.ResolutionNotFound, report.ResolvedBusiness.ResolutionStatus)
	assert.Equal(t, ReasonBusinessNotFound, report.SelectedConclusion.Reason)
	assert.Nil(t, report.LocalVisibility.MapsVisibleTop3)
	assert.Equal(t, model.RiskUnknown, report.AfterHoursRisk.RiskLevel)
	assert.Equal(t, model.TriUnknown, report.CallCapture.CallTrackingDetected)
	assert.Equal(t, model.CaptureNoData, report.CallCapture.CaptureAssessmentStatus)
}

func TestRunDirectoryProviderError(t *testing.T) {
	t.Parallel()

	p := basePayloads()
	p.Candidates = nil
	p.DirectoryFailed = true

	report := Run(auditInputs(), p)

	assert.Equal(t, model.ResolutionError, report.ResolvedBusiness.ResolutionStatus)
	assert.Equal(t, ReasonDirectoryProviderError, report.SelectedConclusion.Reason)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	first := Run(auditInputs(), basePayloads())
	second := Run(auditInputs(), basePayloads())
	assert.Equal(t, first, second)

	// Page order reflects fetch completion order in production; the folded
	// capture assessment must not depend on it.
	shuffled := basePayloads()
	shuffled.Pages = []model.PageFetch{shuffled.Pages[2], shuffled.Pages[0], shuffled.Pages[1]}
	third := Run(auditInputs(), shuffled)
	assert.Equal(t, first.CallCapture, third.CallCapture)
	assert.Equal(t, first.SelectedConclusion, third.SelectedConclusion)
}

func TestMergeDetailsOverlaysOnlyPresentFields(t *testing.T) {
	t.Parallel()

	rb := model.ResolvedBusiness{
		Name:             "Smith Pest Control",
		Phone:            strp("(111) 111-1111"),
		Website:          strp("https://smithpest.com"),
		TotalReviews:     intp(10),
		ResolutionStatus: model.ResolutionFound,
	}
	merged := mergeDetails(rb, ReviewDetails{
		Available:    true,
		Phone:        strp("(415) 555-2671"),
		TotalReviews: intp(100),
	})

	assert.Equal(t, "(415) 555-2671", *merged.Phone)
	assert.Equal(t, 100, *merged.TotalReviews)
	// Fields absent from the details lookup keep their resolver values.
	assert.Equal(t, "https://smithpest.com", *merged.Website)

	untouched := mergeDetails(rb, ReviewDetails{})
	assert.Equal(t, rb, untouched)
}
