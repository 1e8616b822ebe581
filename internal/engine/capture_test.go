package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/precall-audit/internal/model"
)

const homepageHTML = `<html><body>
<a href="tel:+1-415-555-2671">Call us</a>
<p>Or dial (415) 555-2671 any time.</p>
</body></html>`

const contactHTML = `<html><body>
<form action="/submit" method="post"><input name="email"></form>
<script src="https://cdn.callrail.com/companies/123/swap.js"></script>
</body></html>`

const servicesHTML = `<html><body>
<div class="calendly-inline-widget" data-url="https://calendly.com/smith-pest"></div>
<p>Call (415) 555-9000 for scheduling.</p>
</body></html>`

func page(path, body string) model.PageFetch {
	return model.PageFetch{Path: path, OK: true, StatusCode: 200, Body: body}
}

func failedPage(path string) model.PageFetch {
	return model.PageFetch{Path: path, Error: "connect timeout"}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"dashed", "415-555-2671", "(415) 555-2671", true},
		{"parens", "(415) 555-2671", "(415) 555-2671", true},
		{"country code", "+1 415 555 2671", "(415) 555-2671", true},
		{"leading one", "14155552671", "(415) 555-2671", true},
		{"too short", "555-2671", "", false},
		{"too long", "415555267189", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := normalizePhone(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPage(t *testing.T) {
	t.Parallel()

	t.Run("phones dedupe across tel links and text", func(t *testing.T) {
		t.Parallel()
		ex := ExtractPage(page("/", homepageHTML))

		assert.True(t, ex.Scanned)
		assert.Equal(t, []string{"(415) 555-2671"}, ex.Phones)
		assert.False(t, ex.FormDetected)
		assert.Empty(t, ex.TrackingVendors)
	})

	t.Run("form tag and tracking script", func(t *testing.T) {
		t.Parallel()
		ex := ExtractPage(page("/contact", contactHTML))

		assert.True(t, ex.FormDetected)
		assert.Equal(t, []string{"callrail"}, ex.TrackingVendors)
	})

	t.Run("form vendor without form tag", func(t *testing.T) {
		t.Parallel()
		ex := ExtractPage(page("/", `<div data-widget="typeform" id="embed"></div>`))
		assert.True(t, ex.FormDetected)
	})

	t.Run("scheduling widget", func(t *testing.T) {
		t.Parallel()
		ex := ExtractPage(page("/services", servicesHTML))
		assert.True(t, ex.SchedulingDetected)
	})

	t.Run("failed fetch contributes nothing", func(t *testing.T) {
		t.Parallel()
		ex := ExtractPage(failedPage("/contact"))
		assert.False(t, ex.Scanned)
		assert.Empty(t, ex.Phones)
	})
}

func TestAssessCaptureAggregates(t *testing.T) {
	t.Parallel()

	signals := AssessCapture([]model.PageFetch{
		page("/", homepageHTML),
		page("/contact", contactHTML),
		page("/services", servicesHTML),
	})

	assert.True(t, signals.PhoneFound)
	assert.Equal(t, []string{"(415) 555-2671", "(415) 555-9000"}, signals.PhonesDetected)
	assert.Equal(t, model.PhoneInconsistent, signals.PhoneConsistency)
	assert.True(t, signals.FormDetected)
	assert.True(t, signals.SchedulingWidgetDetected)
	assert.Equal(t, model.TriTrue, signals.CallTrackingDetected)
	require.NotNil(t, signals.CallTrackingVendor)
	assert.Equal(t, "callrail", *signals.CallTrackingVendor)
	assert.Equal(t, 3, signals.PagesScanned)
	assert.Equal(t, model.CaptureCompleted, signals.CaptureAssessmentStatus)
}

func TestAssessCapturePartialFailure(t *testing.T) {
	t.Parallel()

	signals := AssessCapture([]model.PageFetch{
		page("/", homepageHTML),
		failedPage("/contact"),
		failedPage("/services"),
	})

	assert.Equal(t, 1, signals.PagesScanned)
	assert.Equal(t, model.CapturePartialFailure, signals.CaptureAssessmentStatus)
	assert.Equal(t, model.PhoneConsistent, signals.PhoneConsistency)
	assert.Equal(t, model.TriFalse, signals.CallTrackingDetected)
}

func TestAssessCaptureNoPagesScanned(t *testing.T) {
	t.Parallel()

	signals := AssessCapture([]model.PageFetch{
		failedPage("/"),
		failedPage("/contact"),
		failedPage("/services"),
	})

	assert.Equal(t, 0, signals.PagesScanned)
	assert.False(t, signals.PhoneFound)
	assert.Equal(t, model.PhoneNotFound, signals.PhoneConsistency)
	// Nothing was observed, so call tracking is unknown rather than absent.
	assert.Equal(t, model.TriUnknown, signals.CallTrackingDetected)
	assert.Equal(t, model.CaptureNoData, signals.CaptureAssessmentStatus)
}

func TestFoldExtractsOrderIndependent(t *testing.T) {
	t.Parallel()

	extracts := []PageExtract{
		{Scanned: true, Phones: []string{"(415) 555-2671"}, TrackingVendors: []string{"ringba"}},
		{Scanned: true, Phones: []string{"(415) 555-9000", "(415) 555-2671"}, FormDetected: true},
		{Scanned: true, SchedulingDetected: true, TrackingVendors: []string{"callrail"}},
	}
	reversed := []PageExtract{extracts[2], extracts[1], extracts[0]}

	forward := FoldExtracts(3, extracts)
	backward := FoldExtracts(3, reversed)

	assert.Equal(t, forward, backward)
	require.NotNil(t, forward.CallTrackingVendor)
	// Multi-vendor detections resolve to a stable canonical pick.
	assert.Equal(t, "callrail", *forward.CallTrackingVendor)
	assert.Equal(t, []string{"(415) 555-2671", "(415) 555-9000"}, forward.PhonesDetected)
}
