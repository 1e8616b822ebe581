package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/precall-audit/internal/model"
)

// PageExtract is the per-page extraction record. Extraction is independent
// and side-effect-free per page; records are folded into CaptureSignals by
// an order-insensitive reduction so concurrent fetch completion order can
// never change the result.
type PageExtract struct {
	Scanned            bool
	Phones             []string
	FormDetected       bool
	TrackingVendors    []string
	SchedulingDetected bool
}

var (
	phoneRe   = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	telHrefRe = regexp.MustCompile(`(?i)href\s*=\s*["']tel:([^"']+)["']`)
	formTagRe = regexp.MustCompile(`(?i)<form[\s>]`)
	nonDigit  = regexp.MustCompile(`\D`)
)

// ExtractPage pulls capture signals out of one fetched page. A failed fetch
// yields an unscanned record and contributes nothing to the fold.
func ExtractPage(page model.PageFetch) PageExtract {
	if !page.OK {
		return PageExtract{}
	}

	body := page.Body
	lower := strings.ToLower(body)

	return PageExtract{
		Scanned:            true,
		Phones:             extractPhones(body),
		FormDetected:       detectForm(lower),
		TrackingVendors:    detectTrackingVendors(lower),
		SchedulingDetected: containsAnySignature(lower, signatures.SchedulingWidgets),
	}
}

// extractPhones unions tel: link targets and regex matches from visible
// text, normalized to the canonical "(ddd) ddd-dddd" form and deduplicated.
func extractPhones(body string) []string {
	seen := map[string]bool{}
	for _, m := range telHrefRe.FindAllStringSubmatch(body, -1) {
		if n, ok := normalizePhone(m[1]); ok {
			seen[n] = true
		}
	}
	for _, m := range phoneRe.FindAllString(body, -1) {
		if n, ok := normalizePhone(m); ok {
			seen[n] = true
		}
	}
	phones := make([]string, 0, len(seen))
	for p := range seen {
		phones = append(phones, p)
	}
	sort.Strings(phones)
	return phones
}

// normalizePhone reduces a raw phone string to canonical NANP formatting.
// Accepts bare 10-digit numbers and 11-digit numbers with a leading 1.
func normalizePhone(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", false
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:], true
}

func detectForm(lower string) bool {
	if formTagRe.MatchString(lower) {
		return true
	}
	return containsAnySignature(lower, signatures.FormVendors)
}

func detectTrackingVendors(lower string) []string {
	var vendors []string
	for _, v := range signatures.CallTracking {
		if strings.Contains(lower, v) {
			vendors = append(vendors, v)
		}
	}
	return vendors
}

func containsAnySignature(lower string, sigs []string) bool {
	for _, s := range sigs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// AssessCapture extracts each page independently and folds the records into
// aggregate CaptureSignals. The fold is associative and order-independent:
// set union for phones, logical OR for booleans, count for pages scanned,
// and the lexicographically-smallest vendor on multi-vendor detections.
func AssessCapture(pages []model.PageFetch) model.CaptureSignals {
	extracts := make([]PageExtract, len(pages))
	for i, p := range pages {
		extracts[i] = ExtractPage(p)
	}
	return FoldExtracts(len(pages), extracts)
}

// FoldExtracts combines per-page extraction records. attempted is the number
// of pages the scanner tried to fetch, scanned counts those that returned
// content.
func FoldExtracts(attempted int, extracts []PageExtract) model.CaptureSignals {
	phoneSet := map[string]bool{}
	var (
		scanned            int
		formDetected       bool
		schedulingDetected bool
		trackingVendor     string
	)

	for _, e := range extracts {
		if !e.Scanned {
			continue
		}
		scanned++
		for _, p := range e.Phones {
			phoneSet[p] = true
		}
		formDetected = formDetected || e.FormDetected
		schedulingDetected = schedulingDetected || e.SchedulingDetected
		for _, v := range e.TrackingVendors {
			if trackingVendor == "" || v < trackingVendor {
				trackingVendor = v
			}
		}
	}

	phones := make([]string, 0, len(phoneSet))
	for p := range phoneSet {
		phones = append(phones, p)
	}
	sort.Strings(phones)

	signals := model.CaptureSignals{
		PhoneFound:               len(phones) > 0,
		PhonesDetected:           phones,
		PhoneConsistency:         phoneConsistency(phones),
		FormDetected:             formDetected,
		SchedulingWidgetDetected: schedulingDetected,
		PagesScanned:             scanned,
	}

	switch {
	case scanned == 0:
		// No page could be scanned: absence of evidence is not evidence
		// of absence.
		signals.CallTrackingDetected = model.TriUnknown
		signals.CaptureAssessmentStatus = model.CaptureNoData
	case trackingVendor != "":
		v := trackingVendor
		signals.CallTrackingDetected = model.TriTrue
		signals.CallTrackingVendor = &v
		signals.CaptureAssessmentStatus = captureStatus(scanned, attempted)
	default:
		signals.CallTrackingDetected = model.TriFalse
		signals.CaptureAssessmentStatus = captureStatus(scanned, attempted)
	}

	return signals
}

func phoneConsistency(phones []string) model.PhoneConsistency {
	switch len(phones) {
	case 0:
		return model.PhoneNotFound
	case 1:
		return model.PhoneConsistent
	}
	return model.PhoneInconsistent
}

func captureStatus(scanned, attempted int) model.CaptureStatus {
	if scanned >= attempted {
		return model.CaptureCompleted
	}
	return model.CapturePartialFailure
}
