package model

// TriState is a three-valued detection outcome serialized as a string so
// "unknown" survives the wire without collapsing into false.
type TriState string

const (
	TriTrue    TriState = "true"
	TriFalse   TriState = "false"
	TriUnknown TriState = "unknown"
)

// PageFetch is one fetched page payload handed to the capture extractor.
// A failed fetch is a marker (OK=false, empty body), never an error.
type PageFetch struct {
	Path       string `json:"path"`
	URL        string `json:"url"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"-"`
	Error      string `json:"error,omitempty"`
}

// PhoneConsistency describes agreement of phone numbers across pages.
type PhoneConsistency string

const (
	PhoneConsistent   PhoneConsistency = "consistent"
	PhoneInconsistent PhoneConsistency = "inconsistent"
	PhoneNotFound     PhoneConsistency = "not_found"
)

// CaptureStatus summarizes how much of the site could be scanned.
type CaptureStatus string

const (
	CaptureCompleted      CaptureStatus = "completed"
	CapturePartialFailure CaptureStatus = "partial_failure"
	CaptureNoData         CaptureStatus = "no_data"
)

// CaptureSignals is the folded call-capture assessment across all scanned
// pages. Never mutated after the fold completes.
type CaptureSignals struct {
	PhoneFound               bool             `json:"phone_found"`
	PhonesDetected           []string         `json:"phones_detected"`
	PhoneConsistency         PhoneConsistency `json:"phone_consistency"`
	FormDetected             bool             `json:"form_detected"`
	CallTrackingDetected     TriState         `json:"call_tracking_detected"`
	CallTrackingVendor       *string          `json:"call_tracking_vendor"`
	SchedulingWidgetDetected bool             `json:"scheduling_widget_detected"`
	PagesScanned             int              `json:"pages_scanned"`
	CaptureAssessmentStatus  CaptureStatus    `json:"capture_assessment_status"`
}

// RiskLevel is the after-hours capture risk classification.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// RiskAssessment is the after-hours capture risk plus the rule that fired.
type RiskAssessment struct {
	RiskLevel RiskLevel `json:"risk_level"`
	Reason    string    `json:"reason"`
}
