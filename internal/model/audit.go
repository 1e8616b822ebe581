package model

// AuditInputs are the caller-supplied audit parameters, echoed back in the
// result envelope.
type AuditInputs struct {
	BusinessName   string `json:"business_name"`
	WebsiteURL     string `json:"website_url"`
	City           string `json:"city"`
	PrimaryService string `json:"primary_service"`
}

// Conclusion strings. Exactly four exist; the selector never invents others.
const (
	ConclusionNotDiscoverable = "Not discoverable to high-intent buyers"
	ConclusionInvisible       = "Invisible for high-value service"
	ConclusionCaptureGaps     = "Losing calls due to capture gaps"
	ConclusionOutpaced        = "Outpaced by competitors in review activity"
)

// SelectedConclusion is the audit verdict plus the reason code for the rule
// that selected it.
type SelectedConclusion struct {
	Conclusion string `json:"conclusion"`
	Reason     string `json:"reason"`
}

// MissedOpportunity is the rendered narrative for the selected conclusion.
type MissedOpportunity struct {
	OpportunityCode        string `json:"opportunity_code"`
	OpportunityDescription string `json:"opportunity_description"`
	Reason                 string `json:"reason"`
}

// SalesSafeSummary is a short headline plus the single strongest fact.
type SalesSafeSummary struct {
	Headline string `json:"headline"`
	KeyFact  string `json:"key_fact"`
}

// APICall records one provider call in the audit trail.
type APICall struct {
	Service    string  `json:"service"`
	Endpoint   string  `json:"endpoint"`
	StatusCode *int    `json:"status_code"`
	Timestamp  string  `json:"timestamp"`
	Error      *string `json:"error"`
}

// DebugInfo carries cache and timing metadata for the audit.
type DebugInfo struct {
	CacheHit        bool      `json:"cache_hit"`
	AuditDurationMS int64     `json:"audit_duration_ms"`
	APICalls        []APICall `json:"api_calls"`
}

// AuditReport is the full audit result envelope. Assembled once per audit,
// immutable afterwards; this is what gets cached and returned to the caller.
type AuditReport struct {
	AuditID            string             `json:"audit_id"`
	Timestamp          string             `json:"timestamp"`
	Inputs             AuditInputs        `json:"inputs"`
	ResolvedBusiness   ResolvedBusiness   `json:"resolved_business"`
	LocalVisibility    LocalVisibility    `json:"local_visibility"`
	Reviews            Reviews            `json:"reviews"`
	CallCapture        CaptureSignals     `json:"call_capture"`
	AfterHoursRisk     RiskAssessment     `json:"after_hours_risk"`
	SelectedConclusion SelectedConclusion `json:"selected_conclusion"`
	MissedOpportunity  MissedOpportunity  `json:"missed_opportunity"`
	Debug              DebugInfo          `json:"debug"`
	SalesSafeSummary   SalesSafeSummary   `json:"sales_safe_summary"`
}
