package engine

import (
	"github.com/sells-group/precall-audit/internal/model"
)

// riskRule is one branch of the after-hours risk cascade.
type riskRule struct {
	name    string
	matches func(s model.CaptureSignals) bool
	outcome model.RiskAssessment
}

// riskCascade is evaluated top to bottom; the first matching rule wins.
// Precedence is load-bearing: the final rule is reachable only when phone is
// absent but at least one other channel is present.
var riskCascade = []riskRule{
	{
		name: "unable_to_scan",
		matches: func(s model.CaptureSignals) bool {
			return s.PagesScanned == 0
		},
		outcome: model.RiskAssessment{RiskLevel: model.RiskUnknown, Reason: "unable_to_scan_website"},
	},
	{
		name: "no_capture",
		matches: func(s model.CaptureSignals) bool {
			return !s.PhoneFound && !s.FormDetected && !s.SchedulingWidgetDetected
		},
		outcome: model.RiskAssessment{RiskLevel: model.RiskHigh, Reason: "no_capture_mechanisms"},
	},
	{
		name: "multiple_paths",
		matches: func(s model.CaptureSignals) bool {
			return s.PhoneFound && (s.FormDetected || s.SchedulingWidgetDetected)
		},
		outcome: model.RiskAssessment{RiskLevel: model.RiskLow, Reason: "multiple_capture_paths"},
	},
	{
		name: "phone_only",
		matches: func(s model.CaptureSignals) bool {
			return s.PhoneFound && !s.FormDetected && !s.SchedulingWidgetDetected
		},
		outcome: model.RiskAssessment{RiskLevel: model.RiskMedium, Reason: "phone_only"},
	},
	{
		name: "alternative_capture",
		matches: func(s model.CaptureSignals) bool {
			return true
		},
		outcome: model.RiskAssessment{RiskLevel: model.RiskLow, Reason: "has_alternative_capture"},
	},
}

// ClassifyRisk maps capture signals to an after-hours risk level through the
// ordered cascade. The cascade is total: exactly one branch fires for every
// input.
func ClassifyRisk(s model.CaptureSignals) model.RiskAssessment {
	for _, rule := range riskCascade {
		if rule.matches(s) {
			return rule.outcome
		}
	}
	// Unreachable: the last rule always matches.
	return model.RiskAssessment{RiskLevel: model.RiskUnknown, Reason: "unclassified"}
}
