package engine

import (
	"github.com/sells-group/precall-audit/internal/model"
)

// conclusionInput gathers everything the conclusion cascade may consult.
type conclusionInput struct {
	visibility         model.Visibility
	risk               model.RiskLevel
	totalReviews       *int
	topCompetitorCount *int
}

// conclusionRule is one branch of the conclusion cascade.
type conclusionRule struct {
	name    string
	matches func(in conclusionInput) bool
	outcome model.SelectedConclusion
}

// conclusionCascade is evaluated top to bottom; the first match wins.
// Unavailable visibility short-circuits before risk is ever consulted.
var conclusionCascade = []conclusionRule{
	{
		name: "local_pack_not_available",
		matches: func(in conclusionInput) bool {
			return in.visibility == model.VisibilityUnavailable
		},
		outcome: model.SelectedConclusion{
			Conclusion: model.ConclusionNotDiscoverable,
			Reason:     "local_pack_not_available",
		},
	},
	{
		name: "not_in_top3",
		matches: func(in conclusionInput) bool {
			return in.visibility == model.VisibilityAbsent
		},
		outcome: model.SelectedConclusion{
			Conclusion: model.ConclusionInvisible,
			Reason:     "not_in_top3_local_pack",
		},
	},
	{
		name: "high_capture_risk",
		matches: func(in conclusionInput) bool {
			return in.risk == model.RiskHigh
		},
		outcome: model.SelectedConclusion{
			Conclusion: model.ConclusionCaptureGaps,
			Reason:     "no_after_hours_capture",
		},
	},
	{
		name: "review_gap",
		matches: func(in conclusionInput) bool {
			// A missing total leaves the condition unsatisfied; there is
			// nothing to compare against.
			if in.totalReviews == nil || in.topCompetitorCount == nil {
				return false
			}
			return *in.topCompetitorCount >= 2*(*in.totalReviews)
		},
		outcome: model.SelectedConclusion{
			Conclusion: model.ConclusionOutpaced,
			Reason:     "significant_review_gap",
		},
	},
	{
		name: "default",
		matches: func(in conclusionInput) bool {
			return true
		},
		outcome: model.SelectedConclusion{
			Conclusion: model.ConclusionNotDiscoverable,
			Reason:     "default",
		},
	},
}

// SelectConclusion runs the ordered conclusion cascade over visibility,
// after-hours risk, and review counts. topCompetitorCount is the rank-1
// local-pack entry's review count, compared unconditionally even when the
// resolved business itself occupies rank 1.
func SelectConclusion(visibility model.Visibility, risk model.RiskLevel, totalReviews, topCompetitorCount *int) model.SelectedConclusion {
	in := conclusionInput{
		visibility:         visibility,
		risk:               risk,
		totalReviews:       totalReviews,
		topCompetitorCount: topCompetitorCount,
	}
	for _, rule := range conclusionCascade {
		if rule.matches(in) {
			return rule.outcome
		}
	}
	// Unreachable: the last rule always matches.
	return model.SelectedConclusion{Conclusion: model.ConclusionNotDiscoverable, Reason: "default"}
}
