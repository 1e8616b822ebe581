package engine

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/precall-audit/internal/model"
)

// opportunityCodes maps each conclusion to its stable opportunity code.
var opportunityCodes = map[string]string{
	model.ConclusionInvisible:       "invisible_high_value",
	model.ConclusionCaptureGaps:     "capture_gaps",
	model.ConclusionOutpaced:        "review_gap",
	model.ConclusionNotDiscoverable: "not_discoverable",
}

// conclusionTemplates holds the four fixed narrative templates. Placeholders
// are substituted with literal evidence already present in the audit; the
// renderer never fabricates values.
var conclusionTemplates = map[string]string{
	model.ConclusionNotDiscoverable: "Your local search presence isn't strong enough to appear where buyers are looking. This limits booked jobs.",
	model.ConclusionInvisible:       "You're not showing up for {service} in {city}. Competitors in the top 3 local pack are getting calls you're missing.",
	model.ConclusionCaptureGaps:     "Leads that call after hours have no reliable way to reach you or leave their details, so those jobs go to the next company they call.",
	model.ConclusionOutpaced:        "{competitor} has {comp_reviews} reviews to your {total_reviews}. Buyers comparing companies side by side are choosing the busier profile.",
}

// RenderOpportunity fills the selected conclusion's template with evidence
// values. Reaching the review-gap template without competitor data should be
// structurally impossible given the selector's guards; if it happens anyway
// it is logged as an internal-consistency failure and safe fallbacks are
// substituted rather than surfacing an error to the caller.
func RenderOpportunity(sel model.SelectedConclusion, primaryService, city string, totalReviews *int, competitors []model.LocalPackEntry) model.MissedOpportunity {
	code, ok := opportunityCodes[sel.Conclusion]
	if !ok {
		code = "not_discoverable"
	}
	template, ok := conclusionTemplates[sel.Conclusion]
	if !ok {
		template = conclusionTemplates[model.ConclusionNotDiscoverable]
	}

	var description string
	switch sel.Conclusion {
	case model.ConclusionInvisible:
		description = strings.NewReplacer(
			"{service}", model.ServiceDisplayName(primaryService),
			"{city}", city,
		).Replace(template)
	case model.ConclusionOutpaced:
		compName := "Competitor"
		compReviews := 0
		if len(competitors) > 0 {
			if competitors[0].Name != "" {
				compName = competitors[0].Name
			}
			if competitors[0].ReviewCount != nil {
				compReviews = *competitors[0].ReviewCount
			}
		} else {
			zap.L().Error("narrative: review-gap conclusion reached without competitor data")
		}
		total := 0
		if totalReviews != nil {
			total = *totalReviews
		}
		description = strings.NewReplacer(
			"{competitor}", compName,
			"{comp_reviews}", strconv.Itoa(compReviews),
			"{total_reviews}", strconv.Itoa(total),
		).Replace(template)
	default:
		description = template
	}

	return model.MissedOpportunity{
		OpportunityCode:        code,
		OpportunityDescription: description,
		Reason:                 sel.Reason,
	}
}

// RenderSummary produces the sales-safe headline plus the single strongest
// supporting fact for the selected conclusion.
func RenderSummary(conclusion string, risk model.RiskAssessment, competitors []model.LocalPackEntry) model.SalesSafeSummary {
	var keyFact string
	switch conclusion {
	case model.ConclusionInvisible:
		keyFact = "Not appearing in top 3 local pack results"
	case model.ConclusionCaptureGaps:
		keyFact = "After-hours risk: " + string(risk.RiskLevel)
	case model.ConclusionOutpaced:
		if len(competitors) > 0 && competitors[0].ReviewCount != nil {
			keyFact = "Top competitor has " + strconv.Itoa(*competitors[0].ReviewCount) + " reviews"
		} else {
			keyFact = "Significant review gap with competitors"
		}
	default:
		keyFact = "Limited local search visibility"
	}
	return model.SalesSafeSummary{Headline: conclusion, KeyFact: keyFact}
}
