package followup

import "strings"

// Recommendations derives the ordered advisory list for a completed
// questionnaire. The rules run in a fixed order and each appends its advice
// independently; the list is intentionally not deduplicated so that callers
// see every rule that fired.
func Recommendations(r *CompletionRequest, risk RiskLevel) []string {
	var recs []string

	if r.EatingWell != nil && !*r.EatingWell {
		recs = append(recs,
			"Try offering the same food the animal was fed before adoption and transition gradually.",
			"If appetite does not improve within a few days, schedule a veterinary check.",
		)
	}

	if r.SleepingWell != nil && !*r.SleepingWell {
		recs = append(recs,
			"Set up a quiet, consistent sleeping spot away from household traffic.",
			"Keep a predictable evening routine so the animal learns when the day winds down.",
		)
	}

	if r.UsingBathroomProperly != nil && !*r.UsingBathroomProperly {
		recs = append(recs,
			"Re-establish house training with frequent, scheduled bathroom breaks and rewards.",
			"Clean previous accident spots with an enzymatic cleaner to remove scent markers.",
		)
	}

	if hasSeparationAnxiety(r.BehavioralIssues) {
		recs = append(recs,
			"Practice short departures and gradually increase the time the animal spends alone.",
			"Leave engaging toys or a worn piece of clothing to ease separation stress.",
		)
	}

	if r.SatisfactionScore != nil && *r.SatisfactionScore <= 5 {
		recs = append(recs,
			"Reach out to the organization you adopted from; they can help work through difficulties.",
			"Many adoption challenges are temporary and improve with support and routine.",
		)
	}

	if risk == RiskHigh || risk == RiskCritical {
		recs = append(recs,
			"Please contact the adoption organization as soon as possible to discuss this check-in.",
			"A veterinary or behavioral consultation is strongly recommended at this risk level.",
		)
	}

	return recs
}

// hasSeparationAnxiety looks for a separation-anxiety marker among the
// reported behavioral issues.
func hasSeparationAnxiety(issues []string) bool {
	for _, issue := range issues {
		if strings.Contains(strings.ToLower(issue), "separation") {
			return true
		}
	}
	return false
}
