package followup

// Score computes the weighted risk score of a questionnaire answer set. It is
// a pure function: same answers and weights always yield the same score.
func Score(r *CompletionRequest, w ScoringWeights, lowMax, veryLowMax int) float64 {
	score := 0.0

	switch r.AdaptationLevel {
	case AdaptationPoor:
		score += w.AdaptationPoor
	case AdaptationConcerning:
		score += w.AdaptationConcerning
	}

	if r.EatingWell != nil && !*r.EatingWell {
		score += w.NotEatingWell
	}
	if r.SleepingWell != nil && !*r.SleepingWell {
		score += w.NotSleepingWell
	}
	if r.UsingBathroomProperly != nil && !*r.UsingBathroomProperly {
		score += w.BathroomIssues
	}
	if r.ShowingAffection != nil && !*r.ShowingAffection {
		score += w.NotShowingAffection
	}

	score += float64(len(r.BehavioralIssues)) * w.PerBehavioralIssue
	score += float64(len(r.HealthConcerns)) * w.PerHealthConcern

	// Both satisfaction bands are cumulative.
	if r.SatisfactionScore != nil {
		if *r.SatisfactionScore <= lowMax {
			score += w.LowSatisfaction
		}
		if *r.SatisfactionScore <= veryLowMax {
			score += w.VeryLowSatisfaction
		}
	}

	if r.NeedsSupport != nil && *r.NeedsSupport {
		score += w.NeedsSupport
	}

	return score
}

// CategoryForScore maps a score to its risk level, evaluating thresholds high
// to low.
func CategoryForScore(score float64, t RiskThresholds) RiskLevel {
	switch {
	case score >= t.Critical:
		return RiskCritical
	case score >= t.High:
		return RiskHigh
	case score >= t.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// scoreAnswers is the convenience used by the lifecycle: score plus category
// under the service's policy.
func (p Policy) scoreAnswers(r *CompletionRequest) (float64, RiskLevel) {
	score := Score(r, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax)
	return score, CategoryForScore(score, p.Thresholds)
}
