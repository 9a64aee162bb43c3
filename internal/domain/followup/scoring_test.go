package followup

import "testing"

func TestScore_Healthy(t *testing.T) {
	p := DefaultPolicy()
	score := Score(healthyAnswers(), p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax)
	if score != 0 { t.Errorf("expected 0, got %v", score) }
}

func TestScore_Struggling(t *testing.T) {
	// concerning 5 + not eating 2 + not sleeping 1 + bathroom 2 +
	// 1 behavioral issue 1 + needs support 1 = 12
	p := DefaultPolicy()
	score := Score(strugglingAnswers(), p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax)
	if score != 12 { t.Errorf("expected 12, got %v", score) }
	if CategoryForScore(score, p.Thresholds) != RiskCritical { t.Error("expected critical") }
}

func TestScore_ModerateConcern(t *testing.T) {
	// poor 3 + not showing affection 1 + 1 behavioral issue 1 = 5
	p := DefaultPolicy()
	req := healthyAnswers()
	req.AdaptationLevel = AdaptationPoor
	req.ShowingAffection = boolPtr(false)
	req.BehavioralIssues = []string{"hiding under furniture"}
	score := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax)
	if score != 5 { t.Errorf("expected 5, got %v", score) }
	if CategoryForScore(score, p.Thresholds) != RiskHigh { t.Error("expected high") }
}

func TestScore_HealthConcernsFractional(t *testing.T) {
	p := DefaultPolicy()
	req := healthyAnswers()
	req.HealthConcerns = []string{"limping", "ear infection", "dull coat"}
	score := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax)
	if score != 1.5 { t.Errorf("expected 1.5, got %v", score) }
}

func TestScore_SatisfactionBandsCumulative(t *testing.T) {
	p := DefaultPolicy()

	req := healthyAnswers()
	req.SatisfactionScore = intPtr(5)
	if got := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax); got != 3 {
		t.Errorf("satisfaction 5: expected 3, got %v", got)
	}

	req.SatisfactionScore = intPtr(3)
	if got := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax); got != 5 {
		t.Errorf("satisfaction 3: expected 5 (both bands), got %v", got)
	}

	req.SatisfactionScore = intPtr(6)
	if got := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax); got != 0 {
		t.Errorf("satisfaction 6: expected 0, got %v", got)
	}
}

func TestScore_Pure(t *testing.T) {
	p := DefaultPolicy()
	req := strugglingAnswers()
	first := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax)
	for i := 0; i < 10; i++ {
		if got := Score(req, p.Weights, p.LowSatisfactionMax, p.VeryLowSatisfactionMax); got != first {
			t.Fatalf("score changed between calls: %v then %v", first, got)
		}
	}
}

func TestCategoryForScore_Boundaries(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{2.5, RiskLow},
		{3, RiskMedium},
		{4.5, RiskMedium},
		{5, RiskHigh},
		{7.5, RiskHigh},
		{8, RiskCritical},
		{20, RiskCritical},
	}
	for _, tc := range cases {
		if got := CategoryForScore(tc.score, p.Thresholds); got != tc.want {
			t.Errorf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}
