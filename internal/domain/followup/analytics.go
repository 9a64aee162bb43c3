package followup

import "context"

// Stats is the analytics rollup served on the dashboard endpoint.
type Stats struct {
	Total               int               `json:"total"`
	ByStatus            map[Status]int    `json:"by_status"`
	CompletionRate      float64           `json:"completion_rate"`
	AverageSatisfaction float64           `json:"average_satisfaction"`
	RiskDistribution    map[RiskLevel]int `json:"risk_distribution"`
}

// Stats aggregates the overall follow-up counters. The completion rate only
// counts check-ins that reached a terminal or overdue state; pending ones are
// not failures yet and would skew the rate downward.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	dist, err := s.repo.RiskDistribution(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.repo.AverageSatisfaction(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	resolved := counts[StatusCompleted] + counts[StatusSkipped] + counts[StatusOverdue]
	rate := 0.0
	if resolved > 0 {
		rate = float64(counts[StatusCompleted]) / float64(resolved)
	}

	return &Stats{
		Total:               total,
		ByStatus:            counts,
		CompletionRate:      rate,
		AverageSatisfaction: avg,
		RiskDistribution:    dist,
	}, nil
}

// MonthlyTrend returns per-month completion counts and average satisfaction
// for the trailing window.
func (s *Service) MonthlyTrend(ctx context.Context, months int) ([]MonthlyTrendPoint, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	return s.repo.MonthlyTrend(ctx, months)
}
