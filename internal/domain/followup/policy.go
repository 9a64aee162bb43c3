package followup

// ScheduleEntry pairs a check-in type with its offset from the adoption's
// approval date.
type ScheduleEntry struct {
	Type       Type
	OffsetDays int
}

// ScoringWeights are the additive weights of the questionnaire risk score.
type ScoringWeights struct {
	AdaptationPoor       float64
	AdaptationConcerning float64
	NotEatingWell        float64
	NotSleepingWell      float64
	BathroomIssues       float64
	NotShowingAffection  float64
	PerBehavioralIssue   float64
	PerHealthConcern     float64
	LowSatisfaction      float64 // applied when satisfaction <= LowSatisfactionMax
	VeryLowSatisfaction  float64 // applied additionally when satisfaction <= VeryLowSatisfactionMax
	NeedsSupport         float64
}

// RiskThresholds are the category cut-offs, evaluated high to low.
type RiskThresholds struct {
	Critical float64
	High     float64
	Medium   float64
}

// Policy is the immutable engine configuration: the schedule table, the
// scoring weights and thresholds, and the escalation and aging windows. It is
// passed in at construction so tests can substitute alternate policies.
type Policy struct {
	Schedule   []ScheduleEntry
	Weights    ScoringWeights
	Thresholds RiskThresholds

	// LowSatisfactionMax / VeryLowSatisfactionMax bound the satisfaction
	// bands; both bands are cumulative.
	LowSatisfactionMax     int
	VeryLowSatisfactionMax int

	// MaxBehavioralIssues is the count above which a supplementary follow-up
	// is required regardless of risk level.
	MaxBehavioralIssues int

	// EscalationFollowUpDelayDays is the offset of the custom follow-up
	// created when a completion requires one.
	EscalationFollowUpDelayDays int

	// OverdueAfterDays is how long past its scheduled date a pending
	// check-in may sit before the sweep ages it to overdue.
	OverdueAfterDays int
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		Schedule: []ScheduleEntry{
			{Type: TypeInitial3Days, OffsetDays: 3},
			{Type: TypeWeek1, OffsetDays: 7},
			{Type: TypeWeek2, OffsetDays: 14},
			{Type: TypeMonth1, OffsetDays: 30},
			{Type: TypeMonth3, OffsetDays: 90},
			{Type: TypeMonth6, OffsetDays: 180},
			{Type: TypeYear1, OffsetDays: 365},
		},
		Weights: ScoringWeights{
			AdaptationPoor:       3,
			AdaptationConcerning: 5,
			NotEatingWell:        2,
			NotSleepingWell:      1,
			BathroomIssues:       2,
			NotShowingAffection:  1,
			PerBehavioralIssue:   1,
			PerHealthConcern:     0.5,
			LowSatisfaction:      3,
			VeryLowSatisfaction:  2,
			NeedsSupport:         1,
		},
		Thresholds: RiskThresholds{
			Critical: 8,
			High:     5,
			Medium:   3,
		},
		LowSatisfactionMax:          5,
		VeryLowSatisfactionMax:      3,
		MaxBehavioralIssues:         2,
		EscalationFollowUpDelayDays: 7,
		OverdueAfterDays:            7,
	}
}
