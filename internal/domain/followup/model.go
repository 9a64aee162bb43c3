package followup

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies where a check-in sits in the post-adoption timeline.
type Type string

const (
	TypeInitial3Days Type = "initial_3_days"
	TypeWeek1        Type = "week_1"
	TypeWeek2        Type = "week_2"
	TypeMonth1       Type = "month_1"
	TypeMonth3       Type = "month_3"
	TypeMonth6       Type = "month_6"
	TypeYear1        Type = "year_1"
	TypeCustom       Type = "custom"
)

// Status is the lifecycle state of a check-in.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusOverdue   Status = "overdue"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped, StatusOverdue:
		return true
	}
	return false
}

// RiskLevel is the category derived from the questionnaire score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AdaptationLevel is the adopter-reported rating of how the animal is
// settling in.
type AdaptationLevel string

const (
	AdaptationExcellent  AdaptationLevel = "excellent"
	AdaptationGood       AdaptationLevel = "good"
	AdaptationFair       AdaptationLevel = "fair"
	AdaptationPoor       AdaptationLevel = "poor"
	AdaptationConcerning AdaptationLevel = "concerning"
)

// IsValid reports whether a is a known adaptation level.
func (a AdaptationLevel) IsValid() bool {
	switch a {
	case AdaptationExcellent, AdaptationGood, AdaptationFair, AdaptationPoor, AdaptationConcerning:
		return true
	}
	return false
}

// FollowUp maps to the follow_ups table: one scheduled post-adoption check-in.
//
// Questionnaire fields stay nil until the check-in is completed. The derived
// fields (RiskLevel, FollowUpRequired) and CompletedDate are written together,
// exactly once, at the pending/overdue -> completed transition and are
// immutable afterwards.
type FollowUp struct {
	ID         uuid.UUID `db:"id" json:"id"`
	AdoptionID uuid.UUID `db:"adoption_id" json:"adoption_id"`
	AdopterID  uuid.UUID `db:"adopter_id" json:"adopter_id"`
	Type       Type      `db:"follow_up_type" json:"follow_up_type"`
	Status     Status    `db:"status" json:"status"`

	ScheduledDate time.Time  `db:"scheduled_date" json:"scheduled_date"`
	CompletedDate *time.Time `db:"completed_date" json:"completed_date,omitempty"`

	AdaptationLevel       *AdaptationLevel `db:"adaptation_level" json:"adaptation_level,omitempty"`
	EatingWell            *bool            `db:"eating_well" json:"eating_well,omitempty"`
	SleepingWell          *bool            `db:"sleeping_well" json:"sleeping_well,omitempty"`
	UsingBathroomProperly *bool            `db:"using_bathroom_properly" json:"using_bathroom_properly,omitempty"`
	ShowingAffection      *bool            `db:"showing_affection" json:"showing_affection,omitempty"`
	BehavioralIssues      []string         `db:"behavioral_issues" json:"behavioral_issues,omitempty"`
	HealthConcerns        []string         `db:"health_concerns" json:"health_concerns,omitempty"`
	VetVisitScheduled     *bool            `db:"vet_visit_scheduled" json:"vet_visit_scheduled,omitempty"`
	VetVisitDate          *time.Time       `db:"vet_visit_date" json:"vet_visit_date,omitempty"`
	SatisfactionScore     *int             `db:"satisfaction_score" json:"satisfaction_score,omitempty"`
	WouldRecommend        *bool            `db:"would_recommend" json:"would_recommend,omitempty"`
	AdditionalComments    *string          `db:"additional_comments" json:"additional_comments,omitempty"`
	NeedsSupport          *bool            `db:"needs_support" json:"needs_support,omitempty"`
	SupportType           []string         `db:"support_type" json:"support_type,omitempty"`

	RiskLevel        *RiskLevel `db:"risk_level" json:"risk_level,omitempty"`
	FollowUpRequired *bool      `db:"follow_up_required" json:"follow_up_required,omitempty"`

	ReminderSent     bool       `db:"reminder_sent" json:"reminder_sent"`
	ReminderCount    int        `db:"reminder_count" json:"reminder_count"`
	LastReminderDate *time.Time `db:"last_reminder_date" json:"last_reminder_date,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// maxCommentLength bounds the free-text comment field.
const maxCommentLength = 1000

// CompletionRequest is the questionnaire payload submitted when an adopter
// completes a check-in. Required booleans are pointers so that an absent field
// is distinguishable from an explicit false.
type CompletionRequest struct {
	AdaptationLevel       AdaptationLevel `json:"adaptation_level"`
	EatingWell            *bool           `json:"eating_well"`
	SleepingWell          *bool           `json:"sleeping_well"`
	UsingBathroomProperly *bool           `json:"using_bathroom_properly"`
	ShowingAffection      *bool           `json:"showing_affection"`
	BehavioralIssues      []string        `json:"behavioral_issues"`
	HealthConcerns        []string        `json:"health_concerns"`
	VetVisitScheduled     *bool           `json:"vet_visit_scheduled"`
	VetVisitDate          string          `json:"vet_visit_date"`
	SatisfactionScore     *int            `json:"satisfaction_score"`
	WouldRecommend        *bool           `json:"would_recommend"`
	AdditionalComments    string          `json:"additional_comments"`
	NeedsSupport          *bool           `json:"needs_support"`
	SupportType           []string        `json:"support_type"`
}

// Validate checks the payload before any mutation happens. It returns a
// *ValidationError naming the offending field.
func (r *CompletionRequest) Validate() error {
	if r.AdaptationLevel == "" {
		return &ValidationError{Field: "adaptation_level", Message: "is required"}
	}
	if !r.AdaptationLevel.IsValid() {
		return &ValidationError{Field: "adaptation_level", Message: fmt.Sprintf("unknown value %q", r.AdaptationLevel)}
	}
	if r.EatingWell == nil {
		return &ValidationError{Field: "eating_well", Message: "is required"}
	}
	if r.SleepingWell == nil {
		return &ValidationError{Field: "sleeping_well", Message: "is required"}
	}
	if r.UsingBathroomProperly == nil {
		return &ValidationError{Field: "using_bathroom_properly", Message: "is required"}
	}
	if r.ShowingAffection == nil {
		return &ValidationError{Field: "showing_affection", Message: "is required"}
	}
	if r.VetVisitScheduled == nil {
		return &ValidationError{Field: "vet_visit_scheduled", Message: "is required"}
	}
	if r.VetVisitDate != "" {
		if _, err := time.Parse("2006-01-02", r.VetVisitDate); err != nil {
			return &ValidationError{Field: "vet_visit_date", Message: "must be a date in YYYY-MM-DD format"}
		}
	}
	if r.SatisfactionScore == nil {
		return &ValidationError{Field: "satisfaction_score", Message: "is required"}
	}
	if *r.SatisfactionScore < 1 || *r.SatisfactionScore > 10 {
		return &ValidationError{Field: "satisfaction_score", Message: "must be between 1 and 10"}
	}
	if r.WouldRecommend == nil {
		return &ValidationError{Field: "would_recommend", Message: "is required"}
	}
	if len(r.AdditionalComments) > maxCommentLength {
		return &ValidationError{Field: "additional_comments", Message: fmt.Sprintf("must be at most %d characters", maxCommentLength)}
	}
	if r.NeedsSupport == nil {
		return &ValidationError{Field: "needs_support", Message: "is required"}
	}
	return nil
}

// vetVisitDate returns the parsed optional vet visit date. Validate must have
// been called first.
func (r *CompletionRequest) vetVisitDate() *time.Time {
	if r.VetVisitDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.VetVisitDate)
	if err != nil {
		return nil
	}
	return &t
}

// apply copies the questionnaire answers onto the entity.
func (r *CompletionRequest) apply(f *FollowUp) {
	level := r.AdaptationLevel
	f.AdaptationLevel = &level
	f.EatingWell = r.EatingWell
	f.SleepingWell = r.SleepingWell
	f.UsingBathroomProperly = r.UsingBathroomProperly
	f.ShowingAffection = r.ShowingAffection
	f.BehavioralIssues = r.BehavioralIssues
	f.HealthConcerns = r.HealthConcerns
	f.VetVisitScheduled = r.VetVisitScheduled
	f.VetVisitDate = r.vetVisitDate()
	f.SatisfactionScore = r.SatisfactionScore
	f.WouldRecommend = r.WouldRecommend
	if r.AdditionalComments != "" {
		comments := r.AdditionalComments
		f.AdditionalComments = &comments
	}
	f.NeedsSupport = r.NeedsSupport
	f.SupportType = r.SupportType
}
