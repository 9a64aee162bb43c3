package followup

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MonthlyTrendPoint is one month of completion activity.
type MonthlyTrendPoint struct {
	Month           string  `json:"month"` // YYYY-MM
	Completed       int     `json:"completed"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
}

// Repository is the persistence contract of the follow-up engine.
//
// The mutating calls that guard lifecycle transitions (UpdateCompletion,
// UpdateSkip, MarkReminderSent, AgeOutPending) are conditional updates: the
// guard is part of the statement's predicate and the return value reports
// whether a row actually changed. The engine relies on this instead of
// check-then-set so concurrent writers cannot both win.
type Repository interface {
	Create(ctx context.Context, f *FollowUp) error
	GetByID(ctx context.Context, id uuid.UUID) (*FollowUp, error)
	CountByAdoption(ctx context.Context, adoptionID uuid.UUID) (int, error)
	ListByAdoption(ctx context.Context, adoptionID uuid.UUID, limit, offset int) ([]*FollowUp, int, error)
	ListByAdopter(ctx context.Context, adopterID uuid.UUID, status Status, limit, offset int) ([]*FollowUp, int, error)
	ListUpcoming(ctx context.Context, adopterID uuid.UUID, from time.Time, limit int) ([]*FollowUp, error)

	// UpdateCompletion persists the answers, derived fields, completed date
	// and status of f, provided the stored row is still completable
	// (pending or overdue). Returns false when a concurrent writer got
	// there first.
	UpdateCompletion(ctx context.Context, f *FollowUp) (bool, error)

	// UpdateSkip marks the follow-up skipped under the same guard.
	UpdateSkip(ctx context.Context, id uuid.UUID) (bool, error)

	// ListDueReminders returns pending follow-ups whose scheduled date has
	// passed and that have not been reminded yet.
	ListDueReminders(ctx context.Context, now time.Time) ([]*FollowUp, error)

	// MarkReminderSent flips the reminder flag and bumps the counter,
	// conditional on the flag still being unset. Returns false if another
	// sweep already claimed the item.
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// AgeOutPending bulk-transitions pending follow-ups scheduled before
	// cutoff to overdue and returns the number of rows aged.
	AgeOutPending(ctx context.Context, cutoff time.Time) (int64, error)

	// Aggregations for the analytics rollups.
	StatusCounts(ctx context.Context) (map[Status]int, error)
	RiskDistribution(ctx context.Context) (map[RiskLevel]int, error)
	AverageSatisfaction(ctx context.Context) (float64, error)
	MonthlyTrend(ctx context.Context, months int) ([]MonthlyTrendPoint, error)
}
