package followup

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adopets/adopets/internal/platform/notification"
)

// ScheduleResult reports what GenerateSchedule managed to create. Creation is
// per-entry: a failure on one entry does not roll back the others, so Failed
// carries the types that could not be persisted.
type ScheduleResult struct {
	Created []*FollowUp `json:"created"`
	Failed  []Type      `json:"failed,omitempty"`
}

// GenerateSchedule creates the standard check-in timeline for an adoption,
// anchored at its approval date. When the adoption has no approval date yet
// the current time is used as the anchor.
//
// The operation is idempotent per adoption: if any follow-ups already exist
// for it, ErrScheduleExists is returned and nothing is created.
func (s *Service) GenerateSchedule(ctx context.Context, adoptionID uuid.UUID) (*ScheduleResult, error) {
	a, err := s.adoptions.GetByID(ctx, adoptionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.CountByAdoption(ctx, adoptionID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrScheduleExists
	}

	anchor := s.now()
	if a.ApprovalDate != nil {
		anchor = *a.ApprovalDate
	}

	result := &ScheduleResult{}
	for _, entry := range s.policy.Schedule {
		f := &FollowUp{
			ID:            uuid.New(),
			AdoptionID:    adoptionID,
			AdopterID:     a.AdopterID,
			Type:          entry.Type,
			Status:        StatusPending,
			ScheduledDate: anchor.AddDate(0, 0, entry.OffsetDays),
		}
		if err := s.repo.Create(ctx, f); err != nil {
			s.logger.Error().Err(err).
				Str("adoption_id", adoptionID.String()).
				Str("follow_up_type", string(entry.Type)).
				Msg("failed to create scheduled follow-up")
			result.Failed = append(result.Failed, entry.Type)
			continue
		}
		result.Created = append(result.Created, f)
	}

	s.logger.Info().
		Str("adoption_id", adoptionID.String()).
		Int("created", len(result.Created)).
		Int("failed", len(result.Failed)).
		Msg("follow-up schedule generated")

	s.notifyScheduleCreated(ctx, a.AdopterID, adoptionID, len(result.Created))

	return result, nil
}

// notifyScheduleCreated tells the adopter their check-in timeline exists.
// Best-effort: a notification failure never fails the schedule.
func (s *Service) notifyScheduleCreated(ctx context.Context, adopterID, adoptionID uuid.UUID, count int) {
	if s.notifier == nil || count == 0 {
		return
	}
	ref := adoptionID
	err := s.notifier.Notify(ctx, notification.Request{
		UserID:        adopterID,
		Kind:          notification.KindFollowUpScheduled,
		Title:         "Your post-adoption check-ins are scheduled",
		Message:       fmt.Sprintf("We scheduled %d check-ins to see how your new companion is settling in.", count),
		ReferenceID:   &ref,
		ReferenceType: "adoption",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("adoption_id", adoptionID.String()).Msg("schedule notification failed")
	}
}
