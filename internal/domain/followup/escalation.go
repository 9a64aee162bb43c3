package followup

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/adopets/adopets/internal/domain/adoption"
	"github.com/adopets/adopets/internal/platform/notification"
)

// followUpRequired decides whether a completion needs a supplementary
// check-in. Any single trigger suffices.
func (p Policy) followUpRequired(r *CompletionRequest, risk RiskLevel) bool {
	if risk == RiskHigh || risk == RiskCritical {
		return true
	}
	if r.NeedsSupport != nil && *r.NeedsSupport {
		return true
	}
	if r.SatisfactionScore != nil && *r.SatisfactionScore <= p.LowSatisfactionMax {
		return true
	}
	return len(r.BehavioralIssues) > p.MaxBehavioralIssues
}

// escalate runs the post-completion policy: alert the organization on
// high/critical risk, create a supplementary custom check-in when one is
// required, and notify the adopter. Every step is best-effort; a failure is
// logged and never unwinds the completed check-in.
func (s *Service) escalate(ctx context.Context, f *FollowUp, score float64, risk RiskLevel, required bool) {
	if risk == RiskHigh || risk == RiskCritical {
		s.alertOrganization(ctx, f, score, risk)
	}

	if required {
		s.createEscalationFollowUp(ctx, f)
	}
}

func (s *Service) alertOrganization(ctx context.Context, f *FollowUp, score float64, risk RiskLevel) {
	orgID, err := s.adoptions.ResolveOrganization(ctx, f.AdoptionID)
	if errors.Is(err, adoption.ErrNoOrganization) {
		// Private rehoming: there is no organization to alert.
		s.logger.Debug().Str("adoption_id", f.AdoptionID.String()).Msg("no organization to alert")
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("adoption_id", f.AdoptionID.String()).Msg("organization lookup failed")
		return
	}
	if s.notifier == nil {
		return
	}

	ref := f.ID
	err = s.notifier.Notify(ctx, notification.Request{
		UserID:        orgID,
		Kind:          notification.KindRiskAlert,
		Title:         fmt.Sprintf("Adoption check-in flagged %s risk", risk),
		Message:       fmt.Sprintf("A post-adoption check-in scored %.1f (%s risk) and may need your attention.", score, risk),
		ReferenceID:   &ref,
		ReferenceType: "follow_up",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("follow_up_id", f.ID.String()).Msg("risk alert failed")
	}
}

// createEscalationFollowUp adds a supplementary custom check-in a week out so
// the situation is revisited soon rather than at the next scheduled milestone.
func (s *Service) createEscalationFollowUp(ctx context.Context, f *FollowUp) {
	extra := &FollowUp{
		ID:            uuid.New(),
		AdoptionID:    f.AdoptionID,
		AdopterID:     f.AdopterID,
		Type:          TypeCustom,
		Status:        StatusPending,
		ScheduledDate: s.now().AddDate(0, 0, s.policy.EscalationFollowUpDelayDays),
	}
	if err := s.repo.Create(ctx, extra); err != nil {
		s.logger.Error().Err(err).Str("adoption_id", f.AdoptionID.String()).Msg("failed to create escalation follow-up")
		return
	}

	s.logger.Info().
		Str("adoption_id", f.AdoptionID.String()).
		Str("follow_up_id", extra.ID.String()).
		Time("scheduled_date", extra.ScheduledDate).
		Msg("escalation follow-up created")

	if s.notifier == nil {
		return
	}
	ref := extra.ID
	err := s.notifier.Notify(ctx, notification.Request{
		UserID:        f.AdopterID,
		Kind:          notification.KindFollowUpScheduled,
		Title:         "We scheduled an extra check-in",
		Message:       "Based on your last check-in we added a follow-up so we can make sure things are improving.",
		ReferenceID:   &ref,
		ReferenceType: "follow_up",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("follow_up_id", extra.ID.String()).Msg("escalation notification failed")
	}
}
