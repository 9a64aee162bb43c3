package followup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adopets/adopets/internal/domain/adoption"
	"github.com/adopets/adopets/internal/platform/notification"
)

// CompletionResult is what a successful completion hands back to the caller:
// the updated check-in plus the derived score and advice.
type CompletionResult struct {
	FollowUp        *FollowUp `json:"follow_up"`
	RiskScore       float64   `json:"risk_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Recommendations []string  `json:"recommendations"`
}

type Service struct {
	repo      Repository
	adoptions adoption.Repository
	notifier  notification.Notifier
	policy    Policy
	logger    zerolog.Logger

	// now is swapped out in tests.
	now func() time.Time
}

func NewService(repo Repository, adoptions adoption.Repository, notifier notification.Notifier, policy Policy, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		adoptions: adoptions,
		notifier:  notifier,
		policy:    policy,
		logger:    logger.With().Str("component", "followup").Logger(),
		now:       time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAdoption(ctx context.Context, adoptionID uuid.UUID, limit, offset int) ([]*FollowUp, int, error) {
	return s.repo.ListByAdoption(ctx, adoptionID, limit, offset)
}

func (s *Service) ListByAdopter(ctx context.Context, adopterID uuid.UUID, status Status, limit, offset int) ([]*FollowUp, int, error) {
	return s.repo.ListByAdopter(ctx, adopterID, status, limit, offset)
}

// ListUpcoming returns the adopter's next pending check-ins from now on.
func (s *Service) ListUpcoming(ctx context.Context, adopterID uuid.UUID, limit int) ([]*FollowUp, error) {
	return s.repo.ListUpcoming(ctx, adopterID, s.now(), limit)
}

// Complete runs the full completion lifecycle: validate the questionnaire,
// authorize the actor, guard the transition, derive score and category, and
// persist everything in one conditional update. Escalation happens after the
// write and is best-effort.
//
// Overdue check-ins are completable; late answers are still valuable.
func (s *Service) Complete(ctx context.Context, id, actorID uuid.UUID, req *CompletionRequest) (*CompletionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.AdopterID != actorID {
		return nil, ErrUnauthorized
	}
	if f.Status == StatusCompleted || f.Status == StatusSkipped {
		return nil, ErrAlreadyCompleted
	}

	req.apply(f)

	score, risk := s.policy.scoreAnswers(req)
	required := s.policy.followUpRequired(req, risk)
	now := s.now()

	f.RiskLevel = &risk
	f.FollowUpRequired = &required
	f.CompletedDate = &now
	f.Status = StatusCompleted

	updated, err := s.repo.UpdateCompletion(ctx, f)
	if err != nil {
		return nil, err
	}
	if !updated {
		// A concurrent completion or skip won the conditional update.
		return nil, ErrAlreadyCompleted
	}

	s.logger.Info().
		Str("follow_up_id", f.ID.String()).
		Str("adoption_id", f.AdoptionID.String()).
		Float64("risk_score", score).
		Str("risk_level", string(risk)).
		Bool("follow_up_required", required).
		Msg("follow-up completed")

	s.escalate(ctx, f, score, risk, required)

	return &CompletionResult{
		FollowUp:        f,
		RiskScore:       score,
		RiskLevel:       risk,
		Recommendations: Recommendations(req, risk),
	}, nil
}

// Skip marks a check-in skipped. Skipping is terminal: a skipped check-in can
// no longer be completed.
func (s *Service) Skip(ctx context.Context, id, actorID uuid.UUID) (*FollowUp, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.AdopterID != actorID {
		return nil, ErrUnauthorized
	}
	if f.Status == StatusCompleted || f.Status == StatusSkipped {
		return nil, ErrAlreadyCompleted
	}

	updated, err := s.repo.UpdateSkip(ctx, id)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyCompleted
	}

	f.Status = StatusSkipped
	s.logger.Info().Str("follow_up_id", id.String()).Msg("follow-up skipped")
	return f, nil
}
