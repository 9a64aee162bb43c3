package followup

import (
	"context"
	"fmt"

	"github.com/adopets/adopets/internal/platform/notification"
)

// RunReminderSweep is the daily maintenance pass. It first reminds adopters
// of every pending check-in whose scheduled date has arrived, then ages out
// pending check-ins that sat past their scheduled date longer than the policy
// window.
//
// Reminder failures are isolated per item: one broken notification never
// stops the rest of the sweep. The reminder flag is only set once the
// notification was actually handed to the sink, so a failed item is retried
// on the next run.
func (s *Service) RunReminderSweep(ctx context.Context) (sent, errs, aged int, err error) {
	now := s.now()

	due, err := s.repo.ListDueReminders(ctx, now)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("list due reminders: %w", err)
	}

	for _, f := range due {
		if err := s.sendReminder(ctx, f); err != nil {
			errs++
			s.logger.Warn().Err(err).Str("follow_up_id", f.ID.String()).Msg("reminder failed")
			continue
		}
		sent++
	}

	cutoff := now.AddDate(0, 0, -s.policy.OverdueAfterDays)
	n, err := s.repo.AgeOutPending(ctx, cutoff)
	if err != nil {
		return sent, errs, 0, fmt.Errorf("age out pending: %w", err)
	}
	aged = int(n)

	s.logger.Info().
		Int("reminders_sent", sent).
		Int("reminder_errors", errs).
		Int("aged_out", aged).
		Msg("reminder sweep finished")

	return sent, errs, aged, nil
}

func (s *Service) sendReminder(ctx context.Context, f *FollowUp) error {
	if s.notifier != nil {
		ref := f.ID
		err := s.notifier.Notify(ctx, notification.Request{
			UserID:        f.AdopterID,
			Kind:          notification.KindFollowUpReminder,
			Title:         "Time for a post-adoption check-in",
			Message:       "How is your new companion settling in? Take a minute to complete your check-in.",
			ReferenceID:   &ref,
			ReferenceType: "follow_up",
		})
		if err != nil {
			return err
		}
	}

	marked, err := s.repo.MarkReminderSent(ctx, f.ID, s.now())
	if err != nil {
		return err
	}
	if !marked {
		// Another sweep already claimed this item; nothing more to do.
		s.logger.Debug().Str("follow_up_id", f.ID.String()).Msg("reminder already marked")
	}
	return nil
}
