package followup

import (
	"context"
	"testing"

	"github.com/adopets/adopets/internal/platform/notification"
)

func TestRunReminderSweep(t *testing.T) {
	env := newTestEnv()
	a := env.addAdoption(true)

	due := env.addPending(a, env.now.AddDate(0, 0, -1))
	future := env.addPending(a, env.now.AddDate(0, 0, 5))

	sent, errs, aged, err := env.svc.RunReminderSweep(context.Background())
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if sent != 1 { t.Errorf("expected 1 reminder, got %d", sent) }
	if errs != 0 { t.Errorf("expected 0 errors, got %d", errs) }
	if aged != 0 { t.Errorf("expected 0 aged, got %d", aged) }

	stored := env.repo.store[due.ID]
	if !stored.ReminderSent { t.Error("reminder flag should be set") }
	if stored.ReminderCount != 1 { t.Errorf("expected count 1, got %d", stored.ReminderCount) }
	if env.repo.store[future.ID].ReminderSent { t.Error("future check-in must not be reminded") }

	reminders := env.notifier.byKind(notification.KindFollowUpReminder)
	if len(reminders) != 1 { t.Fatalf("expected 1 notification, got %d", len(reminders)) }
	if reminders[0].UserID != a.AdopterID { t.Error("reminder should go to the adopter") }
}

func TestRunReminderSweep_Idempotent(t *testing.T) {
	env := newTestEnv()
	a := env.addAdoption(true)
	env.addPending(a, env.now.AddDate(0, 0, -1))

	if _, _, _, err := env.svc.RunReminderSweep(context.Background()); err != nil { t.Fatal(err) }
	sent, _, _, err := env.svc.RunReminderSweep(context.Background())
	if err != nil { t.Fatal(err) }
	if sent != 0 { t.Errorf("second sweep must not re-remind, sent %d", sent) }
	if got := env.notifier.byKind(notification.KindFollowUpReminder); len(got) != 1 {
		t.Errorf("expected exactly 1 notification across sweeps, got %d", len(got))
	}
}

func TestRunReminderSweep_AgesOutOldPending(t *testing.T) {
	env := newTestEnv()
	a := env.addAdoption(true)

	old := env.addPending(a, env.now.AddDate(0, 0, -8))
	recent := env.addPending(a, env.now.AddDate(0, 0, -6))

	_, _, aged, err := env.svc.RunReminderSweep(context.Background())
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if aged != 1 { t.Errorf("expected 1 aged, got %d", aged) }
	if env.repo.store[old.ID].Status != StatusOverdue { t.Error("8-day-old pending should be overdue") }
	if env.repo.store[recent.ID].Status != StatusPending { t.Error("6-day-old pending should stay pending") }
}

func TestRunReminderSweep_FailureIsolation(t *testing.T) {
	env := newTestEnv()
	a := env.addAdoption(true)
	env.notifier.failKind = notification.KindFollowUpReminder

	f := env.addPending(a, env.now.AddDate(0, 0, -1))

	sent, errs, _, err := env.svc.RunReminderSweep(context.Background())
	if err != nil { t.Fatalf("item failures must not fail the sweep: %v", err) }
	if sent != 0 || errs != 1 { t.Errorf("expected 0 sent / 1 error, got %d / %d", sent, errs) }
	if env.repo.store[f.ID].ReminderSent { t.Error("failed reminder must stay unmarked so the next run retries it") }

	// Sink recovers; the next run picks the item up again.
	env.notifier.failKind = ""
	sent, errs, _, err = env.svc.RunReminderSweep(context.Background())
	if err != nil { t.Fatal(err) }
	if sent != 1 || errs != 0 { t.Errorf("expected retry to succeed, got %d / %d", sent, errs) }
}
