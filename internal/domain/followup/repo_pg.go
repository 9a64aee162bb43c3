package followup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const followUpCols = `id, adoption_id, adopter_id, follow_up_type, status,
	scheduled_date, completed_date,
	adaptation_level, eating_well, sleeping_well, using_bathroom_properly, showing_affection,
	behavioral_issues, health_concerns, vet_visit_scheduled, vet_visit_date,
	satisfaction_score, would_recommend, additional_comments, needs_support, support_type,
	risk_level, follow_up_required,
	reminder_sent, reminder_count, last_reminder_date,
	created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*FollowUp, error) {
	var f FollowUp
	err := row.Scan(&f.ID, &f.AdoptionID, &f.AdopterID, &f.Type, &f.Status,
		&f.ScheduledDate, &f.CompletedDate,
		&f.AdaptationLevel, &f.EatingWell, &f.SleepingWell, &f.UsingBathroomProperly, &f.ShowingAffection,
		&f.BehavioralIssues, &f.HealthConcerns, &f.VetVisitScheduled, &f.VetVisitDate,
		&f.SatisfactionScore, &f.WouldRecommend, &f.AdditionalComments, &f.NeedsSupport, &f.SupportType,
		&f.RiskLevel, &f.FollowUpRequired,
		&f.ReminderSent, &f.ReminderCount, &f.LastReminderDate,
		&f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

func (r *repoPG) Create(ctx context.Context, f *FollowUp) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO follow_ups (id, adoption_id, adopter_id, follow_up_type, status, scheduled_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		f.ID, f.AdoptionID, f.AdopterID, f.Type, f.Status, f.ScheduledDate)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*FollowUp, error) {
	f, err := r.scan(r.pool.QueryRow(ctx, `SELECT `+followUpCols+` FROM follow_ups WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repoPG) CountByAdoption(ctx context.Context, adoptionID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follow_ups WHERE adoption_id = $1`, adoptionID).Scan(&n)
	return n, err
}

func (r *repoPG) ListByAdoption(ctx context.Context, adoptionID uuid.UUID, limit, offset int) ([]*FollowUp, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follow_ups WHERE adoption_id = $1`, adoptionID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+followUpCols+` FROM follow_ups
		WHERE adoption_id = $1 ORDER BY scheduled_date ASC LIMIT $2 OFFSET $3`,
		adoptionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByAdopter(ctx context.Context, adopterID uuid.UUID, status Status, limit, offset int) ([]*FollowUp, int, error) {
	query := `SELECT ` + followUpCols + ` FROM follow_ups WHERE adopter_id = $1`
	countQuery := `SELECT COUNT(*) FROM follow_ups WHERE adopter_id = $1`
	args := []interface{}{adopterID}
	idx := 2

	if status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, status)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY scheduled_date ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListUpcoming(ctx context.Context, adopterID uuid.UUID, from time.Time, limit int) ([]*FollowUp, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+followUpCols+` FROM follow_ups
		WHERE adopter_id = $1 AND status = 'pending' AND scheduled_date >= $2
		ORDER BY scheduled_date ASC LIMIT $3`,
		adopterID, from, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) UpdateCompletion(ctx context.Context, f *FollowUp) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE follow_ups SET
			status = 'completed',
			completed_date = $2,
			adaptation_level = $3,
			eating_well = $4,
			sleeping_well = $5,
			using_bathroom_properly = $6,
			showing_affection = $7,
			behavioral_issues = $8,
			health_concerns = $9,
			vet_visit_scheduled = $10,
			vet_visit_date = $11,
			satisfaction_score = $12,
			would_recommend = $13,
			additional_comments = $14,
			needs_support = $15,
			support_type = $16,
			risk_level = $17,
			follow_up_required = $18,
			updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'skipped')`,
		f.ID, f.CompletedDate,
		f.AdaptationLevel, f.EatingWell, f.SleepingWell, f.UsingBathroomProperly, f.ShowingAffection,
		f.BehavioralIssues, f.HealthConcerns, f.VetVisitScheduled, f.VetVisitDate,
		f.SatisfactionScore, f.WouldRecommend, f.AdditionalComments, f.NeedsSupport, f.SupportType,
		f.RiskLevel, f.FollowUpRequired)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) UpdateSkip(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE follow_ups SET status = 'skipped', updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'skipped')`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) ListDueReminders(ctx context.Context, now time.Time) ([]*FollowUp, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+followUpCols+` FROM follow_ups
		WHERE status = 'pending' AND reminder_sent = FALSE AND scheduled_date <= $1
		ORDER BY scheduled_date ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE follow_ups SET
			reminder_sent = TRUE,
			reminder_count = reminder_count + 1,
			last_reminder_date = $2,
			updated_at = NOW()
		WHERE id = $1 AND reminder_sent = FALSE`, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) AgeOutPending(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE follow_ups SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND scheduled_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) StatusCounts(ctx context.Context) (map[Status]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM follow_ups GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[Status]int)
	for rows.Next() {
		var s Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

func (r *repoPG) RiskDistribution(ctx context.Context) (map[RiskLevel]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT risk_level, COUNT(*) FROM follow_ups
		WHERE status = 'completed' AND risk_level IS NOT NULL
		GROUP BY risk_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dist := make(map[RiskLevel]int)
	for rows.Next() {
		var l RiskLevel
		var n int
		if err := rows.Scan(&l, &n); err != nil {
			return nil, err
		}
		dist[l] = n
	}
	return dist, rows.Err()
}

func (r *repoPG) AverageSatisfaction(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx, `
		SELECT AVG(satisfaction_score) FROM follow_ups
		WHERE status = 'completed' AND satisfaction_score IS NOT NULL`).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *repoPG) MonthlyTrend(ctx context.Context, months int) ([]MonthlyTrendPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(completed_date, 'YYYY-MM') AS month,
			COUNT(*),
			COALESCE(AVG(satisfaction_score), 0)
		FROM follow_ups
		WHERE status = 'completed'
			AND completed_date >= date_trunc('month', NOW()) - make_interval(months => $1 - 1)
		GROUP BY month
		ORDER BY month ASC`, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []MonthlyTrendPoint
	for rows.Next() {
		var p MonthlyTrendPoint
		if err := rows.Scan(&p.Month, &p.Completed, &p.AvgSatisfaction); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *repoPG) collect(rows pgx.Rows) ([]*FollowUp, error) {
	var items []*FollowUp
	for rows.Next() {
		f, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
