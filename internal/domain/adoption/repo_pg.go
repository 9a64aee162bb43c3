package adoption

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const adoptionCols = `id, adopter_id, owner_id, animal_id, status, approval_date, created_at, updated_at`

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Adoption, error) {
	var a Adoption
	err := r.pool.QueryRow(ctx, `SELECT `+adoptionCols+` FROM adoptions WHERE id = $1`, id).
		Scan(&a.ID, &a.AdopterID, &a.OwnerID, &a.AnimalID, &a.Status, &a.ApprovalDate, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) ResolveOrganization(ctx context.Context, adoptionID uuid.UUID) (uuid.UUID, error) {
	// The organization is the account that posted the animal, provided that
	// account is of type 'organization'.
	var orgID uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT u.id
		FROM adoptions a
		JOIN animals an ON an.id = a.animal_id
		JOIN users u ON u.id = an.posted_by
		WHERE a.id = $1 AND u.account_type = 'organization'`,
		adoptionID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNoOrganization
	}
	if err != nil {
		return uuid.Nil, err
	}
	return orgID, nil
}
