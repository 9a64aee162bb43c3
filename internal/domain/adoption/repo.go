package adoption

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Errors returned by adoption lookups.
var (
	ErrNotFound       = errors.New("adoption not found")
	ErrNoOrganization = errors.New("adoption has no associated organization")
)

// Repository is the read-only view of adoptions the follow-up engine consumes.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Adoption, error)

	// ResolveOrganization walks adoption -> animal -> posting organization
	// account and returns the organization's user ID. Returns
	// ErrNoOrganization when the animal was posted by a regular user rather
	// than an organization, or the chain is broken.
	ResolveOrganization(ctx context.Context, adoptionID uuid.UUID) (uuid.UUID, error)
}
