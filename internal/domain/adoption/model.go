package adoption

import (
	"time"

	"github.com/google/uuid"
)

// Adoption maps to the adoptions table. The follow-up engine only reads it;
// adoption CRUD itself lives in the marketplace service.
type Adoption struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	AdopterID    uuid.UUID  `db:"adopter_id" json:"adopter_id"`
	OwnerID      uuid.UUID  `db:"owner_id" json:"owner_id"`
	AnimalID     uuid.UUID  `db:"animal_id" json:"animal_id"`
	Status       string     `db:"status" json:"status"`
	ApprovalDate *time.Time `db:"approval_date" json:"approval_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
