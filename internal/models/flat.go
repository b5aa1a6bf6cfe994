package models

import (
	"time"

	"github.com/google/uuid"
)

// Flat is a single unit inside a society. OwnerID is nil while the flat
// is unassigned; only users with the OWNER role may hold it.
type Flat struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	SocietyID uuid.UUID  `json:"society_id" db:"society_id"`
	Number    string     `json:"number" db:"number"`
	OwnerID   *uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
