package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenancy links a TENANT user to a flat. A flat carries at most one
// active tenancy at a time, and so does a tenant.
type Tenancy struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	FlatID     uuid.UUID  `json:"flat_id" db:"flat_id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	RentAmount float64    `json:"rent_amount" db:"rent_amount"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date" db:"end_date"`
	Active     bool       `json:"active" db:"active"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
