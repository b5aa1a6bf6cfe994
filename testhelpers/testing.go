package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"societyhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Bcrypt digest of "password"; repository tests never verify credentials,
// they just need a non-null hash column.
const seedPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B4S0eVb1aE5zVQe3u5mDGktb6DZa"

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=societyhub_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestSociety creates a test society for testing
func SetupTestSociety(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	societyID := uuid.New()
	query := `
		INSERT INTO societies (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	name := fmt.Sprintf("Test Society %s", societyID.String()[:8])
	_, err := db.Pool.Exec(context.Background(), query, societyID, name, "12 Test Lane", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test society: %v", err)
	}

	return societyID
}

// SetupTestOwner creates a test owner account for testing
func SetupTestOwner(t *testing.T, db *TestDB) *models.User {
	t.Helper()

	owner := &models.User{
		ID:           uuid.New(),
		FirstName:    "Test",
		LastName:     "Owner",
		Role:         models.RoleOwner,
		Active:       true,
		PasswordHash: seedPasswordHash,
	}
	owner.Email = fmt.Sprintf("owner-%s@example.com", owner.ID.String()[:8])

	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		owner.ID, owner.Email, owner.PasswordHash, owner.FirstName, owner.LastName,
		owner.Phone, owner.Role, owner.Active, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test owner: %v", err)
	}

	return owner
}

// SetupTestFlat creates a test flat for testing
func SetupTestFlat(t *testing.T, db *TestDB, societyID uuid.UUID, ownerID *uuid.UUID) *models.Flat {
	t.Helper()

	flat := &models.Flat{
		ID:        uuid.New(),
		SocietyID: societyID,
		OwnerID:   ownerID,
	}
	flat.Number = fmt.Sprintf("T-%s", flat.ID.String()[:4])

	query := `
		INSERT INTO flats (id, society_id, number, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := db.Pool.Exec(context.Background(), query, flat.ID, flat.SocietyID, flat.Number, flat.OwnerID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test flat: %v", err)
	}

	return flat
}

// SetupTestBill creates an unpaid maintenance bill for testing
func SetupTestBill(t *testing.T, db *TestDB, flatID uuid.UUID, month string, year int, amount float64) *models.MaintenanceBill {
	t.Helper()

	bill := &models.MaintenanceBill{
		ID:     uuid.New(),
		FlatID: flatID,
		Month:  month,
		Year:   year,
		Amount: amount,
		Status: models.BillStatusUnpaid,
	}

	query := `
		INSERT INTO maintenance_bills (id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err := db.Pool.Exec(context.Background(), query,
		bill.ID, bill.FlatID, bill.Month, bill.Year, bill.Amount, bill.Status, bill.ReceiptObject, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test bill: %v", err)
	}

	return bill
}
