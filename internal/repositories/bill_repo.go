package repositories

import (
	"context"
	"fmt"

	"societyhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BillRepository interface {
	Create(ctx context.Context, bill *models.MaintenanceBill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error)
	GetByFlatPeriod(ctx context.Context, flatID uuid.UUID, month string, year int) (*models.MaintenanceBill, error)
	Update(ctx context.Context, bill *models.MaintenanceBill) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.BillStatus) error
	SetReceiptObject(ctx context.Context, id uuid.UUID, object string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.MaintenanceBill, error)
	ListByFlat(ctx context.Context, flatID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error)
	ListByStatus(ctx context.Context, status models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error)
	ListRecentByStatus(ctx context.Context, status models.BillStatus, limit int) ([]*models.MaintenanceBill, error)
	ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.MaintenanceBill, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.BillStatus) (int, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status models.BillStatus) (int, error)
}

type billRepo struct {
	db Database
}

func NewBillRepo(db Database) BillRepository {
	return &billRepo{db: db}
}

const selectBillColumns = `id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at`

func (r *billRepo) Create(ctx context.Context, bill *models.MaintenanceBill) error {
	// Check period uniqueness for the flat before insertion
	var count int
	periodCheckQuery := `SELECT COUNT(*) FROM maintenance_bills WHERE flat_id = $1 AND month = $2 AND year = $3`
	err := r.db.QueryRow(ctx, periodCheckQuery, bill.FlatID, bill.Month, bill.Year).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check bill period uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("bill for %s %d already exists for this flat", bill.Month, bill.Year)
	}

	query := `
		INSERT INTO maintenance_bills (id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, bill.ID, bill.FlatID, bill.Month, bill.Year, bill.Amount, bill.Status, bill.ReceiptObject)
	return err
}

func (r *billRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error) {
	bill := &models.MaintenanceBill{}
	query := `SELECT ` + selectBillColumns + ` FROM maintenance_bills WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&bill.ID, &bill.FlatID, &bill.Month, &bill.Year, &bill.Amount, &bill.Status, &bill.ReceiptObject, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *billRepo) GetByFlatPeriod(ctx context.Context, flatID uuid.UUID, month string, year int) (*models.MaintenanceBill, error) {
	bill := &models.MaintenanceBill{}
	query := `SELECT ` + selectBillColumns + ` FROM maintenance_bills WHERE flat_id = $1 AND month = $2 AND year = $3`
	err := r.db.QueryRow(ctx, query, flatID, month, year).Scan(&bill.ID, &bill.FlatID, &bill.Month, &bill.Year, &bill.Amount, &bill.Status, &bill.ReceiptObject, &bill.CreatedAt, &bill.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *billRepo) Update(ctx context.Context, bill *models.MaintenanceBill) error {
	query := `
		UPDATE maintenance_bills
		SET month = $1, year = $2, amount = $3, status = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, bill.Month, bill.Year, bill.Amount, bill.Status, bill.ID)
	return err
}

func (r *billRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BillStatus) error {
	query := `UPDATE maintenance_bills SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *billRepo) SetReceiptObject(ctx context.Context, id uuid.UUID, object string) error {
	query := `UPDATE maintenance_bills SET receipt_object = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, object, id)
	return err
}

func (r *billRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM maintenance_bills WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *billRepo) List(ctx context.Context, limit, offset int) ([]*models.MaintenanceBill, error) {
	query := `
		SELECT ` + selectBillColumns + `
		FROM maintenance_bills
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBills(rows)
}

func (r *billRepo) ListByFlat(ctx context.Context, flatID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error) {
	query := `
		SELECT ` + selectBillColumns + `
		FROM maintenance_bills
		WHERE flat_id = $1
		ORDER BY year DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, flatID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBills(rows)
}

func (r *billRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error) {
	query := `
		SELECT b.id, b.flat_id, b.month, b.year, b.amount, b.status, b.receipt_object, b.created_at, b.updated_at
		FROM maintenance_bills b
		JOIN flats f ON f.id = b.flat_id
		WHERE f.owner_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBills(rows)
}

func (r *billRepo) ListByStatus(ctx context.Context, status models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error) {
	query := `
		SELECT ` + selectBillColumns + `
		FROM maintenance_bills
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBills(rows)
}

func (r *billRepo) ListRecentByStatus(ctx context.Context, status models.BillStatus, limit int) ([]*models.MaintenanceBill, error) {
	query := `
		SELECT ` + selectBillColumns + `
		FROM maintenance_bills
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBills(rows)
}

func (r *billRepo) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.MaintenanceBill, error) {
	query := `
		SELECT b.id, b.flat_id, b.month, b.year, b.amount, b.status, b.receipt_object, b.created_at, b.updated_at
		FROM maintenance_bills b
		JOIN flats f ON f.id = b.flat_id
		WHERE f.owner_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBills(rows)
}

func scanBills(rows pgx.Rows) ([]*models.MaintenanceBill, error) {
	var bills []*models.MaintenanceBill
	for rows.Next() {
		bill := &models.MaintenanceBill{}
		if err := rows.Scan(&bill.ID, &bill.FlatID, &bill.Month, &bill.Year, &bill.Amount, &bill.Status, &bill.ReceiptObject, &bill.CreatedAt, &bill.UpdatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (r *billRepo) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM maintenance_bills`
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *billRepo) CountByStatus(ctx context.Context, status models.BillStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM maintenance_bills WHERE status = $1`
	err := r.db.QueryRow(ctx, query, status).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *billRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM maintenance_bills b
		JOIN flats f ON f.id = b.flat_id
		WHERE f.owner_id = $1
	`
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *billRepo) CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status models.BillStatus) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM maintenance_bills b
		JOIN flats f ON f.id = b.flat_id
		WHERE f.owner_id = $1 AND b.status = $2
	`
	err := r.db.QueryRow(ctx, query, ownerID, status).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
