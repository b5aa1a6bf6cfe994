package repositories

import (
	"context"
	"fmt"

	"societyhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenancyRepository interface {
	CreateWithUser(ctx context.Context, user *models.User, tenancy *models.Tenancy) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error)
	GetActiveByFlat(ctx context.Context, flatID uuid.UUID) (*models.Tenancy, error)
	GetActiveByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenancy, error)
	Update(ctx context.Context, tenancy *models.Tenancy) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteWithUser(ctx context.Context, id, tenantID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenancy, error)
	CountActive(ctx context.Context) (int, error)
	CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type tenancyRepo struct {
	db Database
}

func NewTenancyRepo(db Database) TenancyRepository {
	return &tenancyRepo{db: db}
}

const insertTenancyQuery = `
	INSERT INTO tenancies (id, flat_id, tenant_id, rent_amount, start_date, end_date, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
`

// CreateWithUser inserts the tenant account and its tenancy in one
// transaction so a failed tenancy insert never leaves an orphaned user.
// A bare tenancy insert is deliberately not exposed; tenants only come
// into existence together with their user account.
func (r *tenancyRepo) CreateWithUser(ctx context.Context, user *models.User, tenancy *models.Tenancy) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	userQuery := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, userQuery, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.Role, user.Active); err != nil {
		return fmt.Errorf("failed to insert tenant user: %w", err)
	}

	if _, err := tx.Exec(ctx, insertTenancyQuery, tenancy.ID, tenancy.FlatID, tenancy.TenantID, tenancy.RentAmount, tenancy.StartDate, tenancy.EndDate, tenancy.Active); err != nil {
		return fmt.Errorf("failed to insert tenancy: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *tenancyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	tenancy := &models.Tenancy{}
	query := `
		SELECT id, flat_id, tenant_id, rent_amount, start_date, end_date, active, created_at, updated_at
		FROM tenancies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&tenancy.ID, &tenancy.FlatID, &tenancy.TenantID, &tenancy.RentAmount, &tenancy.StartDate, &tenancy.EndDate, &tenancy.Active, &tenancy.CreatedAt, &tenancy.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenancy, nil
}

func (r *tenancyRepo) GetActiveByFlat(ctx context.Context, flatID uuid.UUID) (*models.Tenancy, error) {
	tenancy := &models.Tenancy{}
	query := `
		SELECT id, flat_id, tenant_id, rent_amount, start_date, end_date, active, created_at, updated_at
		FROM tenancies
		WHERE flat_id = $1 AND active = true
	`
	err := r.db.QueryRow(ctx, query, flatID).Scan(&tenancy.ID, &tenancy.FlatID, &tenancy.TenantID, &tenancy.RentAmount, &tenancy.StartDate, &tenancy.EndDate, &tenancy.Active, &tenancy.CreatedAt, &tenancy.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenancy, nil
}

func (r *tenancyRepo) GetActiveByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenancy, error) {
	tenancy := &models.Tenancy{}
	query := `
		SELECT id, flat_id, tenant_id, rent_amount, start_date, end_date, active, created_at, updated_at
		FROM tenancies
		WHERE tenant_id = $1 AND active = true
	`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&tenancy.ID, &tenancy.FlatID, &tenancy.TenantID, &tenancy.RentAmount, &tenancy.StartDate, &tenancy.EndDate, &tenancy.Active, &tenancy.CreatedAt, &tenancy.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenancy, nil
}

func (r *tenancyRepo) Update(ctx context.Context, tenancy *models.Tenancy) error {
	query := `
		UPDATE tenancies
		SET rent_amount = $1, start_date = $2, end_date = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, tenancy.RentAmount, tenancy.StartDate, tenancy.EndDate, tenancy.Active, tenancy.ID)
	return err
}

func (r *tenancyRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE tenancies SET active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, active, id)
	return err
}

// DeleteWithUser removes the tenancy and the tenant's user account in one
// transaction.
func (r *tenancyRepo) DeleteWithUser(ctx context.Context, id, tenantID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tenancies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete tenancy: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, tenantID); err != nil {
		return fmt.Errorf("failed to delete tenant user: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *tenancyRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	query := `
		SELECT t.id, t.flat_id, t.tenant_id, t.rent_amount, t.start_date, t.end_date, t.active, t.created_at, t.updated_at
		FROM tenancies t
		JOIN flats f ON f.id = t.flat_id
		WHERE f.owner_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTenancies(rows)
}

func scanTenancies(rows pgx.Rows) ([]*models.Tenancy, error) {
	var tenancies []*models.Tenancy
	for rows.Next() {
		tenancy := &models.Tenancy{}
		if err := rows.Scan(&tenancy.ID, &tenancy.FlatID, &tenancy.TenantID, &tenancy.RentAmount, &tenancy.StartDate, &tenancy.EndDate, &tenancy.Active, &tenancy.CreatedAt, &tenancy.UpdatedAt); err != nil {
			return nil, err
		}
		tenancies = append(tenancies, tenancy)
	}
	return tenancies, rows.Err()
}

func (r *tenancyRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tenancies WHERE active = true`
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tenancyRepo) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM tenancies t
		JOIN flats f ON f.id = t.flat_id
		WHERE f.owner_id = $1 AND t.active = true
	`
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
