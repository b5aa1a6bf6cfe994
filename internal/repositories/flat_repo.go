package repositories

import (
	"context"
	"fmt"

	"societyhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FlatRepository interface {
	Create(ctx context.Context, flat *models.Flat) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Flat, error)
	GetBySocietyAndNumber(ctx context.Context, societyID uuid.UUID, number string) (*models.Flat, error)
	Update(ctx context.Context, flat *models.Flat) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Flat, error)
	ListBySociety(ctx context.Context, societyID uuid.UUID, limit, offset int) ([]*models.Flat, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Flat, error)
	Count(ctx context.Context) (int, error)
	CountBySociety(ctx context.Context, societyID uuid.UUID) (int, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type flatRepo struct {
	db Database
}

func NewFlatRepo(db Database) FlatRepository {
	return &flatRepo{db: db}
}

func (r *flatRepo) Create(ctx context.Context, flat *models.Flat) error {
	// Check flat number uniqueness within the society before insertion
	var count int
	numberCheckQuery := `SELECT COUNT(*) FROM flats WHERE society_id = $1 AND number = $2`
	err := r.db.QueryRow(ctx, numberCheckQuery, flat.SocietyID, flat.Number).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check flat number uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("flat '%s' already exists in this society", flat.Number)
	}

	query := `
		INSERT INTO flats (id, society_id, number, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, flat.ID, flat.SocietyID, flat.Number, flat.OwnerID)
	return err
}

func (r *flatRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Flat, error) {
	flat := &models.Flat{}
	query := `
		SELECT id, society_id, number, owner_id, created_at, updated_at
		FROM flats
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&flat.ID, &flat.SocietyID, &flat.Number, &flat.OwnerID, &flat.CreatedAt, &flat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return flat, nil
}

func (r *flatRepo) GetBySocietyAndNumber(ctx context.Context, societyID uuid.UUID, number string) (*models.Flat, error) {
	flat := &models.Flat{}
	query := `
		SELECT id, society_id, number, owner_id, created_at, updated_at
		FROM flats
		WHERE society_id = $1 AND number = $2
	`
	err := r.db.QueryRow(ctx, query, societyID, number).Scan(&flat.ID, &flat.SocietyID, &flat.Number, &flat.OwnerID, &flat.CreatedAt, &flat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return flat, nil
}

func (r *flatRepo) Update(ctx context.Context, flat *models.Flat) error {
	query := `
		UPDATE flats
		SET society_id = $1, number = $2, owner_id = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, flat.SocietyID, flat.Number, flat.OwnerID, flat.ID)
	return err
}

func (r *flatRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM flats WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *flatRepo) List(ctx context.Context, limit, offset int) ([]*models.Flat, error) {
	query := `
		SELECT id, society_id, number, owner_id, created_at, updated_at
		FROM flats
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlats(rows)
}

func (r *flatRepo) ListBySociety(ctx context.Context, societyID uuid.UUID, limit, offset int) ([]*models.Flat, error) {
	query := `
		SELECT id, society_id, number, owner_id, created_at, updated_at
		FROM flats
		WHERE society_id = $1
		ORDER BY number ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, societyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlats(rows)
}

func (r *flatRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Flat, error) {
	query := `
		SELECT id, society_id, number, owner_id, created_at, updated_at
		FROM flats
		WHERE owner_id = $1
		ORDER BY number ASC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlats(rows)
}

func scanFlats(rows pgx.Rows) ([]*models.Flat, error) {
	var flats []*models.Flat
	for rows.Next() {
		flat := &models.Flat{}
		if err := rows.Scan(&flat.ID, &flat.SocietyID, &flat.Number, &flat.OwnerID, &flat.CreatedAt, &flat.UpdatedAt); err != nil {
			return nil, err
		}
		flats = append(flats, flat)
	}
	return flats, rows.Err()
}

func (r *flatRepo) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM flats`
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *flatRepo) CountBySociety(ctx context.Context, societyID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM flats WHERE society_id = $1`
	err := r.db.QueryRow(ctx, query, societyID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *flatRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM flats WHERE owner_id = $1`
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
