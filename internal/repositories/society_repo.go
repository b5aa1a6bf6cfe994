package repositories

import (
	"context"
	"fmt"

	"societyhub/internal/models"

	"github.com/google/uuid"
)

type SocietyRepository interface {
	Create(ctx context.Context, society *models.Society) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error)
	GetByName(ctx context.Context, name string) (*models.Society, error)
	Update(ctx context.Context, society *models.Society) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Society, error)
	Count(ctx context.Context) (int, error)
}

type societyRepo struct {
	db Database
}

func NewSocietyRepo(db Database) SocietyRepository {
	return &societyRepo{db: db}
}

func (r *societyRepo) Create(ctx context.Context, society *models.Society) error {
	// Check for name uniqueness before insertion
	var count int
	nameCheckQuery := `SELECT COUNT(*) FROM societies WHERE name = $1`
	err := r.db.QueryRow(ctx, nameCheckQuery, society.Name).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check society name uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("society with name '%s' already exists", society.Name)
	}

	query := `
		INSERT INTO societies (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, society.ID, society.Name, society.Address)
	return err
}

func (r *societyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	society := &models.Society{}
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM societies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&society.ID, &society.Name, &society.Address, &society.CreatedAt, &society.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return society, nil
}

func (r *societyRepo) GetByName(ctx context.Context, name string) (*models.Society, error) {
	society := &models.Society{}
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM societies
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&society.ID, &society.Name, &society.Address, &society.CreatedAt, &society.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return society, nil
}

func (r *societyRepo) Update(ctx context.Context, society *models.Society) error {
	query := `
		UPDATE societies
		SET name = $1, address = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, society.Name, society.Address, society.ID)
	return err
}

func (r *societyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM societies WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *societyRepo) List(ctx context.Context, limit, offset int) ([]*models.Society, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM societies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var societies []*models.Society
	for rows.Next() {
		society := &models.Society{}
		if err := rows.Scan(&society.ID, &society.Name, &society.Address, &society.CreatedAt, &society.UpdatedAt); err != nil {
			return nil, err
		}
		societies = append(societies, society)
	}
	return societies, rows.Err()
}

func (r *societyRepo) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM societies`
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
