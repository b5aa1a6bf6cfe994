package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"societyhub/internal/caching"
	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SocietyService interface {
	Create(ctx context.Context, society *models.Society) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error)
	Update(ctx context.Context, society *models.Society) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Society, error)
}

type societyService struct {
	societyRepo repositories.SocietyRepository
	flatRepo    repositories.FlatRepository
	cacheSvc    caching.CacheService
}

func NewSocietyService(societyRepo repositories.SocietyRepository, flatRepo repositories.FlatRepository, cacheSvc caching.CacheService) SocietyService {
	return &societyService{
		societyRepo: societyRepo,
		flatRepo:    flatRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *societyService) Create(ctx context.Context, society *models.Society) error {
	society.Name = strings.TrimSpace(society.Name)
	society.Address = strings.TrimSpace(society.Address)

	if err := common.ValidateSocietyName(society.Name, "name"); err != nil {
		return common.NewValidationError(err.Error())
	}
	if len(society.Address) < 10 {
		return common.NewValidationError("address must be at least 10 characters")
	}

	// Check for duplicate name
	existing, err := s.societyRepo.GetByName(ctx, society.Name)
	if err == nil && existing != nil {
		return common.NewConflictError("society with this name already exists")
	}

	society.ID = uuid.New()
	if err := s.societyRepo.Create(ctx, society); err != nil {
		return common.NewInternalError("failed to create society", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *societyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	society, err := s.societyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("society not found")
		}
		return nil, common.NewInternalError("failed to load society", err)
	}
	return society, nil
}

func (s *societyService) Update(ctx context.Context, society *models.Society) error {
	society.Name = strings.TrimSpace(society.Name)
	society.Address = strings.TrimSpace(society.Address)

	if err := common.ValidateSocietyName(society.Name, "name"); err != nil {
		return common.NewValidationError(err.Error())
	}
	if len(society.Address) < 10 {
		return common.NewValidationError("address must be at least 10 characters")
	}

	existing, err := s.societyRepo.GetByID(ctx, society.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("society not found")
		}
		return common.NewInternalError("failed to load society", err)
	}

	// Renaming onto another society's name is a conflict
	if existing.Name != society.Name {
		if dup, err := s.societyRepo.GetByName(ctx, society.Name); err == nil && dup != nil && dup.ID != society.ID {
			return common.NewConflictError("society with this name already exists")
		}
	}

	if err := s.societyRepo.Update(ctx, society); err != nil {
		return common.NewInternalError("failed to update society", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *societyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	flatCount, err := s.flatRepo.CountBySociety(ctx, id)
	if err != nil {
		return common.NewInternalError("failed to check society flats", err)
	}
	if flatCount > 0 {
		return common.NewValidationError("society still has flats; remove them first")
	}

	if err := s.societyRepo.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete society", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *societyService) List(ctx context.Context, limit, offset int) ([]*models.Society, error) {
	societies, err := s.societyRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list societies", err)
	}
	return societies, nil
}

func (s *societyService) invalidateDashboards(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDashboards(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}
