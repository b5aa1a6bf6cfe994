package services

import (
	"context"
	"errors"
	"log"

	"societyhub/internal/caching"
	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FlatService interface {
	Create(ctx context.Context, flat *models.Flat) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Flat, error)
	Update(ctx context.Context, flat *models.Flat) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Flat, error)
	ListBySociety(ctx context.Context, societyID uuid.UUID, limit, offset int) ([]*models.Flat, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Flat, error)
}

type flatService struct {
	flatRepo    repositories.FlatRepository
	societyRepo repositories.SocietyRepository
	userRepo    repositories.UserRepository
	tenancyRepo repositories.TenancyRepository
	billRepo    repositories.BillRepository
	cacheSvc    caching.CacheService
}

func NewFlatService(flatRepo repositories.FlatRepository, societyRepo repositories.SocietyRepository, userRepo repositories.UserRepository, tenancyRepo repositories.TenancyRepository, billRepo repositories.BillRepository, cacheSvc caching.CacheService) FlatService {
	return &flatService{
		flatRepo:    flatRepo,
		societyRepo: societyRepo,
		userRepo:    userRepo,
		tenancyRepo: tenancyRepo,
		billRepo:    billRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *flatService) Create(ctx context.Context, flat *models.Flat) error {
	if err := common.ValidateFlatNumber(flat.Number, "number"); err != nil {
		return common.NewValidationError(err.Error())
	}
	flat.Number = common.NormalizeFlatNumber(flat.Number)

	if _, err := s.societyRepo.GetByID(ctx, flat.SocietyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewValidationError("society does not exist")
		}
		return common.NewInternalError("failed to load society", err)
	}

	if err := s.validateOwner(ctx, flat.OwnerID); err != nil {
		return err
	}

	// Check number uniqueness within the society
	existing, err := s.flatRepo.GetBySocietyAndNumber(ctx, flat.SocietyID, flat.Number)
	if err == nil && existing != nil {
		return common.NewConflictError("flat with this number already exists in the society")
	}

	flat.ID = uuid.New()
	if err := s.flatRepo.Create(ctx, flat); err != nil {
		return common.NewInternalError("failed to create flat", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *flatService) GetByID(ctx context.Context, id uuid.UUID) (*models.Flat, error) {
	flat, err := s.flatRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("flat not found")
		}
		return nil, common.NewInternalError("failed to load flat", err)
	}
	return flat, nil
}

func (s *flatService) Update(ctx context.Context, flat *models.Flat) error {
	if err := common.ValidateFlatNumber(flat.Number, "number"); err != nil {
		return common.NewValidationError(err.Error())
	}
	flat.Number = common.NormalizeFlatNumber(flat.Number)

	existing, err := s.GetByID(ctx, flat.ID)
	if err != nil {
		return err
	}

	if _, err := s.societyRepo.GetByID(ctx, flat.SocietyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewValidationError("society does not exist")
		}
		return common.NewInternalError("failed to load society", err)
	}

	if err := s.validateOwner(ctx, flat.OwnerID); err != nil {
		return err
	}

	// Moving or renumbering must not collide within the target society
	if existing.SocietyID != flat.SocietyID || existing.Number != flat.Number {
		dup, err := s.flatRepo.GetBySocietyAndNumber(ctx, flat.SocietyID, flat.Number)
		if err == nil && dup != nil && dup.ID != flat.ID {
			return common.NewConflictError("flat with this number already exists in the society")
		}
	}

	if err := s.flatRepo.Update(ctx, flat); err != nil {
		return common.NewInternalError("failed to update flat", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *flatService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if tenancy, err := s.tenancyRepo.GetActiveByFlat(ctx, id); err == nil && tenancy != nil {
		return common.NewValidationError("flat has an active tenancy; end it first")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return common.NewInternalError("failed to check flat tenancies", err)
	}

	bills, err := s.billRepo.ListByFlat(ctx, id, 1, 0)
	if err != nil {
		return common.NewInternalError("failed to check flat bills", err)
	}
	if len(bills) > 0 {
		return common.NewValidationError("flat has maintenance bills; delete them first")
	}

	if err := s.flatRepo.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete flat", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *flatService) List(ctx context.Context, limit, offset int) ([]*models.Flat, error) {
	flats, err := s.flatRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list flats", err)
	}
	return flats, nil
}

func (s *flatService) ListBySociety(ctx context.Context, societyID uuid.UUID, limit, offset int) ([]*models.Flat, error) {
	flats, err := s.flatRepo.ListBySociety(ctx, societyID, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list society flats", err)
	}
	return flats, nil
}

func (s *flatService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Flat, error) {
	flats, err := s.flatRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.NewInternalError("failed to list owner flats", err)
	}
	return flats, nil
}

// validateOwner confirms an assigned owner exists and holds the OWNER role.
func (s *flatService) validateOwner(ctx context.Context, ownerID *uuid.UUID) error {
	if ownerID == nil {
		return nil
	}

	owner, err := s.userRepo.GetByID(ctx, *ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewValidationError("assigned owner does not exist")
		}
		return common.NewInternalError("failed to load owner", err)
	}
	if owner.Role != models.RoleOwner {
		return common.NewValidationError("assigned user does not have the OWNER role")
	}
	return nil
}

func (s *flatService) invalidateDashboards(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDashboards(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}
