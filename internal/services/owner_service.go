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
	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/bcrypt"
)

// OwnerInput carries the fields an administrator supplies when creating or
// updating an owner account.
type OwnerInput struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
}

// OwnerService provisions and manages OWNER accounts.
type OwnerService interface {
	Create(ctx context.Context, input OwnerInput) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input OwnerInput) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

type ownerService struct {
	userRepo        repositories.UserRepository
	flatRepo        repositories.FlatRepository
	notificationSvc NotificationService
	cacheSvc        caching.CacheService
}

func NewOwnerService(userRepo repositories.UserRepository, flatRepo repositories.FlatRepository, notificationSvc NotificationService, cacheSvc caching.CacheService) OwnerService {
	return &ownerService{
		userRepo:        userRepo,
		flatRepo:        flatRepo,
		notificationSvc: notificationSvc,
		cacheSvc:        cacheSvc,
	}
}

func validateOwnerInput(input *OwnerInput) error {
	input.Email = common.NormalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := common.ValidateEmail(input.Email, "email"); err != nil {
		return common.NewValidationError(err.Error())
	}
	if input.FirstName == "" {
		return common.NewValidationError("first name is required")
	}
	if input.LastName == "" {
		return common.NewValidationError("last name is required")
	}
	if err := common.ValidatePhone(input.Phone, "phone"); err != nil {
		return common.NewValidationError(err.Error())
	}
	return nil
}

// Create provisions an OWNER account with a generated temporary password and
// mails the credentials. Mail failure is logged, never rolled back.
func (s *ownerService) Create(ctx context.Context, input OwnerInput) (*models.User, error) {
	if err := validateOwnerInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, common.NewValidationError("user with this email already exists")
	}

	tempPassword := random.String(12)
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	owner := &models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         models.RoleOwner,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, owner); err != nil {
		return nil, common.NewInternalError("failed to create owner", err)
	}

	if err := s.notificationSvc.SendCredentialsEmail(ctx, owner, tempPassword); err != nil {
		log.Printf("Failed to send credentials to %s: %v", owner.Email, err)
	}

	s.invalidateDashboards(ctx)
	return owner, nil
}

func (s *ownerService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	owner, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("owner not found")
		}
		return nil, common.NewInternalError("failed to load owner", err)
	}
	if owner.Role != models.RoleOwner {
		return nil, common.NewNotFoundError("owner not found")
	}
	return owner, nil
}

func (s *ownerService) Update(ctx context.Context, id uuid.UUID, input OwnerInput) (*models.User, error) {
	if err := validateOwnerInput(&input); err != nil {
		return nil, err
	}

	owner, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if owner.Email != input.Email {
		if dup, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil && dup != nil && dup.ID != id {
			return nil, common.NewValidationError("user with this email already exists")
		}
	}

	owner.Email = input.Email
	owner.FirstName = input.FirstName
	owner.LastName = input.LastName
	owner.Phone = input.Phone

	if err := s.userRepo.Update(ctx, owner); err != nil {
		return nil, common.NewInternalError("failed to update owner", err)
	}

	s.invalidateDashboards(ctx)
	return owner, nil
}

func (s *ownerService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return common.NewInternalError("failed to update owner status", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

// Delete removes an owner account. Owners still holding flats cannot be
// deleted; deactivation is the non-destructive alternative.
func (s *ownerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	flatCount, err := s.flatRepo.CountByOwner(ctx, id)
	if err != nil {
		return common.NewInternalError("failed to check owner flats", err)
	}
	if flatCount > 0 {
		return common.NewValidationError("owner still holds flats; reassign them first")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete owner", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *ownerService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	owners, err := s.userRepo.ListByRole(ctx, models.RoleOwner, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list owners", err)
	}
	return owners, nil
}

func (s *ownerService) invalidateDashboards(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDashboards(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}
