package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"societyhub/internal/caching"
	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/gommon/random"
	"golang.org/x/crypto/bcrypt"
)

// Tenancies cannot start before the system's epoch; older move-in dates are
// treated as data entry mistakes.
var minTenancyStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// TenancyInput carries the fields an owner supplies when placing a new
// tenant into one of their flats.
type TenancyInput struct {
	FlatID     uuid.UUID `json:"flat_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      *string   `json:"phone"`
	RentAmount float64   `json:"rent_amount"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date"`
}

// TenancyUpdateInput carries the lease terms an owner may change after the
// tenancy exists.
type TenancyUpdateInput struct {
	RentAmount float64 `json:"rent_amount"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

// TenancySummary bundles a tenancy with the people and property it joins,
// which is what owner-facing listings render.
type TenancySummary struct {
	Tenancy *models.Tenancy `json:"tenancy"`
	Tenant  *models.User    `json:"tenant"`
	Flat    *models.Flat    `json:"flat"`
}

// TenancyService manages tenant accounts and their tenancies on behalf of
// flat owners. Every operation is scoped to the calling owner's flats.
type TenancyService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input TenancyInput) (*TenancySummary, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*TenancySummary, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input TenancyUpdateInput) (*models.Tenancy, error)
	SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*TenancySummary, error)
}

type tenancyService struct {
	tenancyRepo     repositories.TenancyRepository
	flatRepo        repositories.FlatRepository
	userRepo        repositories.UserRepository
	notificationSvc NotificationService
	cacheSvc        caching.CacheService
}

func NewTenancyService(tenancyRepo repositories.TenancyRepository, flatRepo repositories.FlatRepository, userRepo repositories.UserRepository, notificationSvc NotificationService, cacheSvc caching.CacheService) TenancyService {
	return &tenancyService{
		tenancyRepo:     tenancyRepo,
		flatRepo:        flatRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		cacheSvc:        cacheSvc,
	}
}

func parseTenancyDates(startStr string, endStr *string) (time.Time, *time.Time, error) {
	start, err := common.ParseDate(startStr, "start_date")
	if err != nil {
		return time.Time{}, nil, common.NewValidationError(err.Error())
	}
	if start.Before(minTenancyStart) {
		return time.Time{}, nil, common.NewValidationError("start_date cannot be before 2000-01-01")
	}

	var end *time.Time
	if endStr != nil && strings.TrimSpace(*endStr) != "" {
		parsed, err := common.ParseDate(*endStr, "end_date")
		if err != nil {
			return time.Time{}, nil, common.NewValidationError(err.Error())
		}
		if !parsed.After(start) {
			return time.Time{}, nil, common.NewValidationError("end_date must be after start_date")
		}
		end = &parsed
	}
	return start, end, nil
}

// ownedTenancy loads a tenancy and verifies the flat it sits in belongs to
// the calling owner.
func (s *tenancyService) ownedTenancy(ctx context.Context, ownerID, id uuid.UUID) (*models.Tenancy, *models.Flat, error) {
	tenancy, err := s.tenancyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, common.NewNotFoundError("tenancy not found")
		}
		return nil, nil, common.NewInternalError("failed to load tenancy", err)
	}

	flat, err := s.flatRepo.GetByID(ctx, tenancy.FlatID)
	if err != nil {
		return nil, nil, common.NewInternalError("failed to load flat", err)
	}
	if flat.OwnerID == nil || *flat.OwnerID != ownerID {
		return nil, nil, common.NewForbiddenError("tenancy belongs to another owner's flat")
	}
	return tenancy, flat, nil
}

// Create provisions a TENANT account and its tenancy in one transaction.
// Both the flat and the tenant must be free of an active tenancy first.
func (s *tenancyService) Create(ctx context.Context, ownerID uuid.UUID, input TenancyInput) (*TenancySummary, error) {
	input.Email = common.NormalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := common.ValidateEmail(input.Email, "email"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	if input.FirstName == "" {
		return nil, common.NewValidationError("first name is required")
	}
	if input.LastName == "" {
		return nil, common.NewValidationError("last name is required")
	}
	if err := common.ValidatePhone(input.Phone, "phone"); err != nil {
		return nil, common.NewValidationError(err.Error())
	}
	if input.RentAmount <= 0 {
		return nil, common.NewValidationError("rent amount must be greater than zero")
	}

	start, end, err := parseTenancyDates(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	flat, err := s.flatRepo.GetByID(ctx, input.FlatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("flat not found")
		}
		return nil, common.NewInternalError("failed to load flat", err)
	}
	if flat.OwnerID == nil || *flat.OwnerID != ownerID {
		return nil, common.NewForbiddenError("flat belongs to another owner")
	}

	if existing, err := s.tenancyRepo.GetActiveByFlat(ctx, flat.ID); err == nil && existing != nil {
		return nil, common.NewValidationError("flat already has an active tenancy")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewInternalError("failed to check flat tenancy", err)
	}

	if dup, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil && dup != nil {
		return nil, common.NewValidationError("user with this email already exists")
	}

	tempPassword := random.String(12)
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	tenant := &models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         models.RoleTenant,
		Active:       true,
	}
	tenancy := &models.Tenancy{
		ID:         uuid.New(),
		FlatID:     flat.ID,
		TenantID:   tenant.ID,
		RentAmount: input.RentAmount,
		StartDate:  start,
		EndDate:    end,
		Active:     true,
	}

	if err := s.tenancyRepo.CreateWithUser(ctx, tenant, tenancy); err != nil {
		return nil, common.NewInternalError("failed to create tenant", err)
	}

	if err := s.notificationSvc.SendCredentialsEmail(ctx, tenant, tempPassword); err != nil {
		log.Printf("Failed to send credentials to %s: %v", tenant.Email, err)
	}

	s.invalidateDashboards(ctx)
	return &TenancySummary{Tenancy: tenancy, Tenant: tenant, Flat: flat}, nil
}

func (s *tenancyService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*TenancySummary, error) {
	tenancy, flat, err := s.ownedTenancy(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	tenant, err := s.userRepo.GetByID(ctx, tenancy.TenantID)
	if err != nil {
		return nil, common.NewInternalError("failed to load tenant", err)
	}
	return &TenancySummary{Tenancy: tenancy, Tenant: tenant, Flat: flat}, nil
}

func (s *tenancyService) Update(ctx context.Context, ownerID, id uuid.UUID, input TenancyUpdateInput) (*models.Tenancy, error) {
	if input.RentAmount <= 0 {
		return nil, common.NewValidationError("rent amount must be greater than zero")
	}
	start, end, err := parseTenancyDates(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	tenancy, _, err := s.ownedTenancy(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	tenancy.RentAmount = input.RentAmount
	tenancy.StartDate = start
	tenancy.EndDate = end

	if err := s.tenancyRepo.Update(ctx, tenancy); err != nil {
		return nil, common.NewInternalError("failed to update tenancy", err)
	}

	s.invalidateDashboards(ctx)
	return tenancy, nil
}

// SetActive toggles both the tenancy and the tenant's login in step. A
// deactivated tenant keeps their history but cannot sign in; reactivation
// re-checks the one-active-tenancy rules.
func (s *tenancyService) SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) error {
	tenancy, flat, err := s.ownedTenancy(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if active && !tenancy.Active {
		if current, err := s.tenancyRepo.GetActiveByFlat(ctx, flat.ID); err == nil && current != nil && current.ID != tenancy.ID {
			return common.NewValidationError("flat already has an active tenancy")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return common.NewInternalError("failed to check flat tenancy", err)
		}
		if current, err := s.tenancyRepo.GetActiveByTenant(ctx, tenancy.TenantID); err == nil && current != nil && current.ID != tenancy.ID {
			return common.NewValidationError("tenant already has an active tenancy")
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return common.NewInternalError("failed to check tenant tenancy", err)
		}
	}

	if err := s.tenancyRepo.SetActive(ctx, id, active); err != nil {
		return common.NewInternalError("failed to update tenancy status", err)
	}
	if err := s.userRepo.SetActive(ctx, tenancy.TenantID, active); err != nil {
		return common.NewInternalError("failed to update tenant account status", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

// Delete removes the tenancy and the tenant's user account atomically.
func (s *tenancyService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tenancy, _, err := s.ownedTenancy(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.tenancyRepo.DeleteWithUser(ctx, id, tenancy.TenantID); err != nil {
		return common.NewInternalError("failed to delete tenant", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *tenancyService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*TenancySummary, error) {
	tenancies, err := s.tenancyRepo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list tenancies", err)
	}

	flats := make(map[uuid.UUID]*models.Flat)
	summaries := make([]*TenancySummary, 0, len(tenancies))
	for _, tenancy := range tenancies {
		flat, ok := flats[tenancy.FlatID]
		if !ok {
			flat, err = s.flatRepo.GetByID(ctx, tenancy.FlatID)
			if err != nil {
				return nil, common.NewInternalError("failed to load flat", err)
			}
			flats[tenancy.FlatID] = flat
		}

		tenant, err := s.userRepo.GetByID(ctx, tenancy.TenantID)
		if err != nil {
			return nil, common.NewInternalError("failed to load tenant", err)
		}
		summaries = append(summaries, &TenancySummary{Tenancy: tenancy, Tenant: tenant, Flat: flat})
	}
	return summaries, nil
}

func (s *tenancyService) invalidateDashboards(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDashboards(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}
