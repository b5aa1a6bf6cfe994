package services

import (
	"context"
	"errors"
	"log"
	"time"

	"societyhub/internal/caching"
	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	dashboardCacheTTL    = 60 * time.Second
	dashboardRecentLimit = 3
)

// DashboardService assembles the role-specific landing snapshots. Admin and
// owner snapshots are cached briefly; the tenant view is cheap enough to
// build per request.
type DashboardService interface {
	AdminDashboard(ctx context.Context) (*models.AdminDashboard, error)
	OwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*models.OwnerDashboard, error)
	TenantDashboard(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error)
}

type dashboardService struct {
	societyRepo repositories.SocietyRepository
	flatRepo    repositories.FlatRepository
	userRepo    repositories.UserRepository
	tenancyRepo repositories.TenancyRepository
	billRepo    repositories.BillRepository
	cacheSvc    caching.CacheService
}

func NewDashboardService(societyRepo repositories.SocietyRepository, flatRepo repositories.FlatRepository, userRepo repositories.UserRepository, tenancyRepo repositories.TenancyRepository, billRepo repositories.BillRepository, cacheSvc caching.CacheService) DashboardService {
	return &dashboardService{
		societyRepo: societyRepo,
		flatRepo:    flatRepo,
		userRepo:    userRepo,
		tenancyRepo: tenancyRepo,
		billRepo:    billRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *dashboardService) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	cached, err := s.cacheSvc.GetAdminDashboard(ctx)
	if err != nil {
		log.Printf("Failed to read admin dashboard cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	totalSocieties, err := s.societyRepo.Count(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to count societies", err)
	}
	totalFlats, err := s.flatRepo.Count(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to count flats", err)
	}
	totalOwners, err := s.userRepo.CountByRole(ctx, models.RoleOwner)
	if err != nil {
		return nil, common.NewInternalError("failed to count owners", err)
	}
	activeTenancies, err := s.tenancyRepo.CountActive(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to count tenancies", err)
	}
	totalBills, err := s.billRepo.Count(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to count bills", err)
	}
	unpaidBills, err := s.billRepo.CountByStatus(ctx, models.BillStatusUnpaid)
	if err != nil {
		return nil, common.NewInternalError("failed to count unpaid bills", err)
	}
	recentOwners, err := s.userRepo.ListRecentByRole(ctx, models.RoleOwner, dashboardRecentLimit)
	if err != nil {
		return nil, common.NewInternalError("failed to list recent owners", err)
	}
	recentUnpaid, err := s.billRepo.ListRecentByStatus(ctx, models.BillStatusUnpaid, dashboardRecentLimit)
	if err != nil {
		return nil, common.NewInternalError("failed to list recent unpaid bills", err)
	}

	snapshot := &models.AdminDashboard{
		TotalSocieties:    totalSocieties,
		TotalFlats:        totalFlats,
		TotalOwners:       totalOwners,
		ActiveTenancies:   activeTenancies,
		TotalBills:        totalBills,
		UnpaidBills:       unpaidBills,
		RecentOwners:      recentOwners,
		RecentUnpaidBills: recentUnpaid,
		GeneratedAt:       time.Now().UTC(),
	}

	if err := s.cacheSvc.SetAdminDashboard(ctx, snapshot, dashboardCacheTTL); err != nil {
		log.Printf("Failed to cache admin dashboard: %v", err)
	}
	return snapshot, nil
}

func (s *dashboardService) OwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*models.OwnerDashboard, error) {
	cached, err := s.cacheSvc.GetOwnerDashboard(ctx, ownerID)
	if err != nil {
		log.Printf("Failed to read owner dashboard cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	flats, err := s.flatRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.NewInternalError("failed to count flats", err)
	}
	activeTenancies, err := s.tenancyRepo.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.NewInternalError("failed to count tenancies", err)
	}
	totalBills, err := s.billRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.NewInternalError("failed to count bills", err)
	}
	unpaidBills, err := s.billRepo.CountByOwnerAndStatus(ctx, ownerID, models.BillStatusUnpaid)
	if err != nil {
		return nil, common.NewInternalError("failed to count unpaid bills", err)
	}
	recentBills, err := s.billRepo.ListRecentByOwner(ctx, ownerID, dashboardRecentLimit)
	if err != nil {
		return nil, common.NewInternalError("failed to list recent bills", err)
	}

	snapshot := &models.OwnerDashboard{
		Flats:           flats,
		ActiveTenancies: activeTenancies,
		TotalBills:      totalBills,
		UnpaidBills:     unpaidBills,
		RecentBills:     recentBills,
		GeneratedAt:     time.Now().UTC(),
	}

	if err := s.cacheSvc.SetOwnerDashboard(ctx, ownerID, snapshot, dashboardCacheTTL); err != nil {
		log.Printf("Failed to cache owner dashboard: %v", err)
	}
	return snapshot, nil
}

// TenantDashboard shows the tenant their current home: the tenancy, its
// flat and society, the owner's contact details, and the flat's bills.
func (s *dashboardService) TenantDashboard(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	tenancy, err := s.tenancyRepo.GetActiveByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("no active tenancy for this account")
		}
		return nil, common.NewInternalError("failed to load tenancy", err)
	}

	flat, err := s.flatRepo.GetByID(ctx, tenancy.FlatID)
	if err != nil {
		return nil, common.NewInternalError("failed to load flat", err)
	}
	society, err := s.societyRepo.GetByID(ctx, flat.SocietyID)
	if err != nil {
		return nil, common.NewInternalError("failed to load society", err)
	}

	var owner *models.User
	if flat.OwnerID != nil {
		owner, err = s.userRepo.GetByID(ctx, *flat.OwnerID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewInternalError("failed to load owner", err)
		}
	}

	bills, err := s.billRepo.ListByFlat(ctx, flat.ID, 50, 0)
	if err != nil {
		return nil, common.NewInternalError("failed to list bills", err)
	}

	return &models.TenantDashboard{
		Tenancy: tenancy,
		Flat:    flat,
		Society: society,
		Owner:   owner,
		Bills:   bills,
	}, nil
}
