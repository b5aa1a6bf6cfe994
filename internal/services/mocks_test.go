package services

import (
	"context"
	"io"
	"time"

	"societyhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Shared testify mocks for the repository and service seams used across the
// service suites.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role models.Role, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, role, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) ListRecentByRole(ctx context.Context, role models.Role, limit int) ([]*models.User, error) {
	args := m.Called(ctx, role, limit)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockSocietyRepository struct {
	mock.Mock
}

func (m *MockSocietyRepository) Create(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Society, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) GetByName(ctx context.Context, name string) (*models.Society, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) Update(ctx context.Context, society *models.Society) error {
	args := m.Called(ctx, society)
	return args.Error(0)
}

func (m *MockSocietyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSocietyRepository) List(ctx context.Context, limit, offset int) ([]*models.Society, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Society), args.Error(1)
}

func (m *MockSocietyRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockFlatRepository struct {
	mock.Mock
}

func (m *MockFlatRepository) Create(ctx context.Context, flat *models.Flat) error {
	args := m.Called(ctx, flat)
	return args.Error(0)
}

func (m *MockFlatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Flat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flat), args.Error(1)
}

func (m *MockFlatRepository) GetBySocietyAndNumber(ctx context.Context, societyID uuid.UUID, number string) (*models.Flat, error) {
	args := m.Called(ctx, societyID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flat), args.Error(1)
}

func (m *MockFlatRepository) Update(ctx context.Context, flat *models.Flat) error {
	args := m.Called(ctx, flat)
	return args.Error(0)
}

func (m *MockFlatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlatRepository) List(ctx context.Context, limit, offset int) ([]*models.Flat, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Flat), args.Error(1)
}

func (m *MockFlatRepository) ListBySociety(ctx context.Context, societyID uuid.UUID, limit, offset int) ([]*models.Flat, error) {
	args := m.Called(ctx, societyID, limit, offset)
	return args.Get(0).([]*models.Flat), args.Error(1)
}

func (m *MockFlatRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Flat, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Flat), args.Error(1)
}

func (m *MockFlatRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockFlatRepository) CountBySociety(ctx context.Context, societyID uuid.UUID) (int, error) {
	args := m.Called(ctx, societyID)
	return args.Int(0), args.Error(1)
}

func (m *MockFlatRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

type MockTenancyRepository struct {
	mock.Mock
}

func (m *MockTenancyRepository) CreateWithUser(ctx context.Context, user *models.User, tenancy *models.Tenancy) error {
	args := m.Called(ctx, user, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) GetActiveByFlat(ctx context.Context, flatID uuid.UUID) (*models.Tenancy, error) {
	args := m.Called(ctx, flatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) GetActiveByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenancy, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) Update(ctx context.Context, tenancy *models.Tenancy) error {
	args := m.Called(ctx, tenancy)
	return args.Error(0)
}

func (m *MockTenancyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockTenancyRepository) DeleteWithUser(ctx context.Context, id, tenantID uuid.UUID) error {
	args := m.Called(ctx, id, tenantID)
	return args.Error(0)
}

func (m *MockTenancyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Tenancy, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.Tenancy), args.Error(1)
}

func (m *MockTenancyRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTenancyRepository) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Create(ctx context.Context, bill *models.MaintenanceBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) GetByFlatPeriod(ctx context.Context, flatID uuid.UUID, month string, year int) (*models.MaintenanceBill, error) {
	args := m.Called(ctx, flatID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) Update(ctx context.Context, bill *models.MaintenanceBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.BillStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBillRepository) SetReceiptObject(ctx context.Context, id uuid.UUID, object string) error {
	args := m.Called(ctx, id, object)
	return args.Error(0)
}

func (m *MockBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBillRepository) List(ctx context.Context, limit, offset int) ([]*models.MaintenanceBill, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) ListByFlat(ctx context.Context, flatID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error) {
	args := m.Called(ctx, flatID, limit, offset)
	return args.Get(0).([]*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) ListByStatus(ctx context.Context, status models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) ListRecentByStatus(ctx context.Context, status models.BillStatus, limit int) ([]*models.MaintenanceBill, error) {
	args := m.Called(ctx, status, limit)
	return args.Get(0).([]*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.MaintenanceBill, error) {
	args := m.Called(ctx, ownerID, limit)
	return args.Get(0).([]*models.MaintenanceBill), args.Error(1)
}

func (m *MockBillRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBillRepository) CountByStatus(ctx context.Context, status models.BillStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockBillRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockBillRepository) CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status models.BillStatus) (int, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Int(0), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

func (m *MockNotificationService) SendCredentialsEmail(ctx context.Context, user *models.User, plainPassword string) error {
	args := m.Called(ctx, user, plainPassword)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetAdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminDashboard), args.Error(1)
}

func (m *MockCacheService) SetAdminDashboard(ctx context.Context, snapshot *models.AdminDashboard, ttl time.Duration) error {
	args := m.Called(ctx, snapshot, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetOwnerDashboard(ctx context.Context, ownerID uuid.UUID) (*models.OwnerDashboard, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnerDashboard), args.Error(1)
}

func (m *MockCacheService) SetOwnerDashboard(ctx context.Context, ownerID uuid.UUID, snapshot *models.OwnerDashboard, ttl time.Duration) error {
	args := m.Called(ctx, ownerID, snapshot, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDashboards(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadReceipt(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize)
	return args.Error(0)
}

func (m *MockStorageService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) DeleteReceipt(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}
