package services

import (
	"context"
	"testing"
	"time"

	"societyhub/internal/common"
	"societyhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BillingServiceTestSuite struct {
	suite.Suite
	mockBillRepo    *MockBillRepository
	mockFlatRepo    *MockFlatRepository
	mockSocietyRepo *MockSocietyRepository
	mockUserRepo    *MockUserRepository
	mockTenancyRepo *MockTenancyRepository
	mockStorage     *MockStorageService
	mockCache       *MockCacheService
	service         BillingService

	ownerID uuid.UUID
	flat    *models.Flat
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockBillRepo = &MockBillRepository{}
	suite.mockFlatRepo = &MockFlatRepository{}
	suite.mockSocietyRepo = &MockSocietyRepository{}
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockTenancyRepo = &MockTenancyRepository{}
	suite.mockStorage = &MockStorageService{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewBillingService(suite.mockBillRepo, suite.mockFlatRepo, suite.mockSocietyRepo, suite.mockUserRepo, suite.mockTenancyRepo, suite.mockStorage, suite.mockCache, "receipts")

	suite.mockBillRepo.Test(suite.T())
	suite.mockFlatRepo.Test(suite.T())
	suite.mockSocietyRepo.Test(suite.T())
	suite.mockUserRepo.Test(suite.T())
	suite.mockTenancyRepo.Test(suite.T())
	suite.mockStorage.Test(suite.T())
	suite.mockCache.Test(suite.T())

	suite.ownerID = uuid.New()
	ownerID := suite.ownerID
	suite.flat = &models.Flat{
		ID:        uuid.New(),
		SocietyID: uuid.New(),
		Number:    "B-204",
		OwnerID:   &ownerID,
	}
}

func (suite *BillingServiceTestSuite) TearDownTest() {
	suite.mockBillRepo.AssertExpectations(suite.T())
	suite.mockFlatRepo.AssertExpectations(suite.T())
	suite.mockSocietyRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockTenancyRepo.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}

func (suite *BillingServiceTestSuite) TestGenerate_Success() {
	ctx := context.Background()

	suite.mockFlatRepo.On("GetByID", ctx, suite.flat.ID).Return(suite.flat, nil)
	suite.mockBillRepo.On("GetByFlatPeriod", ctx, suite.flat.ID, "MARCH", 2025).Return(nil, pgx.ErrNoRows)
	suite.mockBillRepo.On("Create", ctx, mock.AnythingOfType("*models.MaintenanceBill")).Return(nil).Run(func(args mock.Arguments) {
		bill := args.Get(1).(*models.MaintenanceBill)
		assert.Equal(suite.T(), suite.flat.ID, bill.FlatID)
		assert.Equal(suite.T(), "MARCH", bill.Month)
		assert.Equal(suite.T(), 2025, bill.Year)
		assert.Equal(suite.T(), models.BillStatusUnpaid, bill.Status)
		assert.NotEqual(suite.T(), uuid.Nil, bill.ID)
	})
	suite.mockCache.On("InvalidateDashboards", ctx).Return(nil)

	bill, err := suite.service.Generate(ctx, BillInput{
		FlatID: suite.flat.ID,
		Month:  " march ",
		Year:   2025,
		Amount: 2500,
	})
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), bill)
	assert.Equal(suite.T(), models.BillStatusUnpaid, bill.Status)
}

func (suite *BillingServiceTestSuite) TestGenerate_UnownedFlatRejected() {
	ctx := context.Background()
	unowned := &models.Flat{ID: suite.flat.ID, SocietyID: suite.flat.SocietyID, Number: "B-204"}

	suite.mockFlatRepo.On("GetByID", ctx, suite.flat.ID).Return(unowned, nil)

	bill, err := suite.service.Generate(ctx, BillInput{
		FlatID: suite.flat.ID,
		Month:  "MARCH",
		Year:   2025,
		Amount: 2500,
	})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.Contains(suite.T(), err.Error(), "no assigned owner")
}

func (suite *BillingServiceTestSuite) TestGenerate_DuplicatePeriodRejected() {
	ctx := context.Background()
	existing := &models.MaintenanceBill{ID: uuid.New(), FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Status: models.BillStatusUnpaid}

	suite.mockFlatRepo.On("GetByID", ctx, suite.flat.ID).Return(suite.flat, nil)
	suite.mockBillRepo.On("GetByFlatPeriod", ctx, suite.flat.ID, "MARCH", 2025).Return(existing, nil)

	bill, err := suite.service.Generate(ctx, BillInput{
		FlatID: suite.flat.ID,
		Month:  "MARCH",
		Year:   2025,
		Amount: 2500,
	})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.ErrorIs(suite.T(), err, common.ErrAlreadyExists)
}

func (suite *BillingServiceTestSuite) TestGenerate_InvalidMonth() {
	ctx := context.Background()

	bill, err := suite.service.Generate(ctx, BillInput{
		FlatID: suite.flat.ID,
		Month:  "SMARCH",
		Year:   2025,
		Amount: 2500,
	})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.Contains(suite.T(), err.Error(), "month")
}

func (suite *BillingServiceTestSuite) TestGenerate_YearOutOfRange() {
	ctx := context.Background()

	bill, err := suite.service.Generate(ctx, BillInput{
		FlatID: suite.flat.ID,
		Month:  "MARCH",
		Year:   1999,
		Amount: 2500,
	})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.Contains(suite.T(), err.Error(), "year")
}

func (suite *BillingServiceTestSuite) TestGenerate_AmountBelowMinimum() {
	ctx := context.Background()

	bill, err := suite.service.Generate(ctx, BillInput{
		FlatID: suite.flat.ID,
		Month:  "MARCH",
		Year:   2025,
		Amount: 0.5,
	})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.Contains(suite.T(), err.Error(), "at least 1")
}

func (suite *BillingServiceTestSuite) TestMarkPaid_TransitionsUnpaidToPaid() {
	ctx := context.Background()
	billID := uuid.New()
	unpaid := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Amount: 2500, Status: models.BillStatusUnpaid}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(unpaid, nil)
	suite.mockBillRepo.On("UpdateStatus", ctx, billID, models.BillStatusPaid).Return(nil)
	suite.mockCache.On("InvalidateDashboards", ctx).Return(nil)

	bill, err := suite.service.MarkPaid(ctx, billID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.BillStatusPaid, bill.Status)
}

func (suite *BillingServiceTestSuite) TestMarkPaid_IdempotentOnPaidBill() {
	ctx := context.Background()
	billID := uuid.New()
	paid := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Amount: 2500, Status: models.BillStatusPaid}

	// No UpdateStatus expectation: a second pay call must not touch the row
	suite.mockBillRepo.On("GetByID", ctx, billID).Return(paid, nil)

	bill, err := suite.service.MarkPaid(ctx, billID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.BillStatusPaid, bill.Status)
}

func (suite *BillingServiceTestSuite) TestSetStatus_RejectsUnknownStatus() {
	ctx := context.Background()

	bill, err := suite.service.SetStatus(ctx, uuid.New(), models.BillStatus("SETTLED"))
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.Contains(suite.T(), err.Error(), "PAID or UNPAID")
}

func (suite *BillingServiceTestSuite) TestSetStatus_NotFound() {
	ctx := context.Background()
	billID := uuid.New()

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(nil, pgx.ErrNoRows)

	bill, err := suite.service.SetStatus(ctx, billID, models.BillStatusPaid)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *BillingServiceTestSuite) TestListForOwner_StatusFilter() {
	ctx := context.Background()
	bills := []*models.MaintenanceBill{
		{ID: uuid.New(), FlatID: suite.flat.ID, Month: "JANUARY", Year: 2025, Status: models.BillStatusPaid},
		{ID: uuid.New(), FlatID: suite.flat.ID, Month: "FEBRUARY", Year: 2025, Status: models.BillStatusUnpaid},
		{ID: uuid.New(), FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Status: models.BillStatusUnpaid},
	}

	suite.mockBillRepo.On("ListByOwner", ctx, suite.ownerID, 50, 0).Return(bills, nil)

	unpaid := models.BillStatusUnpaid
	result, err := suite.service.ListForOwner(ctx, suite.ownerID, &unpaid, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	for _, bill := range result {
		assert.Equal(suite.T(), models.BillStatusUnpaid, bill.Status)
	}
}

func (suite *BillingServiceTestSuite) TestGenerateReceipt_RejectsUnpaidBill() {
	ctx := context.Background()
	billID := uuid.New()
	unpaid := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Amount: 2500, Status: models.BillStatusUnpaid}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(unpaid, nil)

	bill, err := suite.service.GenerateReceipt(ctx, billID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), bill)
	assert.Contains(suite.T(), err.Error(), "paid bills")
}

func (suite *BillingServiceTestSuite) TestGenerateReceipt_RendersAndStores() {
	ctx := context.Background()
	billID := uuid.New()
	paid := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Amount: 2500, Status: models.BillStatusPaid}
	society := &models.Society{ID: suite.flat.SocietyID, Name: "Green Meadows", Address: "12 Lake View Road, Pune"}
	owner := &models.User{ID: suite.ownerID, FirstName: "Jane", LastName: "Doe", Role: models.RoleOwner}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(paid, nil)
	suite.mockFlatRepo.On("GetByID", ctx, suite.flat.ID).Return(suite.flat, nil)
	suite.mockSocietyRepo.On("GetByID", ctx, suite.flat.SocietyID).Return(society, nil)
	suite.mockUserRepo.On("GetByID", ctx, suite.ownerID).Return(owner, nil)
	suite.mockStorage.On("UploadReceipt", ctx, "receipts", billID.String()+".pdf", mock.Anything, mock.AnythingOfType("int64")).Return(nil)
	suite.mockBillRepo.On("SetReceiptObject", ctx, billID, billID.String()+".pdf").Return(nil)

	bill, err := suite.service.GenerateReceipt(ctx, billID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), bill.ReceiptObject)
	assert.Equal(suite.T(), billID.String()+".pdf", *bill.ReceiptObject)
}

func (suite *BillingServiceTestSuite) TestGenerateReceipt_ReusesExistingObject() {
	ctx := context.Background()
	billID := uuid.New()
	object := billID.String() + ".pdf"
	paid := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Month: "MARCH", Year: 2025, Amount: 2500, Status: models.BillStatusPaid, ReceiptObject: &object}

	// No storage or repo write expectations: the stored object is reused
	suite.mockBillRepo.On("GetByID", ctx, billID).Return(paid, nil)

	bill, err := suite.service.GenerateReceipt(ctx, billID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), object, *bill.ReceiptObject)
}

func (suite *BillingServiceTestSuite) TestReceiptURL_AdminAllowed() {
	ctx := context.Background()
	billID := uuid.New()
	object := billID.String() + ".pdf"
	bill := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Status: models.BillStatusPaid, ReceiptObject: &object}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(bill, nil)
	suite.mockStorage.On("GetPresignedURL", ctx, "receipts", object, 15*time.Minute).Return("https://storage.example.com/receipts/signed", nil)

	url, err := suite.service.ReceiptURL(ctx, uuid.New(), models.RoleAdmin, billID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://storage.example.com/receipts/signed", url)
}

func (suite *BillingServiceTestSuite) TestReceiptURL_OwnerOfFlatAllowed() {
	ctx := context.Background()
	billID := uuid.New()
	object := billID.String() + ".pdf"
	bill := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Status: models.BillStatusPaid, ReceiptObject: &object}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(bill, nil)
	suite.mockFlatRepo.On("GetByID", ctx, suite.flat.ID).Return(suite.flat, nil)
	suite.mockStorage.On("GetPresignedURL", ctx, "receipts", object, 15*time.Minute).Return("https://storage.example.com/receipts/signed", nil)

	url, err := suite.service.ReceiptURL(ctx, suite.ownerID, models.RoleOwner, billID)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), url)
}

func (suite *BillingServiceTestSuite) TestReceiptURL_OtherOwnerForbidden() {
	ctx := context.Background()
	billID := uuid.New()
	object := billID.String() + ".pdf"
	bill := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Status: models.BillStatusPaid, ReceiptObject: &object}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(bill, nil)
	suite.mockFlatRepo.On("GetByID", ctx, suite.flat.ID).Return(suite.flat, nil)

	url, err := suite.service.ReceiptURL(ctx, uuid.New(), models.RoleOwner, billID)
	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), url)
	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
}

func (suite *BillingServiceTestSuite) TestReceiptURL_ActiveTenantAllowed() {
	ctx := context.Background()
	billID := uuid.New()
	tenantID := uuid.New()
	object := billID.String() + ".pdf"
	bill := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Status: models.BillStatusPaid, ReceiptObject: &object}
	tenancy := &models.Tenancy{ID: uuid.New(), FlatID: suite.flat.ID, TenantID: tenantID, Active: true}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(bill, nil)
	suite.mockTenancyRepo.On("GetActiveByFlat", ctx, suite.flat.ID).Return(tenancy, nil)
	suite.mockStorage.On("GetPresignedURL", ctx, "receipts", object, 15*time.Minute).Return("https://storage.example.com/receipts/signed", nil)

	url, err := suite.service.ReceiptURL(ctx, tenantID, models.RoleTenant, billID)
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), url)
}

func (suite *BillingServiceTestSuite) TestReceiptURL_NonOccupantTenantForbidden() {
	ctx := context.Background()
	billID := uuid.New()
	object := billID.String() + ".pdf"
	bill := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Status: models.BillStatusPaid, ReceiptObject: &object}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(bill, nil)
	suite.mockTenancyRepo.On("GetActiveByFlat", ctx, suite.flat.ID).Return(nil, pgx.ErrNoRows)

	url, err := suite.service.ReceiptURL(ctx, uuid.New(), models.RoleTenant, billID)
	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), url)
	assert.ErrorIs(suite.T(), err, common.ErrForbidden)
}

func (suite *BillingServiceTestSuite) TestReceiptURL_MissingReceiptNotFound() {
	ctx := context.Background()
	billID := uuid.New()
	bill := &models.MaintenanceBill{ID: billID, FlatID: suite.flat.ID, Status: models.BillStatusPaid}

	suite.mockBillRepo.On("GetByID", ctx, billID).Return(bill, nil)

	url, err := suite.service.ReceiptURL(ctx, uuid.New(), models.RoleAdmin, billID)
	assert.Error(suite.T(), err)
	assert.Empty(suite.T(), url)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}
