package repositories

import (
	"context"
	"testing"
	"time"

	"societyhub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BillRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    BillRepository
	flatID  uuid.UUID
	ownerID uuid.UUID
	billID  uuid.UUID
	context context.Context
}

func (suite *BillRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewBillRepo(mock)
	suite.flatID = uuid.New()
	suite.ownerID = uuid.New()
	suite.billID = uuid.New()
	suite.context = context.Background()
}

func (suite *BillRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestBillRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BillRepoTestSuite))
}

func (suite *BillRepoTestSuite) TestCreate_Success() {
	bill := &models.MaintenanceBill{
		ID:     suite.billID,
		FlatID: suite.flatID,
		Month:  "MARCH",
		Year:   2025,
		Amount: 2500,
		Status: models.BillStatusUnpaid,
	}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM maintenance_bills WHERE flat_id = \$1 AND month = \$2 AND year = \$3`).
		WithArgs(bill.FlatID, bill.Month, bill.Year).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	suite.mock.ExpectExec(`
		INSERT INTO maintenance_bills \(id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(bill.ID, bill.FlatID, bill.Month, bill.Year, bill.Amount, bill.Status, bill.ReceiptObject).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, bill)
	assert.NoError(suite.T(), err)
}

func (suite *BillRepoTestSuite) TestCreate_DuplicatePeriod() {
	bill := &models.MaintenanceBill{
		ID:     suite.billID,
		FlatID: suite.flatID,
		Month:  "MARCH",
		Year:   2025,
		Amount: 2500,
		Status: models.BillStatusUnpaid,
	}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM maintenance_bills WHERE flat_id = \$1 AND month = \$2 AND year = \$3`).
		WithArgs(bill.FlatID, bill.Month, bill.Year).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	err := suite.repo.Create(suite.context, bill)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already exists")
}

func (suite *BillRepoTestSuite) TestGetByID_Success() {
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at FROM maintenance_bills WHERE id = \$1`).
		WithArgs(suite.billID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "flat_id", "month", "year", "amount", "status", "receipt_object", "created_at", "updated_at"}).
			AddRow(suite.billID, suite.flatID, "APRIL", 2025, 3000.0, models.BillStatusUnpaid, (*string)(nil), now, now))

	result, err := suite.repo.GetByID(suite.context, suite.billID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.billID, result.ID)
	assert.Equal(suite.T(), "APRIL", result.Month)
	assert.Equal(suite.T(), models.BillStatusUnpaid, result.Status)
}

func (suite *BillRepoTestSuite) TestGetByFlatPeriod_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at FROM maintenance_bills WHERE flat_id = \$1 AND month = \$2 AND year = \$3`).
		WithArgs(suite.flatID, "JUNE", 2025).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByFlatPeriod(suite.context, suite.flatID, "JUNE", 2025)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *BillRepoTestSuite) TestUpdateStatus_Success() {
	suite.mock.ExpectExec(`UPDATE maintenance_bills SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(models.BillStatusPaid, suite.billID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.billID, models.BillStatusPaid)
	assert.NoError(suite.T(), err)
}

func (suite *BillRepoTestSuite) TestSetReceiptObject_Success() {
	suite.mock.ExpectExec(`UPDATE maintenance_bills SET receipt_object = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("receipts/receipt-123.pdf", suite.billID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SetReceiptObject(suite.context, suite.billID, "receipts/receipt-123.pdf")
	assert.NoError(suite.T(), err)
}

func (suite *BillRepoTestSuite) TestListByOwner_Success() {
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "flat_id", "month", "year", "amount", "status", "receipt_object", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.flatID, "MAY", 2025, 2500.0, models.BillStatusPaid, (*string)(nil), now, now).
		AddRow(uuid.New(), suite.flatID, "APRIL", 2025, 2500.0, models.BillStatusUnpaid, (*string)(nil), now, now)

	suite.mock.ExpectQuery(`
		SELECT b.id, b.flat_id, b.month, b.year, b.amount, b.status, b.receipt_object, b.created_at, b.updated_at
		FROM maintenance_bills b
		JOIN flats f ON f.id = b.flat_id
		WHERE f.owner_id = \$1
		ORDER BY b.created_at DESC
		LIMIT \$2 OFFSET \$3
	`).WithArgs(suite.ownerID, 50, 0).
		WillReturnRows(rows)

	result, err := suite.repo.ListByOwner(suite.context, suite.ownerID, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), models.BillStatusPaid, result[0].Status)
	assert.Equal(suite.T(), models.BillStatusUnpaid, result[1].Status)
}

func (suite *BillRepoTestSuite) TestListRecentByStatus_Success() {
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "flat_id", "month", "year", "amount", "status", "receipt_object", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.flatID, "MAY", 2025, 2500.0, models.BillStatusUnpaid, (*string)(nil), now, now)

	suite.mock.ExpectQuery(`
		SELECT id, flat_id, month, year, amount, status, receipt_object, created_at, updated_at
		FROM maintenance_bills
		WHERE status = \$1
		ORDER BY created_at DESC
		LIMIT \$2
	`).WithArgs(models.BillStatusUnpaid, 3).
		WillReturnRows(rows)

	result, err := suite.repo.ListRecentByStatus(suite.context, models.BillStatusUnpaid, 3)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.Equal(suite.T(), models.BillStatusUnpaid, result[0].Status)
}

func (suite *BillRepoTestSuite) TestCountByOwnerAndStatus_Success() {
	suite.mock.ExpectQuery(`
		SELECT COUNT\(\*\)
		FROM maintenance_bills b
		JOIN flats f ON f.id = b.flat_id
		WHERE f.owner_id = \$1 AND b.status = \$2
	`).WithArgs(suite.ownerID, models.BillStatusUnpaid).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := suite.repo.CountByOwnerAndStatus(suite.context, suite.ownerID, models.BillStatusUnpaid)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, count)
}

func (suite *BillRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM maintenance_bills WHERE id = \$1`).
		WithArgs(suite.billID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.billID)
	assert.NoError(suite.T(), err)
}
