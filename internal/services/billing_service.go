package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"societyhub/internal/caching"
	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"
)

// Presigned receipt links stay valid long enough to download, no longer.
const receiptURLExpiry = 15 * time.Minute

// BillInput carries the fields an administrator supplies when raising a
// maintenance bill.
type BillInput struct {
	FlatID uuid.UUID `json:"flat_id"`
	Month  string    `json:"month"`
	Year   int       `json:"year"`
	Amount float64   `json:"amount"`
}

// BillUpdateInput carries the period and amount corrections allowed after a
// bill exists. The flat a bill belongs to never changes.
type BillUpdateInput struct {
	Month  string  `json:"month"`
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// BillingService raises and settles maintenance bills and produces payment
// receipts for settled ones.
type BillingService interface {
	Generate(ctx context.Context, input BillInput) (*models.MaintenanceBill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error)
	Update(ctx context.Context, id uuid.UUID, input BillUpdateInput) (*models.MaintenanceBill, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.BillStatus) (*models.MaintenanceBill, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status *models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error)
	ListByFlat(ctx context.Context, flatID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, status *models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error)
	GenerateReceipt(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error)
	ReceiptURL(ctx context.Context, callerID uuid.UUID, role models.Role, id uuid.UUID) (string, error)
}

type billingService struct {
	billRepo      repositories.BillRepository
	flatRepo      repositories.FlatRepository
	societyRepo   repositories.SocietyRepository
	userRepo      repositories.UserRepository
	tenancyRepo   repositories.TenancyRepository
	storageSvc    StorageService
	cacheSvc      caching.CacheService
	receiptBucket string
}

func NewBillingService(billRepo repositories.BillRepository, flatRepo repositories.FlatRepository, societyRepo repositories.SocietyRepository, userRepo repositories.UserRepository, tenancyRepo repositories.TenancyRepository, storageSvc StorageService, cacheSvc caching.CacheService, receiptBucket string) BillingService {
	return &billingService{
		billRepo:      billRepo,
		flatRepo:      flatRepo,
		societyRepo:   societyRepo,
		userRepo:      userRepo,
		tenancyRepo:   tenancyRepo,
		storageSvc:    storageSvc,
		cacheSvc:      cacheSvc,
		receiptBucket: receiptBucket,
	}
}

func validateBillPeriod(month *string, year int, amount float64) error {
	*month = strings.ToUpper(strings.TrimSpace(*month))
	if !models.ValidBillMonth(*month) {
		return common.NewValidationError("month must be an uppercase English month name, JANUARY through DECEMBER")
	}
	if err := common.ValidateBillYear(year); err != nil {
		return common.NewValidationError(err.Error())
	}
	if amount < 1 {
		return common.NewValidationError("amount must be at least 1")
	}
	return nil
}

// Generate raises an UNPAID bill against a flat. The flat must have an
// assigned owner; unowned flats have nobody to bill.
func (s *billingService) Generate(ctx context.Context, input BillInput) (*models.MaintenanceBill, error) {
	if err := validateBillPeriod(&input.Month, input.Year, input.Amount); err != nil {
		return nil, err
	}

	flat, err := s.flatRepo.GetByID(ctx, input.FlatID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("flat not found")
		}
		return nil, common.NewInternalError("failed to load flat", err)
	}
	if flat.OwnerID == nil {
		return nil, common.NewValidationError("flat has no assigned owner to bill")
	}

	if existing, err := s.billRepo.GetByFlatPeriod(ctx, flat.ID, input.Month, input.Year); err == nil && existing != nil {
		return nil, common.NewConflictError(fmt.Sprintf("bill for %s %d already exists for this flat", input.Month, input.Year))
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewInternalError("failed to check existing bills", err)
	}

	bill := &models.MaintenanceBill{
		ID:     uuid.New(),
		FlatID: flat.ID,
		Month:  input.Month,
		Year:   input.Year,
		Amount: input.Amount,
		Status: models.BillStatusUnpaid,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, common.NewInternalError("failed to create bill", err)
	}

	s.invalidateDashboards(ctx)
	return bill, nil
}

func (s *billingService) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("bill not found")
		}
		return nil, common.NewInternalError("failed to load bill", err)
	}
	return bill, nil
}

func (s *billingService) Update(ctx context.Context, id uuid.UUID, input BillUpdateInput) (*models.MaintenanceBill, error) {
	if err := validateBillPeriod(&input.Month, input.Year, input.Amount); err != nil {
		return nil, err
	}

	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if bill.Month != input.Month || bill.Year != input.Year {
		if dup, err := s.billRepo.GetByFlatPeriod(ctx, bill.FlatID, input.Month, input.Year); err == nil && dup != nil && dup.ID != id {
			return nil, common.NewConflictError(fmt.Sprintf("bill for %s %d already exists for this flat", input.Month, input.Year))
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewInternalError("failed to check existing bills", err)
		}
	}

	bill.Month = input.Month
	bill.Year = input.Year
	bill.Amount = input.Amount

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, common.NewInternalError("failed to update bill", err)
	}

	s.invalidateDashboards(ctx)
	return bill, nil
}

// MarkPaid settles a bill. Settling an already settled bill is a no-op, not
// an error.
func (s *billingService) MarkPaid(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error) {
	return s.SetStatus(ctx, id, models.BillStatusPaid)
}

func (s *billingService) SetStatus(ctx context.Context, id uuid.UUID, status models.BillStatus) (*models.MaintenanceBill, error) {
	if !status.Valid() {
		return nil, common.NewValidationError("status must be PAID or UNPAID")
	}

	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill.Status == status {
		return bill, nil
	}

	if err := s.billRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, common.NewInternalError("failed to update bill status", err)
	}
	bill.Status = status

	s.invalidateDashboards(ctx)
	return bill, nil
}

func (s *billingService) Delete(ctx context.Context, id uuid.UUID) error {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if bill.ReceiptObject != nil {
		if err := s.storageSvc.DeleteReceipt(ctx, s.receiptBucket, *bill.ReceiptObject); err != nil {
			log.Printf("Failed to delete receipt object %s: %v", *bill.ReceiptObject, err)
		}
	}

	if err := s.billRepo.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete bill", err)
	}

	s.invalidateDashboards(ctx)
	return nil
}

func (s *billingService) List(ctx context.Context, status *models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error) {
	var (
		bills []*models.MaintenanceBill
		err   error
	)
	if status != nil {
		bills, err = s.billRepo.ListByStatus(ctx, *status, limit, offset)
	} else {
		bills, err = s.billRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, common.NewInternalError("failed to list bills", err)
	}
	return bills, nil
}

func (s *billingService) ListByFlat(ctx context.Context, flatID uuid.UUID, limit, offset int) ([]*models.MaintenanceBill, error) {
	bills, err := s.billRepo.ListByFlat(ctx, flatID, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list bills", err)
	}
	return bills, nil
}

func (s *billingService) ListForOwner(ctx context.Context, ownerID uuid.UUID, status *models.BillStatus, limit, offset int) ([]*models.MaintenanceBill, error) {
	bills, err := s.billRepo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, common.NewInternalError("failed to list bills", err)
	}
	if status == nil {
		return bills, nil
	}

	filtered := make([]*models.MaintenanceBill, 0, len(bills))
	for _, bill := range bills {
		if bill.Status == *status {
			filtered = append(filtered, bill)
		}
	}
	return filtered, nil
}

// GenerateReceipt renders a payment receipt PDF for a settled bill and
// stores it in object storage. Repeated calls reuse the stored receipt.
func (s *billingService) GenerateReceipt(ctx context.Context, id uuid.UUID) (*models.MaintenanceBill, error) {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill.Status != models.BillStatusPaid {
		return nil, common.NewValidationError("receipts are only available for paid bills")
	}
	if bill.ReceiptObject != nil {
		return bill, nil
	}

	flat, err := s.flatRepo.GetByID(ctx, bill.FlatID)
	if err != nil {
		return nil, common.NewInternalError("failed to load flat", err)
	}
	society, err := s.societyRepo.GetByID(ctx, flat.SocietyID)
	if err != nil {
		return nil, common.NewInternalError("failed to load society", err)
	}

	ownerName := "Unassigned"
	if flat.OwnerID != nil {
		if owner, err := s.userRepo.GetByID(ctx, *flat.OwnerID); err == nil {
			ownerName = owner.FullName()
		}
	}

	pdfBytes, err := renderReceiptPDF(bill, flat, society, ownerName)
	if err != nil {
		return nil, common.NewInternalError("failed to render receipt", err)
	}

	objectName := fmt.Sprintf("%s.pdf", bill.ID)
	if err := s.storageSvc.UploadReceipt(ctx, s.receiptBucket, objectName, bytes.NewReader(pdfBytes), int64(len(pdfBytes))); err != nil {
		return nil, common.NewInternalError("failed to store receipt", err)
	}

	if err := s.billRepo.SetReceiptObject(ctx, id, objectName); err != nil {
		return nil, common.NewInternalError("failed to record receipt", err)
	}
	bill.ReceiptObject = &objectName
	return bill, nil
}

// ReceiptURL returns a short-lived download link for a bill's receipt.
// Admins may fetch any receipt; owners only for their own flats; tenants
// only while they actively occupy the flat.
func (s *billingService) ReceiptURL(ctx context.Context, callerID uuid.UUID, role models.Role, id uuid.UUID) (string, error) {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if bill.ReceiptObject == nil {
		return "", common.NewNotFoundError("receipt has not been generated for this bill")
	}

	switch role {
	case models.RoleAdmin:
	case models.RoleOwner:
		flat, err := s.flatRepo.GetByID(ctx, bill.FlatID)
		if err != nil {
			return "", common.NewInternalError("failed to load flat", err)
		}
		if flat.OwnerID == nil || *flat.OwnerID != callerID {
			return "", common.NewForbiddenError("bill belongs to another owner's flat")
		}
	case models.RoleTenant:
		tenancy, err := s.tenancyRepo.GetActiveByFlat(ctx, bill.FlatID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", common.NewForbiddenError("bill belongs to a flat you do not occupy")
			}
			return "", common.NewInternalError("failed to load tenancy", err)
		}
		if tenancy.TenantID != callerID {
			return "", common.NewForbiddenError("bill belongs to a flat you do not occupy")
		}
	default:
		return "", common.NewForbiddenError("role cannot access receipts")
	}

	url, err := s.storageSvc.GetPresignedURL(ctx, s.receiptBucket, *bill.ReceiptObject, receiptURLExpiry)
	if err != nil {
		return "", common.NewInternalError("failed to sign receipt URL", err)
	}
	return url, nil
}

func renderReceiptPDF(bill *models.MaintenanceBill, flat *models.Flat, society *models.Society, ownerName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "MAINTENANCE PAYMENT RECEIPT")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, society.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, society.Address)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Receipt No: %s", bill.ID.String()))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Flat: %s", flat.Number))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Owner: %s", ownerName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", time.Now().Format("02-Jan-2006")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Period", "Amount"}
	colWidths := []float64{90, 40, 40}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	pdf.CellFormat(colWidths[0], 8, "Maintenance charges", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, bill.Period(), "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%.2f", bill.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "AMOUNT PAID:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", bill.Amount), "", 0, "R", false, 0, "")
	pdf.Ln(15)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "This is a computer generated receipt and does not require a signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *billingService) invalidateDashboards(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDashboards(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}
