package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type BillStatus string

const (
	BillStatusPaid   BillStatus = "PAID"
	BillStatusUnpaid BillStatus = "UNPAID"
)

// ParseBillStatus converts a stored status string into a BillStatus.
func ParseBillStatus(s string) (BillStatus, error) {
	switch BillStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case BillStatusPaid:
		return BillStatusPaid, nil
	case BillStatusUnpaid:
		return BillStatusUnpaid, nil
	default:
		return "", fmt.Errorf("unknown bill status %q", s)
	}
}

func (s BillStatus) Valid() bool {
	return s == BillStatusPaid || s == BillStatusUnpaid
}

// BillMonths lists the billing months in calendar order. Bills store the
// month name rather than a number so statements read naturally.
var BillMonths = []string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// ValidBillMonth reports whether m is one of the twelve billing months.
func ValidBillMonth(m string) bool {
	for _, bm := range BillMonths {
		if m == bm {
			return true
		}
	}
	return false
}

// MaintenanceBill is one month of maintenance charges for a flat.
// ReceiptObject holds the storage key of the generated receipt PDF once
// the bill has been paid and a receipt produced.
type MaintenanceBill struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	FlatID        uuid.UUID  `json:"flat_id" db:"flat_id"`
	Month         string     `json:"month" db:"month"`
	Year          int        `json:"year" db:"year"`
	Amount        float64    `json:"amount" db:"amount"`
	Status        BillStatus `json:"status" db:"status"`
	ReceiptObject *string    `json:"receipt_object,omitempty" db:"receipt_object"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Period renders the billing period as "MONTH YEAR" for receipts and emails.
func (b *MaintenanceBill) Period() string {
	return fmt.Sprintf("%s %d", b.Month, b.Year)
}
