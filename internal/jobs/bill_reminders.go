package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"

	"societyhub/internal/models"
	"societyhub/internal/repositories"
	"societyhub/internal/services"
)

// BillReminderService assembles and sends the daily unpaid-bill summaries.
// Delivery is best-effort: one owner's failure never blocks the rest.
type BillReminderService struct {
	userRepo        repositories.UserRepository
	flatRepo        repositories.FlatRepository
	billRepo        repositories.BillRepository
	notificationSvc services.NotificationService
}

// OwnerReminder is one owner's outstanding maintenance, ready to mail.
type OwnerReminder struct {
	Owner    *models.User
	Bills    []*models.MaintenanceBill
	TotalDue float64
}

// NewBillReminderService creates a new bill reminder service
func NewBillReminderService(userRepo repositories.UserRepository, flatRepo repositories.FlatRepository, billRepo repositories.BillRepository, notificationSvc services.NotificationService) *BillReminderService {
	return &BillReminderService{
		userRepo:        userRepo,
		flatRepo:        flatRepo,
		billRepo:        billRepo,
		notificationSvc: notificationSvc,
	}
}

// CollectUnpaidBills gathers every active owner's unpaid bills. Owners with
// nothing outstanding are skipped.
func (s *BillReminderService) CollectUnpaidBills(ctx context.Context) ([]OwnerReminder, error) {
	owners, err := s.userRepo.ListByRole(ctx, models.RoleOwner, 1000, 0)
	if err != nil {
		log.Printf("Failed to list owners for bill reminders: %v", err)
		return nil, err
	}

	var reminders []OwnerReminder
	for _, owner := range owners {
		if !owner.Active {
			continue
		}

		bills, err := s.billRepo.ListByOwner(ctx, owner.ID, 500, 0)
		if err != nil {
			log.Printf("Failed to list bills for owner %s: %v", owner.ID.String(), err)
			continue
		}

		var unpaid []*models.MaintenanceBill
		var total float64
		for _, bill := range bills {
			if bill.Status == models.BillStatusUnpaid {
				unpaid = append(unpaid, bill)
				total += bill.Amount
			}
		}

		if len(unpaid) == 0 {
			continue
		}

		reminders = append(reminders, OwnerReminder{
			Owner:    owner,
			Bills:    unpaid,
			TotalDue: total,
		})
	}

	return reminders, nil
}

// SendReminders emails each owner their outstanding summary
func (s *BillReminderService) SendReminders(ctx context.Context, reminders []OwnerReminder) {
	if len(reminders) == 0 {
		log.Println("No unpaid bills, skipping reminder emails")
		return
	}

	sent := 0
	for _, reminder := range reminders {
		body, err := s.renderReminderBody(ctx, reminder)
		if err != nil {
			log.Printf("Failed to render reminder for owner %s: %v", reminder.Owner.ID.String(), err)
			continue
		}

		subject := fmt.Sprintf("Maintenance reminder: %d unpaid bill(s)", len(reminder.Bills))
		if err := s.notificationSvc.SendEmail(ctx, reminder.Owner.Email, subject, body); err != nil {
			log.Printf("Failed to send reminder to %s: %v", reminder.Owner.Email, err)
			continue
		}
		sent++
	}

	log.Printf("Sent %d of %d unpaid-bill reminders", sent, len(reminders))
}

// renderReminderBody lists each unpaid bill with its flat number and period
func (s *BillReminderService) renderReminderBody(ctx context.Context, reminder OwnerReminder) (string, error) {
	flats := make(map[string]*models.Flat)

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", reminder.Owner.FullName())
	fmt.Fprintf(&b, "The following maintenance bills are outstanding:\n\n")

	for _, bill := range reminder.Bills {
		flat, ok := flats[bill.FlatID.String()]
		if !ok {
			loaded, err := s.flatRepo.GetByID(ctx, bill.FlatID)
			if err != nil {
				return "", err
			}
			flat = loaded
			flats[bill.FlatID.String()] = flat
		}
		fmt.Fprintf(&b, "- Flat %s, %s: %.2f\n", flat.Number, bill.Period(), bill.Amount)
	}

	fmt.Fprintf(&b, "\nTotal due: %.2f\n\n", reminder.TotalDue)
	fmt.Fprintf(&b, "Please settle these at your earliest convenience.\n")

	return b.String(), nil
}
