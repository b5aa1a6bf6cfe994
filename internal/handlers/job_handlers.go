package handlers

import (
	"log"
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/jobs"
	"societyhub/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes the background job machinery to administrators:
// scheduler status plus a manual trigger for the reminder sweep, so ops
// does not have to wait for the daily run after fixing SMTP trouble.
type JobHandlers struct {
	reminderSvc *jobs.BillReminderService
	scheduler   *background.JobScheduler
}

func NewJobHandlers(reminderSvc *jobs.BillReminderService, scheduler *background.JobScheduler) *JobHandlers {
	return &JobHandlers{
		reminderSvc: reminderSvc,
		scheduler:   scheduler,
	}
}

// GetJobStatus handler
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.GetJobStatus())
}

// TriggerBillReminders runs the unpaid-bill reminder sweep immediately.
func (h *JobHandlers) TriggerBillReminders(c echo.Context) error {
	ctx := c.Request().Context()

	reminders, err := h.reminderSvc.CollectUnpaidBills(ctx)
	if err != nil {
		log.Printf("ERROR: manual reminder sweep failed: %v", err)
		return common.SendServerError(c, "Failed to collect unpaid bills")
	}

	h.reminderSvc.SendReminders(ctx, reminders)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "Reminder sweep completed",
		"owners_notified": len(reminders),
	})
}
