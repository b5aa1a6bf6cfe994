package background

import (
	"context"
	"log"
	"sync"
	"time"

	"societyhub/internal/jobs"
	"societyhub/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs
type JobScheduler struct {
	scheduler    gocron.Scheduler
	reminderSvc  *jobs.BillReminderService
	dashboardSvc services.DashboardService
	jobRegistry  map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(reminderSvc *jobs.BillReminderService, dashboardSvc services.DashboardService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		reminderSvc:  reminderSvc,
		dashboardSvc: dashboardSvc,
		jobRegistry:  make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Unpaid-bill reminder emails - daily at 08:00
	reminderJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(js.sendBillReminders, context.Background()),
		gocron.WithName("unpaid-bill-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create bill reminder job: %v", err)
	} else {
		js.jobRegistry["bill-reminders"] = reminderJob
	}

	// Admin dashboard warm-up - every 5 minutes, so the snapshot is
	// usually served from cache even after quiet periods
	warmupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.warmAdminDashboard, context.Background()),
		gocron.WithName("admin-dashboard-warmup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create dashboard warmup job: %v", err)
	} else {
		js.jobRegistry["dashboard-warmup"] = warmupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobRegistry))
}

// sendBillReminders collects every owner's unpaid bills and mails summaries
func (js *JobScheduler) sendBillReminders(ctx context.Context) error {
	log.Printf("Starting unpaid-bill reminder run")

	reminders, err := js.reminderSvc.CollectUnpaidBills(ctx)
	if err != nil {
		log.Printf("Bill reminder collection failed: %v", err)
		return err
	}

	js.reminderSvc.SendReminders(ctx, reminders)

	log.Printf("Completed unpaid-bill reminder run for %d owners", len(reminders))
	return nil
}

// warmAdminDashboard recomputes the admin dashboard snapshot into the cache
func (js *JobScheduler) warmAdminDashboard(ctx context.Context) error {
	if _, err := js.dashboardSvc.AdminDashboard(ctx); err != nil {
		log.Printf("Admin dashboard warmup failed: %v", err)
		return err
	}
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobRegistry)
	names := make([]string, 0, len(js.jobRegistry))

	for name := range js.jobRegistry {
		names = append(names, name)
	}

	status["jobs"] = names

	return status
}
