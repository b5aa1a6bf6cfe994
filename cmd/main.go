package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"societyhub/internal/caching"
	"societyhub/internal/config"
	"societyhub/internal/handlers"
	"societyhub/internal/jobs"
	"societyhub/internal/jobs/background"
	"societyhub/internal/middleware"
	"societyhub/internal/models"
	"societyhub/internal/repositories"
	"societyhub/internal/services"
	"societyhub/pkg/database"
)

const version = "1.0.0"

func main() {
	// .env is optional; deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create database connection pool
	pool, err := database.NewPool(context.Background(), cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Initialize object storage for receipt PDFs
	storageSvc, err := services.NewMinioStorageService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(context.Background(), cfg.Storage.ReceiptBucket); err != nil {
		log.Printf("WARNING: receipt bucket not ready: %v", err)
	}

	notificationSvc := services.NewSMTPNotificationService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	societyRepo := repositories.NewSocietyRepo(pool)
	flatRepo := repositories.NewFlatRepo(pool)
	tenancyRepo := repositories.NewTenancyRepo(pool)
	billRepo := repositories.NewBillRepo(pool)

	// Create services
	authSvc := services.NewAuthService(cacheSvc, cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	ownerSvc := services.NewOwnerService(userRepo, flatRepo, notificationSvc, cacheSvc)
	tenancySvc := services.NewTenancyService(tenancyRepo, flatRepo, userRepo, notificationSvc, cacheSvc)
	societySvc := services.NewSocietyService(societyRepo, flatRepo, cacheSvc)
	flatSvc := services.NewFlatService(flatRepo, societyRepo, userRepo, tenancyRepo, billRepo, cacheSvc)
	billingSvc := services.NewBillingService(billRepo, flatRepo, societyRepo, userRepo, tenancyRepo, storageSvc, cacheSvc, cfg.Storage.ReceiptBucket)
	dashboardSvc := services.NewDashboardService(societyRepo, flatRepo, userRepo, tenancyRepo, billRepo, cacheSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo, cacheSvc)
	ownerHandlers := handlers.NewOwnerHandlers(ownerSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenancySvc)
	societyHandlers := handlers.NewSocietyHandlers(societySvc)
	flatHandlers := handlers.NewFlatHandlers(flatSvc, tenancyRepo, dashboardSvc)
	billHandlers := handlers.NewBillHandlers(billingSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storageSvc, cfg.Storage.ReceiptBucket)

	// Background jobs: daily bill reminders and dashboard cache warmup
	reminderSvc := jobs.NewBillReminderService(userRepo, flatRepo, billRepo, notificationSvc)
	scheduler := background.NewJobScheduler(reminderSvc, dashboardSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	jobHandlers := handlers.NewJobHandlers(reminderSvc, scheduler)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// API routes
	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1")

	// Authentication routes (no JWT required for login/refresh)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Protected routes (require a valid, unrevoked JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.NewJWTConfig(authSvc)))

	protected.POST("/auth/logout", authHandlers.Logout)
	protected.GET("/me", authHandlers.Me)
	protected.GET("/dashboard", dashboardHandlers.GetDashboard)
	protected.GET("/bills/:id/receipt", billHandlers.GetReceiptURL)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))

	admin.GET("/owners", ownerHandlers.ListOwners)
	admin.POST("/owners", ownerHandlers.CreateOwner)
	admin.GET("/owners/:id", ownerHandlers.GetOwner)
	admin.PUT("/owners/:id", ownerHandlers.UpdateOwner)
	admin.PUT("/owners/:id/status", ownerHandlers.UpdateOwnerStatus)
	admin.DELETE("/owners/:id", ownerHandlers.DeleteOwner)

	admin.GET("/societies", societyHandlers.ListSocieties)
	admin.POST("/societies", societyHandlers.CreateSociety)
	admin.GET("/societies/:id", societyHandlers.GetSociety)
	admin.PUT("/societies/:id", societyHandlers.UpdateSociety)
	admin.DELETE("/societies/:id", societyHandlers.DeleteSociety)

	admin.GET("/flats", flatHandlers.ListFlats)
	admin.POST("/flats", flatHandlers.CreateFlat)
	admin.GET("/flats/:id", flatHandlers.GetFlat)
	admin.PUT("/flats/:id", flatHandlers.UpdateFlat)
	admin.DELETE("/flats/:id", flatHandlers.DeleteFlat)

	admin.GET("/bills", billHandlers.ListBills)
	admin.POST("/bills", billHandlers.CreateBill)
	admin.GET("/bills/:id", billHandlers.GetBill)
	admin.PUT("/bills/:id", billHandlers.UpdateBill)
	admin.DELETE("/bills/:id", billHandlers.DeleteBill)
	admin.POST("/bills/:id/pay", billHandlers.PayBill)
	admin.PUT("/bills/:id/status", billHandlers.UpdateBillStatus)
	admin.POST("/bills/:id/receipt", billHandlers.GenerateReceipt)

	admin.GET("/jobs", jobHandlers.GetJobStatus)
	admin.POST("/jobs/reminders", jobHandlers.TriggerBillReminders)

	// Owner routes
	owner := protected.Group("/owner", middleware.RequireRole(models.RoleOwner))

	owner.GET("/tenants", tenantHandlers.ListTenants)
	owner.POST("/tenants", tenantHandlers.CreateTenant)
	owner.GET("/tenants/:id", tenantHandlers.GetTenant)
	owner.PUT("/tenants/:id", tenantHandlers.UpdateTenant)
	owner.PUT("/tenants/:id/status", tenantHandlers.UpdateTenantStatus)
	owner.DELETE("/tenants/:id", tenantHandlers.DeleteTenant)
	owner.GET("/flats", flatHandlers.ListOwnerFlats)
	owner.GET("/bills", billHandlers.ListOwnerBills)

	// Tenant routes
	tenant := protected.Group("/tenant", middleware.RequireRole(models.RoleTenant))
	tenant.GET("/flat", flatHandlers.GetTenantFlat)

	log.Printf("🚀 %s v%s starting on port %d", cfg.Server.AppName, version, cfg.Server.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}
