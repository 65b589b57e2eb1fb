package routes

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/igestaos-eng/barbearia/internal/audit"
	"github.com/igestaos-eng/barbearia/internal/cache"
	"github.com/igestaos-eng/barbearia/internal/config"
	"github.com/igestaos-eng/barbearia/internal/handlers"
	infraRepo "github.com/igestaos-eng/barbearia/internal/infra/repository"
	"github.com/igestaos-eng/barbearia/internal/media"
	"github.com/igestaos-eng/barbearia/internal/middleware"
	"github.com/igestaos-eng/barbearia/internal/payments"
	ucAppointment "github.com/igestaos-eng/barbearia/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		cacheStore = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}

	paymentGateway, err := payments.NewGateway(cfg.MercadoPagoToken)
	if err != nil {
		log.Println("payments disabled:", err)
	}

	mediaUploader, err := media.NewUploader(cfg)
	if err != nil {
		log.Println("media uploads disabled:", err)
	}

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		auditDispatcher,
		cacheStore,
		cfg.Timezone,
		cfg.MinAdvanceMinutes,
	)

	transitionUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		auditDispatcher,
		cacheStore,
		cfg.Timezone,
	)

	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		auditDispatcher,
		cacheStore,
	)

	archiveUC := ucAppointment.NewArchiveAppointment(
		appointmentRepo,
		auditDispatcher,
		cacheStore,
		cfg.Timezone,
	)

	restoreUC := ucAppointment.NewRestoreAppointment(
		appointmentRepo,
		auditDispatcher,
		cacheStore,
	)

	reminderUC := ucAppointment.NewMarkReminderSent(
		appointmentRepo,
		auditDispatcher,
		cfg.Timezone,
	)

	dueRemindersUC := ucAppointment.NewListDueReminders(
		appointmentRepo,
		cfg.Timezone,
		time.Duration(cfg.ReminderLeadMinutes)*time.Minute,
	)

	conflictsUC := ucAppointment.NewConflictsFor(appointmentRepo)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, cacheStore)

	listByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo, cfg.Timezone)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo, cfg.Timezone)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	barberHandler := handlers.NewBarberHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		cfg.Timezone,
		bookUC,
		transitionUC,
		rescheduleUC,
		archiveUC,
		restoreUC,
		reminderUC,
		dueRemindersUC,
		conflictsUC,
		listByDateUC,
		listByMonthUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, paymentGateway, auditDispatcher)
	mediaHandler := handlers.NewMediaHandler(db, mediaUploader)

	publicHandler := handlers.NewPublicHandler(
		db,
		cfg.Timezone,
		bookUC,
		transitionUC,
		availabilityUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA (cliente final)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.GET("/appointments/:ref", publicHandler.GetByRef)
			publicAPI.PATCH("/appointments/:ref/cancel", publicHandler.CancelByRef)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA (painel admin)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/customers", customerHandler.List)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/barbers", barberHandler.List)
			secured.POST("/barbers", barberHandler.Create)
			secured.PATCH("/barbers/:id", barberHandler.Update)
			secured.POST("/barbers/:id/avatar", mediaHandler.UploadBarberAvatar)

			secured.GET("/barbers/:id/working-hours", workingHoursHandler.Get)
			secured.PUT("/barbers/:id/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/conflicts", appointmentHandler.Conflicts)
			secured.GET("/appointments/reminders/due", appointmentHandler.DueReminders)

			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/start", appointmentHandler.Start)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			secured.PATCH("/appointments/:id/archive", appointmentHandler.Archive)
			secured.PATCH("/appointments/:id/restore", appointmentHandler.Restore)

			secured.POST("/appointments/:id/reminder-sent", appointmentHandler.MarkReminderSent)
			secured.POST("/appointments/:id/deposit", paymentHandler.CreateDeposit)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
