package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	slotdomain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAssignment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/assignment"
	ucBooking "github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
	ucReport "github.com/BruksfildServices01/salon-scheduler/internal/usecase/report"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

// Catalog is the read-mostly side of the store: services and closed days.
type Catalog interface {
	handlers.ServiceLister
	handlers.ClosedDayStore
	ucSlot.ClosedDayChecker
}

// Infra carries the process-wide singletons built in main.
type Infra struct {
	DB      *gorm.DB
	Config  *config.Config
	Repo    domain.Repository
	Catalog Catalog
	Audit   *audit.Dispatcher
	Events  events.Publisher
	Metrics *metrics.EngineMetrics
	Mailer  ucAssignment.Mailer
	Store   storage.ObjectStore
	Logger  *zap.Logger
	Zone    timezone.Zone
	Now     func() time.Time
}

func (in Infra) BookingDeps() ucBooking.Deps {
	return ucBooking.Deps{
		Repo:    in.Repo,
		Audit:   in.Audit,
		Events:  in.Events,
		Metrics: in.Metrics,
		Logger:  in.Logger,
		Zone:    in.Zone,
		Now:     in.Now,
	}
}

func (in Infra) AssignmentDeps() ucAssignment.Deps {
	return ucAssignment.Deps{
		Repo:          in.Repo,
		Mailer:        in.Mailer,
		Audit:         in.Audit,
		Events:        in.Events,
		Metrics:       in.Metrics,
		Logger:        in.Logger,
		Zone:          in.Zone,
		Now:           in.Now,
		PublicBaseURL: in.Config.PublicBaseURL,
	}
}

func RegisterRoutes(r *gin.Engine, in Infra) {
	cfg := in.Config

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(in.Logger, in.Metrics))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.SetHTMLTemplate(handlers.Pages)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	bookingDeps := in.BookingDeps()
	assignmentDeps := in.AssignmentDeps()

	slotsUC := ucSlot.NewGetSlots(
		in.Catalog,
		in.Zone,
		slotdomain.Hours{Opening: cfg.OpeningHour, Closing: cfg.ClosingHour, SlotMinutes: cfg.SlotMinutes},
		cfg.ClosedWeekdays,
		in.Now,
	)

	commissionReportUC := ucReport.NewCommissionReport(in.Repo, in.Zone)
	exportReportUC := ucReport.NewExportCommissionReport(commissionReportUC, in.Store, in.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(in.DB, cfg)
	meHandler := handlers.NewMeHandler(in.DB)

	bookingHandler := handlers.NewBookingHandler(bookingDeps, cfg.DefaultCommPerc)
	invitationHandler := handlers.NewInvitationHandler(assignmentDeps)
	reportHandler := handlers.NewReportHandler(commissionReportUC, exportReportUC)

	serviceHandler := handlers.NewServiceHandler(in.DB, in.Store, in.Audit)
	closedDaysHandler := handlers.NewClosedDaysHandler(in.Catalog, cfg.ClosedWeekdays, in.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(in.DB, in.Zone)

	publicHandler := handlers.NewPublicHandler(in.Catalog, slotsUC, bookingDeps, assignmentDeps)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/slots", publicHandler.Slots)
			publicAPI.POST("/bookings", publicHandler.CreateBooking)

			publicAPI.GET("/invitations/:token/accept", publicHandler.AcceptPage)
			publicAPI.POST("/invitations/:token/accept", publicHandler.Accept)
			publicAPI.POST("/invitations/:token/confirm", publicHandler.ConfirmPage)
			publicAPI.POST("/invitations/:token/decline", publicHandler.Decline)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 STAFF API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.ListByDate)
			secured.GET("/bookings/unassigned", bookingHandler.ListUnassigned)
			secured.GET("/bookings/upcoming", bookingHandler.ListUpcoming)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/status", bookingHandler.SetStatus)
			secured.PATCH("/bookings/:id/price", bookingHandler.SetPrice)
			secured.POST("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.DELETE("/bookings/:id", bookingHandler.Delete)

			// ------------------------------
			// INVITATIONS
			// ------------------------------
			secured.POST("/bookings/:id/invitations", invitationHandler.Create)
			secured.GET("/bookings/:id/invitations", invitationHandler.List)
			secured.POST("/invitations/:id/decline", invitationHandler.Decline)
			secured.POST("/invitations/:id/expire", invitationHandler.Expire)

			// ------------------------------
			// REPORTS
			// ------------------------------
			secured.GET("/reports/commissions", reportHandler.Commissions)
			secured.POST("/reports/commissions/export", reportHandler.ExportCommissions)

			// ------------------------------
			// CATALOG + CALENDAR
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.POST("/services/:id/image", serviceHandler.UploadImage)

			secured.GET("/closed-days", closedDaysHandler.Get)
			secured.PUT("/closed-days", closedDaysHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
