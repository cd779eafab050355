package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/audit"
	"github.com/trichbarbershop/barber-queue/internal/config"
	"github.com/trichbarbershop/barber-queue/internal/handlers"
	"github.com/trichbarbershop/barber-queue/internal/identity"
	infraRepo "github.com/trichbarbershop/barber-queue/internal/infra/repository"
	"github.com/trichbarbershop/barber-queue/internal/mailer"
	"github.com/trichbarbershop/barber-queue/internal/middleware"
	"github.com/trichbarbershop/barber-queue/internal/queueview"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
	"github.com/trichbarbershop/barber-queue/internal/storage"
	ucBooking "github.com/trichbarbershop/barber-queue/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	broker realtime.Broker,
	view *queueview.View,
	logger zerolog.Logger,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Metrics())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	resolver := identity.NewResolver(bookingRepo, cfg.HasServiceRole(), logger)
	mail := mailer.NewLogMailer(logger)
	avatars := storage.NewAvatarStore(cfg)

	// ======================================================
	// 🧠 USE CASES — BOOKING QUEUE
	// ======================================================
	createEntryUC := ucBooking.NewCreateEntry(
		bookingRepo,
		resolver,
		broker,
		auditDispatcher,
		logger,
	)

	listEntriesUC := ucBooking.NewListEntries(
		bookingRepo,
		cfg.HasServiceRole(),
		logger,
	)

	updateEntryUC := ucBooking.NewUpdateEntry(
		bookingRepo,
		resolver,
		broker,
		auditDispatcher,
		cfg.HasServiceRole(),
		logger,
	)

	deleteEntryUC := ucBooking.NewDeleteEntry(
		bookingRepo,
		resolver,
		broker,
		auditDispatcher,
		logger,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, resolver, mail, logger)
	meHandler := handlers.NewMeHandler(db, avatars, logger)
	serviceHandler := handlers.NewServiceHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		createEntryUC,
		listEntriesUC,
		updateEntryUC,
		deleteEntryUC,
	)

	streamHandler := handlers.NewStreamHandler(broker, logger)
	waitlistHandler := handlers.NewWaitlistHandler(view)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, resolver)
	webHandler := handlers.NewWebHandler(db, view, logger)

	// ======================================================
	// 🌍 ROTAS WEB (HTML)
	// ======================================================
	r.SetHTMLTemplate(handlers.WebTemplates())
	r.GET("/", webHandler.Home)
	r.GET("/waitlist", webHandler.Waitlist)

	// ======================================================
	// 📊 OPERATIONAL
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		api.GET("/public/services", serviceHandler.List)
		api.GET("/waitlist", waitlistHandler.Get)
		api.GET("/private-items/stream", streamHandler.Stream)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/signin", authHandler.SignIn)
		api.POST("/auth/magic", middleware.RateLimit(rate.Limit(0.2), 3), authHandler.MagicLink)
		api.GET("/auth/callback", authHandler.AuthCallback)
		api.GET("/auth/social/google", authHandler.GoogleRedirect)
		api.GET("/auth/callback/google", authHandler.GoogleCallback)
		api.GET("/auth/role", middleware.OptionalAuthMiddleware(cfg), authHandler.Role)

		// ------------------------------
		// 📋 QUEUE (session optional on reads)
		// ------------------------------
		api.GET("/private-items", middleware.OptionalAuthMiddleware(cfg), bookingHandler.List)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.POST("/private-items", bookingHandler.Create)
			secured.PATCH("/private-items/update/:id", bookingHandler.Update)
			secured.DELETE("/private-items/update/:id", bookingHandler.Delete)

			secured.GET("/me", meHandler.GetMe)
			secured.POST("/me/avatar", meHandler.UploadAvatar)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
