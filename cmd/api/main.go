package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/trichbarbershop/barber-queue/internal/config"
	dbpkg "github.com/trichbarbershop/barber-queue/internal/db"
	infraRepo "github.com/trichbarbershop/barber-queue/internal/infra/repository"
	"github.com/trichbarbershop/barber-queue/internal/logging"
	"github.com/trichbarbershop/barber-queue/internal/metrics"
	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/queueview"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
	"github.com/trichbarbershop/barber-queue/internal/routes"
)

func main() {

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	metrics.Register()

	db := dbpkg.NewDB(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ------------------------------
	// Realtime broker
	// ------------------------------
	var broker realtime.Broker
	if cfg.RedisURL != "" {
		redisBroker, err := realtime.NewRedisBroker(cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis broker")
		}
		broker = redisBroker
		logger.Info().Msg("realtime broker: redis")
	} else {
		broker = realtime.NewMemoryBroker(logger)
		logger.Info().Msg("realtime broker: in-process")
	}

	// ------------------------------
	// Live queue view
	// ------------------------------
	repo := infraRepo.NewBookingGormRepository(db)
	fetch := func(ctx context.Context) ([]models.BookingEntry, error) {
		return repo.ListEntries(ctx)
	}

	seed, err := fetch(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("queue view starts empty, initial fetch failed")
		seed = nil
	}

	view := queueview.NewView(seed, fetch, broker, logger)
	go func() {
		if err := view.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("queue view stopped")
		}
	}()

	// ------------------------------
	// HTTP
	// ------------------------------
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, broker, view, logger)

	logger.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
