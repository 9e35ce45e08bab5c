package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/redislock"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAssignment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/assignment"
)

func main() {

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	defer func() { _ = logger.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	if created, err := dbpkg.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("admin seed failed", zap.Error(err))
	} else if created {
		logger.Info("admin user created", zap.String("email", cfg.AdminEmail))
	}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	zone := timezone.NewZone(cfg.Timezone)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engineMetrics := metrics.NewEngineMetrics(registry)

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Warn("rabbitmq unavailable, lifecycle events disabled", zap.Error(err))
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	mailer := notify.NewAssignmentMailer(
		notify.NewEmailSender(ctx, cfg, logger),
		cfg.AdminNotifyEmail,
		logger,
	)

	var store storage.ObjectStore
	s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Bucket:          cfg.S3Bucket,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	switch {
	case err != nil:
		logger.Warn("s3 unavailable, uploads and exports disabled", zap.Error(err))
	case s3Store != nil:
		store = s3Store
	case cfg.IsDevelopment():
		store = storage.NewMemoryStore()
	}

	infra := routes.Infra{
		DB:      db,
		Config:  cfg,
		Repo:    infraRepo.NewBookingGormRepository(db),
		Catalog: infraRepo.NewCatalogGormRepository(db),
		Audit:   auditDispatcher,
		Events:  publisher,
		Metrics: engineMetrics,
		Mailer:  mailer,
		Store:   store,
		Logger:  logger,
		Zone:    zone,
		Now:     time.Now,
	}

	// ======================================================
	// ⏱ INVITATION EXPIRY SWEEP
	// ======================================================
	var elector ucAssignment.Elector
	if cfg.RedisURL != "" {
		locker, err := redislock.NewFromURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, sweeping without leader lock", zap.Error(err))
		} else {
			defer locker.Close()
			elector = locker
		}
	}

	sweeper := ucAssignment.NewExpirySweeper(infra.AssignmentDeps(), elector).WithInterval(cfg.SweepInterval)
	go sweeper.Start(ctx)

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, infra)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	auditDispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server stopped")
}
