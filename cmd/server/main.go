package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/careledger/careledger/internal/config"
	"github.com/careledger/careledger/internal/handler/v1"
	"github.com/careledger/careledger/internal/predictor"
	"github.com/careledger/careledger/internal/repository/postgres"
	"github.com/careledger/careledger/internal/service"
	"github.com/careledger/careledger/pkg/auth"
	"github.com/careledger/careledger/pkg/database"
	"github.com/careledger/careledger/pkg/logger"
	"github.com/careledger/careledger/pkg/metrics"
	"github.com/careledger/careledger/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	collector := metrics.NewCollector("careledger")

	patientRepo := postgres.NewPatientRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	apptRepo := postgres.NewAppointmentRepository(db)
	insightRepo := postgres.NewInsightRepository(db)

	sessions := auth.NewMemorySessionStore()
	defer sessions.Close()
	tokens := auth.NewTokenManager(cfg.Session)

	var remote predictor.Predictor
	if cfg.Predictor.BaseURL != "" {
		remote = predictor.NewClient(cfg.Predictor)
	}

	auditSvc := service.NewAuditService(auditRepo, log, collector)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userRepo, tokens, sessions, auditSvc, collector, log)
	userSvc := service.NewUserService(userRepo, auditSvc, log)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, collector, log)
	apptSvc := service.NewAppointmentService(apptRepo, auditSvc, log)
	insightSvc := service.NewInsightService(insightRepo, patientRepo, remote, collector, log)
	statsSvc := service.NewStatsService(patientRepo, insightRepo)

	router := v1.NewRouter(v1.Dependencies{
		Config:         cfg,
		Log:            log,
		Metrics:        collector,
		AuthSvc:        authSvc,
		UserSvc:        userSvc,
		PatientSvc:     patientSvc,
		AppointmentSvc: apptSvc,
		InsightSvc:     insightSvc,
		StatsSvc:       statsSvc,
		AuditSvc:       auditSvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("stopped cleanly")
	return nil
}
