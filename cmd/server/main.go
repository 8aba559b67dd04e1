// Command server runs the manufacturing operations API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"milltrack/internal/core/sequence"
	"milltrack/internal/domain"
	"milltrack/internal/domain/auth"
	"milltrack/internal/domain/dispatch"
	"milltrack/internal/domain/logistics"
	"milltrack/internal/domain/measurement"
	"milltrack/internal/domain/party"
	"milltrack/internal/domain/production"
	"milltrack/internal/domain/qc"
	v1 "milltrack/internal/infrastructure/http/v1"
	"milltrack/internal/infrastructure/http/v1/handlers"
	"milltrack/internal/infrastructure/storage/postgres"
	"milltrack/pkg/logger"
)

func main() {
	ctx := context.Background()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("ENV", "production") == "development",
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx = logger.WithLogger(ctx, log)

	if err := run(ctx, log); err != nil {
		logger.Fatal(ctx, "server failed", "error", err)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	dsn := mustEnv(ctx, "DATABASE_URL")
	jwtSecret := mustEnv(ctx, "JWT_SECRET")

	poolCfg := postgres.DefaultPoolConfig(dsn)
	poolCfg.MaxConns = int32(getEnvInt("DB_MAX_CONNS", int(poolCfg.MaxConns)))

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		return err
	}

	// Number issuing
	issuer := sequence.NewIssuer(postgres.NewSequenceRepo(txManager))

	// Repositories
	partyRepo := postgres.NewPartyRepo(txManager)
	userRepo := postgres.NewUserRepo(txManager)
	measurementRepo := postgres.NewMeasurementRepo(txManager)
	paperRepo := postgres.NewPaperRepo(txManager)
	scheduleRepo := postgres.NewScheduleRepo(txManager)
	qcRepo := postgres.NewQCRepo(txManager)
	dispatchRepo := postgres.NewDispatchRepo(txManager)
	logisticsRepo := postgres.NewLogisticsRepo(txManager)

	// Services
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, jwtService, txManager)
	partyService := party.NewService(partyRepo, txManager)
	measurementService := measurement.NewService(measurementRepo, issuer, txManager)
	productionService := production.NewService(paperRepo, scheduleRepo, issuer, txManager)
	qcService := qc.NewService(qcRepo, issuer, txManager)
	dispatchService := dispatch.NewService(dispatchRepo, productionService, issuer, txManager)
	logisticsService := logistics.NewService(logisticsRepo, dispatchService, txManager)

	registerAuditHooks(audit, partyService, productionService)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:             log,
		JWTService:         jwtService,
		AuthHandler:        handlers.NewAuthHandler(authService),
		UserHandler:        handlers.NewUserHandler(authService),
		PartyHandler:       handlers.NewPartyHandler(partyService),
		MeasurementHandler: handlers.NewMeasurementHandler(measurementService),
		ProductionHandler:  handlers.NewProductionHandler(productionService),
		QCHandler:          handlers.NewQCHandler(qcService),
		DispatchHandler:    handlers.NewDispatchHandler(dispatchService),
		LogisticsHandler:   handlers.NewLogisticsHandler(logisticsService),
	})

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Periodic pool stats for operators
	statsTicker := time.NewTicker(5 * time.Minute)
	defer statsTicker.Stop()
	go func() {
		for range statsTicker.C {
			postgres.LogPoolStats(ctx, pool.Unwrap())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info(ctx, "shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// registerAuditHooks records party changes and paper lifecycle events.
func registerAuditHooks(audit *postgres.AuditService, parties *party.Service, papers *production.Service) {
	parties.Hooks().On(domain.AfterCreate, func(ctx context.Context, p *party.Party) error {
		return audit.Record(ctx, "party", p.ID, "created", postgres.Diff(nil, p))
	})
	parties.Hooks().On(domain.AfterUpdate, func(ctx context.Context, p *party.Party) error {
		return audit.Record(ctx, "party", p.ID, "updated", postgres.Diff(nil, p))
	})
	parties.Hooks().On(domain.AfterDelete, func(ctx context.Context, p *party.Party) error {
		return audit.Record(ctx, "party", p.ID, "deleted", postgres.Diff(p, nil))
	})

	papers.Hooks().On(domain.AfterCreate, func(ctx context.Context, p *production.Paper) error {
		return audit.Record(ctx, "paper", p.ID, "created", postgres.Diff(nil, p))
	})
	papers.Hooks().On(domain.AfterUpdate, func(ctx context.Context, p *production.Paper) error {
		return audit.Record(ctx, "paper", p.ID, "updated", postgres.Diff(nil, p))
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(ctx context.Context, key string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Fatal(ctx, "missing required environment variable", "key", key)
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
