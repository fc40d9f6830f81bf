package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	releaseaudit "centinela/contexts/field-operations/release-audit"
	auditpostgres "centinela/contexts/field-operations/release-audit/adapters/postgres"
	stationregistry "centinela/contexts/field-operations/station-registry"
	stationpostgres "centinela/contexts/field-operations/station-registry/adapters/postgres"
	tallyengine "centinela/contexts/field-operations/tally-engine"
	tallypostgres "centinela/contexts/field-operations/tally-engine/adapters/postgres"
	witnessassignment "centinela/contexts/field-operations/witness-assignment"
	witnesscrypto "centinela/contexts/field-operations/witness-assignment/adapters/crypto"
	witnesspostgres "centinela/contexts/field-operations/witness-assignment/adapters/postgres"
	workerapp "centinela/contexts/field-operations/witness-assignment/application/workers"
	"centinela/internal/platform/config"
	"centinela/internal/platform/db"
	"centinela/internal/platform/httpserver"
	"centinela/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.ServiceName, "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	stationRepo := stationpostgres.NewRepository(pg.DB, logger)
	stationModule := stationregistry.NewModule(stationregistry.Dependencies{
		Stations: stationRepo,
		Claims:   stationRepo,
		Clock:    stationpostgres.SystemClock{},
		IDGen:    stationpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	witnessRepo := witnesspostgres.NewRepository(pg.DB, logger)
	witnessModule := witnessassignment.NewModule(witnessassignment.Dependencies{
		Witnesses: witnessRepo,
		Stations:  witnesspostgres.NewStationReader(pg.DB, logger),
		Surveys:   witnesspostgres.NewSurveyReader(pg.DB, logger),
		Hasher:    witnesscrypto.BcryptHasher{},
		Outbox:    witnessRepo,
		Clock:     witnesspostgres.SystemClock{},
		IDGen:     witnesspostgres.UUIDGenerator{},
		Logger:    logger,
	})

	tallyModule := tallyengine.NewModule(tallyengine.Dependencies{
		Tallies:     tallypostgres.NewRepository(pg.DB, logger),
		Assignments: tallypostgres.NewAssignmentReader(pg.DB, logger),
		Stations:    tallypostgres.NewStationReader(pg.DB, logger),
		Roster:      tallypostgres.NewCandidateRoster(pg.DB, logger),
		Clock:       tallypostgres.SystemClock{},
		IDGen:       tallypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	auditModule := releaseaudit.NewModule(releaseaudit.Dependencies{
		Audits: auditpostgres.NewRepository(pg.DB, logger),
		Logger: logger,
	})

	server := httpserver.New(
		stationModule,
		witnessModule,
		tallyModule,
		auditModule,
		httpserver.Authenticator{Secret: []byte(cfg.JWTSecret)},
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.ServiceName, "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	witnessRepo := witnesspostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres:     pg,
		outboxRelay:  witnessassignment.NewOutboxRelay(witnessRepo, kafka, witnesspostgres.SystemClock{}, cfg.OutboxBatchSize, logger),
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func newLogger(service, process string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	return slog.New(handler).With("service", service, "process", process)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
