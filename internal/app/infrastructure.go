package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/poehali/auth-gateway/internal/config"
	"github.com/poehali/auth-gateway/pkg/database"
	"github.com/poehali/auth-gateway/pkg/observability"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

type Infrastructure interface {
	// Postgres returns the database handle, or nil when DATABASE_URL was
	// not provided. Operations translate the missing handle into the
	// "Database not configured" response instead of failing at startup.
	Postgres() *database.Postgres
	Logger() *zap.Logger
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres       *database.Postgres
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	if cfg.Database.Configured() {
		if err := database.RunMigrations(cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		postgres, err := database.NewPostgres(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		i.postgres = postgres
	} else {
		logger.Warn("DATABASE_URL not set; requests touching the store will fail")
	}

	meterProvider, metricsHandler, err := observability.InitTelemetry("auth-gateway")
	if err != nil {
		if i.postgres != nil {
			_ = i.postgres.Close()
		}
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	return i, nil
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) Shutdown(ctx context.Context) error {
	errs := make(chan error, 2)

	go func() {
		if i.postgres != nil {
			errs <- i.postgres.Close()
			return
		}
		errs <- nil
	}()
	go func() { errs <- observability.Shutdown(ctx, i.meterProvider, i.logger) }()

	return errors.Join(<-errs, <-errs)
}
