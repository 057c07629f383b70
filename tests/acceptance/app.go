package acceptance

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poehali/auth-gateway/internal/app"
	"github.com/poehali/auth-gateway/internal/config"
	"github.com/poehali/auth-gateway/pkg/database"
	"github.com/poehali/auth-gateway/pkg/observability"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// TestApp serves the real application wiring (app.NewApp with a test
// Infrastructure) on a random local port.
type TestApp struct {
	Config   *config.Config
	App      *app.App
	Server   *http.Server
	Listener net.Listener
	BaseURL  string
	Logger   *zap.Logger
}

// testInfrastructure satisfies app.Infrastructure with suite-owned resources
type testInfrastructure struct {
	postgres       *database.Postgres
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

func (i *testInfrastructure) Postgres() *database.Postgres       { return i.postgres }
func (i *testInfrastructure) Logger() *zap.Logger                { return i.logger }
func (i *testInfrastructure) MetricsHandler() http.Handler       { return i.metricsHandler }
func (i *testInfrastructure) MeterProvider() *metric.MeterProvider { return i.meterProvider }
func (i *testInfrastructure) Shutdown(ctx context.Context) error {
	// the suite owns the postgres handle and closes it itself
	return observability.Shutdown(ctx, i.meterProvider, i.logger)
}

// NewTestApp creates a new test application instance backed by the given
// Postgres and stub Google endpoint.
func NewTestApp(postgres *database.Postgres, google *StubGoogle) (*TestApp, error) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "0",
			ReadTimeout:  config.Duration{Duration: 15 * time.Second},
			WriteTimeout: config.Duration{Duration: 15 * time.Second},
		},
		Database: config.DatabaseConfig{
			URL: postgresURL,
		},
		Google: config.GoogleConfig{
			UserInfoURL: google.URL(),
			Timeout:     config.Duration{Duration: 5 * time.Second},
		},
		Session: config.SessionConfig{
			TTL: config.Duration{Duration: 30 * 24 * time.Hour},
		},
		Env: "test",
	}

	gin.SetMode(gin.TestMode)

	logger, err := observability.InitLogger("test")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	meterProvider, metricsHandler, err := observability.InitTelemetry("auth-gateway-test")
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	infra := &testInfrastructure{
		postgres:       postgres,
		logger:         logger,
		metricsHandler: metricsHandler,
		meterProvider:  meterProvider,
	}

	application := app.NewApp(infra, cfg)

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	addr := listener.Addr().(*net.TCPAddr)
	baseURL := fmt.Sprintf("http://localhost:%d", addr.Port)

	srv := &http.Server{
		Handler:      application.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	go func() {
		_ = srv.Serve(listener)
	}()

	return &TestApp{
		Config:   cfg,
		App:      application,
		Server:   srv,
		Listener: listener,
		BaseURL:  baseURL,
		Logger:   logger,
	}, nil
}

// Close shuts the test server down
func (a *TestApp) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Server.Shutdown(ctx)
}
