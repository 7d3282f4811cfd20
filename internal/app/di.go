// Package app provides the dependency injection container that assembles the application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-redis/redis/v8"

	authService "github.com/nailbliss/stampcard/internal/auth/service"
	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
	"github.com/nailbliss/stampcard/internal/config"
	"github.com/nailbliss/stampcard/internal/database"
	"github.com/nailbliss/stampcard/internal/http"
	loyaltyHTTP "github.com/nailbliss/stampcard/internal/loyalty/http"
	loyaltyUseCase "github.com/nailbliss/stampcard/internal/loyalty/usecase"
	"github.com/nailbliss/stampcard/internal/metrics"
	qrtokenHTTP "github.com/nailbliss/stampcard/internal/qrtoken/http"
	"github.com/nailbliss/stampcard/internal/qrtoken/render"
	qrtokenService "github.com/nailbliss/stampcard/internal/qrtoken/service"
	qrtokenUseCase "github.com/nailbliss/stampcard/internal/qrtoken/usecase"
	redemptionHTTP "github.com/nailbliss/stampcard/internal/redemption/http"
	redemptionUseCase "github.com/nailbliss/stampcard/internal/redemption/usecase"
)

// Container holds all application dependencies. Components are created on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	redisClient     *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Auth
	sessionTokenService authService.SessionTokenService
	accountRepository   authUseCase.AccountRepository
	identityUseCase     authUseCase.IdentityUseCase

	// QR tokens
	tokenService     qrtokenService.TokenService
	renderer         render.Renderer
	presenterUseCase qrtokenUseCase.PresenterUseCase
	presenterHandler *qrtokenHTTP.PresenterHandler

	// Loyalty
	loyaltyRepository loyaltyUseCase.LoyaltyRepository
	cardUseCase       loyaltyUseCase.CardUseCase
	cardHandler       *loyaltyHTTP.CardHandler

	// Redemption
	replayGuard       redemptionUseCase.ReplayGuard
	registry          *redemptionUseCase.Registry
	redemptionUseCase redemptionUseCase.RedemptionUseCase
	redemptionHandler *redemptionHTTP.RedemptionHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	redisClientInit         sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	sessionTokenServiceInit sync.Once
	accountRepositoryInit   sync.Once
	identityUseCaseInit     sync.Once
	tokenServiceInit        sync.Once
	rendererInit            sync.Once
	presenterUseCaseInit    sync.Once
	presenterHandlerInit    sync.Once
	loyaltyRepositoryInit   sync.Once
	cardUseCaseInit         sync.Once
	cardHandlerInit         sync.Once
	replayGuardInit         sync.Once
	registryInit            sync.Once
	redemptionUseCaseInit   sync.Once
	redemptionHandlerInit   sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger at the configured level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.setInitError("db", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("db"); storedErr != nil {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the meter provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.setInitError("metricsProvider", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsProvider"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are
// disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("businessMetrics"); storedErr != nil {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router set up. ctx bounds middleware
// background work.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.setInitError("httpServer", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("httpServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.setInitError("metricsServer", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("metricsServer"); storedErr != nil {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown releases everything the container created. Servers are expected to be shut down
// by their owner first.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.registry != nil {
		if err := c.registry.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redemption registry close: %w", err))
		}
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// initLogger creates a JSON logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}
	identityUseCase, err := c.IdentityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity use case for http server: %w", err)
	}
	cardHandler, err := c.CardHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get card handler for http server: %w", err)
	}
	presenterHandler, err := c.PresenterHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get presenter handler for http server: %w", err)
	}
	redemptionHandler, err := c.RedemptionHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption handler for http server: %w", err)
	}
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, http.Handlers{
		Identity:   identityUseCase,
		Card:       cardHandler,
		Presenter:  presenterHandler,
		Redemption: redemptionHandler,
	}, provider)
	return server, nil
}
