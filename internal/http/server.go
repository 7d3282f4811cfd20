// Package http provides the API server, the metrics server and their shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/nailbliss/stampcard/internal/auth/domain"
	authHTTP "github.com/nailbliss/stampcard/internal/auth/http"
	authUseCase "github.com/nailbliss/stampcard/internal/auth/usecase"
	"github.com/nailbliss/stampcard/internal/config"
	loyaltyHTTP "github.com/nailbliss/stampcard/internal/loyalty/http"
	"github.com/nailbliss/stampcard/internal/metrics"
	qrtokenHTTP "github.com/nailbliss/stampcard/internal/qrtoken/http"
	redemptionHTTP "github.com/nailbliss/stampcard/internal/redemption/http"
)

const readinessTimeout = 2 * time.Second

// Server is the API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a Server. Call SetupRouter before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:        fmt.Sprintf("%s:%d", host, port),
			ReadTimeout: 15 * time.Second,
			// No WriteTimeout: the QR stream is a long-lived websocket.
			IdleTimeout: 60 * time.Second,
		},
	}
}

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Identity   authUseCase.IdentityUseCase
	Card       *loyaltyHTTP.CardHandler
	Presenter  *qrtokenHTTP.PresenterHandler
	Redemption *redemptionHTTP.RedemptionHandler
}

// SetupRouter builds the gin engine. ctx bounds background work owned by middleware.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(handlers.Identity, s.logger))

	card := v1.Group("/card")
	{
		card.GET("",
			authHTTP.AuthorizationMiddleware(authDomain.ViewCardCapability, s.logger),
			handlers.Card.GetHandler)
		card.GET("/qr",
			authHTTP.AuthorizationMiddleware(authDomain.PresentCapability, s.logger),
			handlers.Presenter.IssueHandler)
		card.GET("/qr/stream",
			authHTTP.AuthorizationMiddleware(authDomain.PresentCapability, s.logger),
			handlers.Presenter.StreamHandler)
	}

	redemptions := v1.Group("/redemptions")
	redemptions.Use(authHTTP.AuthorizationMiddleware(authDomain.ScanCapability, s.logger))
	if cfg.RateLimitEnabled {
		redemptions.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		redemptions.POST("/scan", handlers.Redemption.ScanHandler)
		redemptions.GET("/current", handlers.Redemption.CurrentHandler)
		redemptions.POST("/current/confirm",
			authHTTP.AuthorizationMiddleware(authDomain.CreditCapability, s.logger),
			handlers.Redemption.ConfirmHandler)
		redemptions.POST("/current/cancel", handlers.Redemption.CancelHandler)
	}

	s.router = router
}

// GetHandler returns the router built by SetupRouter, or nil before it runs.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not set up")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}
