package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banditHub/app/echo-server/metrics"
	"banditHub/app/echo-server/router"
	"banditHub/business/bandit"
	"banditHub/internal/middleware"
	psqlRepo "banditHub/internal/repository/postgres"
	redisRepo "banditHub/internal/repository/redis"
	"banditHub/internal/rest"
	"banditHub/pkg/config"
	"banditHub/pkg/database"
	redisdb "banditHub/pkg/database/redis"
	"banditHub/pkg/logger"
	"banditHub/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting BanditHub", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		_ = redisdb.CloseRedisClient(redisClient)
	}()

	// Init repo
	banditRepo := psqlRepo.NewBanditRepository(db)
	if err := banditRepo.Migrate(); err != nil {
		logger.Fatal("Failed to migrate bandit state table", "error", err)
	}
	cfgRepo := psqlRepo.NewBanditConfigRepository(db)
	decisionCache := redisRepo.NewDecisionCache(redisClient)

	tokens, err := bandit.NewAESTokenCodec(cfg.Bandit.TokenKey)
	if err != nil {
		logger.Fatal("Failed to build token codec", "error", err)
	}

	// Init service
	defaultCfg := bandit.DefaultConfig()
	if cfg.Bandit.DecisionTTLSeconds > 0 {
		defaultCfg.DecisionTTL = time.Duration(cfg.Bandit.DecisionTTLSeconds) * time.Second
	}
	banditService := bandit.NewBanditService(
		banditRepo,
		banditRepo,
		cfgRepo,
		decisionCache,
		tokens,
		defaultCfg,
	)

	// Init handler
	decisionHandler := rest.NewDecisionHandler(banditService)
	adminHandler := rest.NewBanditAdminHandler(cfgRepo, banditService)
	authHandler := rest.NewAuthHandler(cfg.Admin.Email, cfg.Admin.PasswordHash)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(traceMiddleware())
	e.Use(decisionLatencyMiddleware())

	// Setup routes
	api := e.Group("/api/v1")
	router.SetAuthRoutes(api, authHandler)
	router.SetDecisionRoutes(api, decisionHandler)
	router.SetBanditAdminRoutes(api, adminHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

// traceMiddleware assigns a trace id to every request so service-level logs
// can be correlated.
func traceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tid := uuid.NewString()
			ctx := bandit.WithTraceID(c.Request().Context(), tid)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Trace-ID", tid)
			return next(c)
		}
	}
}

// decisionLatencyMiddleware tracks decision endpoint latency and volume.
func decisionLatencyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet || c.Path() != "/api/v1/decisions" {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			metrics.DecideLatency.Observe(time.Since(start).Seconds())
			metrics.DecideTotal.Inc()
			return err
		}
	}
}
