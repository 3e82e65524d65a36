// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-finance-api/config"
	"go-finance-api/db"
	"go-finance-api/handler"
	"go-finance-api/logger"
	"go-finance-api/repository"
	"go-finance-api/router"
	"go-finance-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
)

// Server bundles the HTTP handler with the services the background jobs use.
type Server struct {
	Handler http.Handler
	Cleanup *service.TokenCleanupService
}

// NewServer wires repositories, services and handlers. cache may be nil, in
// which case stats caching and rate limiting are off.
func NewServer(cfg *config.Config, database *sql.DB, cache service.ICacheClient) (*Server, error) {
	issuer, err := service.NewTokenService(cfg.JWT)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database, cfg.JWT.LedgerTTL)
	entryRepo := repository.NewDailyEntryRepository(database)
	investmentRepo := repository.NewInvestmentRepository(database)
	goalRepo := repository.NewGoalRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo, service.NewBcryptHasher(cfg.Bcrypt.Cost), issuer)
	entryService := service.NewEntryService(entryRepo, cache)
	investmentService := service.NewInvestmentService(investmentRepo, cache)
	goalService := service.NewGoalService(goalRepo)

	var limiter handler.Limiter
	if cache != nil {
		limiter = service.NewRateLimiter(cache)
	}
	clientIPs, err := handler.NewClientIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	r := router.NewRouter(router.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.Server.SecureCookies),
		Entries:     handler.NewEntryHandler(entryService),
		Investments: handler.NewInvestmentHandler(investmentService),
		Goals:       handler.NewGoalHandler(goalService),
		Verifier:    issuer,
		Limiter:     limiter,
		Limits:      limitsFrom(cfg.RateLimit),
		ClientIPs:   clientIPs,
		StaticDir:   cfg.Server.StaticDir,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	return &Server{
		Handler: c.Handler(r),
		Cleanup: service.NewTokenCleanupService(tokenRepo),
	}, nil
}

func limitsFrom(cfg config.RateLimitConfig) router.Limits {
	return router.Limits{
		API: handler.RateLimitRule{
			Scope:   "api",
			Limit:   cfg.MaxRequests,
			Window:  cfg.Window,
			Message: "Too many requests from this IP, please try again later.",
		},
		Login: handler.RateLimitRule{
			Scope:          "login",
			Limit:          cfg.LoginMax,
			Window:         cfg.LoginWindow,
			Message:        "Too many login attempts, please try again later.",
			SkipSuccessful: true,
		},
		Register: handler.RateLimitRule{
			Scope:   "register",
			Limit:   cfg.RegisterMax,
			Window:  cfg.RegisterWindow,
			Message: "Too many accounts created from this IP, please try again later.",
		},
	}
}

// schedulePurge starts the ledger cleanup job. It returns nil when no
// schedule is configured.
func schedulePurge(spec string, cleanup *service.TokenCleanupService) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cleanup.PurgeExpired(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Log.WithField("schedule", spec).Info("Refresh token purge scheduled")
	return c, nil
}

func Run() {
	logger.Init()
	logger.Log.Info("Logger initialized")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	// A nil *redis.Client must not end up inside the interface.
	var cache service.ICacheClient
	if cfg.Redis.Enabled() {
		rdb, err := db.ConnectRedis(cfg.Redis)
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, running without cache and rate limits")
		} else {
			defer rdb.Close()
			cache = rdb
		}
	}

	server, err := NewServer(cfg, database, cache)
	if err != nil {
		logger.Log.Fatalf("Error building server: %v", err)
	}

	purge, err := schedulePurge(cfg.Ledger.PurgeSchedule, server.Cleanup)
	if err != nil {
		logger.Log.Fatalf("Invalid ledger purge schedule: %v", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	if purge != nil {
		<-purge.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
