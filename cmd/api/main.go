package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventify/ticketing/internal/api"
	"github.com/eventify/ticketing/internal/api/handler"
	"github.com/eventify/ticketing/internal/core/service"
	mongodb "github.com/eventify/ticketing/internal/infrastructure/db/mongo"
	redisstore "github.com/eventify/ticketing/internal/infrastructure/db/redis"
	"github.com/eventify/ticketing/internal/infrastructure/queue"
	"github.com/eventify/ticketing/internal/pkg/config"
	"github.com/eventify/ticketing/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.MustLoad()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "ticketing",
	})
	if cfg.Auth.DevSecret {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index setup failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	// --- Audit trail ---
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher.Start(dispatcherCtx)

	// --- Core services ---
	users := mongodb.NewUserRepository(db)
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: "ticketing",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	throttle := redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow, logger.Component("throttle"))
	authService := service.NewAuthService(
		users,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		throttle,
		dispatcher,
		logger.Component("auth"),
	)
	sessions := service.NewSessionResolver(tokens, users, cfg.Auth.LookupTimeout, logger.Component("session"))
	dashboard := service.NewDashboardService(
		mongodb.NewEventRepository(db),
		mongodb.NewTicketRepository(db),
		logger.Component("dashboard"),
	)

	e := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Dashboard: dashboard,
		Sessions:  sessions,
		Tokens:    tokens,
		Health: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(mongoClient),
			"redis":   handler.RedisPinger(rdb),
		},
	}, api.Options{
		StoreRole:    cfg.Auth.RolePolicy == config.RolePolicyStore,
		SecureCookie: cfg.IsProduction(),
		CookieMaxAge: tokens.TTL(),
		AuthRate:     cfg.Auth.RateLimit,
		AuthBurst:    cfg.Auth.RateBurst,
		Log:          logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("role_policy", string(cfg.Auth.RolePolicy)).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	// Stop the audit workers after the server so in-flight requests can still publish.
	stopDispatcher()
	dispatcher.Wait()
}
