package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nutriva/brand-site-server/internal/config"
	"github.com/nutriva/brand-site-server/internal/database"
	"github.com/nutriva/brand-site-server/internal/handler"
	"github.com/nutriva/brand-site-server/internal/jobs"
	"github.com/nutriva/brand-site-server/internal/middleware"
	"github.com/nutriva/brand-site-server/internal/redis"
	"github.com/nutriva/brand-site-server/internal/repository"
	"github.com/nutriva/brand-site-server/internal/service"
	"github.com/nutriva/brand-site-server/internal/util"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
	}

	accountRepo := repository.NewAccountRepository(db.DB)

	var sessionStore repository.SessionStore
	if cfg.UseRedisSessions() {
		sessionStore = repository.NewRedisSessionStore(redisClient.Client)
	} else {
		sessionStore = repository.NewPostgresSessionStore(db.DB)
	}
	log.Info().Str("store", cfg.SessionStore).Msg("session store selected")

	var loginThrottle middleware.LoginThrottle
	if redisClient != nil {
		loginThrottle = middleware.NewRedisLoginThrottle(redisClient.Client, cfg.LoginRateLimitPerMin, config.LoginRateLimitWindow)
	} else {
		loginThrottle = middleware.NewMemoryLoginThrottle(cfg.LoginRateLimitPerMin, config.LoginRateLimitWindow)
	}

	hasher := util.NewBcryptHasher(cfg.BcryptCost)
	sessionService := service.NewSessionService(sessionStore, accountRepo, cfg.SessionSecret)
	authService, err := service.NewAuthService(accountRepo, sessionService, hasher)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}
	accountService := service.NewAccountService(accountRepo, sessionService, hasher)

	if ok, err := accountRepo.HasAdmin(context.Background()); err == nil && !ok {
		log.Warn().Msg("no active admin account exists; create one with cmd/seedadmin")
	}

	authorizer := middleware.NewAuthorizer(sessionService, cfg.SessionCookieName, cfg.IsProduction())
	loginRateLimiter := middleware.NewLoginRateLimiter(loginThrottle)

	router := handler.NewRouter(handler.RouterOptions{
		Auth:         handler.NewAuthHandler(authService, authorizer, loginRateLimiter),
		Admin:        handler.NewAdminHandler(accountService, authorizer),
		Health:       handler.NewHealthHandler(db),
		IsProduction: cfg.IsProduction(),

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	cleanupJob := jobs.NewCleanupJob(sessionStore, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	setLogLevel(cfg.LogLevel)
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
