// @title        Spice Drama Ordering API
// @version      1.0
// @description  Restaurant ordering platform: auth, user administration, food catalog, and orders.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spicedrama/ordering-system/internal/api"
	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
	"github.com/spicedrama/ordering-system/internal/core/service"
	"github.com/spicedrama/ordering-system/internal/infrastructure/config"
	mongostore "github.com/spicedrama/ordering-system/internal/infrastructure/db/mongo"
	redisstore "github.com/spicedrama/ordering-system/internal/infrastructure/db/redis"
	"github.com/spicedrama/ordering-system/internal/infrastructure/queue"
	"github.com/spicedrama/ordering-system/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	// --- Stores ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		// The API degrades gracefully without Redis: no login throttle.
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	// --- Bootstrap admin ---
	userRepo := mongostore.NewUserRepository(db)
	roles := domain.ParseRoleSet(cfg.Roles)
	userService := service.NewUserService(userRepo, roles, log)
	if err := userService.Bootstrap(ctx, ports.CreateUserInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     domain.RoleAdmin,
	}); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	// --- Order audit dispatcher ---
	orderRepo := mongostore.NewOrderRepository(db)
	dispatcher := queue.NewDispatcher(cfg.OrderEventWorkers, orderRepo, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, cfg, log, dispatcher)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("auth_policy", cfg.AuthPolicy).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
