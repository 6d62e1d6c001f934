package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pinkbananas/users-api/internal/api"
	"github.com/pinkbananas/users-api/internal/api/handler"
	"github.com/pinkbananas/users-api/internal/core/ports"
	"github.com/pinkbananas/users-api/internal/core/service"
	mongostore "github.com/pinkbananas/users-api/internal/infrastructure/db/mongo"
	redisstore "github.com/pinkbananas/users-api/internal/infrastructure/db/redis"
	"github.com/pinkbananas/users-api/internal/pkg/config"
	"github.com/pinkbananas/users-api/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the users HTTP API",
	Long: `Starts the users HTTP API. Usage:

	users-api serve

The store liveness probe runs once at startup. A failed probe is logged and
the server starts anyway; requests fail until the store becomes reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), config.Load())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := initLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Error().Err(err).Msg("invalid MongoDB configuration")
		return err
	}
	defer disconnectMongo(client, log)

	if err := mongostore.Probe(ctx, db, cfg.Mongo.Timeout); err != nil {
		log.Error().Err(err).Str("database", cfg.Mongo.Database).Msg("MongoDB connection failed")
	} else {
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	}

	var repo ports.UserRepository = mongostore.NewUserRepository(db, cfg.Mongo.Timeout)
	checks := map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return mongostore.Probe(ctx, db, cfg.Mongo.Timeout) },
	}

	if cfg.Redis.Enabled {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, running without user cache")
		} else {
			defer closeRedis(rdb, log)
			repo = redisstore.NewUserCache(repo, rdb, cfg.Redis.CacheTTL, logger.With("cache"))
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("user cache enabled")
		}
	}

	users := service.NewUserService(repo, logger.With("users"))
	e := api.NewRouter(api.Dependencies{
		Users:  users,
		Checks: checks,
		Logger: logger.With("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	return nil
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
}

func disconnectMongo(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}

func closeRedis(rdb *redis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
