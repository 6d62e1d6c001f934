package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mongostore "github.com/pinkbananas/users-api/internal/infrastructure/db/mongo"
	"github.com/pinkbananas/users-api/internal/pkg/config"
)

const mongoDisconnectTimeout = 5 * time.Second

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Checks that the user store is reachable",
	Long: `Runs the store liveness probe once and exits non-zero on failure.
Useful as a container health check or before a deploy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ping(cmd.Context(), config.Load())
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func ping(ctx context.Context, cfg *config.Config) error {
	log := initLogger(cfg)

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer disconnectMongo(client, log)

	if err := mongostore.Probe(ctx, db, cfg.Mongo.Timeout); err != nil {
		log.Error().Err(err).Str("database", cfg.Mongo.Database).Msg("MongoDB connection failed")
		return fmt.Errorf("store unreachable: %w", err)
	}

	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	return nil
}
