package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmnguyen/postureboard/internal/config"
	"github.com/tmnguyen/postureboard/internal/gateway"
	"github.com/tmnguyen/postureboard/internal/observability"
	"github.com/tmnguyen/postureboard/internal/server"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the posture report HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err := observability.NewLogger(cfg.Logging)
		if err != nil {
			return err
		}
		defer logger.Sync()

		logger.Info("Starting PostureBoard",
			zap.String("version", Version),
			zap.String("config", configPath),
			zap.String("input_dir", cfg.Ingest.InputDir))

		var limiter *gateway.RateLimiter
		if cfg.Redis.Enabled {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: os.Getenv(cfg.Redis.PasswordEnv),
				DB:       cfg.Redis.DB,
				PoolSize: cfg.Redis.PoolSize,
			})
			limiter = gateway.NewRateLimiter(client, gateway.RateLimitConfig{
				RequestsPerMinute: cfg.Redis.RequestsPerMinute,
				IncludeHeaders:    cfg.Redis.IncludeHeaders,
			}, logger)
			logger.Info("Rate limiting enabled", zap.String("redis", cfg.Redis.Addr))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, logger, limiter)
		if err := srv.Run(ctx); err != nil {
			return err
		}

		logger.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to config file")
	rootCmd.AddCommand(serveCmd)
}
