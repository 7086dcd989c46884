package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-portal/config"
	"news-portal/events"
	"news-portal/jobs"
	"news-portal/repositories"
	"news-portal/router"
	"news-portal/services"
	"news-portal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(c *cobra.Command) {
	c.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "migrate the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if autoMigrate {
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var rdb redis.Scripter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiting falls back to in-process", zap.Error(err))
		}
		cancel()
		rdb = client
	}

	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.EventsEnabled {
		publisher = events.NewAMQPPublisher(cfg.AMQPURL, logger)
	}
	defer publisher.Close()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("media store: %w", err)
	}

	repos := repositories.NewRepositories(db)
	svc := services.NewServices(cfg, repos, store, publisher, logger)

	scheduler, err := jobs.New(cfg, svc.Tags, svc.AuditLogs, logger)
	if err != nil {
		return fmt.Errorf("schedule jobs: %w", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.Setup(cfg, svc, rdb, logger),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
