package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"labelforge.com/labelforge/internal/cache"
	config "labelforge.com/labelforge/internal/configs"
	httpapi "labelforge.com/labelforge/internal/http"
	repository "labelforge.com/labelforge/internal/repositories"
	"labelforge.com/labelforge/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the labeling workflow HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		db := config.NewDatabase(cfg.DatabaseDSN)

		taskRepo := repository.NewTaskRepository(db)
		projectRepo := repository.NewProjectRepository(db)

		var metricsCache cache.MetricsCache
		if cfg.RedisEnabled {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			metricsCache = cache.NewRedisMetricsCache(redisClient, cfg.MetricsCacheKey)
		}

		workflow := services.NewWorkflowService(taskRepo)
		queues := services.NewQueueService(taskRepo)
		metrics := services.NewMetricsService(
			taskRepo,
			metricsCache,
			time.Duration(cfg.MetricsCacheTTLSeconds)*time.Second,
		)
		projects := services.NewProjectService(projectRepo, taskRepo)

		var refresher *services.MetricsRefresher
		if metricsCache != nil && cfg.MetricsRefreshSeconds > 0 {
			refresher = services.NewMetricsRefresher(
				metrics,
				time.Duration(cfg.MetricsRefreshSeconds)*time.Second,
			)
		}

		e := echo.New()

		handler := httpapi.NewHandler(workflow, queues, metrics, projects)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)
		if refresher != nil {
			refresher.Shutdown(ctx)
		}

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
