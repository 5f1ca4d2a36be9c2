package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/database"
	"github.com/Unload-CM/dmc-erp/internal/erp/cache"
	"github.com/Unload-CM/dmc-erp/internal/erp/handler"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/scheduler"
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/Unload-CM/dmc-erp/internal/erp/sse"
	"github.com/Unload-CM/dmc-erp/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP API 서버 실행",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(parent context.Context, autoMigrate bool) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is required")
	}

	logger.Info("Starting dmc-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if autoMigrate {
		if err := migrateUp(cfg.Database, logger); err != nil {
			return err
		}
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	hub := sse.NewHub(logger)
	deps := service.Deps{
		Publisher: sse.NewLocalPublisher(hub),
		Objects:   openObjects(ctx, cfg.MinIO, logger),
	}

	var relay *sse.RedisRelay
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		} else {
			defer client.Close()
			deps.Cache = cache.NewRedisStore(client)
			relay = sse.NewRedisRelay(client, hub, logger)
			deps.Publisher = relay
			logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	svc := service.NewServices(repository.NewRepositories(db), deps, cfg, logger)

	gin.SetMode(cfg.Server.Mode)
	router := newRouter(cfg, svc, hub, logger)

	// WriteTimeout stays 0 by default; the event stream is long-lived.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.New(svc.Backup, cfg.Backup.CheckInterval, logger).Run(gctx)
	})

	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		// streams never finish on their own
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server exited")
	return nil
}

func newRouter(cfg *config.Config, svc *service.Services, hub *sse.Hub, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins()))
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{handler.EventsPath})))

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	handler.RegisterRoutes(router, handler.NewHandlers(svc, hub, logger), cfg.JWT.Secret)
	return router
}
