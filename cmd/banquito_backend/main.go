package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/banquito_backend/internal/adapters/backup"
	"github.com/SscSPs/banquito_backend/internal/adapters/cache"
	"github.com/SscSPs/banquito_backend/internal/adapters/pdf"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/core/services"
	"github.com/SscSPs/banquito_backend/internal/handlers"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/SscSPs/banquito_backend/internal/platform/config"
	"github.com/SscSPs/banquito_backend/internal/platform/worker"
	"github.com/SscSPs/banquito_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/banquito_backend/pkg/database"
	"github.com/gin-gonic/gin"
)

// systemUserID is recorded as the author of changes made by background jobs.
const systemUserID = "system"

// @title Banquito Backend API
// @version 1.0
// @description Loan bookkeeping for small lenders: clients, loans, payments, reports and backups.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	if err := wireAdapters(ctx, cfg, &repos, logger); err != nil {
		logger.Error("Failed to initialize adapters", slog.String("error", err.Error()))
		os.Exit(1)
	}
	svcs := services.NewServiceContainer(cfg, repos)

	scheduler, err := newScheduler(cfg, svcs, logger)
	if err != nil {
		logger.Error("Failed to initialize scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, svcs); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	scheduler.Stop()
}

// wireAdapters fills the non-database ports of the repository provider.
func wireAdapters(ctx context.Context, cfg *config.Config, repos *portsrepo.RepositoryProvider, logger *slog.Logger) error {
	repos.Cache = cache.NoopCache{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// Reports still work uncached.
			logger.Warn("Redis unavailable, caching disabled", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		} else {
			repos.Cache = cache.NewRedisCache(rdb)
			logger.Info("Redis cache connected", slog.String("addr", cfg.RedisAddr))
		}
	}

	store, err := backup.NewZipStore(cfg.BackupDir)
	if err != nil {
		return err
	}
	repos.BackupStore = store

	if cfg.BackupFTPHost != "" {
		repos.BackupMirrors = append(repos.BackupMirrors, backup.NewFTPMirror(backup.FTPConfig{
			Host:     cfg.BackupFTPHost,
			Port:     cfg.BackupFTPPort,
			User:     cfg.BackupFTPUser,
			Password: cfg.BackupFTPPassword,
			Dir:      cfg.BackupFTPDir,
		}))
		logger.Info("FTP backup mirror enabled", slog.String("host", cfg.BackupFTPHost))
	}
	if cfg.BackupDriveCredentialsFile != "" {
		drive, err := backup.NewDriveMirror(ctx, cfg.BackupDriveCredentialsFile, cfg.BackupDriveFolderID)
		if err != nil {
			logger.Warn("Google Drive mirror disabled", slog.String("error", err.Error()))
		} else {
			repos.BackupMirrors = append(repos.BackupMirrors, drive)
			logger.Info("Google Drive backup mirror enabled")
		}
	}

	repos.ContractRenderer = pdf.NewContractRenderer()
	return nil
}

// newScheduler registers the periodic backup and the daily overdue refresh.
func newScheduler(cfg *config.Config, svcs *portssvc.ServiceContainer, logger *slog.Logger) (*worker.Scheduler, error) {
	scheduler, err := worker.NewScheduler(2, logger)
	if err != nil {
		return nil, err
	}
	scheduler.Add(worker.Job{
		Name:     "backup",
		Interval: cfg.BackupInterval,
		Run: func(ctx context.Context) error {
			_, err := svcs.Backup.CreateBackup(ctx)
			return err
		},
	})
	scheduler.Add(worker.Job{
		Name:       "refresh-loan-status",
		Interval:   24 * time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			updated, err := svcs.Loan.RefreshStatuses(ctx, time.Now(), systemUserID)
			if err == nil && updated > 0 {
				middleware.GetLoggerFromCtx(ctx).Info("Loans marked overdue", slog.Int64("updated", updated))
			}
			return err
		},
	})
	return scheduler, nil
}
