package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/piecesync/internal/archive"
	"github.com/aevon-lab/piecesync/internal/catalog"
	corecfg "github.com/aevon-lab/piecesync/internal/core/config"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	"github.com/aevon-lab/piecesync/internal/core/storage/postgres"
	"github.com/aevon-lab/piecesync/internal/core/storage/sqlite"
	"github.com/aevon-lab/piecesync/internal/filestore"
	"github.com/aevon-lab/piecesync/internal/migrations"
	"github.com/aevon-lab/piecesync/internal/reconcile"
	"github.com/aevon-lab/piecesync/internal/registry"
	"github.com/aevon-lab/piecesync/internal/scheduler"
	"github.com/aevon-lab/piecesync/internal/server"
)

// metadataDB is what main needs from a database adapter.
type metadataDB interface {
	storage.MetadataStore
	server.HealthChecker
	Close() error
}

func main() {
	configPath := flag.String("config", "piecesync.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"environment", cfg.Environment,
		"sync_mode", cfg.Pieces.SyncMode,
		"registry_url", cfg.Pieces.RegistryURL,
		"source", cfg.Pieces.Source,
		"database", cfg.Database.Type,
		"filestore", cfg.FileStore.Backend,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Storage
	db, err := openDatabase(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3. Initialize File Storage
	files, err := filestore.New(ctx, filestore.Options{
		Backend: cfg.FileStore.Backend,
		Path:    cfg.FileStore.Path,
		S3: filestore.S3Config{
			Bucket:   cfg.FileStore.S3.Bucket,
			Region:   cfg.FileStore.S3.Region,
			Endpoint: cfg.FileStore.S3.Endpoint,
			Prefix:   cfg.FileStore.S3.Prefix,
		},
	})
	if err != nil {
		slog.Error("Failed to initialize file storage", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Registry Source (chosen once for the process lifetime)
	discoverer := registry.NewFileSystemDiscoverer(
		cfg.Pieces.PackagesDir,
		cfg.Pieces.Release,
		cfg.Pieces.DevPieceNames(),
	)

	var source registry.Source
	if cfg.Pieces.IsLocalRegistry() {
		packager := archive.NewPackager(archive.ExecRunner{}, files, cfg.Pieces.PackageCommand, "")
		source = registry.NewLocalSource(discoverer, packager)
	} else {
		source, err = registry.NewRemoteSource(registry.RemoteOptions{
			BaseURL: cfg.Pieces.RegistryURL,
			Edition: cfg.Pieces.Edition,
			Release: cfg.Pieces.Release,
			Timeout: cfg.Pieces.Timeout(),
		})
		if err != nil {
			slog.Error("Failed to initialize registry source", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Registry source initialized", "local", source.IsLocal(), "release", cfg.Pieces.Release)

	// 5. Initialize Reconciler + Scheduler
	jobs := scheduler.New()
	reconciler := reconcile.New(source, db, jobs, reconcile.OptionsFromConfig(cfg))

	// 6. Initialize Catalog (DB-backed unless pieces are loaded from files)
	var reader storage.MetadataReader = db
	if cfg.Pieces.Source == corecfg.SourceFile {
		reader = catalog.NewFileReader(discoverer)
	}
	catalogSvc := catalog.NewService(reader, reconciler, files, cfg.Pieces.Release)

	// 7. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), db, cfg.Server.Mode)
	catalogSvc.RegisterRoutes(srv.Engine)

	// 8. Start Services
	jobs.Start(ctx)
	go func() {
		if err := reconciler.Setup(ctx); err != nil {
			slog.Error("Piece sync setup failed", "error", err)
		}
	}()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	reconciler.Close()
	jobs.Stop()
	slog.Info("Shutdown complete")
}

// openDatabase opens the configured database, applies migrations and
// returns the metadata adapter.
func openDatabase(cfg *corecfg.Config) (metadataDB, error) {
	switch cfg.Database.Type {
	case "sqlite":
		sqlDB, err := sqlite.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		adapter, err := sqlite.NewAdapter(sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return adapter, nil

	default:
		sqlDB, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunMigrations(sqlDB, cfg.Database.AutoMigrate); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		adapter, err := postgres.NewAdapter(sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return adapter, nil
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
