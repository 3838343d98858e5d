package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"resource-curator/api"
	"resource-curator/config"
	"resource-curator/providers"
	"resource-curator/providers/registry"
	"resource-curator/services"
	"resource-curator/storage"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database
	db, err := storage.Open(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	if err := storage.Migrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	resourceStore := storage.NewResourceStore(db)
	conceptStore := storage.NewConceptStore(db)
	profileStore := storage.NewProfileStore(db)

	// Seeding
	conceptStore.SeedDefaults(cfg.SeedConceptNames(), logging)

	// Setup Sources
	descriptors := providers.DefaultDescriptors()
	if cfg.SourcesFile != "" {
		descriptors, err = providers.LoadDescriptors(cfg.SourcesFile)
		if err != nil {
			logging.Fatal("Failed to load source registry", zap.String("file", cfg.SourcesFile), zap.Error(err))
		}
	}
	reg, err := registry.New(descriptors, registry.Options{
		Enabled:       cfg.EnabledSourceNames(),
		Credentials:   map[string]string{"youtube": cfg.YouTubeAPIKey},
		RatePerSecond: cfg.SourceRatePerSecond,
		Client:        providers.NewHTTPClient(cfg.SourceTimeout, cfg.SourceUserAgent),
	}, logging)
	if err != nil {
		logging.Fatal("No valid sources enabled. Check ENABLED_SOURCES in .env", zap.Error(err))
	}
	logging.Info("Active sources loaded", zap.Strings("sources", reg.Names()))

	// Setup Services
	dispatcher := services.NewDispatcher(reg, logging, cfg.SourceTimeout, cfg.DefaultResultLimit)
	if cfg.SnapshotsEnabled() {
		s3Client, err := storage.NewS3Client(context.Background(), storage.S3Settings{
			URL:    cfg.SnapshotS3URL,
			Region: cfg.SnapshotS3Region,
			Key:    cfg.SnapshotS3Key,
			Secret: cfg.SnapshotS3Secret,
		})
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		dispatcher.Archiver = storage.NewSnapshotArchiver(s3Client, cfg.SnapshotS3Bucket)
		logging.Info("Discovery snapshots enabled", zap.String("bucket", cfg.SnapshotS3Bucket))
	}
	curator := services.NewCurator(resourceStore, logging, cfg.DefaultRelevanceScore)
	graph := services.NewGraphBuilder(resourceStore, logging)

	// Setup Router
	router := api.NewRouter(&api.Server{
		Dispatcher:   dispatcher,
		Curator:      curator,
		Graph:        graph,
		Concepts:     conceptStore,
		Profiles:     profileStore,
		Logger:       logging,
		APISecretKey: cfg.APISecretKey,
		DefaultLimit: cfg.DefaultResultLimit,
		MaxLimit:     cfg.MaxResultLimit,
	})
	// Setup Cron
	if cfg.SweepEnabled {
		sweeper := &services.Sweeper{
			Concepts:   conceptStore,
			Dispatcher: dispatcher,
			Curator:    curator,
			Limit:      cfg.DefaultResultLimit,
			Logger:     logging,
		}
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled curation sweep...")
			count, err := sweeper.RunAll(context.Background())
			if err != nil {
				logging.Error("Cron job failed", zap.Error(err))
				return
			}
			logging.Info("Cron job completed", zap.Int("new_resources", count))
		})
		if err != nil {
			logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
