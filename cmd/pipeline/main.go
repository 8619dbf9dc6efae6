package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sentimentlab/topic-pulse/internal/api"
	"github.com/sentimentlab/topic-pulse/internal/archive"
	"github.com/sentimentlab/topic-pulse/internal/config"
	"github.com/sentimentlab/topic-pulse/internal/notifications"
	"github.com/sentimentlab/topic-pulse/internal/pipeline"
	"github.com/sentimentlab/topic-pulse/internal/scheduler"
	"github.com/sentimentlab/topic-pulse/internal/store"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Topic Pulse pipeline")

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logrus.Fatalf("Failed to create store directory: %v", err)
	}

	mergeStore, err := store.Open(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("Failed to open merge store: %v", err)
	}
	defer mergeStore.Close()

	var translator translate.Translator = translate.Noop{}
	if cfg.EnableTranslation {
		translator = translate.NewGoogleTranslator(
			cfg.TranslateEndpoint,
			cfg.TargetLanguage,
			time.Duration(cfg.TranslateTimeout)*time.Second,
		)
	}

	var archiver archive.Archiver = archive.Disabled{}
	if cfg.StorageAccount != "" {
		azureArchive, err := archive.NewAzureArchive(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize raw-file archive: %v", err)
		}
		archiver = azureArchive
	}

	notificationService := notifications.NewService(cfg)
	pipelineService := pipeline.NewService(cfg, mergeStore, archiver, translator)

	schedulerService := scheduler.NewService(cfg, pipelineService, notificationService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	if cfg.RunOnStart {
		go schedulerService.RunOnce(context.Background())
	}

	apiServer := api.NewServer(mergeStore, pipelineService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
