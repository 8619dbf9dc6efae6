// Command runonce executes a single batch run and prints the report, without
// starting the HTTP server or the scheduler. Useful for cron-driven
// deployments and manual backfills.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sentimentlab/topic-pulse/internal/archive"
	"github.com/sentimentlab/topic-pulse/internal/config"
	"github.com/sentimentlab/topic-pulse/internal/pipeline"
	"github.com/sentimentlab/topic-pulse/internal/store"
	"github.com/sentimentlab/topic-pulse/internal/translate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

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

	pipelineService := pipeline.NewService(cfg, mergeStore, archiver, translator)
	report := pipelineService.Run(context.Background())

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logrus.Fatalf("Failed to print report: %v", err)
	}
}
