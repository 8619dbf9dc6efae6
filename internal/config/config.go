package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Merge store configuration
	DBPath string

	// Collector configuration
	OutputDir        string
	CollectorTimeout int // minutes; applies per collector invocation

	// Per-source collector commands. An empty command means the collector is
	// not invoked and the source's raw file is consumed as-is if present.
	PeoplesDailyCommand string
	WSJCommand          string
	WeiboCommand        string
	TwitterCommand      string

	// Translation configuration
	EnableTranslation bool
	TargetLanguage    string
	TranslateEndpoint string
	TranslateTimeout  int // seconds; per call

	// Schedule configuration
	PipelineSchedule string // cron expression with seconds field
	RunOnStart       bool

	// Raw-file archival (optional)
	StorageAccount   string
	StorageContainer string

	// Notification configuration (optional)
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DBPath: getEnv("DB_PATH", "data/records.db"),

		OutputDir:        getEnv("OUTPUT_DIR", "output"),
		CollectorTimeout: getIntEnv("COLLECTOR_TIMEOUT_MINUTES", 15),

		PeoplesDailyCommand: getEnv("COLLECTOR_PEOPLES_DAILY_CMD", ""),
		WSJCommand:          getEnv("COLLECTOR_WSJ_CMD", ""),
		WeiboCommand:        getEnv("COLLECTOR_WEIBO_CMD", ""),
		TwitterCommand:      getEnv("COLLECTOR_TWITTER_CMD", ""),

		EnableTranslation: getBoolEnv("ENABLE_TRANSLATION", true),
		TargetLanguage:    getEnv("TARGET_LANGUAGE", "pt"),
		TranslateEndpoint: getEnv("TRANSLATE_ENDPOINT", "https://translate.googleapis.com/translate_a/single"),
		TranslateTimeout:  getIntEnv("TRANSLATE_TIMEOUT_SECONDS", 10),

		PipelineSchedule: getEnv("PIPELINE_SCHEDULE", "0 0 6 * * *"),
		RunOnStart:       getBoolEnv("RUN_ON_START", false),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "raw-batches"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}

	if c.CollectorTimeout <= 0 {
		return fmt.Errorf("COLLECTOR_TIMEOUT_MINUTES must be positive")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
