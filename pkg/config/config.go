package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// Storage layout
	StorageRoot string
	PreviewRoot string

	// Analyzer runtime resolution, tried in order: conda prefix, project venv, system python
	AnalyzerDir   string
	RuntimePrefix string
	VenvPath      string

	AnalysisTimeout time.Duration

	// Preview rendering backends; fallback may be empty
	PreviewPrimaryURL  string
	PreviewFallbackURL string
	PreviewTimeout     time.Duration
	PreviewWidth       int
	PreviewHeight      int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),

		StorageRoot: getEnv("STORAGE_ROOT", "./storage/uploads"),
		PreviewRoot: getEnv("PREVIEW_ROOT", "./storage/previews"),

		AnalyzerDir:   getEnv("ANALYZER_DIR", "./analyzers"),
		RuntimePrefix: getEnv("CONDA_PREFIX", ""),
		VenvPath:      getEnv("VENV_PATH", "./venv"),

		AnalysisTimeout: getEnvAsDuration("ANALYSIS_TIMEOUT", 5*time.Minute),

		PreviewPrimaryURL:  getEnv("PREVIEW_PRIMARY_URL", "http://localhost:8081"),
		PreviewFallbackURL: getEnv("PREVIEW_FALLBACK_URL", ""),
		PreviewTimeout:     getEnvAsDuration("PREVIEW_TIMEOUT", 2*time.Minute),
		PreviewWidth:       getEnvAsInt("PREVIEW_WIDTH", 800),
		PreviewHeight:      getEnvAsInt("PREVIEW_HEIGHT", 600),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
