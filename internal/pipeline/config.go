package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"conso-pipeline/internal/odre"
)

// Config defines the pipeline configuration. Environment variables provide
// the defaults; a YAML file named by CONSO_CONFIG overrides them.
type Config struct {
	HTTPAddr        string `yaml:"http_addr"`
	APIBaseURL      string `yaml:"api_base_url"`
	DefaultLimit    int    `yaml:"default_limit"`
	ExportDir       string `yaml:"export_dir"`
	ExportBucketURL string `yaml:"export_bucket_url"`

	// Env-only; yaml.v3 has no native duration decoding.
	FetchTimeout time.Duration `yaml:"-"`
}

// LoadConfig loads configuration from env, then an optional YAML overlay.
func LoadConfig() (Config, error) {
	cfg := Config{
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		APIBaseURL:      getenvDefault("ODRE_API_URL", odre.DefaultBaseURL),
		FetchTimeout:    getenvDuration("ODRE_FETCH_TIMEOUT", 10*time.Second),
		DefaultLimit:    getenvIntDefault("ODRE_DEFAULT_LIMIT", 100),
		ExportDir:       getenvDefault("EXPORT_DIR", filepath.FromSlash("var/exports")),
		ExportBucketURL: os.Getenv("EXPORT_BUCKET_URL"),
	}

	if path := os.Getenv("CONSO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.APIBaseURL == "" {
		return cfg, errors.New("pipeline: api base url required")
	}
	if cfg.DefaultLimit <= 0 {
		return cfg, errors.New("pipeline: default limit must be positive")
	}
	if cfg.ExportDir == "" {
		return cfg, errors.New("pipeline: export dir required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
