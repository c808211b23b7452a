package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file if present. It reports whether a file was read;
// a missing file is not an error because plain environment variables work too.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetDuration parses key as a time.Duration, falling back on absence.
func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, d)
	}
	return d, nil
}

// Server holds the settings of the directory service.
type Server struct {
	Port         string
	ShopsAPIURL  string
	ShopsAPIPath string
	FetchTimeout time.Duration
	LogLevel     string
	LogFormat    string
}

func LoadServer() (Server, error) {
	timeout, err := GetDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return Server{}, err
	}

	cfg := Server{
		Port:         Get("PORT", "8080"),
		ShopsAPIURL:  Get("SHOPS_API_URL", ""),
		ShopsAPIPath: Get("SHOPS_API_PATH", "/api/shops"),
		FetchTimeout: timeout,
		LogLevel:     Get("LOG_LEVEL", "info"),
		LogFormat:    Get("LOG_FORMAT", "console"),
	}

	if cfg.ShopsAPIURL == "" {
		return Server{}, errors.New("config: SHOPS_API_URL is required")
	}

	return cfg, nil
}

// Store describes where shop fixtures live for the stub and dbtool.
type Store struct {
	Driver      string
	DatabaseURL string
	DBPath      string
	SeedPath    string
	APIPath     string
	Port        string
	LogLevel    string
	LogFormat   string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string
	ElasticCACert   string
}

func LoadStore() (Store, error) {
	cfg := Store{
		Driver:      strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DatabaseURL: Get("DATABASE_URL", ""),
		DBPath:      Get("DB_PATH", "data/shops.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/shops.json"),
		APIPath:     Get("SHOPS_API_PATH", "/api/shops"),
		Port:        Get("STUB_PORT", "8081"),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogFormat:   Get("LOG_FORMAT", "console"),

		ElasticURL:      Get("ELASTIC_URL", "http://localhost:9200"),
		ElasticUser:     Get("ELASTIC_USER", ""),
		ElasticPassword: Get("ELASTIC_PASSWORD", ""),
		ElasticIndex:    Get("ELASTIC_INDEX", "shops"),
		ElasticCACert:   Get("ELASTIC_CA_CERT", ""),
	}

	switch cfg.Driver {
	case "sqlite", "elasticsearch":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Store{}, errors.New("config: DATABASE_URL is required for DB_DRIVER=postgres")
		}
	default:
		return Store{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}
