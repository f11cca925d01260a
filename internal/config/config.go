package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName = "blitzadex"

	DefaultCatalogURL     = "https://raw.communitydragon.org"
	DefaultGameDataPlugin = "rcp-be-lol-game-data"

	// EnvFile is read from ConfigDir after the working directory's .env.
	EnvFile = "blitzadex.env"
)

// Paths are the per-user directories the catalog client reads and writes.
// They are resolved once at startup and never change afterwards.
type Paths struct {
	CacheDir  string
	DataDir   string
	ConfigDir string
}

type Config struct {
	// Server
	Port        string
	Environment string

	// Catalog
	CatalogURL       string
	GameDataPlugin   string
	HTTPTimeout      time.Duration
	FetchConcurrency int

	// Status checks
	StatusTTL    time.Duration
	SyncInterval time.Duration

	// Database (optional mirror of synced champions)
	DatabaseURL string

	// JWT (optional, enables POST /sync)
	JWTSecret          string
	JWTExpirationHours int

	Paths Paths
}

func Load() (*Config, error) {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	paths, err := DefaultPaths(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directories: %w", err)
	}
	paths.CacheDir = getEnv("CACHE_DIR", paths.CacheDir)
	paths.DataDir = getEnv("DATA_DIR", paths.DataDir)
	paths.ConfigDir = getEnv("CONFIG_DIR", paths.ConfigDir)

	// Per-user defaults; anything already set above takes precedence.
	_ = godotenv.Load(filepath.Join(paths.ConfigDir, EnvFile))

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		CatalogURL:         getEnv("CDRAGON_URL", DefaultCatalogURL),
		GameDataPlugin:     getEnv("CDRAGON_GAME_DATA_PLUGIN", DefaultGameDataPlugin),
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		FetchConcurrency:   getEnvInt("FETCH_CONCURRENCY", 16),
		StatusTTL:          time.Duration(getEnvInt("STATUS_TTL_SECONDS", 300)) * time.Second,
		SyncInterval:       time.Duration(getEnvInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),
		Paths:              paths,
	}

	if cfg.FetchConcurrency < 0 {
		return nil, fmt.Errorf("FETCH_CONCURRENCY must be non-negative, got %d", cfg.FetchConcurrency)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// DefaultPaths resolves the platform cache, data and config directories for app.
func DefaultPaths(app string) (Paths, error) {
	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		return Paths{}, err
	}
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		CacheDir:  filepath.Join(cacheRoot, app),
		DataDir:   filepath.Join(dataRoot(), app),
		ConfigDir: filepath.Join(configRoot, app),
	}, nil
}

func dataRoot() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	return os.TempDir()
}

// SyncEnabled reports whether the admin sync endpoint can verify tokens.
func (c *Config) SyncEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
