package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Embedded facility database configuration
	Facilities FacilitiesConfig

	// Remote backend configuration (optional)
	Remote RemoteConfig

	// Local fallback store configuration
	Local LocalConfig

	// Persistence fallback policy
	Fallback FallbackConfig

	// JWT configuration (optional identity)
	JWT JWTConfig

	// Place details provider configuration
	Places PlacesConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// FacilitiesConfig holds the embedded facility store configuration
type FacilitiesConfig struct {
	DBPath   string // sqlite file, ":memory:" keeps it in-process only
	SeedPath string // SQL dump applied at initialization
}

// RemoteConfig holds remote backend configuration. An empty URL disables
// the remote tier entirely and the app runs local-only.
type RemoteConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Enabled reports whether a remote backend is configured
func (c RemoteConfig) Enabled() bool {
	return c.URL != ""
}

// LocalConfig holds the local fallback store configuration
type LocalConfig struct {
	Path string
}

// FallbackConfig holds the two-tier persistence policy knobs
type FallbackConfig struct {
	RemoteTimeout       time.Duration
	MirrorOnWrite       bool
	FallbackOnEmptyRead bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// PlacesConfig holds the place details provider configuration
type PlacesConfig struct {
	Mode    string // "dev" returns canned details, "production" calls the provider
	BaseURL string
	APIKey  string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Facilities: FacilitiesConfig{
			DBPath:   getEnv("FACILITIES_DB_PATH", ":memory:"),
			SeedPath: getEnv("FACILITIES_SEED_PATH", "data/facilities_seed.sql"),
		},
		Remote: RemoteConfig{
			URL:                getEnv("REMOTE_DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("REMOTE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("REMOTE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("REMOTE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Local: LocalConfig{
			Path: getEnv("LOCAL_STORE_PATH", "data/local_store.db"),
		},
		Fallback: FallbackConfig{
			RemoteTimeout:       time.Duration(getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 5)) * time.Second,
			MirrorOnWrite:       getEnvAsBool("MIRROR_ON_WRITE", true),
			FallbackOnEmptyRead: getEnvAsBool("FALLBACK_ON_EMPTY_READ", true),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		Places: PlacesConfig{
			Mode:    getEnv("PLACES_MODE", "dev"),
			BaseURL: getEnv("PLACES_API_URL", "https://maps.googleapis.com/maps/api/place"),
			APIKey:  getEnv("PLACES_API_KEY", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Facilities.SeedPath == "" {
		return fmt.Errorf("FACILITIES_SEED_PATH is required")
	}

	if c.Local.Path == "" {
		return fmt.Errorf("LOCAL_STORE_PATH is required")
	}

	if c.Fallback.RemoteTimeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT_SECONDS must be positive")
	}

	// Place details provider needs credentials only in production mode
	if c.Places.Mode == "production" && c.Places.APIKey == "" {
		return fmt.Errorf("PLACES_API_KEY is required in production mode")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
