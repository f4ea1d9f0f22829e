package config

import (
	"fmt"
	"os"
	"strconv"
)

// Dataset backends selectable through DATASET_BACKEND.
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Dataset     DatasetConfig
	Database    DatabaseConfig
	Audit       AuditConfig
	OTEL        OTELConfig
}

// DatasetConfig selects and locates the backing data source
type DatasetConfig struct {
	Backend         string
	VisitsPath      string
	NotesPath       string
	CredentialsPath string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// AuditConfig locates the append-only usage trail
type AuditConfig struct {
	LogPath string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Dataset: DatasetConfig{
			Backend:         getEnv("DATASET_BACKEND", BackendCSV),
			VisitsPath:      getEnv("VISITS_CSV_PATH", "Patient_data.csv"),
			NotesPath:       getEnv("NOTES_CSV_PATH", "Notes.csv"),
			CredentialsPath: getEnv("CREDENTIALS_CSV_PATH", "Credentials.csv"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "visit_insights"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Audit: AuditConfig{
			LogPath: getEnv("AUDIT_LOG_PATH", "usage_log.csv"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "visit-insights"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Dataset.Backend != BackendCSV && cfg.Dataset.Backend != BackendPostgres {
		return nil, fmt.Errorf("unsupported DATASET_BACKEND %q, expected %q or %q",
			cfg.Dataset.Backend, BackendCSV, BackendPostgres)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
