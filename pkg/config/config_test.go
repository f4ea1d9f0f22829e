package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DatasetConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("DATASET_BACKEND", "postgres")
	os.Setenv("VISITS_CSV_PATH", "/data/visits.csv")
	os.Setenv("AUDIT_LOG_PATH", "/var/log/usage.csv")
	defer func() {
		os.Unsetenv("DATASET_BACKEND")
		os.Unsetenv("VISITS_CSV_PATH")
		os.Unsetenv("AUDIT_LOG_PATH")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify dataset config
	assert.Equal(t, "postgres", cfg.Dataset.Backend)
	assert.Equal(t, "/data/visits.csv", cfg.Dataset.VisitsPath)
	assert.Equal(t, "/var/log/usage.csv", cfg.Audit.LogPath)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("DATASET_BACKEND")
	os.Unsetenv("VISITS_CSV_PATH")
	os.Unsetenv("AUDIT_LOG_PATH")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, BackendCSV, cfg.Dataset.Backend)
	assert.Equal(t, "Patient_data.csv", cfg.Dataset.VisitsPath)
	assert.Equal(t, "Notes.csv", cfg.Dataset.NotesPath)
	assert.Equal(t, "Credentials.csv", cfg.Dataset.CredentialsPath)
	assert.Equal(t, "usage_log.csv", cfg.Audit.LogPath)
	assert.Equal(t, "visit_insights", cfg.Database.Database)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	os.Setenv("DATASET_BACKEND", "sqlite")
	defer os.Unsetenv("DATASET_BACKEND")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "reader",
		Password: "secret",
		Database: "visits",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=reader password=secret dbname=visits sslmode=require",
		cfg.DatabaseDSN())
}
