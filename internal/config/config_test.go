package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./test.db",
		},
		Gmail: GmailConfig{
			ClientID:     "test",
			ClientSecret: "test",
			RefreshToken: "test",
			Label:        "Search Engine",
		},
		Ingest: IngestConfig{
			BatchSize: 50,
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: 30,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	config := validConfig()
	assert.NoError(t, config.Validate())

	invalidConfig := &Config{
		Server: ServerConfig{
			Port: "",
		},
	}
	assert.Error(t, invalidConfig.Validate())
}

func TestConfigValidationDatabaseDrivers(t *testing.T) {
	config := validConfig()
	config.Database = DatabaseConfig{
		Driver: "mysql",
		Host:   "localhost",
		User:   "test",
		DBName: "test",
	}
	assert.NoError(t, config.Validate())

	config.Database.User = ""
	assert.Error(t, config.Validate())

	config.Database = DatabaseConfig{Driver: "oracle"}
	assert.Error(t, config.Validate())

	config.Database = DatabaseConfig{Driver: "sqlite"}
	assert.Error(t, config.Validate(), "sqlite requires a path")
}

func TestConfigValidationCredentials(t *testing.T) {
	config := validConfig()
	config.Gmail.RefreshToken = ""
	assert.Error(t, config.Validate())

	config = validConfig()
	config.Gmail.UseIMAP = true
	assert.Error(t, config.Validate(), "IMAP mode requires IMAP credentials")

	config.Gmail.IMAPUser = "user@example.com"
	config.Gmail.IMAPPassword = "secret"
	assert.NoError(t, config.Validate())
}

func TestConfigValidationMarkerFile(t *testing.T) {
	config := validConfig()
	config.Ingest.UseMarkerFile = true
	config.Ingest.MarkerFilePath = ""
	assert.Error(t, config.Validate())

	config.Ingest.MarkerFilePath = "processed_ids.txt"
	assert.NoError(t, config.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	config := DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := config.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}
