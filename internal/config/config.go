package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Gmail     GmailConfig     `mapstructure:"gmail"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Digest    DigestConfig    `mapstructure:"digest"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration.
// Driver is "mysql" or "sqlite"; Path is only used for sqlite.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Path     string `mapstructure:"path"`
}

// GmailConfig holds mail source configuration
type GmailConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	UserEmail    string `mapstructure:"user_email"`
	Label        string `mapstructure:"label"`
	MaxResults   int64  `mapstructure:"max_results"`
	FetchAll     bool   `mapstructure:"fetch_all"`
	UseIMAP      bool   `mapstructure:"use_imap"`
	IMAPHost     string `mapstructure:"imap_host"`
	IMAPPort     int    `mapstructure:"imap_port"`
	IMAPUser     string `mapstructure:"imap_user"`
	IMAPPassword string `mapstructure:"imap_password"`
}

// IngestConfig holds ingestion run configuration
type IngestConfig struct {
	BatchSize      int    `mapstructure:"batch_size"`
	UseMarkerFile  bool   `mapstructure:"use_marker_file"`
	MarkerFilePath string `mapstructure:"marker_file_path"`
}

// SchedulerConfig holds in-process scheduler configuration
type SchedulerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	IntervalMinutes int    `mapstructure:"interval_minutes"`
	DraftSpec       string `mapstructure:"draft_spec"`
	DraftCategory   string `mapstructure:"draft_category"`
}

// DigestConfig holds draft generation configuration
type DigestConfig struct {
	SiteURL   string `mapstructure:"site_url"`
	MaxLength int    `mapstructure:"max_length"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.path", "./emails.db")

	viper.SetDefault("gmail.label", "Search Engine")
	viper.SetDefault("gmail.max_results", 100)
	viper.SetDefault("gmail.fetch_all", false)
	viper.SetDefault("gmail.use_imap", false)
	viper.SetDefault("gmail.imap_host", "imap.gmail.com")
	viper.SetDefault("gmail.imap_port", 993)

	viper.SetDefault("ingest.batch_size", 50)
	viper.SetDefault("ingest.use_marker_file", false)
	viper.SetDefault("ingest.marker_file_path", "processed_ids.txt")

	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.interval_minutes", 30)
	viper.SetDefault("scheduler.draft_spec", "0 0 9 * * *")
	viper.SetDefault("scheduler.draft_category", "daily_digest")

	viper.SetDefault("digest.site_url", "https://www.mailmuse.in?ref=twitter")
	viper.SetDefault("digest.max_length", 255)
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Database
	viper.BindEnv("database.driver", "DB_DRIVER")
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")
	viper.BindEnv("database.path", "DB_PATH")

	// Gmail
	viper.BindEnv("gmail.client_id", "GOOGLE_CLIENT_ID")
	viper.BindEnv("gmail.client_secret", "GOOGLE_CLIENT_SECRET")
	viper.BindEnv("gmail.refresh_token", "GOOGLE_REFRESH_TOKEN")
	viper.BindEnv("gmail.user_email", "GMAIL_USER_EMAIL")
	viper.BindEnv("gmail.label", "GMAIL_LABEL")
	viper.BindEnv("gmail.max_results", "GMAIL_MAX_RESULTS")
	viper.BindEnv("gmail.fetch_all", "GMAIL_FETCH_ALL")
	viper.BindEnv("gmail.use_imap", "GMAIL_USE_IMAP")
	viper.BindEnv("gmail.imap_host", "GMAIL_IMAP_HOST")
	viper.BindEnv("gmail.imap_port", "GMAIL_IMAP_PORT")
	viper.BindEnv("gmail.imap_user", "GMAIL_IMAP_USER")
	viper.BindEnv("gmail.imap_password", "GMAIL_IMAP_PASSWORD")

	// Ingest
	viper.BindEnv("ingest.batch_size", "BATCH_SIZE")
	viper.BindEnv("ingest.use_marker_file", "USE_PROCESSED_FILE")
	viper.BindEnv("ingest.marker_file_path", "PROCESSED_FILE_PATH")

	// Scheduler
	viper.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	viper.BindEnv("scheduler.interval_minutes", "SCHEDULER_INTERVAL_MINUTES")
	viper.BindEnv("scheduler.draft_spec", "SCHEDULER_DRAFT_SPEC")
	viper.BindEnv("scheduler.draft_category", "SCHEDULER_DRAFT_CATEGORY")

	// Digest
	viper.BindEnv("digest.site_url", "DIGEST_SITE_URL")
	viper.BindEnv("digest.max_length", "DIGEST_MAX_LENGTH")
}

// GetDSN returns the MySQL database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Database.Driver {
	case "mysql":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database host, user, and dbname are required for mysql")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if !c.Gmail.UseIMAP {
		if c.Gmail.ClientID == "" || c.Gmail.ClientSecret == "" || c.Gmail.RefreshToken == "" {
			return fmt.Errorf("Gmail OAuth2 credentials are required when not using IMAP")
		}
	} else {
		if c.Gmail.IMAPUser == "" || c.Gmail.IMAPPassword == "" {
			return fmt.Errorf("IMAP credentials are required when using IMAP")
		}
	}

	if c.Gmail.Label == "" {
		return fmt.Errorf("gmail label is required")
	}

	if c.Ingest.UseMarkerFile && c.Ingest.MarkerFilePath == "" {
		return fmt.Errorf("marker file path is required when marker file is enabled")
	}

	if c.Scheduler.IntervalMinutes <= 0 {
		return fmt.Errorf("scheduler interval must be greater than 0")
	}

	return nil
}
