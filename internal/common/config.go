package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Dirs     DirConfig
	Portal   PortalConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// OCRConfig holds the vision-service configuration
type OCRConfig struct {
	Endpoint     string
	Key          string
	PollInterval time.Duration
	PollTimeout  time.Duration
	MaxRetries   int
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// DirConfig holds the working directories for the upload/archive flow
type DirConfig struct {
	TempDir    string
	OutputsDir string
	UploadDir  string
	ArchiveDir string
	QueueDB    string // sqlite work-item queue; empty = mtime claiming only
}

// PortalConfig holds the target web application settings for the worker
type PortalConfig struct {
	LoginURL   string
	PanelURL   string
	Username   string
	Password   string
	Headless   bool
	LoginTries int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8007"),
		},
		OCR: OCRConfig{
			Endpoint:     getEnv("OCR_ENDPOINT", ""),
			Key:          getEnv("OCR_KEY", ""),
			PollInterval: getEnvAsDuration("OCR_POLL_INTERVAL", 2*time.Second),
			PollTimeout:  getEnvAsDuration("OCR_POLL_TIMEOUT", 90*time.Second),
			MaxRetries:   getEnvAsInt("OCR_MAX_RETRIES", 3),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 90*time.Second),
		},
		Dirs: DirConfig{
			TempDir:    getEnv("TEMP_DIR", "temp_files"),
			OutputsDir: getEnv("OUTPUTS_DIR", "outputs"),
			UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
			ArchiveDir: getEnv("ARCHIVE_DIR", "archives"),
			QueueDB:    getEnv("QUEUE_DB", ""),
		},
		Portal: PortalConfig{
			LoginURL:   getEnv("PORTAL_LOGIN_URL", ""),
			PanelURL:   getEnv("PORTAL_PANEL_URL", ""),
			Username:   getEnv("PORTAL_USERNAME", ""),
			Password:   getEnv("PORTAL_PASSWORD", ""),
			Headless:   getEnvAsBool("PORTAL_HEADLESS", false),
			LoginTries: getEnvAsInt("PORTAL_LOGIN_TRIES", 3),
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the parts of the configuration a server run cannot do without.
func (c *Config) Validate() error {
	if c.OCR.Endpoint == "" || c.OCR.Key == "" {
		return NewAppError("CONFIG_ERROR", "OCR_ENDPOINT and OCR_KEY are required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}

// ValidatePortal checks the settings the automation worker cannot run without.
func (c *Config) ValidatePortal() error {
	if c.Portal.LoginURL == "" || c.Portal.PanelURL == "" {
		return NewAppError("CONFIG_ERROR", "PORTAL_LOGIN_URL and PORTAL_PANEL_URL are required", ErrInvalidInput)
	}
	if c.Portal.Username == "" || c.Portal.Password == "" {
		return NewAppError("CONFIG_ERROR", "PORTAL_USERNAME and PORTAL_PASSWORD are required", ErrInvalidInput)
	}
	return nil
}
