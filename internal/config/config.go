package config

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full service configuration
type Config struct {
	Server  ServerConfig
	AI      *AIConfig
	CRM     CRMConfig
	Email   EmailConfig
	Scraper ScraperConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Environment    string // development, staging, production
	AllowedOrigins string
}

// CRMConfig holds GoHighLevel credentials
type CRMConfig struct {
	APIKey     string
	LocationID string
	BaseURL    string
	APIVersion string
}

// IsConfigured returns true if both credentials are present
func (c CRMConfig) IsConfigured() bool {
	return c.APIKey != "" && c.LocationID != ""
}

// EmailConfig holds the sender identity
type EmailConfig struct {
	FromEmail string
	AppName   string
}

// ScraperConfig holds website fetch settings
type ScraperConfig struct {
	Timeout time.Duration
}

// MongoConfig is optional; an empty URI keeps the built-in question bank
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig is optional; an empty address disables the website cache
type RedisConfig struct {
	Addr string
	TTL  time.Duration
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Load reads the configuration from the environment and a local .env file.
func Load() (*Config, error) {
	// .env is optional; deployed environments set real variables
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			Environment:    getEnvOrDefault("APP_ENV", "development"),
			AllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),
		},
		AI: DefaultAIConfig(),
		CRM: CRMConfig{
			APIKey:     getEnvAny("GHL_API_KEY", "GOHIGHLEVEL_API_KEY"),
			LocationID: getEnvAny("GHL_LOCATION_ID", "GOHIGHLEVEL_LOCATION_ID"),
			BaseURL:    getEnvOrDefault("GHL_BASE_URL", "https://rest.gohighlevel.com/v1"),
			APIVersion: getEnvOrDefault("GHL_API_VERSION", "2021-07-28"),
		},
		Email: EmailConfig{
			FromEmail: getEnvOrDefault("FROM_EMAIL", "noreply@brandarchetypequiz.com"),
			AppName:   getEnvOrDefault("APP_NAME", "Brand Archetype Quiz"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnvOrDefault("MONGO_DATABASE", "brandquiz"),
		},
		Redis: RedisConfig{
			Addr: strings.TrimPrefix(os.Getenv("REDIS_URI"), "redis://"),
		},
	}

	var errs []error

	scrapeTimeout, err := time.ParseDuration(getEnvOrDefault("SCRAPE_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid SCRAPE_TIMEOUT: %w", err))
	}
	cfg.Scraper.Timeout = scrapeTimeout

	cacheTTL, err := time.ParseDuration(getEnvOrDefault("WEBSITE_CACHE_TTL", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid WEBSITE_CACHE_TTL: %w", err))
	}
	cfg.Redis.TTL = cacheTTL

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return cfg, nil
}

// validate checks that required credentials are present. Development
// runs without them and falls back to mock AI and a disabled CRM.
func (c *Config) validate() error {
	var errs []error

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	if _, err := mail.ParseAddress(c.Email.FromEmail); err != nil {
		errs = append(errs, fmt.Errorf("FROM_EMAIL is not a valid email address: %s", c.Email.FromEmail))
	}

	if c.Scraper.Timeout <= 0 {
		errs = append(errs, errors.New("SCRAPE_TIMEOUT must be positive"))
	}

	missing := c.missingCredentials()
	if len(missing) > 0 {
		if c.IsDevelopment() {
			log.Printf("Warning: %s not set (development mode, integrations degraded)", strings.Join(missing, ", "))
		} else {
			for _, key := range missing {
				errs = append(errs, fmt.Errorf("%s is required", key))
			}
		}
	}

	return errors.Join(errs...)
}

func (c *Config) missingCredentials() []string {
	var missing []string
	if c.AI.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.CRM.APIKey == "" {
		missing = append(missing, "GHL_API_KEY")
	}
	if c.CRM.LocationID == "" {
		missing = append(missing, "GHL_LOCATION_ID")
	}
	return missing
}

// MustLoad is like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvAny returns the first non-empty value among keys
func getEnvAny(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
