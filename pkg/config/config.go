package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Assembly   AssemblyAIConfig
	Toolhouse  ToolhouseConfig
	Compliance ComplianceConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig holds recording object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	UseSSL          bool
}

// AssemblyAIConfig holds transcription service configuration
type AssemblyAIConfig struct {
	APIKey         string `envconfig:"ASSEMBLYAI_API_KEY"`
	BaseURL        string `envconfig:"ASSEMBLYAI_API_URL" default:"https://api.assemblyai.com"`
	WebhookBaseURL string `envconfig:"ASSEMBLYAI_WEBHOOK_BASE_URL"`
	WebhookSecret  string `envconfig:"ASSEMBLYAI_WEBHOOK_SECRET"`
}

// ToolhouseConfig holds supplementary analyzer configuration
type ToolhouseConfig struct {
	APIKey  string `envconfig:"TOOLHOUSE_API_KEY"`
	BaseURL string `envconfig:"TOOLHOUSE_API_URL" default:"https://agents.toolhouse.ai"`
	AgentID string `envconfig:"TOOLHOUSE_AGENT_ID"`
}

// ComplianceConfig holds the rule engine tunables. The escalation
// threshold and context window are preserved from the original product
// configuration as overridable values, not compiled-in constants.
type ComplianceConfig struct {
	RulesFile           string        `envconfig:"COMPLIANCE_RULES_FILE"`
	EscalationThreshold float64       `envconfig:"COMPLIANCE_ESCALATION_THRESHOLD" default:"20"`
	ContextWindow       int           `envconfig:"COMPLIANCE_CONTEXT_WINDOW" default:"50"`
	AnalyzerTimeout     time.Duration `envconfig:"COMPLIANCE_ANALYZER_TIMEOUT" default:"12s"`
	WorkerCount         int           `envconfig:"COMPLIANCE_WORKER_COUNT" default:"2"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "callguard"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-change-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", "15m"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "callguard-recordings"),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
	}

	// Structured sections come in via envconfig so defaults live next to
	// the field declarations.
	if err := envconfig.Process("", &config.Assembly); err != nil {
		return nil, fmt.Errorf("failed to load assemblyai config: %w", err)
	}
	if err := envconfig.Process("", &config.Toolhouse); err != nil {
		return nil, fmt.Errorf("failed to load toolhouse config: %w", err)
	}
	if err := envconfig.Process("", &config.Compliance); err != nil {
		return nil, fmt.Errorf("failed to load compliance config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Compliance.EscalationThreshold < 0 || c.Compliance.EscalationThreshold > 100 {
		return fmt.Errorf("COMPLIANCE_ESCALATION_THRESHOLD must be in [0,100]")
	}
	if c.Compliance.ContextWindow <= 0 {
		return fmt.Errorf("COMPLIANCE_CONTEXT_WINDOW must be positive")
	}
	if c.Compliance.AnalyzerTimeout <= 0 {
		return fmt.Errorf("COMPLIANCE_ANALYZER_TIMEOUT must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
