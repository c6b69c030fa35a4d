package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"safety-survey-go/pkg/logger"
)

type Config struct {
	HTTPPort   string
	Env        string
	DB         DBConfig
	Auth       AuthConfig
	Storage    StorageConfig
	Speech     SpeechConfig
	Translator TranslatorConfig
	ERP        ERPConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	Secret string
	// TokenTTL of zero issues tokens without an expiry claim.
	TokenTTL time.Duration
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	UsePathStyle  bool
}

type SpeechConfig struct {
	Key     string
	Region  string
	Timeout time.Duration
}

type TranslatorConfig struct {
	Key      string
	Endpoint string
	Region   string
	Timeout  time.Duration
}

type ERPConfig struct {
	TenantID        string
	ClientID        string
	ClientSecret    string
	Resource        string
	SandboxResource string
	LoginBaseURL    string
	Timeout         time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "safety_survey"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			Secret:   getEnv("AUTH_SECRET", ""),
			TokenTTL: getEnvDuration("AUTH_TOKEN_TTL", 0),
		},
		Storage: StorageConfig{
			Bucket:        getEnv("STORAGE_BUCKET", "safety-survey-media"),
			Region:        getEnv("STORAGE_REGION", ""),
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			UsePathStyle:  getEnvBool("STORAGE_USE_PATH_STYLE", true),
		},
		Speech: SpeechConfig{
			Key:     getEnv("SPEECH_KEY", ""),
			Region:  getEnv("SPEECH_SERVICE_REGION", ""),
			Timeout: getEnvDuration("SPEECH_TIMEOUT", 30*time.Second),
		},
		Translator: TranslatorConfig{
			Key:      getEnv("TRANSLATOR_KEY", ""),
			Endpoint: getEnv("TRANSLATOR_ENDPOINT", ""),
			Region:   getEnv("TRANSLATOR_SERVICE_REGION", ""),
			Timeout:  getEnvDuration("TRANSLATOR_TIMEOUT", 10*time.Second),
		},
		ERP: ERPConfig{
			TenantID:        getEnv("ERP_TENANT_ID", ""),
			ClientID:        getEnv("ERP_CLIENT_ID", ""),
			ClientSecret:    getEnv("ERP_CLIENT_SECRET", ""),
			Resource:        getEnv("ERP_RESOURCE", ""),
			SandboxResource: getEnv("ERP_SANDBOX_RESOURCE", ""),
			LoginBaseURL:    getEnv("ERP_LOGIN_BASE_URL", "https://login.microsoftonline.com"),
			Timeout:         getEnvDuration("ERP_TIMEOUT", 30*time.Second),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
