package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	// AppName is reported to Postgres as application_name.
	AppName string
	// ConnectTimeoutSec bounds dialing and the readiness ping.
	ConnectTimeoutSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// KafkaConfig holds the persistence event topic settings.
// Publishing is skipped entirely when Enabled is false.
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	Username string
	Password string
}

// ViewerConfig bounds the document viewer zoom.
type ViewerConfig struct {
	ZoomMin  float64
	ZoomMax  float64
	ZoomStep float64
}

// ArtifactConfig controls how document artifacts are fetched.
type ArtifactConfig struct {
	PresignExpiry time.Duration
	MaxBytes      int64
	HTTPTimeout   time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	Timezone      string
	LogLevel      string
	NotifyTimeout time.Duration
	SessionTTL    time.Duration
	Database      DatabaseConfig
	MinIO         MinIOConfig
	Kafka         KafkaConfig
	Viewer        ViewerConfig
	Artifact      ArtifactConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "localhost:8080"),
		Port:          getEnv("PORT", "8080"),
		Timezone:      getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		NotifyTimeout: time.Duration(getEnvInt("NOTIFY_TIMEOUT_SEC", 5)) * time.Second,
		SessionTTL:    time.Duration(getEnvInt("SESSION_IDLE_TTL_SEC", 1800)) * time.Second,
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			AppName:            getEnv("DB_APP_NAME", "docverify"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Kafka: KafkaConfig{
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			Brokers:  getEnvList("KAFKA_BROKERS"),
			Topic:    getEnv("KAFKA_TOPIC", "docverify.changes"),
			Username: getEnv("KAFKA_USERNAME", ""),
			Password: getEnv("KAFKA_PASSWORD", ""),
		},
		Viewer: ViewerConfig{
			ZoomMin:  getEnvFloat("VIEWER_ZOOM_MIN", 0.2),
			ZoomMax:  getEnvFloat("VIEWER_ZOOM_MAX", 4.0),
			ZoomStep: getEnvFloat("VIEWER_ZOOM_STEP", 0.2),
		},
		Artifact: ArtifactConfig{
			PresignExpiry: time.Duration(getEnvInt("ARTIFACT_PRESIGN_EXPIRY_SEC", 900)) * time.Second,
			MaxBytes:      int64(getEnvInt("ARTIFACT_MAX_BYTES", 20<<20)),
			HTTPTimeout:   time.Duration(getEnvInt("ARTIFACT_HTTP_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
