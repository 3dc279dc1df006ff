package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Nats         NatsConfig
	Telemetry    TelemetryConfig
	FeatureStore FeatureStoreConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	IngestLogFilePath  string
	CorsAllowedOrigins string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type NatsConfig struct {
	Enabled bool
	URL     string
}

type TelemetryConfig struct {
	OtelEnabled  bool
	OtelEndpoint string
	ServiceName  string
}

type FeatureStoreConfig struct {
	TimeseriesDefaultLimit int
	TimeseriesMaxLimit     int
	UpsertChunkSize        int
	DefinitionCacheTTL     time.Duration
	AutoForecast           bool
	ForecastHistory        int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			IngestLogFilePath:  getEnv("INGEST_LOG_FILE_PATH", "logs/snapshot_ingest.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Nats: NatsConfig{
			Enabled: getEnvAsBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "erp-feature-store"),
		},
		FeatureStore: FeatureStoreConfig{
			TimeseriesDefaultLimit: getEnvAsPositiveInt("FEATURE_TIMESERIES_DEFAULT_LIMIT", 50),
			TimeseriesMaxLimit:     getEnvAsPositiveInt("FEATURE_TIMESERIES_MAX_LIMIT", 500),
			UpsertChunkSize:        getEnvAsPositiveInt("FEATURE_UPSERT_CHUNK_SIZE", 500),
			DefinitionCacheTTL:     time.Duration(getEnvAsInt("FEATURE_DEFINITION_CACHE_TTL_SECONDS", 300)) * time.Second,
			AutoForecast:           getEnvAsBool("FEATURE_AUTO_FORECAST", true),
			ForecastHistory:        getEnvAsPositiveInt("FEATURE_FORECAST_HISTORY", 30),
		},
	}
}

// DefaultFeatureStore is the feature store configuration with every variable unset.
func DefaultFeatureStore() FeatureStoreConfig {
	return FeatureStoreConfig{
		TimeseriesDefaultLimit: 50,
		TimeseriesMaxLimit:     500,
		UpsertChunkSize:        500,
		DefinitionCacheTTL:     5 * time.Minute,
		AutoForecast:           true,
		ForecastHistory:        30,
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsPositiveInt falls back when the value is missing, malformed or not above zero.
func getEnvAsPositiveInt(key string, fallback int) int {
	if value := getEnvAsInt(key, fallback); value > 0 {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
