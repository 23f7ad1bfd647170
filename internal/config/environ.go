package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

var (
	Hostname, _    = os.Hostname()
	ServiceName    = "locfeed"
	ServiceVersion = "1.0"

	// DatabaseURL and ServerPort have no fallback; both are required and
	// checked by Validate before the application starts serving.
	DatabaseURL = GetEnv("DATABASE_URL", "")
	ServerPort  = GetEnv("PORT", "")

	ServerWriteTimeout = GetEnvAsDuration("WRITE_TIMEOUT", 15*time.Second)
	ServerReadTimeout  = GetEnvAsDuration("READ_TIMEOUT", 10*time.Second)

	DBMaxConns              = int32(GetEnvAsInt("DB_MAX_CONNS", 10))
	DBMinConns              = int32(GetEnvAsInt("DB_MIN_CONNS", 0))
	DBMaxConnLifetime       = GetEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour)
	DBMaxConnLifetimeJitter = GetEnvAsDuration("DB_MAX_CONN_LIFETIME_JITTER", 5*time.Minute)
	DBHealthCheckPeriod     = GetEnvAsDuration("DB_HEALTH_CHECK_PERIOD", time.Minute)
	DBConnectTimeout        = GetEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second)

	OTELExporterEnabled       = GetEnvAsBool("OTEL_EXPORTER_ENABLED", false)
	OTELExporterInsecure      = GetEnvAsBool("OTEL_EXPORTER_INSECURE", true)
	OTELCollectorURL          = GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	OTELCompressor            = GetEnv("OTEL_EXPORTER_COMPRESSOR", "gzip")
	OTELMeterInterval         = GetEnvAsDuration("OTEL_METER_INTERVAL", time.Minute)
	OTELTracerEnabled         = GetEnvAsBool("OTEL_TRACER_ENABLED", false)
	OTELPrefixQuerySpanName   = GetEnvAsBool("OTEL_PREFIX_QUERY_SPAN_NAME", true)
	OTELTracerLogSQLStatement = GetEnvAsBool("OTEL_TRACER_LOG_SQL", true)
	OTELTracerIncludeParams   = GetEnvAsBool("OTEL_TRACER_INCLUDE_PARAMS", false)
)

var SlogServiceName = slog.String("service", ServiceName)

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

// Validate reports the configuration errors that make startup impossible.
// A missing store target or listen port is fatal, not a per-request concern.
func Validate() error {
	var errs []error
	if DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if ServerPort == "" {
		errs = append(errs, errors.New("PORT is not set"))
	}
	return errors.Join(errs...)
}

func GetEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func GetEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return fallback
}
