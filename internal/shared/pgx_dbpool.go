package shared

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/locfeed/locfeed/internal/config"
	"github.com/yugabyte/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

// InitializeDB builds the pgx connection pool from config.DatabaseURL and
// registers the pool statistics meter.
func InitializeDB(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, configErr := pgxPoolConfig()
	if configErr != nil {
		return nil, configErr
	}

	dbPool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		slog.Error("Unable to create pgx connection pool", config.ErrAttr(poolErr))
		return nil, poolErr
	}

	_ = InitPgxPoolMeter(dbPool)
	return dbPool, nil
}

// PingDB forces at least one connection to be established so a bad store
// target fails at startup instead of on the first request.
func PingDB(ctx context.Context, dbPool *pgxpool.Pool) error {
	if err := dbPool.Ping(ctx); err != nil {
		slog.Error("Unable to ping the database", config.ErrAttr(err))
		return err
	}
	return nil
}

func pgxPoolConfig() (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		slog.Warn("Failed to parse pgxpool url", config.ErrAttr(err))
		return nil, err
	}

	poolConfig.MaxConns = config.DBMaxConns
	poolConfig.MinConns = config.DBMinConns
	poolConfig.MaxConnLifetime = config.DBMaxConnLifetime
	poolConfig.MaxConnLifetimeJitter = config.DBMaxConnLifetimeJitter
	poolConfig.HealthCheckPeriod = config.DBHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = config.DBConnectTimeout

	if config.OTELTracerEnabled {
		poolConfig.ConnConfig.Tracer = NewQueryTracer([]attribute.KeyValue{
			semconv.DBSystemKey.String("postgresql"),
			semconv.DBConnectionStringKey.String(maskPostgresPassword(config.DatabaseURL)),
			semconv.ServerAddress(config.Hostname),
		})
	}

	return poolConfig, nil
}

func maskPostgresPassword(connURL string) string {
	re := regexp.MustCompile(`(postgres://[^:]+:)([^@]+)(@.+)`)
	return re.ReplaceAllString(connURL, `${1}*****${3}`)
}
