package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/locfeed/locfeed/internal/config"
	"github.com/locfeed/locfeed/internal/location"
	"github.com/locfeed/locfeed/internal/shared"
	"github.com/yugabyte/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type Application interface {
	Initialize(ctx context.Context) error
	Run()
	Shutdown(ctx context.Context) error
}

type LocationApplication struct {
	Server          *http.Server
	Router          *mux.Router
	TracerProvider  *trace.TracerProvider
	MetricsProvider *metricsdk.MeterProvider
	LoggerProvider  *sdklog.LoggerProvider
	DB              *pgxpool.Pool
}

func (app *LocationApplication) Initialize(ctx context.Context) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if lp, err := shared.InitializeLoggingProvider(ctx); err != nil {
		return err
	} else {
		app.LoggerProvider = lp

		consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})
		slog.SetDefault(slog.New(shared.NewOTLPLogHandler(consoleHandler, lp)))
	}

	if config.OTELExporterEnabled {
		if tp, err := shared.InitTracerProvider(ctx); err != nil {
			return err
		} else {
			app.TracerProvider = tp
		}

		if mp, err := shared.InitializeMetricProvider(ctx); err != nil {
			return err
		} else {
			app.MetricsProvider = mp
		}
	}

	if db, err := shared.InitializeDB(ctx); err != nil {
		return err
	} else {
		app.DB = db

		// force establishing at least one valid connection
		if err = shared.PingDB(ctx, db); err != nil {
			return err
		}
	}

	app.Router = mux.NewRouter()
	app.Router.Use(otelmux.Middleware(config.ServiceName))
	app.Router.Use(shared.RequestIDMiddleware)

	locationRepository := location.NewRepository(app.DB)
	locationService := location.NewService(locationRepository)
	_ = location.NewHandler(app.Router, locationService)

	app.Server = &http.Server{
		Handler:      app.Router,
		Addr:         ":" + config.ServerPort,
		WriteTimeout: config.ServerWriteTimeout,
		ReadTimeout:  config.ServerReadTimeout,
	}

	return nil
}

func (app *LocationApplication) Run() {
	go func() {
		slog.Info("Starting application", config.SlogServiceName, slog.String("addr", app.Server.Addr))
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("Failed to start application", config.SlogServiceName, config.ErrAttr(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// create a context with timeout for the shutdown process
	cancelContext, cancelFn := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelFn()

	if err := app.Shutdown(cancelContext); err != nil {
		slog.Info("Failed to gracefully shutdown", config.SlogServiceName, config.ErrAttr(err))
	}

	slog.Info("Application stopped.", config.SlogServiceName)
}

// Shutdown - invokes the global shutdown on the app to remove/close open resources
func (app *LocationApplication) Shutdown(ctx context.Context) error {
	slog.Info("Application shutting down...", config.SlogServiceName)

	if app.Server != nil {
		if err := app.Server.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown HTTP server", config.SlogServiceName, config.ErrAttr(err))
		}
	}

	if app.MetricsProvider != nil {
		if err := app.MetricsProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL metrics provider", config.SlogServiceName, config.ErrAttr(err))
		}
	}

	if app.TracerProvider != nil {
		if err := app.TracerProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL tracer provider", config.ErrAttr(err))
		}
	}

	if app.LoggerProvider != nil {
		if err := app.LoggerProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL logger provider", config.ErrAttr(err))
		}
	}

	if app.DB != nil {
		app.DB.Close()
	}

	return nil
}
