package shared

import (
	"context"
	"log/slog"

	"github.com/locfeed/locfeed/internal/config"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"google.golang.org/grpc/credentials"
)

func grpcLogOptions() []otlploggrpc.Option {
	options := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(config.OTELCollectorURL),
		otlploggrpc.WithCompressor(config.OTELCompressor),
	}

	if config.OTELExporterInsecure {
		options = append(options, otlploggrpc.WithInsecure())
	} else {
		options = append(options, otlploggrpc.WithTLSCredentials(
			credentials.NewClientTLSFromCert(nil, ""),
		))
	}

	return options
}

// InitializeLoggingProvider builds the OTel logger provider. With the OTLP
// exporter disabled, records go to the stdout exporter instead so local runs
// still see the full pipeline.
func InitializeLoggingProvider(ctx context.Context) (*sdklog.LoggerProvider, error) {
	var processor sdklog.Processor

	if config.OTELExporterEnabled {
		grpcExporter, err := otlploggrpc.New(ctx, grpcLogOptions()...)
		if err != nil {
			slog.Error("Unable to initialize OTEL log grpcExporter", config.ErrAttr(err))
			return nil, err
		}
		processor = sdklog.NewBatchProcessor(grpcExporter)
	} else {
		stdoutExporter, err := stdoutlog.New()
		if err != nil {
			slog.Error("Unable to initialize OTEL log stdoutExporter", config.ErrAttr(err))
			return nil, err
		}
		processor = sdklog.NewSimpleProcessor(stdoutExporter)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(serviceResource()),
	)

	global.SetLoggerProvider(provider)

	return provider, nil
}

// OTLPLogHandler is a slog.Handler that writes each record to a console
// handler and re-emits it through the OTel log pipeline.
type OTLPLogHandler struct {
	consoleHandler slog.Handler
	logger         otellog.Logger
}

func NewOTLPLogHandler(consoleHandler slog.Handler, provider *sdklog.LoggerProvider) *OTLPLogHandler {
	return &OTLPLogHandler{
		consoleHandler: consoleHandler,
		logger:         provider.Logger(config.ServiceName),
	}
}

func (h *OTLPLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.consoleHandler.Enabled(ctx, level)
}

func (h *OTLPLogHandler) Handle(ctx context.Context, rec slog.Record) error {
	// Log to console
	if err := h.consoleHandler.Handle(ctx, rec); err != nil {
		return err
	}

	var out otellog.Record
	out.SetTimestamp(rec.Time)
	out.SetBody(otellog.StringValue(rec.Message))
	out.SetSeverity(logSeverity(rec.Level))
	out.SetSeverityText(rec.Level.String())
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttributes(otellog.String(attr.Key, attr.Value.String()))
		return true
	})

	h.logger.Emit(ctx, out)
	return nil
}

func (h *OTLPLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &OTLPLogHandler{consoleHandler: h.consoleHandler.WithAttrs(attrs), logger: h.logger}
}

func (h *OTLPLogHandler) WithGroup(name string) slog.Handler {
	return &OTLPLogHandler{consoleHandler: h.consoleHandler.WithGroup(name), logger: h.logger}
}

func logSeverity(level slog.Level) otellog.Severity {
	switch {
	case level >= slog.LevelError:
		return otellog.SeverityError
	case level >= slog.LevelWarn:
		return otellog.SeverityWarn
	case level >= slog.LevelInfo:
		return otellog.SeverityInfo
	default:
		return otellog.SeverityDebug
	}
}
