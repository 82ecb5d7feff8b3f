package otel

import (
	"context"
	"strings"

	"github.com/louisbranch/minefield/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Settings holds the tracing switches read from the environment.
type Settings struct {
	Endpoint string `env:"MINEFIELD_OTEL_ENDPOINT"`
	Enabled  string `env:"MINEFIELD_OTEL_ENABLED"`
}

// Active reports whether an exporter should be installed.
func (s Settings) Active() bool {
	if strings.EqualFold(strings.TrimSpace(s.Enabled), "false") {
		return false
	}
	return strings.TrimSpace(s.Endpoint) != ""
}

// LoadSettings reads tracing settings from the process environment.
func LoadSettings() (Settings, error) {
	var settings Settings
	if err := config.ParseEnv(&settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when MINEFIELD_OTEL_ENDPOINT is empty or
// MINEFIELD_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and the global provider is left untouched.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	settings, err := LoadSettings()
	if err != nil {
		return noopShutdown, err
	}
	return SetupWithSettings(ctx, serviceName, settings)
}

// SetupWithSettings installs a tracer provider from explicit settings.
func SetupWithSettings(ctx context.Context, serviceName string, settings Settings) (func(context.Context) error, error) {
	if !settings.Active() {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(settings.Endpoint)),
	)
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("minefield"),
		),
	)
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func noopShutdown(context.Context) error { return nil }
