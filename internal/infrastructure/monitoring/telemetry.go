package monitoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sousa/mealplan/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Telemetry owns the OpenTelemetry trace and meter providers. Spans go to an
// OTLP/HTTP collector; OTel metrics are bridged into the Prometheus registry
// served on the ops port.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	serviceName    string
	logger         *zap.Logger
}

// NewTelemetry configures the global providers. With tracing disabled the
// global tracer stays a no-op.
func NewTelemetry(cfg *config.Config, registerer prometheus.Registerer, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{
		serviceName: cfg.App.Name,
		logger:      logger.Named("telemetry"),
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.App.Name),
			semconv.ServiceVersion(cfg.App.Version),
			semconv.DeploymentEnvironment(cfg.App.Environment),
		),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.Monitoring.EnableTracing {
		if err := t.initTracing(cfg.Monitoring, res); err != nil {
			return nil, err
		}
	}

	if cfg.Monitoring.EnableMetrics && registerer != nil {
		exporter, err := otelprom.New(otelprom.WithRegisterer(registerer))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		otel.SetMeterProvider(t.meterProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.logger.Info("Telemetry initialized",
		zap.Bool("tracing", t.tracerProvider != nil),
		zap.Bool("otel_metrics", t.meterProvider != nil),
	)
	return t, nil
}

func (t *Telemetry) initTracing(cfg config.MonitoringConfig, res *resource.Resource) error {
	if cfg.OTLPEndpoint == "" {
		return errors.New("tracing enabled without an OTLP endpoint")
	}

	opts := []otlptracehttp.Option{}
	endpoint := cfg.OTLPEndpoint
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = strings.TrimPrefix(endpoint, "http://")
		opts = append(opts, otlptracehttp.WithInsecure())
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	opts = append(opts, otlptracehttp.WithEndpoint(strings.TrimRight(endpoint, "/")))

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	rate := cfg.SamplingRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}
	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(t.tracerProvider)

	t.logger.Info("OTLP trace exporter configured",
		zap.String("endpoint", endpoint),
		zap.Float64("sampling_rate", rate),
	)
	return nil
}

// Tracer returns a tracer for the named component
func (t *Telemetry) Tracer(component string) trace.Tracer {
	if t.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(component)
	}
	return t.tracerProvider.Tracer(t.serviceName + "/" + component)
}

// Meter returns a meter for the named component
func (t *Telemetry) Meter(component string) metric.Meter {
	if t.meterProvider == nil {
		return otel.GetMeterProvider().Meter(component)
	}
	return t.meterProvider.Meter(t.serviceName + "/" + component)
}

// Shutdown flushes pending spans and stops both providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
