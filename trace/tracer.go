package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const serviceName = "tickets"

// ConfigureTraceProvider exports spans to jaegerEndpoint. Without an endpoint spans stay in-process.
func ConfigureTraceProvider(jaegerEndpoint string) *tracesdk.TracerProvider {
	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	}

	if jaegerEndpoint != "" {
		exp, err := jaeger.New(
			jaeger.WithCollectorEndpoint(
				jaeger.WithEndpoint(jaegerEndpoint),
			),
		)
		if err != nil {
			panic(err)
		}
		opts = append(opts, tracesdk.WithBatcher(exp))
	}

	tp := tracesdk.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)

	// without it traces are not propagated via messages
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp
}
