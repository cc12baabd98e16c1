package observe

import (
	"context"
	"fmt"
	"time"

	"github.com/vango-dev/waypoint/pkg/nav"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for navigation tracing.
const defaultTracerName = "waypoint"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "waypoint").
	TracerName string

	// IncludeParams includes route params in spans. Params may carry
	// sensitive payloads, so this is disabled by default.
	IncludeParams bool

	// Filter determines which operations to trace. Return true to
	// trace, false to skip. If nil, all operations are traced.
	Filter func(op *nav.Op) bool

	// AttributeExtractor extracts custom attributes per operation.
	AttributeExtractor func(op *nav.Op) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeParams enables including route params in spans.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithOpFilter sets a filter function for operations.
func WithOpFilter(filter func(op *nav.Op) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(op *nav.Op) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every navigation
// operation as a span named "nav.<kind>", with the coordinator label,
// route identity, and final status as attributes. Errors are recorded
// and set the span status.
//
// The tracer comes from the global OpenTelemetry tracer provider;
// configure it in main() before navigating.
func OpenTelemetry(opts ...OTelOption) nav.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return nav.MiddlewareFunc(func(op *nav.Op, next func() error) error {
		if config.Filter != nil && !config.Filter(op) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("nav.coordinator", op.Coordinator.Label()),
			attribute.String("nav.kind", string(op.Kind)),
		}
		if op.Route != nil {
			attrs = append(attrs, attribute.String("nav.route", op.Route.Identity()))
			if config.IncludeParams {
				for k, v := range op.Route.Params {
					attrs = append(attrs, attribute.String("nav.param."+k, v))
				}
			}
		}
		if op.Location != "" {
			attrs = append(attrs, attribute.String("nav.location", op.Location))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(op)...)
		}

		_, span := config.tracer.Start(
			context.Background(),
			fmt.Sprintf("nav.%s", op.Kind),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		err := next()

		span.SetAttributes(attribute.String("nav.status", string(op.Status)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}
