// Package observe provides observability middleware for navigation
// coordinators: Prometheus metrics and OpenTelemetry tracing.
//
// Both constructors return a nav.Middleware, installed either at
// construction or later:
//
//	c := nav.New("app",
//	    nav.WithMiddleware(
//	        observe.Prometheus(observe.WithNamespace("myapp")),
//	        observe.OpenTelemetry(),
//	    ),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
package observe
