// Package observability wires OpenTelemetry tracing and metrics for authd.
//
// Init installs global tracer and meter providers that export over OTLP/HTTP
// and returns a shutdown function. When the section is disabled the global
// no-op providers stay in place and every span and instrument is free.
//
//	shutdown, err := observability.Init(ctx, cfg.Observability, observability.Resource{
//	    ServiceName: cfg.Name, ServiceVersion: version.Get().Version, Environment: cfg.Environment,
//	})
//	defer shutdown(context.Background())
package observability
