// Package instrumentation provides OpenTelemetry (OTEL) instrumentation for the linkedin-oauth library.
//
// This package wires tracing and metrics into the provider and HTTP layers:
// - Metrics: Counters and histograms for redirects, code exchanges and provider API calls
// - Traces: Spans for the redirect, the token exchange, the user fetch and the callback
//
// # Quick Start
//
// Instrumentation uses the globally registered OTEL providers unless explicit ones are given:
//
//	import (
//		"github.com/giantswarm/linkedin-oauth/instrumentation"
//		sdktrace "go.opentelemetry.io/otel/sdk/trace"
//	)
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	inst, err := instrumentation.New(instrumentation.Config{
//		ServiceName:    "my-login-service",
//		ServiceVersion: "1.0.0",
//		Enabled:        true,
//		TracerProvider: tp,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	inst.RegisterShutdown(tp.Shutdown)
//	defer inst.Shutdown(context.Background())
//
// When Enabled is false, no-op providers are used and recording costs nothing.
//
// # Available Metrics
//
// HTTP Layer:
//   - oauth.http.requests.total{method, endpoint, status} - Total HTTP requests
//   - oauth.http.request.duration{endpoint} - Request duration in milliseconds
//
// OAuth Flows:
//   - oauth.authorization.started{provider, variant} - Authorization redirects built
//   - oauth.callback.processed{provider, success} - Callbacks processed
//   - oauth.code.exchanged{provider, success, error} - Authorization codes exchanged
//
// Provider:
//   - provider.api.calls.total{provider, operation, status} - Provider API calls
//   - provider.api.duration{provider, operation} - API call duration in milliseconds
//   - provider.api.errors.total{provider, operation, error_type} - Provider API errors
//   - provider.user.fallback.total{provider, status} - Placeholder users returned on OIDC userinfo failures
//
// # Distributed Tracing
//
// Spans:
//   - linkedin.authorization_url
//   - linkedin.exchange_code
//   - linkedin.get_user
//   - oauth.callback, oauth.http.login, oauth.http.callback
//
// Tokens, codes and secrets are never recorded; only their presence and metadata are.
package instrumentation
