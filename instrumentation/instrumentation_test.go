package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "default config",
			config: Config{
				Enabled: false,
			},
			wantErr: false,
		},
		{
			name: "with service name and version",
			config: Config{
				Enabled:        true,
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
			},
			wantErr: false,
		},
		{
			name: "empty service name gets default",
			config: Config{
				Enabled:        true,
				ServiceName:    "",
				ServiceVersion: "",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}

			if inst == nil {
				t.Fatal("New() returned nil instrumentation")
			}

			// Meters and tracers for the layers the library uses
			for _, scope := range []string{"http", "oauth", "provider"} {
				if inst.Meter(scope) == nil {
					t.Errorf("Meter(%q) returned nil", scope)
				}
				if inst.Tracer(scope) == nil {
					t.Errorf("Tracer(%q) returned nil", scope)
				}
			}

			if inst.Metrics() == nil {
				t.Error("Metrics() returned nil")
			}
			if inst.TracerProvider() == nil {
				t.Error("TracerProvider() returned nil")
			}
			if inst.MeterProvider() == nil {
				t.Error("MeterProvider() returned nil")
			}
			if inst.Resource() == nil {
				t.Error("Resource() returned nil")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := inst.Shutdown(ctx); err != nil {
				t.Errorf("Shutdown() error = %v", err)
			}
			// Shutdown is idempotent
			if err := inst.Shutdown(ctx); err != nil {
				t.Errorf("Second Shutdown() error = %v", err)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	inst, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if inst.config.ServiceName != DefaultServiceName {
		t.Errorf("Default ServiceName = %q, want %q", inst.config.ServiceName, DefaultServiceName)
	}
	if inst.config.ServiceVersion != DefaultServiceVersion {
		t.Errorf("Default ServiceVersion = %q, want %q", inst.config.ServiceVersion, DefaultServiceVersion)
	}

	name, ok := inst.Resource().Set().Value(semconv.ServiceNameKey)
	if !ok || name.AsString() != DefaultServiceName {
		t.Errorf("resource service.name = %q, want %q", name.AsString(), DefaultServiceName)
	}
}

func TestNew_UsesConfiguredTracerProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	inst, err := New(Config{Enabled: true, TracerProvider: tp})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	inst.RegisterShutdown(tp.Shutdown)

	_, span := inst.Tracer("provider").Start(context.Background(), "linkedin.get_user")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(ended))
	}
	if got := ended[0].InstrumentationScope().Name; got != "github.com/giantswarm/linkedin-oauth/provider" {
		t.Errorf("instrumentation scope = %q", got)
	}

	if err := inst.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestShutdown_RunsRegisteredFuncs(t *testing.T) {
	inst, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	errFirst := errors.New("first")
	var calls int
	inst.RegisterShutdown(func(context.Context) error { calls++; return errFirst })
	inst.RegisterShutdown(func(context.Context) error { calls++; return errors.New("second") })

	if err := inst.Shutdown(context.Background()); !errors.Is(err, errFirst) {
		t.Errorf("Shutdown() error = %v, want %v", err, errFirst)
	}
	if calls != 2 {
		t.Errorf("shutdown funcs called %d times, want 2", calls)
	}

	if err := inst.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v, want nil", err)
	}
	if calls != 2 {
		t.Errorf("shutdown funcs re-run on second Shutdown(), calls = %d", calls)
	}
}

func TestDisabled(t *testing.T) {
	inst := Disabled()
	if inst.Metrics() == nil {
		t.Fatal("Disabled().Metrics() returned nil")
	}

	ctx := context.Background()
	inst.Metrics().RecordAuthorizationStarted(ctx, "linkedin", "oidc")
	inst.Metrics().RecordCallbackProcessed(ctx, "linkedin", true)

	_, span := inst.Tracer("http").Start(ctx, "oauth.http.login")
	if span.SpanContext().IsValid() {
		t.Error("Disabled() tracer produced a recording span")
	}
	span.End()
}

func TestInstrumentation_ConcurrentAccess(t *testing.T) {
	inst, err := New(Config{
		Enabled:        true,
		ServiceName:    "concurrent-test",
		ServiceVersion: "1.0.0",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = inst.Shutdown(context.Background()) }()

	done := make(chan bool)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 100; j++ {
				provider := fmt.Sprintf("provider-%d", id)
				inst.Metrics().RecordAuthorizationStarted(ctx, provider, "oidc")
				inst.Metrics().RecordCodeExchange(ctx, provider, "")

				_, span := inst.Tracer("provider").Start(ctx, "concurrent-span")
				span.End()
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

// Benchmark tests to measure instrumentation overhead

func BenchmarkMetrics_RecordProviderAPICall(b *testing.B) {
	inst, _ := New(Config{Enabled: true})
	defer func() { _ = inst.Shutdown(context.Background()) }()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		inst.Metrics().RecordProviderAPICall(ctx, "linkedin", "get_user", 200, 12.5, nil)
	}
}

func BenchmarkMetrics_RecordProviderAPICall_NoOp(b *testing.B) {
	inst := Disabled()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		inst.Metrics().RecordProviderAPICall(ctx, "linkedin", "get_user", 200, 12.5, nil)
	}
}

func BenchmarkTracing_SpanWithAttributes(b *testing.B) {
	inst, _ := New(Config{Enabled: true})
	defer func() { _ = inst.Shutdown(context.Background()) }()

	tracer := inst.Tracer("provider")
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "linkedin.exchange_code")
		AddProviderAttributes(span, "linkedin", "oidc", "exchange_code")
		AddTokenAttributes(span, "Bearer", 5184000, false)
		span.End()
	}
}
