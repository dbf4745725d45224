package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"", "   "} {
		providers, err := NewProviders(ctx, endpoint, "test-service", false, nil)
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", endpoint, err)
		}
		if providers.TracerProvider == nil {
			t.Error("TracerProvider should not be nil")
		}
		if err := providers.Shutdown(ctx); err != nil {
			t.Errorf("shutdown should be no-op for empty endpoint, got error: %v", err)
		}
	}
}

func TestNewProviders_InvalidURL(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name     string
		endpoint string
	}{
		{"invalid characters", "://invalid"},
		{"malformed URL", "http://[invalid"},
		{"missing host", "http://"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewProviders(ctx, tc.endpoint, "test-service", false, nil); err == nil {
				t.Errorf("NewProviders(%q) should return error", tc.endpoint)
			}
		})
	}
}

func TestNewProviders_EndpointForms(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name     string
		endpoint string
		insecure bool
	}{
		{"host and port", "localhost:4317", false},
		{"http", "http://localhost:4317", false},
		{"https", "https://collector.example.com:4317", false},
		{"https insecure override", "https://collector.example.com:4317", true},
		{"with path", "http://localhost:4317/v1/traces", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			providers, err := NewProviders(ctx, tc.endpoint, "lostfound-api", tc.insecure, nil)
			if err != nil {
				t.Fatalf("NewProviders(%q): %v", tc.endpoint, err)
			}
			if providers.TracerProvider == nil {
				t.Fatal("TracerProvider should not be nil")
			}
			shutdownCtx, cancel := context.WithCancel(ctx)
			cancel()
			_ = providers.Shutdown(shutdownCtx)
		})
	}
}

func TestSetGlobal(t *testing.T) {
	orig := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(orig) })

	tp := sdktrace.NewTracerProvider()
	p := &Providers{TracerProvider: tp}
	p.SetGlobal()

	if otel.GetTracerProvider() != tp {
		t.Error("global TracerProvider should be set")
	}

	var nilProviders *Providers
	nilProviders.SetGlobal()
}
