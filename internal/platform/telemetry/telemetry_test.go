package telemetry

import (
	"context"
	"path/filepath"
	"testing"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), false, ".")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	counter, err := tel.Meter.Int64Counter("dbsep.test")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(context.Background(), 1)

	_, span := tel.Tracer.Start(context.Background(), "separation.check")
	if span.SpanContext().IsValid() {
		t.Error("noop tracer produced a valid span context")
	}
	span.End()

	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewResource(t *testing.T) {
	dir := t.TempDir()

	res, err := NewResource(context.Background(), dir)
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}

	root, ok := res.Set().Value(RootAttribute)
	if !ok {
		t.Fatalf("resource missing %s", RootAttribute)
	}
	want, _ := filepath.Abs(dir)
	if root.AsString() != want {
		t.Errorf("%s = %q, want %q", RootAttribute, root.AsString(), want)
	}

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	if !ok || name.AsString() != serviceName {
		t.Errorf("service.name = %q, want %q", name.AsString(), serviceName)
	}
}
