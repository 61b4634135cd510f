package tracer

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"duckai/internal/infra/config"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracerConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer shutdown(context.Background())

	tp := otel.GetTracerProvider()
	if _, ok := tp.(noop.TracerProvider); !ok {
		t.Errorf("expected noop provider, got %T", tp)
	}
}

func TestSetupNoopExporter(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracerConfig{Enabled: true, Exporter: "noop"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer shutdown(context.Background())
}

func TestSetupStdout(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracerConfig{Enabled: true, Exporter: "stdout"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestSetupUnsupportedExporter(t *testing.T) {
	_, err := Setup(context.Background(), config.TracerConfig{Enabled: true, Exporter: "jaeger"})
	if err == nil {
		t.Fatal("expected error for unsupported exporter")
	}
}

func TestStartSpanAndStatus(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracerConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "test.op")
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	RecordError(span, errors.New("boom"))
	SetOK(span)
	span.End()
}

func TestAttrHelpers(t *testing.T) {
	if got := StringAttr("k", "v"); string(got.Key) != "k" || got.Value.AsString() != "v" {
		t.Errorf("StringAttr = %v", got)
	}
	if got := IntAttr("n", 7); got.Value.AsInt64() != 7 {
		t.Errorf("IntAttr = %v", got)
	}
	if got := BoolAttr("b", true); !got.Value.AsBool() {
		t.Errorf("BoolAttr = %v", got)
	}
}
