package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/signup/internal/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())
	require.NotNil(t, provider.TracerProvider())

	// Creating spans should not panic
	_, span := provider.Tracer().Start(context.Background(), "noop-span")
	require.False(t, span.SpanContext().IsValid(), "noop spans carry no context")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporter_WritesJSONL(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	provider, err := NewProvider(config.TracingConfig{
		Enabled:    true,
		Exporter:   "file",
		FilePath:   tracePath,
		SampleRate: 1.0,
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanCheckUsername)
	span.SetAttributes(AttrUsername.String("valid_user1"), AttrAvailable.Bool(true))
	span.SetStatus(codes.Ok, "")
	span.End()

	// Shutdown flushes the batcher
	require.NoError(t, provider.Shutdown(context.Background()))

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "expected one span line")

	var rec SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
	require.Equal(t, SpanCheckUsername, rec.Name)
	require.Equal(t, "OK", rec.Status)
	require.Equal(t, "valid_user1", rec.Attributes[string(AttrUsername)])
	require.Equal(t, true, rec.Attributes[string(AttrAvailable)])
	require.NotEmpty(t, rec.TraceID)
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "none"})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), SpanRegister)
	require.True(t, span.SpanContext().IsValid(), "spans are real even without an exporter")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	_, err := NewProvider(config.TracingConfig{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter type")
}

func TestFileExporter_ShutdownTwice(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "t.jsonl"))
	require.NoError(t, err)

	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.ExportSpans(context.Background(), nil))
}
