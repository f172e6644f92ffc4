package tracing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestDisabledProviderIsNoop(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(DefaultConfig(), &buf)
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
	require.Zero(t, buf.Len())
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Enabled = true
	p, err := NewProvider(cfg, &buf)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := otel.Tracer("test").Start(context.Background(), "element.render")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
	require.Contains(t, buf.String(), `"Name":"element.render"`)
}

func TestFileExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	cfg := Config{Enabled: true, Exporter: "file", FilePath: path}
	p, err := NewProvider(cfg, nil)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "to-file")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to-file")
}

func TestInvalidConfig(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"}, nil)
	require.Error(t, err)

	_, err = NewProvider(Config{Enabled: true, Exporter: "otlp"}, nil)
	require.ErrorContains(t, err, "unsupported exporter")
}
