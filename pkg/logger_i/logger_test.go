package logger_i

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithCarriesAttrsIntoRecords(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	log := NewLogger("llm_gemini").With("traceId", "trace-777")
	log.Error("Error generating answer", "error", "boom")

	out := buf.String()
	if !strings.Contains(out, "traceId=trace-777") {
		t.Errorf("Derived logger must carry its trace id into the record, got %q", out)
	}
	if !strings.Contains(out, "component=llm_gemini") {
		t.Errorf("Component tag lost on the derived logger, got %q", out)
	}
	if !strings.Contains(out, "Error generating answer") {
		t.Errorf("Message lost, got %q", out)
	}
}

func TestWithDoesNotMutateTheParent(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(previous)

	parent := NewLogger("component_x")
	_ = parent.With("traceId", "scoped-trace")
	parent.Info("mensaje del padre")

	if strings.Contains(buf.String(), "scoped-trace") {
		t.Error("With must return a new logger, the parent must stay unscoped")
	}
}
