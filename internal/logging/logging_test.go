package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, slog.LevelInfo)
	ctx := context.Background()

	log.DebugContext(ctx, "hidden", "a", 1)
	log.InfoContext(ctx, "shown", "b", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level:\n%s", out)
	}
	for _, want := range []string{"level=INFO", "msg=shown", "b=2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestNew_WritesFileAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapback.log")
	log, closer, err := New(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	log.Debug("to file", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "msg=\"to file\"") {
		t.Fatalf("log file = %q, want the debug line", data)
	}
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	log, closer, err := New("", slog.LevelDebug)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	log.Error("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
