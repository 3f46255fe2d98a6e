package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unklstewy/routescope/pkg/config"
)

// TestNewConsoleOnly verifies a logger without a file writes to console.
func TestNewConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LoggingConfig{}, &buf, "[test] ")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer closeFn()

	logger.Printf("hello %d", 42)

	if !strings.Contains(buf.String(), "[test] ") || !strings.Contains(buf.String(), "hello 42") {
		t.Errorf("Expected prefixed message, got %q", buf.String())
	}
}

// TestNewWithFile verifies output reaches both console and file.
func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "server.log")
	cfg := config.LoggingConfig{File: path, MaxSizeMB: 1, MaxBackups: 1}

	var buf bytes.Buffer
	logger, closeFn, err := New(cfg, &buf, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Println("poll ok")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "poll ok") {
		t.Errorf("Expected file to contain message, got %q", data)
	}
	if !strings.Contains(buf.String(), "poll ok") {
		t.Errorf("Expected console to contain message, got %q", buf.String())
	}
}

// TestNewFileOnly verifies nothing is written anywhere but the file.
func TestNewFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")

	logger, closeFn, err := NewFileOnly(config.LoggingConfig{File: path}, "")
	if err != nil {
		t.Fatalf("NewFileOnly failed: %v", err)
	}
	logger.Println("frame drawn")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "frame drawn") {
		t.Errorf("Expected file to contain message, got %q", data)
	}
}

// TestNewRotatingWriter tests settings are carried to the writer.
func TestNewRotatingWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.log")
	w, err := NewRotatingWriter(config.LoggingConfig{MaxSizeMB: 5, MaxBackups: 2, MaxAgeDays: 3, Compress: true}, path)
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer w.Close()

	if w.Filename != path || w.MaxSize != 5 || w.MaxBackups != 2 || w.MaxAge != 3 || !w.Compress {
		t.Errorf("Unexpected writer settings: %+v", w)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("Expected parent directory created: %v", err)
	}
}
