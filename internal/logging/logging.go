// Package logging builds the *log.Logger instances used by the routescope
// binaries, with optional size-based rotation of the log file.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/unklstewy/routescope/pkg/config"
)

// Flags is the standard flag set used for every logger.
const Flags = log.LstdFlags

// NewRotatingWriter returns a lumberjack writer for the given file settings.
// The parent directory is created if missing.
func NewRotatingWriter(cfg config.LoggingConfig, path string) (*lumberjack.Logger, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

// New returns a logger writing to console, and additionally to the rotating
// file named in cfg.File when one is set. Call the returned close function on
// shutdown to flush the file.
func New(cfg config.LoggingConfig, console io.Writer, prefix string) (*log.Logger, func() error, error) {
	if cfg.File == "" {
		return log.New(console, prefix, Flags), func() error { return nil }, nil
	}

	w, err := NewRotatingWriter(cfg, cfg.File)
	if err != nil {
		return nil, nil, err
	}

	out := io.Writer(w)
	if console != nil {
		out = io.MultiWriter(console, w)
	}
	return log.New(out, prefix, Flags), w.Close, nil
}

// NewFileOnly returns a logger that never writes to the terminal.
// Full-screen clients use it so log lines do not corrupt the display.
func NewFileOnly(cfg config.LoggingConfig, prefix string) (*log.Logger, func() error, error) {
	w, err := NewRotatingWriter(cfg, cfg.LogFileOrDefault())
	if err != nil {
		return nil, nil, err
	}
	return log.New(w, prefix, Flags), w.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
