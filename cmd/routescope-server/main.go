// RouteScope Web Server
// Polls OpenSky for the tracked flights and serves the live map, REST API and
// WebSocket feed.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unklstewy/routescope/internal/logging"
	"github.com/unklstewy/routescope/internal/server"
	"github.com/unklstewy/routescope/pkg/config"
	"github.com/unklstewy/routescope/pkg/opensky"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file (.json or .yaml)")
	port       = flag.String("port", "", "HTTP server port (overrides config)")
	accessLog  = flag.Bool("access-log", true, "Log every HTTP request")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, closeLog, err := logging.New(cfg.Logging, os.Stderr, "")
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	logger.Println("🚀 Starting RouteScope Web Server...")

	if err := run(cfg, logger); err != nil {
		logger.Printf("✗ Server error: %v", err)
		closeLog()
		os.Exit(1)
	}

	logger.Println("✅ Server stopped")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenSky client
	client := opensky.NewClient(opensky.Config{
		BaseURL:            cfg.OpenSky.BaseURL,
		Timeout:            cfg.OpenSky.HTTPTimeout(),
		MinRequestInterval: cfg.OpenSky.MinRequestInterval(),
	})
	defer client.Close()

	ids := reference.TrackedIDs()
	store := tracking.NewStore()
	poller := tracking.NewPoller(client, store, tracking.PollerConfig{
		Interval:   cfg.Polling.PollInterval(),
		TrackedIDs: ids,
		Logger:     logger,
	})

	srv := server.New(store, server.Options{
		TrackedIDs:     ids,
		Map:            cfg.Map,
		Logger:         logger,
		RequestLogging: *accessLog,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	httpServer.RegisterOnShutdown(srv.CloseStreams)

	logger.Printf("📡 Polling %s every %v for %d tracked flights", cfg.OpenSky.BaseURL, cfg.Polling.PollInterval(), len(ids))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(gctx)
	})

	g.Go(func() error {
		logger.Printf("📡 Server listening on %s", httpServer.Addr)
		logger.Printf("💡 Open http://localhost:%s in your browser", cfg.Server.Port)

		var err error
		if cfg.Server.TLSEnabled {
			err = httpServer.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Println("👋 Shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	// In-flight fetches finish on their own timeout; their results are dropped
	poller.Wait()
	return err
}
