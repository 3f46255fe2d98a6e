package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unklstewy/routescope/internal/logging"
	"github.com/unklstewy/routescope/pkg/config"
	"github.com/unklstewy/routescope/pkg/opensky"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Bubble Tea owns the terminal; poll results go to the log file
	logger, closeLog, err := logging.NewFileOnly(cfg.Logging, "")
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

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

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		poller.Run(ctx)
	}()

	// Start TUI
	p := tea.NewProgram(newModel(store, ids, updates), tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	<-pollerDone
	poller.Wait()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		closeLog()
		os.Exit(1)
	}
}
