package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unklstewy/routescope/internal/logging"
	"github.com/unklstewy/routescope/pkg/config"
	"github.com/unklstewy/routescope/pkg/opensky"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

var (
	// Version information (set by build flags)
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("routescope-tui version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	// Show help
	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The screen belongs to tview, so logs go to a file only
	fileLogger, closeLog, err := logging.NewFileOnly(cfg.Logging, "")
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

	app := NewApp(&AppConfig{
		Store:      store,
		TrackedIDs: ids,
		FileLogger: fileLogger,
	})

	poller := tracking.NewPoller(client, store, tracking.PollerConfig{
		Interval:   cfg.Polling.PollInterval(),
		TrackedIDs: ids,
		Logger:     app.Logger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		poller.Run(ctx)
	}()

	fileLogger.Printf("routescope-tui %s started, logging to %s", version, cfg.Logging.LogFileOrDefault())

	runErr := app.Run()

	cancel()
	<-pollerDone
	poller.Wait()

	if runErr != nil {
		log.Fatalf("Application error: %v", runErr)
	}
}

// printHelp prints usage information
func printHelp() {
	fmt.Println("routescope-tui - Terminal map of tracked flights")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  routescope-tui [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        Path to configuration file (default: configs/config.json)")
	fmt.Println("  -version")
	fmt.Println("        Show version information")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("KEYBOARD SHORTCUTS:")
	fmt.Println("  Selection:")
	fmt.Println("    j/k or Tab     Select tracked flight")
	fmt.Println("    ENTER          Center map on selected flight")
	fmt.Println()
	fmt.Println("  Map:")
	fmt.Println("    Arrow keys     Pan")
	fmt.Println("    +/-            Zoom in/out")
	fmt.Println("    0              Fit all routes")
	fmt.Println("    w              Whole world")
	fmt.Println()
	fmt.Println("  Control:")
	fmt.Println("    q or Ctrl+C    Quit application")
}
