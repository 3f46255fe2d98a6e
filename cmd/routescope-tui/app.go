package main

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/routescope/internal/render"
	"github.com/unklstewy/routescope/pkg/coordinates"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

const (
	// zoomStep is the scale factor for one +/- key press
	zoomStep = 1.5

	// minDegreesPerColumn caps zoom-in
	minDegreesPerColumn = 0.02

	// panCells is how far one arrow key press moves the map
	panCells = 5
)

// AppConfig holds the application configuration
type AppConfig struct {
	Store      *tracking.Store
	TrackedIDs []string

	// FileLogger receives a copy of everything shown in the log panel
	FileLogger *log.Logger
}

// App represents the main application
type App struct {
	store      *tracking.Store
	ids        []string
	fileLogger *log.Logger

	// UI components
	tviewApp   *tview.Application
	mapView    *MapView
	tracked    *tview.TextView
	detail     *tview.TextView
	status     *tview.TextView
	logs       *LogManager
	rootLayout *tview.Flex

	// State
	views         []tracking.TrackedFlightView
	entries       []tracking.TrackedEntry
	loading       bool
	lastUpdate    time.Time
	selectedIndex int
	viewport      render.Viewport
	viewportSet   bool

	// Synchronization
	mu       sync.RWMutex
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewApp creates a new application instance
func NewApp(cfg *AppConfig) *App {
	fileLogger := cfg.FileLogger
	if fileLogger == nil {
		fileLogger = log.New(io.Discard, "", 0)
	}

	app := &App{
		store:      cfg.Store,
		ids:        cfg.TrackedIDs,
		fileLogger: fileLogger,
		entries:    tracking.Tracked(nil, cfg.TrackedIDs),
		stopChan:   make(chan struct{}),
	}

	app.setupUI()
	return app
}

// Logger returns a logger that writes to the log panel and the log file.
func (a *App) Logger() *log.Logger {
	return log.New(io.MultiWriter(a.fileLogger.Writer(), a.logs), "", 0)
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.tviewApp = tview.NewApplication()

	a.mapView = NewMapView(a)

	a.tracked = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.tracked.SetBorder(true).SetTitle(" Tracked Flights ")

	a.detail = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.detail.SetBorder(true).SetTitle(" Flight ")

	a.status = tview.NewTextView().
		SetDynamicColors(true)

	a.logs = NewLogManager(100)
	a.logs.SetQueue(func(fn func()) {
		a.tviewApp.QueueUpdateDraw(fn)
	})

	a.createLayout()
	a.updatePanels()

	// Setup keyboard handlers
	a.tviewApp.SetInputCapture(a.handleKeyboard)
}

// createLayout lays out the map with a sidebar and a status line
func (a *App) createLayout() {
	sidebar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.tracked, 0, 3, false).
		AddItem(a.detail, 0, 3, false).
		AddItem(a.logs.GetView(), 0, 4, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.mapView, 0, 7, true).
		AddItem(sidebar, 0, 3, false)

	a.rootLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.tviewApp.SetRoot(a.rootLayout, true)
}

// viewportFor returns the viewport sized to the map area, fitting all
// routes the first time it is called.
func (a *App) viewportFor(width, height int) render.Viewport {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case !a.viewportSet:
		a.viewport = fitRoutes(width, height)
		a.viewportSet = true
	case a.viewport.Width != width || a.viewport.Height != height:
		a.viewport = a.viewport.Resize(width, height)
	}
	return a.viewport
}

func fitRoutes(width, height int) render.Viewport {
	airports := reference.RouteAirports()
	points := make([]coordinates.Geographic, len(airports))
	for i, ap := range airports {
		points[i] = ap.Location
	}
	return render.Fit(width, height, points, 2)
}

// selectedFlight returns the selected tracked id. Caller holds a.mu.
func (a *App) selectedFlight() string {
	if a.selectedIndex >= 0 && a.selectedIndex < len(a.entries) {
		return a.entries[a.selectedIndex].Flight
	}
	return ""
}

// updatePanels redraws the text panels from current state
func (a *App) updatePanels() {
	a.mu.RLock()
	defer a.mu.RUnlock()

	a.tracked.SetText(formatTracked(a.entries, a.selectedIndex))

	var selected tracking.TrackedEntry
	if a.selectedIndex >= 0 && a.selectedIndex < len(a.entries) {
		selected = a.entries[a.selectedIndex]
	}
	a.detail.SetText(formatDetail(selected))

	a.status.SetText(formatStatus(a.loading, a.lastUpdate, len(a.views)))
}

func formatTracked(entries []tracking.TrackedEntry, selectedIndex int) string {
	var b strings.Builder
	for i, e := range entries {
		marker := "[gray]○[-]"
		if len(e.Live) > 0 {
			marker = "[green]●[-]"
		}

		name := fmt.Sprintf("[white]%s[-]", e.Flight)
		if i == selectedIndex {
			name = fmt.Sprintf("[black:yellow]%s[-:-]", e.Flight)
		}

		route := "[gray]no route[-]"
		if e.HasRoute {
			route = fmt.Sprintf("[gray]%s→%s[-]", e.Route.Origin, e.Route.Destination)
		}
		fmt.Fprintf(&b, "%s %s %s\n", marker, name, route)
	}
	return b.String()
}

func formatDetail(e tracking.TrackedEntry) string {
	if e.Flight == "" {
		return "[gray]No flight selected[-]\n"
	}
	if len(e.Live) == 0 {
		return fmt.Sprintf("[yellow]%s[-]\n[gray]Not seen in the latest poll[-]\n", e.Flight)
	}

	var b strings.Builder
	for _, v := range e.Live {
		callsign := strings.TrimSpace(v.Telemetry.Callsign)
		fmt.Fprintf(&b, "[yellow]%s[-] [gray](%s)[-]\n", tview.Escape(callsign), v.Telemetry.ICAO24)
		fmt.Fprintf(&b, "[white]%s[-]\n[gray]→[-] [white]%s[-]\n", v.Origin.Name, v.Destination.Name)
		fmt.Fprintf(&b, "[gray]Alt:[-] [white]%d ft[-]  [gray]Spd:[-] [white]%d kt[-]\n", v.AltitudeFeet, v.SpeedKnots)
		fmt.Fprintf(&b, "[gray]Brg:[-] [white]%.0f°[-] %c\n", v.Bearing, render.Arrow(v.Bearing))
		fmt.Fprintf(&b, "[gray]Pos:[-] [white]%.4f°, %.4f°[-]\n\n", v.Position.Latitude, v.Position.Longitude)
	}
	return b.String()
}

func formatStatus(loading bool, lastUpdate time.Time, live int) string {
	state := "[green]idle[-]"
	if loading {
		state = "[yellow]Loading…[-]"
	}

	updated := "waiting for first poll"
	if !lastUpdate.IsZero() {
		updated = "updated " + lastUpdate.Local().Format("15:04:05")
	}

	return fmt.Sprintf(" %s  [gray]|[-] %d live  [gray]|[-] %s  [gray]|[-] [gray]q quit  j/k select  arrows pan  +/- zoom[-]",
		state, live, updated)
}

// handleKeyboard handles keyboard input
func (a *App) handleKeyboard(event *tcell.EventKey) *tcell.EventKey {
	key := event.Key()
	r := event.Rune()

	switch {
	// Quit
	case key == tcell.KeyEscape || r == 'q':
		a.Stop()
		return nil

	// Selection
	case r == 'j' || key == tcell.KeyTab:
		a.moveSelection(1)
		return nil
	case r == 'k' || key == tcell.KeyBacktab:
		a.moveSelection(-1)
		return nil
	case key == tcell.KeyEnter:
		a.centerOnSelected()
		return nil

	// Pan
	case key == tcell.KeyLeft:
		a.adjustViewport(func(v render.Viewport) render.Viewport { return v.Pan(-panCells, 0) })
		return nil
	case key == tcell.KeyRight:
		a.adjustViewport(func(v render.Viewport) render.Viewport { return v.Pan(panCells, 0) })
		return nil
	case key == tcell.KeyUp:
		a.adjustViewport(func(v render.Viewport) render.Viewport { return v.Pan(0, -panCells) })
		return nil
	case key == tcell.KeyDown:
		a.adjustViewport(func(v render.Viewport) render.Viewport { return v.Pan(0, panCells) })
		return nil

	// Zoom
	case r == '+' || r == '=':
		a.adjustViewport(func(v render.Viewport) render.Viewport {
			z := v.Zoom(zoomStep)
			if z.DegreesPerColumn < minDegreesPerColumn {
				return v
			}
			return z
		})
		return nil
	case r == '-':
		a.adjustViewport(func(v render.Viewport) render.Viewport { return v.Zoom(1 / zoomStep) })
		return nil
	case r == '0':
		a.adjustViewport(func(v render.Viewport) render.Viewport { return fitRoutes(v.Width, v.Height) })
		return nil
	case r == 'w':
		a.adjustViewport(func(v render.Viewport) render.Viewport { return render.NewWorldViewport(v.Width, v.Height) })
		return nil
	}

	return event
}

// moveSelection steps through the tracked list, wrapping at both ends
func (a *App) moveSelection(delta int) {
	a.mu.Lock()
	if n := len(a.entries); n > 0 {
		a.selectedIndex = (a.selectedIndex + delta + n) % n
	}
	a.mu.Unlock()

	a.updatePanels()
}

// centerOnSelected pans the map to the selected flight's first live position
func (a *App) centerOnSelected() {
	a.mu.Lock()
	var target *coordinates.Geographic
	if a.selectedIndex >= 0 && a.selectedIndex < len(a.entries) {
		if live := a.entries[a.selectedIndex].Live; len(live) > 0 {
			target = &live[0].Position
		}
	}
	if target != nil && a.viewportSet {
		a.viewport.Center = *target
		a.viewport = a.viewport.Resize(a.viewport.Width, a.viewport.Height)
	}
	flight := a.selectedFlight()
	a.mu.Unlock()

	if target == nil {
		a.logs.Warn("%s is not live", flight)
	}
}

// adjustViewport applies fn to the viewport once it has a size
func (a *App) adjustViewport(fn func(render.Viewport) render.Viewport) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.viewportSet {
		a.viewport = fn(a.viewport)
	}
}

// Run starts the application
func (a *App) Run() error {
	go a.updateLoop()

	a.logs.Info("Application started, tracking %d flights", len(a.ids))

	// Run the tview application
	err := a.tviewApp.Run()

	// Nothing drains the draw queue once Run returns
	a.logs.SetQueue(nil)
	a.stop()
	return err
}

// updateLoop refreshes state whenever the store changes
func (a *App) updateLoop() {
	updates, cancel := a.store.Subscribe()
	defer cancel()

	// Initial update
	a.refresh()

	for {
		select {
		case <-updates:
			a.refresh()
		case <-a.stopChan:
			return
		}
	}
}

// refresh recomputes views from the current snapshot
func (a *App) refresh() {
	snap := a.store.Snapshot()
	views := tracking.Map(snap.Records, a.ids)
	entries := tracking.Tracked(views, a.ids)

	a.mu.Lock()
	a.views = views
	a.entries = entries
	a.loading = a.store.Loading()
	a.lastUpdate = snap.FetchedAt
	a.mu.Unlock()

	a.tviewApp.QueueUpdateDraw(a.updatePanels)
}

func (a *App) stop() {
	a.stopOnce.Do(func() { close(a.stopChan) })
}

// Stop stops the application
func (a *App) Stop() {
	a.fileLogger.Println("Shutting down...")
	a.stop()

	// Stop tview application
	a.tviewApp.Stop()
}
