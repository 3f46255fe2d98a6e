package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unklstewy/routescope/internal/render"
	"github.com/unklstewy/routescope/pkg/coordinates"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

// Mini-map dimensions
const (
	mapWidth  = 72
	mapHeight = 18
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	liveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type model struct {
	store *tracking.Store
	ids   []string

	updates <-chan struct{}

	entries    []tracking.TrackedEntry
	loading    bool
	lastUpdate time.Time
	selected   int
	frame      int
	viewport   render.Viewport
}

type storeMsg struct{}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForStore blocks until the store signals a change.
func waitForStore(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return storeMsg{}
	}
}

func newModel(store *tracking.Store, ids []string, updates <-chan struct{}) model {
	airports := reference.RouteAirports()
	points := make([]coordinates.Geographic, len(airports))
	for i, ap := range airports {
		points[i] = ap.Location
	}

	m := model{
		store:    store,
		ids:      ids,
		updates:  updates,
		viewport: render.Fit(mapWidth, mapHeight, points, 1),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForStore(m.updates))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if n := len(m.entries); n > 0 {
				m.selected = (m.selected - 1 + n) % n
			}
		case "down", "j":
			if n := len(m.entries); n > 0 {
				m.selected = (m.selected + 1) % n
			}
		}
		return m, nil

	case storeMsg:
		m.refresh()
		return m, waitForStore(m.updates)

	case tickMsg:
		if m.loading {
			m.frame = (m.frame + 1) % len(spinnerFrames)
		}
		return m, tick()
	}

	return m, nil
}

// refresh pulls the current snapshot from the store
func (m *model) refresh() {
	snap := m.store.Snapshot()
	views := tracking.Map(snap.Records, m.ids)
	m.entries = tracking.Tracked(views, m.ids)
	m.loading = m.store.Loading()
	m.lastUpdate = snap.FetchedAt
	if m.selected >= len(m.entries) {
		m.selected = 0
	}
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ROUTESCOPE FLIGHT BOARD"))
	s.WriteString("  ")
	s.WriteString(m.renderStatus())
	s.WriteString("\n\n")

	s.WriteString(m.renderMap())
	s.WriteString("\n")
	s.WriteString(m.renderTable())
	s.WriteString("\n")

	s.WriteString(helpStyle.Render("↑/↓: Select  Q: Quit"))
	s.WriteString("\n")

	return s.String()
}

func (m model) renderStatus() string {
	if m.loading {
		return loadingStyle.Render(spinnerFrames[m.frame] + " Loading…")
	}
	if m.lastUpdate.IsZero() {
		return idleStyle.Render("waiting for first poll")
	}
	return idleStyle.Render("updated " + m.lastUpdate.Local().Format("15:04:05"))
}

// renderMap draws routes, airports and aircraft on a fixed character grid
func (m model) renderMap() string {
	grid := make([][]rune, mapHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", mapWidth))
	}
	set := func(p render.Point, ch rune) {
		if m.viewport.Contains(p) {
			grid[p.Y][p.X] = ch
		}
	}

	for _, rt := range reference.Routes() {
		origin, dest, ok := reference.Endpoints(rt)
		if !ok {
			continue
		}
		a, _ := m.viewport.Project(origin.Location)
		b, _ := m.viewport.Project(dest.Location)
		for _, p := range render.Line(a, b) {
			set(p, '·')
		}
	}

	for _, ap := range reference.RouteAirports() {
		if p, ok := m.viewport.Project(ap.Location); ok {
			set(p, '◆')
		}
	}

	selected := ""
	if m.selected < len(m.entries) {
		selected = m.entries[m.selected].Flight
	}

	type mark struct {
		p   render.Point
		sel bool
	}
	var marks []mark
	for _, e := range m.entries {
		for _, v := range e.Live {
			if p, ok := m.viewport.Project(v.Position); ok {
				set(p, render.Arrow(v.Bearing))
				marks = append(marks, mark{p: p, sel: e.Flight == selected})
			}
		}
	}

	var s strings.Builder
	s.WriteString(borderStyle.Render("┌" + strings.Repeat("─", mapWidth) + "┐"))
	s.WriteString("\n")
	for y, row := range grid {
		s.WriteString(borderStyle.Render("│"))
		for x, ch := range row {
			cell := string(ch)
			for _, mk := range marks {
				if mk.p.X == x && mk.p.Y == y {
					if mk.sel {
						cell = selectedStyle.Render(cell)
					} else {
						cell = liveStyle.Render(cell)
					}
					break
				}
			}
			s.WriteString(cell)
		}
		s.WriteString(borderStyle.Render("│"))
		s.WriteString("\n")
	}
	s.WriteString(borderStyle.Render("└" + strings.Repeat("─", mapWidth) + "┘"))
	s.WriteString("\n")
	return s.String()
}

// renderTable lists every tracked flight, live or not
func (m model) renderTable() string {
	var s strings.Builder

	header := fmt.Sprintf("  %-8s %-11s %-9s %-10s %8s %6s %5s", "FLIGHT", "ROUTE", "STATUS", "CALLSIGN", "ALT FT", "KT", "BRG")
	s.WriteString(headerStyle.Render(header))
	s.WriteString("\n")

	for i, e := range m.entries {
		route := "-"
		if e.HasRoute {
			route = fmt.Sprintf("%s-%s", e.Route.Origin, e.Route.Destination)
		}

		cursor := "  "
		if i == m.selected {
			cursor = "▶ "
		}

		if len(e.Live) == 0 {
			line := fmt.Sprintf("%s%-8s %-11s %-9s", cursor, e.Flight, route, "not seen")
			if i == m.selected {
				s.WriteString(selectedStyle.Render(line))
			} else {
				s.WriteString(idleStyle.Render(line))
			}
			s.WriteString("\n")
			continue
		}

		for j, v := range e.Live {
			flight, r := e.Flight, route
			if j > 0 {
				cursor, flight, r = "  ", "", ""
			}
			line := fmt.Sprintf("%s%-8s %-11s %-9s %-10s %8d %6d %4.0f°",
				cursor, flight, r, "live", strings.TrimSpace(v.Telemetry.Callsign),
				v.AltitudeFeet, v.SpeedKnots, v.Bearing)
			if i == m.selected {
				s.WriteString(selectedStyle.Render(line))
			} else {
				s.WriteString(liveStyle.Render(line))
			}
			s.WriteString("\n")
		}
	}

	return s.String()
}
