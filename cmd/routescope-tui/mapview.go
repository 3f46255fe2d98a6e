package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/unklstewy/routescope/internal/render"
	"github.com/unklstewy/routescope/pkg/reference"
)

// MapView is a custom tview primitive that draws routes, airports and
// aircraft on an equirectangular grid using tcell
type MapView struct {
	*tview.Box
	app *App
}

// NewMapView creates a new map view
func NewMapView(app *App) *MapView {
	mv := &MapView{
		Box: tview.NewBox(),
		app: app,
	}
	mv.SetBorder(true).SetTitle(" Route Map ")
	return mv
}

// Draw renders the map using tcell
func (mv *MapView) Draw(screen tcell.Screen) {
	mv.Box.DrawForSubclass(screen, mv)

	// Get the inner bounds (excluding border)
	x, y, width, height := mv.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	vp := mv.app.viewportFor(width, height)

	gridStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	routeStyle := tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	airportStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	put := func(p render.Point, ch rune, style tcell.Style) {
		if vp.Contains(p) {
			screen.SetContent(x+p.X, y+p.Y, ch, nil, style)
		}
	}
	label := func(p render.Point, text string, style tcell.Style) {
		for i, ch := range text {
			put(render.Point{X: p.X + i, Y: p.Y}, ch, style)
		}
	}

	// Graticule every 30 degrees
	for lat := -60.0; lat <= 60; lat += 30 {
		for col := 0; col < width; col += 2 {
			g := vp.Unproject(render.Point{X: col, Y: 0})
			g.Latitude = lat
			if p, ok := vp.Project(g); ok {
				put(p, '·', gridStyle)
			}
		}
	}

	// Routes
	for _, rt := range reference.Routes() {
		origin, dest, ok := reference.Endpoints(rt)
		if !ok {
			continue
		}
		a, _ := vp.Project(origin.Location)
		b, _ := vp.Project(dest.Location)
		glyph := render.LineGlyph(a, b)
		for _, p := range render.Line(a, b) {
			put(p, glyph, routeStyle)
		}
	}

	// Airports
	for _, ap := range reference.RouteAirports() {
		p, ok := vp.Project(ap.Location)
		if !ok {
			continue
		}
		put(p, '◆', airportStyle)
		label(render.Point{X: p.X + 1, Y: p.Y}, string(ap.Code), airportStyle)
	}

	// Aircraft
	mv.app.mu.RLock()
	views := mv.app.views
	selected := mv.app.selectedFlight()
	mv.app.mu.RUnlock()

	for _, v := range views {
		p, ok := vp.Project(v.Position)
		if !ok {
			continue
		}

		style := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		if v.Flight == selected {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
			label(render.Point{X: p.X + 2, Y: p.Y}, v.Flight, style)
		}
		put(p, render.Arrow(v.Bearing), style)
	}
}
