package render

import (
	"math"
	"testing"

	"github.com/unklstewy/routescope/pkg/coordinates"
)

// TestNewWorldViewport tests the fully zoomed-out view.
func TestNewWorldViewport(t *testing.T) {
	v := NewWorldViewport(80, 24)

	if v.DegreesPerColumn != 4.5 {
		t.Fatalf("Expected 4.5 degrees per column, got %f", v.DegreesPerColumn)
	}
	if v.Center != (coordinates.Geographic{}) {
		t.Errorf("Expected world center at 0,0, got %v", v.Center)
	}

	p, ok := v.Project(coordinates.Geographic{Latitude: 0, Longitude: 0})
	if !ok || p != (Point{X: 40, Y: 12}) {
		t.Errorf("Expected origin at (40,12), got %v ok=%v", p, ok)
	}

	corners := []coordinates.Geographic{
		{Latitude: 89.9, Longitude: -179.9},
		{Latitude: -89.9, Longitude: 179.9},
	}
	for _, c := range corners {
		if _, ok := v.Project(c); !ok {
			t.Errorf("Expected %v to be visible in world view", c)
		}
	}
}

// TestProjectOrientation verifies north is up and east is right.
func TestProjectOrientation(t *testing.T) {
	v := NewWorldViewport(100, 50).Zoom(2)

	center, _ := v.Project(v.Center)
	north, _ := v.Project(coordinates.Geographic{Latitude: v.Center.Latitude + 10, Longitude: v.Center.Longitude})
	east, _ := v.Project(coordinates.Geographic{Latitude: v.Center.Latitude, Longitude: v.Center.Longitude + 10})

	if north.Y >= center.Y {
		t.Errorf("Expected north above center: north=%v center=%v", north, center)
	}
	if east.X <= center.X {
		t.Errorf("Expected east right of center: east=%v center=%v", east, center)
	}
}

// TestViewportDegenerate verifies an empty grid projects nothing.
func TestViewportDegenerate(t *testing.T) {
	v := NewWorldViewport(0, 0)
	if _, ok := v.Project(coordinates.Geographic{}); ok {
		t.Error("Expected nothing visible on empty grid")
	}
}

// TestZoomOutStopsAtWorld verifies zooming out never shows past the world.
func TestZoomOutStopsAtWorld(t *testing.T) {
	world := NewWorldViewport(80, 24)

	if got := world.Zoom(0.5); got != world {
		t.Errorf("Expected zoom-out past world to be a no-op, got %+v", got)
	}
	if got := world.Zoom(4).Zoom(0.25); math.Abs(got.DegreesPerColumn-world.DegreesPerColumn) > 1e-12 {
		t.Errorf("Expected zoom round trip to world scale, got %f", got.DegreesPerColumn)
	}
	if got := world.Zoom(0); got != world {
		t.Errorf("Expected zero factor ignored, got %+v", got)
	}
}

// TestPanStopsAtEdge verifies the view cannot be dragged off the world.
func TestPanStopsAtEdge(t *testing.T) {
	v := NewWorldViewport(80, 24).Zoom(4) // 1.125 deg/col, 2.25 deg/row

	east := v.Pan(10000, 0)
	if math.Abs(east.Center.Longitude-135) > 1e-9 {
		t.Errorf("Expected center longitude clamped to 135, got %f", east.Center.Longitude)
	}

	north := v.Pan(0, -10000)
	if math.Abs(north.Center.Latitude-63) > 1e-9 {
		t.Errorf("Expected center latitude clamped to 63, got %f", north.Center.Latitude)
	}

	// Panning at world zoom has nowhere to go
	world := NewWorldViewport(80, 24)
	if got := world.Pan(5, 5); got.Center != world.Center {
		t.Errorf("Expected world view to stay centered, got %v", got.Center)
	}
}

// TestFit verifies all points land on the grid inside the margin.
func TestFit(t *testing.T) {
	points := []coordinates.Geographic{
		{Latitude: 33.9416, Longitude: -118.4085},
		{Latitude: 42.3656, Longitude: -71.0096},
		{Latitude: 47.4502, Longitude: -122.3088},
	}

	v := Fit(120, 40, points, 2)
	for _, g := range points {
		p, ok := v.Project(g)
		if !ok {
			t.Errorf("Expected %v on grid", g)
			continue
		}
		// Extremes land on the margin edge, give or take rounding
		if p.X < 1 || p.X > 118 || p.Y < 1 || p.Y > 38 {
			t.Errorf("Expected %v inside margin, got %v", g, p)
		}
	}

	if v.DegreesPerColumn >= NewWorldViewport(120, 40).DegreesPerColumn {
		t.Error("Expected fitted view to be zoomed in from world")
	}
}

// TestFitFallsBackToWorld covers inputs with no extent.
func TestFitFallsBackToWorld(t *testing.T) {
	world := NewWorldViewport(80, 24)

	if got := Fit(80, 24, nil, 1); got != world {
		t.Errorf("Expected world view for no points, got %+v", got)
	}
	single := []coordinates.Geographic{{Latitude: 10, Longitude: 10}}
	if got := Fit(80, 24, single, 1); got != world {
		t.Errorf("Expected world view for one point, got %+v", got)
	}
}

// TestUnproject verifies Unproject inverts Project to within a cell.
func TestUnproject(t *testing.T) {
	v := NewWorldViewport(160, 48).Zoom(3)

	g := coordinates.Geographic{Latitude: 40.1, Longitude: -20.3}
	v.Center = g
	v = v.Resize(160, 48)

	p, ok := v.Project(g)
	if !ok {
		t.Fatalf("Expected %v on grid", g)
	}
	back := v.Unproject(p)
	if math.Abs(back.Longitude-g.Longitude) > v.DegreesPerColumn ||
		math.Abs(back.Latitude-g.Latitude) > v.DegreesPerColumn*CellAspect {
		t.Errorf("Unproject(Project(%v)) = %v, more than one cell away", g, back)
	}
}

// TestLine tests Bresenham rasterization.
func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want []Point
	}{
		{"Single point", Point{2, 3}, Point{2, 3}, []Point{{2, 3}}},
		{"Horizontal", Point{0, 0}, Point{3, 0}, []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"Vertical up", Point{1, 2}, Point{1, 0}, []Point{{1, 2}, {1, 1}, {1, 0}}},
		{"Diagonal", Point{0, 0}, Point{2, 2}, []Point{{0, 0}, {1, 1}, {2, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Line(tt.a, tt.b)
			if len(got) != len(tt.want) {
				t.Fatalf("Line = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Line = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// TestLineConnected verifies every step moves at most one cell.
func TestLineConnected(t *testing.T) {
	a, b := Point{0, 0}, Point{37, -11}
	pts := Line(a, b)

	if pts[0] != a || pts[len(pts)-1] != b {
		t.Fatalf("Expected endpoints %v..%v, got %v..%v", a, b, pts[0], pts[len(pts)-1])
	}
	for i := 1; i < len(pts); i++ {
		if abs(pts[i].X-pts[i-1].X) > 1 || abs(pts[i].Y-pts[i-1].Y) > 1 {
			t.Fatalf("Gap between %v and %v", pts[i-1], pts[i])
		}
	}
}

// TestLineGlyph tests glyph choice by on-screen direction.
func TestLineGlyph(t *testing.T) {
	tests := []struct {
		b    Point
		want rune
	}{
		{Point{10, 0}, '─'},
		{Point{-10, 0}, '─'},
		{Point{0, 5}, '│'},
		{Point{10, -5}, '╱'},
		{Point{10, 5}, '╲'},
		{Point{-10, 5}, '╱'},
		{Point{0, 0}, '·'},
	}

	for _, tt := range tests {
		if got := LineGlyph(Point{}, tt.b); got != tt.want {
			t.Errorf("LineGlyph(0,0 -> %v) = %c, want %c", tt.b, got, tt.want)
		}
	}
}

// TestArrow tests the eight-way bearing glyphs.
func TestArrow(t *testing.T) {
	tests := []struct {
		bearing float64
		want    rune
	}{
		{0, '↑'},
		{22.4, '↑'},
		{22.5, '↗'},
		{45, '↗'},
		{90, '→'},
		{135, '↘'},
		{180, '↓'},
		{225, '↙'},
		{270, '←'},
		{315, '↖'},
		{337.5, '↑'},
		{359.9, '↑'},
		{-90, '←'},
		{450, '→'},
	}

	for _, tt := range tests {
		if got := Arrow(tt.bearing); got != tt.want {
			t.Errorf("Arrow(%.1f) = %c, want %c", tt.bearing, got, tt.want)
		}
	}
}
