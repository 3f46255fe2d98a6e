// Package render projects geographic positions onto a character grid for the
// terminal map. It has no terminal dependency; callers plot the returned cells.
package render

import (
	"math"

	"github.com/unklstewy/routescope/pkg/coordinates"
)

// World bounds in degrees. A viewport never shows anything outside them.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// CellAspect is the height:width ratio of a terminal cell (~2:1).
const CellAspect = 2.0

// Point is a cell position relative to the viewport's top-left corner.
type Point struct {
	X, Y int
}

// Viewport maps an equirectangular lat/lon window onto Width x Height cells.
type Viewport struct {
	Width, Height int

	// Center is the geographic point at the middle of the grid
	Center coordinates.Geographic

	// DegreesPerColumn is the longitude covered by one cell
	DegreesPerColumn float64
}

// NewWorldViewport returns a viewport that fits the whole world.
func NewWorldViewport(width, height int) Viewport {
	v := Viewport{Width: width, Height: height}
	if width <= 0 || height <= 0 {
		return v
	}
	v.DegreesPerColumn = math.Max(
		(MaxLongitude-MinLongitude)/float64(width),
		(MaxLatitude-MinLatitude)/(float64(height)*CellAspect),
	)
	return v.clamp()
}

// Fit returns a viewport that contains every point with margin cells to spare.
// With fewer than two distinct points the whole world is shown.
func Fit(width, height int, points []coordinates.Geographic, margin int) Viewport {
	if len(points) == 0 {
		return NewWorldViewport(width, height)
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLon, maxLon := points[0].Longitude, points[0].Longitude
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLon = math.Min(minLon, p.Longitude)
		maxLon = math.Max(maxLon, p.Longitude)
	}
	if minLat == maxLat && minLon == maxLon {
		return NewWorldViewport(width, height)
	}

	usableW := float64(width - 2*margin)
	usableH := float64(height - 2*margin)
	if usableW < 1 || usableH < 1 {
		return NewWorldViewport(width, height)
	}

	v := Viewport{
		Width:  width,
		Height: height,
		Center: coordinates.Geographic{
			Latitude:  (minLat + maxLat) / 2,
			Longitude: (minLon + maxLon) / 2,
		},
		DegreesPerColumn: math.Max((maxLon-minLon)/usableW, (maxLat-minLat)/(usableH*CellAspect)),
	}
	return v.clamp()
}

// degreesPerRow is the latitude covered by one cell.
func (v Viewport) degreesPerRow() float64 {
	return v.DegreesPerColumn * CellAspect
}

// Project returns the cell for g and whether it falls inside the grid.
func (v Viewport) Project(g coordinates.Geographic) (Point, bool) {
	if v.DegreesPerColumn <= 0 {
		return Point{}, false
	}

	x := float64(v.Width)/2 + (g.Longitude-v.Center.Longitude)/v.DegreesPerColumn
	y := float64(v.Height)/2 - (g.Latitude-v.Center.Latitude)/v.degreesPerRow()

	p := Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
	return p, v.Contains(p)
}

// Unproject returns the geographic position at the center of cell p.
func (v Viewport) Unproject(p Point) coordinates.Geographic {
	return coordinates.Geographic{
		Latitude:  v.Center.Latitude - (float64(p.Y)+0.5-float64(v.Height)/2)*v.degreesPerRow(),
		Longitude: v.Center.Longitude + (float64(p.X)+0.5-float64(v.Width)/2)*v.DegreesPerColumn,
	}
}

// Contains reports whether p is on the grid.
func (v Viewport) Contains(p Point) bool {
	return p.X >= 0 && p.X < v.Width && p.Y >= 0 && p.Y < v.Height
}

// Zoom scales the view by factor (>1 zooms in) without showing past the
// world edge.
func (v Viewport) Zoom(factor float64) Viewport {
	if factor <= 0 {
		return v
	}
	v.DegreesPerColumn /= factor
	return v.clamp()
}

// Pan moves the center by the given number of cells, stopping at the world edge.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.Center.Longitude += float64(dx) * v.DegreesPerColumn
	v.Center.Latitude -= float64(dy) * v.degreesPerRow()
	return v.clamp()
}

// Resize keeps center and scale while changing the grid size.
func (v Viewport) Resize(width, height int) Viewport {
	if v.DegreesPerColumn <= 0 {
		return NewWorldViewport(width, height)
	}
	v.Width, v.Height = width, height
	return v.clamp()
}

// clamp limits zoom-out and keeps the visible window inside the world.
// An axis wider than the world is centered on it.
func (v Viewport) clamp() Viewport {
	if v.Width <= 0 || v.Height <= 0 {
		return v
	}

	// Zooming out stops once the whole world fits
	maxScale := math.Max(
		(MaxLongitude-MinLongitude)/float64(v.Width),
		(MaxLatitude-MinLatitude)/(float64(v.Height)*CellAspect),
	)
	if v.DegreesPerColumn > maxScale || v.DegreesPerColumn <= 0 {
		v.DegreesPerColumn = maxScale
	}

	halfLon := float64(v.Width) / 2 * v.DegreesPerColumn
	halfLat := float64(v.Height) / 2 * v.degreesPerRow()
	v.Center.Longitude = clampFloat(v.Center.Longitude, MinLongitude+halfLon, MaxLongitude-halfLon)
	v.Center.Latitude = clampFloat(v.Center.Latitude, MinLatitude+halfLat, MaxLatitude-halfLat)
	return v
}

func clampFloat(x, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, x))
}

// Line returns the cells of a straight line from a to b using Bresenham's
// algorithm, both ends included.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx := -1
	if a.X < b.X {
		sx = 1
	}
	sy := -1
	if a.Y < b.Y {
		sy = 1
	}
	err := dx - dy

	points := make([]Point, 0, max(dx, dy)+1)
	x, y := a.X, a.Y
	for {
		points = append(points, Point{X: x, Y: y})
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
	return points
}

// LineGlyph picks the rune that best follows the segment a-b on screen.
func LineGlyph(a, b Point) rune {
	dx := float64(b.X - a.X)
	dy := float64(b.Y-a.Y) * CellAspect
	if dx == 0 && dy == 0 {
		return '·'
	}

	// Angle from horizontal in [0, 180); y grows downward
	angle := math.Mod(math.Atan2(-dy, dx)*coordinates.RadiansToDegrees+180, 180)
	switch {
	case angle < 22.5 || angle >= 157.5:
		return '─'
	case angle < 67.5:
		return '╱'
	case angle < 112.5:
		return '│'
	default:
		return '╲'
	}
}

// arrows are ordered clockwise from north.
var arrows = [8]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// Arrow returns the glyph nearest to a compass bearing in degrees.
func Arrow(bearing float64) rune {
	b := coordinates.NormalizeAzimuth(bearing)
	return arrows[int(math.Floor((b+22.5)/45))%8]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
