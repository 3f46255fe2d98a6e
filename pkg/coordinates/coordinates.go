// Package coordinates provides the geometry used to place aircraft on their
// routes: great-circle distance, planar projection onto a route segment, and
// the initial bearing between two points.
package coordinates

import "math"

// Constants for coordinate calculations
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi

	// EarthRadiusKm is the Earth's mean radius in kilometers
	EarthRadiusKm = 6371.0

	// KmPerNauticalMile is the length of one nautical mile in kilometers
	KmPerNauticalMile = 1.852

	// MetersToFeet converts meters to feet
	MetersToFeet = 3.28084

	// MetersPerSecondToKnots converts meters per second to knots
	MetersPerSecondToKnots = 1.94384
)

// Geographic is a position on Earth's surface in decimal degrees.
type Geographic struct {
	// Latitude in decimal degrees (-90 to +90)
	// Positive = North, Negative = South
	Latitude float64 `json:"lat"`

	// Longitude in decimal degrees (-180 to +180)
	// Positive = East, Negative = West
	Longitude float64 `json:"lon"`
}

// ToRadians converts the Geographic coordinates to radians.
// Returns (latRad, lonRad).
func (g Geographic) ToRadians() (float64, float64) {
	return g.Latitude * DegreesToRadians, g.Longitude * DegreesToRadians
}

// NormalizeAzimuth ensures azimuth is in the range [0, 360).
func NormalizeAzimuth(azimuth float64) float64 {
	az := math.Mod(azimuth, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}

// DistanceKm calculates the great-circle distance between two points using
// the haversine formula. Returns 0 for identical points.
func DistanceKm(from, to Geographic) float64 {
	lat1Rad, lon1Rad := from.ToRadians()
	lat2Rad, lon2Rad := to.ToRadians()

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceNauticalMiles is DistanceKm expressed in nautical miles.
func DistanceNauticalMiles(from, to Geographic) float64 {
	return DistanceKm(from, to) / KmPerNauticalMile
}

// ClosestPointOnSegment returns the point on the segment start-end nearest to
// point, treating latitude and longitude as a flat 2D pair.
//
// This is a planar approximation, not a geodesic one. It is good enough for
// placing a marker on a route line at map zoom levels, but it is wrong for
// segments that cross the antimeridian or pass near a pole.
//
// A zero-length segment (start == end) returns start exactly.
func ClosestPointOnSegment(point, start, end Geographic) Geographic {
	a := point.Latitude - start.Latitude
	b := point.Longitude - start.Longitude
	c := end.Latitude - start.Latitude
	d := end.Longitude - start.Longitude

	dot := a*c + b*d
	lenSq := c*c + d*d

	// -1 clamps to 0 below, selecting start
	t := -1.0
	if lenSq != 0 {
		t = dot / lenSq
	}

	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return Geographic{
		Latitude:  start.Latitude + t*c,
		Longitude: start.Longitude + t*d,
	}
}

// Bearing calculates the initial bearing (forward azimuth) from one point to another.
// Returns bearing in degrees [0, 360), where 0 = North, 90 = East, 180 = South, 270 = West.
func Bearing(from, to Geographic) float64 {
	lat1, lon1 := from.ToRadians()
	lat2, lon2 := to.ToRadians()

	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * RadiansToDegrees

	return math.Mod(bearing+360, 360)
}

// FeetFromMeters converts an altitude in meters to whole feet.
func FeetFromMeters(meters float64) int {
	return int(math.Round(meters * MetersToFeet))
}

// KnotsFromMetersPerSecond converts a speed in m/s to whole knots.
func KnotsFromMetersPerSecond(mps float64) int {
	return int(math.Round(mps * MetersPerSecondToKnots))
}
