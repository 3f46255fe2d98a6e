package coordinates

import (
	"math"
	"testing"
)

// TestDistanceKm tests great-circle distance.
func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name      string
		from      Geographic
		to        Geographic
		want      float64
		tolerance float64
	}{
		{
			name: "Identical points",
			from: Geographic{Latitude: 33.9416, Longitude: -118.4085},
			to:   Geographic{Latitude: 33.9416, Longitude: -118.4085},
			want: 0,
		},
		{
			name:      "One degree of latitude",
			from:      Geographic{Latitude: 0, Longitude: 0},
			to:        Geographic{Latitude: 1, Longitude: 0},
			want:      EarthRadiusKm * DegreesToRadians,
			tolerance: 1e-9,
		},
		{
			name:      "Los Angeles to Boston",
			from:      Geographic{Latitude: 33.9416, Longitude: -118.4085},
			to:        Geographic{Latitude: 42.3656, Longitude: -71.0096},
			want:      4200,
			tolerance: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.from, tt.to)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceKm = %.4f, want %.4f (±%.4f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

// TestDistanceNauticalMiles checks the km to nm conversion.
func TestDistanceNauticalMiles(t *testing.T) {
	from := Geographic{Latitude: 0, Longitude: 0}
	to := Geographic{Latitude: 0, Longitude: 1}

	km := DistanceKm(from, to)
	nm := DistanceNauticalMiles(from, to)
	if math.Abs(nm*KmPerNauticalMile-km) > 1e-9 {
		t.Errorf("DistanceNauticalMiles = %f, expected %f", nm, km/KmPerNauticalMile)
	}
}

// TestClosestPointOnSegment tests planar projection onto a route segment.
func TestClosestPointOnSegment(t *testing.T) {
	start := Geographic{Latitude: 0, Longitude: 0}
	end := Geographic{Latitude: 10, Longitude: 10}

	tests := []struct {
		name  string
		point Geographic
		want  Geographic
	}{
		{"Point on segment", Geographic{Latitude: 5, Longitude: 5}, Geographic{Latitude: 5, Longitude: 5}},
		{"Perpendicular offset", Geographic{Latitude: 6, Longitude: 4}, Geographic{Latitude: 5, Longitude: 5}},
		{"Before start clamps to start", Geographic{Latitude: -3, Longitude: -5}, start},
		{"Past end clamps to end", Geographic{Latitude: 20, Longitude: 14}, end},
		{"At start", start, start},
		{"At end", end, end},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPointOnSegment(tt.point, start, end)
			if math.Abs(got.Latitude-tt.want.Latitude) > 1e-9 || math.Abs(got.Longitude-tt.want.Longitude) > 1e-9 {
				t.Errorf("ClosestPointOnSegment(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

// TestClosestPointOnZeroLengthSegment verifies start is returned exactly.
func TestClosestPointOnZeroLengthSegment(t *testing.T) {
	start := Geographic{Latitude: 42.3656, Longitude: -71.0096}

	points := []Geographic{
		{Latitude: 0, Longitude: 0},
		{Latitude: 42.3656, Longitude: -71.0096},
		{Latitude: -80, Longitude: 170},
	}
	for _, p := range points {
		got := ClosestPointOnSegment(p, start, start)
		if got != start {
			t.Errorf("ClosestPointOnSegment(%v, zero-length) = %v, want exactly %v", p, got, start)
		}
	}
}

// TestClosestPointStaysWithinSegment sweeps points around a segment and
// checks the result never leaves the segment's bounding box.
func TestClosestPointStaysWithinSegment(t *testing.T) {
	start := Geographic{Latitude: 33.9416, Longitude: -118.4085}
	end := Geographic{Latitude: 42.3656, Longitude: -71.0096}

	minLat, maxLat := math.Min(start.Latitude, end.Latitude), math.Max(start.Latitude, end.Latitude)
	minLon, maxLon := math.Min(start.Longitude, end.Longitude), math.Max(start.Longitude, end.Longitude)

	for lat := -90.0; lat <= 90.0; lat += 7.5 {
		for lon := -180.0; lon <= 180.0; lon += 11.25 {
			got := ClosestPointOnSegment(Geographic{Latitude: lat, Longitude: lon}, start, end)
			if got.Latitude < minLat-1e-9 || got.Latitude > maxLat+1e-9 ||
				got.Longitude < minLon-1e-9 || got.Longitude > maxLon+1e-9 {
				t.Fatalf("point (%.2f, %.2f) projected outside segment: %v", lat, lon, got)
			}
		}
	}
}

// TestBearing tests initial bearing in the four cardinal directions.
func TestBearing(t *testing.T) {
	origin := Geographic{Latitude: 0, Longitude: 0}

	tests := []struct {
		name string
		to   Geographic
		want float64
	}{
		{"North", Geographic{Latitude: 1, Longitude: 0}, 0},
		{"East", Geographic{Latitude: 0, Longitude: 1}, 90},
		{"South", Geographic{Latitude: -1, Longitude: 0}, 180},
		{"West", Geographic{Latitude: 0, Longitude: -1}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bearing = %.6f, want %.1f", got, tt.want)
			}
		})
	}
}

// TestBearingDueNorth checks a point directly north yields a bearing of 0.
func TestBearingDueNorth(t *testing.T) {
	from := Geographic{Latitude: 40.0, Longitude: -74.0}
	to := Geographic{Latitude: 41.0, Longitude: -74.0}

	got := Bearing(from, to)
	if got > 1e-9 && got < 360-1e-9 {
		t.Errorf("Bearing due north = %f, want 0", got)
	}
}

// TestBearingRange checks every bearing falls in [0, 360).
func TestBearingRange(t *testing.T) {
	from := Geographic{Latitude: 10, Longitude: 20}
	for lat := -89.0; lat <= 89.0; lat += 8.9 {
		for lon := -179.0; lon <= 179.0; lon += 17.9 {
			got := Bearing(from, Geographic{Latitude: lat, Longitude: lon})
			if got < 0 || got >= 360 || math.IsNaN(got) {
				t.Fatalf("Bearing to (%.1f, %.1f) = %f, outside [0, 360)", lat, lon, got)
			}
		}
	}

	if got := Bearing(from, from); got != 0 {
		t.Errorf("Bearing to self = %f, want 0", got)
	}
}

// TestNormalizeAzimuth tests azimuth normalization
func TestNormalizeAzimuth(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{0.0, 0.0},
		{359.0, 359.0},
		{360.0, 0.0},
		{361.0, 1.0},
		{-1.0, 359.0},
		{-90.0, 270.0},
		{720.0, 0.0},
	}

	for _, tt := range tests {
		got := NormalizeAzimuth(tt.input)
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("NormalizeAzimuth(%.1f) = %.1f, want %.1f", tt.input, got, tt.want)
		}
	}
}

// TestUnitConversions tests display unit rounding.
func TestUnitConversions(t *testing.T) {
	if got := FeetFromMeters(10000); got != 32808 {
		t.Errorf("FeetFromMeters(10000) = %d, want 32808", got)
	}
	if got := KnotsFromMetersPerSecond(250); got != 486 {
		t.Errorf("KnotsFromMetersPerSecond(250) = %d, want 486", got)
	}
	if got := FeetFromMeters(0); got != 0 {
		t.Errorf("FeetFromMeters(0) = %d, want 0", got)
	}
}
