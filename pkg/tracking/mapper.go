package tracking

import (
	"github.com/unklstewy/routescope/pkg/coordinates"
	"github.com/unklstewy/routescope/pkg/opensky"
	"github.com/unklstewy/routescope/pkg/reference"
)

// TrackedFlightView pairs a telemetry record with its route and the position
// and bearing used to draw it.
type TrackedFlightView struct {
	// Flight is the tracked identifier the callsign matched
	Flight string `json:"flight"`

	Telemetry   opensky.TelemetryRecord `json:"telemetry"`
	Route       reference.Route         `json:"route"`
	Origin      reference.Airport       `json:"origin"`
	Destination reference.Airport       `json:"destination"`

	// Reported is the raw telemetry position
	Reported coordinates.Geographic `json:"reported"`

	// Position is the reported position projected onto the route segment
	Position coordinates.Geographic `json:"position"`

	// Bearing is from Position toward the destination, in degrees [0, 360)
	Bearing float64 `json:"bearing"`

	AltitudeFeet int `json:"altitude_ft"`
	SpeedKnots   int `json:"speed_kt"`
}

// Map builds a view for every record whose callsign matches one of ids and
// whose route and airports resolve. Records that fail a lookup are skipped.
//
// When a callsign contains several ids, the first in ids wins.
func Map(records []opensky.TelemetryRecord, ids []string) []TrackedFlightView {
	views := make([]TrackedFlightView, 0, len(records))
	for _, rec := range records {
		v, ok := MapRecord(rec, ids)
		if !ok {
			continue
		}
		views = append(views, v)
	}
	return views
}

// MapRecord builds the view for a single record.
func MapRecord(rec opensky.TelemetryRecord, ids []string) (TrackedFlightView, bool) {
	flight, ok := MatchTracked(rec.Callsign, ids)
	if !ok {
		return TrackedFlightView{}, false
	}

	route, ok := reference.RouteFor(flight)
	if !ok {
		return TrackedFlightView{}, false
	}

	origin, dest, ok := reference.Endpoints(route)
	if !ok {
		return TrackedFlightView{}, false
	}

	reported := coordinates.Geographic{Latitude: rec.Latitude, Longitude: rec.Longitude}
	position := coordinates.ClosestPointOnSegment(reported, origin.Location, dest.Location)

	return TrackedFlightView{
		Flight:       flight,
		Telemetry:    rec,
		Route:        route,
		Origin:       origin,
		Destination:  dest,
		Reported:     reported,
		Position:     position,
		Bearing:      coordinates.Bearing(position, dest.Location),
		AltitudeFeet: coordinates.FeetFromMeters(rec.BaroAltitude),
		SpeedKnots:   coordinates.KnotsFromMetersPerSecond(rec.Velocity),
	}, true
}

// LiveByFlight groups views by tracked identifier, keeping enumeration order
// of the views within each flight.
func LiveByFlight(views []TrackedFlightView) map[string][]TrackedFlightView {
	m := make(map[string][]TrackedFlightView)
	for _, v := range views {
		m[v.Flight] = append(m[v.Flight], v)
	}
	return m
}

// TrackedEntry is one tracked identifier with whatever live views it has.
type TrackedEntry struct {
	Flight string
	Route  reference.Route

	// HasRoute is false when the identifier has no route table entry
	HasRoute bool

	// Live is empty when the flight was not seen in the last snapshot
	Live []TrackedFlightView
}

// Tracked lists every id in order, live or not, for the persistent panel.
func Tracked(views []TrackedFlightView, ids []string) []TrackedEntry {
	live := LiveByFlight(views)

	entries := make([]TrackedEntry, 0, len(ids))
	for _, id := range ids {
		route, ok := reference.RouteFor(id)
		entries = append(entries, TrackedEntry{
			Flight:   id,
			Route:    route,
			HasRoute: ok,
			Live:     live[id],
		})
	}
	return entries
}
