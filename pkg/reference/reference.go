// Package reference holds the compiled-in airport and route tables that
// define which flights are tracked.
//
// The tables are built once at package initialization and never mutated.
// Accessors return copies, so no synchronization is needed.
package reference

import (
	"fmt"
	"sort"

	"github.com/unklstewy/routescope/pkg/coordinates"
)

// AirportCode is an ICAO airport identifier from the fixed airport set.
type AirportCode string

// Known airports
const (
	KLAX AirportCode = "KLAX"
	KBOS AirportCode = "KBOS"
	KJFK AirportCode = "KJFK"
	KSFO AirportCode = "KSFO"
	KORD AirportCode = "KORD"
	KATL AirportCode = "KATL"
	KSEA AirportCode = "KSEA"
	KDEN AirportCode = "KDEN"
	EGLL AirportCode = "EGLL"
)

// Airport is a fixed airport with a display name and location.
type Airport struct {
	Code     AirportCode            `json:"code"`
	Name     string                 `json:"name"`
	Location coordinates.Geographic `json:"location"`
}

// Route is a tracked flight and the airports it flies between.
type Route struct {
	// Flight is the designator matched against telemetry callsigns (e.g., "UAL2402")
	Flight      string      `json:"flight"`
	Origin      AirportCode `json:"origin"`
	Destination AirportCode `json:"destination"`
}

var airports = map[AirportCode]Airport{
	KLAX: {Code: KLAX, Name: "Los Angeles International", Location: coordinates.Geographic{Latitude: 33.9416, Longitude: -118.4085}},
	KBOS: {Code: KBOS, Name: "Boston Logan International", Location: coordinates.Geographic{Latitude: 42.3656, Longitude: -71.0096}},
	KJFK: {Code: KJFK, Name: "John F. Kennedy International", Location: coordinates.Geographic{Latitude: 40.6413, Longitude: -73.7781}},
	KSFO: {Code: KSFO, Name: "San Francisco International", Location: coordinates.Geographic{Latitude: 37.6213, Longitude: -122.3790}},
	KORD: {Code: KORD, Name: "Chicago O'Hare International", Location: coordinates.Geographic{Latitude: 41.9742, Longitude: -87.9073}},
	KATL: {Code: KATL, Name: "Hartsfield-Jackson Atlanta International", Location: coordinates.Geographic{Latitude: 33.6407, Longitude: -84.4277}},
	KSEA: {Code: KSEA, Name: "Seattle-Tacoma International", Location: coordinates.Geographic{Latitude: 47.4502, Longitude: -122.3088}},
	KDEN: {Code: KDEN, Name: "Denver International", Location: coordinates.Geographic{Latitude: 39.8561, Longitude: -104.6737}},
	EGLL: {Code: EGLL, Name: "London Heathrow", Location: coordinates.Geographic{Latitude: 51.4700, Longitude: -0.4543}},
}

// routes is kept as a slice: its order is the enumeration order used to
// break ties when a callsign contains more than one tracked identifier.
var routes = []Route{
	{Flight: "UAL2402", Origin: KLAX, Destination: KBOS},
	{Flight: "DAL1153", Origin: KATL, Destination: KSEA},
	{Flight: "AAL100", Origin: KJFK, Destination: EGLL},
	{Flight: "UAL857", Origin: KSFO, Destination: KORD},
	{Flight: "SWA2118", Origin: KDEN, Destination: KLAX},
}

var routesByFlight = indexRoutes(routes)

func init() {
	if err := Validate(airports, routes); err != nil {
		panic(fmt.Sprintf("reference: invalid compiled-in tables: %v", err))
	}
}

func indexRoutes(rs []Route) map[string]Route {
	m := make(map[string]Route, len(rs))
	for _, r := range rs {
		m[r.Flight] = r
	}
	return m
}

// Validate checks the route invariants against an airport table: every route
// has distinct origin and destination, both present in the table, and no
// flight designator appears twice.
func Validate(airportTable map[AirportCode]Airport, routeTable []Route) error {
	seen := make(map[string]bool, len(routeTable))
	for _, r := range routeTable {
		if r.Flight == "" {
			return fmt.Errorf("route %s-%s has empty flight designator", r.Origin, r.Destination)
		}
		if seen[r.Flight] {
			return fmt.Errorf("duplicate route for flight %s", r.Flight)
		}
		seen[r.Flight] = true

		if r.Origin == r.Destination {
			return fmt.Errorf("route %s: origin equals destination (%s)", r.Flight, r.Origin)
		}
		if _, ok := airportTable[r.Origin]; !ok {
			return fmt.Errorf("route %s: unknown origin airport %s", r.Flight, r.Origin)
		}
		if _, ok := airportTable[r.Destination]; !ok {
			return fmt.Errorf("route %s: unknown destination airport %s", r.Flight, r.Destination)
		}
	}
	return nil
}

// TrackedIDs returns the tracked flight designators in enumeration order.
func TrackedIDs() []string {
	ids := make([]string, len(routes))
	for i, r := range routes {
		ids[i] = r.Flight
	}
	return ids
}

// Routes returns all routes in enumeration order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// RouteFor returns the route for a flight designator.
func RouteFor(flight string) (Route, bool) {
	r, ok := routesByFlight[flight]
	return r, ok
}

// AirportFor returns the airport for a code.
func AirportFor(code AirportCode) (Airport, bool) {
	a, ok := airports[code]
	return a, ok
}

// RouteAirports returns every airport referenced by at least one route,
// sorted by code.
func RouteAirports() []Airport {
	used := make(map[AirportCode]bool)
	for _, r := range routes {
		used[r.Origin] = true
		used[r.Destination] = true
	}

	out := make([]Airport, 0, len(used))
	for code := range used {
		out = append(out, airports[code])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Endpoints resolves a route to its origin and destination airports.
// ok is false when either airport is missing from the table.
func Endpoints(r Route) (origin, destination Airport, ok bool) {
	origin, okOrigin := airports[r.Origin]
	destination, okDest := airports[r.Destination]
	return origin, destination, okOrigin && okDest
}
