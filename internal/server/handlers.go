package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/unklstewy/routescope/pkg/coordinates"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

// FlightResponse is one aircraft marker with its popup fields.
type FlightResponse struct {
	Flight          string  `json:"flight"`
	Callsign        string  `json:"callsign"`
	ICAO24          string  `json:"icao24"`
	OriginCountry   string  `json:"origin_country"`
	Origin          string  `json:"origin"`
	OriginName      string  `json:"origin_name"`
	Destination     string  `json:"destination"`
	DestinationName string  `json:"destination_name"`
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"lon"`
	Bearing         float64 `json:"bearing"`
	AltitudeFeet    int     `json:"altitude_ft"`
	SpeedKnots      int     `json:"speed_kt"`
}

// StatusResponse is the combined state pushed over /ws and served at /api/v1/status.
type StatusResponse struct {
	Loading    bool             `json:"loading"`
	LastUpdate *time.Time       `json:"last_update"`
	Seq        uint64           `json:"seq"`
	Flights    []FlightResponse `json:"flights"`
}

// RouteResponse is one route line between two airports.
type RouteResponse struct {
	Flight      string                 `json:"flight"`
	Origin      string                 `json:"origin"`
	Destination string                 `json:"destination"`
	From        coordinates.Geographic `json:"from"`
	To          coordinates.Geographic `json:"to"`
}

// TrackedResponse is one entry in the persistent tracked-flight panel.
type TrackedResponse struct {
	Flight      string `json:"flight"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Live        int    `json:"live"`
}

// MapResponse describes the base map.
type MapResponse struct {
	TileURL     string                 `json:"tile_url"`
	Attribution string                 `json:"attribution"`
	Center      coordinates.Geographic `json:"center"`
	Zoom        int                    `json:"zoom"`
	MinZoom     int                    `json:"min_zoom"`
	MaxZoom     int                    `json:"max_zoom"`
	Bounds      [2][2]float64          `json:"bounds"`
}

// worldBounds is [[south, west], [north, east]] in Leaflet order.
var worldBounds = [2][2]float64{{-90, -180}, {90, 180}}

func (s *Server) views() []tracking.TrackedFlightView {
	return tracking.Map(s.store.Snapshot().Records, s.ids)
}

// status assembles the current state from the store.
func (s *Server) status() StatusResponse {
	snap := s.store.Snapshot()
	views := tracking.Map(snap.Records, s.ids)

	resp := StatusResponse{
		Loading: s.store.Loading(),
		Seq:     snap.Seq,
		Flights: flightResponses(views),
	}
	if !snap.FetchedAt.IsZero() {
		at := snap.FetchedAt.UTC()
		resp.LastUpdate = &at
	}
	return resp
}

func flightResponses(views []tracking.TrackedFlightView) []FlightResponse {
	out := make([]FlightResponse, len(views))
	for i, v := range views {
		out[i] = FlightResponse{
			Flight:          v.Flight,
			Callsign:        v.Telemetry.Callsign,
			ICAO24:          v.Telemetry.ICAO24,
			OriginCountry:   v.Telemetry.OriginCountry,
			Origin:          string(v.Origin.Code),
			OriginName:      v.Origin.Name,
			Destination:     string(v.Destination.Code),
			DestinationName: v.Destination.Name,
			Latitude:        v.Position.Latitude,
			Longitude:       v.Position.Longitude,
			Bearing:         v.Bearing,
			AltitudeFeet:    v.AltitudeFeet,
			SpeedKnots:      v.SpeedKnots,
		}
	}
	return out
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// handleGetAirports returns every airport referenced by a route
func (s *Server) handleGetAirports(w http.ResponseWriter, r *http.Request) {
	airports := reference.RouteAirports()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"airports": airports,
		"count":    len(airports),
	})
}

// handleGetRoutes returns one line per route whose airports resolve
func (s *Server) handleGetRoutes(w http.ResponseWriter, r *http.Request) {
	routes := make([]RouteResponse, 0)
	for _, rt := range reference.Routes() {
		origin, dest, ok := reference.Endpoints(rt)
		if !ok {
			continue
		}
		routes = append(routes, RouteResponse{
			Flight:      rt.Flight,
			Origin:      string(origin.Code),
			Destination: string(dest.Code),
			From:        origin.Location,
			To:          dest.Location,
		})
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"routes": routes,
		"count":  len(routes),
	})
}

// handleGetTracked lists all tracked identifiers regardless of live status
func (s *Server) handleGetTracked(w http.ResponseWriter, r *http.Request) {
	entries := tracking.Tracked(s.views(), s.ids)

	tracked := make([]TrackedResponse, 0, len(entries))
	for _, e := range entries {
		tracked = append(tracked, TrackedResponse{
			Flight:      e.Flight,
			Origin:      string(e.Route.Origin),
			Destination: string(e.Route.Destination),
			Live:        len(e.Live),
		})
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tracked": tracked,
		"count":   len(tracked),
	})
}

// handleGetFlights returns the live tracked flights
func (s *Server) handleGetFlights(w http.ResponseWriter, r *http.Request) {
	flights := flightResponses(s.views())
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"flights": flights,
		"count":   len(flights),
	})
}

// handleGetStatus returns the loading flag, last update and flights
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.status())
}

// handleGetMap returns the base-map settings
func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, MapResponse{
		TileURL:     s.mapCfg.TileURL,
		Attribution: s.mapCfg.Attribution,
		Center: coordinates.Geographic{
			Latitude:  s.mapCfg.CenterLatitude,
			Longitude: s.mapCfg.CenterLongitude,
		},
		Zoom:    s.mapCfg.InitialZoom,
		MinZoom: s.mapCfg.MinZoom,
		MaxZoom: s.mapCfg.MaxZoom,
		Bounds:  worldBounds,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("✗ Failed to encode response: %v", err)
	}
}
