// Package opensky provides a client for the OpenSky Network REST API.
//
// Only the anonymous global state snapshot (/states/all) is used. Each state
// vector in the response is a positional JSON array; see
// https://openskynetwork.github.io/opensky-api/rest.html#response
package opensky

import "context"

// State vector field indices within each row of the "states" array.
const (
	idxICAO24        = 0
	idxCallsign      = 1
	idxOriginCountry = 2
	idxLongitude     = 5
	idxLatitude      = 6
	idxBaroAltitude  = 7
	idxVelocity      = 9
	idxTrueTrack     = 10
)

// TelemetryRecord is one aircraft state from a single poll.
// Missing numeric fields are 0 and missing strings are empty.
type TelemetryRecord struct {
	// ICAO24 is the unique 24-bit transponder address in hex (e.g., "a1b2c3")
	ICAO24 string `json:"icao24"`

	// Callsign as reported, untrimmed (OpenSky pads to 8 characters)
	Callsign string `json:"callsign"`

	// OriginCountry is the country inferred from the ICAO24 address
	OriginCountry string `json:"origin_country"`

	// Longitude in decimal degrees
	Longitude float64 `json:"longitude"`

	// Latitude in decimal degrees
	Latitude float64 `json:"latitude"`

	// BaroAltitude is barometric altitude in meters
	BaroAltitude float64 `json:"baro_altitude"`

	// Velocity is ground speed in meters per second
	Velocity float64 `json:"velocity"`

	// TrueTrack is the track angle in degrees clockwise from north
	TrueTrack float64 `json:"true_track"`
}

// DataSource is anything that can produce a full state snapshot.
// The poller depends on this rather than on *Client so tests can fake it.
type DataSource interface {
	// GetStates returns every aircraft state currently reported.
	GetStates(ctx context.Context) ([]TelemetryRecord, error)

	// Close cleanly shuts down the data source connection.
	Close() error
}

// statesResponse is the JSON body of /states/all.
type statesResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

// convertStates turns raw state rows into records. A nil slice of rows
// (absent or null "states") yields an empty, non-nil result.
func convertStates(rows [][]interface{}) []TelemetryRecord {
	records := make([]TelemetryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, convertState(row))
	}
	return records
}

func convertState(row []interface{}) TelemetryRecord {
	return TelemetryRecord{
		ICAO24:        stringAt(row, idxICAO24),
		Callsign:      stringAt(row, idxCallsign),
		OriginCountry: stringAt(row, idxOriginCountry),
		Longitude:     floatAt(row, idxLongitude),
		Latitude:      floatAt(row, idxLatitude),
		BaroAltitude:  floatAt(row, idxBaroAltitude),
		Velocity:      floatAt(row, idxVelocity),
		TrueTrack:     floatAt(row, idxTrueTrack),
	}
}

// stringAt returns row[i] as a string, or "" when absent, null, or not a string.
func stringAt(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}

// floatAt returns row[i] as a float64, or 0 when absent, null, or not a number.
func floatAt(row []interface{}, i int) float64 {
	if i >= len(row) {
		return 0
	}
	f, _ := row[i].(float64)
	return f
}
