package tracking

import (
	"strings"

	"github.com/unklstewy/routescope/pkg/opensky"
)

// MatchTracked returns the first id, in the order given, that appears as a
// substring of callsign.
//
// Matching is case-sensitive and the callsign is not trimmed. Because it is
// substring containment, an id can match an unrelated longer callsign
// ("XUAL24029" matches "UAL2402"); that looseness is the filtering policy.
func MatchTracked(callsign string, ids []string) (string, bool) {
	for _, id := range ids {
		if id != "" && strings.Contains(callsign, id) {
			return id, true
		}
	}
	return "", false
}

// FilterTracked keeps only records whose callsign matches one of ids.
// The input order is preserved.
func FilterTracked(records []opensky.TelemetryRecord, ids []string) []opensky.TelemetryRecord {
	out := make([]opensky.TelemetryRecord, 0)
	for _, rec := range records {
		if _, ok := MatchTracked(rec.Callsign, ids); ok {
			out = append(out, rec)
		}
	}
	return out
}
