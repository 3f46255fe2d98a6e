package main

import (
	"strings"
	"testing"
	"time"

	"github.com/unklstewy/routescope/pkg/opensky"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

func liveEntries(t *testing.T) []tracking.TrackedEntry {
	t.Helper()
	klax, ok := reference.AirportFor(reference.KLAX)
	if !ok {
		t.Fatal("KLAX missing")
	}
	records := []opensky.TelemetryRecord{{
		ICAO24:       "a12345",
		Callsign:     "UAL2402 ",
		Latitude:     klax.Location.Latitude,
		Longitude:    klax.Location.Longitude,
		BaroAltitude: 10000,
		Velocity:     250,
	}}
	ids := reference.TrackedIDs()
	return tracking.Tracked(tracking.Map(records, ids), ids)
}

func entryFor(t *testing.T, entries []tracking.TrackedEntry, flight string) tracking.TrackedEntry {
	t.Helper()
	for _, e := range entries {
		if e.Flight == flight {
			return e
		}
	}
	t.Fatalf("Expected an entry for %s", flight)
	return tracking.TrackedEntry{}
}

// TestFormatTracked tests live markers, routes and the selection highlight.
func TestFormatTracked(t *testing.T) {
	entries := liveEntries(t)
	text := formatTracked(entries, 0)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != len(entries) {
		t.Fatalf("Expected %d lines, got %d", len(entries), len(lines))
	}

	for i, e := range entries {
		line := lines[i]
		if !strings.Contains(line, e.Flight) {
			t.Errorf("Expected line %d to name %s, got %q", i, e.Flight, line)
		}
		if len(e.Live) > 0 && !strings.Contains(line, "[green]●") {
			t.Errorf("Expected live marker for %s, got %q", e.Flight, line)
		}
		if len(e.Live) == 0 && !strings.Contains(line, "[gray]○") {
			t.Errorf("Expected idle marker for %s, got %q", e.Flight, line)
		}
	}

	if !strings.Contains(lines[0], "[black:yellow]") {
		t.Errorf("Expected first line highlighted, got %q", lines[0])
	}
	if !strings.Contains(text, "KLAX→KBOS") {
		t.Errorf("Expected UAL2402 route in panel, got:\n%s", text)
	}
}

// TestFormatDetail tests the popup fields for each selection state.
func TestFormatDetail(t *testing.T) {
	entries := liveEntries(t)

	tests := []struct {
		name  string
		entry tracking.TrackedEntry
		want  []string
	}{
		{
			name:  "No selection",
			entry: tracking.TrackedEntry{},
			want:  []string{"No flight selected"},
		},
		{
			name:  "Not seen",
			entry: tracking.TrackedEntry{Flight: "DAL1153"},
			want:  []string{"DAL1153", "Not seen in the latest poll"},
		},
		{
			name:  "Live",
			entry: entryFor(t, entries, "UAL2402"),
			want: []string{
				"UAL2402", "a12345",
				"Los Angeles International", "Boston Logan International",
				"32808 ft", "486 kt", "63°", "↗",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDetail(tt.entry)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Expected %q in detail, got:\n%s", want, got)
				}
			}
		})
	}
}

// TestFormatStatus tests the loading indicator and update time.
func TestFormatStatus(t *testing.T) {
	tests := []struct {
		name       string
		loading    bool
		lastUpdate time.Time
		live       int
		want       []string
	}{
		{"Before first poll", false, time.Time{}, 0, []string{"idle", "0 live", "waiting for first poll"}},
		{"Loading", true, time.Time{}, 0, []string{"Loading…"}},
		{"Updated", false, time.Now(), 2, []string{"idle", "2 live", "updated "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatStatus(tt.loading, tt.lastUpdate, tt.live)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Expected %q in status, got %q", want, got)
				}
			}
		})
	}
}
