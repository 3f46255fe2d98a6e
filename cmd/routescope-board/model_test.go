package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unklstewy/routescope/pkg/opensky"
	"github.com/unklstewy/routescope/pkg/reference"
	"github.com/unklstewy/routescope/pkg/tracking"
)

func testModel(t *testing.T) (model, *tracking.Store) {
	t.Helper()
	store := tracking.NewStore()
	updates, cancel := store.Subscribe()
	t.Cleanup(cancel)
	return newModel(store, reference.TrackedIDs(), updates), store
}

// TestBoardListsAllTracked verifies idle flights are shown before any poll.
func TestBoardListsAllTracked(t *testing.T) {
	m, _ := testModel(t)

	view := m.View()
	for _, id := range reference.TrackedIDs() {
		if !strings.Contains(view, id) {
			t.Errorf("Expected board to list %s", id)
		}
	}
	if !strings.Contains(view, "waiting for first poll") {
		t.Error("Expected waiting status before first poll")
	}
}

// TestBoardRefreshesOnStoreMsg verifies a store signal pulls the new snapshot.
func TestBoardRefreshesOnStoreMsg(t *testing.T) {
	m, store := testModel(t)

	klax, _ := reference.AirportFor(reference.KLAX)
	store.Replace([]opensky.TelemetryRecord{{
		ICAO24:       "a12345",
		Callsign:     "UAL2402",
		Latitude:     klax.Location.Latitude,
		Longitude:    klax.Location.Longitude,
		BaroAltitude: 10000,
		Velocity:     250,
	}}, time.Now())

	next, cmd := m.Update(storeMsg{})
	if cmd == nil {
		t.Error("Expected a follow-up wait command")
	}
	m = next.(model)

	if len(m.entries[0].Live) != 1 {
		t.Fatalf("Expected UAL2402 live after refresh, got %d views", len(m.entries[0].Live))
	}
	view := m.View()
	if !strings.Contains(view, "32808") || !strings.Contains(view, "486") {
		t.Errorf("Expected altitude and speed in board, got:\n%s", view)
	}
}

// TestBoardSelectionWraps tests cursor movement.
func TestBoardSelectionWraps(t *testing.T) {
	m, _ := testModel(t)
	n := len(m.entries)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)
	if m.selected != n-1 {
		t.Errorf("Expected wrap to %d, got %d", n-1, m.selected)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	if m.selected != 0 {
		t.Errorf("Expected wrap to 0, got %d", m.selected)
	}
}

// TestBoardQuit tests the quit keys.
func TestBoardQuit(t *testing.T) {
	m, _ := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}
