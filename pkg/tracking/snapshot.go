package tracking

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unklstewy/routescope/pkg/opensky"
)

// Snapshot is the telemetry retained from the most recent successful poll.
type Snapshot struct {
	// Records are the tracked-flight records, already filtered
	Records []opensky.TelemetryRecord

	// FetchedAt is when the snapshot was stored (zero before the first poll)
	FetchedAt time.Time

	// Seq increments on every replacement
	Seq uint64
}

// Store holds the current snapshot and the busy flag. The snapshot is
// replaced wholesale; readers always see a complete set.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	inflight atomic.Int32

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{Records: []opensky.TelemetryRecord{}},
		subs: make(map[int]chan struct{}),
	}
}

// Snapshot returns the current snapshot. Callers must not modify Records.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace installs a new record set. The last call wins.
func (s *Store) Replace(records []opensky.TelemetryRecord, at time.Time) Snapshot {
	if records == nil {
		records = []opensky.TelemetryRecord{}
	}

	s.mu.Lock()
	s.snap = Snapshot{
		Records:   records,
		FetchedAt: at,
		Seq:       s.snap.Seq + 1,
	}
	snap := s.snap
	s.mu.Unlock()

	s.notify()
	return snap
}

// Loading reports whether any fetch is outstanding.
func (s *Store) Loading() bool {
	return s.inflight.Load() > 0
}

func (s *Store) beginFetch() {
	if s.inflight.Add(1) == 1 {
		s.notify()
	}
}

func (s *Store) endFetch() {
	if s.inflight.Add(-1) == 0 {
		s.notify()
	}
}

// Subscribe returns a channel that receives a signal whenever the snapshot
// or the busy flag changes. Signals coalesce: a slow reader sees one pending
// signal, never a backlog. Call cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
