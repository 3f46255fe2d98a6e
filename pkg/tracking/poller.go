// Package tracking turns raw telemetry into tracked-flight views.
//
// The Poller fetches the global snapshot on a fixed interval and keeps only
// records whose callsign matches a tracked identifier. Map projects those
// records onto their routes for display.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unklstewy/routescope/pkg/opensky"
)

// DefaultPollInterval is the time between polls.
const DefaultPollInterval = 10 * time.Second

// ErrPollerStopped is returned by PollOnce once Wait has been called.
var ErrPollerStopped = errors.New("poller stopped")

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Interval between polls (default: 10 seconds)
	Interval time.Duration

	// TrackedIDs are the flight designators to keep, in match-priority order
	TrackedIDs []string

	// Logger receives poll results and failures (default: log.Default())
	Logger *log.Logger
}

// Poller periodically fetches telemetry into a Store.
//
// Each poll runs in its own goroutine, so a slow fetch can overlap the next
// tick. Overlapping polls are processed independently and whichever
// completes last determines the stored snapshot.
type Poller struct {
	source   opensky.DataSource
	store    *Store
	interval time.Duration
	ids      []string
	logger   *log.Logger

	// mu orders spawn and commit against Wait
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewPoller creates a poller writing into store.
func NewPoller(source opensky.DataSource, store *Store, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	ids := make([]string, len(cfg.TrackedIDs))
	copy(ids, cfg.TrackedIDs)

	return &Poller{
		source:   source,
		store:    store,
		interval: cfg.Interval,
		ids:      ids,
		logger:   cfg.Logger,
	}
}

// Run polls immediately and then on every tick until ctx is cancelled.
// It returns without waiting for in-flight polls; use Wait for that.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.spawn(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			p.spawn(ctx)
		}
	}
}

// Wait stops the poller and blocks until every poll it started has
// finished. No poll starts or touches the store once Wait has been called,
// even if Run has not returned yet.
func (p *Poller) Wait() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Poller) spawn(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || ctx.Err() != nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				p.logger.Printf("PANIC in poll: %v (will retry next cycle)", r)
			}
		}()

		_ = p.PollOnce(ctx)
	}()
}

// PollOnce performs a single fetch and, on success, replaces the snapshot.
//
// The fetch itself ignores cancellation of ctx and runs to completion (it is
// still bounded by the client's timeout). If ctx was cancelled by the time it
// completes, or Wait has been called, the result is discarded and the store
// is not touched.
//
// On failure the previous snapshot is kept; there is no retry.
func (p *Poller) PollOnce(ctx context.Context) error {
	p.store.beginFetch()
	defer p.store.endFetch()

	records, err := p.source.GetStates(context.WithoutCancel(ctx))

	if ctx.Err() != nil {
		return fmt.Errorf("poll discarded after shutdown: %w", ctx.Err())
	}

	if err != nil {
		if rle, ok := opensky.IsRateLimitError(err); ok && rle.Headers.Remaining >= 0 {
			p.logger.Printf("Rate limit hit: %d/%d requests remaining, reset at %v",
				rle.Headers.Remaining, rle.Headers.Limit, rle.Headers.Reset)
		}
		p.logger.Printf("✗ Poll failed: %v (keeping previous snapshot, retry next cycle)", err)
		return err
	}

	matched := FilterTracked(records, p.ids)
	snap, err := p.commit(ctx, matched)
	if err != nil {
		return err
	}

	p.logger.Printf("[%s] Poll #%d: %d states, %d tracked",
		snap.FetchedAt.Format("15:04:05"), snap.Seq, len(records), len(matched))
	return nil
}

// commit replaces the snapshot unless the poller has been torn down. The
// check and the write happen under p.mu so Wait cannot interleave them.
func (p *Poller) commit(ctx context.Context, records []opensky.TelemetryRecord) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return Snapshot{}, fmt.Errorf("poll discarded after shutdown: %w", ErrPollerStopped)
	}
	if ctx.Err() != nil {
		return Snapshot{}, fmt.Errorf("poll discarded after shutdown: %w", ctx.Err())
	}
	return p.store.Replace(records, time.Now().UTC()), nil
}
