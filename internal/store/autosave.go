package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/liveboard/liveboard/internal/document"
)

const (
	DefaultDebounce = 500 * time.Millisecond

	saveTimeout = 10 * time.Second
)

// Autosaver writes the latest snapshot in the background once changes stop
// arriving for the debounce interval. Bursts coalesce into one write.
type Autosaver struct {
	store    Store
	debounce time.Duration

	mu      sync.Mutex
	pending *document.Snapshot
	timer   *time.Timer
	closed  bool

	// saving serializes writes so they land in Notify order.
	saving sync.Mutex
}

func NewAutosaver(store Store, debounce time.Duration) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Autosaver{store: store, debounce: debounce}
}

// Notify schedules snap for saving, replacing any snapshot still pending.
// It never blocks on I/O.
func (a *Autosaver) Notify(snap *document.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = snap
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.flush)
		return
	}
	a.timer.Reset(a.debounce)
}

func (a *Autosaver) flush() {
	a.saving.Lock()
	defer a.saving.Unlock()

	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	a.mu.Unlock()
	if snap == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := a.store.Save(ctx, snap); err != nil {
		slog.Error("autosave failed", "error", err)
		return
	}
	slog.Debug("autosaved", "shapes", len(snap.Shapes))
}

// Close stops accepting snapshots and writes the pending one, if any.
func (a *Autosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.flush()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
