// Package store persists scene snapshots. Persistence sits outside the
// engine: load failures degrade to an empty scene and save failures are
// logged, never surfaced to the user.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/liveboard/liveboard/internal/document"
)

// Store loads and saves the single board.
type Store interface {
	// Load returns the last saved snapshot, or nil with no error when
	// nothing has been saved yet.
	Load(ctx context.Context) (*document.Snapshot, error)
	Save(ctx context.Context, snap *document.Snapshot) error
}

const (
	KindFile     = "file"
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// Open builds the store for kind. The returned close function releases any
// connection pool and is never nil.
func Open(ctx context.Context, kind, path, databaseURL string) (Store, func(), error) {
	switch kind {
	case "", KindFile:
		s, err := NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case KindPostgres:
		s, err := NewPostgresStore(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case KindMemory:
		return NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q", kind)
}

// LoadScene loads the saved scene. Any error or a missing snapshot yields an
// empty scene; the error is only logged.
func LoadScene(ctx context.Context, s Store) *document.Scene {
	snap, err := s.Load(ctx)
	if err != nil {
		slog.Warn("load scene failed, starting empty", "error", err)
		return document.NewScene()
	}
	if snap == nil {
		slog.Info("no saved scene, starting empty")
		return document.NewScene()
	}
	scene := document.FromSnapshot(snap)
	slog.Info("scene loaded",
		"shapes", len(scene.Shapes),
		"texts", len(scene.Texts),
		"stickies", len(scene.Stickies),
	)
	return scene
}

// MemoryStore keeps the last snapshot in memory.
type MemoryStore struct {
	mu    sync.Mutex
	snap  *document.Snapshot
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*document.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *MemoryStore) Save(ctx context.Context, snap *document.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
