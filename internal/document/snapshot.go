package document

import (
	"math"
	"time"

	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/viewport"
)

// SnapshotVersion is the current serialized scene format version.
const SnapshotVersion = 1

// Snapshot is the JSON-compatible unit of persistence.
type Snapshot struct {
	Version         int              `json:"version"`
	SavedAt         string           `json:"savedAt,omitempty"`
	Shapes          []Shape          `json:"shapes"`
	TextAnnotations []TextAnnotation `json:"textAnnotations"`
	StickyNotes     []StickyNote     `json:"stickyNotes"`
	Viewport        SnapshotViewport `json:"viewport"`
}

type SnapshotViewport struct {
	Scale  float64    `json:"scale"`
	Offset geom.Point `json:"offset"`
}

// Snapshot serializes the scene. Edit-mode flags are transient and are
// never written out.
func (s *Scene) Snapshot() *Snapshot {
	c := s.Clone()
	for i := range c.Texts {
		c.Texts[i].IsEditing = false
	}
	for i := range c.Stickies {
		c.Stickies[i].Editing = StickyFieldNone
	}
	return &Snapshot{
		Version:         SnapshotVersion,
		SavedAt:         time.Now().UTC().Format(time.RFC3339),
		Shapes:          c.Shapes,
		TextAnnotations: c.Texts,
		StickyNotes:     c.Stickies,
		Viewport: SnapshotViewport{
			Scale:  s.Viewport.Scale,
			Offset: s.Viewport.Offset(),
		},
	}
}

// FromSnapshot rebuilds a scene. A nil snapshot yields an empty scene and an
// unusable scale falls back to 1.
func FromSnapshot(snap *Snapshot) *Scene {
	scene := NewScene()
	if snap == nil {
		return scene
	}
	for _, shape := range snap.Shapes {
		scene.AddShape(shape.Clone())
	}
	for _, t := range snap.TextAnnotations {
		t.IsEditing = false
		scene.AddText(t)
	}
	for _, n := range snap.StickyNotes {
		n.Editing = StickyFieldNone
		scene.AddSticky(n)
	}

	scale := snap.Viewport.Scale
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	scene.Viewport = viewport.Viewport{
		Scale:   scale,
		OffsetX: snap.Viewport.Offset.X,
		OffsetY: snap.Viewport.Offset.Y,
	}
	return scene
}
