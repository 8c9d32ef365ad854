package document

import (
	"errors"
	"slices"

	"github.com/liveboard/liveboard/internal/viewport"
)

// ErrNoStroke is returned by AppendPointToLastStroke when there is no stroke
// to extend. It always indicates a caller bug.
var ErrNoStroke = errors.New("no stroke to append to")

// NewScene returns an empty scene with the identity viewport.
func NewScene() *Scene {
	return &Scene{
		Shapes:   []Shape{},
		Texts:    []TextAnnotation{},
		Stickies: []StickyNote{},
		Viewport: viewport.New(),
	}
}

// Ref returns a pointer to v. Handy for building a StickyPatch.
func Ref[T any](v T) *T {
	return &v
}

// --- Shapes ---

// AddStroke appends a new stroke. It is equivalent to AddShape for a shape
// of type ShapeStroke.
func (s *Scene) AddStroke(stroke Shape) {
	stroke.Type = ShapeStroke
	s.AddShape(stroke)
}

// AppendPointToLastStroke extends the most recently added shape, which must
// be a stroke.
func (s *Scene) AppendPointToLastStroke(x, y float64) error {
	if len(s.Shapes) == 0 {
		return ErrNoStroke
	}
	last := &s.Shapes[len(s.Shapes)-1]
	if !last.IsStroke() {
		return ErrNoStroke
	}
	last.Points = append(last.Points, x, y)
	return nil
}

// AppendPoint extends the stroke with the given id.
func (s *Scene) AppendPoint(id string, x, y float64) error {
	for i := range s.Shapes {
		if s.Shapes[i].ID != id {
			continue
		}
		if !s.Shapes[i].IsStroke() {
			return ErrNoStroke
		}
		s.Shapes[i].Points = append(s.Shapes[i].Points, x, y)
		return nil
	}
	return ErrNoStroke
}

// AddShape appends a shape at the top of the z-order.
func (s *Scene) AddShape(shape Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// RemoveShapes removes every shape matching pred and returns the removed
// shapes in their original order.
func (s *Scene) RemoveShapes(pred func(Shape) bool) []Shape {
	var removed []Shape
	kept := s.Shapes[:0]
	for _, shape := range s.Shapes {
		if pred(shape) {
			removed = append(removed, shape)
			continue
		}
		kept = append(kept, shape)
	}
	clear(s.Shapes[len(kept):])
	s.Shapes = kept
	return removed
}

// RemoveShape removes the shape with the given id. It reports whether a
// shape was removed.
func (s *Scene) RemoveShape(id string) (Shape, bool) {
	i := slices.IndexFunc(s.Shapes, func(sh Shape) bool { return sh.ID == id })
	if i < 0 {
		return Shape{}, false
	}
	shape := s.Shapes[i]
	s.Shapes = slices.Delete(s.Shapes, i, i+1)
	return shape, true
}

// Shape returns the shape with the given id.
func (s *Scene) Shape(id string) (Shape, bool) {
	i := slices.IndexFunc(s.Shapes, func(sh Shape) bool { return sh.ID == id })
	if i < 0 {
		return Shape{}, false
	}
	return s.Shapes[i], true
}

// --- Text annotations ---

func (s *Scene) AddText(t TextAnnotation) {
	s.Texts = append(s.Texts, t)
}

func (s *Scene) textIndex(id string) int {
	return slices.IndexFunc(s.Texts, func(t TextAnnotation) bool { return t.ID == id })
}

// Text returns the annotation with the given id.
func (s *Scene) Text(id string) (TextAnnotation, bool) {
	i := s.textIndex(id)
	if i < 0 {
		return TextAnnotation{}, false
	}
	return s.Texts[i], true
}

// UpdateText replaces the text of an annotation.
func (s *Scene) UpdateText(id, text string) {
	if i := s.textIndex(id); i >= 0 {
		s.Texts[i].Text = text
	}
}

// SetTextEditing toggles the editing flag of an annotation.
func (s *Scene) SetTextEditing(id string, editing bool) {
	if i := s.textIndex(id); i >= 0 {
		s.Texts[i].IsEditing = editing
	}
}

// RemoveText removes an annotation and returns it.
func (s *Scene) RemoveText(id string) (TextAnnotation, bool) {
	i := s.textIndex(id)
	if i < 0 {
		return TextAnnotation{}, false
	}
	t := s.Texts[i]
	s.Texts = slices.Delete(s.Texts, i, i+1)
	return t, true
}

// --- Sticky notes ---

// AddSticky appends a note, enforcing the minimum size.
func (s *Scene) AddSticky(n StickyNote) {
	n.clampSize()
	s.Stickies = append(s.Stickies, n)
}

func (s *Scene) stickyIndex(id string) int {
	return slices.IndexFunc(s.Stickies, func(n StickyNote) bool { return n.ID == id })
}

// Sticky returns the note with the given id.
func (s *Scene) Sticky(id string) (StickyNote, bool) {
	i := s.stickyIndex(id)
	if i < 0 {
		return StickyNote{}, false
	}
	return s.Stickies[i], true
}

// UpdateSticky applies a partial update to a note.
func (s *Scene) UpdateSticky(id string, patch StickyPatch) {
	if i := s.stickyIndex(id); i >= 0 {
		patch.apply(&s.Stickies[i])
	}
}

// ReplaceSticky overwrites a note wholesale, keeping its position in the list.
func (s *Scene) ReplaceSticky(n StickyNote) {
	if i := s.stickyIndex(n.ID); i >= 0 {
		n.clampSize()
		s.Stickies[i] = n
	}
}

// RemoveSticky removes a note and returns it.
func (s *Scene) RemoveSticky(id string) (StickyNote, bool) {
	i := s.stickyIndex(id)
	if i < 0 {
		return StickyNote{}, false
	}
	n := s.Stickies[i]
	s.Stickies = slices.Delete(s.Stickies, i, i+1)
	return n, true
}

// --- Whole scene ---

// Clear removes all content. The viewport is kept.
func (s *Scene) Clear() {
	s.Shapes = []Shape{}
	s.Texts = []TextAnnotation{}
	s.Stickies = []StickyNote{}
}

// IsEmpty reports whether the scene has no content.
func (s *Scene) IsEmpty() bool {
	return len(s.Shapes) == 0 && len(s.Texts) == 0 && len(s.Stickies) == 0
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		Shapes:   make([]Shape, len(s.Shapes)),
		Texts:    slices.Clone(s.Texts),
		Stickies: slices.Clone(s.Stickies),
		Viewport: s.Viewport,
	}
	for i, shape := range s.Shapes {
		c.Shapes[i] = shape.Clone()
	}
	if c.Texts == nil {
		c.Texts = []TextAnnotation{}
	}
	if c.Stickies == nil {
		c.Stickies = []StickyNote{}
	}
	return c
}
