package engine

import (
	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/geom"
	"github.com/liveboard/liveboard/internal/history"
	"github.com/liveboard/liveboard/internal/viewport"
)

// ResizeHandleSize is the side of the square resize grip at a note's
// bottom-right corner, in screen pixels.
const ResizeHandleSize = 16.0

// LockSticky pins a note in place. Locking is a view preference and is not
// recorded in history.
func (e *Engine) LockSticky(id string, locked bool) {
	n, ok := e.scene.Sticky(id)
	if !ok || n.Locked == locked {
		return
	}
	if locked {
		e.commitEditOn(id)
	}
	e.scene.UpdateSticky(id, document.StickyPatch{Locked: &locked})
	e.notify(Change{Scene: true})
}

// DeleteSticky removes a note as an undoable action.
func (e *Engine) DeleteSticky(id string) {
	e.commitEditOn(id)
	n, ok := e.scene.RemoveSticky(id)
	if !ok {
		return
	}
	e.log.Push(history.RemoveSticky(n))
	e.notify(Change{Scene: true})
}

// SetStickyColor recolors a note as an undoable edit. A pending edit on the
// note is committed first so the two stay separate history entries.
func (e *Engine) SetStickyColor(id, color string) {
	e.commitEditOn(id)
	before, ok := e.scene.Sticky(id)
	if !ok || before.Color == color {
		return
	}
	e.scene.UpdateSticky(id, document.StickyPatch{Color: &color})
	after, _ := e.scene.Sticky(id)
	e.log.Push(history.EditSticky(before, after))
	e.notify(Change{Scene: true})
}

// DeleteText removes a text annotation as an undoable action.
func (e *Engine) DeleteText(id string) {
	e.commitEditOn(id)
	t, ok := e.scene.RemoveText(id)
	if !ok {
		return
	}
	e.log.Push(history.RemoveText(t))
	e.notify(Change{Scene: true})
}

// --- Hit testing (world space, topmost first) ---

// HitSticky returns the topmost note containing p.
func HitSticky(scene *document.Scene, p geom.Point) (document.StickyNote, bool) {
	for i := len(scene.Stickies) - 1; i >= 0; i-- {
		if scene.Stickies[i].Bounds().Contains(p) {
			return scene.Stickies[i], true
		}
	}
	return document.StickyNote{}, false
}

// HitText returns the topmost text annotation whose estimated box contains p.
func HitText(scene *document.Scene, p geom.Point) (document.TextAnnotation, bool) {
	for i := len(scene.Texts) - 1; i >= 0; i-- {
		if scene.Texts[i].Bounds().Contains(p) {
			return scene.Texts[i], true
		}
	}
	return document.TextAnnotation{}, false
}

// HitStickyResizeHandle reports whether the screen point lies on the note's
// resize grip. The grip keeps its screen size at every zoom level.
func HitStickyResizeHandle(n document.StickyNote, vp viewport.Viewport, screen geom.Point) bool {
	corner := vp.WorldToScreen(geom.Pt(n.X+n.Width, n.Y+n.Height))
	return screen.X >= corner.X-ResizeHandleSize && screen.X <= corner.X &&
		screen.Y >= corner.Y-ResizeHandleSize && screen.Y <= corner.Y
}
