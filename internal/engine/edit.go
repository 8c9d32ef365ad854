package engine

import (
	"time"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/history"
)

// EditToken identifies one edit focus session. Zero is never a valid token.
type EditToken uint64

type editKind int

const (
	editText editKind = iota + 1
	editSticky
)

// editSession is the exclusive text focus. Only one text annotation or
// sticky field is edited at a time.
type editSession struct {
	token    EditToken
	kind     editKind
	id       string
	field    document.StickyField
	original string
	began    time.Time
	// fresh is set for a text annotation created by this session. Its
	// AddText is recorded on commit; committed empty it is dropped unrecorded.
	fresh bool
}

func (e *Engine) startEdit(kind editKind, id string, field document.StickyField, original string, fresh bool) EditToken {
	e.lastToken++
	e.edit = &editSession{
		token:    e.lastToken,
		kind:     kind,
		id:       id,
		field:    field,
		original: original,
		began:    e.opts.Now(),
		fresh:    fresh,
	}
	return e.lastToken
}

// EditFocus returns the current edit session's target, if any.
func (e *Engine) EditFocus() (id string, field document.StickyField, token EditToken, ok bool) {
	if e.edit == nil {
		return "", document.StickyFieldNone, 0, false
	}
	return e.edit.id, e.edit.field, e.edit.token, true
}

// BeginTextEdit focuses a text annotation. Any other edit is committed
// first. Re-focusing the annotation already being edited returns the
// current token.
func (e *Engine) BeginTextEdit(id string) (EditToken, bool) {
	if e.edit != nil && e.edit.kind == editText && e.edit.id == id {
		return e.edit.token, true
	}
	if _, ok := e.scene.Text(id); !ok {
		return 0, false
	}
	e.CommitEdit()
	t, ok := e.scene.Text(id)
	if !ok {
		return 0, false
	}
	token := e.startEdit(editText, id, document.StickyFieldNone, t.Text, false)
	e.scene.SetTextEditing(id, true)
	e.notify(Change{Scene: true})
	return token, true
}

// SetEditText live-updates the focused text annotation.
func (e *Engine) SetEditText(text string) {
	if e.edit == nil || e.edit.kind != editText {
		return
	}
	e.scene.UpdateText(e.edit.id, text)
	e.notify(Change{Scene: true})
}

// BeginStickyEdit focuses the title or body of a note. Locked notes cannot
// be edited.
func (e *Engine) BeginStickyEdit(id string, field document.StickyField) (EditToken, bool) {
	if field != document.StickyFieldTitle && field != document.StickyFieldBody {
		return 0, false
	}
	if e.edit != nil && e.edit.kind == editSticky && e.edit.id == id && e.edit.field == field {
		return e.edit.token, true
	}
	if n, ok := e.scene.Sticky(id); !ok || n.Locked {
		return 0, false
	}
	e.CommitEdit()
	n, ok := e.scene.Sticky(id)
	if !ok {
		return 0, false
	}
	token := e.startEdit(editSticky, id, field, stickyFieldValue(n, field), false)
	e.scene.UpdateSticky(id, document.StickyPatch{Editing: &field})
	e.notify(Change{Scene: true})
	return token, true
}

// SetEditSticky live-updates the focused sticky field.
func (e *Engine) SetEditSticky(text string) {
	if e.edit == nil || e.edit.kind != editSticky {
		return
	}
	patch := document.StickyPatch{Content: &text}
	if e.edit.field == document.StickyFieldTitle {
		patch = document.StickyPatch{Title: &text}
	}
	e.scene.UpdateSticky(e.edit.id, patch)
	e.notify(Change{Scene: true})
}

// CommitEdit ends the edit session. A changed value records one history
// entry; an unchanged value records nothing.
func (e *Engine) CommitEdit() {
	s := e.edit
	if s == nil {
		return
	}
	e.edit = nil

	switch s.kind {
	case editText:
		t, ok := e.scene.Text(s.id)
		if !ok {
			return
		}
		e.scene.SetTextEditing(s.id, false)
		t.IsEditing = false
		switch {
		case s.fresh && t.Text == "":
			e.scene.RemoveText(s.id)
		case s.fresh:
			e.log.Push(history.AddText(t))
		case t.Text != s.original:
			e.log.Push(history.EditText(s.id, s.original, t.Text))
		}

	case editSticky:
		n, ok := e.scene.Sticky(s.id)
		if !ok {
			return
		}
		none := document.StickyFieldNone
		e.scene.UpdateSticky(s.id, document.StickyPatch{Editing: &none})
		after, _ := e.scene.Sticky(s.id)
		if value := stickyFieldValue(n, s.field); value != s.original {
			before := after
			setStickyField(&before, s.field, s.original)
			e.log.Push(history.EditSticky(before, after))
		}
	}
	e.notify(Change{Scene: true})
}

// CancelEdit ends the edit session and restores the value it started with.
func (e *Engine) CancelEdit() {
	s := e.edit
	if s == nil {
		return
	}
	e.edit = nil

	switch s.kind {
	case editText:
		e.scene.UpdateText(s.id, s.original)
		e.scene.SetTextEditing(s.id, false)
		if s.fresh {
			e.scene.RemoveText(s.id)
		}
	case editSticky:
		none := document.StickyFieldNone
		patch := document.StickyPatch{Editing: &none, Content: &s.original}
		if s.field == document.StickyFieldTitle {
			patch = document.StickyPatch{Editing: &none, Title: &s.original}
		}
		e.scene.UpdateSticky(s.id, patch)
	}
	e.notify(Change{Scene: true})
}

// Blur commits the session identified by token. Stale tokens and blurs that
// arrive within the grace window after the session began are ignored. It
// reports whether the blur was honored.
func (e *Engine) Blur(token EditToken) bool {
	if e.edit == nil || e.edit.token != token {
		return false
	}
	if e.opts.Now().Sub(e.edit.began) < e.opts.BlurGrace {
		return false
	}
	e.CommitEdit()
	return true
}

// commitEditOn commits the session if it targets id.
func (e *Engine) commitEditOn(id string) {
	if e.edit != nil && e.edit.id == id {
		e.CommitEdit()
	}
}

func stickyFieldValue(n document.StickyNote, field document.StickyField) string {
	if field == document.StickyFieldTitle {
		return n.Title
	}
	return n.Content
}

func setStickyField(n *document.StickyNote, field document.StickyField, value string) {
	if field == document.StickyFieldTitle {
		n.Title = value
		return
	}
	n.Content = value
}
