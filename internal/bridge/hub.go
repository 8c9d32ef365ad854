// Package bridge connects websocket hosts to a single engine. One hub
// goroutine owns the engine; clients only exchange messages with it.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/engine"
	"github.com/liveboard/liveboard/internal/theme"
)

var ErrStopped = errors.New("hub stopped")

// Saver receives a snapshot after every persistable change.
type Saver interface {
	Notify(snap *document.Snapshot)
}

type Options struct {
	Theme    theme.Theme
	Settings engine.Settings
	Palette  []string
	Saver    Saver
}

type inbound struct {
	client *Client
	msg    *Message
}

type Hub struct {
	engine   *engine.Engine
	theme    theme.Theme
	settings engine.Settings
	palette  []string
	saver    Saver

	clients    map[string]*Client // clientID -> client
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	calls      chan func()
	done       chan struct{}

	// Accumulated by the engine change callback, drained by flush.
	changed   engine.Change
	lastState *StatePayload
}

func NewHub(e *engine.Engine, opts Options) *Hub {
	if opts.Settings == (engine.Settings{}) {
		opts.Settings = engine.DefaultSettings()
	}
	h := &Hub{
		engine:     e,
		theme:      opts.Theme,
		settings:   opts.Settings,
		palette:    opts.Palette,
		saver:      opts.Saver,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		calls:      make(chan func()),
		done:       make(chan struct{}),
	}
	e.OnChange(h.collect)
	return h
}

// Run serves the hub until ctx is cancelled. Client send channels are
// closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for id, c := range h.clients {
			close(c.send)
			delete(h.clients, id)
		}
		close(h.done)
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case in := <-h.inbound:
			h.handleMessage(in.client, in.msg)
		case fn := <-h.calls:
			fn()
			h.flush()
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) submit(ctx context.Context, c *Client, msg *Message) error {
	select {
	case h.inbound <- inbound{client: c, msg: msg}:
		return nil
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// do runs fn on the hub goroutine and waits for it.
func (h *Hub) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	call := func() {
		fn()
		close(finished)
	}
	select {
	case h.calls <- call:
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-h.done:
		return ErrStopped
	}
}

// --- Queries for HTTP handlers ---

// Scene returns a private copy of the board.
func (h *Hub) Scene(ctx context.Context) (*document.Scene, error) {
	var scene *document.Scene
	err := h.do(ctx, func() { scene = h.engine.Scene().Clone() })
	return scene, err
}

func (h *Hub) Snapshot(ctx context.Context) (*document.Snapshot, error) {
	var snap *document.Snapshot
	err := h.do(ctx, func() { snap = h.engine.Snapshot() })
	return snap, err
}

func (h *Hub) Render(ctx context.Context) (*RenderPayload, error) {
	var out *RenderPayload
	err := h.do(ctx, func() { out = h.renderPayload() })
	return out, err
}

// Load replaces the board, for example with a snapshot uploaded by a host.
func (h *Hub) Load(ctx context.Context, snap *document.Snapshot) error {
	return h.do(ctx, func() { h.engine.LoadSnapshot(snap) })
}

// --- Hub goroutine ---

func (h *Hub) collect(c engine.Change) {
	h.changed.Scene = h.changed.Scene || c.Scene
	h.changed.Viewport = h.changed.Viewport || c.Viewport
	h.changed.Overlay = h.changed.Overlay || c.Overlay
}

func (h *Hub) addClient(client *Client) {
	h.clients[client.ClientID] = client

	welcome, err := newMessage(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		Settings: h.settings,
		Palette:  h.palette,
		Theme:    string(h.theme),
	})
	if err == nil {
		client.Send(welcome)
	}
	if msg, err := newMessage(TypeRender, h.renderPayload()); err == nil {
		client.Send(msg)
	}
	state := h.statePayload()
	h.lastState = state
	if msg, err := newMessage(TypeState, state); err == nil {
		client.Send(msg)
	}

	slog.Info("client joined", "client", client.ClientID, "session", client.SessionID, "clients", len(h.clients))
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client.ClientID]; !ok {
		return
	}
	delete(h.clients, client.ClientID)
	close(client.send)

	slog.Info("client left", "client", client.ClientID, "clients", len(h.clients))
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	if err := h.apply(msg); err != nil {
		slog.Warn("rejected message", "type", msg.Type, "error", err, "client", sender.ClientID)
		if out, mErr := newMessage(TypeError, ErrorPayload{Message: err.Error()}); mErr == nil {
			sender.Send(out)
		}
	}
	h.flush()
}

// apply routes one message to the engine.
func (h *Hub) apply(msg *Message) error {
	e := h.engine
	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp, TypePointerLeave:
		var ev PointerPayload
		if err := decode(msg, &ev); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(ev, h.settings)
		case TypePointerMove:
			e.PointerMove(ev, h.settings)
		case TypePointerUp:
			e.PointerUp(ev, h.settings)
		default:
			e.PointerLeave(ev, h.settings)
		}

	case TypeTouchStart, TypeTouchMove, TypeTouchEnd:
		var p TouchPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypeTouchStart:
			e.TouchStart(p.Touches)
		case TypeTouchMove:
			e.TouchMove(p.Touches)
		default:
			e.TouchEnd(p.Touches)
		}

	case TypeWheel:
		var ev WheelPayload
		if err := decode(msg, &ev); err != nil {
			return err
		}
		e.Wheel(ev)

	case TypeSettings:
		s := h.settings
		if err := decode(msg, &s); err != nil {
			return err
		}
		h.settings = s

	case TypeEditBegin:
		var p EditBeginPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		var ok bool
		if p.Field == document.StickyFieldNone {
			_, ok = e.BeginTextEdit(p.ID)
		} else {
			_, ok = e.BeginStickyEdit(p.ID, p.Field)
		}
		if !ok {
			return fmt.Errorf("cannot edit %q", p.ID)
		}

	case TypeEditSet:
		var p EditSetPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, field, _, ok := e.EditFocus()
		switch {
		case !ok:
			return errors.New("no edit in progress")
		case field == document.StickyFieldNone:
			e.SetEditText(p.Text)
		default:
			e.SetEditSticky(p.Text)
		}

	case TypeEditCommit:
		e.CommitEdit()
	case TypeEditCancel:
		e.CancelEdit()
	case TypeEditBlur:
		var p EditBlurPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.Blur(p.Token)

	case TypeStickyLock:
		var p StickyLockPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.LockSticky(p.ID, p.Locked)
	case TypeStickyColor:
		var p StickyColorPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.SetStickyColor(p.ID, p.Color)
	case TypeStickyDelete, TypeTextDelete:
		var p TargetPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if msg.Type == TypeStickyDelete {
			e.DeleteSticky(p.ID)
		} else {
			e.DeleteText(p.ID)
		}

	case TypeUndo:
		e.Undo()
	case TypeRedo:
		e.Redo()
	case TypeClear:
		e.ClearAll()
	case TypeSample:
		e.LoadSample()
	case TypeResetView:
		e.ResetView()

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}

// flush pushes a render frame after any change, a state frame when the
// status moved, and hands persistable changes to the saver.
func (h *Hub) flush() {
	changed := h.changed
	h.changed = engine.Change{}

	if changed.Scene || changed.Viewport || changed.Overlay {
		if msg, err := newMessage(TypeRender, h.renderPayload()); err == nil {
			h.broadcast(msg)
		}
	}
	if changed.Persist() && h.saver != nil {
		h.saver.Notify(h.engine.Snapshot())
	}

	state := h.statePayload()
	if h.lastState != nil && sameState(h.lastState, state) {
		return
	}
	h.lastState = state
	if msg, err := newMessage(TypeState, state); err == nil {
		h.broadcast(msg)
	}
}

func (h *Hub) renderPayload() *RenderPayload {
	return &RenderPayload{
		Background: h.theme.Background(),
		Commands:   h.engine.Render(h.theme),
	}
}

func (h *Hub) statePayload() *StatePayload {
	s := &StatePayload{
		Status:   h.engine.Status(),
		Settings: h.settings,
	}
	if id, field, token, ok := h.engine.EditFocus(); ok {
		s.Focus = &EditFocus{ID: id, Field: field, Token: token}
	}
	return s
}

func sameState(a, b *StatePayload) bool {
	if a.Status != b.Status || a.Settings != b.Settings {
		return false
	}
	if a.Focus == nil || b.Focus == nil {
		return a.Focus == b.Focus
	}
	return *a.Focus == *b.Focus
}

func (h *Hub) broadcast(msg *Message) {
	for _, c := range h.clients {
		c.Send(msg)
	}
}
