package bridge

import (
	"encoding/json"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/engine"
)

type Message struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypePointerDown  = "input.pointer.down"
	TypePointerMove  = "input.pointer.move"
	TypePointerUp    = "input.pointer.up"
	TypePointerLeave = "input.pointer.leave"
	TypeTouchStart   = "input.touch.start"
	TypeTouchMove    = "input.touch.move"
	TypeTouchEnd     = "input.touch.end"
	TypeWheel        = "input.wheel"
	TypeSettings     = "settings"

	TypeEditBegin  = "edit.begin"
	TypeEditSet    = "edit.set"
	TypeEditCommit = "edit.commit"
	TypeEditCancel = "edit.cancel"
	TypeEditBlur   = "edit.blur"

	TypeStickyLock   = "sticky.lock"
	TypeStickyColor  = "sticky.color"
	TypeStickyDelete = "sticky.delete"
	TypeTextDelete   = "text.delete"

	TypeUndo      = "history.undo"
	TypeRedo      = "history.redo"
	TypeClear     = "scene.clear"
	TypeSample    = "scene.sample"
	TypeResetView = "view.reset"

	// Server -> client
	TypeWelcome = "welcome"
	TypeRender  = "render"
	TypeState   = "state"
	TypeError   = "error"
)

type PointerPayload = engine.PointerEvent

type TouchPayload struct {
	Touches []engine.Touch `json:"touches"`
}

type WheelPayload = engine.WheelEvent

type SettingsPayload = engine.Settings

// EditBeginPayload focuses a text annotation, or a sticky note field when
// Field is set.
type EditBeginPayload struct {
	ID    string               `json:"id"`
	Field document.StickyField `json:"field,omitempty"`
}

type EditSetPayload struct {
	Text string `json:"text"`
}

type EditBlurPayload struct {
	Token engine.EditToken `json:"token"`
}

type TargetPayload struct {
	ID string `json:"id"`
}

type StickyLockPayload struct {
	ID     string `json:"id"`
	Locked bool   `json:"locked"`
}

type StickyColorPayload struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

type WelcomePayload struct {
	ClientID string          `json:"clientId"`
	Settings engine.Settings `json:"settings"`
	Palette  []string        `json:"palette,omitempty"`
	Theme    string          `json:"theme"`
}

type RenderPayload struct {
	Background string               `json:"background"`
	Commands   []engine.DrawCommand `json:"commands"`
}

// EditFocus tells the host which widget to focus. Token must be echoed back
// in edit.blur.
type EditFocus struct {
	ID    string               `json:"id"`
	Field document.StickyField `json:"field,omitempty"`
	Token engine.EditToken     `json:"token"`
}

type StatePayload struct {
	engine.Status
	Settings engine.Settings `json:"settings"`
	Focus    *EditFocus      `json:"focus,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
