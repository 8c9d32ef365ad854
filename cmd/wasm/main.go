//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/engine"
	"github.com/liveboard/liveboard/internal/export"
	"github.com/liveboard/liveboard/internal/theme"
)

var (
	eng      *engine.Engine
	settings = engine.DefaultSettings()
	current  = theme.Light
	onChange js.Value
)

func main() {
	eng = engine.New(nil, engine.Options{})
	eng.OnChange(func(c engine.Change) {
		if onChange.Type() != js.TypeFunction {
			return
		}
		data, _ := json.Marshal(c)
		onChange.Invoke(string(data))
	})

	// Create the engine API object
	liveboardEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	liveboardEngine.Set("loadScene", js.FuncOf(loadScene))
	liveboardEngine.Set("loadSample", js.FuncOf(loadSample))
	liveboardEngine.Set("setSettings", js.FuncOf(setSettings))
	liveboardEngine.Set("setTheme", js.FuncOf(setTheme))
	liveboardEngine.Set("onChange", js.FuncOf(setOnChange))
	liveboardEngine.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	liveboardEngine.Set("pointerMove", js.FuncOf(pointer(eng.PointerMove)))
	liveboardEngine.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	liveboardEngine.Set("pointerLeave", js.FuncOf(pointer(eng.PointerLeave)))
	liveboardEngine.Set("touchStart", js.FuncOf(touches(eng.TouchStart)))
	liveboardEngine.Set("touchMove", js.FuncOf(touches(eng.TouchMove)))
	liveboardEngine.Set("touchEnd", js.FuncOf(touches(eng.TouchEnd)))
	liveboardEngine.Set("wheel", js.FuncOf(wheel))
	liveboardEngine.Set("beginEdit", js.FuncOf(beginEdit))
	liveboardEngine.Set("setEditText", js.FuncOf(setEditText))
	liveboardEngine.Set("commitEdit", js.FuncOf(func(this js.Value, args []js.Value) any { eng.CommitEdit(); return nil }))
	liveboardEngine.Set("cancelEdit", js.FuncOf(func(this js.Value, args []js.Value) any { eng.CancelEdit(); return nil }))
	liveboardEngine.Set("blur", js.FuncOf(blur))
	liveboardEngine.Set("lockSticky", js.FuncOf(lockSticky))
	liveboardEngine.Set("setStickyColor", js.FuncOf(setStickyColor))
	liveboardEngine.Set("deleteSticky", js.FuncOf(byID(eng.DeleteSticky)))
	liveboardEngine.Set("deleteText", js.FuncOf(byID(eng.DeleteText)))
	liveboardEngine.Set("undo", js.FuncOf(func(this js.Value, args []js.Value) any { return js.ValueOf(eng.Undo()) }))
	liveboardEngine.Set("redo", js.FuncOf(func(this js.Value, args []js.Value) any { return js.ValueOf(eng.Redo()) }))
	liveboardEngine.Set("clear", js.FuncOf(func(this js.Value, args []js.Value) any { eng.ClearAll(); return nil }))
	liveboardEngine.Set("resetView", js.FuncOf(func(this js.Value, args []js.Value) any { eng.ResetView(); return nil }))

	// --- Queries (frontend ← engine) ---
	liveboardEngine.Set("render", js.FuncOf(render))
	liveboardEngine.Set("hitTest", js.FuncOf(hitTest))
	liveboardEngine.Set("getScene", js.FuncOf(getScene))
	liveboardEngine.Set("getState", js.FuncOf(getState))
	liveboardEngine.Set("getEditFocus", js.FuncOf(getEditFocus))
	liveboardEngine.Set("stickyHTML", js.FuncOf(stickyHTML))

	// Register on global scope
	js.Global().Set("liveboardEngine", liveboardEngine)

	// Signal that WASM is ready
	js.Global().Set("liveboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorValue(msg string) js.Value {
	return js.ValueOf(map[string]any{"error": msg})
}

func okValue() js.Value {
	return js.ValueOf(map[string]any{"ok": true})
}

func toJSON(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("")
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

func loadScene(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing scene JSON")
	}
	var snap document.Snapshot
	if err := json.Unmarshal([]byte(args[0].String()), &snap); err != nil {
		return errorValue(err.Error())
	}
	eng.LoadSnapshot(&snap)
	return okValue()
}

func loadSample(this js.Value, args []js.Value) any {
	eng.LoadSample()
	return okValue()
}

func setSettings(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("missing settings JSON")
	}
	s := settings
	if err := json.Unmarshal([]byte(args[0].String()), &s); err != nil {
		return errorValue(err.Error())
	}
	settings = s
	return okValue()
}

func setTheme(this js.Value, args []js.Value) any {
	if len(args) > 0 {
		current = theme.Parse(args[0].String())
	}
	return nil
}

func setOnChange(this js.Value, args []js.Value) any {
	if len(args) > 0 {
		onChange = args[0]
	}
	return nil
}

// pointer adapts an engine pointer handler to a JS function taking an event
// JSON string.
func pointer(fn func(engine.PointerEvent, engine.Settings)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		var ev engine.PointerEvent
		if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
			return errorValue(err.Error())
		}
		fn(ev, settings)
		return nil
	}
}

func touches(fn func([]engine.Touch)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		var ts []engine.Touch
		if len(args) > 0 {
			if err := json.Unmarshal([]byte(args[0].String()), &ts); err != nil {
				return errorValue(err.Error())
			}
		}
		fn(ts)
		return nil
	}
}

func byID(fn func(string)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return nil
		}
		fn(args[0].String())
		return nil
	}
}

func wheel(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.Wheel(engine.WheelEvent{X: args[0].Float(), Y: args[1].Float(), DeltaY: args[2].Float()})
	return nil
}

// beginEdit(id[, field]) returns the edit token, or 0 when the target cannot
// be edited.
func beginEdit(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	id := args[0].String()
	var (
		token engine.EditToken
		ok    bool
	)
	if len(args) > 1 && args[1].Type() == js.TypeString && args[1].String() != "" {
		token, ok = eng.BeginStickyEdit(id, document.StickyField(args[1].String()))
	} else {
		token, ok = eng.BeginTextEdit(id)
	}
	if !ok {
		return js.ValueOf(0)
	}
	return js.ValueOf(float64(token))
}

func setEditText(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	_, field, _, ok := eng.EditFocus()
	if !ok {
		return nil
	}
	if field == document.StickyFieldNone {
		eng.SetEditText(args[0].String())
	} else {
		eng.SetEditSticky(args[0].String())
	}
	return nil
}

func blur(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Blur(engine.EditToken(args[0].Float())))
}

func lockSticky(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.LockSticky(args[0].String(), args[1].Bool())
	return nil
}

func setStickyColor(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.SetStickyColor(args[0].String(), args[1].String())
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.RenderJSON(current))
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	tolerance := 4.0
	if len(args) > 2 {
		tolerance = args[2].Float()
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float(), tolerance))
}

func getScene(this js.Value, args []js.Value) any {
	return toJSON(eng.Snapshot())
}

func getState(this js.Value, args []js.Value) any {
	return toJSON(eng.Status())
}

func getEditFocus(this js.Value, args []js.Value) any {
	id, field, token, ok := eng.EditFocus()
	if !ok {
		return js.Null()
	}
	return js.ValueOf(map[string]any{"id": id, "field": string(field), "token": float64(token)})
}

func stickyHTML(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("")
	}
	return js.ValueOf(export.StickyHTML(args[0].String()))
}
