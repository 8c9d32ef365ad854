package bridge

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/liveboard/liveboard/internal/auth"
	"github.com/liveboard/liveboard/internal/document"
)

// ServeWS upgrades an authenticated request and attaches it to the hub.
func (h *Hub) ServeWS(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		clientID := uuid.New().String()
		client := NewClient(h, conn, clientID, auth.SessionIDFromContext(r.Context()))
		client.Serve(r.Context())
	}
}

// GetScene writes the current snapshot as JSON.
func (h *Hub) GetScene(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshot(r.Context())
	if err != nil {
		slog.Error("get scene", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "board unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PutScene replaces the board with a posted snapshot.
func (h *Hub) PutScene(w http.ResponseWriter, r *http.Request) {
	var snap document.Snapshot
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 32<<20)).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid snapshot"})
		return
	}
	if err := h.Load(r.Context(), &snap); err != nil {
		slog.Error("load scene", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "board unavailable"})
		return
	}
	slog.Info("scene replaced", "shapes", len(snap.Shapes), "texts", len(snap.TextAnnotations), "stickies", len(snap.StickyNotes))
	w.WriteHeader(http.StatusNoContent)
}

// GetRender writes the current draw command buffer.
func (h *Hub) GetRender(w http.ResponseWriter, r *http.Request) {
	out, err := h.Render(r.Context())
	if err != nil {
		slog.Error("render", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "board unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
