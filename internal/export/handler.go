package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/liveboard/liveboard/internal/document"
)

// SceneSource hands out a private copy of the live scene.
type SceneSource interface {
	Scene(ctx context.Context) (*document.Scene, error)
}

type Handler struct {
	source SceneSource
}

func NewHandler(source SceneSource) *Handler {
	return &Handler{source: source}
}

// ExportPDF streams the whole board as a PDF download.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	scene, err := h.source.Scene(r.Context())
	if err != nil {
		slog.Error("export: get scene", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, scene, PDFOptions{Title: "Liveboard"}); err != nil {
		slog.Error("export: render pdf", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("liveboard-%s.pdf", time.Now().Format("2006-01-02-1504"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("export: stream pdf", "error", err)
		return
	}
	slog.Info("export complete", "bytes", buf.Len(), "shapes", len(scene.Shapes))
}

// StickyHTML renders one note's markdown body as an HTML fragment.
func (h *Handler) StickyHTML(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	scene, err := h.source.Scene(r.Context())
	if err != nil {
		slog.Error("export: get scene", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	note, ok := scene.Sticky(id)
	if !ok {
		http.Error(w, "sticky note not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(StickyHTML(note.Content)))
}
