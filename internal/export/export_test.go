package export

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveboard/liveboard/internal/document"
)

func TestStickyHTML(t *testing.T) {
	out := StickyHTML("# Plan\n\n- **ship** it\n\n<script>alert(1)</script>")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>ship</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestStickyPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"just text", "just text"},
		{"# Tips\n\n- one\n- **two**", "Tips\n- one\n- two"},
		{"use `ctrl+z` to undo", "use ctrl+z to undo"},
		{"first\n\nsecond", "first\nsecond"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StickyPlainText(tt.in), "input %q", tt.in)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b := parseHexColor("#1e88e5", 0, 0, 0)
	assert.Equal(t, []int{0x1e, 0x88, 0xe5}, []int{r, g, b})
	r, g, b = parseHexColor("#fff", 0, 0, 0)
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})
	r, g, b = parseHexColor("tomato", 1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{r, g, b})
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, document.NewSampleScene(), PDFOptions{Title: "test"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, WritePDF(&buf, document.NewScene(), PDFOptions{}), "an empty board is a blank page")
}

type staticSource struct{ scene *document.Scene }

func (s staticSource) Scene(ctx context.Context) (*document.Scene, error) {
	return s.scene.Clone(), nil
}

func TestHandler(t *testing.T) {
	scene := document.NewScene()
	scene.AddSticky(document.StickyNote{ID: "sticky_1", Width: 100, Height: 100, Content: "*hi*"})
	h := NewHandler(staticSource{scene})

	r := mux.NewRouter()
	r.HandleFunc("/api/export/pdf", h.ExportPDF)
	r.HandleFunc("/api/stickies/{id}/html", h.StickyHTML)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export/pdf", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "liveboard-")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stickies/sticky_1/html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<em>hi</em>")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stickies/nope/html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
