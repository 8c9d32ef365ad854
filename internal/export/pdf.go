// Package export renders the board for sharing: a PDF of the whole scene and
// HTML or plain text for sticky note content.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/liveboard/liveboard/internal/document"
	"github.com/liveboard/liveboard/internal/engine"
	"github.com/liveboard/liveboard/internal/geom"
)

// Page geometry in millimetres (landscape A4).
const (
	pageWidth  = 297.0
	pageHeight = 210.0
	pageMargin = 10.0

	// maxScale caps how large a tiny board is blown up, in mm per world unit.
	maxScale = 0.5

	stickyPadding = 3.0
	mmPerPoint    = 25.4 / 72
)

// PDFOptions tunes the PDF output.
type PDFOptions struct {
	Title string
}

// WritePDF renders the scene onto a single landscape page, scaled to fit.
// The viewport is ignored; the whole board is exported.
func WritePDF(w io.Writer, scene *document.Scene, opts PDFOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetCreator("Liveboard", true)
	pdf.AddPage()

	r := &pdfRenderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	r.fit(engine.SceneBounds(scene))

	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, shape := range scene.Shapes {
		r.shape(shape)
	}
	for _, text := range scene.Texts {
		r.text(text)
	}
	for _, note := range scene.Stickies {
		r.sticky(note)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type pdfRenderer struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	scale float64
	// origin is the world point mapped to the top-left of the drawable area.
	origin geom.Point
	offset geom.Point
}

func (r *pdfRenderer) fit(bounds geom.Rect) {
	availW := pageWidth - 2*pageMargin
	availH := pageHeight - 2*pageMargin
	r.scale = maxScale
	if bounds.Width > 0 {
		r.scale = min(r.scale, availW/bounds.Width)
	}
	if bounds.Height > 0 {
		r.scale = min(r.scale, availH/bounds.Height)
	}
	r.origin = geom.Pt(bounds.X, bounds.Y)
	// Center the content on the page.
	r.offset = geom.Pt(
		pageMargin+(availW-bounds.Width*r.scale)/2,
		pageMargin+(availH-bounds.Height*r.scale)/2,
	)
}

func (r *pdfRenderer) pt(x, y float64) (float64, float64) {
	return r.offset.X + (x-r.origin.X)*r.scale, r.offset.Y + (y-r.origin.Y)*r.scale
}

func (r *pdfRenderer) shape(s document.Shape) {
	red, green, blue := parseHexColor(s.Color, 0, 0, 0)
	r.pdf.SetDrawColor(red, green, blue)
	r.pdf.SetLineWidth(max(s.StrokeWidth*r.scale, 0.1))

	switch s.Type {
	case document.ShapeRectangle:
		rect := s.Bounds()
		x, y := r.pt(rect.X, rect.Y)
		r.pdf.Rect(x, y, rect.Width*r.scale, rect.Height*r.scale, "D")
	case document.ShapeEllipse:
		rect := s.Bounds()
		cx, cy := rect.Center()
		x, y := r.pt(cx, cy)
		r.pdf.Ellipse(x, y, rect.Width/2*r.scale, rect.Height/2*r.scale, 0, "D")
	case document.ShapeArrow:
		r.polyline(s.Polyline())
		angle := math.Atan2(s.Y2-s.Y1, s.X2-s.X1)
		head := max(s.StrokeWidth*4, 10)
		for _, a := range []float64{angle - math.Pi/6, angle + math.Pi/6} {
			r.polyline([]geom.Point{
				geom.Pt(s.X2, s.Y2),
				geom.Pt(s.X2-head*math.Cos(a), s.Y2-head*math.Sin(a)),
			})
		}
	default:
		pts := s.Polyline()
		if len(pts) == 1 {
			pts = append(pts, pts[0])
		}
		r.polyline(pts)
	}
}

func (r *pdfRenderer) polyline(pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	r.pdf.MoveTo(r.pt(pts[0].X, pts[0].Y))
	for _, p := range pts[1:] {
		r.pdf.LineTo(r.pt(p.X, p.Y))
	}
	r.pdf.DrawPath("D")
}

func (r *pdfRenderer) text(t document.TextAnnotation) {
	if t.Text == "" {
		return
	}
	red, green, blue := parseHexColor(t.Color, 0, 0, 0)
	r.pdf.SetTextColor(red, green, blue)
	r.pdf.SetFont("Helvetica", "", t.FontSize*r.scale/mmPerPoint)
	x, y := r.pt(t.X, t.Y)
	r.pdf.Text(x, y, r.tr(t.Text))
}

func (r *pdfRenderer) sticky(n document.StickyNote) {
	x, y := r.pt(n.X, n.Y)
	w, h := n.Width*r.scale, n.Height*r.scale

	red, green, blue := parseHexColor(n.Color, 0xff, 0xf5, 0x9d)
	r.pdf.SetFillColor(red, green, blue)
	r.pdf.SetDrawColor(0x99, 0x99, 0x99)
	r.pdf.SetLineWidth(0.2)
	r.pdf.Rect(x, y, w, h, "FD")

	r.pdf.ClipRect(x, y, w, h, false)
	defer r.pdf.ClipEnd()

	// Note text shrinks with the board, relative to the largest scale.
	k := r.scale / maxScale
	r.pdf.SetTextColor(0x22, 0x22, 0x22)
	pad := stickyPadding * k
	inner := max(w-2*pad, 1)
	r.pdf.SetXY(x+pad, y+pad)

	if n.Title != "" {
		size := 14 * k
		r.pdf.SetFont("Helvetica", "B", size)
		r.pdf.MultiCell(inner, size*mmPerPoint*1.3, r.tr(n.Title), "", "L", false)
		r.pdf.SetX(x + pad)
	}
	if body := StickyPlainText(n.Content); body != "" {
		size := 11 * k
		r.pdf.SetFont("Helvetica", "", size)
		r.pdf.MultiCell(inner, size*mmPerPoint*1.3, r.tr(body), "", "L", false)
	}
}

// parseHexColor parses #rgb or #rrggbb, returning the fallback otherwise.
func parseHexColor(color string, fr, fg, fb int) (int, int, int) {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return fr, fg, fb
	}
	v, err := strconv.ParseUint(c, 16, 32)
	if err != nil {
		return fr, fg, fb
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
