package document

import (
	"math"

	"github.com/liveboard/liveboard/internal/typeid"
)

// NewSampleScene builds the welcome board shown by hosts that ask for a demo.
func NewSampleScene() *Scene {
	scene := NewScene()

	// A wavy underline under the title.
	wave := make([]float64, 0, 2*41)
	for i := 0; i <= 40; i++ {
		x := 120 + float64(i)*8
		wave = append(wave, x, 150+6*math.Sin(float64(i)/3))
	}
	scene.AddStroke(Shape{
		ID:          typeid.NewShapeID(),
		Points:      wave,
		Color:       "#222222",
		StrokeWidth: 3,
	})

	scene.AddShape(Shape{
		ID:          typeid.NewShapeID(),
		Type:        ShapeRectangle,
		X1:          100,
		Y1:          200,
		X2:          340,
		Y2:          320,
		Color:       "#1e88e5",
		StrokeWidth: 2,
	})
	scene.AddShape(Shape{
		ID:          typeid.NewShapeID(),
		Type:        ShapeArrow,
		X1:          360,
		Y1:          260,
		X2:          480,
		Y2:          260,
		Color:       "#e53935",
		StrokeWidth: 2,
	})
	scene.AddShape(Shape{
		ID:          typeid.NewShapeID(),
		Type:        ShapeEllipse,
		X1:          500,
		Y1:          210,
		X2:          620,
		Y2:          310,
		Color:       "#43a047",
		StrokeWidth: 2,
	})

	scene.AddText(TextAnnotation{
		ID:       typeid.NewTextID(),
		X:        120,
		Y:        130,
		Text:     "Welcome to Liveboard",
		FontSize: 32,
		Color:    "#000000",
	})

	scene.AddSticky(StickyNote{
		ID:      typeid.NewStickyID(),
		X:       680,
		Y:       120,
		Width:   240,
		Height:  200,
		Color:   "#fff59d",
		Title:   "Getting started",
		Content: "# Tips\n\n- Drag with **ctrl** or right button to pan\n- Scroll to zoom\n- `ctrl+z` to undo",
	})

	return scene
}
