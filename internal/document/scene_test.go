package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveboard/liveboard/internal/viewport"
)

func stroke(id string, pts ...float64) Shape {
	return Shape{ID: id, Type: ShapeStroke, Points: pts, Color: "#000", StrokeWidth: 2}
}

func TestAppendPointToLastStroke(t *testing.T) {
	s := NewScene()
	assert.ErrorIs(t, s.AppendPointToLastStroke(1, 2), ErrNoStroke)

	s.AddStroke(Shape{ID: "a", Points: []float64{0, 0}})
	require.NoError(t, s.AppendPointToLastStroke(1, 2))
	require.NoError(t, s.AppendPointToLastStroke(1, 2))
	assert.Equal(t, []float64{0, 0, 1, 2, 1, 2}, s.Shapes[0].Points)

	s.AddShape(Shape{ID: "r", Type: ShapeRectangle, X2: 10, Y2: 10})
	assert.ErrorIs(t, s.AppendPointToLastStroke(3, 3), ErrNoStroke)
}

func TestAppendPointByID(t *testing.T) {
	s := NewScene()
	s.AddStroke(Shape{ID: "a", Points: []float64{0, 0}})
	s.AddStroke(Shape{ID: "b", Points: []float64{9, 9}})
	s.AddShape(Shape{ID: "r", Type: ShapeRectangle, X2: 10, Y2: 10})

	require.NoError(t, s.AppendPoint("a", 1, 2))
	assert.Equal(t, []float64{0, 0, 1, 2}, s.Shapes[0].Points)
	assert.Equal(t, []float64{9, 9}, s.Shapes[1].Points)

	assert.ErrorIs(t, s.AppendPoint("r", 3, 3), ErrNoStroke)
	assert.ErrorIs(t, s.AppendPoint("missing", 3, 3), ErrNoStroke)
}

func TestRemoveShapesKeepsOrder(t *testing.T) {
	s := NewScene()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.AddShape(stroke(id, 0, 0))
	}
	removed := s.RemoveShapes(func(sh Shape) bool { return sh.ID == "b" || sh.ID == "d" })

	assert.Equal(t, []string{"b", "d"}, ids(removed))
	assert.Equal(t, []string{"a", "c"}, ids(s.Shapes))
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := NewSampleScene()
	before := s.Clone()

	s.UpdateText("missing", "x")
	s.UpdateSticky("missing", StickyPatch{Title: Ref("x")})
	_, okText := s.RemoveText("missing")
	_, okSticky := s.RemoveSticky("missing")
	_, okShape := s.RemoveShape("missing")

	assert.False(t, okText)
	assert.False(t, okSticky)
	assert.False(t, okShape)
	assert.Equal(t, before, s)
}

func TestStickySizeIsClamped(t *testing.T) {
	s := NewScene()
	s.AddSticky(StickyNote{ID: "n", Width: 5, Height: 5})
	n, ok := s.Sticky("n")
	require.True(t, ok)
	assert.Equal(t, MinStickyWidth, n.Width)
	assert.Equal(t, MinStickyHeight, n.Height)

	s.UpdateSticky("n", StickyPatch{Width: Ref(300.0), Height: Ref(-10.0)})
	n, _ = s.Sticky("n")
	assert.Equal(t, 300.0, n.Width)
	assert.Equal(t, MinStickyHeight, n.Height)
}

func TestTextOperations(t *testing.T) {
	s := NewScene()
	s.AddText(TextAnnotation{ID: "t", Text: "hi", FontSize: 20})
	s.UpdateText("t", "hello")
	s.SetTextEditing("t", true)

	got, ok := s.Text("t")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Text)
	assert.True(t, got.IsEditing)

	removed, ok := s.RemoveText("t")
	require.True(t, ok)
	assert.Equal(t, "hello", removed.Text)
	assert.Empty(t, s.Texts)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewScene()
	s.AddStroke(Shape{ID: "a", Points: []float64{0, 0}})
	c := s.Clone()
	require.NoError(t, c.AppendPointToLastStroke(5, 5))
	assert.Len(t, s.Shapes[0].Points, 2)
	assert.Len(t, c.Shapes[0].Points, 4)
}

func TestClearKeepsViewport(t *testing.T) {
	s := NewSampleScene()
	s.Viewport = viewport.Viewport{Scale: 2, OffsetX: 3}
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 2.0, s.Viewport.Scale)
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	s := NewSampleScene()
	s.Viewport = viewport.Viewport{Scale: 1.5, OffsetX: -20, OffsetY: 42}
	s.SetTextEditing(s.Texts[0].ID, true)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored := FromSnapshot(&snap)

	assert.Equal(t, s.Shapes, restored.Shapes)
	assert.Equal(t, s.Stickies, restored.Stickies)
	assert.Equal(t, s.Viewport, restored.Viewport)
	require.Len(t, restored.Texts, 1)
	assert.False(t, restored.Texts[0].IsEditing)
	assert.Equal(t, s.Texts[0].Text, restored.Texts[0].Text)
}

func TestFromSnapshotRepairsScale(t *testing.T) {
	assert.Equal(t, 1.0, FromSnapshot(&Snapshot{}).Viewport.Scale)
	assert.True(t, FromSnapshot(nil).IsEmpty())
}

func TestShapePolyline(t *testing.T) {
	rect := Shape{Type: ShapeRectangle, X1: 10, Y1: 10, X2: 0, Y2: 0}
	assert.Len(t, rect.Polyline(), 5)
	assert.True(t, Shape{Type: ShapeLine, X1: 1, Y1: 1, X2: 1, Y2: 1}.IsDegenerate())
	assert.True(t, ShapeEllipse.Constrainable())
	assert.False(t, ShapeArrow.Constrainable())
}

func ids(shapes []Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.ID
	}
	return out
}
