package editor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sky = ClassEntry{ID: "class_2", Color: "#06E6E6", Name: "sky"}

func newDrawableSession(opts ...SessionOption) *Session {
	s := NewSession(DefaultMaskColor, opts...)
	s.SetHasBaseImage(true)
	s.SelectClass(&sky)
	return s
}

func TestGestureAppendsExactlyOneStroke(t *testing.T) {
	s := newDrawableSession()

	for gesture := 1; gesture <= 3; gesture++ {
		s.ExtendStroke(Point{X: 99, Y: 99})
		s.EndStroke()

		require.True(t, s.BeginStroke(Point{X: 1, Y: 1}))
		assert.Equal(t, Drawing, s.State())
		assert.False(t, s.BeginStroke(Point{X: 7, Y: 7}))

		s.ExtendStroke(Point{X: 2, Y: 2})
		s.ExtendStroke(Point{X: 3, Y: 3})

		idx, ok := s.ActiveStrokeIndex()
		require.True(t, ok)
		assert.Equal(t, s.Len()-1, idx)

		s.EndStroke()
		s.EndStroke()

		assert.Equal(t, Idle, s.State())
		assert.Equal(t, gesture, s.Len())
		_, ok = s.ActiveStrokeIndex()
		assert.False(t, ok)
	}

	strokes := s.Strokes()
	for _, st := range strokes {
		assert.Equal(t, []Point{{1, 1}, {2, 2}, {3, 3}}, st.Points)
	}
}

func TestExtendWhileIdleIsNoop(t *testing.T) {
	s := newDrawableSession()
	require.True(t, s.BeginStroke(Point{X: 0, Y: 0}))
	s.ExtendStroke(Point{X: 5, Y: 5})
	s.EndStroke()

	before := s.Strokes()
	assert.False(t, s.ExtendStroke(Point{X: 9, Y: 9}))
	assert.Equal(t, before, s.Strokes())
}

func TestClearAbortsGesture(t *testing.T) {
	s := newDrawableSession()
	s.BeginStroke(Point{X: 0, Y: 0})
	s.EndStroke()
	s.BeginStroke(Point{X: 1, Y: 1})
	s.ExtendStroke(Point{X: 2, Y: 2})

	s.Clear()

	assert.Equal(t, Idle, s.State())
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Strokes())
	assert.False(t, s.ExtendStroke(Point{X: 3, Y: 3}))
	assert.Zero(t, s.Len())
}

func TestBeginWithoutBaseImageIsIgnored(t *testing.T) {
	var diags []Diagnostic
	s := NewSession(DefaultMaskColor, WithSessionDiagnostics(func(d Diagnostic) { diags = append(diags, d) }))
	s.SelectClass(&sky)

	assert.False(t, s.BeginStroke(Point{X: 1, Y: 1}))
	assert.Equal(t, Idle, s.State())
	assert.Zero(t, s.Len())
	require.Len(t, diags, 1)
	assert.Equal(t, DiagPointerIgnored, diags[0].Kind)
}

func TestBeginWithoutActiveColorIsIgnored(t *testing.T) {
	s := NewSession(DefaultMaskColor)
	s.SetHasBaseImage(true)

	assert.False(t, s.BeginStroke(Point{X: 1, Y: 1}))
	assert.Zero(t, s.Len())

	s.SetMode(MaskPaint)
	require.True(t, s.BeginStroke(Point{X: 1, Y: 1}))
	assert.Equal(t, DefaultMaskColor, s.Strokes()[0].Color)
}

func TestToolChangesApplyToNextStrokeOnly(t *testing.T) {
	s := newDrawableSession(WithBrushWidth(5))

	require.True(t, s.BeginStroke(Point{X: 0, Y: 0}))
	s.SetMode(MaskPaint)
	require.NoError(t, s.SetBrushWidth(20))
	require.NoError(t, s.SetCustomColor("#abcdef"))
	s.ExtendStroke(Point{X: 10, Y: 10})
	s.EndStroke()

	require.True(t, s.BeginStroke(Point{X: 3, Y: 3}))
	s.EndStroke()

	require.NoError(t, s.SetBrushWidth(40))

	strokes := s.Strokes()
	require.Len(t, strokes, 2)
	assert.Equal(t, Stroke{Color: "#06E6E6", Width: 5, Points: []Point{{0, 0}, {10, 10}}}, strokes[0])
	assert.Equal(t, Stroke{Color: DefaultMaskColor, Width: 20, Points: []Point{{3, 3}}}, strokes[1])
}

func TestCustomClassUsesCustomColor(t *testing.T) {
	s := NewSession(DefaultMaskColor, WithSessionCustomColor("#102030"))
	s.SetHasBaseImage(true)
	s.SelectClass(&ClassEntry{ID: CustomClassID, Color: DefaultCustomColor, Name: CustomClassName})

	require.True(t, s.BeginStroke(Point{X: 1, Y: 2}))
	assert.Equal(t, "#102030", s.Strokes()[0].Color)
}

func TestStrokesReturnsCopy(t *testing.T) {
	s := newDrawableSession()
	s.BeginStroke(Point{X: 1, Y: 1})
	s.EndStroke()

	out := s.Strokes()
	out[0].Points[0] = Point{X: 50, Y: 50}
	out[0].Color = "#FFFFFF"

	assert.Equal(t, Stroke{Color: "#06E6E6", Width: DefaultBrushWidth, Points: []Point{{1, 1}}}, s.Strokes()[0])
}

func TestSelectClassCopiesEntry(t *testing.T) {
	s := NewSession(DefaultMaskColor)
	entry := sky
	s.SelectClass(&entry)
	entry.Color = "#FFFFFF"

	sel, ok := s.SelectedClass()
	require.True(t, ok)
	assert.Equal(t, "#06E6E6", sel.Color)

	s.SelectClass(nil)
	_, ok = s.SelectedClass()
	assert.False(t, ok)
}

func TestInvalidToolSettings(t *testing.T) {
	s := NewSession(DefaultMaskColor)

	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, s.SetBrushWidth(w), ErrInvalidBrushWidth)
	}
	assert.Equal(t, float64(DefaultBrushWidth), s.BrushWidth())

	assert.ErrorIs(t, s.SetCustomColor("nope"), ErrInvalidColor)
	assert.Equal(t, DefaultCustomColor, s.CustomColor())
}

func TestNonFinitePointsAreIgnored(t *testing.T) {
	s := newDrawableSession()
	assert.False(t, s.BeginStroke(Point{X: math.NaN(), Y: 0}))
	require.True(t, s.BeginStroke(Point{X: 0, Y: 0}))
	assert.False(t, s.ExtendStroke(Point{X: math.Inf(-1), Y: 0}))
	assert.Len(t, s.Strokes()[0].Points, 1)
}

func TestZeroValueSessionIsIdle(t *testing.T) {
	var s Session

	assert.Equal(t, Idle, s.State())
	_, ok := s.ActiveStrokeIndex()
	assert.False(t, ok)

	assert.NotPanics(t, func() {
		assert.False(t, s.ExtendStroke(Point{X: 1, Y: 1}))
		s.EndStroke()
		s.Clear()
	})
	assert.Zero(t, s.Len())

	s.SetHasBaseImage(true)
	s.SelectClass(&sky)
	require.True(t, s.BeginStroke(Point{X: 2, Y: 2}))
	require.True(t, s.ExtendStroke(Point{X: 3, Y: 3}))
	idx, ok := s.ActiveStrokeIndex()
	require.True(t, ok)
	assert.Zero(t, idx)
	assert.Equal(t, Stroke{Color: "#06E6E6", Width: float64(DefaultBrushWidth), Points: []Point{{2, 2}, {3, 3}}}, s.Strokes()[0])
}
