package editor

import (
	"errors"
	"fmt"
	"math"
)

// DefaultBrushWidth 默认笔刷宽度（像素）
const DefaultBrushWidth = 10

var ErrInvalidBrushWidth = errors.New("brush width must be a positive finite number")

// SessionState 笔画捕获状态
type SessionState int

const (
	Idle SessionState = iota
	Drawing
)

func (s SessionState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Session 绘制会话：工具设置加只追加的笔画序列。
// 同一时间最多一个活动笔画，且总是序列中的最后一个。
// Session 不是并发安全的，调用方需要串行化访问。
type Session struct {
	mode        PaintMode
	selected    *ClassEntry
	customColor string
	maskColor   string
	brushWidth  float64
	hasBase     bool

	strokes []Stroke
	drawing bool

	diag DiagnosticFunc
}

type SessionOption func(*Session)

func WithSessionDiagnostics(f DiagnosticFunc) SessionOption {
	return func(s *Session) { s.diag = f }
}

func WithBrushWidth(w float64) SessionOption {
	return func(s *Session) {
		if validWidth(w) {
			s.brushWidth = w
		}
	}
}

func WithSessionCustomColor(c string) SessionOption {
	return func(s *Session) {
		if n, err := NormalizeColor(c); err == nil {
			s.customColor = n
		}
	}
}

// NewSession 创建空闲状态的会话，maskColor 来自调色板
func NewSession(maskColor string, opts ...SessionOption) *Session {
	s := &Session{
		mode:        ClassPaint,
		customColor: DefaultCustomColor,
		maskColor:   maskColorOrDefault(maskColor),
		brushWidth:  DefaultBrushWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() SessionState {
	if s.drawing {
		return Drawing
	}
	return Idle
}

// ActiveStrokeIndex 返回活动笔画下标，空闲时 ok 为 false
func (s *Session) ActiveStrokeIndex() (int, bool) {
	if !s.drawing {
		return -1, false
	}
	return len(s.strokes) - 1, true
}

func (s *Session) Mode() PaintMode         { return s.mode }
func (s *Session) CustomColor() string     { return s.customColor }
func (s *Session) MaskColor() string       { return s.maskColor }
func (s *Session) BrushWidth() float64     { return s.brushWidth }
func (s *Session) HasBaseImage() bool      { return s.hasBase }
func (s *Session) Len() int                { return len(s.strokes) }
func (s *Session) SetHasBaseImage(ok bool) { s.hasBase = ok }

// SelectedClass 返回当前选中的类别
func (s *Session) SelectedClass() (ClassEntry, bool) {
	if s.selected == nil {
		return ClassEntry{}, false
	}
	return *s.selected, true
}

// Strokes 返回全部笔画（包括进行中的）的深拷贝
func (s *Session) Strokes() []Stroke {
	return cloneStrokes(s.strokes)
}

// SetMode 切换绘制模式；只影响之后开始的笔画
func (s *Session) SetMode(m PaintMode) {
	s.mode = m
}

// SelectClass 选中类别；传入 nil 取消选择
func (s *Session) SelectClass(e *ClassEntry) {
	if e == nil {
		s.selected = nil
		return
	}
	c := *e
	s.selected = &c
}

func (s *Session) SetCustomColor(c string) error {
	n, err := NormalizeColor(c)
	if err != nil {
		return err
	}
	s.customColor = n
	return nil
}

func (s *Session) SetBrushWidth(w float64) error {
	if !validWidth(w) {
		return fmt.Errorf("%w: %v", ErrInvalidBrushWidth, w)
	}
	s.brushWidth = w
	return nil
}

// ActiveColor 当前工具设置下的绘制颜色
func (s *Session) ActiveColor() (string, bool) {
	return ResolveColor(s.mode, s.selected, s.customColor, s.maskColor)
}

// BeginStroke 开始一个新笔画。没有底图、没有可用颜色或已在绘制中时忽略。
func (s *Session) BeginStroke(p Point) bool {
	if s.drawing {
		s.diag.emit(DiagPointerIgnored, "begin while drawing")
		return false
	}
	if !s.hasBase {
		s.diag.emit(DiagPointerIgnored, "begin without base image")
		return false
	}
	color, ok := s.ActiveColor()
	if !ok {
		s.diag.emit(DiagStrokeRejected, "no active color")
		return false
	}
	if !finitePoint(p) {
		s.diag.emit(DiagPointerIgnored, "non-finite point")
		return false
	}

	width := s.brushWidth
	if !validWidth(width) {
		width = DefaultBrushWidth
	}
	s.strokes = append(s.strokes, Stroke{
		Color:  color,
		Width:  width,
		Points: []Point{p},
	})
	s.drawing = true
	return true
}

// ExtendStroke 向活动笔画追加一个点；空闲时忽略
func (s *Session) ExtendStroke(p Point) bool {
	if !s.drawing || len(s.strokes) == 0 {
		s.diag.emit(DiagPointerIgnored, "extend while idle")
		return false
	}
	if !finitePoint(p) {
		s.diag.emit(DiagPointerIgnored, "non-finite point")
		return false
	}
	st := &s.strokes[len(s.strokes)-1]
	st.Points = append(st.Points, p)
	return true
}

// EndStroke 结束活动笔画，幂等
func (s *Session) EndStroke() {
	s.drawing = false
}

// Clear 丢弃全部笔画并强制回到空闲状态
func (s *Session) Clear() {
	s.strokes = nil
	s.drawing = false
}

func validWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

func finitePoint(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
