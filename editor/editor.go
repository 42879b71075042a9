package editor

import (
	"fmt"
	"image"
)

// Config 编辑器参数
type Config struct {
	CustomColor    string
	BrushWidth     float64
	FallbackWidth  int
	FallbackHeight int
	MaxPixels      int
	Diagnostics    DiagnosticFunc
}

// Editor 一个编辑器实例：共享的只读调色板，加上独占的会话、合成器和底图。
// 与 Session 一样不是并发安全的。
type Editor struct {
	cfg      Config
	palette  *Palette
	session  *Session
	comp     *Compositor
	base     image.Image
	original []byte
	dirty    bool
}

// New 创建编辑器；palette 为 nil 时使用加载中占位调色板
func New(palette *Palette, cfg Config) *Editor {
	if palette == nil {
		palette = NewLoadingPalette(DefaultMaskColor)
	}
	e := &Editor{
		cfg:     cfg,
		palette: palette,
		comp:    NewCompositor(cfg.FallbackWidth, cfg.FallbackHeight),
		dirty:   true,
	}
	e.session = e.newSession()
	return e
}

func (e *Editor) newSession() *Session {
	opts := []SessionOption{WithSessionDiagnostics(e.cfg.Diagnostics)}
	if e.cfg.BrushWidth > 0 {
		opts = append(opts, WithBrushWidth(e.cfg.BrushWidth))
	}
	if e.cfg.CustomColor != "" {
		opts = append(opts, WithSessionCustomColor(e.cfg.CustomColor))
	}
	return NewSession(e.palette.MaskColor(), opts...)
}

func (e *Editor) Palette() *Palette      { return e.palette }
func (e *Editor) Session() *Session      { return e.session }
func (e *Editor) BaseImage() image.Image { return e.base }

// Original 返回分割前的原始图像字节，用于遮罩模式下的生成请求
func (e *Editor) Original() []byte { return e.original }

// SetPalette 替换调色板（图例晚于编辑器到达）。已选类别若不在新调色板中则取消选择。
func (e *Editor) SetPalette(p *Palette) {
	if p == nil {
		return
	}
	e.palette = p
	if sel, ok := e.session.SelectedClass(); ok {
		if entry, found := p.Lookup(sel.ID); found {
			e.session.SelectClass(&entry)
		} else {
			e.session.SelectClass(nil)
		}
	}
}

// SelectClass 按 ID 选择类别
func (e *Editor) SelectClass(id string) error {
	entry, ok := e.palette.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClass, id)
	}
	e.session.SelectClass(&entry)
	return nil
}

// SetBaseImage 解码并设置底图。会话的笔画和进行中的手势随之销毁，工具设置保留。
func (e *Editor) SetBaseImage(data []byte) error {
	img, err := DecodeImageLimit(data, e.cfg.MaxPixels)
	if err != nil {
		return err
	}
	e.SetBaseImageDecoded(img)
	return nil
}

func (e *Editor) SetBaseImageDecoded(img image.Image) {
	e.base = img
	e.resetSession()
	e.session.SetHasBaseImage(img != nil)
}

// SetOriginal 记录分割前的原始图像，并将其作为新的底图
func (e *Editor) SetOriginal(data []byte) error {
	img, err := DecodeImageLimit(data, e.cfg.MaxPixels)
	if err != nil {
		return err
	}
	raw, _ := StripDataURI(data)
	e.original = raw
	e.SetBaseImageDecoded(img)
	return nil
}

func (e *Editor) resetSession() {
	prev := e.session
	e.session = e.newSession()
	e.session.SetMode(prev.Mode())
	if sel, ok := prev.SelectedClass(); ok {
		e.session.SelectClass(&sel)
	}
	_ = e.session.SetCustomColor(prev.CustomColor())
	_ = e.session.SetBrushWidth(prev.BrushWidth())
	e.dirty = true
}

// PointerDown 指针按下：开始笔画
func (e *Editor) PointerDown(p Point) bool {
	ok := e.session.BeginStroke(p)
	e.dirty = e.dirty || ok
	return ok
}

// PointerMove 指针移动：延长活动笔画
func (e *Editor) PointerMove(p Point) bool {
	ok := e.session.ExtendStroke(p)
	e.dirty = e.dirty || ok
	return ok
}

// PointerUp 指针抬起或离开：结束笔画
func (e *Editor) PointerUp() {
	e.session.EndStroke()
}

// Clear 清空全部笔画
func (e *Editor) Clear() {
	e.session.Clear()
	e.dirty = true
}

// Size 当前表面尺寸
func (e *Editor) Size() image.Point {
	return e.comp.Size(e.base)
}

// Render 在状态变化后重算表面；连续的多次变化合并为一次渲染
func (e *Editor) Render() (image.Image, error) {
	if surface, ok := e.comp.Surface(); ok && !e.dirty {
		return surface, nil
	}
	surface, err := e.comp.Render(e.base, e.session.Strokes())
	if err != nil {
		return nil, err
	}
	e.dirty = false
	return surface, nil
}

// Export 扁平化为 PNG。绘制中调用时包含已捕获的部分笔画，不会结束手势。
func (e *Editor) Export() ([]byte, error) {
	if _, err := e.Render(); err != nil {
		return nil, err
	}
	return e.comp.Export()
}

// HasMaskStrokes 是否存在遮罩颜色的笔画
func (e *Editor) HasMaskStrokes() bool {
	mask := e.session.MaskColor()
	for _, s := range e.session.strokes {
		if s.Color == mask {
			return true
		}
	}
	return false
}
