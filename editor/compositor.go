package editor

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
)

// 没有底图时使用的画布尺寸，与街景截图尺寸一致
const (
	DefaultFallbackWidth  = 640
	DefaultFallbackHeight = 400
)

var ErrNoSurface = errors.New("composite surface not initialized")

// Compositor 将底图和笔画合成为单张位图。
// 表面每次都由 (底图, 笔画) 完整重算，不做增量修补。
type Compositor struct {
	fallback image.Point
	surface  image.Image
}

func NewCompositor(fallbackWidth, fallbackHeight int) *Compositor {
	if fallbackWidth <= 0 || fallbackHeight <= 0 {
		fallbackWidth, fallbackHeight = DefaultFallbackWidth, DefaultFallbackHeight
	}
	return &Compositor{fallback: image.Pt(fallbackWidth, fallbackHeight)}
}

// FallbackSize 没有底图时的画布尺寸
func (c *Compositor) FallbackSize() image.Point {
	return c.fallback
}

// Size 返回给定底图对应的表面尺寸
func (c *Compositor) Size(base image.Image) image.Point {
	if base == nil || base.Bounds().Empty() {
		return c.fallback
	}
	return base.Bounds().Size()
}

// Render 以底图原始尺寸为底层，按顺序绘制全部笔画（圆头圆角，source-over）。
// 相同输入总是得到逐位相同的结果。
func (c *Compositor) Render(base image.Image, strokes []Stroke) (image.Image, error) {
	var dc *gg.Context
	if base == nil || base.Bounds().Empty() {
		dc = gg.NewContext(c.fallback.X, c.fallback.Y)
	} else {
		dc = gg.NewContextForImage(base)
	}
	defer dc.Close()

	// 只走 CPU 解析光栅化，避免全局 GPU 加速器影响结果
	dc.SetRasterizerMode(gg.RasterizerAnalytic)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for i, s := range strokes {
		if err := drawStroke(dc, s); err != nil {
			return nil, fmt.Errorf("failed to draw stroke %d: %w", i, err)
		}
	}

	c.surface = dc.Image()
	return c.surface, nil
}

// Surface 返回最近一次渲染的表面
func (c *Compositor) Surface() (image.Image, bool) {
	return c.surface, c.surface != nil
}

// Export 将当前表面编码为 PNG。尚未渲染过时返回 ErrNoSurface。
func (c *Compositor) Export() ([]byte, error) {
	if c.surface == nil {
		return nil, ErrNoSurface
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, c.surface, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode surface: %w", err)
	}
	return buf.Bytes(), nil
}

// Reset 丢弃表面
func (c *Compositor) Reset() {
	c.surface = nil
}

func drawStroke(dc *gg.Context, s Stroke) error {
	if len(s.Points) == 0 || !validWidth(s.Width) {
		return nil
	}
	dc.SetHexColor(s.Color)

	// 零长度路径按圆头画成一个圆点
	if isDot(s.Points) {
		p := s.Points[0]
		dc.DrawCircle(p.X, p.Y, s.Width/2)
		return dc.Fill()
	}

	dc.SetLineWidth(s.Width)
	dc.MoveTo(s.Points[0].X, s.Points[0].Y)
	for _, p := range s.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	return dc.Stroke()
}

func isDot(points []Point) bool {
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}
