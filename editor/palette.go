package editor

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CustomClassID 保留的自定义颜色类别 ID
	CustomClassID = "custom"
	// CustomClassName 自定义类别的显示名称
	CustomClassName = "Custom"

	DefaultMaskColor   = "#000000"
	DefaultCustomColor = "#FF0000"
)

var (
	ErrInvalidColor     = errors.New("invalid hex color")
	ErrUnknownClass     = errors.New("unknown class")
	ErrInvalidPaintMode = errors.New("unknown paint mode")
)

// PaintMode 绘制模式
type PaintMode int

const (
	// ClassPaint 使用类别颜色绘制语义标签
	ClassPaint PaintMode = iota
	// MaskPaint 使用保留遮罩颜色绘制
	MaskPaint
)

func (m PaintMode) String() string {
	switch m {
	case ClassPaint:
		return "class"
	case MaskPaint:
		return "mask"
	}
	return fmt.Sprintf("PaintMode(%d)", int(m))
}

// ParsePaintMode 解析 "class" / "mask"
func ParsePaintMode(s string) (PaintMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class", "classpaint":
		return ClassPaint, nil
	case "mask", "maskpaint":
		return MaskPaint, nil
	}
	return ClassPaint, fmt.Errorf("%w %q", ErrInvalidPaintMode, s)
}

// ClassEntry 图例中的一个语义类别
type ClassEntry struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Name  string `json:"name"`
}

// IsCustom 是否为保留的自定义类别
func (e ClassEntry) IsCustom() bool {
	return e.ID == CustomClassID
}

// PaletteState 调色板加载状态
type PaletteState int

const (
	PaletteLoading PaletteState = iota
	PaletteReady
	PaletteEmpty
)

func (s PaletteState) String() string {
	switch s {
	case PaletteLoading:
		return "loading"
	case PaletteReady:
		return "ready"
	case PaletteEmpty:
		return "empty"
	}
	return fmt.Sprintf("PaletteState(%d)", int(s))
}

// Palette 一次加载后只读的类别集合，可在多个编辑器之间共享
type Palette struct {
	state     PaletteState
	entries   []ClassEntry
	index     map[string]int
	maskColor string
	err       error
}

// NewLoadingPalette 返回图例尚未到达时使用的占位调色板
func NewLoadingPalette(maskColor string) *Palette {
	return &Palette{state: PaletteLoading, maskColor: maskColorOrDefault(maskColor)}
}

// NewEmptyPalette 返回加载失败或没有可用行时的空调色板
func NewEmptyPalette(maskColor string, cause error) *Palette {
	return &Palette{state: PaletteEmpty, maskColor: maskColorOrDefault(maskColor), err: cause}
}

// NewPalette 由已解析的类别创建调色板，并在末尾追加自定义类别
func NewPalette(entries []ClassEntry, customColor, maskColor string) *Palette {
	if len(entries) == 0 {
		return NewEmptyPalette(maskColor, nil)
	}

	if c, err := NormalizeColor(customColor); err == nil {
		customColor = c
	} else {
		customColor = DefaultCustomColor
	}

	p := &Palette{
		state:     PaletteReady,
		entries:   make([]ClassEntry, 0, len(entries)+1),
		index:     make(map[string]int, len(entries)+1),
		maskColor: maskColorOrDefault(maskColor),
	}
	for _, e := range entries {
		if e.IsCustom() {
			continue
		}
		if _, dup := p.index[e.ID]; dup {
			continue
		}
		p.index[e.ID] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	p.index[CustomClassID] = len(p.entries)
	p.entries = append(p.entries, ClassEntry{ID: CustomClassID, Color: customColor, Name: CustomClassName})

	return p
}

func (p *Palette) State() PaletteState { return p.state }

// Err 返回加载失败的原因；图例为空但解析成功时为 nil
func (p *Palette) Err() error { return p.err }

func (p *Palette) MaskColor() string { return p.maskColor }

func (p *Palette) Len() int { return len(p.entries) }

// Entries 返回类别的副本
func (p *Palette) Entries() []ClassEntry {
	out := make([]ClassEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Lookup 根据 ID 查找类别
func (p *Palette) Lookup(id string) (ClassEntry, bool) {
	i, ok := p.index[id]
	if !ok {
		return ClassEntry{}, false
	}
	return p.entries[i], true
}

// LookupName 根据显示名称查找类别（不区分大小写）
func (p *Palette) LookupName(name string) (ClassEntry, bool) {
	for _, e := range p.entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return ClassEntry{}, false
}

// ResolveColor 计算当前生效的绘制颜色。
// 遮罩模式总是返回 maskColor；类别模式下自定义类别使用 customColor，
// 其余使用类别自身颜色。没有选中类别时 ok 为 false。
func ResolveColor(mode PaintMode, selected *ClassEntry, customColor, maskColor string) (color string, ok bool) {
	if mode == MaskPaint {
		return maskColor, true
	}
	if selected == nil {
		return "", false
	}
	if selected.IsCustom() {
		return customColor, true
	}
	return selected.Color, true
}

// NormalizeColor 将 #RGB、RRGGBB、#RRGGBB 规范化为大写 #RRGGBB
func NormalizeColor(s string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	for _, r := range h {
		if !isHexDigit(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return "#" + strings.ToUpper(h), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func maskColorOrDefault(c string) string {
	if n, err := NormalizeColor(c); err == nil {
		return n
	}
	return DefaultMaskColor
}
