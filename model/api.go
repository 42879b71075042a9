package model

import "github.com/TIANLI0/SegBrush/editor"

// ErrorResponse 错误响应
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Response 通用成功响应
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// LegendData 类别图例
type LegendData struct {
	State     string              `json:"state"`
	MaskColor string              `json:"mask_color"`
	Entries   []editor.ClassEntry `json:"entries"`
	Error     string              `json:"error,omitempty"`
}

// SessionSnapshot 会话状态快照
type SessionSnapshot struct {
	ID           string             `json:"id"`
	State        string             `json:"state"`
	Mode         string             `json:"mode"`
	Selected     *editor.ClassEntry `json:"selected,omitempty"`
	CustomColor  string             `json:"custom_color"`
	MaskColor    string             `json:"mask_color"`
	BrushWidth   float64            `json:"brush_width"`
	ActiveColor  string             `json:"active_color,omitempty"`
	HasBase      bool               `json:"has_base_image"`
	HasOriginal  bool               `json:"has_original_image"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	StrokeCount  int                `json:"stroke_count"`
	ActiveStroke *int               `json:"active_stroke,omitempty"`
	UseMask      bool               `json:"use_mask"`
	Prompt       string             `json:"prompt"`
}

// ToolRequest 画笔设置，字段为空表示不修改
type ToolRequest struct {
	Mode        *string  `json:"mode"`
	ClassID     *string  `json:"class_id"`
	CustomColor *string  `json:"custom_color"`
	BrushWidth  *float64 `json:"brush_width"`
}

// PointerEvent 指针事件
type PointerEvent struct {
	Type string  `json:"type" binding:"required,oneof=down move up leave"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// PointerEvent 类型
const (
	PointerDown  = "down"
	PointerMove  = "move"
	PointerUp    = "up"
	PointerLeave = "leave"
)

// EventsResult 批量事件处理结果
type EventsResult struct {
	Applied  int             `json:"applied"`
	Accepted int             `json:"accepted"`
	Session  SessionSnapshot `json:"session"`
}

// CaptureRequest 街景抓取参数
type CaptureRequest struct {
	Lat     *float64 `json:"lat" binding:"required"`
	Lng     *float64 `json:"lng" binding:"required"`
	Heading float64  `json:"heading"`
}

// GenerateRequest 生成请求
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateData 生成结果
type GenerateData struct {
	Prompt         string `json:"prompt"`
	UseMask        bool   `json:"use_mask"`
	GeneratedImage string `json:"generated_image"`
}

// SegmentData 分割结果
type SegmentData struct {
	Cached  bool            `json:"cached"`
	Session SessionSnapshot `json:"session"`
}
