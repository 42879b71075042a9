package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	cfg      *config.Config
	sessions *service.SessionManager
}

func NewSessionHandler(cfg *config.Config, sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{
		cfg:      cfg,
		sessions: sessions,
	}
}

// Create 新建编辑会话
func (h *SessionHandler) Create(c *gin.Context) {
	s, err := h.sessions.Create()
	if err != nil {
		fail(c, err)
		return
	}

	var snap model.SessionSnapshot
	if err := h.sessions.With(s.ID, func(s *service.Session) error {
		snap = snapshot(s)
		return nil
	}); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.Response{
		Success: true,
		Message: "会话已创建",
		Data:    snap,
	})
}

// Get 查询会话状态
func (h *SessionHandler) Get(c *gin.Context) {
	var snap model.SessionSnapshot
	if err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		snap = snapshot(s)
		return nil
	}); err != nil {
		fail(c, err)
		return
	}
	ok(c, "查询成功", snap)
}

// Delete 删除会话
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, "会话已删除", nil)
}

// SetTool 修改画笔设置，仅影响之后开始的笔画
func (h *SessionHandler) SetTool(c *gin.Context) {
	var req model.ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求参数错误", err)
		return
	}

	if req.BrushWidth != nil && h.cfg.Editor.MaxBrushWidth > 0 && *req.BrushWidth > h.cfg.Editor.MaxBrushWidth {
		fail(c, fmt.Errorf("%w: %v exceeds %v", editor.ErrInvalidBrushWidth, *req.BrushWidth, h.cfg.Editor.MaxBrushWidth))
		return
	}

	var snap model.SessionSnapshot
	err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		e := s.Editor()
		if req.Mode != nil {
			mode, err := editor.ParsePaintMode(*req.Mode)
			if err != nil {
				return err
			}
			e.Session().SetMode(mode)
		}
		if req.ClassID != nil {
			if *req.ClassID == "" {
				e.Session().SelectClass(nil)
			} else if err := e.SelectClass(*req.ClassID); err != nil {
				return err
			}
		}
		if req.CustomColor != nil {
			if err := e.Session().SetCustomColor(*req.CustomColor); err != nil {
				return err
			}
		}
		if req.BrushWidth != nil {
			if err := e.Session().SetBrushWidth(*req.BrushWidth); err != nil {
				return err
			}
		}
		snap = snapshot(s)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "设置已更新", snap)
}

// Events 按顺序应用一批指针事件
func (h *SessionHandler) Events(c *gin.Context) {
	var events []model.PointerEvent
	if err := c.ShouldBindJSON(&events); err != nil {
		badRequest(c, "请求参数错误", err)
		return
	}
	for i, ev := range events {
		if !validPointerType(ev.Type) {
			badRequest(c, fmt.Sprintf("第 %d 个事件类型无效", i+1), nil)
			return
		}
	}

	var result model.EventsResult
	err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		for _, ev := range events {
			if applyPointer(s.Editor(), ev) {
				result.Accepted++
			}
			result.Applied++
		}
		result.Session = snapshot(s)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "事件已处理", result)
}

// Clear 清空笔画
func (h *SessionHandler) Clear(c *gin.Context) {
	var snap model.SessionSnapshot
	if err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		s.Editor().Clear()
		snap = snapshot(s)
		return nil
	}); err != nil {
		fail(c, err)
		return
	}
	ok(c, "画布已清空", snap)
}

// Export 导出扁平化的标签图 PNG
func (h *SessionHandler) Export(c *gin.Context) {
	var (
		png   []byte
		state string
	)
	err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		var err error
		png, err = s.Editor().Export()
		state = s.Editor().Session().State().String()
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("X-Session-State", state)
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", `attachment; filename="segmentation.png"`)
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Mask 导出保留遮罩预览（白色为保留原图的区域）
func (h *SessionHandler) Mask(c *gin.Context) {
	var (
		png       []byte
		maskColor string
	)
	err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		var err error
		png, err = s.Editor().Export()
		maskColor = s.Editor().Session().MaskColor()
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	mask, err := service.ExtractPreservationMask(png, maskColor)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", mask)
}

func (h *SessionHandler) isAllowedType(contentType string) bool {
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}
