package handler

import (
	"bytes"
	"errors"
	"io"

	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/TIANLI0/SegBrush/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PipelineHandler 街景抓取 → 语义分割 → 条件生成
type PipelineHandler struct {
	sessions     *service.SessionManager
	segmentation *service.SegmentationService
	generation   *service.GenerationService
	streetView   *service.StreetViewService
}

func NewPipelineHandler(sessions *service.SessionManager, seg *service.SegmentationService, gen *service.GenerationService, sv *service.StreetViewService) *PipelineHandler {
	return &PipelineHandler{
		sessions:     sessions,
		segmentation: seg,
		generation:   gen,
		streetView:   sv,
	}
}

// Capture 抓取街景作为原始图像和底图
func (h *PipelineHandler) Capture(c *gin.Context) {
	var req model.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求参数错误，需要 lat/lng", err)
		return
	}

	id := c.Param("id")
	if err := h.sessions.With(id, func(*service.Session) error { return nil }); err != nil {
		fail(c, err)
		return
	}

	data, err := h.streetView.Fetch(c.Request.Context(), *req.Lat, *req.Lng, req.Heading)
	if err != nil {
		fail(c, err)
		return
	}

	var snap model.SessionSnapshot
	err = h.sessions.With(id, func(s *service.Session) error {
		if err := s.Editor().SetOriginal(data); err != nil {
			return err
		}
		s.SetPrompt(service.LocationPrompt(*req.Lat, *req.Lng))
		snap = snapshot(s)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "街景已加载", snap)
}

// Segment 对原始图像做语义分割，标签图成为新的底图
func (h *PipelineHandler) Segment(c *gin.Context) {
	id := c.Param("id")

	var original []byte
	err := h.sessions.With(id, func(s *service.Session) error {
		original = s.Editor().Original()
		if len(original) == 0 {
			return service.ErrNoOriginal
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	label, cached, err := h.segmentation.Segment(c.Request.Context(), original)
	if err != nil {
		fail(c, err)
		return
	}

	var snap model.SessionSnapshot
	err = h.sessions.With(id, func(s *service.Session) error {
		if !bytes.Equal(s.Editor().Original(), original) {
			return service.ErrSessionChanged
		}
		if err := s.Editor().SetBaseImage(label); err != nil {
			return err
		}
		snap = snapshot(s)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	message := "分割成功"
	if cached {
		message = "分割成功（来自缓存）"
	}
	ok(c, message, model.SegmentData{Cached: cached, Session: snap})
}

// Generate 提交当前标签图生成图像；存在遮罩笔画时保留原图对应区域
func (h *PipelineHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "请求参数错误", err)
		return
	}

	var (
		seg      []byte
		original []byte
		useMask  bool
		prompt   string
	)
	err := h.sessions.With(c.Param("id"), func(s *service.Session) error {
		if req.Prompt != "" {
			s.SetPrompt(req.Prompt)
		}
		prompt = s.Prompt()

		var err error
		seg, err = s.Editor().Export()
		if err != nil {
			return err
		}
		original = s.Editor().Original()
		useMask = s.Editor().HasMaskStrokes()
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	utils.Logger.Info("generation requested",
		zap.String("session_id", c.Param("id")),
		zap.String("prompt", prompt),
		zap.Bool("use_mask", useMask),
		zap.Bool("has_original", len(original) > 0))

	generated, err := h.generation.Generate(c.Request.Context(), prompt, seg, original, useMask)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, "生成成功", model.GenerateData{
		Prompt:         prompt,
		UseMask:        useMask,
		GeneratedImage: editor.PNGDataURI(generated),
	})
}
