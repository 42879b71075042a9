package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/TIANLI0/SegBrush/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetBase 上传底图。original=true 时同时作为分割前的原始图像保存。
func (h *SessionHandler) SetBase(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.Logger.Warn("failed to get uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "请上传图片文件",
			Error:   err.Error(),
		})
		return
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}

	// 验证文件类型
	contentType := file.Header.Get("Content-Type")
	if !h.isAllowedType(contentType) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "不支持的文件类型，仅支持 JPEG/PNG",
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.Upload.MaxSize+1))
	if err != nil {
		fail(c, err)
		return
	}

	asOriginal := c.DefaultPostForm("original", "false") == "true"

	var snap model.SessionSnapshot
	err = h.sessions.With(c.Param("id"), func(s *service.Session) error {
		var err error
		if asOriginal {
			err = s.Editor().SetOriginal(data)
		} else {
			err = s.Editor().SetBaseImage(data)
		}
		if err != nil {
			return err
		}
		snap = snapshot(s)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	utils.Logger.Info("base image uploaded",
		zap.String("session_id", c.Param("id")),
		zap.String("md5", utils.BytesMD5(data)),
		zap.Int64("size", file.Size),
		zap.Bool("original", asOriginal),
		zap.Int("width", snap.Width),
		zap.Int("height", snap.Height))

	ok(c, "底图已更新", snap)
}
