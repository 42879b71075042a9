package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/TIANLI0/SegBrush/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor 将错误映射为 HTTP 状态码和提示信息
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "会话不存在或已过期"
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusServiceUnavailable, "会话数量已达上限，请稍后重试"
	case errors.Is(err, service.ErrQueueFull):
		return http.StatusServiceUnavailable, "处理队列已满，请稍后重试"
	case errors.Is(err, service.ErrUpstream), errors.Is(err, service.ErrNotImageResponse):
		return http.StatusBadGateway, "上游服务调用失败"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "上游服务超时"
	case errors.Is(err, editor.ErrDecodeImage):
		return http.StatusBadRequest, "无法解析图片"
	case errors.Is(err, editor.ErrUnknownClass):
		return http.StatusBadRequest, "未知的类别"
	case errors.Is(err, editor.ErrInvalidColor):
		return http.StatusBadRequest, "颜色格式无效，应为 #RRGGBB"
	case errors.Is(err, editor.ErrInvalidBrushWidth):
		return http.StatusBadRequest, "画笔宽度无效"
	case errors.Is(err, editor.ErrInvalidPaintMode):
		return http.StatusBadRequest, "绘制模式无效，仅支持 class/mask"
	case errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest, "经纬度无效"
	case errors.Is(err, service.ErrMissingPrompt):
		return http.StatusBadRequest, "提示词不能为空"
	case errors.Is(err, service.ErrNoSegmentation):
		return http.StatusBadRequest, "缺少分割图像"
	case errors.Is(err, service.ErrNoOriginal):
		return http.StatusConflict, "会话中没有原始图像"
	case errors.Is(err, service.ErrSessionChanged):
		return http.StatusConflict, "处理期间图像已变化，请重试"
	case errors.Is(err, editor.ErrNoSurface):
		return http.StatusConflict, "画布尚未渲染"
	}
	return http.StatusInternalServerError, "服务器内部错误"
}

// fail 写入错误响应
func fail(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		utils.Logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, model.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func badRequest(c *gin.Context, message string, err error) {
	resp := model.ErrorResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}
