package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/utils"
	"go.uber.org/zap"
)

// DefaultPrompt 未选择地点时的默认提示词
const DefaultPrompt = "a street in Brooklyn, NY"

const maxStreetViewImage = 16 << 20

// LocationPrompt 抓取街景后的默认提示词
func LocationPrompt(lat, lng float64) string {
	return fmt.Sprintf("a street view of %.4f, %.4f", lat, lng)
}

// StreetViewService 街景图像抓取
type StreetViewService struct {
	cfg    config.StreetViewConfig
	client *http.Client
}

func NewStreetViewService(cfg *config.StreetViewConfig) *StreetViewService {
	return &StreetViewService{
		cfg:    *cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// URL 构造街景静态图请求地址
func (s *StreetViewService) URL(lat, lng, heading float64) (string, error) {
	if !validLocation(lat, lng) || math.IsNaN(heading) || math.IsInf(heading, 0) {
		return "", fmt.Errorf("%w: lat=%v lng=%v heading=%v", ErrInvalidLocation, lat, lng, heading)
	}

	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", s.cfg.Width, s.cfg.Height))
	q.Set("location", formatFloat(lat)+","+formatFloat(lng))
	q.Set("heading", formatFloat(heading))
	q.Set("pitch", formatFloat(s.cfg.Pitch))
	q.Set("fov", formatFloat(s.cfg.FOV))
	q.Set("key", s.cfg.APIKey)

	return s.cfg.BaseURL + "?" + q.Encode(), nil
}

// Fetch 下载街景图像，返回原始字节
func (s *StreetViewService) Fetch(ctx context.Context, lat, lng, heading float64) ([]byte, error) {
	u, err := s.URL(lat, lng, heading)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// url.Error 的文本包含完整请求地址（含 key），只保留底层原因
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: street view request failed: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: street view status %d", ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxStreetViewImage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImageResponse, contentType)
	}

	utils.Logger.Info("street view captured",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.Float64("heading", heading),
		zap.Int("size", len(data)))

	return data, nil
}

func validLocation(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
