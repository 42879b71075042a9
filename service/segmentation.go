package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/utils"
	"go.uber.org/zap"
)

// SegmentationService 调用语义分割服务，把原图转换为 ADE20K 着色的标签图
type SegmentationService struct {
	endpoint string
	client   *http.Client
	limiter  *limiter
	cache    *RedisService
}

func NewSegmentationService(cfg *config.CollaboratorConfig, cache *RedisService) *SegmentationService {
	return &SegmentationService{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/segment",
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  newLimiter(cfg.MaxConcurrent, cfg.QueueTimeout),
		cache:    cache,
	}
}

// Segment 返回标签图 PNG 字节；cached 表示结果来自缓存
func (s *SegmentationService) Segment(ctx context.Context, image []byte) (label []byte, cached bool, err error) {
	if len(image) == 0 {
		return nil, false, ErrNoOriginal
	}

	md5 := utils.BytesMD5(image)

	if s.cache != nil {
		hit, err := s.cache.GetSegmentation(ctx, md5)
		if err != nil {
			utils.Logger.Warn("failed to get cache", zap.Error(err))
		}
		if hit != nil {
			utils.Logger.Info("cache hit", zap.String("md5", md5))
			return hit, true, nil
		}
	}

	release, err := s.limiter.acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	defer release()

	startTime := time.Now()

	label, err = s.post(ctx, image)
	if err != nil {
		return nil, false, err
	}

	utils.Logger.Info("image segmented",
		zap.String("md5", md5),
		zap.Int("size", len(label)),
		zap.Duration("cost", time.Since(startTime)))

	if s.cache != nil {
		if err := s.cache.SetSegmentation(ctx, md5, label); err != nil {
			utils.Logger.Warn("failed to set cache", zap.Error(err))
		}
	}

	return label, false, nil
}

func (s *SegmentationService) post(ctx context.Context, image []byte) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "image"+extensionFor(image))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	reply, err := readCollaboratorReply(resp)
	if err != nil {
		return nil, err
	}
	if reply.SegmentedImage == "" {
		return nil, fmt.Errorf("%w: empty segmented_image", ErrUpstream)
	}

	label, err := editor.StripDataURI([]byte(reply.SegmentedImage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return label, nil
}

func extensionFor(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ""
}
