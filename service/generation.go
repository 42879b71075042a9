package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/utils"
	"go.uber.org/zap"
)

// GenerationRequest 生成服务请求体，图像均为 data URI
type GenerationRequest struct {
	Prompt            string `json:"prompt"`
	SegmentationImage string `json:"segmentation_image"`
	OriginalImage     string `json:"original_image,omitempty"`
	UseMask           bool   `json:"use_mask"`
}

// GenerationService 调用条件生成服务，根据标签图和提示词合成图像
type GenerationService struct {
	endpoint string
	client   *http.Client
	limiter  *limiter
}

func NewGenerationService(cfg *config.CollaboratorConfig) *GenerationService {
	return &GenerationService{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/generate",
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  newLimiter(cfg.MaxConcurrent, cfg.QueueTimeout),
	}
}

// Generate 提交扁平化后的标签图；useMask 时生成服务保留遮罩颜色覆盖的原图像素
func (s *GenerationService) Generate(ctx context.Context, prompt string, segmentation, original []byte, useMask bool) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrMissingPrompt
	}
	if len(segmentation) == 0 {
		return nil, ErrNoSegmentation
	}

	payload := GenerationRequest{
		Prompt:            prompt,
		SegmentationImage: editor.PNGDataURI(segmentation),
		UseMask:           useMask,
	}
	if len(original) > 0 {
		payload.OriginalImage = dataURI(original)
	}

	release, err := s.limiter.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	startTime := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	reply, err := readCollaboratorReply(resp)
	if err != nil {
		return nil, err
	}
	if reply.GeneratedImage == "" {
		return nil, fmt.Errorf("%w: empty generated_image", ErrUpstream)
	}

	generated, err := editor.StripDataURI([]byte(reply.GeneratedImage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	utils.Logger.Info("image generated",
		zap.String("prompt", prompt),
		zap.Bool("use_mask", useMask),
		zap.Int("size", len(generated)),
		zap.Duration("cost", time.Since(startTime)))

	return generated, nil
}
