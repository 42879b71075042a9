package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxCollaboratorResponse 推理服务响应上限（data URI 形式的整图）
const maxCollaboratorResponse = 64 << 20

// collaboratorReply 推理服务的 JSON 响应，成功时带图像字段，失败时带 error
type collaboratorReply struct {
	SegmentedImage string `json:"segmented_image"`
	GeneratedImage string `json:"generated_image"`
	Error          string `json:"error"`
}

func readCollaboratorReply(resp *http.Response) (*collaboratorReply, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCollaboratorResponse))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	var reply collaboratorReply
	if err := json.Unmarshal(body, &reply); err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, snippet(body))
		}
		return nil, fmt.Errorf("%w: invalid response: %v", ErrUpstream, err)
	}

	if resp.StatusCode/100 != 2 || reply.Error != "" {
		msg := reply.Error
		if msg == "" {
			msg = snippet(body)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, msg)
	}

	return &reply, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// dataURI 按内容嗅探 MIME 类型编码为 data URI
func dataURI(data []byte) string {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
