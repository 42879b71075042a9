package editor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrDecodeImage = errors.New("failed to decode image")

const dataURIPrefix = "data:"

// DefaultMaxPixels 解码前允许的最大像素数（宽 × 高）
const DefaultMaxPixels = 40_000_000

// DecodeImage 解码 PNG/JPEG 等位图，也接受 base64 data URI
func DecodeImage(data []byte) (image.Image, error) {
	return DecodeImageLimit(data, DefaultMaxPixels)
}

// DecodeImageLimit 先读取图像头检查尺寸，超过 maxPixels 的图像不做完整解码。
// maxPixels <= 0 时使用 DefaultMaxPixels。
func DecodeImageLimit(data []byte, maxPixels int) (image.Image, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	raw, err := StripDataURI(data)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecodeImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecodeImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecodeImage)
	}
	return img, nil
}

// StripDataURI 如果输入是 data URI，返回其解码后的内容；否则原样返回
func StripDataURI(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte(dataURIPrefix)) {
		return data, nil
	}
	comma := bytes.IndexByte(data, ',')
	if comma < 0 {
		return nil, fmt.Errorf("%w: malformed data URI", ErrDecodeImage)
	}
	meta := string(data[len(dataURIPrefix):comma])
	payload := data[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return payload, nil
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(out, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	return out[:n], nil
}

// PNGDataURI 将 PNG 字节编码为 data URI
func PNGDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
