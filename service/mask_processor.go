package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/TIANLI0/SegBrush/editor"
	"github.com/disintegration/imaging"
)

// MaskProcessor 从扁平化的标签图中提取保留遮罩
type MaskProcessor struct {
	maskColor color.NRGBA
}

func NewMaskProcessor(maskColor string) (*MaskProcessor, error) {
	c, err := parseHexColor(maskColor)
	if err != nil {
		return nil, err
	}
	return &MaskProcessor{maskColor: c}, nil
}

// Extract 生成灰度遮罩：像素与遮罩颜色完全一致处为 255（保留原图），其余为 0
func (mp *MaskProcessor) Extract(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if px.R == mp.maskColor.R && px.G == mp.maskColor.G && px.B == mp.maskColor.B {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// Coverage 遮罩覆盖的像素比例
func Coverage(mask *image.Gray) float64 {
	total := len(mask.Pix)
	if total == 0 {
		return 0
	}
	n := 0
	for _, v := range mask.Pix {
		if v != 0 {
			n++
		}
	}
	return float64(n) / float64(total)
}

// ExtractPreservationMask 解码导出的 PNG 并编码保留遮罩为 PNG
func ExtractPreservationMask(png []byte, maskColor string) ([]byte, error) {
	mp, err := NewMaskProcessor(maskColor)
	if err != nil {
		return nil, err
	}

	img, err := editor.DecodeImage(png)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, mp.Extract(img), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode mask: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	norm, err := editor.NormalizeColor(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	v, err := strconv.ParseUint(norm[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %s", editor.ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
