package service

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisService(&config.RedisConfig{Addr: mr.Addr(), TTL: time.Hour})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func collaboratorConfig(url string) *config.CollaboratorConfig {
	return &config.CollaboratorConfig{
		BaseURL:       url,
		Timeout:       5 * time.Second,
		MaxConcurrent: 1,
		QueueTimeout:  time.Second,
	}
}
