package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/utils"
	"go.uber.org/zap"
)

// LegendService 持有当前调色板。启动时为加载中状态，图例加载完成后原子替换。
type LegendService struct {
	current atomic.Pointer[editor.Palette]
	loader  *editor.LegendLoader
	source  editor.LegendSource
	timeout time.Duration
}

func NewLegendService(cfg *config.Config) *LegendService {
	var src editor.LegendSource = editor.ReaderSource(editor.ADE20KLegend)
	if cfg.Legend.Source != "" {
		src = editor.SourceFor(cfg.Legend.Source)
	}

	s := &LegendService{
		loader: editor.NewLegendLoader(
			editor.WithCustomColor(cfg.Editor.CustomColor),
			editor.WithMaskColor(cfg.Editor.MaskColor),
			editor.WithLoaderDiagnostics(Diagnostics(cfg.Editor.Diagnostics)),
		),
		source:  src,
		timeout: cfg.Legend.Timeout,
	}
	s.current.Store(editor.NewLoadingPalette(cfg.Editor.MaskColor))
	return s
}

// Current 当前调色板
func (s *LegendService) Current() *editor.Palette {
	return s.current.Load()
}

// Load 加载图例并替换当前调色板。失败时得到空调色板，遮罩绘制仍可用。
func (s *LegendService) Load(ctx context.Context) *editor.Palette {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	startTime := time.Now()
	p := s.loader.Load(ctx, s.source)

	switch p.State() {
	case editor.PaletteReady:
		utils.Logger.Info("legend loaded",
			zap.Int("classes", p.Len()),
			zap.Duration("cost", time.Since(startTime)))
	default:
		utils.Logger.Warn("legend unavailable, palette is empty",
			zap.Error(p.Err()),
			zap.Duration("cost", time.Since(startTime)))
	}

	s.current.Store(p)
	return p
}

// Diagnostics 将编辑器诊断输出到 Debug 日志；未开启时返回 nil
func Diagnostics(enabled bool) editor.DiagnosticFunc {
	if !enabled {
		return nil
	}
	return func(d editor.Diagnostic) {
		utils.Logger.Debug("editor diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.String("detail", d.Detail))
	}
}
