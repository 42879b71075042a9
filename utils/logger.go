package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 全局日志，未初始化时为 Nop
var Logger = zap.NewNop()

// InitLogger 按服务模式初始化日志：
// release 输出 JSON，debug 输出带颜色的开发格式，test 不输出。
// diagnostics 为 true 时 release 模式也记录 Debug 级别（编辑器诊断走 Debug）。
func InitLogger(mode string, diagnostics bool) error {
	var config zap.Config

	switch mode {
	case "release":
		config = zap.NewProductionConfig()
		if diagnostics {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
	case "debug", "":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "test":
		Logger = zap.NewNop()
		return nil
	default:
		return fmt.Errorf("unknown server mode %q", mode)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	Logger = logger.With(zap.String("mode", modeName(mode)))
	return nil
}

func modeName(mode string) string {
	if mode == "" {
		return "debug"
	}
	return mode
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
