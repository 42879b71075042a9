package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Upload       UploadConfig       `mapstructure:"upload"`
	Legend       LegendConfig       `mapstructure:"legend"`
	Editor       EditorConfig       `mapstructure:"editor"`
	Session      SessionConfig      `mapstructure:"session"`
	Segmentation CollaboratorConfig `mapstructure:"segmentation"`
	Generation   CollaboratorConfig `mapstructure:"generation"`
	StreetView   StreetViewConfig   `mapstructure:"streetview"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// LegendConfig 类别图例来源，为空时使用内置的 ADE20K 图例
type LegendConfig struct {
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type EditorConfig struct {
	MaskColor      string  `mapstructure:"mask_color"`
	CustomColor    string  `mapstructure:"custom_color"`
	BrushWidth     float64 `mapstructure:"brush_width"`
	MaxBrushWidth  float64 `mapstructure:"max_brush_width"`
	FallbackWidth  int     `mapstructure:"fallback_width"`
	FallbackHeight int     `mapstructure:"fallback_height"`
	MaxPixels      int     `mapstructure:"max_pixels"`
	Diagnostics    bool    `mapstructure:"diagnostics"`
}

type SessionConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxSessions   int           `mapstructure:"max_sessions"`
}

// CollaboratorConfig 远程推理服务（分割 / 生成）
type CollaboratorConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	QueueTimeout  time.Duration `mapstructure:"queue_timeout"`
}

type StreetViewConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Width   int           `mapstructure:"width"`
	Height  int           `mapstructure:"height"`
	FOV     float64       `mapstructure:"fov"`
	Pitch   float64       `mapstructure:"pitch"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("segbrush")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := getDefaultConfig()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("upload.max_size", d.Upload.MaxSize)
	v.SetDefault("upload.allowed_types", d.Upload.AllowedTypes)

	v.SetDefault("legend.source", d.Legend.Source)
	v.SetDefault("legend.timeout", d.Legend.Timeout)

	v.SetDefault("editor.mask_color", d.Editor.MaskColor)
	v.SetDefault("editor.custom_color", d.Editor.CustomColor)
	v.SetDefault("editor.brush_width", d.Editor.BrushWidth)
	v.SetDefault("editor.max_brush_width", d.Editor.MaxBrushWidth)
	v.SetDefault("editor.fallback_width", d.Editor.FallbackWidth)
	v.SetDefault("editor.fallback_height", d.Editor.FallbackHeight)
	v.SetDefault("editor.max_pixels", d.Editor.MaxPixels)
	v.SetDefault("editor.diagnostics", d.Editor.Diagnostics)

	v.SetDefault("session.idle_timeout", d.Session.IdleTimeout)
	v.SetDefault("session.sweep_interval", d.Session.SweepInterval)
	v.SetDefault("session.max_sessions", d.Session.MaxSessions)

	v.SetDefault("segmentation.base_url", d.Segmentation.BaseURL)
	v.SetDefault("segmentation.timeout", d.Segmentation.Timeout)
	v.SetDefault("segmentation.max_concurrent", d.Segmentation.MaxConcurrent)
	v.SetDefault("segmentation.queue_timeout", d.Segmentation.QueueTimeout)

	v.SetDefault("generation.base_url", d.Generation.BaseURL)
	v.SetDefault("generation.timeout", d.Generation.Timeout)
	v.SetDefault("generation.max_concurrent", d.Generation.MaxConcurrent)
	v.SetDefault("generation.queue_timeout", d.Generation.QueueTimeout)

	v.SetDefault("streetview.base_url", d.StreetView.BaseURL)
	v.SetDefault("streetview.api_key", d.StreetView.APIKey)
	v.SetDefault("streetview.width", d.StreetView.Width)
	v.SetDefault("streetview.height", d.StreetView.Height)
	v.SetDefault("streetview.fov", d.StreetView.FOV)
	v.SetDefault("streetview.pitch", d.StreetView.Pitch)
	v.SetDefault("streetview.timeout", d.StreetView.Timeout)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Upload: UploadConfig{
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg"},
		},
		Legend: LegendConfig{
			Source:  "",
			Timeout: 10 * time.Second,
		},
		Editor: EditorConfig{
			MaskColor:      "#000000",
			CustomColor:    "#FF0000",
			BrushWidth:     10,
			MaxBrushWidth:  200,
			FallbackWidth:  640,
			FallbackHeight: 400,
			MaxPixels:      40_000_000,
			Diagnostics:    false,
		},
		Session: SessionConfig{
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
			MaxSessions:   256,
		},
		Segmentation: CollaboratorConfig{
			BaseURL:       "http://localhost:5000",
			Timeout:       60 * time.Second,
			MaxConcurrent: 2,
			QueueTimeout:  30 * time.Second,
		},
		Generation: CollaboratorConfig{
			BaseURL:       "http://localhost:5000",
			Timeout:       120 * time.Second,
			MaxConcurrent: 1,
			QueueTimeout:  60 * time.Second,
		},
		StreetView: StreetViewConfig{
			BaseURL: "https://maps.googleapis.com/maps/api/streetview",
			APIKey:  "",
			Width:   640,
			Height:  400,
			FOV:     90,
			Pitch:   0,
			Timeout: 15 * time.Second,
		},
	}
}

// Default 返回默认配置
func Default() *Config {
	return getDefaultConfig()
}
