package service

import (
	"context"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const segmentationKeyPrefix = "seg:"

type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetSegmentation 从缓存获取分割结果（PNG），未命中返回 nil
func (s *RedisService) GetSegmentation(ctx context.Context, md5 string) ([]byte, error) {
	data, err := s.client.Get(ctx, segmentationKeyPrefix+md5).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 缓存未命中
		}
		return nil, err
	}
	if len(data) == 0 {
		utils.Logger.Warn("empty segmentation cache entry", zap.String("md5", md5))
		return nil, nil
	}

	return data, nil
}

// SetSegmentation 写入分割结果缓存
func (s *RedisService) SetSegmentation(ctx context.Context, md5 string, png []byte) error {
	return s.client.Set(ctx, segmentationKeyPrefix+md5, png, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
