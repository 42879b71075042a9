package service

import (
	"context"
	"time"
)

// limiter 并发控制：信号量 + 排队超时
type limiter struct {
	semaphore    chan struct{}
	queueTimeout time.Duration
}

func newLimiter(maxConcurrent int, queueTimeout time.Duration) *limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &limiter{
		semaphore:    make(chan struct{}, maxConcurrent),
		queueTimeout: queueTimeout,
	}
}

// acquire 获取执行槽位，成功后必须调用返回的 release
func (l *limiter) acquire(parent context.Context) (func(), error) {
	ctx := parent
	if l.queueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, l.queueTimeout)
		defer cancel()
	}

	select {
	case l.semaphore <- struct{}{}:
		return func() { <-l.semaphore }, nil
	case <-ctx.Done():
		if err := parent.Err(); err != nil {
			return nil, err
		}
		return nil, ErrQueueFull
	}
}
