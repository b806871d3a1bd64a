package utils

import (
	"context"
	"fmt"
	"time"

	"onionpay-api/internal/logger"
)

// DoWithRetry 最多执行 maxRetries 次，间隔 interval；ctx 取消时提前返回
func DoWithRetry(ctx context.Context, name string, maxRetries int, interval time.Duration, fn func() error) error {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		logger.ErrorLog.Warnf("[RETRY] %s attempt %d/%d failed: %v", name, attempt, maxRetries, err)
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(interval):
		}
	}
	return err
}
