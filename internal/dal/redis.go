package dal

import (
	"context"
	"fmt"
	"log"
	"time"

	"onionpay-api/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisClient 未配置 redis.addr 时为 nil，缓存自动降级
var RedisClient *redis.Client

func InitRedis() error {
	c := config.C.Redis
	if c.Addr == "" {
		log.Println("[Redis] addr not configured, cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	RedisClient = client
	return nil
}
