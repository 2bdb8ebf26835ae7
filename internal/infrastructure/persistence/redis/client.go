// Package redis 提供 Redis 偏好存储与限流实现
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-writer-api/internal/config"
)

var tracer = otel.Tracer("redis")

// keyPrefix 本服务写入的所有键的命名空间
const keyPrefix = "aiw:"

const (
	defaultPoolSize    = 10
	defaultDialTimeout = 5 * time.Second
	connectTimeout     = 5 * time.Second
)

// Client 偏好与限流共用的 Redis 连接
type Client struct {
	rdb *redis.Client
}

// NewClient 按配置建立连接并验证可用
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(buildOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", rdb.Options().Addr, err)
	}
	return &Client{rdb: rdb}, nil
}

func buildOptions(cfg *config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	return opts
}

// namespaced 给业务键加上服务前缀，已带前缀的键原样返回
func namespaced(key string) string {
	if strings.HasPrefix(key, keyPrefix) {
		return key
	}
	return keyPrefix + key
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck 就绪探测
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.HealthCheck")
	defer span.End()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// getString 读取字符串值，键不存在时 ok 为 false
func (c *Client) getString(ctx context.Context, key string) (string, bool, error) {
	key = namespaced(key)
	ctx, span := tracer.Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		return "", false, err
	}
	return val, true, nil
}

// setString 写入字符串值，ttl 为 0 时不过期
func (c *Client) setString(ctx context.Context, key, value string, ttl time.Duration) error {
	key = namespaced(key)
	ctx, span := tracer.Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.Int64("redis.ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// windowCount 清掉 since 之前的记录并返回窗口内的请求数
func (c *Client) windowCount(ctx context.Context, key string, since time.Time) (int64, error) {
	key = namespaced(key)
	pipe := c.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(since.UnixMilli(), 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}

// windowRecord 记一次请求，键在两个窗口后过期
func (c *Client) windowRecord(ctx context.Context, key string, at time.Time, window time.Duration) error {
	key = namespaced(key)
	pipe := c.rdb.Pipeline()
	// 成员带纳秒，同毫秒的请求不会合并
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: strconv.FormatInt(at.UnixNano(), 10),
	})
	pipe.Expire(ctx, key, window*2)
	_, err := pipe.Exec(ctx)
	return err
}
