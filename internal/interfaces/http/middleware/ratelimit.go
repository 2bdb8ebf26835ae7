// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"ai-writer-api/pkg/errors"
	"ai-writer-api/pkg/logger"
	"ai-writer-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// remainingReporter 可选能力：返回窗口内剩余配额
type remainingReporter interface {
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// KeyFunc 由请求构造限流键
type KeyFunc func(clientKey, endpoint string) string

// RateLimit 限流中间件，按请求携带的客户端标识（缺失时按 IP）与路由计数
func RateLimit(cfg RateLimitConfig, limiter RateLimiter, keyFn KeyFunc) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if keyFn == nil {
		keyFn = func(clientKey, endpoint string) string {
			return "ratelimit:" + clientKey + ":" + endpoint
		}
	}

	return func(c *gin.Context) {
		// 服务端生成的标识每次不同，按 IP 计数
		clientKey := GetClientIDFromGin(c)
		if clientKey == "" || ClientIDGenerated(c) {
			clientKey = c.ClientIP()
		}
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		key := keyFn(clientKey, endpoint)
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key, cfg.RequestsPerSecond, time.Second)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(ctx, "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerSecond))
		if rr, ok := limiter.(remainingReporter); ok {
			if remaining, err := rr.Remaining(ctx, key, cfg.RequestsPerSecond, time.Second); err == nil {
				c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}
		}

		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(endpoint).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     http.StatusTooManyRequests,
				"message":  errors.ErrTooManyRequests.Message,
				"error":    gin.H{"error_code": string(errors.CodeTooManyRequests)},
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
