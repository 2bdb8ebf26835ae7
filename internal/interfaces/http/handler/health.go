// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"ai-writer-api/internal/domain/service"
	"ai-writer-api/internal/infrastructure/persistence/postgres"
	"ai-writer-api/internal/infrastructure/persistence/redis"
)

const readinessTimeout = 2 * time.Second

// HealthChecker 依赖健康检查
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type dependency struct {
	name     string
	checker  HealthChecker
	required bool
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version string
	deps    []dependency
	gateway service.LanguageModelGateway
}

// NewHealthHandler 创建健康检查处理器
// 未启用的存储传 nil，不参与就绪检查
func NewHealthHandler(version string, pg *postgres.Client, redisClient *redis.Client, gateway service.LanguageModelGateway) *HealthHandler {
	h := &HealthHandler{version: version, gateway: gateway}
	if pg != nil {
		h.deps = append(h.deps, dependency{name: "postgres", checker: pg, required: true})
	}
	if redisClient != nil {
		h.deps = append(h.deps, dependency{name: "redis", checker: redisClient, required: true})
	}
	return h
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
// 存储依赖并发检查；模型网关未配置只标记为 degraded，不影响就绪
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		checks = make(map[string]*readinessCheck, len(h.deps)+1)
		ready  = true
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range h.deps {
		g.Go(func() error {
			start := time.Now()
			err := dep.checker.HealthCheck(gctx)
			check := &readinessCheck{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				check.Status = "error"
				check.Error = err.Error()
			}

			mu.Lock()
			checks[dep.name] = check
			if err != nil && dep.required {
				ready = false
			}
			mu.Unlock()
			// 单个依赖失败不取消其他检查
			return nil
		})
	}
	_ = g.Wait()

	llm := &readinessCheck{Status: "ok"}
	if h.gateway == nil || !h.gateway.Configured() {
		llm.Status = "degraded"
		llm.Error = "language model gateway not configured"
	}
	checks["llm"] = llm

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
