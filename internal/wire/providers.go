// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"ai-writer-api/internal/application/chat"
	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/theme"
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/repository"
	"ai-writer-api/internal/domain/service"
	"ai-writer-api/internal/infrastructure/llm"
	"ai-writer-api/internal/infrastructure/persistence/memory"
	"ai-writer-api/internal/infrastructure/persistence/postgres"
	"ai-writer-api/internal/infrastructure/persistence/redis"
	"ai-writer-api/internal/interfaces/http/handler"
	"ai-writer-api/internal/interfaces/http/middleware"
	llmobs "ai-writer-api/internal/observability/llm"
	"ai-writer-api/pkg/logger"
)

// ProvidePostgresClient 提供 PostgreSQL 客户端，未启用时返回 nil
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	if !cfg.Database.Postgres.Enabled {
		return nil, func() {}, nil
	}
	return ProvideRequiredPostgresClient(cfg)
}

// ProvideRequiredPostgresClient 提供 PostgreSQL 客户端（用于 bootstrap）
func ProvideRequiredPostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideEssayHistoryRepository 按配置选择作文历史存储
func ProvideEssayHistoryRepository(cfg *config.Config, pg *postgres.Client) (repository.EssayHistoryRepository, error) {
	switch cfg.Storage.HistoryBackend {
	case config.BackendPostgres:
		if pg == nil {
			return nil, fmt.Errorf("history backend postgres requires an enabled postgres client")
		}
		return postgres.NewEssayResultRepository(pg), nil
	default:
		return memory.NewEssayHistoryRepository(), nil
	}
}

// ProvideChatTranscriptRepository 按配置选择聊天记录存储，与作文历史同一后端
func ProvideChatTranscriptRepository(cfg *config.Config, pg *postgres.Client) (repository.ChatTranscriptRepository, error) {
	switch cfg.Storage.HistoryBackend {
	case config.BackendPostgres:
		if pg == nil {
			return nil, fmt.Errorf("history backend postgres requires an enabled postgres client")
		}
		return postgres.NewChatMessageRepository(pg), nil
	default:
		return memory.NewChatTranscriptRepository(), nil
	}
}

// ProvideWorkspaceRepository 工作区登记与作文历史同一后端
func ProvideWorkspaceRepository(cfg *config.Config, pg *postgres.Client) (repository.WorkspaceRepository, error) {
	switch cfg.Storage.HistoryBackend {
	case config.BackendPostgres:
		if pg == nil {
			return nil, fmt.Errorf("history backend postgres requires an enabled postgres client")
		}
		return postgres.NewWorkspaceRepository(pg), nil
	default:
		return memory.NewWorkspaceRepository(), nil
	}
}

// ProvideTransactor 历史后端对应的事务管理器
func ProvideTransactor(cfg *config.Config, pg *postgres.Client) repository.Transactor {
	if cfg.Storage.HistoryBackend == config.BackendPostgres && pg != nil {
		return postgres.NewTxManager(pg)
	}
	return memory.NewTxManager()
}

// ProvidePreferenceRepository 按配置选择偏好存储
func ProvidePreferenceRepository(cfg *config.Config, rc *redis.Client) (repository.PreferenceRepository, error) {
	switch cfg.Storage.PreferenceBackend {
	case config.BackendRedis:
		if rc == nil {
			return nil, fmt.Errorf("preference backend redis requires an enabled redis client")
		}
		return redis.NewPreferenceRepository(rc, cfg.Storage.PreferenceTTL), nil
	default:
		return memory.NewPreferenceRepository(), nil
	}
}

// ProvideRateLimiter Redis 不可用时返回 nil，中间件随之放行
func ProvideRateLimiter(rc *redis.Client) middleware.RateLimiter {
	if rc == nil {
		return nil
	}
	return redis.NewRateLimiter(rc)
}

// ProvideLanguageModelGateway 创建默认网关并挂上追踪与指标
// 未配置密钥时网关仍可用，调用方按配置错误处理
func ProvideLanguageModelGateway(ctx context.Context, cfg *config.Config) (service.LanguageModelGateway, error) {
	gw, err := llm.NewGatewayFactory(cfg).Default(ctx)
	if err != nil {
		return nil, err
	}
	if !gw.Configured() {
		logger.Warn(ctx, "language model gateway has no credentials, requests will return the configuration message",
			"provider", gw.Provider())
	}
	return llmobs.Instrument(gw), nil
}

// ProvideWorkspaceManager 创建工作区管理器并启动空闲清理
func ProvideWorkspaceManager(
	ctx context.Context,
	cfg *config.Config,
	form *essay.Form,
	generator essay.Generator,
	responder chat.Responder,
	themes *theme.Controller,
	store repository.WorkspaceRepository,
	history repository.EssayHistoryRepository,
	transcript repository.ChatTranscriptRepository,
	tx repository.Transactor,
) (*workspace.Manager, func()) {
	m := workspace.NewManager(cfg.Workspace, form, generator, responder, themes, store, history, transcript, tx)
	m.Start(context.WithoutCancel(ctx))
	return m, m.Stop
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rc *redis.Client, gw service.LanguageModelGateway) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, pg, rc, gw)
}
