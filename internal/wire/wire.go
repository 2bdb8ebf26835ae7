//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"ai-writer-api/internal/application/chat"
	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/theme"
	"ai-writer-api/internal/config"
	"ai-writer-api/internal/interfaces/http/handler"
	"ai-writer-api/internal/interfaces/http/router"
	"ai-writer-api/internal/workflow/prompt"
)

// InitializePostgresOnly 仅初始化 PostgreSQL（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvideRequiredPostgresClient,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StorageSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// StorageSet 存储提供者集合，后端按配置选择
var StorageSet = wire.NewSet(
	ProvidePostgresClient,
	ProvideRedisClient,
	ProvideEssayHistoryRepository,
	ProvideChatTranscriptRepository,
	ProvideWorkspaceRepository,
	ProvideTransactor,
	ProvidePreferenceRepository,
	ProvideRateLimiter,
)

// LLMSet 模型网关与提示词
var LLMSet = wire.NewSet(
	ProvideLanguageModelGateway,
	prompt.NewRegistry,
)

// ApplicationSet 应用服务集合
var ApplicationSet = wire.NewSet(
	essay.NewForm,
	essay.NewService,
	chat.NewService,
	theme.NewController,
	wire.Bind(new(essay.Generator), new(*essay.Service)),
	wire.Bind(new(chat.Responder), new(*chat.Service)),
	ProvideWorkspaceManager,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewGenerationHandler,
	handler.NewWorkspaceHandler,
	handler.NewEssayHandler,
	handler.NewChatHandler,
	handler.NewThemeHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
