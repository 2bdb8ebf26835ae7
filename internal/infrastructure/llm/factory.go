// Package llm 提供大模型网关适配器
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/service"
)

// 适配器类型
const (
	KindGemini = "gemini"
	KindOpenAI = "openai"
	KindMock   = "mock"
)

// GatewayFactory 管理多个网关实例，按提供商名称惰性创建
type GatewayFactory struct {
	config   *config.LLMConfig
	gateways map[string]service.LanguageModelGateway
	mu       sync.RWMutex
}

// NewGatewayFactory 创建网关工厂
func NewGatewayFactory(cfg *config.Config) *GatewayFactory {
	return &GatewayFactory{
		config:   &cfg.LLM,
		gateways: make(map[string]service.LanguageModelGateway),
	}
}

// Get 获取指定名称的网关，未指定则返回默认网关
func (f *GatewayFactory) Get(ctx context.Context, name string) (service.LanguageModelGateway, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	g, ok := f.gateways[name]
	f.mu.RUnlock()
	if ok {
		return g, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if g, ok = f.gateways[name]; ok {
		return g, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	g, err := newGateway(ctx, name, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway for %s: %w", name, err)
	}

	f.gateways[name] = g
	return g, nil
}

// Default 返回默认网关
func (f *GatewayFactory) Default(ctx context.Context) (service.LanguageModelGateway, error) {
	return f.Get(ctx, "")
}

func newGateway(ctx context.Context, name string, cfg config.LLMProviderConfig) (service.LanguageModelGateway, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	if kind == "" {
		kind = strings.ToLower(name)
	}

	switch kind {
	case KindGemini:
		return NewGeminiGateway(ctx, name, cfg)
	case KindOpenAI:
		return NewOpenAIGateway(ctx, name, cfg)
	case KindMock:
		return NewMockGateway(name, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider kind %q", kind)
	}
}
