package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/service"
)

// OpenAIGateway 基于 Eino OpenAI ChatModel 的网关，兼容任意 OpenAI 协议端点
type OpenAIGateway struct {
	name  string
	model string
	chat  model.BaseChatModel
}

// NewOpenAIGateway 创建 OpenAI 兼容网关
func NewOpenAIGateway(ctx context.Context, name string, cfg config.LLMProviderConfig) (*OpenAIGateway, error) {
	g := &OpenAIGateway{name: name, model: cfg.Model}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return g, nil
	}

	mc := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}
	if cfg.MaxTokens > 0 {
		mc.MaxTokens = &cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		mc.Temperature = ptrFloat32(float32(cfg.Temperature))
	}

	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	g.chat = chatModel
	return g, nil
}

func (g *OpenAIGateway) Configured() bool {
	return g.chat != nil
}

func (g *OpenAIGateway) Provider() string {
	return g.name
}

func (g *OpenAIGateway) Model() string {
	return g.model
}

func (g *OpenAIGateway) Generate(ctx context.Context, req service.GenerateRequest) (string, error) {
	return g.generate(ctx, req.Model, []*schema.Message{schema.UserMessage(req.Prompt)})
}

func (g *OpenAIGateway) Chat(ctx context.Context, req service.ChatRequest) (string, error) {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemInstruction))
	}
	msgs = append(msgs, toSchemaHistory(req.History)...)
	msgs = append(msgs, schema.UserMessage(req.Message))
	return g.generate(ctx, req.Model, msgs)
}

func (g *OpenAIGateway) generate(ctx context.Context, modelName string, msgs []*schema.Message) (string, error) {
	if g.chat == nil {
		return "", ErrNotConfigured
	}

	var opts []model.Option
	if modelName != "" && modelName != g.model {
		opts = append(opts, model.WithModel(modelName))
	}

	// 挂载全局回调以上报 Token 用量
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      g.name,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	out, err := g.chat.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

// toSchemaHistory 将 model 角色映射为 assistant
func toSchemaHistory(turns []entity.ChatTurn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		text := strings.Join(t.Parts, "\n")
		if t.Role == entity.ChatRoleModel {
			msgs = append(msgs, schema.AssistantMessage(text, nil))
			continue
		}
		msgs = append(msgs, schema.UserMessage(text))
	}
	return msgs
}

func ptrFloat32(f float32) *float32 {
	return &f
}
