package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/service"
)

// DefaultGeminiModel 默认 Gemini 模型
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGateway 基于 google genai SDK 的网关
type GeminiGateway struct {
	name   string
	model  string
	client *genai.Client
}

// NewGeminiGateway 创建 Gemini 网关
// 未配置 API Key 时返回未配置状态的网关，调用方据此给出配置错误提示
func NewGeminiGateway(ctx context.Context, name string, cfg config.LLMProviderConfig) (*GeminiGateway, error) {
	g := &GeminiGateway{name: name, model: cfg.Model}
	if g.model == "" {
		g.model = DefaultGeminiModel
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return g, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiGateway) Configured() bool {
	return g.client != nil
}

func (g *GeminiGateway) Provider() string {
	return g.name
}

func (g *GeminiGateway) Model() string {
	return g.model
}

// Generate 单次无状态生成
func (g *GeminiGateway) Generate(ctx context.Context, req service.GenerateRequest) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelOr(req.Model), genai.Text(req.Prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}

// Chat 新建带系统指令与历史的会话，发送一条消息
func (g *GeminiGateway) Chat(ctx context.Context, req service.ChatRequest) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}

	var gcc *genai.GenerateContentConfig
	if req.SystemInstruction != "" {
		gcc = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		}
	}

	chat, err := g.client.Chats.Create(ctx, g.modelOr(req.Model), gcc, toGenaiHistory(req.History))
	if err != nil {
		return "", fmt.Errorf("gemini create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", fmt.Errorf("gemini send message: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiGateway) modelOr(m string) string {
	if m != "" {
		return m
	}
	return g.model
}

func toGenaiHistory(turns []entity.ChatTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == entity.ChatRoleModel {
			role = genai.RoleModel
		}
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, genai.NewPartFromText(p))
		}
		history = append(history, genai.NewContentFromParts(parts, role))
	}
	return history
}
