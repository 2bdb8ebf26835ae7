// Package chat 实现文学助手对话服务与聊天窗口状态
package chat

import (
	"context"
	"fmt"
	"strings"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/service"
	"ai-writer-api/internal/workflow/prompt"
	"ai-writer-api/pkg/logger"
	"ai-writer-api/pkg/metrics"
)

// 固定提示语
const (
	Greeting         = "Xin chào! Mình là trợ lý văn học. Bạn cần giúp gì về cách làm bài, tìm ý tưởng hay phân tích tác phẩm không?"
	TextConfigError  = "Lỗi: Thiếu API Key trên máy chủ."
	TextFallback     = "Tôi chưa hiểu ý bạn, hãy nói rõ hơn nhé!"
	TextGatewayError = "Xin lỗi, tôi đang gặp sự cố. Bạn thử lại sau nhé!"
)

// Responder 根据历史与新消息给出一条回复
type Responder interface {
	Reply(ctx context.Context, history []entity.ChatTurn, message string) entity.Outcome
}

// Service 对话服务，不在调用之间保留状态
type Service struct {
	gateway service.LanguageModelGateway
	prompts *prompt.Registry
}

// NewService 创建对话服务
func NewService(gateway service.LanguageModelGateway, prompts *prompt.Registry) *Service {
	if prompts == nil {
		prompts = prompt.NewRegistry()
	}
	return &Service{gateway: gateway, prompts: prompts}
}

// Reply 以系统指令 + 完整历史新建会话并发送一条消息
func (s *Service) Reply(ctx context.Context, history []entity.ChatTurn, message string) (out entity.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "chat reply panicked", fmt.Errorf("%v", r))
			out = entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError, Err: fmt.Errorf("panic: %v", r)}
		}
		metrics.ChatTurnsTotal.WithLabelValues(string(out.Kind)).Inc()
	}()

	if s.gateway == nil || !s.gateway.Configured() {
		return entity.Outcome{Kind: entity.OutcomeConfigError, Text: TextConfigError}
	}

	sys, err := s.prompts.Render(ctx, prompt.PromptLiteraryExpertV1, nil)
	if err != nil {
		logger.Error(ctx, "failed to build chat system instruction", err)
		return entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError, Err: err}
	}

	ctx = service.WithWorkflow(ctx, service.WorkflowChat)
	text, err := s.gateway.Chat(ctx, service.ChatRequest{
		SystemInstruction: sys.System,
		History:           history,
		Message:           message,
	})
	if err != nil {
		logger.Error(ctx, "chat reply failed", err,
			"provider", s.gateway.Provider(),
			"history_turns", len(history))
		return entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return entity.Outcome{Kind: entity.OutcomeFallback, Text: TextFallback}
	}
	return entity.Outcome{Kind: entity.OutcomeGenerated, Text: text}
}

// Text 返回可展示文本
func (s *Service) Text(ctx context.Context, history []entity.ChatTurn, message string) string {
	return s.Reply(ctx, history, message).DisplayText()
}
