package essay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/service"
	"ai-writer-api/internal/workflow/prompt"
	"ai-writer-api/pkg/logger"
	"ai-writer-api/pkg/metrics"
)

// 固定提示语
const (
	TextConfigError  = "Lỗi: Chưa cấu hình API Key. Hãy thêm GEMINI_API_KEY vào biến môi trường của máy chủ."
	TextFallback     = "Không thể tạo nội dung, vui lòng thử lại."
	TextGatewayError = "Lỗi kết nối AI. Vui lòng thử lại sau."

	outlineSelfOrganise = "Nếu không có dàn ý, hãy tự xây dựng bố cục logic."
	outlinePrefix       = "Dựa trên dàn ý sau: "
)

// Generator 作文生成器
type Generator interface {
	Generate(ctx context.Context, topic, outline string, wordCount int, language string) entity.Outcome
}

// Service 作文生成服务：一次请求对应一次无状态网关调用，不向外返回错误
type Service struct {
	gateway service.LanguageModelGateway
	prompts *prompt.Registry
}

// NewService 创建作文生成服务
func NewService(gateway service.LanguageModelGateway, prompts *prompt.Registry) *Service {
	if prompts == nil {
		prompts = prompt.NewRegistry()
	}
	return &Service{gateway: gateway, prompts: prompts}
}

// Generate 生成作文
func (s *Service) Generate(ctx context.Context, topic, outline string, wordCount int, language string) (out entity.Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "essay generation panicked", fmt.Errorf("%v", r))
			out = entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError, Err: fmt.Errorf("panic: %v", r)}
		}
		metrics.EssayGenerationTotal.WithLabelValues(language, string(out.Kind)).Inc()
		metrics.EssayGenerationDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())
	}()

	metrics.EssayTargetWordCount.WithLabelValues(language).Observe(float64(wordCount))

	if s.gateway == nil || !s.gateway.Configured() {
		return entity.Outcome{Kind: entity.OutcomeConfigError, Text: TextConfigError}
	}

	p, err := s.BuildPrompt(ctx, topic, outline, wordCount, language)
	if err != nil {
		logger.Error(ctx, "failed to build essay prompt", err)
		return entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError, Err: err}
	}

	ctx = service.WithWorkflow(ctx, service.WorkflowEssay)
	text, err := s.gateway.Generate(ctx, service.GenerateRequest{Prompt: p})
	if err != nil {
		logger.Error(ctx, "essay generation failed", err,
			"provider", s.gateway.Provider(),
			"language", language,
			"word_count", wordCount)
		return entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		logger.Warn(ctx, "essay generation returned empty text", "provider", s.gateway.Provider())
		return entity.Outcome{Kind: entity.OutcomeFallback, Text: TextFallback}
	}

	return entity.Outcome{Kind: entity.OutcomeGenerated, Text: text}
}

// Text 返回可展示文本
func (s *Service) Text(ctx context.Context, topic, outline string, wordCount int, language string) string {
	return s.Generate(ctx, topic, outline, wordCount, language).DisplayText()
}

// BuildPrompt 组装作文提示词
func (s *Service) BuildPrompt(ctx context.Context, topic, outline string, wordCount int, language string) (string, error) {
	instruction := outlineSelfOrganise
	if o := strings.TrimSpace(outline); o != "" {
		instruction = outlinePrefix + o
	}

	rendered, err := s.prompts.Render(ctx, prompt.PromptEssayV1, map[string]any{
		"language":            LanguageName(language),
		"topic":               topic,
		"word_count":          wordCount,
		"outline_instruction": instruction,
	})
	if err != nil {
		return "", err
	}
	return rendered.User, nil
}
