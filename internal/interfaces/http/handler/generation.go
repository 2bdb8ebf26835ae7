package handler

import (
	"strings"

	"ai-writer-api/internal/application/chat"
	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/interfaces/http/dto"
	"ai-writer-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// GenerationHandler 无状态生成接口：一次请求对应一次网关调用
type GenerationHandler struct {
	essays    essay.Generator
	responder chat.Responder
}

// NewGenerationHandler 创建无状态生成处理器
func NewGenerationHandler(essays essay.Generator, responder chat.Responder) *GenerationHandler {
	return &GenerationHandler{
		essays:    essays,
		responder: responder,
	}
}

// GenerateEssay 生成作文
// @Summary 生成作文
// @Description 返回可直接展示的文本；status 标明生成内容或提示语类型；不支持的语言按越南语生成
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateEssayRequest true "作文参数"
// @Success 200 {object} dto.Response[dto.GenerateTextResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/essays/generate [post]
func (h *GenerationHandler) GenerateEssay(c *gin.Context) {
	var req dto.GenerateEssayRequest
	if !bindJSON(c, &req) {
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		respondError(c, errors.ErrTopicRequired, "invalid essay request")
		return
	}
	// 未知语言代码由生成服务回退到默认语言
	if req.Language == "" {
		req.Language = essay.DefaultLanguage
	}
	if req.WordCount == 0 {
		req.WordCount = essay.DefaultWordCount
	}

	out := h.essays.Generate(c.Request.Context(), strings.TrimSpace(req.Topic), strings.TrimSpace(req.Outline), req.WordCount, req.Language)
	dto.Success(c, dto.ToGenerateTextResponse(out))
}

// ChatReply 以给定历史回复一条消息
// @Summary 文学助手回复
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.ChatReplyRequest true "历史与新消息"
// @Success 200 {object} dto.Response[dto.GenerateTextResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat/reply [post]
func (h *GenerationHandler) ChatReply(c *gin.Context) {
	var req dto.ChatReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		respondError(c, errors.ErrEmptyMessage, "invalid chat request")
		return
	}

	out := h.responder.Reply(c.Request.Context(), req.ToTurns(), req.Message)
	dto.Success(c, dto.ToGenerateTextResponse(out))
}
