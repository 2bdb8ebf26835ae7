package handler

import (
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// ChatHandler 工作区内聊天窗口处理器
type ChatHandler struct {
	manager *workspace.Manager
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(manager *workspace.Manager) *ChatHandler {
	return &ChatHandler{manager: manager}
}

// GetChat 获取窗口状态
// @Summary 聊天窗口状态
// @Tags Chat
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.ChatWidgetResponse]
// @Router /v1/workspaces/{wid}/chat [get]
func (h *ChatHandler) GetChat(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}
	dto.Success(c, dto.ToChatWidgetResponse(ws.Chat.Snapshot()))
}

// OpenChat 打开窗口
// @Summary 打开聊天窗口
// @Tags Chat
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.ChatWidgetResponse]
// @Router /v1/workspaces/{wid}/chat/open [post]
func (h *ChatHandler) OpenChat(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}
	dto.Success(c, dto.ToChatWidgetResponse(ws.Chat.Open()))
}

// CloseChat 关闭窗口，消息与草稿保留
// @Summary 关闭聊天窗口
// @Tags Chat
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.ChatWidgetResponse]
// @Router /v1/workspaces/{wid}/chat/close [post]
func (h *ChatHandler) CloseChat(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}
	dto.Success(c, dto.ToChatWidgetResponse(ws.Chat.Close()))
}

// ToggleChat 切换窗口
// @Summary 切换聊天窗口
// @Tags Chat
// @Produce json
// @Param wid path string true "工作区 ID"
// @Success 200 {object} dto.Response[dto.ChatWidgetResponse]
// @Router /v1/workspaces/{wid}/chat/toggle [post]
func (h *ChatHandler) ToggleChat(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}
	dto.Success(c, dto.ToChatWidgetResponse(ws.Chat.Toggle()))
}

// UpdateDraft 更新输入框草稿
// @Summary 更新草稿
// @Tags Chat
// @Accept json
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param body body dto.UpdateChatDraftRequest true "草稿"
// @Success 200 {object} dto.Response[dto.ChatWidgetResponse]
// @Router /v1/workspaces/{wid}/chat/draft [put]
func (h *ChatHandler) UpdateDraft(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	var req dto.UpdateChatDraftRequest
	if !bindJSON(c, &req) {
		return
	}
	dto.Success(c, dto.ToChatWidgetResponse(ws.Chat.SetDraft(req.Draft)))
}

// SendMessage 发送消息并等待回复
// @Summary 发送聊天消息
// @Description 窗口关闭或已有在途发送时返回 409，消息为空时返回 400
// @Tags Chat
// @Accept json
// @Produce json
// @Param wid path string true "工作区 ID"
// @Param body body dto.SendChatMessageRequest false "消息，留空时发送草稿"
// @Success 200 {object} dto.Response[dto.SendChatMessageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/workspaces/{wid}/chat/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	ws, ok := loadWorkspace(c, h.manager)
	if !ok {
		return
	}

	var req dto.SendChatMessageRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	reply, err := ws.Send(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err, "failed to send chat message")
		return
	}

	dto.Success(c, &dto.SendChatMessageResponse{
		Reply:  dto.ToChatMessageResponse(reply),
		Widget: dto.ToChatWidgetResponse(ws.Chat.Snapshot()),
	})
}
