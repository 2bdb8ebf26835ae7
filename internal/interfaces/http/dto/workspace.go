package dto

import (
	"time"

	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/workspace"
	"ai-writer-api/internal/domain/entity"
)

// CreateWorkspaceRequest 创建工作区
// client_id 缺省时取 X-Client-ID 请求头
type CreateWorkspaceRequest struct {
	ClientID    string `json:"client_id" binding:"max=64"`
	PrefersDark bool   `json:"prefers_dark"`
}

// WorkspaceResponse 工作区快照
type WorkspaceResponse struct {
	ID        string              `json:"id"`
	ClientID  string              `json:"client_id"`
	Theme     string              `json:"theme"`
	CreatedAt time.Time           `json:"created_at"`
	Form      *EssayFormResponse  `json:"form"`
	Essay     *EssayStateResponse `json:"essay"`
	Chat      *ChatWidgetResponse `json:"chat"`
}

// ToWorkspaceResponse 转换工作区
func ToWorkspaceResponse(ws *workspace.Workspace, theme entity.Theme, form *essay.Form) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:        ws.ID,
		ClientID:  ws.ClientID,
		Theme:     string(theme),
		CreatedAt: ws.CreatedAt,
		Form:      ToEssayFormResponse(form),
		Essay:     ToEssayStateResponse(ws.Essay.Snapshot()),
		Chat:      ToChatWidgetResponse(ws.Chat.Snapshot()),
	}
}

// SetThemeRequest 设置主题
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// ThemeResponse 主题响应
type ThemeResponse struct {
	Theme string `json:"theme"`
}
