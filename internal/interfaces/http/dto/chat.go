package dto

import (
	"time"

	"ai-writer-api/internal/application/chat"
	"ai-writer-api/internal/domain/entity"
)

// ChatPart 历史轮次中的文本片段
type ChatPart struct {
	Text string `json:"text"`
}

// ChatTurnRequest 历史轮次
type ChatTurnRequest struct {
	Role  string     `json:"role" binding:"required,oneof=user model"`
	Parts []ChatPart `json:"parts" binding:"dive"`
}

// ChatReplyRequest 无状态聊天请求
type ChatReplyRequest struct {
	History []ChatTurnRequest `json:"history" binding:"max=200,dive"`
	Message string            `json:"message" binding:"max=8000"`
}

// ToTurns 转换为网关历史
func (r *ChatReplyRequest) ToTurns() []entity.ChatTurn {
	turns := make([]entity.ChatTurn, 0, len(r.History))
	for _, t := range r.History {
		parts := make([]string, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, p.Text)
		}
		turns = append(turns, entity.ChatTurn{Role: entity.ChatRole(t.Role), Parts: parts})
	}
	return turns
}

// SendChatMessageRequest 工作区内发送消息，text 为空时发送草稿
type SendChatMessageRequest struct {
	Text string `json:"text" binding:"max=8000"`
}

// UpdateChatDraftRequest 更新草稿
type UpdateChatDraftRequest struct {
	Draft string `json:"draft" binding:"max=8000"`
}

// ChatMessageResponse 聊天消息响应
type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ToChatMessageResponse 转换聊天消息
func ToChatMessageResponse(m *entity.ChatMessage) *ChatMessageResponse {
	if m == nil {
		return nil
	}
	return &ChatMessageResponse{
		ID:        m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
}

// ChatWidgetResponse 聊天窗口状态
// 客户端在 revision 变化时滚动到 scroll_anchor
type ChatWidgetResponse struct {
	Open         bool                   `json:"open"`
	Status       string                 `json:"status"`
	Typing       bool                   `json:"typing"`
	Draft        string                 `json:"draft"`
	Messages     []*ChatMessageResponse `json:"messages"`
	Revision     uint64                 `json:"revision"`
	ScrollAnchor string                 `json:"scroll_anchor,omitempty"`
}

// ToChatWidgetResponse 转换窗口快照
func ToChatWidgetResponse(s chat.Snapshot) *ChatWidgetResponse {
	msgs := make([]*ChatMessageResponse, 0, len(s.Messages))
	for _, m := range s.Messages {
		msgs = append(msgs, ToChatMessageResponse(m))
	}
	return &ChatWidgetResponse{
		Open:         s.Open,
		Status:       string(s.Status),
		Typing:       s.Typing,
		Draft:        s.Draft,
		Messages:     msgs,
		Revision:     s.Revision,
		ScrollAnchor: s.ScrollAnchor,
	}
}

// SendChatMessageResponse 发送结果：模型回复与发送后的窗口状态
type SendChatMessageResponse struct {
	Reply  *ChatMessageResponse `json:"reply"`
	Widget *ChatWidgetResponse  `json:"widget"`
}
