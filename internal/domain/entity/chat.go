package entity

import (
	"time"
)

// ChatRole 对话角色
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage 聊天消息，追加后不可变
type ChatMessage struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	WorkspaceID string    `json:"workspace_id" gorm:"type:varchar(36);index:idx_chat_messages_ws_ts,priority:1;not null"`
	Role        ChatRole  `json:"role" gorm:"type:varchar(16);not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:created_at;index:idx_chat_messages_ws_ts,priority:2;not null"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// NewChatMessage 创建聊天消息
func NewChatMessage(workspaceID string, role ChatRole, text string) *ChatMessage {
	return &ChatMessage{
		ID:          NewID(),
		WorkspaceID: workspaceID,
		Role:        role,
		Text:        text,
		Timestamp:   time.Now(),
	}
}

// ChatTurn 发送给网关的历史轮次
type ChatTurn struct {
	Role  ChatRole `json:"role"`
	Parts []string `json:"parts"`
}

// TurnsFromMessages 将消息记录转换为对话历史
func TurnsFromMessages(msgs []*ChatMessage) []ChatTurn {
	turns := make([]ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, ChatTurn{Role: m.Role, Parts: []string{m.Text}})
	}
	return turns
}
