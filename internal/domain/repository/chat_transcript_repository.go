package repository

import (
	"context"

	"ai-writer-api/internal/domain/entity"
)

// ChatTranscriptRepository 聊天记录仓储（只追加，按时间正序）
type ChatTranscriptRepository interface {
	Append(ctx context.Context, msg *entity.ChatMessage) error
	List(ctx context.Context, workspaceID string) ([]*entity.ChatMessage, error)
	DeleteWorkspace(ctx context.Context, workspaceID string) error
}
