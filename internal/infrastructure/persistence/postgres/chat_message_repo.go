// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"ai-writer-api/internal/domain/entity"
)

// ChatMessageRepository 聊天记录仓储（chat_messages 表）
type ChatMessageRepository struct {
	client *Client
}

func NewChatMessageRepository(client *Client) *ChatMessageRepository {
	return &ChatMessageRepository{client: client}
}

func (r *ChatMessageRepository) Append(ctx context.Context, msg *entity.ChatMessage) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatMessageRepository.Append")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(msg).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *ChatMessageRepository) List(ctx context.Context, workspaceID string) ([]*entity.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChatMessageRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var msgs []*entity.ChatMessage
	if err := db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").Order("id ASC").
		Find(&msgs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return msgs, nil
}

func (r *ChatMessageRepository) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatMessageRepository.DeleteWorkspace")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("workspace_id = ?", workspaceID).Delete(&entity.ChatMessage{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}
