package memory

import (
	"context"
	"sync"

	"ai-writer-api/internal/domain/entity"
)

// ChatTranscriptRepository 内存聊天记录
type ChatTranscriptRepository struct {
	mu       sync.RWMutex
	messages map[string][]*entity.ChatMessage
}

func NewChatTranscriptRepository() *ChatTranscriptRepository {
	return &ChatTranscriptRepository{messages: make(map[string][]*entity.ChatMessage)}
}

func (r *ChatTranscriptRepository) Append(ctx context.Context, msg *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.WorkspaceID] = append(r.messages[msg.WorkspaceID], msg)
	return nil
}

func (r *ChatTranscriptRepository) List(ctx context.Context, workspaceID string) ([]*entity.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*entity.ChatMessage{}, r.messages[workspaceID]...), nil
}

func (r *ChatTranscriptRepository) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, workspaceID)
	return nil
}
