package repository

import (
	"context"
	"time"

	"ai-writer-api/internal/domain/entity"
)

// WorkspaceRepository 工作区登记仓储
type WorkspaceRepository interface {
	Create(ctx context.Context, record *entity.WorkspaceRecord) error
	// Get 不存在返回 nil, nil
	Get(ctx context.Context, id string) (*entity.WorkspaceRecord, error)
	// Touch 更新最近访问时间
	Touch(ctx context.Context, id string, at time.Time) error
	// ListIdle 列出最近访问早于 before 的工作区，最久未访问在前
	ListIdle(ctx context.Context, before time.Time, limit int) ([]*entity.WorkspaceRecord, error)
	Delete(ctx context.Context, id string) error
}
