package repository

import (
	"context"

	"ai-writer-api/internal/domain/entity"
)

// EssayHistoryRepository 作文历史仓储
// 历史按工作区隔离，只追加，最新在前
type EssayHistoryRepository interface {
	// Prepend 将结果放到历史最前
	Prepend(ctx context.Context, result *entity.EssayResult) error
	// List 按时间倒序分页列出
	List(ctx context.Context, workspaceID string, pagination Pagination) (*PagedResult[*entity.EssayResult], error)
	// Get 获取单条，不存在返回 nil, nil
	Get(ctx context.Context, workspaceID, id string) (*entity.EssayResult, error)
	// Count 历史条数
	Count(ctx context.Context, workspaceID string) (int64, error)
	// DeleteWorkspace 删除工作区的全部历史
	DeleteWorkspace(ctx context.Context, workspaceID string) error
}
