// Package memory 提供进程内存储实现，生命周期与进程一致
package memory

import (
	"context"
	"sync"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
)

// EssayHistoryRepository 内存作文历史
type EssayHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]*entity.EssayResult // 每个工作区最新在前
}

func NewEssayHistoryRepository() *EssayHistoryRepository {
	return &EssayHistoryRepository{entries: make(map[string][]*entity.EssayResult)}
}

func (r *EssayHistoryRepository) Prepend(ctx context.Context, result *entity.EssayResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.entries[result.WorkspaceID]
	next := make([]*entity.EssayResult, 0, len(cur)+1)
	next = append(next, result)
	next = append(next, cur...)
	r.entries[result.WorkspaceID] = next
	return nil
}

func (r *EssayHistoryRepository) List(ctx context.Context, workspaceID string, pagination repository.Pagination) (*repository.PagedResult[*entity.EssayResult], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.entries[workspaceID]
	total := int64(len(all))

	start := pagination.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + pagination.Limit()
	if end > len(all) {
		end = len(all)
	}

	items := append([]*entity.EssayResult{}, all[start:end]...)
	return repository.NewPagedResult(items, total, pagination), nil
}

func (r *EssayHistoryRepository) Get(ctx context.Context, workspaceID, id string) (*entity.EssayResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries[workspaceID] {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *EssayHistoryRepository) Count(ctx context.Context, workspaceID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries[workspaceID])), nil
}

func (r *EssayHistoryRepository) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, workspaceID)
	return nil
}
