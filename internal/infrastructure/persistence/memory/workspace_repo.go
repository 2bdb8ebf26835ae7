package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-writer-api/internal/domain/entity"
)

// WorkspaceRepository 内存工作区登记
type WorkspaceRepository struct {
	mu      sync.RWMutex
	records map[string]entity.WorkspaceRecord
}

func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{records: make(map[string]entity.WorkspaceRecord)}
}

func (r *WorkspaceRepository) Create(ctx context.Context, record *entity.WorkspaceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = *record
	return nil
}

func (r *WorkspaceRepository) Get(ctx context.Context, id string) (*entity.WorkspaceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *WorkspaceRepository) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[id]; ok && at.After(rec.LastSeenAt) {
		rec.LastSeenAt = at
		r.records[id] = rec
	}
	return nil
}

func (r *WorkspaceRepository) ListIdle(ctx context.Context, before time.Time, limit int) ([]*entity.WorkspaceRecord, error) {
	r.mu.RLock()
	var out []*entity.WorkspaceRecord
	for _, rec := range r.records {
		if rec.LastSeenAt.Before(before) {
			rec := rec
			out = append(out, &rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastSeenAt.Before(out[j].LastSeenAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}
