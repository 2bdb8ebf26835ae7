package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ai-writer-api/internal/domain/entity"
)

// WorkspaceRepository 工作区登记仓储（workspaces 表）
type WorkspaceRepository struct {
	client *Client
}

func NewWorkspaceRepository(client *Client) *WorkspaceRepository {
	return &WorkspaceRepository{client: client}
}

func (r *WorkspaceRepository) Create(ctx context.Context, record *entity.WorkspaceRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.WorkspaceRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) Get(ctx context.Context, id string) (*entity.WorkspaceRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorkspaceRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var record entity.WorkspaceRecord
	if err := db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &record, nil
}

func (r *WorkspaceRepository) Touch(ctx context.Context, id string, at time.Time) error {
	ctx, span := tracer.Start(ctx, "postgres.WorkspaceRepository.Touch")
	defer span.End()

	// 多实例并发写入时只前移
	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.WorkspaceRecord{}).
		Where("id = ? AND last_seen_at < ?", id, at).
		Update("last_seen_at", at).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to touch workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) ListIdle(ctx context.Context, before time.Time, limit int) ([]*entity.WorkspaceRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorkspaceRepository.ListIdle")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Where("last_seen_at < ?", before).Order("last_seen_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*entity.WorkspaceRecord
	if err := query.Find(&records).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list idle workspaces: %w", err)
	}
	return records, nil
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.WorkspaceRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("id = ?", id).Delete(&entity.WorkspaceRecord{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}
