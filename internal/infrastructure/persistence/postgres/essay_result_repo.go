// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
)

// EssayResultRepository 作文历史仓储（essay_results 表）
type EssayResultRepository struct {
	client *Client
}

func NewEssayResultRepository(client *Client) *EssayResultRepository {
	return &EssayResultRepository{client: client}
}

func (r *EssayResultRepository) Prepend(ctx context.Context, result *entity.EssayResult) error {
	ctx, span := tracer.Start(ctx, "postgres.EssayResultRepository.Prepend")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(result).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create essay result: %w", err)
	}
	return nil
}

func (r *EssayResultRepository) List(ctx context.Context, workspaceID string, pagination repository.Pagination) (*repository.PagedResult[*entity.EssayResult], error) {
	ctx, span := tracer.Start(ctx, "postgres.EssayResultRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.EssayResult{}).Where("workspace_id = ?", workspaceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count essay results: %w", err)
	}

	// ID 为 UUIDv7，按时间递增，用作同一时间戳下的次序
	var results []*entity.EssayResult
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&results).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list essay results: %w", err)
	}

	return repository.NewPagedResult(results, total, pagination), nil
}

func (r *EssayResultRepository) Get(ctx context.Context, workspaceID, id string) (*entity.EssayResult, error) {
	ctx, span := tracer.Start(ctx, "postgres.EssayResultRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var result entity.EssayResult
	if err := db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get essay result: %w", err)
	}
	return &result, nil
}

func (r *EssayResultRepository) Count(ctx context.Context, workspaceID string) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.EssayResultRepository.Count")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var total int64
	if err := db.Model(&entity.EssayResult{}).Where("workspace_id = ?", workspaceID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count essay results: %w", err)
	}
	return total, nil
}

func (r *EssayResultRepository) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	ctx, span := tracer.Start(ctx, "postgres.EssayResultRepository.DeleteWorkspace")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("workspace_id = ?", workspaceID).Delete(&entity.EssayResult{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete essay results: %w", err)
	}
	return nil
}
