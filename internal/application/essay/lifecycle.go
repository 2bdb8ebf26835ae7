package essay

import (
	"context"
	"fmt"
	"sync"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
	"ai-writer-api/pkg/errors"
	"ai-writer-api/pkg/logger"
	"ai-writer-api/pkg/metrics"
)

// State 生成生命周期状态
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

// Snapshot 生命周期快照
type Snapshot struct {
	State       State               `json:"state"`
	Current     *entity.EssayResult `json:"current,omitempty"`
	HistorySize int64               `json:"history_size"`
}

// Lifecycle 单个工作区的作文提交流程
// 同一时刻至多一个提交在途，锁不跨越生成调用
type Lifecycle struct {
	workspaceID string
	form        *Form
	generator   Generator
	history     repository.EssayHistoryRepository

	mu          sync.Mutex
	state       State
	current     *entity.EssayResult
	historySize int64
}

// NewLifecycle 创建生命周期
func NewLifecycle(workspaceID string, form *Form, generator Generator, history repository.EssayHistoryRepository) *Lifecycle {
	if form == nil {
		form = NewForm()
	}
	return &Lifecycle{
		workspaceID: workspaceID,
		form:        form,
		generator:   generator,
		history:     history,
		state:       StateIdle,
	}
}

// Restore 从已持久化的历史恢复计数
// 当前展示结果不持久化，恢复后为空
func (l *Lifecycle) Restore(ctx context.Context) error {
	n, err := l.history.Count(ctx, l.workspaceID)
	if err != nil {
		return fmt.Errorf("count essay history: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.historySize = n
	return nil
}

// Submit 提交作文请求，返回新加入历史的结果
func (l *Lifecycle) Submit(ctx context.Context, req entity.EssayRequest) (*entity.EssayResult, error) {
	req = l.form.Normalize(req)
	if err := l.form.Validate(req); err != nil {
		metrics.EssaySubmissionsRejected.WithLabelValues("invalid").Inc()
		return nil, err
	}

	l.mu.Lock()
	if l.state == StateSubmitting {
		l.mu.Unlock()
		metrics.EssaySubmissionsRejected.WithLabelValues("in_flight").Inc()
		return nil, errors.ErrSubmissionInFlight
	}
	l.state = StateSubmitting
	l.current = nil
	l.mu.Unlock()

	wordCount := ResolveWordCount(req.WordCountType, req.CustomWordCount)

	// 客户端断开不影响在途生成
	result, err := l.run(context.WithoutCancel(ctx), req, wordCount)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		logger.Error(ctx, "essay submission failed", err, "workspace_id", l.workspaceID)
		l.state = StateFailure
		return nil, errors.ErrInternalError.WithError(err)
	}

	l.state = StateSuccess
	l.current = result
	l.historySize++
	return result, nil
}

func (l *Lifecycle) run(ctx context.Context, req entity.EssayRequest, wordCount int) (result *entity.EssayResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("essay generator panicked: %v", r)
		}
	}()

	outcome := l.generator.Generate(ctx, req.Topic, req.Outline, wordCount, req.Language)

	result = entity.NewEssayResult(l.workspaceID, req.Topic, outcome)
	if err := l.history.Prepend(ctx, result); err != nil {
		return nil, fmt.Errorf("persist essay history: %w", err)
	}
	return result, nil
}

// Select 将历史中的某条设为当前展示结果，不修改历史
func (l *Lifecycle) Select(ctx context.Context, id string) (*entity.EssayResult, error) {
	if l.Submitting() {
		return nil, errors.ErrSubmissionInFlight
	}

	result, err := l.history.Get(ctx, l.workspaceID, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load essay")
	}
	if result == nil {
		return nil, errors.ErrEssayNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateSubmitting {
		return nil, errors.ErrSubmissionInFlight
	}
	l.current = result
	return result, nil
}

// Get 获取历史中的某条
func (l *Lifecycle) Get(ctx context.Context, id string) (*entity.EssayResult, error) {
	result, err := l.history.Get(ctx, l.workspaceID, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load essay")
	}
	if result == nil {
		return nil, errors.ErrEssayNotFound
	}
	return result, nil
}

// History 最新在前分页列出历史
func (l *Lifecycle) History(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.EssayResult], error) {
	page, err := l.history.List(ctx, l.workspaceID, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list essay history")
	}
	return page, nil
}

// Current 当前展示结果
func (l *Lifecycle) Current() *entity.EssayResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Submitting 是否有在途提交
func (l *Lifecycle) Submitting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateSubmitting
}

// Snapshot 返回状态快照
func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		State:       l.state,
		Current:     l.current,
		HistorySize: l.historySize,
	}
}
