// Package workspace 管理浏览器会话级工作区：作文流程、聊天窗口与主题
package workspace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"ai-writer-api/internal/application/chat"
	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/theme"
	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
	"ai-writer-api/pkg/errors"
	"ai-writer-api/pkg/logger"
	"ai-writer-api/pkg/metrics"
)

const (
	defaultIdleTTL       = 2 * time.Hour
	defaultSweepInterval = 5 * time.Minute

	// 访问时间写回存储的最小间隔
	touchPersistInterval = time.Minute
	// 单次清理处理的存储记录上限
	sweepBatchSize = 200
)

// Workspace 一个浏览器标签页对应一个工作区
type Workspace struct {
	ID        string
	ClientID  string
	CreatedAt time.Time
	Essay     *essay.Lifecycle
	Chat      *chat.Widget

	lastSeen      atomic.Int64
	lastPersisted atomic.Int64

	mu       sync.Mutex
	closed   bool
	inflight int
	drained  func()
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// LastSeen 最近一次访问时间
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Busy 是否有在途的生成或聊天
func (w *Workspace) Busy() bool {
	w.mu.Lock()
	n := w.inflight
	w.mu.Unlock()
	return n > 0 || w.Essay.Submitting() || w.Chat.Sending()
}

// Submit 提交作文，工作区关闭后拒绝
func (w *Workspace) Submit(ctx context.Context, req entity.EssayRequest) (*entity.EssayResult, error) {
	if err := w.begin(); err != nil {
		return nil, err
	}
	defer w.end()
	return w.Essay.Submit(ctx, req)
}

// Send 发送聊天消息，工作区关闭后拒绝
func (w *Workspace) Send(ctx context.Context, text string) (*entity.ChatMessage, error) {
	if err := w.begin(); err != nil {
		return nil, err
	}
	defer w.end()
	return w.Chat.Send(ctx, text)
}

func (w *Workspace) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.ErrWorkspaceNotFound
	}
	w.inflight++
	return nil
}

func (w *Workspace) end() {
	w.mu.Lock()
	w.inflight--
	var fn func()
	if w.closed && w.inflight == 0 {
		fn, w.drained = w.drained, nil
	}
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// seal 标记关闭；有在途调用时 onDrained 在最后一个调用结束后执行
// 返回 true 表示当前无在途调用，可立即清理
func (w *Workspace) seal(onDrained func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.inflight == 0 {
		return true
	}
	w.drained = onDrained
	return false
}

// trySeal 仅在空闲且 cutoff 之后未被访问时标记关闭
func (w *Workspace) trySeal(cutoff time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.inflight > 0 || w.Essay.Submitting() || w.Chat.Sending() {
		return false
	}
	if !w.LastSeen().Before(cutoff) {
		return false
	}
	w.closed = true
	return true
}

// Manager 工作区注册表，后台清理长时间空闲的工作区
// 工作区登记在存储中，本进程未持有的工作区按需从存储恢复
type Manager struct {
	idleTTL       time.Duration
	sweepInterval time.Duration

	form       *essay.Form
	generator  essay.Generator
	responder  chat.Responder
	themes     *theme.Controller
	store      repository.WorkspaceRepository
	history    repository.EssayHistoryRepository
	transcript repository.ChatTranscriptRepository
	tx         repository.Transactor

	mu         sync.RWMutex
	workspaces map[string]*Workspace
	restoring  singleflight.Group
	running    bool
	stopCh     chan struct{}
	done       chan struct{}

	now func() time.Time
}

// NewManager 创建工作区管理器
func NewManager(
	cfg config.WorkspaceConfig,
	form *essay.Form,
	generator essay.Generator,
	responder chat.Responder,
	themes *theme.Controller,
	store repository.WorkspaceRepository,
	history repository.EssayHistoryRepository,
	transcript repository.ChatTranscriptRepository,
	tx repository.Transactor,
) *Manager {
	m := &Manager{
		idleTTL:       cfg.IdleTTL,
		sweepInterval: cfg.SweepInterval,
		form:          form,
		generator:     generator,
		responder:     responder,
		themes:        themes,
		store:         store,
		history:       history,
		transcript:    transcript,
		tx:            tx,
		workspaces:    make(map[string]*Workspace),
		now:           time.Now,
	}
	if m.idleTTL <= 0 {
		m.idleTTL = defaultIdleTTL
	}
	if m.sweepInterval <= 0 {
		m.sweepInterval = defaultSweepInterval
	}
	return m
}

// Create 新建工作区，返回解析后的主题
func (m *Manager) Create(ctx context.Context, clientID string, prefersDark bool) (*Workspace, entity.Theme, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}

	t, err := m.themes.Resolve(ctx, clientID, prefersDark)
	if err != nil {
		return nil, "", err
	}

	now := m.now()
	record := &entity.WorkspaceRecord{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := m.store.Create(ctx, record); err != nil {
		return nil, "", errors.Wrap(err, errors.CodeDatabaseError, "failed to register workspace")
	}

	widget, err := chat.NewWidget(ctx, record.ID, m.responder, m.transcript)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeDatabaseError, "failed to initialize chat")
	}

	ws, n := m.register(m.newWorkspace(record, essay.NewLifecycle(record.ID, m.form, m.generator, m.history), widget))

	metrics.WorkspacesActive.Set(float64(n))
	logger.Info(ctx, "workspace created", "workspace_id", ws.ID, "client_id", clientID)
	return ws, t, nil
}

func (m *Manager) newWorkspace(record *entity.WorkspaceRecord, lifecycle *essay.Lifecycle, widget *chat.Widget) *Workspace {
	ws := &Workspace{
		ID:        record.ID,
		ClientID:  record.ClientID,
		CreatedAt: record.CreatedAt,
		Essay:     lifecycle,
		Chat:      widget,
	}
	seen := m.now()
	if record.LastSeenAt.After(seen) {
		seen = record.LastSeenAt
	}
	ws.touch(seen)
	ws.lastPersisted.Store(record.LastSeenAt.UnixNano())
	return ws
}

// register 登记到本进程，已存在时保留并返回先登记的实例
func (m *Manager) register(ws *Workspace) (*Workspace, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.workspaces[ws.ID]; ok {
		return cur, len(m.workspaces)
	}
	m.workspaces[ws.ID] = ws
	return ws, len(m.workspaces)
}

func (m *Manager) lookup(id string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.workspaces[id]
	return ws, ok
}

// Get 获取工作区并刷新访问时间
func (m *Manager) Get(ctx context.Context, id string) (*Workspace, error) {
	ws, ok := m.lookup(id)
	if !ok {
		var err error
		ws, err = m.restore(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	now := m.now()
	ws.touch(now)
	if now.Sub(time.Unix(0, ws.lastPersisted.Load())) >= touchPersistInterval {
		ws.lastPersisted.Store(now.UnixNano())
		if err := m.store.Touch(ctx, id, now); err != nil {
			logger.Warn(ctx, "failed to persist workspace access time", "workspace_id", id, "error", err.Error())
		}
	}
	return ws, nil
}

// restore 从存储恢复本进程未持有的工作区（进程重启或由其他实例创建）
func (m *Manager) restore(ctx context.Context, id string) (*Workspace, error) {
	v, err, _ := m.restoring.Do(id, func() (any, error) {
		if ws, ok := m.lookup(id); ok {
			return ws, nil
		}

		record, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load workspace")
		}
		if record == nil {
			return nil, errors.ErrWorkspaceNotFound
		}

		lifecycle := essay.NewLifecycle(id, m.form, m.generator, m.history)
		if err := lifecycle.Restore(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to restore essay history")
		}
		widget, err := chat.RestoreWidget(ctx, id, m.responder, m.transcript)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to restore chat")
		}

		ws, n := m.register(m.newWorkspace(record, lifecycle, widget))

		metrics.WorkspacesActive.Set(float64(n))
		logger.Info(ctx, "workspace restored", "workspace_id", id, "messages", len(widget.Snapshot().Messages))
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Workspace), nil
}

// Close 关闭工作区并删除其历史与聊天记录
// 有在途调用时立即拒绝新调用，数据在在途调用结束后删除
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	ws, ok := m.workspaces[id]
	delete(m.workspaces, id)
	n := len(m.workspaces)
	m.mu.Unlock()

	if !ok {
		record, err := m.store.Get(ctx, id)
		if err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to load workspace")
		}
		if record == nil {
			return errors.ErrWorkspaceNotFound
		}
		return m.purge(ctx, id)
	}
	metrics.WorkspacesActive.Set(float64(n))

	purgeCtx := context.WithoutCancel(ctx)
	if ws.seal(func() {
		if err := m.purge(purgeCtx, id); err != nil {
			logger.Error(purgeCtx, "failed to purge closed workspace", err, "workspace_id", id)
		}
	}) {
		return m.purge(ctx, id)
	}

	// 先删登记，关闭后不能再被恢复
	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to discard workspace")
	}
	logger.Info(ctx, "workspace closed with calls in flight, purge deferred", "workspace_id", id)
	return nil
}

func (m *Manager) purge(ctx context.Context, id string) error {
	err := m.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := m.history.DeleteWorkspace(ctx, id); err != nil {
			return fmt.Errorf("delete essay history: %w", err)
		}
		if err := m.transcript.DeleteWorkspace(ctx, id); err != nil {
			return fmt.Errorf("delete chat transcript: %w", err)
		}
		if err := m.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete workspace record: %w", err)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to discard workspace data")
	}
	return nil
}

// Len 当前进程持有的工作区数量
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// Sweep 清理空闲超过 idleTTL 的工作区，有在途调用的工作区不会被清理
// 先处理本进程持有的工作区，再处理存储中遗留的空闲记录
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.idleTTL)
	expired := 0

	m.mu.RLock()
	var candidates []*Workspace
	for _, ws := range m.workspaces {
		if ws.LastSeen().Before(cutoff) {
			candidates = append(candidates, ws)
		}
	}
	m.mu.RUnlock()

	for _, ws := range candidates {
		record, err := m.store.Get(ctx, ws.ID)
		if err != nil {
			logger.Error(ctx, "failed to load workspace record", err, "workspace_id", ws.ID)
			continue
		}
		// 其他实例近期访问过
		if record != nil && !record.LastSeenAt.Before(cutoff) {
			ws.touch(record.LastSeenAt)
			continue
		}
		if !ws.trySeal(cutoff) {
			continue
		}
		m.evict(ws.ID)
		if m.expire(ctx, ws.ID) {
			expired++
		}
	}

	records, err := m.store.ListIdle(ctx, cutoff, sweepBatchSize)
	if err != nil {
		logger.Error(ctx, "failed to list idle workspaces", err)
	}
	for _, record := range records {
		if local, ok := m.lookup(record.ID); ok {
			// 本进程的访问时间可能尚未写回
			if local.LastSeen().After(record.LastSeenAt) {
				if err := m.store.Touch(ctx, record.ID, local.LastSeen()); err != nil {
					logger.Warn(ctx, "failed to persist workspace access time", "workspace_id", record.ID, "error", err.Error())
				}
			}
			continue
		}
		if m.expire(ctx, record.ID) {
			expired++
		}
	}

	active := m.Len()
	metrics.WorkspacesActive.Set(float64(active))
	if expired > 0 {
		logger.Info(ctx, "expired idle workspaces", "count", expired, "active", active)
	}
	return expired
}

func (m *Manager) evict(id string) {
	m.mu.Lock()
	delete(m.workspaces, id)
	m.mu.Unlock()
}

func (m *Manager) expire(ctx context.Context, id string) bool {
	if err := m.purge(ctx, id); err != nil {
		logger.Error(ctx, "failed to purge expired workspace", err, "workspace_id", id)
		return false
	}
	metrics.WorkspacesExpired.Inc()
	return true
}

// Start 启动后台清理，启动时先清理一次存储中的遗留工作区
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})
	stopCh, done := m.stopCh, m.done
	m.mu.Unlock()

	go m.run(ctx, stopCh, done)
}

// Stop 停止后台清理并等待退出
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	done := m.done
	m.mu.Unlock()

	<-done
}

func (m *Manager) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	m.Sweep(ctx)

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}
