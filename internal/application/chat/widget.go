package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
	"ai-writer-api/pkg/errors"
	"ai-writer-api/pkg/logger"
	"ai-writer-api/pkg/metrics"
)

var (
	ErrSendInFlight = errors.ErrChatBusy
	ErrWidgetClosed = errors.ErrChatClosed
)

// Status 窗口内发送状态
type Status string

const (
	StatusReady   Status = "ready"
	StatusSending Status = "sending"
)

// Snapshot 窗口快照
// Revision 在消息变化或打开窗口时递增，客户端据此滚动到 ScrollAnchor
type Snapshot struct {
	Open         bool                  `json:"open"`
	Status       Status                `json:"status"`
	Typing       bool                  `json:"typing"`
	Draft        string                `json:"draft"`
	Messages     []*entity.ChatMessage `json:"messages"`
	Revision     uint64                `json:"revision"`
	ScrollAnchor string                `json:"scroll_anchor,omitempty"`
}

// Widget 单个工作区的聊天窗口
type Widget struct {
	workspaceID string
	responder   Responder
	transcript  repository.ChatTranscriptRepository

	mu       sync.Mutex
	open     bool
	sending  bool
	draft    string
	messages []*entity.ChatMessage
	revision uint64
}

// NewWidget 创建聊天窗口并写入问候语
func NewWidget(ctx context.Context, workspaceID string, responder Responder, transcript repository.ChatTranscriptRepository) (*Widget, error) {
	w := &Widget{
		workspaceID: workspaceID,
		responder:   responder,
		transcript:  transcript,
	}
	if err := w.seed(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// RestoreWidget 从聊天记录恢复窗口，记录为空时重新写入问候语
// 窗口开关与草稿不持久化，恢复后为关闭状态
func RestoreWidget(ctx context.Context, workspaceID string, responder Responder, transcript repository.ChatTranscriptRepository) (*Widget, error) {
	msgs, err := transcript.List(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load chat transcript: %w", err)
	}

	w := &Widget{
		workspaceID: workspaceID,
		responder:   responder,
		transcript:  transcript,
	}
	if len(msgs) == 0 {
		if err := w.seed(ctx); err != nil {
			return nil, err
		}
		return w, nil
	}
	w.messages = msgs
	return w, nil
}

func (w *Widget) seed(ctx context.Context) error {
	greeting := entity.NewChatMessage(w.workspaceID, entity.ChatRoleModel, Greeting)
	if err := w.transcript.Append(ctx, greeting); err != nil {
		return fmt.Errorf("seed chat greeting: %w", err)
	}
	w.messages = []*entity.ChatMessage{greeting}
	return nil
}

func (w *Widget) Open() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	w.revision++
	return w.snapshotLocked()
}

func (w *Widget) Close() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	return w.snapshotLocked()
}

func (w *Widget) Toggle() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
	if w.open {
		w.revision++
	}
	return w.snapshotLocked()
}

// SetDraft 保存输入框内容
func (w *Widget) SetDraft(text string) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = text
	return w.snapshotLocked()
}

// Send 发送一条消息并等待回复
// text 为空时发送草稿；在途发送期间的再次发送为空操作
func (w *Widget) Send(ctx context.Context, text string) (*entity.ChatMessage, error) {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		metrics.ChatSendsRejected.WithLabelValues("closed").Inc()
		return nil, ErrWidgetClosed
	}
	if w.sending {
		w.mu.Unlock()
		metrics.ChatSendsRejected.WithLabelValues("in_flight").Inc()
		return nil, ErrSendInFlight
	}
	if text == "" {
		text = w.draft
	}
	// 只在判空时去除空白，原文照发
	if strings.TrimSpace(text) == "" {
		w.mu.Unlock()
		metrics.ChatSendsRejected.WithLabelValues("empty").Inc()
		return nil, errors.ErrEmptyMessage
	}

	// 历史取发送前的完整记录（含问候语）
	history := entity.TurnsFromMessages(w.messages)
	userMsg := entity.NewChatMessage(w.workspaceID, entity.ChatRoleUser, text)
	w.messages = append(w.messages, userMsg)
	w.draft = ""
	w.sending = true
	w.revision++
	w.mu.Unlock()

	// 客户端断开不影响在途回复
	callCtx := context.WithoutCancel(ctx)
	w.persist(callCtx, userMsg)

	outcome := w.reply(callCtx, history, text)
	botMsg := entity.NewChatMessage(w.workspaceID, entity.ChatRoleModel, outcome.DisplayText())

	w.mu.Lock()
	w.messages = append(w.messages, botMsg)
	w.sending = false
	w.revision++
	w.mu.Unlock()

	w.persist(callCtx, botMsg)
	return botMsg, nil
}

func (w *Widget) reply(ctx context.Context, history []entity.ChatTurn, text string) (out entity.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "chat responder panicked", fmt.Errorf("%v", r), "workspace_id", w.workspaceID)
			out = entity.Outcome{Kind: entity.OutcomeGatewayError, Text: TextGatewayError}
		}
	}()
	return w.responder.Reply(ctx, history, text)
}

// persist 写入记录失败只记日志，不影响窗口状态
func (w *Widget) persist(ctx context.Context, msg *entity.ChatMessage) {
	if err := w.transcript.Append(ctx, msg); err != nil {
		logger.Error(ctx, "failed to persist chat message", err,
			"workspace_id", w.workspaceID,
			"message_id", msg.ID)
	}
}

// Sending 是否有在途发送
func (w *Widget) Sending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sending
}

// Snapshot 返回窗口快照
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Widget) snapshotLocked() Snapshot {
	status := StatusReady
	if w.sending {
		status = StatusSending
	}
	s := Snapshot{
		Open:     w.open,
		Status:   status,
		Typing:   w.sending,
		Draft:    w.draft,
		Messages: append([]*entity.ChatMessage(nil), w.messages...),
		Revision: w.revision,
	}
	if n := len(w.messages); n > 0 {
		s.ScrollAnchor = w.messages[n-1].ID
	}
	return s
}
