package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-writer-api/internal/application/essay"
	"ai-writer-api/internal/application/theme"
	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/infrastructure/persistence/memory"
	apperrors "ai-writer-api/pkg/errors"
)

type stubGenerator struct {
	block chan struct{}
}

func (g stubGenerator) Generate(ctx context.Context, topic, outline string, wordCount int, language string) entity.Outcome {
	if g.block != nil {
		<-g.block
	}
	return entity.Outcome{Kind: entity.OutcomeGenerated, Text: "bài văn về " + topic}
}

type stubResponder struct{}

func (stubResponder) Reply(ctx context.Context, history []entity.ChatTurn, message string) entity.Outcome {
	return entity.Outcome{Kind: entity.OutcomeGenerated, Text: "ok"}
}

type fixture struct {
	m          *Manager
	store      *memory.WorkspaceRepository
	history    *memory.EssayHistoryRepository
	transcript *memory.ChatTranscriptRepository
	prefs      *memory.PreferenceRepository
	clock      *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture(gen essay.Generator) *fixture {
	f := &fixture{
		store:      memory.NewWorkspaceRepository(),
		history:    memory.NewEssayHistoryRepository(),
		transcript: memory.NewChatTranscriptRepository(),
		prefs:      memory.NewPreferenceRepository(),
		clock:      &fakeClock{now: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)},
	}
	f.m = f.newManager(gen)
	return f
}

// newManager 共享存储的另一个管理器，相当于重启后的进程或另一个实例
func (f *fixture) newManager(gen essay.Generator) *Manager {
	m := NewManager(
		config.WorkspaceConfig{IdleTTL: time.Hour, SweepInterval: time.Minute},
		essay.NewForm(),
		gen,
		stubResponder{},
		theme.NewController(f.prefs),
		f.store,
		f.history,
		f.transcript,
		memory.NewTxManager(),
	)
	m.now = f.clock.Now
	return m
}

func waitBusy(t *testing.T, ws *Workspace) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !ws.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("submission never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManager_CreateGetClose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	ws, th, err := f.m.Create(ctx, "client-1", true)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if th != entity.ThemeDark {
		t.Errorf("theme = %q, expected dark", th)
	}
	if ws.ClientID != "client-1" || ws.Essay == nil || ws.Chat == nil {
		t.Fatalf("workspace = %+v", ws)
	}
	if len(ws.Chat.Snapshot().Messages) != 1 {
		t.Error("chat should be seeded with a greeting")
	}

	got, err := f.m.Get(ctx, ws.ID)
	if err != nil || got != ws {
		t.Fatalf("Get() = %v, %v", got, err)
	}

	if _, err := ws.Submit(ctx, entity.EssayRequest{Topic: "A"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := f.m.Close(ctx, ws.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := f.m.Get(ctx, ws.ID); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("Get() after close error = %v", err)
	}
	if n, _ := f.history.Count(ctx, ws.ID); n != 0 {
		t.Errorf("history after close = %d, expected 0", n)
	}
	if msgs, _ := f.transcript.List(ctx, ws.ID); len(msgs) != 0 {
		t.Errorf("transcript after close = %d, expected 0", len(msgs))
	}
	if err := f.m.Close(ctx, ws.ID); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("second Close() error = %v", err)
	}
	if rec, _ := f.store.Get(ctx, ws.ID); rec != nil {
		t.Errorf("workspace record after close = %+v", rec)
	}
}

func TestManager_GeneratesClientID(t *testing.T) {
	f := newFixture(stubGenerator{})
	ws, th, err := f.m.Create(context.Background(), "", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ws.ClientID == "" {
		t.Error("expected generated client id")
	}
	if th != entity.ThemeLight {
		t.Errorf("theme = %q, expected light", th)
	}
}

func TestManager_WorkspacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})
	a, _, _ := f.m.Create(ctx, "c", false)
	b, _, _ := f.m.Create(ctx, "c", false)

	_, _ = a.Essay.Submit(ctx, entity.EssayRequest{Topic: "A"})

	if b.Essay.Snapshot().HistorySize != 0 {
		t.Error("history must be scoped to its workspace")
	}
	if n, _ := f.history.Count(ctx, b.ID); n != 0 {
		t.Errorf("workspace b history = %d, expected 0", n)
	}
}

func TestManager_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	idle, _, _ := f.m.Create(ctx, "c", false)
	f.clock.Advance(50 * time.Minute)
	fresh, _, _ := f.m.Create(ctx, "c", false)
	f.clock.Advance(20 * time.Minute)

	if n := f.m.Sweep(ctx); n != 1 {
		t.Fatalf("Sweep() = %d, expected 1", n)
	}
	if _, err := f.m.Get(ctx, idle.ID); err == nil {
		t.Error("idle workspace should be expired")
	}
	if _, err := f.m.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh workspace should survive: %v", err)
	}
}

func TestManager_SweepSkipsBusyWorkspace(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	f := newFixture(stubGenerator{block: block})

	ws, _, _ := f.m.Create(ctx, "c", false)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ws.Submit(ctx, entity.EssayRequest{Topic: "A"})
	}()
	waitBusy(t, ws)

	f.clock.Advance(3 * time.Hour)
	if n := f.m.Sweep(ctx); n != 0 {
		t.Errorf("Sweep() = %d, expected 0 while busy", n)
	}

	close(block)
	<-done
	if n := f.m.Sweep(ctx); n != 1 {
		t.Errorf("Sweep() = %d, expected 1 after completion", n)
	}
}

func TestManager_CloseWhileSubmitting(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	f := newFixture(stubGenerator{block: block})

	ws, _, _ := f.m.Create(ctx, "c", false)
	done := make(chan error, 1)
	go func() {
		_, err := ws.Submit(ctx, entity.EssayRequest{Topic: "A"})
		done <- err
	}()
	waitBusy(t, ws)

	if err := f.m.Close(ctx, ws.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if f.m.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", f.m.Len())
	}
	if _, err := f.m.Get(ctx, ws.ID); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("Get() while draining error = %v", err)
	}
	if _, err := ws.Submit(ctx, entity.EssayRequest{Topic: "B"}); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("Submit() after close error = %v", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("in-flight Submit() error = %v", err)
	}

	if n, _ := f.history.Count(ctx, ws.ID); n != 0 {
		t.Errorf("history after drained close = %d, expected 0", n)
	}
	if msgs, _ := f.transcript.List(ctx, ws.ID); len(msgs) != 0 {
		t.Errorf("transcript after drained close = %d, expected 0", len(msgs))
	}
	if rec, _ := f.store.Get(ctx, ws.ID); rec != nil {
		t.Errorf("workspace record after drained close = %+v", rec)
	}
}

func TestManager_SweepRejectsLateSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	ws, _, _ := f.m.Create(ctx, "c", false)
	got, err := f.m.Get(ctx, ws.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	f.clock.Advance(2 * time.Hour)
	if n := f.m.Sweep(ctx); n != 1 {
		t.Fatalf("Sweep() = %d, expected 1", n)
	}

	if _, err := got.Submit(ctx, entity.EssayRequest{Topic: "A"}); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("Submit() on expired workspace error = %v", err)
	}
	if _, err := got.Send(ctx, "hi"); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("Send() on expired workspace error = %v", err)
	}
	if n, _ := f.history.Count(ctx, ws.ID); n != 0 {
		t.Errorf("history after sweep = %d, expected 0", n)
	}
}

func TestManager_RestoresFromStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	ws, _, _ := f.m.Create(ctx, "c", false)
	if _, err := ws.Submit(ctx, entity.EssayRequest{Topic: "A"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	ws.Chat.Open()
	if _, err := ws.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	want := ws.Chat.Snapshot().Messages

	restarted := f.newManager(stubGenerator{})
	got, err := restarted.Get(ctx, ws.ID)
	if err != nil {
		t.Fatalf("Get() on restarted manager error = %v", err)
	}
	if got.ClientID != "c" || restarted.Len() != 1 {
		t.Errorf("restored workspace = %+v, len %d", got, restarted.Len())
	}

	snap := got.Essay.Snapshot()
	if snap.HistorySize != 1 || snap.Current != nil || snap.State != essay.StateIdle {
		t.Errorf("essay snapshot = %+v", snap)
	}

	chatSnap := got.Chat.Snapshot()
	if chatSnap.Open {
		t.Error("restored chat should start closed")
	}
	if len(chatSnap.Messages) != len(want) {
		t.Fatalf("restored messages = %d, expected %d", len(chatSnap.Messages), len(want))
	}
	for i := range want {
		if chatSnap.Messages[i].ID != want[i].ID {
			t.Errorf("message[%d] = %q, expected %q", i, chatSnap.Messages[i].ID, want[i].ID)
		}
	}

	again, _ := restarted.Get(ctx, ws.ID)
	if again != got {
		t.Error("second Get() should return the restored instance")
	}

	if _, err := restarted.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrWorkspaceNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
}

func TestManager_CloseWorkspaceHeldElsewhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	ws, _, _ := f.m.Create(ctx, "c", false)
	_, _ = ws.Submit(ctx, entity.EssayRequest{Topic: "A"})

	other := f.newManager(stubGenerator{})
	if err := other.Close(ctx, ws.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n, _ := f.history.Count(ctx, ws.ID); n != 0 {
		t.Errorf("history after close = %d, expected 0", n)
	}
	if rec, _ := f.store.Get(ctx, ws.ID); rec != nil {
		t.Errorf("workspace record after close = %+v", rec)
	}
}

func TestManager_SweepPurgesOrphanedRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	orphan, _, _ := f.m.Create(ctx, "c", false)
	_, _ = orphan.Submit(ctx, entity.EssayRequest{Topic: "A"})
	f.clock.Advance(2 * time.Hour)

	restarted := f.newManager(stubGenerator{})
	held, _, _ := restarted.Create(ctx, "c", false)

	if n := restarted.Sweep(ctx); n != 1 {
		t.Fatalf("Sweep() = %d, expected 1", n)
	}
	if rec, _ := f.store.Get(ctx, orphan.ID); rec != nil {
		t.Errorf("orphaned record survived sweep: %+v", rec)
	}
	if n, _ := f.history.Count(ctx, orphan.ID); n != 0 {
		t.Errorf("orphaned history = %d, expected 0", n)
	}
	if msgs, _ := f.transcript.List(ctx, orphan.ID); len(msgs) != 0 {
		t.Errorf("orphaned transcript = %d, expected 0", len(msgs))
	}
	if _, err := restarted.Get(ctx, held.ID); err != nil {
		t.Errorf("held workspace should survive: %v", err)
	}
}

func TestManager_SweepKeepsWorkspaceSeenElsewhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})
	other := f.newManager(stubGenerator{})

	ws, _, _ := f.m.Create(ctx, "c", false)
	f.clock.Advance(90 * time.Minute)
	if _, err := other.Get(ctx, ws.ID); err != nil {
		t.Fatalf("Get() on other manager error = %v", err)
	}

	if n := f.m.Sweep(ctx); n != 0 {
		t.Errorf("Sweep() = %d, expected 0 for a workspace seen elsewhere", n)
	}
	if f.m.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", f.m.Len())
	}
}

func TestManager_StartSweepsImmediately(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})

	orphan, _, _ := f.m.Create(ctx, "c", false)
	f.clock.Advance(2 * time.Hour)

	restarted := f.newManager(stubGenerator{})
	restarted.sweepInterval = time.Hour
	restarted.Start(ctx)
	defer restarted.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec, _ := f.store.Get(ctx, orphan.ID)
		if rec == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("startup sweep did not purge the orphaned workspace")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManager_StartStop(t *testing.T) {
	f := newFixture(stubGenerator{})
	f.m.Start(context.Background())
	f.m.Start(context.Background())
	f.m.Stop()
	f.m.Stop()
}

func TestWorkspace_BusyWhileChatSending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(stubGenerator{})
	ws, _, _ := f.m.Create(ctx, "c", false)
	ws.Chat.Open()
	if _, err := ws.Send(ctx, "hi"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if ws.Busy() {
		t.Error("workspace should be idle after send completes")
	}
}
