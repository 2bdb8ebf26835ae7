package essay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
	"ai-writer-api/internal/infrastructure/persistence/memory"
	apperrors "ai-writer-api/pkg/errors"
)

func newTestLifecycle(gw *fakeGateway) (*Lifecycle, *memory.EssayHistoryRepository) {
	history := memory.NewEssayHistoryRepository()
	return NewLifecycle("ws1", NewForm(), NewService(gw, nil), history), history
}

func submit(t *testing.T, l *Lifecycle, topic string) *entity.EssayResult {
	t.Helper()
	res, err := l.Submit(context.Background(), entity.EssayRequest{
		Topic:         topic,
		WordCountType: entity.WordCount500,
		Language:      "vi",
	})
	if err != nil {
		t.Fatalf("Submit(%q) error = %v", topic, err)
	}
	return res
}

func TestLifecycle_Scenario(t *testing.T) {
	gw := newFakeGateway("Ông Hai là một người nông dân yêu làng.")
	l, history := newTestLifecycle(gw)

	res := submit(t, l, "Phân tích nhân vật ông Hai")

	calls := gw.calls()
	if len(calls) != 1 {
		t.Fatalf("gateway calls = %d, expected 1", len(calls))
	}
	for _, want := range []string{"Phân tích nhân vật ông Hai", "500", outlineSelfOrganise} {
		if !strings.Contains(calls[0], want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	n, _ := history.Count(context.Background(), "ws1")
	if n != 1 {
		t.Fatalf("history size = %d, expected 1", n)
	}
	if res.Title != "Phân tích nhân vật ông Hai" {
		t.Errorf("Title = %q", res.Title)
	}
	if res.Status != entity.OutcomeGenerated {
		t.Errorf("Status = %q", res.Status)
	}

	snap := l.Snapshot()
	if snap.State != StateSuccess || snap.Current != res || snap.HistorySize != 1 {
		t.Errorf("Snapshot() = %+v", snap)
	}
}

func TestLifecycle_HistoryOrder(t *testing.T) {
	l, _ := newTestLifecycle(newFakeGateway("ok"))
	for _, topic := range []string{"A", "B", "C"} {
		submit(t, l, topic)
	}

	page, err := l.History(context.Background(), repository.NewPagination(1, 20))
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	var titles []string
	for _, e := range page.Items {
		titles = append(titles, e.Title)
	}
	if strings.Join(titles, ",") != "C,B,A" {
		t.Errorf("history = %v, expected [C B A]", titles)
	}
}

func TestLifecycle_Restore(t *testing.T) {
	gw := newFakeGateway("ok")
	l, history := newTestLifecycle(gw)
	submit(t, l, "A")
	submit(t, l, "B")

	restored := NewLifecycle("ws1", NewForm(), NewService(gw, nil), history)
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	snap := restored.Snapshot()
	if snap.HistorySize != 2 || snap.Current != nil || snap.State != StateIdle {
		t.Errorf("Snapshot() = %+v", snap)
	}

	submit(t, restored, "C")
	if restored.Snapshot().HistorySize != 3 {
		t.Errorf("HistorySize = %d, expected 3", restored.Snapshot().HistorySize)
	}
}

func TestLifecycle_FailureOutcomeStillRecorded(t *testing.T) {
	l, _ := newTestLifecycle(&fakeGateway{configured: true, err: errors.New("down")})
	res := submit(t, l, "A")

	if res.Content != TextGatewayError || res.Status != entity.OutcomeGatewayError {
		t.Errorf("result = %q/%q", res.Content, res.Status)
	}
	if l.Snapshot().State != StateSuccess {
		t.Errorf("State = %q, expected success", l.Snapshot().State)
	}
}

func TestLifecycle_RejectsInvalid(t *testing.T) {
	gw := newFakeGateway("ok")
	l, _ := newTestLifecycle(gw)

	_, err := l.Submit(context.Background(), entity.EssayRequest{Topic: " "})
	if !errors.Is(err, apperrors.ErrTopicRequired) {
		t.Fatalf("Submit() error = %v, expected ErrTopicRequired", err)
	}
	if len(gw.calls()) != 0 {
		t.Error("invalid request must not reach the gateway")
	}
	if l.Snapshot().State != StateIdle {
		t.Errorf("State = %q, expected idle", l.Snapshot().State)
	}
}

func TestLifecycle_SingleSubmissionInFlight(t *testing.T) {
	gw := newFakeGateway("ok")
	gw.block = make(chan struct{})
	l, history := newTestLifecycle(gw)

	done := make(chan error, 1)
	go func() {
		_, err := l.Submit(context.Background(), entity.EssayRequest{Topic: "A"})
		done <- err
	}()

	waitFor(t, func() bool { return l.Submitting() })

	if l.Current() != nil {
		t.Error("displayed result should be cleared while submitting")
	}

	_, err := l.Submit(context.Background(), entity.EssayRequest{Topic: "B"})
	if !errors.Is(err, apperrors.ErrSubmissionInFlight) {
		t.Fatalf("second Submit() error = %v, expected ErrSubmissionInFlight", err)
	}
	if _, err := l.Select(context.Background(), "anything"); !errors.Is(err, apperrors.ErrSubmissionInFlight) {
		t.Errorf("Select() while submitting error = %v", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	if n, _ := history.Count(context.Background(), "ws1"); n != 1 {
		t.Errorf("history size = %d, expected 1", n)
	}
	if len(gw.calls()) != 1 {
		t.Errorf("gateway calls = %d, expected 1", len(gw.calls()))
	}
}

func TestLifecycle_DetachedFromRequestCancellation(t *testing.T) {
	gw := newFakeGateway("ok")
	l, _ := newTestLifecycle(gw)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := l.Submit(ctx, entity.EssayRequest{Topic: "A"})
	if err != nil || res.Status != entity.OutcomeGenerated {
		t.Errorf("Submit() = %+v, %v", res, err)
	}
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, string, string, int, string) entity.Outcome {
	panic("generator exploded")
}

type failingHistory struct {
	*memory.EssayHistoryRepository
}

func (failingHistory) Prepend(context.Context, *entity.EssayResult) error {
	return errors.New("disk full")
}

func TestLifecycle_Failure(t *testing.T) {
	tests := []struct {
		name string
		l    *Lifecycle
	}{
		{"generator panic", NewLifecycle("ws1", nil, panickingGenerator{}, memory.NewEssayHistoryRepository())},
		{"history persist failure", NewLifecycle("ws1", nil, NewService(newFakeGateway("ok"), nil),
			failingHistory{memory.NewEssayHistoryRepository()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.l.Submit(context.Background(), entity.EssayRequest{Topic: "A"})
			if err == nil {
				t.Fatal("expected error")
			}
			snap := tt.l.Snapshot()
			if snap.State != StateFailure || snap.Current != nil || snap.HistorySize != 0 {
				t.Errorf("Snapshot() = %+v", snap)
			}
			if tt.l.Submitting() {
				t.Error("submission should be re-enabled after failure")
			}
		})
	}
}

func TestLifecycle_Select(t *testing.T) {
	l, _ := newTestLifecycle(newFakeGateway("ok"))
	a := submit(t, l, "A")
	submit(t, l, "B")

	before, _ := l.History(context.Background(), repository.NewPagination(1, 20))

	for i := 0; i < 2; i++ {
		got, err := l.Select(context.Background(), a.ID)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if got.ID != a.ID || l.Current().ID != a.ID {
			t.Errorf("Current() = %s, expected %s", l.Current().ID, a.ID)
		}
	}

	after, _ := l.History(context.Background(), repository.NewPagination(1, 20))
	if before.Total != after.Total || after.Items[0].Title != "B" {
		t.Error("select must not modify history")
	}

	if _, err := l.Select(context.Background(), "missing"); !errors.Is(err, apperrors.ErrEssayNotFound) {
		t.Errorf("Select(missing) error = %v, expected ErrEssayNotFound", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
