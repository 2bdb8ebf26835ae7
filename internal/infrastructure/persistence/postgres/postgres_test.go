package postgres

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/repository"
)

// newTestClient 连接 AIW_TEST_POSTGRES_HOST 指定的数据库，未设置时跳过
func newTestClient(t *testing.T) *Client {
	t.Helper()
	host := os.Getenv("AIW_TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("AIW_TEST_POSTGRES_HOST not set")
	}
	port, _ := strconv.Atoi(envOr("AIW_TEST_POSTGRES_PORT", "5432"))

	client, err := NewClient(&config.PostgresConfig{
		Host:         host,
		Port:         port,
		User:         envOr("AIW_TEST_POSTGRES_USER", "postgres"),
		Password:     envOr("AIW_TEST_POSTGRES_PASSWORD", "postgres"),
		Database:     envOr("AIW_TEST_POSTGRES_DB", "ai_writer_test"),
		SSLMode:      "disable",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return client
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestEssayResultRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	r := NewEssayResultRepository(client)
	ws := entity.NewID()
	t.Cleanup(func() { _ = r.DeleteWorkspace(ctx, ws) })

	for _, topic := range []string{"A", "B", "C"} {
		res := entity.NewEssayResult(ws, topic, entity.Outcome{Kind: entity.OutcomeGenerated, Text: topic})
		if err := r.Prepend(ctx, res); err != nil {
			t.Fatalf("Prepend(%s) error = %v", topic, err)
		}
	}

	page, err := r.List(ctx, ws, repository.NewPagination(1, 2))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Fatalf("page = total %d, items %d", page.Total, len(page.Items))
	}
	var titles []string
	for _, e := range page.Items {
		titles = append(titles, e.Title)
	}
	if strings.Join(titles, ",") != "C,B" {
		t.Errorf("first page = %v, expected [C B]", titles)
	}

	if n, _ := r.Count(ctx, ws); n != 3 {
		t.Errorf("Count() = %d, expected 3", n)
	}
	if got, err := r.Get(ctx, ws, "missing"); got != nil || err != nil {
		t.Errorf("Get(missing) = %+v, %v", got, err)
	}
}

func TestChatMessageRepository_Chronological(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	r := NewChatMessageRepository(client)
	ws := entity.NewID()
	t.Cleanup(func() { _ = r.DeleteWorkspace(ctx, ws) })

	for _, text := range []string{"greeting", "question", "answer"} {
		if err := r.Append(ctx, entity.NewChatMessage(ws, entity.ChatRoleModel, text)); err != nil {
			t.Fatalf("Append(%s) error = %v", text, err)
		}
	}

	msgs, err := r.List(ctx, ws)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var texts []string
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	if strings.Join(texts, ",") != "greeting,question,answer" {
		t.Errorf("List() = %v", texts)
	}
}

func TestWorkspaceRepository_TouchAndListIdle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	r := NewWorkspaceRepository(client)

	// 早于任何真实记录的时间段，避免与其他数据交叉
	base := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{entity.NewID(), entity.NewID()}
	for i, id := range ids {
		at := base.Add(time.Duration(i) * time.Minute)
		if err := r.Create(ctx, &entity.WorkspaceRecord{ID: id, ClientID: "c", CreatedAt: at, LastSeenAt: at}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		id := id
		t.Cleanup(func() { _ = r.Delete(ctx, id) })
	}

	if err := r.Touch(ctx, ids[0], base.Add(time.Hour)); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	_ = r.Touch(ctx, ids[0], base)
	got, err := r.Get(ctx, ids[0])
	if err != nil || got == nil || !got.LastSeenAt.Equal(base.Add(time.Hour)) {
		t.Errorf("Get() = %+v, %v", got, err)
	}

	idle, err := r.ListIdle(ctx, base.Add(30*time.Minute), 10)
	if err != nil {
		t.Fatalf("ListIdle() error = %v", err)
	}
	if len(idle) != 1 || idle[0].ID != ids[1] {
		t.Errorf("ListIdle() = %+v, expected only %s", idle, ids[1])
	}

	tx := NewTxManager(client)
	err = tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := r.Delete(ctx, ids[1]); err != nil {
			return err
		}
		return errors.New("rollback")
	})
	if err == nil {
		t.Fatal("WithTransaction() should return the callback error")
	}
	if got, _ := r.Get(ctx, ids[1]); got == nil {
		t.Error("delete inside a rolled back transaction must not persist")
	}
}
