package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/service"
)

type fakeGateway struct {
	mu         sync.Mutex
	configured bool
	response   string
	err        error
	block      chan struct{}
	requests   []service.ChatRequest
}

func (f *fakeGateway) Configured() bool { return f.configured }
func (f *fakeGateway) Provider() string { return "fake" }
func (f *fakeGateway) Model() string    { return "fake-model" }

func (f *fakeGateway) Generate(context.Context, service.GenerateRequest) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeGateway) Chat(ctx context.Context, req service.ChatRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.response, f.err
}

func (f *fakeGateway) calls() []service.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.ChatRequest(nil), f.requests...)
}

func TestService_Reply(t *testing.T) {
	tests := []struct {
		name     string
		gateway  *fakeGateway
		wantKind entity.OutcomeKind
		wantText string
		wantCall bool
	}{
		{"generated", &fakeGateway{configured: true, response: "Gợi ý: ..."}, entity.OutcomeGenerated, "Gợi ý: ...", true},
		{"empty", &fakeGateway{configured: true, response: ""}, entity.OutcomeFallback, TextFallback, true},
		{"error", &fakeGateway{configured: true, err: errors.New("timeout")}, entity.OutcomeGatewayError, TextGatewayError, true},
		{"missing credential", &fakeGateway{configured: false}, entity.OutcomeConfigError, TextConfigError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewService(tt.gateway, nil).Reply(context.Background(), nil, "Xin chào")
			if out.Kind != tt.wantKind {
				t.Errorf("Kind = %q, expected %q", out.Kind, tt.wantKind)
			}
			if out.DisplayText() != tt.wantText {
				t.Errorf("DisplayText() = %q, expected %q", out.DisplayText(), tt.wantText)
			}
			if got := len(tt.gateway.calls()) > 0; got != tt.wantCall {
				t.Errorf("gateway called = %v, expected %v", got, tt.wantCall)
			}
		})
	}
}

func TestService_ReplyRequestShape(t *testing.T) {
	gw := &fakeGateway{configured: true, response: "ok"}
	history := []entity.ChatTurn{
		{Role: entity.ChatRoleModel, Parts: []string{Greeting}},
		{Role: entity.ChatRoleUser, Parts: []string{"câu hỏi 1"}},
		{Role: entity.ChatRoleModel, Parts: []string{"trả lời 1"}},
	}

	NewService(gw, nil).Reply(context.Background(), history, "câu hỏi 2")

	calls := gw.calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, expected 1", len(calls))
	}
	req := calls[0]
	if !strings.Contains(req.SystemInstruction, "chuyên gia văn học") || !strings.Contains(req.SystemInstruction, "Tiếng Việt") {
		t.Errorf("SystemInstruction = %q", req.SystemInstruction)
	}
	if len(req.History) != 3 || req.History[0].Parts[0] != Greeting {
		t.Errorf("History = %+v", req.History)
	}
	if req.Message != "câu hỏi 2" {
		t.Errorf("Message = %q", req.Message)
	}
}
