package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ai-writer-api/internal/domain/service"
)

// MockGateway 确定性回显网关，用于本地运行与测试
type MockGateway struct {
	name  string
	model string

	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, req service.GenerateRequest) (string, error)
	ChatFunc     func(ctx context.Context, req service.ChatRequest) (string, error)
	generates    []service.GenerateRequest
	chats        []service.ChatRequest
}

// NewMockGateway 创建 mock 网关
func NewMockGateway(name, model string) *MockGateway {
	if model == "" {
		model = "mock"
	}
	return &MockGateway{name: name, model: model}
}

func (m *MockGateway) Configured() bool {
	return true
}

func (m *MockGateway) Provider() string {
	return m.name
}

func (m *MockGateway) Model() string {
	return m.model
}

func (m *MockGateway) Generate(ctx context.Context, req service.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.generates = append(m.generates, req)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return fmt.Sprintf("[%s] %s", m.model, firstLine(req.Prompt)), nil
}

func (m *MockGateway) Chat(ctx context.Context, req service.ChatRequest) (string, error) {
	m.mu.Lock()
	m.chats = append(m.chats, req)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return fmt.Sprintf("[%s] %s", m.model, req.Message), nil
}

// Generates 返回已记录的生成请求
func (m *MockGateway) Generates() []service.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.GenerateRequest(nil), m.generates...)
}

// Chats 返回已记录的对话请求
func (m *MockGateway) Chats() []service.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.ChatRequest(nil), m.chats...)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
