package llm

import (
	"context"
	"errors"
	"testing"

	"ai-writer-api/internal/config"
	"ai-writer-api/internal/domain/entity"
	"ai-writer-api/internal/domain/service"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers: map[string]config.LLMProviderConfig{
				"gemini": {Kind: KindGemini},
				"local":  {Kind: KindMock, Model: "echo"},
				"compat": {Kind: KindOpenAI, Model: "gpt-4o-mini"},
				"weird":  {Kind: "carrier-pigeon"},
			},
		},
	}
}

func TestGatewayFactory_Default(t *testing.T) {
	f := NewGatewayFactory(testConfig())

	g, err := f.Default(context.Background())
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if g.Provider() != "gemini" {
		t.Errorf("Provider() = %q, expected %q", g.Provider(), "gemini")
	}
	if g.Model() != DefaultGeminiModel {
		t.Errorf("Model() = %q, expected %q", g.Model(), DefaultGeminiModel)
	}
	if g.Configured() {
		t.Error("gateway without api key should not be configured")
	}

	_, err = g.Generate(context.Background(), service.GenerateRequest{Prompt: "x"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate() error = %v, expected ErrNotConfigured", err)
	}

	again, _ := f.Default(context.Background())
	if again != g {
		t.Error("factory should cache gateway instances")
	}
}

func TestGatewayFactory_Get(t *testing.T) {
	f := NewGatewayFactory(testConfig())

	tests := []struct {
		name       string
		provider   string
		wantErr    bool
		configured bool
	}{
		{"mock", "local", false, true},
		{"openai without key", "compat", false, false},
		{"unknown provider", "missing", true, false},
		{"unsupported kind", "weird", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := f.Get(context.Background(), tt.provider)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get(%q) error = %v, wantErr %v", tt.provider, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if g.Configured() != tt.configured {
				t.Errorf("Configured() = %v, expected %v", g.Configured(), tt.configured)
			}
		})
	}
}

func TestMockGateway(t *testing.T) {
	m := NewMockGateway("local", "echo")

	out, err := m.Generate(context.Background(), service.GenerateRequest{Prompt: "line one\nline two"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "[echo] line one" {
		t.Errorf("Generate() = %q, expected %q", out, "[echo] line one")
	}

	out, _ = m.Chat(context.Background(), service.ChatRequest{Message: "hi"})
	if out != "[echo] hi" {
		t.Errorf("Chat() = %q, expected %q", out, "[echo] hi")
	}

	if len(m.Generates()) != 1 || len(m.Chats()) != 1 {
		t.Errorf("recorded calls = %d/%d, expected 1/1", len(m.Generates()), len(m.Chats()))
	}
}

func TestToSchemaHistory(t *testing.T) {
	msgs := toSchemaHistory([]entity.ChatTurn{
		{Role: entity.ChatRoleModel, Parts: []string{"xin chào"}},
		{Role: entity.ChatRoleUser, Parts: []string{"a", "b"}},
	})
	if len(msgs) != 2 {
		t.Fatalf("len = %d, expected 2", len(msgs))
	}
	if msgs[0].Role != "assistant" {
		t.Errorf("msgs[0].Role = %q, expected assistant", msgs[0].Role)
	}
	if msgs[1].Role != "user" || msgs[1].Content != "a\nb" {
		t.Errorf("msgs[1] = %q/%q", msgs[1].Role, msgs[1].Content)
	}
}

func TestToGenaiHistory(t *testing.T) {
	h := toGenaiHistory([]entity.ChatTurn{
		{Role: entity.ChatRoleModel, Parts: []string{"xin chào"}},
		{Role: entity.ChatRoleUser, Parts: []string{"hỏi"}},
	})
	if len(h) != 2 {
		t.Fatalf("len = %d, expected 2", len(h))
	}
	if h[0].Role != "model" || h[1].Role != "user" {
		t.Errorf("roles = %q, %q", h[0].Role, h[1].Role)
	}
	if h[0].Parts[0].Text != "xin chào" {
		t.Errorf("text = %q", h[0].Parts[0].Text)
	}
}
