// Package prompt 管理内置提示词模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptEssayV1          PromptID = "essay_v1"
	PromptLiteraryExpertV1 PromptID = "literary_expert_v1"
)

// Rendered 渲染后的提示词
type Rendered struct {
	System string
	User   string
}

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}

	var msgs []schema.MessagesTemplate
	if systemPath != "" {
		system, err := readEmbeddedText(systemPath)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, schema.SystemMessage(system))
	}
	if userPath != "" {
		user, err := readEmbeddedText(userPath)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, schema.UserMessage(user))
	}

	tpl := einoprompt.FromMessages(schema.FString, msgs...)
	r.cache[id] = tpl
	return tpl, nil
}

// Render 以变量填充模板，返回 system/user 文本
func (r *Registry) Render(ctx context.Context, id PromptID, vars map[string]any) (Rendered, error) {
	tpl, err := r.ChatTemplate(id)
	if err != nil {
		return Rendered{}, err
	}

	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return Rendered{}, fmt.Errorf("format prompt %s: %w", id, err)
	}

	var out Rendered
	for _, m := range msgs {
		switch m.Role {
		case schema.System:
			out.System = m.Content
		case schema.User:
			out.User = m.Content
		}
	}
	return out, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptEssayV1:
		return "", "templates/essay_v1.user.txt", nil
	case PromptLiteraryExpertV1:
		return "templates/literary_expert_v1.system.txt", "", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
