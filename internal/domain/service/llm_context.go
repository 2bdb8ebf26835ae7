package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const llmCtxKeyWorkflow llmCtxKey = "llm_workflow"

// 调用方标识
const (
	WorkflowEssay = "essay"
	WorkflowChat  = "chat"
)

// WithWorkflow 标记本次网关调用所属流程
func WithWorkflow(ctx context.Context, workflow string) context.Context {
	if ctx == nil {
		return nil
	}
	w := strings.TrimSpace(workflow)
	if w == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyWorkflow, w)
}

func WorkflowFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(llmCtxKeyWorkflow).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
