package llm

import (
	"context"
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ai-writer-api/pkg/metrics"
)

var initOnce sync.Once

// InitEino 注册 Eino 全局 callbacks（进程级一次），上报 OpenAI 兼容端点返回的 Token 用量
func InitEino() {
	initOnce.Do(func() {
		handler := cbtemplate.NewHandlerHelper().
			ChatModel(newChatModelCallbackHandler()).
			Handler()
		einocallbacks.AppendGlobalHandlers(handler)
	})
}

func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocallbacks.RunInfo, output *model.CallbackOutput) context.Context {
			if output == nil || output.TokenUsage == nil {
				return ctx
			}

			provider := ""
			if info != nil {
				provider = info.Name
			}
			modelName := ""
			if output.Config != nil {
				modelName = output.Config.Model
			}

			usage := output.TokenUsage
			metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(usage.PromptTokens))
			metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(usage.CompletionTokens))

			trace.SpanFromContext(ctx).SetAttributes(
				attribute.Int("llm.prompt_tokens", usage.PromptTokens),
				attribute.Int("llm.completion_tokens", usage.CompletionTokens),
			)
			return ctx
		},
	}
}
