// Package llm 为大模型网关调用提供指标与链路追踪
package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-writer-api/internal/domain/service"
	"ai-writer-api/pkg/metrics"
)

const (
	operationGenerate = "generate"
	operationChat     = "chat"
)

var tracer = otel.Tracer("llm")

// InstrumentedGateway 包装网关，记录每次调用的耗时、结果与 Span
type InstrumentedGateway struct {
	next service.LanguageModelGateway
}

// Instrument 返回带观测能力的网关
func Instrument(next service.LanguageModelGateway) service.LanguageModelGateway {
	if next == nil {
		return nil
	}
	if ig, ok := next.(*InstrumentedGateway); ok {
		return ig
	}
	return &InstrumentedGateway{next: next}
}

func (g *InstrumentedGateway) Configured() bool {
	return g.next.Configured()
}

func (g *InstrumentedGateway) Provider() string {
	return g.next.Provider()
}

func (g *InstrumentedGateway) Model() string {
	return g.next.Model()
}

func (g *InstrumentedGateway) Generate(ctx context.Context, req service.GenerateRequest) (string, error) {
	modelName := g.modelOr(req.Model)
	ctx, span := g.start(ctx, operationGenerate, modelName,
		attribute.Int("llm.prompt_chars", len(req.Prompt)))
	start := time.Now()

	out, err := g.next.Generate(ctx, req)
	g.finish(span, operationGenerate, modelName, start, out, err)
	return out, err
}

func (g *InstrumentedGateway) Chat(ctx context.Context, req service.ChatRequest) (string, error) {
	modelName := g.modelOr(req.Model)
	ctx, span := g.start(ctx, operationChat, modelName,
		attribute.Int("llm.history_turns", len(req.History)))
	start := time.Now()

	out, err := g.next.Chat(ctx, req)
	g.finish(span, operationChat, modelName, start, out, err)
	return out, err
}

func (g *InstrumentedGateway) start(ctx context.Context, op, modelName string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs := append([]attribute.KeyValue{
		attribute.String("llm.workflow", service.WorkflowFromContext(ctx)),
		attribute.String("llm.provider", g.next.Provider()),
		attribute.String("llm.model", modelName),
	}, extra...)
	return tracer.Start(ctx, "llm."+op, trace.WithAttributes(attrs...))
}

func (g *InstrumentedGateway) finish(span trace.Span, op, modelName string, start time.Time, out string, err error) {
	defer span.End()

	provider := g.next.Provider()
	metrics.LLMCallDuration.WithLabelValues(op, provider, modelName).Observe(time.Since(start).Seconds())

	status := "success"
	switch {
	case err != nil:
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case out == "":
		status = "empty"
	}
	span.SetAttributes(attribute.Int("llm.response_chars", len(out)))
	metrics.LLMCallTotal.WithLabelValues(op, provider, modelName, status).Inc()
}

func (g *InstrumentedGateway) modelOr(m string) string {
	if m != "" {
		return m
	}
	return g.next.Model()
}
