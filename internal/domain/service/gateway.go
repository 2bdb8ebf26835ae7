// Package service 定义领域服务端口
package service

import (
	"context"

	"ai-writer-api/internal/domain/entity"
)

// GenerateRequest 单轮无状态生成请求
type GenerateRequest struct {
	Model  string
	Prompt string
}

// ChatRequest 多轮对话请求，每次调用都会新建会话
type ChatRequest struct {
	Model             string
	SystemInstruction string
	History           []entity.ChatTurn
	Message           string
}

// LanguageModelGateway 外部大模型网关
type LanguageModelGateway interface {
	// Configured 凭据是否已配置，未配置时不应发起调用
	Configured() bool
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
	// Provider 提供商名称，用于日志与指标
	Provider() string
	// Model 默认模型名
	Model() string
}
